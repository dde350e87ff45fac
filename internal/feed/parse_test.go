package feed

import (
	"testing"

	"github.com/stretchr/testify/require"

	"carsync-engine/internal/domain"
)

func TestParseFeedSlovakDialect(t *testing.T) {
	xml := `<?xml version="1.0" encoding="UTF-8"?>
<offers>
  <offer id="42">
    <brand>Škoda</brand>
    <model>Octavia</model>
    <cena>15 000</cena>
    <palivo>nafta</palivo>
  </offer>
</offers>`

	vehicles, skipped, err := ParseFeed([]byte(xml))
	require.NoError(t, err)
	require.Equal(t, 0, skipped)
	require.Len(t, vehicles, 1)

	v := vehicles[0]
	require.Equal(t, "42", v.ExternalID)
	require.Equal(t, "Škoda", v.Make)
	require.Equal(t, "Octavia", v.Model)
	require.Equal(t, 15000.0, v.Price)
	require.Equal(t, domain.FuelDiesel, v.FuelType)
	require.Equal(t, domain.TransmissionManual, v.Transmission)
	require.Equal(t, domain.StatusAvailable, v.Status)
	require.Equal(t, "Škoda Octavia", v.Title)
}

func TestParseFeedCzechContainer(t *testing.T) {
	xml := `<inzeraty>
  <inzerat>
    <id>abc-1</id>
    <znacka>BMW</znacka>
    <model>320d</model>
    <rok>2019</rok>
    <najazdene>85 000</najazdene>
    <prevodovka>automat</prevodovka>
  </inzerat>
</inzeraty>`

	vehicles, skipped, err := ParseFeed([]byte(xml))
	require.NoError(t, err)
	require.Equal(t, 0, skipped)
	require.Len(t, vehicles, 1)

	v := vehicles[0]
	require.Equal(t, "abc-1", v.ExternalID)
	require.Equal(t, 2019, v.Year)
	require.Equal(t, 85000, v.Mileage)
	require.Equal(t, domain.TransmissionAutomatic, v.Transmission)
}

func TestParseFeedFallbackDiscovery(t *testing.T) {
	// neither the root nor the item name is on the known lists; the first
	// repeated object-shaped child wins
	xml := `<export>
  <listing><id>7</id><make>Audi</make><model>A4</model></listing>
  <listing><id>8</id><make>Audi</make><model>A6</model></listing>
</export>`

	vehicles, skipped, err := ParseFeed([]byte(xml))
	require.NoError(t, err)
	require.Equal(t, 0, skipped)
	require.Len(t, vehicles, 2)
	require.Equal(t, "7", vehicles[0].ExternalID)
	require.Equal(t, "8", vehicles[1].ExternalID)
}

func TestParseFeedEmptyContainerIsNotAnError(t *testing.T) {
	vehicles, skipped, err := ParseFeed([]byte(`<offers></offers>`))
	require.NoError(t, err)
	require.Equal(t, 0, skipped)
	require.Empty(t, vehicles)
}

func TestParseFeedMalformedXML(t *testing.T) {
	_, _, err := ParseFeed([]byte(`<offers><offer id="1"`))
	require.Error(t, err)

	_, _, err = ParseFeed([]byte(`not xml at all`))
	require.Error(t, err)
}

func TestParseFeedDropsItemsMissingRequiredFields(t *testing.T) {
	xml := `<offers>
  <offer id="1"><brand>Seat</brand><model>Leon</model></offer>
  <offer><brand>Seat</brand><model>Ibiza</model></offer>
  <offer id="3"><model>Fabia</model></offer>
  <offer id="4"><brand>Seat</brand></offer>
</offers>`

	vehicles, skipped, err := ParseFeed([]byte(xml))
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	require.Equal(t, 3, skipped)
	require.Equal(t, "1", vehicles[0].ExternalID)
}

func TestParseFeedEnumDefaults(t *testing.T) {
	xml := `<offers>
  <offer id="1">
    <make>VW</make>
    <model>Golf</model>
    <palivo>nieco neznáme</palivo>
    <prevodovka>nieco neznáme</prevodovka>
    <karoseria>nieco neznáme</karoseria>
    <stav>nieco neznáme</stav>
  </offer>
</offers>`

	vehicles, _, err := ParseFeed([]byte(xml))
	require.NoError(t, err)
	require.Len(t, vehicles, 1)

	v := vehicles[0]
	require.Equal(t, domain.FuelPetrol, v.FuelType)
	require.Equal(t, domain.TransmissionManual, v.Transmission)
	require.Equal(t, domain.StatusAvailable, v.Status)
	// body type has no default: unrecognized stays unset
	require.Equal(t, domain.BodyType(""), v.BodyType)
}

func TestParseFeedRecognizedBodyType(t *testing.T) {
	xml := `<offers>
  <offer id="1"><make>VW</make><model>Passat</model><karoseria>Kombi</karoseria></offer>
</offers>`

	vehicles, _, err := ParseFeed([]byte(xml))
	require.NoError(t, err)
	require.Equal(t, domain.BodyEstate, vehicles[0].BodyType)
}

func TestParseFeedImages(t *testing.T) {
	xml := `<offers>
  <offer id="1">
    <make>VW</make><model>Golf</model>
    <images>
      <image>https://img.example/a.jpg</image>
      <image>https://img.example/a.jpg</image>
      <image><url>https://img.example/b.jpg</url><desc>front</desc></image>
      <image>/relative/c.jpg</image>
    </images>
    <fotky>
      <foto url="https://img.example/d.jpg"/>
      <foto>https://img.example/b.jpg</foto>
    </fotky>
  </offer>
</offers>`

	vehicles, _, err := ParseFeed([]byte(xml))
	require.NoError(t, err)
	require.Equal(t, []string{
		"https://img.example/a.jpg",
		"https://img.example/b.jpg",
		"https://img.example/d.jpg",
	}, vehicles[0].ImageURLs)
}

func TestParseFeedFeaturesAndDescription(t *testing.T) {
	xml := `<offers>
  <offer id="1">
    <make>VW</make><model>Golf</model>
    <vybava>
      <polozka>Klimatizácia</polozka>
      <polozka>ABS</polozka>
      <polozka>abs</polozka>
    </vybava>
    <popis><![CDATA[<p>Pekné <b>auto</b>, prvý majiteľ.</p>]]></popis>
  </offer>
</offers>`

	vehicles, _, err := ParseFeed([]byte(xml))
	require.NoError(t, err)

	v := vehicles[0]
	require.Equal(t, []string{"Klimatizácia", "ABS"}, v.Features)
	require.Equal(t, "Pekné auto, prvý majiteľ.", v.Description)
}

func TestParseFeedAttributeID(t *testing.T) {
	// attribute id outranks a child id element
	xml := `<cars>
  <car id="attr-1">
    <id>elem-1</id><make>Kia</make><model>Ceed</model>
  </car>
</cars>`

	vehicles, _, err := ParseFeed([]byte(xml))
	require.NoError(t, err)
	require.Equal(t, "attr-1", vehicles[0].ExternalID)
}
