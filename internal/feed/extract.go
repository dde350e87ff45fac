package feed

import (
	"strings"

	"carsync-engine/internal/domain"
)

// extractor tries to pull one field value out of a raw item. Extractors are
// pure and run in priority order; the first non-empty value wins.
type extractor func(item *xmlNode) (string, bool)

// attr reads an attribute off the item element itself (<offer id="42">).
func attr(name string) extractor {
	return func(item *xmlNode) (string, bool) {
		v := strings.TrimSpace(item.attrs[name])
		return v, v != ""
	}
}

// elem reads the text of the first child element with the given name.
func elem(name string) extractor {
	return func(item *xmlNode) (string, bool) {
		c := item.firstChild(name)
		if c == nil {
			return "", false
		}
		v := c.textValue()
		return v, v != ""
	}
}

func coalesce(item *xmlNode, extractors []extractor) string {
	for _, ex := range extractors {
		if v, ok := ex(item); ok {
			return v
		}
	}
	return ""
}

// Source field name variants per canonical field, English and Slovak/Czech,
// in priority order. Keeping these as data is the whole point: a new dialect
// is a new table row, not new control flow.
var (
	externalIDSources = []extractor{
		attr("id"),
		elem("id"), elem("external_id"), elem("externalid"), elem("vin"), elem("kod"), elem("code"),
	}
	titleSources = []extractor{
		elem("title"), elem("name"), elem("nazov"), elem("nazev"), elem("heading"),
	}
	makeSources = []extractor{
		elem("make"), elem("brand"), elem("znacka"), elem("vyrobca"), elem("manufacturer"),
	}
	modelSources = []extractor{
		elem("model"), elem("model_name"), elem("modelname"),
	}
	variantSources = []extractor{
		elem("variant"), elem("trim"), elem("verzia"), elem("verze"),
	}
	yearSources = []extractor{
		elem("year"), elem("rok"), elem("rok_vyroby"), elem("yearofmanufacture"),
	}
	priceSources = []extractor{
		elem("price"), elem("cena"), elem("cena_s_dph"), elem("pricewithvat"), elem("amount"),
	}
	mileageSources = []extractor{
		elem("mileage"), elem("km"), elem("najazdene"), elem("tachometer"), elem("odometer"),
	}
	fuelSources = []extractor{
		elem("fuel"), elem("fueltype"), elem("fuel_type"), elem("palivo"),
	}
	transmissionSources = []extractor{
		elem("transmission"), elem("gearbox"), elem("prevodovka"),
	}
	bodySources = []extractor{
		elem("body"), elem("bodytype"), elem("body_type"), elem("karoseria"), elem("karoserie"),
	}
	engineCapacitySources = []extractor{
		elem("enginecapacity"), elem("engine_capacity"), elem("objem"), elem("obsah"), elem("displacement"), elem("ccm"),
	}
	powerSources = []extractor{
		elem("power"), elem("vykon"), elem("power_kw"), elem("kw"),
	}
	colorSources = []extractor{
		elem("color"), elem("colour"), elem("farba"), elem("barva"),
	}
	doorsSources = []extractor{
		elem("doors"), elem("dvere"), elem("pocet_dveri"),
	}
	seatsSources = []extractor{
		elem("seats"), elem("sedadla"), elem("miest"),
	}
	descriptionSources = []extractor{
		elem("description"), elem("popis"), elem("text"), elem("desc"),
	}
	statusSources = []extractor{
		elem("status"), elem("stav"), elem("availability"),
	}
)

var featureContainerKeys = []string{"features", "vybava", "equipment", "extras"}

// extractVehicle maps one raw item to a canonical vehicle. Returns false
// when a required field (external id, make or model) is missing; such items
// are dropped by the caller.
func extractVehicle(item *xmlNode) (domain.CanonicalVehicle, bool) {
	externalID := coalesce(item, externalIDSources)
	mk := coalesce(item, makeSources)
	model := coalesce(item, modelSources)
	if externalID == "" || mk == "" || model == "" {
		return domain.CanonicalVehicle{}, false
	}

	v := domain.CanonicalVehicle{
		ExternalID:     externalID,
		Title:          coalesce(item, titleSources),
		Make:           mk,
		Model:          model,
		Variant:        coalesce(item, variantSources),
		Year:           parseRoundedInt(coalesce(item, yearSources)),
		Price:          parseDecimal(coalesce(item, priceSources)),
		Mileage:        parseRoundedInt(coalesce(item, mileageSources)),
		FuelType:       normalizeFuel(coalesce(item, fuelSources)),
		Transmission:   normalizeTransmission(coalesce(item, transmissionSources)),
		BodyType:       normalizeBody(coalesce(item, bodySources)),
		EngineCapacity: parseRoundedInt(coalesce(item, engineCapacitySources)),
		Power:          parseRoundedInt(coalesce(item, powerSources)),
		Color:          coalesce(item, colorSources),
		Doors:          parseRoundedInt(coalesce(item, doorsSources)),
		Seats:          parseRoundedInt(coalesce(item, seatsSources)),
		Description:    htmlToText(coalesce(item, descriptionSources)),
		Features:       collectFeatures(item),
		ImageURLs:      collectImages(item),
		Status:         normalizeStatus(coalesce(item, statusSources)),
	}

	if v.Title == "" {
		v.Title = cleanText(mk + " " + model + " " + v.Variant)
	}
	return v, true
}

func collectFeatures(item *xmlNode) []string {
	seen := map[string]bool{}
	var out []string
	add := func(raw string) {
		f := cleanText(raw)
		if f == "" || seen[strings.ToLower(f)] {
			return
		}
		seen[strings.ToLower(f)] = true
		out = append(out, f)
	}

	for _, key := range featureContainerKeys {
		for _, c := range item.childrenNamed(key) {
			if c.hasElementChildren() {
				for _, f := range c.children {
					add(f.textValue())
				}
				continue
			}
			// flat comma/semicolon separated list
			for _, f := range strings.FieldsFunc(c.textValue(), func(r rune) bool {
				return r == ',' || r == ';'
			}) {
				add(f)
			}
		}
	}
	return out
}
