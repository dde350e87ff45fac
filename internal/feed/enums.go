package feed

import (
	"strings"

	"carsync-engine/internal/domain"
)

// Synonym tables for enum normalization. Lookups are trimmed and
// case-insensitive. Fuel, transmission and status fall back to a default on
// an unrecognized value; body type deliberately does not — an empty body
// type means "the feed never stated a recognized value" and consumers
// depend on that asymmetry.

var fuelSynonyms = map[string]domain.FuelType{
	"petrol":   domain.FuelPetrol,
	"gasoline": domain.FuelPetrol,
	"benzin":   domain.FuelPetrol,
	"benzín":   domain.FuelPetrol,
	"diesel":   domain.FuelDiesel,
	"nafta":    domain.FuelDiesel,
	"electric": domain.FuelElectric,
	"elektro":  domain.FuelElectric,
	"ev":       domain.FuelElectric,
	"hybrid":   domain.FuelHybrid,
	"hev":      domain.FuelHybrid,
	"phev":     domain.FuelHybrid,
	"lpg":      domain.FuelLPG,
	"cng":      domain.FuelCNG,
}

var transmissionSynonyms = map[string]domain.Transmission{
	"manual":         domain.TransmissionManual,
	"manualna":       domain.TransmissionManual,
	"manuálna":       domain.TransmissionManual,
	"manualni":       domain.TransmissionManual,
	"mt":             domain.TransmissionManual,
	"automatic":      domain.TransmissionAutomatic,
	"automat":        domain.TransmissionAutomatic,
	"automaticka":    domain.TransmissionAutomatic,
	"automatická":    domain.TransmissionAutomatic,
	"at":             domain.TransmissionAutomatic,
	"dsg":            domain.TransmissionAutomatic,
	"semi-automatic": domain.TransmissionSemiAutomatic,
	"semi_automatic": domain.TransmissionSemiAutomatic,
	"semiautomat":    domain.TransmissionSemiAutomatic,
	"sekvencna":      domain.TransmissionSemiAutomatic,
}

var bodySynonyms = map[string]domain.BodyType{
	"sedan":       domain.BodySedan,
	"limuzina":    domain.BodySedan,
	"limuzína":    domain.BodySedan,
	"hatchback":   domain.BodyHatchback,
	"estate":      domain.BodyEstate,
	"wagon":       domain.BodyEstate,
	"combi":       domain.BodyEstate,
	"kombi":       domain.BodyEstate,
	"suv":         domain.BodySUV,
	"coupe":       domain.BodyCoupe,
	"kupe":        domain.BodyCoupe,
	"convertible": domain.BodyConvertible,
	"cabrio":      domain.BodyConvertible,
	"kabriolet":   domain.BodyConvertible,
	"van":         domain.BodyVan,
	"dodavka":     domain.BodyVan,
	"dodávka":     domain.BodyVan,
	"pickup":      domain.BodyPickup,
	"pick-up":     domain.BodyPickup,
}

var statusSynonyms = map[string]domain.VehicleStatus{
	"available":    domain.StatusAvailable,
	"dostupne":     domain.StatusAvailable,
	"dostupné":     domain.StatusAvailable,
	"volne":        domain.StatusAvailable,
	"skladom":      domain.StatusAvailable,
	"in stock":     domain.StatusAvailable,
	"reserved":     domain.StatusReserved,
	"rezervovane":  domain.StatusReserved,
	"rezervované":  domain.StatusReserved,
	"rezervace":    domain.StatusReserved,
	"sold":         domain.StatusSold,
	"predane":      domain.StatusSold,
	"predané":      domain.StatusSold,
	"prodano":      domain.StatusSold,
	"prodáno":      domain.StatusSold,
}

func normKey(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func normalizeFuel(raw string) domain.FuelType {
	if f, ok := fuelSynonyms[normKey(raw)]; ok {
		return f
	}
	return domain.FuelPetrol
}

func normalizeTransmission(raw string) domain.Transmission {
	if t, ok := transmissionSynonyms[normKey(raw)]; ok {
		return t
	}
	return domain.TransmissionManual
}

// normalizeBody returns "" for unrecognized or missing values; no default.
func normalizeBody(raw string) domain.BodyType {
	return bodySynonyms[normKey(raw)]
}

func normalizeStatus(raw string) domain.VehicleStatus {
	if s, ok := statusSynonyms[normKey(raw)]; ok {
		return s
	}
	return domain.StatusAvailable
}
