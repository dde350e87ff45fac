package domain

import "time"

type FuelType string

const (
	FuelPetrol   FuelType = "PETROL"
	FuelDiesel   FuelType = "DIESEL"
	FuelElectric FuelType = "ELECTRIC"
	FuelHybrid   FuelType = "HYBRID"
	FuelLPG      FuelType = "LPG"
	FuelCNG      FuelType = "CNG"
)

type Transmission string

const (
	TransmissionManual        Transmission = "MANUAL"
	TransmissionAutomatic     Transmission = "AUTOMATIC"
	TransmissionSemiAutomatic Transmission = "SEMI_AUTOMATIC"
)

// BodyType has no default: an empty value means the feed never stated a
// recognized body style, and consumers rely on that distinction.
type BodyType string

const (
	BodySedan       BodyType = "SEDAN"
	BodyHatchback   BodyType = "HATCHBACK"
	BodyEstate      BodyType = "ESTATE"
	BodySUV         BodyType = "SUV"
	BodyCoupe       BodyType = "COUPE"
	BodyConvertible BodyType = "CONVERTIBLE"
	BodyVan         BodyType = "VAN"
	BodyPickup      BodyType = "PICKUP"
)

type VehicleStatus string

const (
	StatusAvailable VehicleStatus = "AVAILABLE"
	StatusReserved  VehicleStatus = "RESERVED"
	StatusSold      VehicleStatus = "SOLD"
)

// CanonicalVehicle is the feed-dialect-independent record produced by the
// normalizer. It is rebuilt from scratch on every parse and never persisted
// as-is; the catalog row keyed by ExternalID is the durable counterpart.
type CanonicalVehicle struct {
	ExternalID     string
	Title          string
	Make           string
	Model          string
	Variant        string
	Year           int
	Price          float64
	Mileage        int
	FuelType       FuelType
	Transmission   Transmission
	BodyType       BodyType // empty when unrecognized/absent
	EngineCapacity int      // ccm
	Power          int      // kW
	Color          string
	Doors          int
	Seats          int
	Description    string
	Features       []string
	ImageURLs      []string // absolute http(s) only, deduplicated
	Status         VehicleStatus
}

// SyncRunResult is what a single run returns to its caller.
type SyncRunResult struct {
	Success  bool      `json:"success"`
	Count    int       `json:"count"`
	Skipped  int       `json:"skipped"`
	Message  string    `json:"message"`
	SyncedAt time.Time `json:"syncedAt"`
}

// SyncStatus is the persisted run bookkeeping plus the live in-memory lock
// state. Running is never persisted; after a restart it always starts false.
type SyncStatus struct {
	Status    string `json:"status"` // idle/running/success/error
	Message   string `json:"message"`
	LastAt    string `json:"last_at"` // RFC3339, empty if never ran
	LastCount int    `json:"last_count"`
	Running   bool   `json:"running"`
}
