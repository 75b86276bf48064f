package domain

// ExportRow is a single row in the full trip export.
// It is a flat, denormalized view of one trip: the vehicle plate is resolved
// from the current roster and maintenance is split into two scalar columns.
type ExportRow struct {
	TripID            string
	Status            string
	StartTime         string // RFC3339
	EndTime           string // empty while the trip is active
	VehiclePlate      string
	DriverName        string
	StartKm           int
	EndKm             *int
	DistanceKm        *int // nil while the trip is active
	Destination       string
	Reason            string
	RefuelingDone     bool
	MaintenanceNeeded bool
	MaintenanceDesc   string
	Notes             string
	Synced            bool
}
