package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pkordes/prociv-logbook/internal/domain"
	"github.com/pkordes/prociv-logbook/internal/repo"
)

// ExportService assembles a full flat export of the trip log.
type ExportService struct {
	journal  *Journal
	vehicles repo.VehicleRepo
}

// NewExportService constructs an ExportService reading through journal.
func NewExportService(journal *Journal, vehicles repo.VehicleRepo) *ExportService {
	return &ExportService{journal: journal, vehicles: vehicles}
}

// Export returns one ExportRow per trip, most recent first.
// Always returns a non-nil slice.
func (s *ExportService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	trips, err := s.journal.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	vehicles, err := s.vehicles.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := make([]domain.ExportRow, 0, len(trips))
	for _, t := range trips {
		row := domain.ExportRow{
			TripID:            t.ID.String(),
			Status:            string(t.Status),
			StartTime:         t.StartTime.UTC().Format(time.RFC3339),
			VehiclePlate:      domain.PlateFor(vehicles, t.VehicleID),
			DriverName:        t.DriverName,
			StartKm:           t.StartKm,
			EndKm:             t.EndKm,
			Destination:       t.Destination,
			Reason:            t.Reason,
			RefuelingDone:     t.RefuelingDone,
			MaintenanceNeeded: t.Maintenance.Needed,
			MaintenanceDesc:   t.Maintenance.Description,
			Notes:             t.Notes,
			Synced:            t.Synced,
		}
		if t.EndTime != nil {
			row.EndTime = t.EndTime.UTC().Format(time.RFC3339)
		}
		if t.Status == domain.TripCompleted {
			d := t.Distance()
			row.DistanceKm = &d
		}
		rows = append(rows, row)
	}
	return rows, nil
}
