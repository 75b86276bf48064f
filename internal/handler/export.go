package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/pkordes/prociv-logbook/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "status", "start_time", "end_time", "vehicle_plate", "driver_name",
	"start_km", "end_km", "distance_km", "destination", "reason",
	"refueling_done", "maintenance_needed", "maintenance_desc", "notes", "synced",
}

// ExportRow is the JSON form of domain.ExportRow.
type ExportRow struct {
	TripID            string `json:"trip_id"`
	Status            string `json:"status"`
	StartTime         string `json:"start_time"`
	EndTime           string `json:"end_time,omitempty"`
	VehiclePlate      string `json:"vehicle_plate"`
	DriverName        string `json:"driver_name"`
	StartKm           int    `json:"start_km"`
	EndKm             *int   `json:"end_km,omitempty"`
	DistanceKm        *int   `json:"distance_km,omitempty"`
	Destination       string `json:"destination"`
	Reason            string `json:"reason,omitempty"`
	RefuelingDone     bool   `json:"refueling_done"`
	MaintenanceNeeded bool   `json:"maintenance_needed"`
	MaintenanceDesc   string `json:"maintenance_desc,omitempty"`
	Notes             string `json:"notes,omitempty"`
	Synced            bool   `json:"synced"`
}

// GetExport handles GET /export.
// It returns a flat table of every trip, most recent first.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format, ok := queryString(w, r, "format")
	if !ok {
		return
	}
	if format != nil && *format != "csv" && *format != "json" {
		requestError(w, "format must be csv or json")
		return
	}

	rows, err := s.export.Export(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	if format != nil && *format == "csv" {
		writeCSV(w, rows)
		return
	}
	out := make([]ExportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, ExportRow(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes rows as CSV with a header line.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write(rowToCSVRecord(r))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="logbook.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// rowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// Nil km pointers are encoded as empty strings.
func rowToCSVRecord(r domain.ExportRow) []string {
	return []string{
		r.TripID,
		r.Status,
		r.StartTime,
		r.EndTime,
		r.VehiclePlate,
		r.DriverName,
		strconv.Itoa(r.StartKm),
		formatOptionalInt(r.EndKm),
		formatOptionalInt(r.DistanceKm),
		r.Destination,
		r.Reason,
		strconv.FormatBool(r.RefuelingDone),
		strconv.FormatBool(r.MaintenanceNeeded),
		r.MaintenanceDesc,
		r.Notes,
		strconv.FormatBool(r.Synced),
	}
}

// formatOptionalInt returns the decimal form of n, or "" if n is nil.
func formatOptionalInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
