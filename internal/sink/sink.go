// Package sink forwards completed trips to the external spreadsheet endpoint.
//
// Delivery is fire-and-forget: the endpoint (a spreadsheet web app) gives no
// usable response, so a request that reaches the network without a transport
// error counts as delivered. Whether the remote side actually recorded the row
// cannot be observed from here.
package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkordes/prociv-logbook/internal/domain"
)

// Payload is the flattened trip record posted to the sink.
// Maintenance is split into two scalar fields for spreadsheet columns.
type Payload struct {
	ID                string `json:"id"`
	DriverName        string `json:"driverName"`
	VehiclePlate      string `json:"vehiclePlate"`
	StartKm           int    `json:"startKm"`
	EndKm             int    `json:"endKm"`
	Destination       string `json:"destination"`
	Reason            string `json:"reason"`
	RefuelingDone     bool   `json:"refuelingDone"`
	MaintenanceNeeded bool   `json:"maintenanceNeeded"`
	MaintenanceDesc   string `json:"maintenanceDesc"`
	Notes             string `json:"notes"`
}

// NewPayload builds the payload for a completed trip. plate is the resolved
// vehicle plate (domain.MissingPlate for a dangling reference).
func NewPayload(t domain.Trip, plate string) Payload {
	endKm := 0
	if t.EndKm != nil {
		endKm = *t.EndKm
	}
	return Payload{
		ID:                t.ID.String(),
		DriverName:        t.DriverName,
		VehiclePlate:      plate,
		StartKm:           t.StartKm,
		EndKm:             endKm,
		Destination:       t.Destination,
		Reason:            t.Reason,
		RefuelingDone:     t.RefuelingDone,
		MaintenanceNeeded: t.Maintenance.Needed,
		MaintenanceDesc:   t.Maintenance.Description,
		Notes:             t.Notes,
	}
}

// Client delivers payloads to a sink URL.
type Client interface {
	// Deliver posts p to url. It returns an error only when the request could
	// not be sent; the response status is not interpreted.
	Deliver(ctx context.Context, url string, p Payload) error
}

// HTTPClient is the net/http implementation of Client.
type HTTPClient struct {
	http *http.Client
}

// NewHTTPClient returns an HTTPClient using hc, or http.DefaultClient when hc
// is nil. No timeout is added here; the transport's own defaults apply.
func NewHTTPClient(hc *http.Client) *HTTPClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTPClient{http: hc}
}

// Deliver sends p as a JSON POST body.
func (c *HTTPClient) Deliver(ctx context.Context, url string, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("sink.Deliver: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sink.Deliver: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sink.Deliver: %w", err)
	}
	// Drain so the connection can be reused; the content is not consumed.
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return nil
}

var _ Client = (*HTTPClient)(nil)
