package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/prociv-logbook/internal/domain"
	"github.com/pkordes/prociv-logbook/internal/inflight"
	"github.com/pkordes/prociv-logbook/internal/repo"
	"github.com/pkordes/prociv-logbook/internal/sink"
)

// Outcome is the result of a single sync attempt.
type Outcome int

const (
	// Skipped means no delivery was attempted.
	Skipped Outcome = iota
	// Delivered means the payload was sent and the trip marked synced.
	Delivered
	// Failed means the transport or the store reported an error; the trip
	// stays unsynced and can be retried with SyncAllPending.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case Failed:
		return "failed"
	default:
		return "skipped"
	}
}

// SyncReport summarizes a SyncAllPending run.
type SyncReport struct {
	Attempted int `json:"attempted"`
	Delivered int `json:"delivered"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// DispatcherConfig holds the Dispatcher's timing knobs.
type DispatcherConfig struct {
	// AutoDelay is the pause between a trip being closed and its automatic sync.
	AutoDelay time.Duration
	// ReleaseDelay is how long a trip id stays in flight after an attempt ends.
	ReleaseDelay time.Duration
}

// Dispatcher forwards completed trips to the configured sink, at most one
// attempt per trip at a time. There are no automatic retries: a failed trip
// waits for the next SyncAllPending.
type Dispatcher struct {
	journal  *Journal
	vehicles repo.VehicleRepo
	settings repo.SettingsRepo
	guard    inflight.Guard
	client   sink.Client
	log      *slog.Logger
	cfg      DispatcherConfig

	bulk      atomic.Bool
	scheduled sync.WaitGroup
}

// NewDispatcher constructs a Dispatcher. It marks trips synced through journal,
// resolves plates from vehicles, and reads the sink URL from settings on every
// attempt so URL edits take effect immediately.
func NewDispatcher(
	journal *Journal,
	vehicles repo.VehicleRepo,
	settings repo.SettingsRepo,
	guard inflight.Guard,
	client sink.Client,
	log *slog.Logger,
	cfg DispatcherConfig,
) *Dispatcher {
	return &Dispatcher{
		journal:  journal,
		vehicles: vehicles,
		settings: settings,
		guard:    guard,
		client:   client,
		log:      log,
		cfg:      cfg,
	}
}

// SyncOne attempts to deliver trip to the sink.
//
// It is skipped, without touching the network, when no sink is configured, the
// trip is already synced or not yet completed, or the trip id is already in
// flight. Once the id is held the stored record is re-read, so a trip synced
// after the caller took its copy is not sent again. On a successful delivery the stored trip is marked synced. The trip
// id is released from the in-flight guard ReleaseDelay after the attempt ends,
// whatever its outcome.
func (d *Dispatcher) SyncOne(ctx context.Context, trip domain.Trip) Outcome {
	settings, err := d.settings.Load(ctx)
	if err != nil {
		d.log.ErrorContext(ctx, "sync failed", "trip_id", trip.ID, "error", err)
		return Failed
	}
	switch {
	case !settings.SyncEnabled():
		return d.skip(ctx, trip.ID, "no sink configured")
	case trip.Synced:
		return d.skip(ctx, trip.ID, "already synced")
	case trip.Status != domain.TripCompleted:
		return d.skip(ctx, trip.ID, "trip not completed")
	}

	key := inflightKey(trip.ID)
	acquired, err := d.guard.Acquire(ctx, key)
	if err != nil {
		d.log.WarnContext(ctx, "in-flight guard unavailable", "trip_id", trip.ID, "error", err)
		return d.skip(ctx, trip.ID, "guard unavailable")
	}
	if !acquired {
		return d.skip(ctx, trip.ID, "already in flight")
	}
	defer func() {
		if err := d.guard.ReleaseAfter(context.WithoutCancel(ctx), key, d.cfg.ReleaseDelay); err != nil {
			d.log.WarnContext(ctx, "in-flight release failed", "trip_id", trip.ID, "error", err)
		}
	}()

	// the caller's copy may predate a delivery that finished before the key
	// was acquired; only the stored record is authoritative.
	current, err := d.journal.Find(ctx, trip.ID)
	if err != nil {
		d.log.ErrorContext(ctx, "sync failed", "trip_id", trip.ID, "error", err)
		return Failed
	}
	switch {
	case current.Synced:
		return d.skip(ctx, trip.ID, "already synced")
	case current.Status != domain.TripCompleted:
		return d.skip(ctx, trip.ID, "trip not completed")
	}
	trip = current

	vehicles, err := d.vehicles.Load(ctx)
	if err != nil {
		d.log.ErrorContext(ctx, "sync failed", "trip_id", trip.ID, "error", err)
		return Failed
	}
	payload := sink.NewPayload(trip, domain.PlateFor(vehicles, trip.VehicleID))

	if err := d.client.Deliver(ctx, settings.SinkURL, payload); err != nil {
		d.log.WarnContext(ctx, "sync failed", "trip_id", trip.ID, "error", err)
		return Failed
	}
	if err := d.markSynced(ctx, trip.ID); err != nil {
		d.log.ErrorContext(ctx, "sync delivered but not recorded", "trip_id", trip.ID, "error", err)
		return Failed
	}

	d.log.InfoContext(ctx, "sync delivered", "trip_id", trip.ID, "plate", payload.VehiclePlate)
	return Delivered
}

// Schedule syncs trip after AutoDelay on a background goroutine. The trip is
// re-read from the store when the timer fires, so a sync that completed in
// the meantime is not repeated.
func (d *Dispatcher) Schedule(trip domain.Trip) {
	d.scheduled.Add(1)
	time.AfterFunc(d.cfg.AutoDelay, func() {
		defer d.scheduled.Done()
		ctx := context.Background()

		current, err := d.journal.Find(ctx, trip.ID)
		if err != nil {
			d.log.WarnContext(ctx, "scheduled sync: trip lookup failed", "trip_id", trip.ID, "error", err)
			return
		}
		d.SyncOne(ctx, current)
	})
}

// Wait blocks until every scheduled sync has finished.
func (d *Dispatcher) Wait() {
	d.scheduled.Wait()
}

// SyncAllPending delivers every completed, unsynced trip in the log at call
// time. Trips are sent one after another, never concurrently. Returns
// domain.ErrConflict if a bulk sync is already running.
func (d *Dispatcher) SyncAllPending(ctx context.Context) (SyncReport, error) {
	if !d.bulk.CompareAndSwap(false, true) {
		return SyncReport{}, fmt.Errorf("service.Dispatcher.SyncAllPending: %w: sync already in progress", domain.ErrConflict)
	}
	defer d.bulk.Store(false)

	trips, err := d.journal.Snapshot(ctx)
	if err != nil {
		return SyncReport{}, fmt.Errorf("service.Dispatcher.SyncAllPending: %w", err)
	}

	var report SyncReport
	for _, t := range trips {
		if !t.PendingSync() {
			continue
		}
		report.Attempted++
		switch d.SyncOne(ctx, t) {
		case Delivered:
			report.Delivered++
		case Failed:
			report.Failed++
		default:
			report.Skipped++
		}
	}
	d.log.InfoContext(ctx, "bulk sync finished",
		"attempted", report.Attempted,
		"delivered", report.Delivered,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
	return report, nil
}

// InProgress reports whether SyncAllPending is currently running.
func (d *Dispatcher) InProgress() bool {
	return d.bulk.Load()
}

// Pending returns the number of completed trips not yet synced.
func (d *Dispatcher) Pending(ctx context.Context) (int, error) {
	trips, err := d.journal.Snapshot(ctx)
	if err != nil {
		return 0, fmt.Errorf("service.Dispatcher.Pending: %w", err)
	}
	n := 0
	for _, t := range trips {
		if t.PendingSync() {
			n++
		}
	}
	return n, nil
}

func (d *Dispatcher) markSynced(ctx context.Context, id uuid.UUID) error {
	return d.journal.Update(ctx, func(trips []domain.Trip) ([]domain.Trip, error) {
		i := indexOfTrip(trips, id)
		if i < 0 {
			return nil, fmt.Errorf("trip %s: %w", id, domain.ErrNotFound)
		}
		trips[i].Synced = true
		return trips, nil
	})
}

// inflightKey names a trip in the in-flight guard.
func inflightKey(id uuid.UUID) string {
	return "trip:" + id.String()
}

func (d *Dispatcher) skip(ctx context.Context, id uuid.UUID, reason string) Outcome {
	d.log.DebugContext(ctx, "sync skipped", "trip_id", id, "reason", reason)
	return Skipped
}
