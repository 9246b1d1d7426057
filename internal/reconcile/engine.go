package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/multipark/backoffice/internal/ingest"
	"github.com/multipark/backoffice/internal/model"
)

// Result tallies one reconciliation pass. Inserted + Updated + NotFound +
// len(Errors) never exceeds Parsed; rows dropped at parse time are not
// seen here.
type Result struct {
	Parsed   int      `json:"parsed"`
	Inserted int      `json:"inserted"`
	Updated  int      `json:"updated"`
	NotFound int      `json:"notFound"`
	Errors   []string `json:"errors"`
}

// Engine reconciles canonical record batches against the reservation
// store. Records are processed strictly sequentially: each step is a
// read-then-write against shared storage and concurrent writers for the
// same identity would race.
type Engine struct {
	reservations ReservationStore
	cash         CashStore
	now          func() time.Time
}

// NewEngine builds an engine over the given stores.
func NewEngine(reservations ReservationStore, cash CashStore) *Engine {
	return &Engine{
		reservations: reservations,
		cash:         cash,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func newResult(parsed int) Result {
	return Result{Parsed: parsed, Errors: make([]string, 0)}
}

// fail records a per-record failure and keeps the batch going.
func (res *Result) fail(identity string, err error) {
	log.Errorf("[Reconcile] %s: %v", identity, err)
	res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", identity, err))
}

// UpsertReservations inserts or updates one reservation per record, keyed
// by (license plate, allocation code). Updates rewrite the spreadsheet
// fields wholesale; operational fields (real check-in/out, drivers, notes)
// are left as stored. parkID, when non-empty, overrides any park column in
// the file. Resubmitting the same file is idempotent.
func (e *Engine) UpsertReservations(ctx context.Context, rows []ingest.ReservationRow, parkID string) Result {
	res := newResult(len(rows))
	log.Infof("[Reconcile] reservations batch: %d records", len(rows))
	for _, row := range rows {
		identity := row.LicensePlate + "/" + row.AllocationCode
		existing, err := e.reservations.FindByIdentity(ctx, row.LicensePlate, row.AllocationCode)
		switch {
		case err == nil:
			merged := *existing
			applyReservationRow(&merged, row, parkID)
			merged.UpdatedAt = e.now()
			if err := e.reservations.Update(ctx, &merged); err != nil {
				res.fail(identity, err)
				continue
			}
			res.Updated++
		case errors.Is(err, ErrNotFound):
			rec := &model.Reservation{}
			applyReservationRow(rec, row, parkID)
			rec.CreatedAt = e.now()
			rec.UpdatedAt = rec.CreatedAt
			if err := e.reservations.Insert(ctx, rec); err != nil {
				res.fail(identity, err)
				continue
			}
			res.Inserted++
		default:
			res.fail(identity, err)
		}
	}
	return res
}

// ApplyCash records one validated till movement per record against the
// reservation matching the license plate. Unknown plates are tallied as
// NotFound; cash uploads never create reservations. A missing transaction
// date defaults to the ingestion time.
func (e *Engine) ApplyCash(ctx context.Context, rows []ingest.CashRow) Result {
	res := newResult(len(rows))
	log.Infof("[Reconcile] cash batch: %d records", len(rows))
	for _, row := range rows {
		existing, err := e.reservations.FindByPlate(ctx, row.LicensePlate)
		if errors.Is(err, ErrNotFound) {
			res.NotFound++
			continue
		}
		if err != nil {
			res.fail(row.LicensePlate, err)
			continue
		}
		txAt := e.now()
		if row.TxAt != nil {
			txAt = *row.TxAt
		}
		tx := &model.CashTransaction{
			ReservationID: existing.ID,
			Amount:        row.Amount,
			PaymentMethod: row.PaymentMethod,
			TxAt:          txAt,
			Notes:         row.Notes,
		}
		if err := e.cash.Record(ctx, tx); err != nil {
			res.fail(row.LicensePlate, err)
			continue
		}
		res.Updated++
	}
	return res
}

// ApplyDeliveries marks matching reservations as delivered, setting the
// real checkout time, delivery driver and notes. Unknown identities are
// tallied as NotFound; nothing is created.
func (e *Engine) ApplyDeliveries(ctx context.Context, rows []ingest.DeliveryRow) Result {
	res := newResult(len(rows))
	log.Infof("[Reconcile] deliveries batch: %d records", len(rows))
	for _, row := range rows {
		identity := row.LicensePlate + "/" + row.AllocationCode
		existing, err := e.reservations.FindByIdentity(ctx, row.LicensePlate, row.AllocationCode)
		if errors.Is(err, ErrNotFound) {
			res.NotFound++
			continue
		}
		if err != nil {
			res.fail(identity, err)
			continue
		}
		at := e.now()
		if row.DeliveredAt != nil {
			at = *row.DeliveredAt
		}
		merged := *existing
		merged.State = model.StateDelivered
		merged.CheckoutReal = &at
		merged.DeliveryDriver = row.Driver
		merged.DeliveryNotes = row.Notes
		merged.UpdatedAt = e.now()
		if err := e.reservations.Update(ctx, &merged); err != nil {
			res.fail(identity, err)
			continue
		}
		res.Updated++
	}
	return res
}

// ApplyCollections is the pickup counterpart of ApplyDeliveries: matching
// reservations move to collected with the real check-in time, pickup
// driver and notes.
func (e *Engine) ApplyCollections(ctx context.Context, rows []ingest.CollectionRow) Result {
	res := newResult(len(rows))
	log.Infof("[Reconcile] collections batch: %d records", len(rows))
	for _, row := range rows {
		identity := row.LicensePlate + "/" + row.AllocationCode
		existing, err := e.reservations.FindByIdentity(ctx, row.LicensePlate, row.AllocationCode)
		if errors.Is(err, ErrNotFound) {
			res.NotFound++
			continue
		}
		if err != nil {
			res.fail(identity, err)
			continue
		}
		at := e.now()
		if row.CollectedAt != nil {
			at = *row.CollectedAt
		}
		merged := *existing
		merged.State = model.StateCollected
		merged.CheckinReal = &at
		merged.PickupDriver = row.Driver
		merged.PickupNotes = row.Notes
		merged.UpdatedAt = e.now()
		if err := e.reservations.Update(ctx, &merged); err != nil {
			res.fail(identity, err)
			continue
		}
		res.Updated++
	}
	return res
}

// applyReservationRow copies the spreadsheet-sourced fields onto a
// reservation, leaving operational fields untouched.
func applyReservationRow(r *model.Reservation, row ingest.ReservationRow, parkID string) {
	r.LicensePlate = row.LicensePlate
	r.AllocationCode = row.AllocationCode
	r.CustomerName = row.CustomerName
	r.CustomerSurname = row.CustomerSurname
	r.CustomerPhone = row.CustomerPhone
	r.CustomerEmail = row.CustomerEmail
	r.CheckinExpected = row.CheckinExpected
	r.CheckoutExpected = row.CheckoutExpected
	r.BookingPrice = row.BookingPrice
	r.ParkingPrice = row.ParkingPrice
	r.DeliveryPrice = row.DeliveryPrice
	r.TotalPrice = row.TotalPrice
	r.State = row.State
	r.ParkingType = row.ParkingType
	r.ReturnFlight = row.ReturnFlight
	r.ParkID = row.ParkID
	if parkID != "" {
		r.ParkID = parkID
	}
}
