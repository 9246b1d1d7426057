package reconcile

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/multipark/backoffice/internal/ingest"
	"github.com/multipark/backoffice/internal/model"
)

// fakeStore keeps reservations in memory and lets tests inject failures
// for specific identities.
type fakeStore struct {
	nextID       uint64
	byIdentity   map[string]*model.Reservation
	failIdentity map[string]error
	insertCalls  int
	updateCalls  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID:       1,
		byIdentity:   map[string]*model.Reservation{},
		failIdentity: map[string]error{},
	}
}

func identityKey(plate, allocation string) string { return plate + "/" + allocation }

func (f *fakeStore) FindByIdentity(_ context.Context, plate, allocation string) (*model.Reservation, error) {
	key := identityKey(plate, allocation)
	if err := f.failIdentity[key]; err != nil {
		return nil, err
	}
	if r, ok := f.byIdentity[key]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (f *fakeStore) FindByPlate(_ context.Context, plate string) (*model.Reservation, error) {
	var newest *model.Reservation
	for _, r := range f.byIdentity {
		if r.LicensePlate != plate {
			continue
		}
		if newest == nil || r.CreatedAt.After(newest.CreatedAt) {
			newest = r
		}
	}
	if newest == nil {
		return nil, ErrNotFound
	}
	cp := *newest
	return &cp, nil
}

func (f *fakeStore) Insert(_ context.Context, r *model.Reservation) error {
	key := identityKey(r.LicensePlate, r.AllocationCode)
	if err := f.failIdentity[key]; err != nil {
		return err
	}
	f.insertCalls++
	r.ID = f.nextID
	f.nextID++
	cp := *r
	f.byIdentity[key] = &cp
	return nil
}

func (f *fakeStore) Update(_ context.Context, r *model.Reservation) error {
	key := identityKey(r.LicensePlate, r.AllocationCode)
	if err := f.failIdentity[key]; err != nil {
		return err
	}
	f.updateCalls++
	cp := *r
	f.byIdentity[key] = &cp
	return nil
}

type fakeCashStore struct {
	recorded []model.CashTransaction
	fail     error
}

func (f *fakeCashStore) Record(_ context.Context, tx *model.CashTransaction) error {
	if f.fail != nil {
		return f.fail
	}
	f.recorded = append(f.recorded, *tx)
	return nil
}

type EngineSuite struct {
	suite.Suite
	store  *fakeStore
	cash   *fakeCashStore
	engine *Engine
	now    time.Time
}

func (s *EngineSuite) SetupTest() {
	s.store = newFakeStore()
	s.cash = &fakeCashStore{}
	s.engine = NewEngine(s.store, s.cash)
	s.now = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	s.engine.now = func() time.Time { return s.now }
}

func (s *EngineSuite) reservationRows(n int) []ingest.ReservationRow {
	rows := make([]ingest.ReservationRow, n)
	for i := range rows {
		rows[i] = ingest.ReservationRow{
			LicensePlate:   fmt.Sprintf("AA-%02d-BB", i),
			AllocationCode: fmt.Sprintf("A%d", i),
			BookingPrice:   10,
			State:          model.StateReserved,
		}
	}
	return rows
}

func (s *EngineSuite) TestUpsertInsertsNewReservations() {
	res := s.engine.UpsertReservations(context.Background(), s.reservationRows(3), "LIS")

	s.Equal(3, res.Parsed)
	s.Equal(3, res.Inserted)
	s.Equal(0, res.Updated)
	s.Empty(res.Errors)

	stored := s.store.byIdentity["AA-00-BB/A0"]
	s.Require().NotNil(stored)
	s.Equal("LIS", stored.ParkID)
	s.Equal(s.now, stored.CreatedAt)
	s.Equal(s.now, stored.UpdatedAt)
}

func (s *EngineSuite) TestUpsertIsIdempotent() {
	rows := s.reservationRows(2)

	first := s.engine.UpsertReservations(context.Background(), rows, "LIS")
	s.Equal(2, first.Inserted)

	second := s.engine.UpsertReservations(context.Background(), rows, "LIS")
	s.Equal(0, second.Inserted)
	s.Equal(2, second.Updated)
	s.Empty(second.Errors)
	s.Len(s.store.byIdentity, 2)
}

func (s *EngineSuite) TestUpsertPreservesOperationalFields() {
	rows := s.reservationRows(1)
	s.engine.UpsertReservations(context.Background(), rows, "LIS")

	// Simulate a collection happening between two uploads of the file.
	stored := s.store.byIdentity["AA-00-BB/A0"]
	at := s.now.Add(-time.Hour)
	stored.CheckinReal = &at
	stored.PickupDriver = "RUI"

	rows[0].BookingPrice = 42
	res := s.engine.UpsertReservations(context.Background(), rows, "LIS")
	s.Equal(1, res.Updated)

	after := s.store.byIdentity["AA-00-BB/A0"]
	s.Equal(42.0, after.BookingPrice)
	s.Require().NotNil(after.CheckinReal)
	s.Equal(at, *after.CheckinReal)
	s.Equal("RUI", after.PickupDriver)
}

func (s *EngineSuite) TestUpsertContinuesPastFailingRecord() {
	rows := s.reservationRows(5)
	boom := errors.New("deadlock")
	s.store.failIdentity["AA-02-BB/A2"] = boom

	res := s.engine.UpsertReservations(context.Background(), rows, "LIS")

	s.Equal(5, res.Parsed)
	s.Equal(4, res.Inserted)
	s.Require().Len(res.Errors, 1)
	s.Equal("AA-02-BB/A2: deadlock", res.Errors[0])
	// Records after the failure were still processed.
	s.NotNil(s.store.byIdentity["AA-03-BB/A3"])
	s.NotNil(s.store.byIdentity["AA-04-BB/A4"])
}

func (s *EngineSuite) TestApplyCashMatchesNewestReservation() {
	rows := s.reservationRows(1)
	s.engine.UpsertReservations(context.Background(), rows, "LIS")

	txAt := time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC)
	res := s.engine.ApplyCash(context.Background(), []ingest.CashRow{
		{LicensePlate: "AA-00-BB", Amount: 30, PaymentMethod: model.PaymentCash, TxAt: &txAt},
	})

	s.Equal(1, res.Updated)
	s.Equal(0, res.NotFound)
	s.Require().Len(s.cash.recorded, 1)
	s.Equal(uint64(1), s.cash.recorded[0].ReservationID)
	s.Equal(30.0, s.cash.recorded[0].Amount)
	s.Equal(txAt, s.cash.recorded[0].TxAt)
}

func (s *EngineSuite) TestApplyCashDefaultsTimestamp() {
	s.engine.UpsertReservations(context.Background(), s.reservationRows(1), "LIS")

	res := s.engine.ApplyCash(context.Background(), []ingest.CashRow{
		{LicensePlate: "AA-00-BB", Amount: 5, PaymentMethod: model.PaymentCash},
	})

	s.Equal(1, res.Updated)
	s.Require().Len(s.cash.recorded, 1)
	s.Equal(s.now, s.cash.recorded[0].TxAt)
}

func (s *EngineSuite) TestApplyCashNeverCreatesReservations() {
	res := s.engine.ApplyCash(context.Background(), []ingest.CashRow{
		{LicensePlate: "ZZ-99-ZZ", Amount: 10},
	})

	s.Equal(1, res.NotFound)
	s.Equal(0, res.Updated)
	s.Empty(res.Errors)
	s.Equal(0, s.store.insertCalls)
	s.Empty(s.cash.recorded)
}

func (s *EngineSuite) TestApplyDeliveries() {
	s.engine.UpsertReservations(context.Background(), s.reservationRows(1), "LIS")

	at := time.Date(2025, 6, 11, 9, 0, 0, 0, time.UTC)
	res := s.engine.ApplyDeliveries(context.Background(), []ingest.DeliveryRow{
		{LicensePlate: "AA-00-BB", AllocationCode: "A0", DeliveredAt: &at, Driver: "RUI", Notes: "OK"},
		{LicensePlate: "ZZ-99-ZZ", AllocationCode: "X1"},
	})

	s.Equal(1, res.Updated)
	s.Equal(1, res.NotFound)

	stored := s.store.byIdentity["AA-00-BB/A0"]
	s.Equal(model.StateDelivered, stored.State)
	s.Require().NotNil(stored.CheckoutReal)
	s.Equal(at, *stored.CheckoutReal)
	s.Equal("RUI", stored.DeliveryDriver)
	s.Equal("OK", stored.DeliveryNotes)
}

func (s *EngineSuite) TestApplyCollections() {
	s.engine.UpsertReservations(context.Background(), s.reservationRows(1), "LIS")

	res := s.engine.ApplyCollections(context.Background(), []ingest.CollectionRow{
		{LicensePlate: "AA-00-BB", AllocationCode: "A0", Driver: "ANA"},
	})

	s.Equal(1, res.Updated)
	stored := s.store.byIdentity["AA-00-BB/A0"]
	s.Equal(model.StateCollected, stored.State)
	s.Require().NotNil(stored.CheckinReal)
	s.Equal(s.now, *stored.CheckinReal) // missing timestamp defaults to now
	s.Equal("ANA", stored.PickupDriver)
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}
