package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/multipark/backoffice/internal/model"
	"github.com/multipark/backoffice/internal/reconcile"
)

// ReservationRepo persists reservations in MySQL. It implements
// reconcile.ReservationStore for the upload pipeline and adds the list
// queries the dashboard endpoints need. All timestamps are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationCols = `id, license_plate, allocation_code, customer_name, customer_surname,
       customer_phone, customer_email, checkin_expected, checkout_expected, checkin_real,
       checkout_real, booking_price, parking_price, delivery_price, total_price, state,
       park_id, parking_type, return_flight, pickup_driver, delivery_driver, pickup_notes,
       delivery_notes, created_at, updated_at`

// FindByIdentity returns the reservation matching the composite business
// key, or reconcile.ErrNotFound.
func (r *ReservationRepo) FindByIdentity(ctx context.Context, plate, allocation string) (*model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations
               WHERE license_plate = ? AND allocation_code = ? LIMIT 1`
	return scanReservation(r.db.QueryRowContext(ctx, q, plate, allocation))
}

// FindByPlate returns the most recent reservation for a license plate, or
// reconcile.ErrNotFound. Cash uploads key on the plate alone, so when a
// customer has several bookings the newest one receives the transaction.
func (r *ReservationRepo) FindByPlate(ctx context.Context, plate string) (*model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations
               WHERE license_plate = ? ORDER BY created_at DESC LIMIT 1`
	return scanReservation(r.db.QueryRowContext(ctx, q, plate))
}

// Insert stores a new reservation and populates its generated ID.
func (r *ReservationRepo) Insert(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations
               (license_plate, allocation_code, customer_name, customer_surname, customer_phone,
                customer_email, checkin_expected, checkout_expected, checkin_real, checkout_real,
                booking_price, parking_price, delivery_price, total_price, state, park_id,
                parking_type, return_flight, pickup_driver, delivery_driver, pickup_notes,
                delivery_notes, created_at, updated_at)
               VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	result, err := r.db.ExecContext(ctx, q,
		res.LicensePlate, res.AllocationCode, res.CustomerName, res.CustomerSurname,
		res.CustomerPhone, res.CustomerEmail, nullTime(res.CheckinExpected),
		nullTime(res.CheckoutExpected), nullTime(res.CheckinReal), nullTime(res.CheckoutReal),
		res.BookingPrice, res.ParkingPrice, res.DeliveryPrice, res.TotalPrice, res.State,
		res.ParkID, res.ParkingType, res.ReturnFlight, res.PickupDriver, res.DeliveryDriver,
		res.PickupNotes, res.DeliveryNotes, res.CreatedAt, res.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return nil
}

// Update rewrites all mutable columns of the row identified by res.ID.
func (r *ReservationRepo) Update(ctx context.Context, res *model.Reservation) error {
	const q = `UPDATE reservations SET
               license_plate=?, allocation_code=?, customer_name=?, customer_surname=?,
               customer_phone=?, customer_email=?, checkin_expected=?, checkout_expected=?,
               checkin_real=?, checkout_real=?, booking_price=?, parking_price=?,
               delivery_price=?, total_price=?, state=?, park_id=?, parking_type=?,
               return_flight=?, pickup_driver=?, delivery_driver=?, pickup_notes=?,
               delivery_notes=?, updated_at=?
               WHERE id=?`
	_, err := r.db.ExecContext(ctx, q,
		res.LicensePlate, res.AllocationCode, res.CustomerName, res.CustomerSurname,
		res.CustomerPhone, res.CustomerEmail, nullTime(res.CheckinExpected),
		nullTime(res.CheckoutExpected), nullTime(res.CheckinReal), nullTime(res.CheckoutReal),
		res.BookingPrice, res.ParkingPrice, res.DeliveryPrice, res.TotalPrice, res.State,
		res.ParkID, res.ParkingType, res.ReturnFlight, res.PickupDriver, res.DeliveryDriver,
		res.PickupNotes, res.DeliveryNotes, res.UpdatedAt, res.ID)
	return err
}

// ReservationFilter narrows List results. Zero values mean "no filter".
// From and To apply to the expected check-in and check-out windows.
type ReservationFilter struct {
	ParkID string
	From   *time.Time
	To     *time.Time
	State  string
}

// List returns reservations matching the filter, newest first.
func (r *ReservationRepo) List(ctx context.Context, f ReservationFilter) ([]model.Reservation, error) {
	q := `SELECT ` + reservationCols + ` FROM reservations WHERE 1=1`
	args := make([]interface{}, 0, 4)
	if f.ParkID != "" {
		q += " AND park_id = ?"
		args = append(args, f.ParkID)
	}
	if f.From != nil {
		q += " AND checkin_expected >= ?"
		args = append(args, *f.From)
	}
	if f.To != nil {
		q += " AND checkout_expected <= ?"
		args = append(args, *f.To)
	}
	if f.State != "" {
		q += " AND state = ?"
		args = append(args, f.State)
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservationRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row *sql.Row) (*model.Reservation, error) {
	res, err := scanReservationRow(row)
	if err == sql.ErrNoRows {
		return nil, reconcile.ErrNotFound
	}
	return res, err
}

func scanReservationRow(s rowScanner) (*model.Reservation, error) {
	var res model.Reservation
	var checkinExp, checkoutExp, checkinReal, checkoutReal sql.NullTime
	err := s.Scan(
		&res.ID, &res.LicensePlate, &res.AllocationCode, &res.CustomerName, &res.CustomerSurname,
		&res.CustomerPhone, &res.CustomerEmail, &checkinExp, &checkoutExp, &checkinReal,
		&checkoutReal, &res.BookingPrice, &res.ParkingPrice, &res.DeliveryPrice, &res.TotalPrice,
		&res.State, &res.ParkID, &res.ParkingType, &res.ReturnFlight, &res.PickupDriver,
		&res.DeliveryDriver, &res.PickupNotes, &res.DeliveryNotes, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	res.CheckinExpected = timePtr(checkinExp)
	res.CheckoutExpected = timePtr(checkoutExp)
	res.CheckinReal = timePtr(checkinReal)
	res.CheckoutReal = timePtr(checkoutReal)
	return &res, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	u := t.Time.UTC()
	return &u
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
