package model

import "time"

// Reservation states as stored in reservations.state. A reservation moves
// from reserved to collected (car taken into the park) to delivered (car
// returned to the customer), or to cancelled.
const (
	StateReserved  = "reserved"
	StateCollected = "collected"
	StateDelivered = "delivered"
	StateCancelled = "cancelled"
)

// Reservation records a single parking booking. The pair
// (LicensePlate, AllocationCode) is the business identity: uploads are
// reconciled against it and the table carries a unique key over both
// columns. All timestamps are stored in UTC.
type Reservation struct {
	ID               uint64     // reservations.id
	LicensePlate     string     // reservations.license_plate (uppercased)
	AllocationCode   string     // reservations.allocation_code (uppercased)
	CustomerName     string     // reservations.customer_name
	CustomerSurname  string     // reservations.customer_surname
	CustomerPhone    string     // reservations.customer_phone
	CustomerEmail    string     // reservations.customer_email
	CheckinExpected  *time.Time // reservations.checkin_expected (nullable)
	CheckoutExpected *time.Time // reservations.checkout_expected (nullable)
	CheckinReal      *time.Time // reservations.checkin_real (set by collections)
	CheckoutReal     *time.Time // reservations.checkout_real (set by deliveries)
	BookingPrice     float64    // reservations.booking_price
	ParkingPrice     float64    // reservations.parking_price
	DeliveryPrice    float64    // reservations.delivery_price
	TotalPrice       float64    // reservations.total_price
	State            string     // reservations.state
	ParkID           string     // reservations.park_id
	ParkingType      string     // reservations.parking_type (covered/open tag)
	ReturnFlight     string     // reservations.return_flight
	PickupDriver     string     // reservations.pickup_driver
	DeliveryDriver   string     // reservations.delivery_driver
	PickupNotes      string     // reservations.pickup_notes
	DeliveryNotes    string     // reservations.delivery_notes
	CreatedAt        time.Time  // reservations.created_at
	UpdatedAt        time.Time  // reservations.updated_at
}

// Identity returns the business key used in reconciliation error messages.
func (r *Reservation) Identity() string {
	return r.LicensePlate + "/" + r.AllocationCode
}
