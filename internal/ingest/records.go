// Package ingest turns uploaded spreadsheet files (xlsx or csv) into
// canonical, typed record batches. Parsing is a pure function of the file
// bytes: header aliases are resolved through ordered lookup tables, cell
// values go through the coercers in coerce.go, and rows missing their
// identity fields are dropped and reported through SkippedRow.
package ingest

import "time"

// Kind names one supported upload type.
type Kind string

const (
	KindReservations Kind = "reservations"
	KindCash         Kind = "cash"
	KindDeliveries   Kind = "deliveries"
	KindCollections  Kind = "collections"
)

// ParseKind maps the declared upload type from the request to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindReservations, KindCash, KindDeliveries, KindCollections:
		return Kind(s), true
	}
	return "", false
}

// RawRow is one spreadsheet row before coercion: header text to cell text.
type RawRow map[string]string

// SkippedRow reports a row that was dropped during parsing, so callers can
// tell identity omissions apart from other causes. Index is the zero-based
// position of the row in the raw batch (header row excluded).
type SkippedRow struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// ReservationRow is the canonical form of one reservation upload row.
// LicensePlate and AllocationCode are mandatory; rows lacking either are
// never emitted by the parser.
type ReservationRow struct {
	LicensePlate     string
	AllocationCode   string
	CustomerName     string
	CustomerSurname  string
	CustomerPhone    string
	CustomerEmail    string
	CheckinExpected  *time.Time
	CheckoutExpected *time.Time
	BookingPrice     float64
	ParkingPrice     float64
	DeliveryPrice    float64
	TotalPrice       float64
	State            string
	ParkID           string
	ParkingType      string
	ReturnFlight     string
}

// CashRow is the canonical form of one till-movement upload row. Identity
// is the license plate alone and is not guaranteed unique across the batch.
// TxAt stays nil when the cell is absent or unparseable; the reconciliation
// engine substitutes the ingestion time.
type CashRow struct {
	LicensePlate  string
	Amount        float64
	PaymentMethod string
	TxAt          *time.Time
	Notes         string
}

// DeliveryRow is the canonical form of one delivery upload row.
type DeliveryRow struct {
	LicensePlate   string
	AllocationCode string
	DeliveredAt    *time.Time
	Driver         string
	Notes          string
}

// CollectionRow is the canonical form of one collection (pickup) upload row.
type CollectionRow struct {
	LicensePlate   string
	AllocationCode string
	CollectedAt    *time.Time
	Driver         string
	Notes          string
}
