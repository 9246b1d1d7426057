package model

import "time"

// PaymentCash is the default payment method when an uploaded cash row does
// not name one.
const PaymentCash = "cash"

// CashTransaction is a validated till movement linked to a reservation.
// Cash uploads match reservations by license plate alone, so several
// transactions may reference the same reservation.
type CashTransaction struct {
	ID            uint64    // cash_transactions.id
	ReservationID uint64    // cash_transactions.reservation_id
	Amount        float64   // cash_transactions.amount
	PaymentMethod string    // cash_transactions.payment_method
	TxAt          time.Time // cash_transactions.tx_at
	Notes         string    // cash_transactions.notes
	CreatedAt     time.Time // cash_transactions.created_at
}
