package repository

import (
	"context"
	"database/sql"

	"github.com/multipark/backoffice/internal/model"
)

// CashRepo persists validated till movements. It implements
// reconcile.CashStore. Rows are append-only: a resubmitted cash file for
// the same reservation, amount and timestamp is deduplicated by the
// unique key over (reservation_id, amount, tx_at).
type CashRepo struct {
	db *sql.DB
}

// NewCashRepo returns a new CashRepo bound to the given database.
func NewCashRepo(db *sql.DB) *CashRepo { return &CashRepo{db: db} }

// Record upserts one till movement and populates its generated ID. The
// ON DUPLICATE KEY clause refreshes the method and notes, which keeps a
// corrected resubmission of the same file idempotent.
func (r *CashRepo) Record(ctx context.Context, tx *model.CashTransaction) error {
	const q = `INSERT INTO cash_transactions (reservation_id, amount, payment_method, tx_at, notes)
               VALUES (?,?,?,?,?)
               ON DUPLICATE KEY UPDATE payment_method = VALUES(payment_method), notes = VALUES(notes)`
	result, err := r.db.ExecContext(ctx, q, tx.ReservationID, tx.Amount, tx.PaymentMethod, tx.TxAt, tx.Notes)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	tx.ID = uint64(id)
	return nil
}

// ListByReservation returns all till movements for a reservation, oldest first.
func (r *CashRepo) ListByReservation(ctx context.Context, reservationID uint64) ([]model.CashTransaction, error) {
	const q = `SELECT id, reservation_id, amount, payment_method, tx_at, notes, created_at
               FROM cash_transactions WHERE reservation_id = ? ORDER BY tx_at`
	rows, err := r.db.QueryContext(ctx, q, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.CashTransaction, 0)
	for rows.Next() {
		var tx model.CashTransaction
		if err := rows.Scan(&tx.ID, &tx.ReservationID, &tx.Amount, &tx.PaymentMethod,
			&tx.TxAt, &tx.Notes, &tx.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
