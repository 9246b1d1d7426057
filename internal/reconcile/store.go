// Package reconcile merges canonical upload batches into the reservation
// store: lookup by business identity, then insert or update. Stores are
// injected so tests can run the engine against an in-memory fake.
package reconcile

import (
	"context"
	"errors"

	"github.com/multipark/backoffice/internal/model"
)

// ErrNotFound is returned by stores when no reservation matches the
// requested identity. The engine treats it as a branch, not a failure.
var ErrNotFound = errors.New("reservation not found")

// ReservationStore is the single-row storage surface the engine reads and
// writes through. Each call is atomic at row level; the engine never
// composes them into a larger transaction.
type ReservationStore interface {
	// FindByIdentity looks a reservation up by its composite business key.
	FindByIdentity(ctx context.Context, plate, allocation string) (*model.Reservation, error)
	// FindByPlate looks a reservation up by license plate alone, the key
	// used by cash uploads.
	FindByPlate(ctx context.Context, plate string) (*model.Reservation, error)
	Insert(ctx context.Context, r *model.Reservation) error
	Update(ctx context.Context, r *model.Reservation) error
}

// CashStore persists validated till movements against reservations.
type CashStore interface {
	Record(ctx context.Context, tx *model.CashTransaction) error
}
