package repository

import (
	"context"
	"database/sql"

	"github.com/multipark/backoffice/internal/model"
)

// ParkRepo reads the parks table. Parks are managed out of band; this API
// only lists them for the dashboard and for the Redis snapshot sync.
type ParkRepo struct {
	db *sql.DB
}

// NewParkRepo returns a new ParkRepo bound to the given database.
func NewParkRepo(db *sql.DB) *ParkRepo { return &ParkRepo{db: db} }

const parkCols = `id, name, city, address, capacity_total, capacity_covered, capacity_open, active`

// ListActive returns all active parks ordered by name.
func (r *ParkRepo) ListActive(ctx context.Context) ([]model.Park, error) {
	const q = `SELECT ` + parkCols + ` FROM parks WHERE active = 1 ORDER BY name`
	return r.list(ctx, q)
}

// ListAll returns every park, active or not, ordered by name. Used by the
// sync job so deactivated parks are propagated too.
func (r *ParkRepo) ListAll(ctx context.Context) ([]model.Park, error) {
	const q = `SELECT ` + parkCols + ` FROM parks ORDER BY name`
	return r.list(ctx, q)
}

// Exists reports whether a park with the given ID is present.
func (r *ParkRepo) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM parks WHERE id = ? LIMIT 1`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *ParkRepo) list(ctx context.Context, q string) ([]model.Park, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Park, 0)
	for rows.Next() {
		var p model.Park
		if err := rows.Scan(&p.ID, &p.Name, &p.City, &p.Address, &p.CapacityTotal,
			&p.CapacityCovered, &p.CapacityOpen, &p.Active); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
