// Package inventory owns listing reads and the only two legal quantity
// mutations: Reserve (conditional decrement) and Release (increment).
package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/cardstore/internal/postgres"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Listing, error)
	List(ctx context.Context, q Query) ([]Listing, error)
	UpdatePrice(ctx context.Context, id int64, price decimal.Decimal) (*Listing, error)
}

const selectListing = `
	SELECT l.id, l.product_id, l.card_id, COALESCE(p.name, c.name, ''), l.version, l.condition,
	       l.price::text, l.quantity, l.created_at, l.updated_at
	FROM inventory_listings l
	LEFT JOIN products p ON p.id = l.product_id
	LEFT JOIN cards c ON c.id = l.card_id`

func scanListing(row pgx.Row) (*Listing, error) {
	var (
		l     Listing
		price string
	)
	if err := row.Scan(&l.ID, &l.ProductID, &l.CardID, &l.Name, &l.Version, &l.Condition,
		&price, &l.Quantity, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	l.Price = p
	return &l, nil
}

func get(ctx context.Context, db postgres.DBTX, id int64) (*Listing, error) {
	l, err := scanListing(db.QueryRow(ctx, selectListing+` WHERE l.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return l, err
}

// Reserve decrements the listing quantity by qty in a single conditional
// UPDATE, so two concurrent callers can never both pass the availability
// check. It returns the listing as it is after the decrement.
func Reserve(ctx context.Context, db postgres.DBTX, id int64, qty int) (*Listing, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}
	tag, err := db.Exec(ctx, `
		UPDATE inventory_listings
		SET quantity = quantity - $2, updated_at = NOW()
		WHERE id = $1 AND quantity >= $2
	`, id, qty)
	if err != nil {
		return nil, err
	}
	l, err := get(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, &StockError{ListingID: id, Requested: qty, Available: l.Quantity}
	}
	return l, nil
}

// Release puts qty units back. There is no upper bound.
func Release(ctx context.Context, db postgres.DBTX, id int64, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	tag, err := db.Exec(ctx, `
		UPDATE inventory_listings
		SET quantity = quantity + $2, updated_at = NOW()
		WHERE id = $1
	`, id, qty)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return get(ctx, r.db, id)
}

func (r *PGRepo) List(ctx context.Context, q Query) ([]Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	q = q.Normalized()
	rows, err := r.db.Query(ctx, selectListing+`
		WHERE ($1 = '' OR COALESCE(p.name, c.name) ILIKE '%'||$1||'%')
		ORDER BY l.id
		LIMIT $2 OFFSET $3
	`, strings.TrimSpace(q.Q), q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdatePrice(ctx context.Context, id int64, price decimal.Decimal) (*Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE inventory_listings SET price = $2, updated_at = NOW() WHERE id = $1
	`, id, price.String())
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return get(ctx, r.db, id)
}
