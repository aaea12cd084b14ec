package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/cardstore/internal/inventory"
	"github.com/MikeMC777/cardstore/internal/postgres"
)

// PGStore is the Postgres Store. Every unit of work is one pgx transaction:
// listing decrements use a conditional UPDATE and cancellation locks the
// order row with SELECT ... FOR UPDATE.
type PGStore struct{ db *pgxpool.Pool }

func NewPGStore(db *pgxpool.Pool) *PGStore { return &PGStore{db: db} }

func (s *PGStore) InTx(ctx context.Context, fn func(context.Context, Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, TxTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	if err := fn(ctx, &pgTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PGStore) Get(ctx context.Context, id int64) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return loadOrder(ctx, s.db, id, false)
}

func (s *PGStore) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	limit, offset = ClampPage(limit, offset)
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, status, total::text, created_at, updated_at
		FROM orders WHERE user_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

type pgTx struct{ tx pgx.Tx }

func (t *pgTx) Reserve(ctx context.Context, listingID int64, qty int) (*inventory.Listing, error) {
	return inventory.Reserve(ctx, t.tx, listingID, qty)
}

func (t *pgTx) Release(ctx context.Context, listingID int64, qty int) error {
	return inventory.Release(ctx, t.tx, listingID, qty)
}

func (t *pgTx) InsertOrder(ctx context.Context, o *Order) error {
	if err := t.tx.QueryRow(ctx, `
		INSERT INTO orders (user_id, status, total, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$4)
		RETURNING id
	`, o.UserID, string(o.Status), o.Total.String(), o.CreatedAt).Scan(&o.ID); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i, l := range o.Lines {
		if _, err := t.tx.Exec(ctx, `
			INSERT INTO order_lines (order_id, position, listing_id, quantity, unit_price)
			VALUES ($1,$2,$3,$4,$5)
		`, o.ID, i, l.ListingID, l.Quantity, l.UnitPrice.String()); err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}

	for _, a := range []Address{o.Billing, o.Delivery} {
		if _, err := t.tx.Exec(ctx, `
			INSERT INTO order_addresses (order_id, street, number, complement, neighborhood,
			                             city, state, country, zip_code, is_billing, is_delivery)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		`, o.ID, a.Street, a.Number, a.Complement, a.Neighborhood,
			a.City, a.State, a.Country, a.ZipCode, a.IsBilling, a.IsDelivery); err != nil {
			return fmt.Errorf("insert order address: %w", err)
		}
	}
	return nil
}

func (t *pgTx) LockOrder(ctx context.Context, id int64) (*Order, error) {
	return loadOrder(ctx, t.tx, id, true)
}

func (t *pgTx) UpdateStatus(ctx context.Context, id int64, from, to Status) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE orders
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`, id, string(from), string(to))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStatusMismatch
	}
	return nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var (
		o      Order
		status string
		total  string
	)
	if err := row.Scan(&o.ID, &o.UserID, &status, &total, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(total)
	if err != nil {
		return nil, err
	}
	o.Status = Status(status)
	if !o.Status.Valid() {
		return nil, fmt.Errorf("order %d: unknown status %q", o.ID, status)
	}
	o.Total = d
	return &o, nil
}

func loadOrder(ctx context.Context, db postgres.DBTX, id int64, forUpdate bool) (*Order, error) {
	q := `SELECT id, user_id, status, total::text, created_at, updated_at FROM orders WHERE id = $1`
	if forUpdate {
		q += ` FOR UPDATE`
	}
	o, err := scanOrder(db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if o.Lines, err = loadLines(ctx, db, id); err != nil {
		return nil, err
	}
	if err := loadAddresses(ctx, db, o); err != nil {
		return nil, err
	}
	return o, nil
}

func loadLines(ctx context.Context, db postgres.DBTX, orderID int64) ([]Line, error) {
	rows, err := db.Query(ctx, `
		SELECT ol.listing_id, COALESCE(p.name, c.name, ''), l.version, l.condition,
		       ol.quantity, ol.unit_price::text
		FROM order_lines ol
		JOIN inventory_listings l ON l.id = ol.listing_id
		LEFT JOIN products p ON p.id = l.product_id
		LEFT JOIN cards c ON c.id = l.card_id
		WHERE ol.order_id = $1
		ORDER BY ol.position
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var (
			l     Line
			price string
		)
		if err := rows.Scan(&l.ListingID, &l.Name, &l.Version, &l.Condition, &l.Quantity, &price); err != nil {
			return nil, err
		}
		if l.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func loadAddresses(ctx context.Context, db postgres.DBTX, o *Order) error {
	rows, err := db.Query(ctx, `
		SELECT street, number, complement, neighborhood, city, state, country, zip_code,
		       is_billing, is_delivery
		FROM order_addresses WHERE order_id = $1
	`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a Address
		if err := rows.Scan(&a.Street, &a.Number, &a.Complement, &a.Neighborhood, &a.City,
			&a.State, &a.Country, &a.ZipCode, &a.IsBilling, &a.IsDelivery); err != nil {
			return err
		}
		if a.IsBilling {
			o.Billing = a
		} else {
			o.Delivery = a
		}
	}
	return rows.Err()
}
