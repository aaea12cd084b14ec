package inventory

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeMC777/cardstore/internal/postgres"
)

// pgPool connects to CARDSTORE_TEST_DSN and applies the schema. The test is
// skipped when the variable is unset.
func pgPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("CARDSTORE_TEST_DSN")
	if dsn == "" {
		t.Skip("CARDSTORE_TEST_DSN not set")
	}
	ctx := context.Background()
	pool, err := postgres.Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := postgres.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

func insertListing(t *testing.T, pool *pgxpool.Pool, qty int) int64 {
	t.Helper()
	ctx := context.Background()
	var productID, id int64
	if err := pool.QueryRow(ctx, `INSERT INTO products (name) VALUES ('Booster Box') RETURNING id`).Scan(&productID); err != nil {
		t.Fatal(err)
	}
	if err := pool.QueryRow(ctx, `
		INSERT INTO inventory_listings (product_id, version, price, quantity)
		VALUES ($1, 'LOB', 99.90, $2) RETURNING id`, productID, qty).Scan(&id); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM inventory_listings WHERE id = $1`, id)
		_, _ = pool.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, productID)
	})
	return id
}

func TestPGReserve_LastUnitGoesToOneCaller(t *testing.T) {
	pool := pgPool(t)
	id := insertListing(t, pool, 1)

	const callers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		won     int
		stockEs int
		other   []error
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Reserve(context.Background(), pool, id, 1)
			mu.Lock()
			defer mu.Unlock()
			var se *StockError
			switch {
			case err == nil:
				won++
			case errors.As(err, &se) && errors.Is(err, ErrInsufficientStock):
				stockEs++
			default:
				other = append(other, err)
			}
		}()
	}
	wg.Wait()

	if won != 1 || stockEs != callers-1 || len(other) != 0 {
		t.Fatalf("won=%d stock errors=%d other=%v", won, stockEs, other)
	}
	l, err := NewPGRepo(pool).GetByID(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if l.Quantity != 0 {
		t.Fatalf("quantity=%d, want 0", l.Quantity)
	}
}

func TestPGReserveRelease(t *testing.T) {
	pool := pgPool(t)
	ctx := context.Background()
	id := insertListing(t, pool, 3)

	l, err := Reserve(ctx, pool, id, 2)
	if err != nil {
		t.Fatal(err)
	}
	if l.Quantity != 1 {
		t.Fatalf("after reserve quantity=%d, want 1", l.Quantity)
	}

	var se *StockError
	if _, err := Reserve(ctx, pool, id, 2); !errors.As(err, &se) || se.Available != 1 || se.Requested != 2 {
		t.Fatalf("err=%v, want stock error with available 1", err)
	}

	if err := Release(ctx, pool, id, 2); err != nil {
		t.Fatal(err)
	}
	if l, _ := NewPGRepo(pool).GetByID(ctx, id); l.Quantity != 3 {
		t.Fatalf("after release quantity=%d, want 3", l.Quantity)
	}

	if _, err := Reserve(ctx, pool, -1, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("reserve unknown: %v", err)
	}
	if err := Release(ctx, pool, -1, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("release unknown: %v", err)
	}
	if _, err := Reserve(ctx, pool, id, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("zero quantity: %v", err)
	}
}
