package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/MikeMC777/cardstore/internal/inventory"
)

// MemStore is an in-memory Store. Inventory mutations are applied as they
// happen and undone by compensating actions if the unit of work fails;
// order writes are staged and only become visible on commit.
type MemStore struct {
	Inventory *inventory.MemStore

	mu     sync.Mutex
	orders map[int64]*Order
	locks  map[int64]chan struct{}
	nextID int64
}

func NewMemStore(inv *inventory.MemStore) *MemStore {
	return &MemStore{
		Inventory: inv,
		orders:    map[int64]*Order{},
		locks:     map[int64]chan struct{}{},
	}
}

func (m *MemStore) InTx(ctx context.Context, fn func(context.Context, Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, TxTimeout)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &memTx{m: m}
	defer tx.unlock()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	tx.commit()
	return nil
}

func (m *MemStore) Get(_ context.Context, id int64) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	return o.clone(), nil
}

func (m *MemStore) ListByUser(_ context.Context, userID int64, limit, offset int) ([]Order, error) {
	limit, offset = ClampPage(limit, offset)

	m.mu.Lock()
	out := []Order{}
	for _, o := range m.orders {
		if o.UserID == userID {
			cp := *o
			cp.Lines = nil
			out = append(out, cp)
		}
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if offset >= len(out) {
		return []Order{}, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

// orderLock returns the per-order lock, a channel with one slot so waiters
// can give up when their context ends.
func (m *MemStore) orderLock(id int64) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[id]
	if !ok {
		l = make(chan struct{}, 1)
		m.locks[id] = l
	}
	return l
}

type statusWrite struct {
	id       int64
	from, to Status
}

type memTx struct {
	m        *MemStore
	undo     []func() error
	inserts  []*Order
	statuses []statusWrite
	held     []chan struct{}
}

func (tx *memTx) Reserve(_ context.Context, listingID int64, qty int) (*inventory.Listing, error) {
	l, err := tx.m.Inventory.Reserve(listingID, qty)
	if err != nil {
		return nil, err
	}
	tx.undo = append(tx.undo, func() error { return tx.m.Inventory.Release(listingID, qty) })
	return &l, nil
}

func (tx *memTx) Release(_ context.Context, listingID int64, qty int) error {
	if err := tx.m.Inventory.Release(listingID, qty); err != nil {
		return err
	}
	tx.undo = append(tx.undo, func() error {
		_, err := tx.m.Inventory.Reserve(listingID, qty)
		return err
	})
	return nil
}

func (tx *memTx) InsertOrder(_ context.Context, o *Order) error {
	tx.m.mu.Lock()
	tx.m.nextID++
	o.ID = tx.m.nextID
	tx.m.mu.Unlock()
	tx.inserts = append(tx.inserts, o.clone())
	return nil
}

func (tx *memTx) LockOrder(ctx context.Context, id int64) (*Order, error) {
	l := tx.m.orderLock(id)
	select {
	case l <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("lock order %d: %w", id, ctx.Err())
	}
	tx.held = append(tx.held, l)

	tx.m.mu.Lock()
	defer tx.m.mu.Unlock()
	o, ok := tx.m.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	return o.clone(), nil
}

func (tx *memTx) UpdateStatus(_ context.Context, id int64, from, to Status) error {
	tx.m.mu.Lock()
	defer tx.m.mu.Unlock()
	o, ok := tx.m.orders[id]
	if !ok {
		return fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if o.Status != from {
		return ErrStatusMismatch
	}
	tx.statuses = append(tx.statuses, statusWrite{id: id, from: from, to: to})
	return nil
}

// rollback runs compensations newest first.
func (tx *memTx) rollback() error {
	var errs []error
	for i := len(tx.undo) - 1; i >= 0; i-- {
		if err := tx.undo[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (tx *memTx) commit() {
	tx.m.mu.Lock()
	defer tx.m.mu.Unlock()
	for _, o := range tx.inserts {
		tx.m.orders[o.ID] = o
	}
	for _, w := range tx.statuses {
		if o, ok := tx.m.orders[w.id]; ok {
			o.Status = w.to
			o.UpdatedAt = time.Now().UTC()
		}
	}
}

func (tx *memTx) unlock() {
	for i := len(tx.held) - 1; i >= 0; i-- {
		<-tx.held[i]
	}
	tx.held = nil
}
