package inventory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// MemStore keeps listings in memory. Reserve and Release are atomic with
// respect to each other under a single mutex.
type MemStore struct {
	mu       sync.Mutex
	listings map[int64]Listing
}

func NewMemStore(ls ...Listing) *MemStore {
	m := &MemStore{listings: make(map[int64]Listing, len(ls))}
	for _, l := range ls {
		m.Put(l)
	}
	return m
}

func (m *MemStore) Put(l Listing) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	l.UpdatedAt = l.CreatedAt
	m.listings[l.ID] = l
}

func (m *MemStore) Reserve(id int64, qty int) (Listing, error) {
	if qty <= 0 {
		return Listing{}, ErrInvalidQuantity
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return Listing{}, ErrNotFound
	}
	if l.Quantity < qty {
		return Listing{}, &StockError{ListingID: id, Requested: qty, Available: l.Quantity}
	}
	l.Quantity -= qty
	l.UpdatedAt = time.Now().UTC()
	m.listings[id] = l
	return l, nil
}

func (m *MemStore) Release(id int64, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return ErrNotFound
	}
	l.Quantity += qty
	l.UpdatedAt = time.Now().UTC()
	m.listings[id] = l
	return nil
}

func (m *MemStore) GetByID(_ context.Context, id int64) (*Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &l, nil
}

func (m *MemStore) List(_ context.Context, q Query) ([]Listing, error) {
	q = q.Normalized()
	needle := strings.ToLower(strings.TrimSpace(q.Q))

	m.mu.Lock()
	out := make([]Listing, 0, len(m.listings))
	for _, l := range m.listings {
		if needle != "" && !strings.Contains(strings.ToLower(l.Name), needle) {
			continue
		}
		out = append(out, l)
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if q.Offset >= len(out) {
		return []Listing{}, nil
	}
	end := q.Offset + q.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[q.Offset:end], nil
}

func (m *MemStore) UpdatePrice(_ context.Context, id int64, price decimal.Decimal) (*Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[id]
	if !ok {
		return nil, ErrNotFound
	}
	l.Price = price
	l.UpdatedAt = time.Now().UTC()
	m.listings[id] = l
	return &l, nil
}
