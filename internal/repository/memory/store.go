// Package memory keeps carts and orders as rows in process memory. It applies
// the same reconciliation as the Postgres repositories and backs tests and the
// CLI when no database is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/port"
)

type cartRow struct {
	ownerID   *domain.UserID
	createdAt time.Time
	expiresAt time.Time
}

type orderRow struct {
	ownerID   *domain.UserID
	status    domain.OrderStatus
	total     domain.Money
	createdAt time.Time
	updatedAt time.Time
}

type tables struct {
	carts      map[uuid.UUID]cartRow
	cartItems  map[uuid.UUID]map[uuid.UUID]domain.CartItem
	orders     map[uuid.UUID]orderRow
	orderItems map[uuid.UUID]map[uuid.UUID]domain.OrderItem
}

func newTables() *tables {
	return &tables{
		carts:      make(map[uuid.UUID]cartRow),
		cartItems:  make(map[uuid.UUID]map[uuid.UUID]domain.CartItem),
		orders:     make(map[uuid.UUID]orderRow),
		orderItems: make(map[uuid.UUID]map[uuid.UUID]domain.OrderItem),
	}
}

func (t *tables) clone() *tables {
	c := newTables()
	for id, row := range t.carts {
		c.carts[id] = row
	}
	for id, items := range t.cartItems {
		c.cartItems[id] = cloneMap(items)
	}
	for id, row := range t.orders {
		c.orders[id] = row
	}
	for id, items := range t.orderItems {
		c.orderItems[id] = cloneMap(items)
	}
	return c
}

func cloneMap[V any](m map[uuid.UUID]V) map[uuid.UUID]V {
	c := make(map[uuid.UUID]V, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// Store is safe for concurrent use. Writers are serialized; readers see the
// last committed state.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	data *tables
	now  func() time.Time
}

type Option func(*Store)

// WithClock sets the clock used to decide whether a stored cart has expired.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		data: newTables(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// access runs fn against a set of tables. Writes go through the store's locks
// for committed state, or straight to a transaction's private copy.
type access interface {
	read(fn func(t *tables) error) error
	write(fn func(t *tables) error) error
}

type committed struct {
	s *Store
}

func (c committed) read(fn func(t *tables) error) error {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	return fn(c.s.data)
}

func (c committed) write(fn func(t *tables) error) error {
	c.s.txMu.Lock()
	defer c.s.txMu.Unlock()

	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return fn(c.s.data)
}

type pending struct {
	t *tables
}

func (p pending) read(fn func(t *tables) error) error  { return fn(p.t) }
func (p pending) write(fn func(t *tables) error) error { return fn(p.t) }

func (s *Store) Carts() port.CartRepository {
	return &cartRepository{db: committed{s: s}, now: s.now}
}

func (s *Store) Orders() port.OrderRepository {
	return &orderRepository{db: committed{s: s}}
}

// WithinTx runs fn against a private copy of the tables and publishes the copy
// only when fn succeeds.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, carts port.CartRepository, orders port.OrderRepository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	working := s.data.clone()
	s.mu.RUnlock()

	tx := pending{t: working}
	if err := fn(ctx, &cartRepository{db: tx, now: s.now}, &orderRepository{db: tx}); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = working
	s.mu.Unlock()

	return nil
}

var _ port.Transactor = (*Store)(nil)
