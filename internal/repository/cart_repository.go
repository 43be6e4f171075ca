package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cart-checkout/internal/db"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/port"
	"github.com/nikolayk812/cart-checkout/internal/reconcile"
)

// ErrAggregateVanished is returned when a root row seen by the existence check
// is gone by the time it is locked for update.
var ErrAggregateVanished = errors.New("aggregate row vanished during save")

type cartRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
	now  func() time.Time
}

type CartOption func(*cartRepository)

// WithClock sets the clock FindByID compares expires_at against.
func WithClock(now func() time.Time) CartOption {
	return func(r *cartRepository) {
		r.now = now
	}
}

func NewCart(pool *pgxpool.Pool, opts ...CartOption) port.CartRepository {
	return newCartRepository(db.New(pool), pool, opts)
}

func NewCartWithTx(tx pgx.Tx, opts ...CartOption) port.CartRepository {
	return newCartRepository(db.New(tx), nil, opts) // use provided transaction instead
}

func newCartRepository(q *db.Queries, pool *pgxpool.Pool, opts []CartOption) *cartRepository {
	r := &cartRepository{
		q:    q,
		pool: pool,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *cartRepository) FindByID(ctx context.Context, id domain.CartID) (*domain.Cart, error) {
	row, err := r.q.GetCart(ctx, id.UUID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrCartNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("q.GetCart: %w", err)
	}

	if !row.ExpiresAt.After(r.now()) {
		return nil, fmt.Errorf("%w: %s expired at %s", domain.ErrCartNotFound, id, row.ExpiresAt.Format(time.RFC3339))
	}

	itemRows, err := r.q.ListCartItems(ctx, id.UUID)
	if err != nil {
		return nil, fmt.Errorf("q.ListCartItems: %w", err)
	}

	cart, err := mapCartRowToDomain(row, itemRows)
	if err != nil {
		return nil, fmt.Errorf("mapCartRowToDomain: %w", err)
	}

	return cart, nil
}

func (r *cartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	if cart == nil {
		return fmt.Errorf("cart is nil")
	}

	return inTx(ctx, r.pool, r.q, func(q *db.Queries) error {
		return saveCart(ctx, q, cart)
	})
}

func saveCart(ctx context.Context, q *db.Queries, cart *domain.Cart) error {
	id := cart.ID().UUID

	exists, err := q.CartExists(ctx, id)
	if err != nil {
		return fmt.Errorf("q.CartExists: %w", err)
	}

	if !exists {
		if err := q.InsertCart(ctx, db.InsertCartParams{
			ID:        id,
			OwnerID:   ownerToNullUUID(cart.OwnerID()),
			CreatedAt: cart.CreatedAt(),
			ExpiresAt: cart.ExpiresAt(),
		}); err != nil {
			return fmt.Errorf("q.InsertCart: %w", err)
		}

		for _, item := range cart.Items() {
			if err := q.InsertCartItem(ctx, insertCartItemParams(id, item)); err != nil {
				return fmt.Errorf("q.InsertCartItem[%s]: %w", item.ID(), err)
			}
		}

		return nil
	}

	root, err := q.GetCartForUpdate(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: cart %s", ErrAggregateVanished, id)
	}
	if err != nil {
		return fmt.Errorf("q.GetCartForUpdate: %w", err)
	}

	if err := syncCartItems(ctx, q, cart); err != nil {
		return err
	}

	if !sameInstant(root.ExpiresAt, cart.ExpiresAt()) {
		if err := q.UpdateCartExpiresAt(ctx, db.UpdateCartExpiresAtParams{
			ID:        id,
			ExpiresAt: cart.ExpiresAt(),
		}); err != nil {
			return fmt.Errorf("q.UpdateCartExpiresAt: %w", err)
		}
	}

	return nil
}

func syncCartItems(ctx context.Context, q *db.Queries, cart *domain.Cart) error {
	id := cart.ID().UUID

	states, err := q.ListCartItemStates(ctx, id)
	if err != nil {
		return fmt.Errorf("q.ListCartItemStates: %w", err)
	}

	persisted := make(map[uuid.UUID]db.ListCartItemStatesRow, len(states))
	for _, s := range states {
		persisted[s.ID] = s
	}

	items := cart.Items()
	plan := reconcile.Build(persisted, items, cartItemKey, cartItemChanged)

	switch {
	case len(items) == 0 && len(persisted) > 0:
		if _, err := q.DeleteAllCartItems(ctx, id); err != nil {
			return fmt.Errorf("q.DeleteAllCartItems: %w", err)
		}
	case len(plan.Delete) > 0:
		if _, err := q.DeleteCartItemsByIDs(ctx, db.DeleteCartItemsByIDsParams{
			CartID: id,
			Ids:    plan.Delete,
		}); err != nil {
			return fmt.Errorf("q.DeleteCartItemsByIDs: %w", err)
		}
	}

	for _, item := range plan.Update {
		if err := q.UpdateCartItem(ctx, db.UpdateCartItemParams{
			ID:        item.ID().UUID,
			Quantity:  int32(item.Quantity().Int()),
			UpdatedAt: item.UpdatedAt(),
		}); err != nil {
			return fmt.Errorf("q.UpdateCartItem[%s]: %w", item.ID(), err)
		}
	}

	for _, item := range plan.Insert {
		if err := q.InsertCartItem(ctx, insertCartItemParams(id, item)); err != nil {
			return fmt.Errorf("q.InsertCartItem[%s]: %w", item.ID(), err)
		}
	}

	return nil
}

func cartItemKey(item domain.CartItem) uuid.UUID {
	return item.ID().UUID
}

func cartItemChanged(stored db.ListCartItemStatesRow, item domain.CartItem) bool {
	return int(stored.Quantity) != item.Quantity().Int() || !sameInstant(stored.UpdatedAt, item.UpdatedAt())
}

func insertCartItemParams(cartID uuid.UUID, item domain.CartItem) db.InsertCartItemParams {
	return db.InsertCartItemParams{
		ID:                item.ID().UUID,
		CartID:            cartID,
		ProductID:         item.ProductID().UUID,
		ProductName:       item.Name().String(),
		UnitPriceMinor:    item.UnitPrice().MinorUnits(),
		UnitPriceCurrency: item.UnitPrice().Currency().String(),
		Quantity:          int32(item.Quantity().Int()),
		CreatedAt:         item.CreatedAt(),
		UpdatedAt:         item.UpdatedAt(),
	}
}
