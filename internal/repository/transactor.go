package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cart-checkout/internal/db"
	"github.com/nikolayk812/cart-checkout/internal/port"
)

type transactor struct {
	pool     *pgxpool.Pool
	cartOpts []CartOption
}

// NewTransactor returns a port.Transactor whose repositories share one pgx transaction.
func NewTransactor(pool *pgxpool.Pool, opts ...CartOption) port.Transactor {
	return &transactor{pool: pool, cartOpts: opts}
}

func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, carts port.CartRepository, orders port.OrderRepository) error) error {
	return inTx(ctx, t.pool, nil, func(q *db.Queries) error {
		carts := newCartRepository(q, nil, t.cartOpts)
		orders := &orderRepository{q: q}

		return fn(ctx, carts, orders)
	})
}
