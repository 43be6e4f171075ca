package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cart-checkout/internal/db"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/port"
	"github.com/nikolayk812/cart-checkout/internal/reconcile"
)

type orderRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{
		q: db.New(tx),
	}
}

func (r *orderRepository) FindByID(ctx context.Context, id domain.OrderID) (*domain.Order, error) {
	row, err := r.q.GetOrder(ctx, id.UUID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("q.GetOrder: %w", err)
	}

	itemRows, err := r.q.ListOrderItems(ctx, id.UUID)
	if err != nil {
		return nil, fmt.Errorf("q.ListOrderItems: %w", err)
	}

	order, err := mapOrderRowToDomain(row, itemRows)
	if err != nil {
		return nil, fmt.Errorf("mapOrderRowToDomain: %w", err)
	}

	return order, nil
}

func (r *orderRepository) Save(ctx context.Context, order *domain.Order) error {
	if order == nil {
		return fmt.Errorf("order is nil")
	}

	return inTx(ctx, r.pool, r.q, func(q *db.Queries) error {
		return saveOrder(ctx, q, order)
	})
}

func saveOrder(ctx context.Context, q *db.Queries, order *domain.Order) error {
	id := order.ID().UUID

	exists, err := q.OrderExists(ctx, id)
	if err != nil {
		return fmt.Errorf("q.OrderExists: %w", err)
	}

	if !exists {
		if err := q.InsertOrder(ctx, db.InsertOrderParams{
			ID:            id,
			OwnerID:       ownerToNullUUID(order.OwnerID()),
			Status:        string(order.Status()),
			TotalMinor:    order.Total().MinorUnits(),
			TotalCurrency: order.Total().Currency().String(),
			CreatedAt:     order.CreatedAt(),
			UpdatedAt:     order.UpdatedAt(),
		}); err != nil {
			return fmt.Errorf("q.InsertOrder: %w", err)
		}

		for _, item := range order.Items() {
			if err := q.InsertOrderItem(ctx, insertOrderItemParams(id, item)); err != nil {
				return fmt.Errorf("q.InsertOrderItem[%s]: %w", item.ID(), err)
			}
		}

		return nil
	}

	root, err := q.GetOrderForUpdate(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: order %s", ErrAggregateVanished, id)
	}
	if err != nil {
		return fmt.Errorf("q.GetOrderForUpdate: %w", err)
	}

	if err := syncOrderItems(ctx, q, order); err != nil {
		return err
	}

	if orderRootChanged(root, order) {
		if err := q.UpdateOrder(ctx, db.UpdateOrderParams{
			ID:            id,
			Status:        string(order.Status()),
			TotalMinor:    order.Total().MinorUnits(),
			TotalCurrency: order.Total().Currency().String(),
			UpdatedAt:     order.UpdatedAt(),
		}); err != nil {
			return fmt.Errorf("q.UpdateOrder: %w", err)
		}
	}

	return nil
}

// Order lines are immutable, so only inserts and deletes are reconciled.
func syncOrderItems(ctx context.Context, q *db.Queries, order *domain.Order) error {
	id := order.ID().UUID

	ids, err := q.ListOrderItemIDs(ctx, id)
	if err != nil {
		return fmt.Errorf("q.ListOrderItemIDs: %w", err)
	}

	persisted := make(map[uuid.UUID]struct{}, len(ids))
	for _, itemID := range ids {
		persisted[itemID] = struct{}{}
	}

	items := order.Items()
	plan := reconcile.Build[uuid.UUID, struct{}](persisted, items, orderItemKey, nil)

	switch {
	case len(items) == 0 && len(persisted) > 0:
		if _, err := q.DeleteAllOrderItems(ctx, id); err != nil {
			return fmt.Errorf("q.DeleteAllOrderItems: %w", err)
		}
	case len(plan.Delete) > 0:
		if _, err := q.DeleteOrderItemsByIDs(ctx, db.DeleteOrderItemsByIDsParams{
			OrderID: id,
			Ids:     plan.Delete,
		}); err != nil {
			return fmt.Errorf("q.DeleteOrderItemsByIDs: %w", err)
		}
	}

	for _, item := range plan.Insert {
		if err := q.InsertOrderItem(ctx, insertOrderItemParams(id, item)); err != nil {
			return fmt.Errorf("q.InsertOrderItem[%s]: %w", item.ID(), err)
		}
	}

	return nil
}

func orderItemKey(item domain.OrderItem) uuid.UUID {
	return item.ID().UUID
}

func orderRootChanged(root db.Order, order *domain.Order) bool {
	return root.Status != string(order.Status()) ||
		root.TotalMinor != order.Total().MinorUnits() ||
		root.TotalCurrency != order.Total().Currency().String() ||
		!sameInstant(root.UpdatedAt, order.UpdatedAt())
}

func insertOrderItemParams(orderID uuid.UUID, item domain.OrderItem) db.InsertOrderItemParams {
	return db.InsertOrderItemParams{
		ID:                item.ID().UUID,
		OrderID:           orderID,
		ProductID:         item.ProductID().UUID,
		ProductName:       item.Name().String(),
		UnitPriceMinor:    item.UnitPrice().MinorUnits(),
		UnitPriceCurrency: item.UnitPrice().Currency().String(),
		Quantity:          int32(item.Quantity().Int()),
		CreatedAt:         item.CreatedAt(),
		UpdatedAt:         item.UpdatedAt(),
	}
}
