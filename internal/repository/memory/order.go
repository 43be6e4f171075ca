package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/reconcile"
)

type orderRepository struct {
	db access
}

func (r *orderRepository) FindByID(_ context.Context, id domain.OrderID) (*domain.Order, error) {
	var order *domain.Order

	err := r.db.read(func(t *tables) error {
		row, ok := t.orders[id.UUID]
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrOrderNotFound, id)
		}

		items := make([]domain.OrderItem, 0, len(t.orderItems[id.UUID]))
		for _, item := range t.orderItems[id.UUID] {
			items = append(items, item)
		}
		sortByCreation(items, domain.OrderItem.CreatedAt, orderItemKey)

		var err error
		order, err = domain.RestoreOrder(id, row.ownerID, row.status, row.total, row.createdAt, row.updatedAt, items)
		return err
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) Save(_ context.Context, order *domain.Order) error {
	if order == nil {
		return fmt.Errorf("order is nil")
	}

	return r.db.write(func(t *tables) error {
		id := order.ID().UUID

		row, exists := t.orders[id]
		if !exists {
			owner, ok := order.OwnerID()
			row = orderRow{createdAt: order.CreatedAt()}
			if ok {
				row.ownerID = &owner
			}
		}

		stored := t.orderItems[id]
		if stored == nil {
			stored = make(map[uuid.UUID]domain.OrderItem)
			t.orderItems[id] = stored
		}

		plan := reconcile.Build[uuid.UUID, domain.OrderItem](stored, order.Items(), orderItemKey, nil)
		for _, k := range plan.Delete {
			delete(stored, k)
		}
		for _, item := range plan.Insert {
			stored[item.ID().UUID] = item
		}

		row.status = order.Status()
		row.total = order.Total()
		row.updatedAt = order.UpdatedAt()
		t.orders[id] = row

		return nil
	})
}

func orderItemKey(item domain.OrderItem) uuid.UUID {
	return item.ID().UUID
}

// sortByCreation orders lines the way the SQL listing queries do.
func sortByCreation[V any](items []V, createdAt func(V) time.Time, key func(V) uuid.UUID) {
	slices.SortFunc(items, func(a, b V) int {
		if c := createdAt(a).Compare(createdAt(b)); c != 0 {
			return c
		}
		ka, kb := key(a), key(b)
		return slices.Compare(ka[:], kb[:])
	})
}
