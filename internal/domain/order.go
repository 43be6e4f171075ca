package domain

import (
	"fmt"
	"time"
)

// Order is the immutable snapshot of a checked-out cart. Only its status and
// captured total change after the items are copied in.
type Order struct {
	eventRecorder

	id        OrderID
	ownerID   *UserID
	status    OrderStatus
	total     Money
	createdAt time.Time
	updatedAt time.Time
	items     []OrderItem
}

func NewOrder(id OrderID, ownerID *UserID) *Order {
	createdAt := now()

	o := &Order{
		id:        id,
		ownerID:   copyUserID(ownerID),
		status:    OrderStatusPending,
		total:     ZeroMoney(DefaultCurrency),
		createdAt: createdAt,
		updatedAt: createdAt,
	}

	o.record(OrderCreated{
		OrderID:    id,
		OwnerID:    copyUserID(ownerID),
		CreatedAt:  createdAt,
		occurredOn: createdAt,
	})

	return o
}

// RestoreOrder rebuilds an order from storage without recording events.
// Stored lines must share a currency and sum within the Money range.
func RestoreOrder(
	id OrderID,
	ownerID *UserID,
	status OrderStatus,
	total Money,
	createdAt, updatedAt time.Time,
	items []OrderItem,
) (*Order, error) {
	if len(items) > 0 {
		if _, err := sumLines(items[0].unitPrice.Currency(), items); err != nil {
			return nil, fmt.Errorf("order %s: %w", id, err)
		}
	}

	return &Order{
		id:        id,
		ownerID:   copyUserID(ownerID),
		status:    status,
		total:     total,
		createdAt: createdAt,
		updatedAt: updatedAt,
		items:     append([]OrderItem(nil), items...),
	}, nil
}

func (o *Order) ID() OrderID {
	return o.id
}

func (o *Order) OwnerID() (UserID, bool) {
	if o.ownerID == nil {
		return UserID{}, false
	}
	return *o.ownerID, true
}

func (o *Order) Status() OrderStatus {
	return o.status
}

func (o *Order) Total() Money {
	return o.total
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

func (o *Order) Items() []OrderItem {
	return append([]OrderItem(nil), o.items...)
}

func (o *Order) IsEmpty() bool {
	return len(o.items) == 0
}

// AddItem always appends a new line; orders do not merge by product.
func (o *Order) AddItem(itemID OrderItemID, productID ProductID, name ProductName, unitPrice Money, quantity Quantity) error {
	for _, item := range o.items {
		if item.id == itemID {
			return fmt.Errorf("%w: %s", ErrDuplicateOrderItem, itemID)
		}
	}
	if len(o.items) > 0 && o.items[0].unitPrice.Currency() != unitPrice.Currency() {
		return fmt.Errorf("%w: order is in %s, item is in %s",
			ErrCurrencyMismatch, o.items[0].unitPrice.Currency(), unitPrice.Currency())
	}

	item := OrderItem{
		id:        itemID,
		orderID:   o.id,
		productID: productID,
		name:      name,
		unitPrice: unitPrice,
		quantity:  quantity,
	}
	if _, err := sumLines(unitPrice.Currency(), append(o.Items(), item)); err != nil {
		return fmt.Errorf("order %s: %w", o.id, err)
	}

	ts := now()
	item.createdAt = ts
	item.updatedAt = ts
	o.items = append(o.items, item)
	o.updatedAt = ts

	return nil
}

// CalculateTotal recomputes the total from the current items.
func (o *Order) CalculateTotal() Money {
	if len(o.items) == 0 {
		return ZeroMoney(DefaultCurrency)
	}

	// AddItem and RestoreOrder check the sum
	total, _ := sumLines(o.items[0].unitPrice.Currency(), o.items)
	return total
}

func (o *Order) CaptureTotal(total Money) {
	o.total = total
	o.updatedAt = now()
}

func (o *Order) ChangeStatus(status OrderStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidOrderStatus, status)
	}

	o.status = status
	o.updatedAt = now()

	return nil
}
