package domain

import "time"

const (
	EventCartCreated             = "cart.created"
	EventCartItemAdded           = "cart.item_added"
	EventCartItemQuantityUpdated = "cart.item_quantity_updated"
	EventCartItemRemoved         = "cart.item_removed"
	EventOrderCreated            = "order.created"
)

// Event is an immutable fact recorded by an aggregate.
type Event interface {
	EventName() string
	OccurredOn() time.Time
	AggregateID() string
	// Primitives projects the event onto JSON-friendly values for transport.
	Primitives() map[string]any
}

// eventRecorder buffers events until the caller pulls them. Embed it in an aggregate.
type eventRecorder struct {
	pending []Event
}

func (r *eventRecorder) record(e Event) {
	r.pending = append(r.pending, e)
}

// PullEvents returns the recorded events in order and clears the buffer.
func (r *eventRecorder) PullEvents() []Event {
	events := r.pending
	r.pending = nil
	return events
}

type CartCreated struct {
	CartID     CartID
	OwnerID    *UserID
	CreatedAt  time.Time
	occurredOn time.Time
}

func (e CartCreated) EventName() string { return EventCartCreated }
func (e CartCreated) OccurredOn() time.Time { return e.occurredOn }
func (e CartCreated) AggregateID() string { return e.CartID.String() }

func (e CartCreated) Primitives() map[string]any {
	return map[string]any{
		"cart_id":     e.CartID.String(),
		"user_id":     optionalID(e.OwnerID),
		"created_at":  e.CreatedAt.Format(time.RFC3339),
		"occurred_on": e.occurredOn.Format(time.RFC3339),
	}
}

// CartItemAdded carries the id of the resulting line and the quantity added by
// this call, not the merged total.
type CartItemAdded struct {
	CartID      CartID
	CartItemID  CartItemID
	ProductID   ProductID
	ProductName ProductName
	UnitPrice   Money
	Quantity    Quantity
	occurredOn  time.Time
}

func (e CartItemAdded) EventName() string { return EventCartItemAdded }
func (e CartItemAdded) OccurredOn() time.Time { return e.occurredOn }
func (e CartItemAdded) AggregateID() string { return e.CartID.String() }

func (e CartItemAdded) Primitives() map[string]any {
	return map[string]any{
		"cart_id":          e.CartID.String(),
		"cart_item_id":     e.CartItemID.String(),
		"product_id":       e.ProductID.String(),
		"product_name":     e.ProductName.String(),
		"unit_price_cents": e.UnitPrice.MinorUnits(),
		"currency":         e.UnitPrice.Currency().String(),
		"quantity":         e.Quantity.Int(),
		"occurred_on":      e.occurredOn.Format(time.RFC3339),
	}
}

type CartItemQuantityUpdated struct {
	CartID           CartID
	CartItemID       CartItemID
	PreviousQuantity Quantity
	NewQuantity      Quantity
	occurredOn       time.Time
}

func (e CartItemQuantityUpdated) EventName() string { return EventCartItemQuantityUpdated }
func (e CartItemQuantityUpdated) OccurredOn() time.Time { return e.occurredOn }
func (e CartItemQuantityUpdated) AggregateID() string { return e.CartID.String() }

func (e CartItemQuantityUpdated) Primitives() map[string]any {
	return map[string]any{
		"cart_id":           e.CartID.String(),
		"cart_item_id":      e.CartItemID.String(),
		"previous_quantity": e.PreviousQuantity.Int(),
		"new_quantity":      e.NewQuantity.Int(),
		"occurred_on":       e.occurredOn.Format(time.RFC3339),
	}
}

type CartItemRemoved struct {
	CartID     CartID
	CartItemID CartItemID
	ProductID  ProductID
	occurredOn time.Time
}

func (e CartItemRemoved) EventName() string { return EventCartItemRemoved }
func (e CartItemRemoved) OccurredOn() time.Time { return e.occurredOn }
func (e CartItemRemoved) AggregateID() string { return e.CartID.String() }

func (e CartItemRemoved) Primitives() map[string]any {
	return map[string]any{
		"cart_id":      e.CartID.String(),
		"cart_item_id": e.CartItemID.String(),
		"product_id":   e.ProductID.String(),
		"occurred_on":  e.occurredOn.Format(time.RFC3339),
	}
}

type OrderCreated struct {
	OrderID    OrderID
	OwnerID    *UserID
	CreatedAt  time.Time
	occurredOn time.Time
}

func (e OrderCreated) EventName() string { return EventOrderCreated }
func (e OrderCreated) OccurredOn() time.Time { return e.occurredOn }
func (e OrderCreated) AggregateID() string { return e.OrderID.String() }

func (e OrderCreated) Primitives() map[string]any {
	return map[string]any{
		"order_id":    e.OrderID.String(),
		"user_id":     optionalID(e.OwnerID),
		"created_at":  e.CreatedAt.Format(time.RFC3339),
		"occurred_on": e.occurredOn.Format(time.RFC3339),
	}
}

func optionalID(id *UserID) any {
	if id == nil {
		return nil
	}
	return id.String()
}
