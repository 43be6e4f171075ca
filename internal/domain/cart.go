package domain

import (
	"fmt"
	"time"

	"golang.org/x/text/currency"
)

// CartLifetime is how long a new cart stays readable before it is treated as absent.
const CartLifetime = 7 * 24 * time.Hour

var now = func() time.Time { return time.Now().UTC() }

type Cart struct {
	eventRecorder

	id        CartID
	ownerID   *UserID
	createdAt time.Time
	expiresAt time.Time
	// keyed by product: at most one item per ProductID
	items []*CartItem
}

// NewCart creates an empty cart expiring after CartLifetime and records CartCreated.
// A nil ownerID makes an anonymous cart.
func NewCart(id CartID, ownerID *UserID) *Cart {
	createdAt := now()

	c := &Cart{
		id:        id,
		ownerID:   copyUserID(ownerID),
		createdAt: createdAt,
		expiresAt: createdAt.Add(CartLifetime),
	}

	c.record(CartCreated{
		CartID:     id,
		OwnerID:    copyUserID(ownerID),
		CreatedAt:  createdAt,
		occurredOn: createdAt,
	})

	return c
}

// RestoreCart rebuilds a cart from storage. It records no events and fails
// when the stored lines mix currencies or their total leaves the Money range.
func RestoreCart(id CartID, ownerID *UserID, createdAt, expiresAt time.Time, items []CartItem) (*Cart, error) {
	c := &Cart{
		id:        id,
		ownerID:   copyUserID(ownerID),
		createdAt: createdAt,
		expiresAt: expiresAt,
		items:     make([]*CartItem, 0, len(items)),
	}

	for _, item := range items {
		c.items = append(c.items, &item)
	}

	if cur, ok := c.currency(); ok {
		if _, err := sumLines(cur, c.items); err != nil {
			return nil, fmt.Errorf("cart %s: %w", id, err)
		}
	}

	return c, nil
}

func (c *Cart) ID() CartID {
	return c.id
}

// OwnerID returns the owning user, or false for an anonymous cart.
func (c *Cart) OwnerID() (UserID, bool) {
	if c.ownerID == nil {
		return UserID{}, false
	}
	return *c.ownerID, true
}

func (c *Cart) CreatedAt() time.Time {
	return c.createdAt
}

func (c *Cart) ExpiresAt() time.Time {
	return c.expiresAt
}

// Items returns copies of the line items in insertion order.
func (c *Cart) Items() []CartItem {
	items := make([]CartItem, 0, len(c.items))
	for _, item := range c.items {
		items = append(items, *item)
	}
	return items
}

// AddItem merges into the existing line when productID is already in the cart,
// otherwise it appends a new line. The recorded event carries the added quantity.
func (c *Cart) AddItem(productID ProductID, name ProductName, unitPrice Money, quantity Quantity) (CartItemAdded, error) {
	if cur, ok := c.currency(); ok && cur != unitPrice.Currency() {
		return CartItemAdded{}, fmt.Errorf("%w: cart is in %s, item is in %s", ErrCurrencyMismatch, cur, unitPrice.Currency())
	}

	ts := now()

	item := c.findByProduct(productID)
	candidate := CartItem{
		id:        NewCartItemID(),
		productID: productID,
		name:      name,
		unitPrice: unitPrice,
		quantity:  quantity,
		createdAt: ts,
		updatedAt: ts,
	}
	if item != nil {
		merged, err := item.quantity.Increase(quantity)
		if err != nil {
			return CartItemAdded{}, err
		}
		candidate = *item
		candidate.quantity = merged
		candidate.updatedAt = ts
	}

	if err := c.checkTotal(candidate); err != nil {
		return CartItemAdded{}, err
	}

	if item != nil {
		*item = candidate
	} else {
		item = &candidate
		c.items = append(c.items, item)
	}

	event := CartItemAdded{
		CartID:      c.id,
		CartItemID:  item.id,
		ProductID:   productID,
		ProductName: name,
		UnitPrice:   unitPrice,
		Quantity:    quantity,
		occurredOn:  ts,
	}
	c.record(event)

	return event, nil
}

func (c *Cart) UpdateItemQuantity(itemID CartItemID, quantity Quantity) (CartItemQuantityUpdated, error) {
	item := c.findByID(itemID)
	if item == nil {
		return CartItemQuantityUpdated{}, fmt.Errorf("%w: %s", ErrCartItemNotFound, itemID)
	}

	candidate := *item
	candidate.quantity = quantity
	if err := c.checkTotal(candidate); err != nil {
		return CartItemQuantityUpdated{}, err
	}

	ts := now()
	previous := item.quantity
	item.quantity = quantity
	item.updatedAt = ts

	event := CartItemQuantityUpdated{
		CartID:           c.id,
		CartItemID:       itemID,
		PreviousQuantity: previous,
		NewQuantity:      quantity,
		occurredOn:       ts,
	}
	c.record(event)

	return event, nil
}

func (c *Cart) RemoveItem(itemID CartItemID) (CartItemRemoved, error) {
	idx := -1
	for i, item := range c.items {
		if item.id == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return CartItemRemoved{}, fmt.Errorf("%w: %s", ErrCartItemNotFound, itemID)
	}

	removed := c.items[idx]
	c.items = append(c.items[:idx], c.items[idx+1:]...)

	event := CartItemRemoved{
		CartID:     c.id,
		CartItemID: itemID,
		ProductID:  removed.productID,
		occurredOn: now(),
	}
	c.record(event)

	return event, nil
}

// Total sums the line subtotals. An empty cart totals zero in DefaultCurrency.
func (c *Cart) Total() Money {
	cur, ok := c.currency()
	if !ok {
		return ZeroMoney(DefaultCurrency)
	}

	// every mutator and RestoreCart check the sum
	total, _ := sumLines(cur, c.items)
	return total
}

// checkTotal fails when the cart total, with candidate replacing the line of
// the same id or appended, would leave the Money range.
func (c *Cart) checkTotal(candidate CartItem) error {
	lines := make([]CartItem, 0, len(c.items)+1)
	for _, item := range c.items {
		if item.id != candidate.id {
			lines = append(lines, *item)
		}
	}
	lines = append(lines, candidate)

	if _, err := sumLines(candidate.unitPrice.Currency(), lines); err != nil {
		return fmt.Errorf("cart %s: %w", c.id, err)
	}

	return nil
}

// ForceExpiration retires the cart immediately. expiresAt never moves later.
func (c *Cart) ForceExpiration() {
	ts := now()
	if ts.Before(c.expiresAt) {
		c.expiresAt = ts
	}
}

func (c *Cart) IsExpired(at time.Time) bool {
	return !c.expiresAt.After(at)
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

func (c *Cart) IsAnonymous() bool {
	return c.ownerID == nil
}

// TotalItems is the sum of quantities across all lines.
func (c *Cart) TotalItems() int {
	var total int
	for _, item := range c.items {
		total += item.quantity.Int()
	}
	return total
}

func (c *Cart) FindItemByID(itemID CartItemID) (CartItem, bool) {
	item := c.findByID(itemID)
	if item == nil {
		return CartItem{}, false
	}
	return *item, true
}

func (c *Cart) findByID(itemID CartItemID) *CartItem {
	for _, item := range c.items {
		if item.id == itemID {
			return item
		}
	}
	return nil
}

func (c *Cart) findByProduct(productID ProductID) *CartItem {
	for _, item := range c.items {
		if item.productID == productID {
			return item
		}
	}
	return nil
}

// currency is the currency of the first line; every line shares it.
func (c *Cart) currency() (currency.Unit, bool) {
	if len(c.items) == 0 {
		return currency.Unit{}, false
	}
	return c.items[0].unitPrice.Currency(), true
}

func copyUserID(id *UserID) *UserID {
	if id == nil {
		return nil
	}
	cp := *id
	return &cp
}
