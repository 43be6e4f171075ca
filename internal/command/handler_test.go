package command

import (
	"context"
	"errors"
	"testing"

	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/port"
	"github.com/nikolayk812/cart-checkout/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type recordingDispatcher struct {
	events []domain.Event
	err    error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, events ...domain.Event) error {
	if d.err != nil {
		return d.err
	}
	d.events = append(d.events, events...)
	return nil
}

func (d *recordingDispatcher) names() []string {
	names := make([]string, 0, len(d.events))
	for _, e := range d.events {
		names = append(names, e.EventName())
	}
	return names
}

func (d *recordingDispatcher) reset() {
	d.events = nil
}

func newTestHandler(t *testing.T) (*Handler, *memory.Store, *recordingDispatcher) {
	store := memory.NewStore()
	dispatcher := &recordingDispatcher{}

	handler := NewHandler(store.Carts(), store, dispatcher, zaptest.NewLogger(t))
	return handler, store, dispatcher
}

func addItem(t *testing.T, h *Handler, cartID domain.CartID, price string, qty int) domain.CartItemID {
	t.Helper()

	itemID, err := h.AddCartItem(context.Background(), AddCartItem{
		CartID:      cartID.String(),
		ProductID:   domain.NewProductID().String(),
		ProductName: "Product " + price,
		Price:       decimal.RequireFromString(price),
		Currency:    "EUR",
		Quantity:    qty,
	})
	require.NoError(t, err)

	return itemID
}

// ============================================
// Create Cart Tests
// ============================================

func TestHandler_CreateCart_Anonymous(t *testing.T) {
	handler, store, dispatcher := newTestHandler(t)
	ctx := context.Background()

	cartID, err := handler.CreateCart(ctx, CreateCart{})
	require.NoError(t, err)

	cart, err := store.Carts().FindByID(ctx, cartID)
	require.NoError(t, err)
	assert.True(t, cart.IsAnonymous())
	assert.True(t, cart.IsEmpty())

	assert.Equal(t, []string{domain.EventCartCreated}, dispatcher.names())
}

func TestHandler_CreateCart_Owned(t *testing.T) {
	handler, store, _ := newTestHandler(t)
	ctx := context.Background()

	owner := domain.NewUserID()
	cartID, err := handler.CreateCart(ctx, CreateCart{OwnerID: owner.String()})
	require.NoError(t, err)

	cart, err := store.Carts().FindByID(ctx, cartID)
	require.NoError(t, err)

	got, ok := cart.OwnerID()
	require.True(t, ok)
	assert.Equal(t, owner, got)
}

func TestHandler_CreateCart_InvalidOwner(t *testing.T) {
	handler, _, dispatcher := newTestHandler(t)

	_, err := handler.CreateCart(context.Background(), CreateCart{OwnerID: "not-a-uuid"})

	assert.ErrorIs(t, err, domain.ErrInvalidUUID)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, dispatcher.events)
}

// ============================================
// Add Cart Item Tests
// ============================================

func TestHandler_AddCartItem_MergesSameProduct(t *testing.T) {
	handler, store, dispatcher := newTestHandler(t)
	ctx := context.Background()

	cartID, err := handler.CreateCart(ctx, CreateCart{})
	require.NoError(t, err)
	dispatcher.reset()

	cmd := AddCartItem{
		CartID:      cartID.String(),
		ProductID:   domain.NewProductID().String(),
		ProductName: "Wireless Mouse",
		Price:       decimal.RequireFromString("29.99"),
		Currency:    "EUR",
		Quantity:    1,
	}

	first, err := handler.AddCartItem(ctx, cmd)
	require.NoError(t, err)

	cmd.Quantity = 2
	cmd.Price = decimal.RequireFromString("99.99")
	second, err := handler.AddCartItem(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	cart, err := store.Carts().FindByID(ctx, cartID)
	require.NoError(t, err)

	require.Len(t, cart.Items(), 1)
	item := cart.Items()[0]
	assert.Equal(t, 3, item.Quantity().Int())
	assert.Equal(t, int64(2999), item.UnitPrice().MinorUnits())
	assert.Equal(t, int64(8997), cart.Total().MinorUnits())

	assert.Equal(t, []string{domain.EventCartItemAdded, domain.EventCartItemAdded}, dispatcher.names())
	assert.Equal(t, 2, dispatcher.events[1].(domain.CartItemAdded).Quantity.Int())
}

func TestHandler_AddCartItem_Invalid(t *testing.T) {
	handler, _, _ := newTestHandler(t)
	ctx := context.Background()

	cartID, err := handler.CreateCart(ctx, CreateCart{})
	require.NoError(t, err)

	valid := func() AddCartItem {
		return AddCartItem{
			CartID:      cartID.String(),
			ProductID:   domain.NewProductID().String(),
			ProductName: "USB-C Hub",
			Price:       decimal.RequireFromString("49.99"),
			Currency:    "EUR",
			Quantity:    1,
		}
	}

	tests := []struct {
		name    string
		mutate  func(cmd *AddCartItem)
		wantErr error
	}{
		{
			name:    "malformed cart id",
			mutate:  func(cmd *AddCartItem) { cmd.CartID = "123" },
			wantErr: domain.ErrInvalidUUID,
		},
		{
			name:    "malformed product id",
			mutate:  func(cmd *AddCartItem) { cmd.ProductID = "" },
			wantErr: domain.ErrInvalidUUID,
		},
		{
			name:    "blank product name",
			mutate:  func(cmd *AddCartItem) { cmd.ProductName = "   " },
			wantErr: domain.ErrEmptyProductName,
		},
		{
			name:    "negative price",
			mutate:  func(cmd *AddCartItem) { cmd.Price = decimal.RequireFromString("-1.00") },
			wantErr: domain.ErrNegativeMoney,
		},
		{
			name:    "unknown currency",
			mutate:  func(cmd *AddCartItem) { cmd.Currency = "ZZZ" },
			wantErr: domain.ErrInvalidCurrency,
		},
		{
			name:    "zero quantity",
			mutate:  func(cmd *AddCartItem) { cmd.Quantity = 0 },
			wantErr: domain.ErrInvalidQuantity,
		},
		{
			name:    "quantity wider than int32",
			mutate:  func(cmd *AddCartItem) { cmd.Quantity = 1<<32 + 5 },
			wantErr: domain.ErrInvalidQuantity,
		},
		{
			name:    "price out of range",
			mutate:  func(cmd *AddCartItem) { cmd.Price = decimal.RequireFromString("100000000000000") },
			wantErr: domain.ErrMoneyOutOfRange,
		},
		{
			name: "subtotal out of range",
			mutate: func(cmd *AddCartItem) {
				cmd.Price = decimal.RequireFromString("90000000000000")
				cmd.Quantity = 2
			},
			wantErr: domain.ErrMoneyOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := valid()
			tt.mutate(&cmd)

			_, err := handler.AddCartItem(ctx, cmd)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestHandler_AddCartItem_CurrencyMismatch(t *testing.T) {
	handler, _, _ := newTestHandler(t)
	ctx := context.Background()

	cartID, err := handler.CreateCart(ctx, CreateCart{})
	require.NoError(t, err)
	addItem(t, handler, cartID, "10.00", 1)

	_, err = handler.AddCartItem(ctx, AddCartItem{
		CartID:      cartID.String(),
		ProductID:   domain.NewProductID().String(),
		ProductName: "Imported",
		Price:       decimal.RequireFromString("10.00"),
		Currency:    "USD",
		Quantity:    1,
	})
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)
}

func TestHandler_AddCartItem_CartNotFound(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	_, err := handler.AddCartItem(context.Background(), AddCartItem{
		CartID:      domain.NewCartID().String(),
		ProductID:   domain.NewProductID().String(),
		ProductName: "Ghost",
		Price:       decimal.RequireFromString("1.00"),
		Currency:    "EUR",
		Quantity:    1,
	})

	assert.ErrorIs(t, err, domain.ErrCartNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ============================================
// Update / Remove Cart Item Tests
// ============================================

func TestHandler_UpdateCartItemQuantity(t *testing.T) {
	handler, store, dispatcher := newTestHandler(t)
	ctx := context.Background()

	cartID, err := handler.CreateCart(ctx, CreateCart{})
	require.NoError(t, err)
	itemID := addItem(t, handler, cartID, "15.50", 1)
	dispatcher.reset()

	err = handler.UpdateCartItemQuantity(ctx, UpdateCartItemQuantity{
		CartID:   cartID.String(),
		ItemID:   itemID.String(),
		Quantity: 4,
	})
	require.NoError(t, err)

	cart, err := store.Carts().FindByID(ctx, cartID)
	require.NoError(t, err)
	assert.Equal(t, 4, cart.TotalItems())
	assert.Equal(t, int64(6200), cart.Total().MinorUnits())

	require.Equal(t, []string{domain.EventCartItemQuantityUpdated}, dispatcher.names())
	updated := dispatcher.events[0].(domain.CartItemQuantityUpdated)
	assert.Equal(t, 1, updated.PreviousQuantity.Int())
	assert.Equal(t, 4, updated.NewQuantity.Int())
}

func TestHandler_UpdateCartItemQuantity_ItemNotFound(t *testing.T) {
	handler, _, _ := newTestHandler(t)
	ctx := context.Background()

	cartID, err := handler.CreateCart(ctx, CreateCart{})
	require.NoError(t, err)

	err = handler.UpdateCartItemQuantity(ctx, UpdateCartItemQuantity{
		CartID:   cartID.String(),
		ItemID:   domain.NewCartItemID().String(),
		Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrCartItemNotFound)
}

func TestHandler_RemoveCartItem(t *testing.T) {
	handler, store, dispatcher := newTestHandler(t)
	ctx := context.Background()

	cartID, err := handler.CreateCart(ctx, CreateCart{})
	require.NoError(t, err)
	removeID := addItem(t, handler, cartID, "5.00", 1)
	keepID := addItem(t, handler, cartID, "7.00", 1)
	dispatcher.reset()

	err = handler.RemoveCartItem(ctx, RemoveCartItem{CartID: cartID.String(), ItemID: removeID.String()})
	require.NoError(t, err)

	cart, err := store.Carts().FindByID(ctx, cartID)
	require.NoError(t, err)
	require.Len(t, cart.Items(), 1)
	assert.Equal(t, keepID, cart.Items()[0].ID())
	assert.Equal(t, []string{domain.EventCartItemRemoved}, dispatcher.names())

	err = handler.RemoveCartItem(ctx, RemoveCartItem{CartID: cartID.String(), ItemID: removeID.String()})
	assert.ErrorIs(t, err, domain.ErrCartItemNotFound)
}

// ============================================
// Checkout Tests
// ============================================

func TestHandler_Checkout_Success(t *testing.T) {
	handler, store, dispatcher := newTestHandler(t)
	ctx := context.Background()

	owner := domain.NewUserID()
	cartID, err := handler.CreateCart(ctx, CreateCart{OwnerID: owner.String()})
	require.NoError(t, err)
	addItem(t, handler, cartID, "59.99", 2)
	addItem(t, handler, cartID, "79.99", 1)

	before, err := store.Carts().FindByID(ctx, cartID)
	require.NoError(t, err)
	dispatcher.reset()

	orderID, err := handler.Checkout(ctx, ProcessCheckout{CartID: cartID.String()})
	require.NoError(t, err)

	order, err := store.Orders().FindByID(ctx, orderID)
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusPending, order.Status())
	assert.Equal(t, "199.97", order.Total().Decimal().StringFixed(2))
	assert.Equal(t, "EUR", order.Total().Currency().String())
	assert.True(t, order.Total().Equal(before.Total()))

	gotOwner, ok := order.OwnerID()
	require.True(t, ok)
	assert.Equal(t, owner, gotOwner)

	cartItems := before.Items()
	orderItems := order.Items()
	require.Len(t, orderItems, len(cartItems))

	seen := make(map[domain.OrderItemID]struct{})
	for _, orderItem := range orderItems {
		seen[orderItem.ID()] = struct{}{}
		assert.Equal(t, orderID, orderItem.OrderID())

		var matched bool
		for _, cartItem := range cartItems {
			if cartItem.ProductID() != orderItem.ProductID() {
				continue
			}
			matched = true
			assert.NotEqual(t, cartItem.ID().UUID, orderItem.ID().UUID)
			assert.Equal(t, cartItem.Name(), orderItem.Name())
			assert.True(t, cartItem.UnitPrice().Equal(orderItem.UnitPrice()))
			assert.True(t, cartItem.Quantity().Equal(orderItem.Quantity()))
		}
		assert.True(t, matched)
	}
	assert.Len(t, seen, len(orderItems))

	_, err = store.Carts().FindByID(ctx, cartID)
	assert.ErrorIs(t, err, domain.ErrCartNotFound)

	require.NotEmpty(t, dispatcher.events)
	assert.Equal(t, domain.EventOrderCreated, dispatcher.events[0].EventName())
	assert.Equal(t, orderID.String(), dispatcher.events[0].AggregateID())
}

func TestHandler_Checkout_Anonymous(t *testing.T) {
	handler, store, _ := newTestHandler(t)
	ctx := context.Background()

	cartID, err := handler.CreateCart(ctx, CreateCart{})
	require.NoError(t, err)
	addItem(t, handler, cartID, "1.00", 1)

	orderID, err := handler.Checkout(ctx, ProcessCheckout{CartID: cartID.String()})
	require.NoError(t, err)

	order, err := store.Orders().FindByID(ctx, orderID)
	require.NoError(t, err)

	_, ok := order.OwnerID()
	assert.False(t, ok)
}

func TestHandler_Checkout_EmptyCart(t *testing.T) {
	handler, store, dispatcher := newTestHandler(t)
	ctx := context.Background()

	cartID, err := handler.CreateCart(ctx, CreateCart{})
	require.NoError(t, err)
	dispatcher.reset()

	_, err = handler.Checkout(ctx, ProcessCheckout{CartID: cartID.String()})
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.ErrorIs(t, err, domain.ErrBusinessRule)
	assert.Empty(t, dispatcher.events)

	// the cart is untouched
	_, err = store.Carts().FindByID(ctx, cartID)
	assert.NoError(t, err)
}

func TestHandler_Checkout_CartNotFound(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	_, err := handler.Checkout(context.Background(), ProcessCheckout{CartID: domain.NewCartID().String()})
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
}

func TestHandler_Checkout_Twice(t *testing.T) {
	handler, _, _ := newTestHandler(t)
	ctx := context.Background()

	cartID, err := handler.CreateCart(ctx, CreateCart{})
	require.NoError(t, err)
	addItem(t, handler, cartID, "3.50", 2)

	_, err = handler.Checkout(ctx, ProcessCheckout{CartID: cartID.String()})
	require.NoError(t, err)

	_, err = handler.Checkout(ctx, ProcessCheckout{CartID: cartID.String()})
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
}

func TestHandler_Checkout_InvalidCartID(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	_, err := handler.Checkout(context.Background(), ProcessCheckout{CartID: "6ba7b810-9dad-11d1-80b4-00c04fd430c8"})
	assert.ErrorIs(t, err, domain.ErrInvalidUUID)
}

func TestHandler_Checkout_DispatchFailureKeepsOrder(t *testing.T) {
	handler, store, dispatcher := newTestHandler(t)
	ctx := context.Background()

	cartID, err := handler.CreateCart(ctx, CreateCart{})
	require.NoError(t, err)
	addItem(t, handler, cartID, "12.00", 1)

	errBroker := errors.New("broker down")
	dispatcher.err = errBroker

	orderID, err := handler.Checkout(ctx, ProcessCheckout{CartID: cartID.String()})
	require.ErrorIs(t, err, errBroker)
	require.NotEqual(t, domain.OrderID{}, orderID)

	_, err = store.Orders().FindByID(ctx, orderID)
	assert.NoError(t, err)
}

type failingCarts struct {
	port.CartRepository
	err error
}

func (f failingCarts) Save(context.Context, *domain.Cart) error {
	return f.err
}

type failingCartTransactor struct {
	inner port.Transactor
	err   error
}

func (f failingCartTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, carts port.CartRepository, orders port.OrderRepository) error) error {
	return f.inner.WithinTx(ctx, func(ctx context.Context, carts port.CartRepository, orders port.OrderRepository) error {
		return fn(ctx, failingCarts{CartRepository: carts, err: f.err}, orders)
	})
}

func TestHandler_Checkout_CartSaveFailureRollsBackOrder(t *testing.T) {
	store := memory.NewStore()
	dispatcher := &recordingDispatcher{}
	errDisk := errors.New("disk full")

	setup := NewHandler(store.Carts(), store, dispatcher, zaptest.NewLogger(t))
	ctx := context.Background()

	cartID, err := setup.CreateCart(ctx, CreateCart{})
	require.NoError(t, err)
	addItem(t, setup, cartID, "8.00", 1)
	dispatcher.reset()

	handler := NewHandler(store.Carts(), failingCartTransactor{inner: store, err: errDisk}, dispatcher, zaptest.NewLogger(t))

	_, err = handler.Checkout(ctx, ProcessCheckout{CartID: cartID.String()})
	require.ErrorIs(t, err, errDisk)
	assert.Empty(t, dispatcher.events)

	// the cart is still live, so no order was committed with it
	cart, err := store.Carts().FindByID(ctx, cartID)
	require.NoError(t, err)
	assert.False(t, cart.IsEmpty())
}
