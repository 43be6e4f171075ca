package command

import (
	"context"
	"fmt"

	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/port"
	"go.uber.org/zap"
)

type Handler struct {
	carts      port.CartRepository
	transactor port.Transactor
	dispatcher port.EventDispatcher
	logger     *zap.Logger
}

func NewHandler(
	carts port.CartRepository,
	transactor port.Transactor,
	dispatcher port.EventDispatcher,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		carts:      carts,
		transactor: transactor,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// CreateCart creates an empty cart. An empty OwnerID makes it anonymous.
func (h *Handler) CreateCart(ctx context.Context, cmd CreateCart) (domain.CartID, error) {
	var owner *domain.UserID
	if cmd.OwnerID != "" {
		id, err := domain.ParseUserID(cmd.OwnerID)
		if err != nil {
			return domain.CartID{}, fmt.Errorf("owner id: %w", err)
		}
		owner = &id
	}

	cart := domain.NewCart(domain.NewCartID(), owner)
	if err := h.carts.Save(ctx, cart); err != nil {
		return domain.CartID{}, fmt.Errorf("carts.Save: %w", err)
	}

	h.logger.Info("cart created",
		zap.String("cart_id", cart.ID().String()),
		zap.Bool("anonymous", cart.IsAnonymous()))

	return cart.ID(), h.dispatch(ctx, cart.PullEvents())
}

// AddCartItem returns the id of the line the product ended up in.
func (h *Handler) AddCartItem(ctx context.Context, cmd AddCartItem) (domain.CartItemID, error) {
	productID, err := domain.ParseProductID(cmd.ProductID)
	if err != nil {
		return domain.CartItemID{}, fmt.Errorf("product id: %w", err)
	}
	name, err := domain.NewProductName(cmd.ProductName)
	if err != nil {
		return domain.CartItemID{}, err
	}
	price, err := domain.MoneyFromDecimal(cmd.Price, cmd.Currency)
	if err != nil {
		return domain.CartItemID{}, fmt.Errorf("price: %w", err)
	}
	quantity, err := domain.NewQuantity(cmd.Quantity)
	if err != nil {
		return domain.CartItemID{}, err
	}

	var added domain.CartItemAdded
	err = h.mutateCart(ctx, cmd.CartID, func(cart *domain.Cart) error {
		added, err = cart.AddItem(productID, name, price, quantity)
		return err
	})
	if err != nil {
		return added.CartItemID, err
	}

	h.logger.Info("item added to cart",
		zap.String("cart_id", cmd.CartID),
		zap.String("product_id", cmd.ProductID),
		zap.Int("quantity", cmd.Quantity),
		zap.String("unit_price", price.String()))

	return added.CartItemID, nil
}

func (h *Handler) UpdateCartItemQuantity(ctx context.Context, cmd UpdateCartItemQuantity) error {
	itemID, err := domain.ParseCartItemID(cmd.ItemID)
	if err != nil {
		return fmt.Errorf("item id: %w", err)
	}
	quantity, err := domain.NewQuantity(cmd.Quantity)
	if err != nil {
		return err
	}

	err = h.mutateCart(ctx, cmd.CartID, func(cart *domain.Cart) error {
		_, err := cart.UpdateItemQuantity(itemID, quantity)
		return err
	})
	if err != nil {
		return err
	}

	h.logger.Info("cart item quantity updated",
		zap.String("cart_id", cmd.CartID),
		zap.String("item_id", cmd.ItemID),
		zap.Int("quantity", cmd.Quantity))

	return nil
}

func (h *Handler) RemoveCartItem(ctx context.Context, cmd RemoveCartItem) error {
	itemID, err := domain.ParseCartItemID(cmd.ItemID)
	if err != nil {
		return fmt.Errorf("item id: %w", err)
	}

	err = h.mutateCart(ctx, cmd.CartID, func(cart *domain.Cart) error {
		_, err := cart.RemoveItem(itemID)
		return err
	})
	if err != nil {
		return err
	}

	h.logger.Info("cart item removed",
		zap.String("cart_id", cmd.CartID),
		zap.String("item_id", cmd.ItemID))

	return nil
}

// Checkout converts a cart into a pending order. The order insert and the cart
// expiry commit together; events are dispatched afterwards, order events first.
// When dispatch fails the order id is still returned with the error.
func (h *Handler) Checkout(ctx context.Context, cmd ProcessCheckout) (domain.OrderID, error) {
	cartID, err := domain.ParseCartID(cmd.CartID)
	if err != nil {
		return domain.OrderID{}, fmt.Errorf("cart id: %w", err)
	}

	var (
		order      *domain.Order
		cartEvents []domain.Event
	)

	err = h.transactor.WithinTx(ctx, func(ctx context.Context, carts port.CartRepository, orders port.OrderRepository) error {
		cart, err := carts.FindByID(ctx, cartID)
		if err != nil {
			return err
		}
		if cart.IsEmpty() {
			return fmt.Errorf("%w: %s", domain.ErrEmptyCart, cartID)
		}

		order, err = orderFromCart(cart)
		if err != nil {
			return err
		}

		if err := orders.Save(ctx, order); err != nil {
			return fmt.Errorf("orders.Save: %w", err)
		}

		cart.ForceExpiration()
		if err := carts.Save(ctx, cart); err != nil {
			return fmt.Errorf("carts.Save: %w", err)
		}

		cartEvents = cart.PullEvents()
		return nil
	})
	if err != nil {
		h.logger.Warn("checkout failed", zap.String("cart_id", cmd.CartID), zap.Error(err))
		return domain.OrderID{}, err
	}

	h.logger.Info("checkout completed",
		zap.String("cart_id", cmd.CartID),
		zap.String("order_id", order.ID().String()),
		zap.Int("items", len(order.Items())),
		zap.String("total", order.Total().String()))

	events := append(order.PullEvents(), cartEvents...)
	return order.ID(), h.dispatch(ctx, events)
}

func orderFromCart(cart *domain.Cart) (*domain.Order, error) {
	var owner *domain.UserID
	if id, ok := cart.OwnerID(); ok {
		owner = &id
	}

	order := domain.NewOrder(domain.NewOrderID(), owner)
	for _, item := range cart.Items() {
		err := order.AddItem(domain.NewOrderItemID(), item.ProductID(), item.Name(), item.UnitPrice(), item.Quantity())
		if err != nil {
			return nil, fmt.Errorf("order.AddItem[%s]: %w", item.ID(), err)
		}
	}
	order.CaptureTotal(order.CalculateTotal())

	return order, nil
}

// mutateCart loads the cart, applies fn, saves it and dispatches what fn recorded.
func (h *Handler) mutateCart(ctx context.Context, rawID string, fn func(cart *domain.Cart) error) error {
	cartID, err := domain.ParseCartID(rawID)
	if err != nil {
		return fmt.Errorf("cart id: %w", err)
	}

	cart, err := h.carts.FindByID(ctx, cartID)
	if err != nil {
		return err
	}

	if err := fn(cart); err != nil {
		return err
	}

	if err := h.carts.Save(ctx, cart); err != nil {
		return fmt.Errorf("carts.Save: %w", err)
	}

	return h.dispatch(ctx, cart.PullEvents())
}

func (h *Handler) dispatch(ctx context.Context, events []domain.Event) error {
	if err := h.dispatcher.Dispatch(ctx, events...); err != nil {
		h.logger.Error("event dispatch failed", zap.Int("events", len(events)), zap.Error(err))
		return fmt.Errorf("dispatcher.Dispatch: %w", err)
	}
	return nil
}
