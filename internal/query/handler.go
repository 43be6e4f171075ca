package query

import (
	"context"
	"fmt"

	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/port"
)

type GetCart struct {
	CartID string `json:"cart_id"`
}

type GetOrder struct {
	OrderID string `json:"order_id"`
}

type Handler struct {
	carts  port.CartRepository
	orders port.OrderRepository
}

func NewHandler(carts port.CartRepository, orders port.OrderRepository) *Handler {
	return &Handler{carts: carts, orders: orders}
}

// GetCart returns domain.ErrCartNotFound for a missing or expired cart.
func (h *Handler) GetCart(ctx context.Context, q GetCart) (CartView, error) {
	id, err := domain.ParseCartID(q.CartID)
	if err != nil {
		return CartView{}, fmt.Errorf("cart id: %w", err)
	}

	cart, err := h.carts.FindByID(ctx, id)
	if err != nil {
		return CartView{}, err
	}

	total := cart.Total()
	view := CartView{
		ID:         cart.ID().String(),
		Items:      make([]CartItemView, 0, len(cart.Items())),
		TotalItems: cart.TotalItems(),
		Total:      total.Decimal(),
		Currency:   total.Currency().String(),
		CreatedAt:  cart.CreatedAt(),
		ExpiresAt:  cart.ExpiresAt(),
	}
	if owner, ok := cart.OwnerID(); ok {
		view.OwnerID = owner.String()
	}

	for _, item := range cart.Items() {
		view.Items = append(view.Items, CartItemView{
			ID:          item.ID().String(),
			ProductID:   item.ProductID().String(),
			ProductName: item.Name().String(),
			UnitPrice:   item.UnitPrice().Decimal(),
			Quantity:    item.Quantity().Int(),
			Subtotal:    item.Subtotal().Decimal(),
		})
	}

	return view, nil
}

func (h *Handler) GetOrder(ctx context.Context, q GetOrder) (OrderView, error) {
	id, err := domain.ParseOrderID(q.OrderID)
	if err != nil {
		return OrderView{}, fmt.Errorf("order id: %w", err)
	}

	order, err := h.orders.FindByID(ctx, id)
	if err != nil {
		return OrderView{}, err
	}

	view := OrderView{
		ID:        order.ID().String(),
		Status:    string(order.Status()),
		Items:     make([]OrderItemView, 0, len(order.Items())),
		Total:     order.Total().Decimal(),
		Currency:  order.Total().Currency().String(),
		CreatedAt: order.CreatedAt(),
		UpdatedAt: order.UpdatedAt(),
	}
	if owner, ok := order.OwnerID(); ok {
		view.OwnerID = owner.String()
	}

	for _, item := range order.Items() {
		view.Items = append(view.Items, OrderItemView{
			ID:          item.ID().String(),
			ProductID:   item.ProductID().String(),
			ProductName: item.Name().String(),
			UnitPrice:   item.UnitPrice().Decimal(),
			Quantity:    item.Quantity().Int(),
			Subtotal:    item.Subtotal().Decimal(),
		})
	}

	return view, nil
}
