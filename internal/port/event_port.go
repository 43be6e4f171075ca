package port

import (
	"context"

	"github.com/nikolayk812/cart-checkout/internal/domain"
)

// EventDispatcher delivers events synchronously, in the order given.
type EventDispatcher interface {
	Dispatch(ctx context.Context, events ...domain.Event) error
}
