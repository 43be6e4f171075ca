package domain

import "errors"

// Error categories. Every specific error below wraps exactly one of them,
// so callers can branch on errors.Is(err, ErrNotFound) without knowing the aggregate.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrBusinessRule = errors.New("business rule violated")
)

var (
	ErrCartNotFound     = newError(ErrNotFound, "cart not found")
	ErrCartItemNotFound = newError(ErrNotFound, "cart item not found")
	ErrOrderNotFound    = newError(ErrNotFound, "order not found")

	ErrInvalidUUID        = newError(ErrValidation, "invalid uuid v4")
	ErrInvalidQuantity    = newError(ErrValidation, "quantity must be between 1 and 2147483647")
	ErrNegativeMoney      = newError(ErrValidation, "money amount cannot be negative")
	ErrMoneyOutOfRange    = newError(ErrValidation, "money amount out of range")
	ErrInvalidCurrency    = newError(ErrValidation, "invalid currency")
	ErrCurrencyMismatch   = newError(ErrValidation, "cannot operate with different currencies")
	ErrEmptyProductName   = newError(ErrValidation, "product name cannot be empty")
	ErrInvalidOrderStatus = newError(ErrValidation, "invalid order status")
	ErrDuplicateOrderItem = newError(ErrValidation, "order item already exists")

	ErrEmptyCart = newError(ErrBusinessRule, "cannot checkout empty cart")
)

type domainError struct {
	kind error
	msg  string
}

func newError(kind error, msg string) error {
	return &domainError{kind: kind, msg: msg}
}

func (e *domainError) Error() string {
	return e.msg
}

func (e *domainError) Unwrap() error {
	return e.kind
}
