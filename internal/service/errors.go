package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNoProducts         = errors.New("no products selected")
	ErrOrderNotFound      = errors.New("order not found")
	ErrAlreadyPaid        = errors.New("order is already paid")
	ErrOrderCancelled     = errors.New("order is cancelled and cannot be paid")
	ErrPaidNotCancellable = errors.New("paid orders cannot be cancelled")
	ErrAlreadyCancelled   = errors.New("order is already cancelled")
	ErrInvalidAmount      = errors.New("amount paid must be a positive number")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials or role")
)

// ProductNotFoundError names the order line whose product id has no
// matching catalog row.
type ProductNotFoundError struct {
	ProductID int
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product ID %d not found", e.ProductID)
}

// AmountMismatchError reports a payment that does not exactly match the
// order total. Both amounts are fixed to cents.
type AmountMismatchError struct {
	Required decimal.Decimal
	Provided decimal.Decimal
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("amount paid %s does not match required amount %s",
		e.Provided.StringFixed(2), e.Required.StringFixed(2))
}

// Difference is the absolute gap between required and provided amounts.
func (e *AmountMismatchError) Difference() decimal.Decimal {
	return e.Required.Sub(e.Provided).Abs()
}

// Details renders the structured block attached to mismatch responses.
func (e *AmountMismatchError) Details() map[string]float64 {
	return map[string]float64{
		"required_amount": e.Required.InexactFloat64(),
		"provided_amount": e.Provided.InexactFloat64(),
		"difference":      e.Difference().InexactFloat64(),
	}
}
