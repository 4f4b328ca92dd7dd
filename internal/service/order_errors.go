package service

import (
	"errors"
	"fmt"
)

// Order failure kinds. Match them with errors.Is against an *OrderError.
var (
	ErrInvalidRequest        = errors.New("InvalidRequest")
	ErrProductNotFound       = errors.New("ProductNotFound")
	ErrInactiveProduct       = errors.New("InactiveProduct")
	ErrInvalidQuantity       = errors.New("InvalidQuantity")
	ErrInsufficientInventory = errors.New("InsufficientInventory")
	ErrTransactionFailure    = errors.New("TransactionFailure")
)

// Shortfall describes one snack the order wanted more of than is on hand.
type Shortfall struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Need      int    `json:"need"`
	Available int    `json:"available"`
}

type OrderError struct {
	Kind       error
	Detail     string
	Shortfalls []Shortfall
	Cause      error
}

func (e *OrderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *OrderError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

func orderErr(kind error, format string, args ...any) *OrderError {
	return &OrderError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// AsOrderError unwraps err into an *OrderError when it carries one.
func AsOrderError(err error) (*OrderError, bool) {
	var oe *OrderError
	if errors.As(err, &oe) {
		return oe, true
	}
	return nil, false
}
