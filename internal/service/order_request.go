package service

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"coffee-pos/internal/model"
)

// RawOrderRequest is the order body exactly as the client sent it. Ids and
// quantities stay untyped until ParseOrderRequest has checked them.
type RawOrderRequest struct {
	PaymentMethod string         `json:"payment_method"`
	Items         []RawOrderItem `json:"items"`
}

type RawOrderItem struct {
	ProductID any    `json:"product_id"`
	Quantity  any    `json:"quantity"`
	Note      string `json:"note"`
}

type OrderRequest struct {
	PaymentMethod model.PaymentMethod
	Items         []OrderLine
}

type OrderLine struct {
	ProductID uint
	Quantity  int
	Note      string
}

// DecodeOrderRequest parses a JSON body, keeping numbers as json.Number so
// that 2 and 2.5 can be told apart.
func DecodeOrderRequest(body []byte) (RawOrderRequest, error) {
	var raw RawOrderRequest
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return raw, orderErr(ErrInvalidRequest, "invalid JSON body")
	}
	return raw, nil
}

// ParseOrderRequest checks the payment method and every line before any
// transaction is opened. The first bad line aborts the whole request.
func ParseOrderRequest(raw RawOrderRequest) (OrderRequest, error) {
	method, ok := model.ParsePaymentMethod(raw.PaymentMethod)
	if !ok {
		return OrderRequest{}, orderErr(ErrInvalidRequest, "payment_method must be Cash or Visa")
	}
	if len(raw.Items) == 0 {
		return OrderRequest{}, orderErr(ErrInvalidRequest, "no items")
	}

	req := OrderRequest{PaymentMethod: method, Items: make([]OrderLine, 0, len(raw.Items))}
	for i, it := range raw.Items {
		id, ok := positiveInt(it.ProductID)
		if !ok {
			return OrderRequest{}, orderErr(ErrInvalidRequest, "item %d: invalid product_id", i)
		}
		qty, ok := positiveInt(it.Quantity)
		if !ok {
			return OrderRequest{}, orderErr(ErrInvalidQuantity, "item %d: quantity must be a positive whole number", i)
		}
		req.Items = append(req.Items, OrderLine{ProductID: uint(id), Quantity: int(qty), Note: it.Note})
	}
	return req, nil
}

// positiveInt accepts whole numbers > 0 given as JSON numbers or numeric
// strings. Fractions, booleans, null and anything else are rejected.
func positiveInt(v any) (int64, bool) {
	var s string
	switch x := v.(type) {
	case json.Number:
		s = x.String()
	case string:
		s = strings.TrimSpace(x)
	case float64:
		if x != math.Trunc(x) || x < 1 || x > math.MaxInt32 {
			return 0, false
		}
		return int64(x), true
	case int:
		s = strconv.Itoa(x)
	default:
		return 0, false
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// "3.0" is still a whole number.
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, false
		}
		n = int64(f)
	}
	if n < 1 || n > math.MaxInt32 {
		return 0, false
	}
	return n, true
}
