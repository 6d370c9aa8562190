package order

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

// Order represents a completed customer purchase.
type Order struct {
	ID          string          `json:"id"`
	CustomerID  int64           `json:"customerId"`
	ProductID   int64           `json:"productId"`
	Quantity    int64           `json:"quantity"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// MoneyScale is the number of decimal places order totals are charged and
// stored at.
const MoneyScale = 2

// View is the read-only projection of an order returned to callers.
type View struct {
	ID          string          `json:"id"`
	CustomerID  int64           `json:"customerId"`
	ProductID   int64           `json:"productId"`
	Quantity    int64           `json:"quantity"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// MarshalJSON renders TotalAmount at MoneyScale places, e.g. "30.00".
func (v View) MarshalJSON() ([]byte, error) {
	type view View
	return json.Marshal(struct {
		view
		TotalAmount string `json:"totalAmount"`
	}{view: view(v), TotalAmount: v.TotalAmount.StringFixed(MoneyScale)})
}

func (o Order) view() View {
	return View{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		ProductID:   o.ProductID,
		Quantity:    o.Quantity,
		TotalAmount: o.TotalAmount,
	}
}

// PurchaseRequest asks to buy Quantity units of a product for a customer.
type PurchaseRequest struct {
	CustomerID int64 `json:"customerId" validate:"required,gt=0"`
	ProductID  int64 `json:"productId" validate:"required,gt=0"`
	Quantity   int64 `json:"quantity" validate:"required,gt=0"`
}

// Repository defines behavior for persisting orders.
type Repository interface {
	// Save assigns an ID to o and stores it.
	Save(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (Order, error)
	// WithTx runs fn inside a transaction carried by the context passed to fn.
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ErrNotFound indicates the requested order does not exist.
var ErrNotFound = errors.New("order not found")
