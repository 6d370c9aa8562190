package order

import (
	"context"

	"github.com/shopspring/decimal"
)

// Product is the catalog's view of a product at the time of the call.
type Product struct {
	ID    int64           `json:"id"`
	Price decimal.Decimal `json:"price"`
	Count int64           `json:"count"`
}

// Customer is the balance service's view of a customer.
type Customer struct {
	ID      int64           `json:"id"`
	Balance decimal.Decimal `json:"balance"`
}

// ProductClient reads and debits product stock.
type ProductClient interface {
	GetProduct(ctx context.Context, id int64) (Product, error)
	ReduceProductCount(ctx context.Context, id, quantity int64) error
}

// CustomerClient reads and debits customer balance.
type CustomerClient interface {
	GetCustomer(ctx context.Context, id int64) (Customer, error)
	ReduceBalance(ctx context.Context, id int64, amount decimal.Decimal) error
}
