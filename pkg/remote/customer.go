package remote

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"orderms/pkg/order"
)

// CustomerClient talks to the customer balance service.
type CustomerClient struct {
	c client
}

// NewCustomerClient returns a client for the customer service at baseURL.
func NewCustomerClient(baseURL string, timeout time.Duration) *CustomerClient {
	return &CustomerClient{c: newClient("customer", baseURL, timeout)}
}

// GetCustomer fetches the current balance of a customer.
func (c *CustomerClient) GetCustomer(ctx context.Context, id int64) (order.Customer, error) {
	var out order.Customer
	err := c.c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/customers/%d", id), nil, &out, customerNotFound(id))
	if err != nil {
		return order.Customer{}, err
	}
	return out, nil
}

type reduceBalanceRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// ReduceBalance debits amount from the customer's balance.
func (c *CustomerClient) ReduceBalance(ctx context.Context, id int64, amount decimal.Decimal) error {
	return c.c.do(ctx, http.MethodPost, fmt.Sprintf("/v1/customers/%d/reduce-balance", id),
		reduceBalanceRequest{Amount: amount}, nil, customerNotFound(id))
}

func customerNotFound(id int64) *order.Error {
	return order.NotFound("customer with id %d not found", id)
}
