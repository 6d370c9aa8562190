package remote

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"orderms/pkg/order"
)

// ProductClient talks to the product catalog service.
type ProductClient struct {
	c client
}

// NewProductClient returns a client for the product service at baseURL.
func NewProductClient(baseURL string, timeout time.Duration) *ProductClient {
	return &ProductClient{c: newClient("product", baseURL, timeout)}
}

// GetProduct fetches the current price and stock of a product.
func (p *ProductClient) GetProduct(ctx context.Context, id int64) (order.Product, error) {
	var out order.Product
	err := p.c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/products/%d", id), nil, &out, productNotFound(id))
	if err != nil {
		return order.Product{}, err
	}
	return out, nil
}

type reduceCountRequest struct {
	Count int64 `json:"count"`
}

// ReduceProductCount debits quantity units of stock.
func (p *ProductClient) ReduceProductCount(ctx context.Context, id, quantity int64) error {
	return p.c.do(ctx, http.MethodPost, fmt.Sprintf("/v1/products/%d/reduce", id),
		reduceCountRequest{Count: quantity}, nil, productNotFound(id))
}

func productNotFound(id int64) *order.Error {
	return order.NotFound("product with id %d not found", id)
}
