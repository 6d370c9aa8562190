package order

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"
)

type fakeProducts struct {
	mu        sync.Mutex
	products  map[int64]Product
	getErr    error
	reduceErr error
	reduced   []int64
	calls     []string
}

func (f *fakeProducts) GetProduct(_ context.Context, id int64) (Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "getProduct")
	if f.getErr != nil {
		return Product{}, f.getErr
	}
	p, ok := f.products[id]
	if !ok {
		return Product{}, NotFound("product with id %d not found", id)
	}
	return p, nil
}

func (f *fakeProducts) ReduceProductCount(_ context.Context, id, quantity int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "reduceProductCount")
	if f.reduceErr != nil {
		return f.reduceErr
	}
	p := f.products[id]
	p.Count -= quantity
	f.products[id] = p
	f.reduced = append(f.reduced, quantity)
	return nil
}

type fakeCustomers struct {
	mu        sync.Mutex
	customers map[int64]Customer
	getErr    error
	reduceErr error
	reduced   []decimal.Decimal
	calls     []string
}

func (f *fakeCustomers) GetCustomer(_ context.Context, id int64) (Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "getCustomer")
	if f.getErr != nil {
		return Customer{}, f.getErr
	}
	c, ok := f.customers[id]
	if !ok {
		return Customer{}, NotFound("customer with id %d not found", id)
	}
	return c, nil
}

func (f *fakeCustomers) ReduceBalance(_ context.Context, id int64, amount decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "reduceBalance")
	if f.reduceErr != nil {
		return f.reduceErr
	}
	c := f.customers[id]
	c.Balance = c.Balance.Sub(amount)
	f.customers[id] = c
	f.reduced = append(f.reduced, amount)
	return nil
}

type txKey struct{}

type fakeRepo struct {
	mu      sync.Mutex
	orders  map[string]Order
	saveErr error
	nextID  int
	// savedInTx records whether every Save ran inside WithTx.
	savedInTx bool
	txCount   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: make(map[string]Order), savedInTx: true}
}

func (r *fakeRepo) Save(ctx context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ctx.Value(txKey{}) == nil {
		r.savedInTx = false
	}
	if r.saveErr != nil {
		return r.saveErr
	}
	r.nextID++
	o.ID = "order-" + strconv.Itoa(r.nextID)
	r.orders[o.ID] = *o
	return nil
}

func (r *fakeRepo) Get(_ context.Context, id string) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return o, nil
}

func (r *fakeRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.mu.Lock()
	r.txCount++
	r.mu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, true))
}

var errTransport = errors.New("dial tcp: connection refused")
