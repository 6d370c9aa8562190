package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"orderms/pkg/order"
)

// Repository persists orders in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository. The orders table is created by
// migrations.Up.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save assigns a new ID to o and inserts it.
func (r *Repository) Save(ctx context.Context, o *order.Order) error {
	const stmt = `
INSERT INTO orders (id, customer_id, product_id, quantity, total_amount)
VALUES ($1, $2, $3, $4, $5)`

	id := uuid.NewString()
	if _, err := r.conn(ctx).ExecContext(ctx, stmt, id, o.CustomerID, o.ProductID, o.Quantity, o.TotalAmount); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	o.ID = id
	return nil
}

// Get retrieves an order by ID.
func (r *Repository) Get(ctx context.Context, id string) (order.Order, error) {
	const query = `
SELECT id, customer_id, product_id, quantity, total_amount
FROM orders
WHERE id = $1`

	var o order.Order
	err := r.conn(ctx).QueryRowContext(ctx, query, id).
		Scan(&o.ID, &o.CustomerID, &o.ProductID, &o.Quantity, &o.TotalAmount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidText(err) {
			return order.Order{}, order.ErrNotFound
		}
		return order.Order{}, fmt.Errorf("select order: %w", err)
	}
	return o, nil
}

// WithTx runs fn in a transaction carried by ctx.
func (r *Repository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.db, fn)
}

// isInvalidText reports a malformed id such as a non-UUID string.
func isInvalidText(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "22P02"
}
