package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"orderms/pkg/logger"
	"orderms/pkg/otel"
)

// Stage is the step a PlaceOrder call reached.
type Stage string

const (
	StageValidating Stage = "validating"
	StageDebiting   Stage = "debiting"
	StagePersisting Stage = "persisting"
	StageCommitted  Stage = "committed"
)

// Service runs the order workflows.
//
// PlaceOrder debits two remote services and then writes locally. Only the
// local write is transactional: a failed balance debit does not restore the
// product stock, and a failed write does not restore either debit. Two
// concurrent requests may also both pass the stock and balance checks before
// either debit lands.
type Service struct {
	log       *logger.Logger
	repo      Repository
	products  ProductClient
	customers CustomerClient
}

// NewService constructs a Service.
func NewService(log *logger.Logger, repo Repository, products ProductClient, customers CustomerClient) *Service {
	return &Service{
		log:       log,
		repo:      repo,
		products:  products,
		customers: customers,
	}
}

// GetOrder returns the order with the given id.
func (s *Service) GetOrder(ctx context.Context, id string) (View, error) {
	ctx, span := otel.AddSpan(ctx, "order.GetOrder", attribute.String("order.id", id))
	defer span.End()

	o, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return View{}, NotFound("order with id %s not found", id)
		}
		return View{}, fmt.Errorf("get order %s: %w", id, err)
	}
	return o.view(), nil
}

// PlaceOrder buys req.Quantity units of a product for a customer.
func (s *Service) PlaceOrder(ctx context.Context, req PurchaseRequest) error {
	ctx, span := otel.AddSpan(ctx, "order.PlaceOrder",
		attribute.Int64("customer.id", req.CustomerID),
		attribute.Int64("product.id", req.ProductID),
		attribute.Int64("quantity", req.Quantity),
	)
	defer span.End()

	o, stage, err := s.placeOrder(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		kind := KindOf(err)
		if kind == KindUnknown {
			s.log.Error(ctx, "place order", "stage", stage, "error", err)
		} else {
			s.log.Info(ctx, "place order rejected", "stage", stage, "kind", kind.String(), "error", err)
		}
		return err
	}

	s.log.Info(ctx, "order placed", "order_id", o.ID, "customer_id", o.CustomerID,
		"product_id", o.ProductID, "quantity", o.Quantity, "total_amount", o.TotalAmount.StringFixed(2))
	return nil
}

func (s *Service) placeOrder(ctx context.Context, req PurchaseRequest) (Order, Stage, error) {
	if err := req.Validate(); err != nil {
		return Order{}, StageValidating, err
	}

	product, err := s.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		return Order{}, StageValidating, err
	}
	total := product.Price.Mul(decimal.NewFromInt(req.Quantity)).Round(MoneyScale)

	customer, err := s.customers.GetCustomer(ctx, req.CustomerID)
	if err != nil {
		return Order{}, StageValidating, err
	}

	draft := Order{
		CustomerID:  req.CustomerID,
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		TotalAmount: total,
	}

	if product.Count < req.Quantity {
		return Order{}, StageValidating, InsufficientCondition(MsgInsufficientQuantity)
	}
	if customer.Balance.LessThan(total) {
		return Order{}, StageValidating, InsufficientCondition(MsgInsufficientBalance)
	}

	if err := s.products.ReduceProductCount(ctx, req.ProductID, req.Quantity); err != nil {
		return Order{}, StageDebiting, err
	}
	if err := s.customers.ReduceBalance(ctx, req.CustomerID, total); err != nil {
		s.log.Error(ctx, "balance debit failed after stock debit, stock is not restored",
			"product_id", req.ProductID, "quantity", req.Quantity, "customer_id", req.CustomerID)
		return Order{}, StageDebiting, err
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context) error {
		return s.repo.Save(ctx, &draft)
	})
	if err != nil {
		s.log.Error(ctx, "order not saved after remote debits, debits are not restored",
			"product_id", req.ProductID, "quantity", req.Quantity,
			"customer_id", req.CustomerID, "amount", total.StringFixed(2))
		return Order{}, StagePersisting, fmt.Errorf("save order: %w", err)
	}

	return draft, StageCommitted, nil
}
