package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"

	"orderms/pkg/order"
	"orderms/pkg/otel"
)

// getOrderHandler retrieves an order by ID.
// @Summary Get order
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} order.View
// @Failure 404 {object} exceptionResponse
// @Security ApiKeyAuth
// @Router /v1/orders/{id} [get]
func (h *Handler) getOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getOrderHandler", userAttrs(r.Context())...)
	defer span.End()

	id := mux.Vars(r)["id"]
	v, err := h.orders.GetOrder(ctx, id)
	if err != nil {
		h.writeError(w, r.WithContext(ctx), err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// placeOrderHandler buys a product for a customer.
// @Summary Place order
// @Accept json
// @Param order body order.PurchaseRequest true "Purchase"
// @Success 204
// @Failure 400 {object} exceptionResponse
// @Failure 404 {object} exceptionResponse
// @Security ApiKeyAuth
// @Router /v1/orders [post]
func (h *Handler) placeOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "placeOrderHandler", userAttrs(r.Context())...)
	defer span.End()
	r = r.WithContext(ctx)

	var req order.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, decodeError(err))
		return
	}
	if err := h.orders.PlaceOrder(ctx, req); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// userAttrs tags handler spans with the logged in user, if any.
func userAttrs(ctx context.Context) []attribute.KeyValue {
	user, ok := userFromContext(ctx)
	if !ok {
		return nil
	}
	return []attribute.KeyValue{attribute.String("enduser.id", user)}
}

// decodeError turns a body decoding failure into a validation error.
func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return order.ValidationFailed(map[string]string{typeErr.Field: "must be " + jsonType(typeErr.Type.Kind().String())})
	}
	if errors.Is(err, io.EOF) {
		return order.ValidationFailed(map[string]string{"body": "must not be empty"})
	}
	return order.ValidationFailed(map[string]string{"body": "malformed JSON"})
}

func jsonType(kind string) string {
	switch kind {
	case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
		return "an integer"
	default:
		return "a " + kind
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
