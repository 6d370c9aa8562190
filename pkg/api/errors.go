package api

import (
	"errors"
	"net/http"
	"time"

	"orderms/pkg/order"
)

const msgInternal = "internal server error"

// exceptionResponse is the body of classified failures.
type exceptionResponse struct {
	Status           int               `json:"status"`
	Error            string            `json:"error"`
	Message          string            `json:"message"`
	Path             string            `json:"path"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
}

// errorResponse is the body of a failed downstream call.
type errorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
	Path    string `json:"path"`
}

// writeError translates err into the response for its kind.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	var derr *order.Error
	kind := order.KindOf(err)
	status := kind.Status()

	switch kind {
	case order.KindNotFound, order.KindInsufficientCondition:
		h.log.Error(ctx, "request failed", "kind", kind.String(), "error", err)
		writeJSON(w, status, h.exception(r, status, err.Error(), nil))

	case order.KindValidationFailed:
		h.log.Error(ctx, "request failed", "kind", kind.String(), "error", err)
		errors.As(err, &derr)
		writeJSON(w, status, h.exception(r, status, derr.Message, derr.Fields))

	case order.KindClientError:
		h.log.Error(ctx, "downstream call failed", "error", err)
		writeJSON(w, status, errorResponse{
			Message: err.Error(),
			Status:  status,
			Path:    r.URL.Path,
		})

	default:
		h.log.Error(ctx, "unhandled error", "error", err)
		writeJSON(w, status, h.exception(r, status, msgInternal, nil))
	}
}

func (h *Handler) exception(r *http.Request, status int, msg string, fields map[string]string) exceptionResponse {
	return exceptionResponse{
		Status:           status,
		Error:            http.StatusText(status),
		Message:          msg,
		Path:             r.URL.Path,
		Timestamp:        h.now().UTC(),
		ValidationErrors: fields,
	}
}
