package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/premiun-cakes/api/internal/platform/httpx"
	"github.com/premiun-cakes/api/internal/services"
)

// maxOrderBodyBytes bounds the request body; a maximal order is a few
// kilobytes, so anything near the cap is hostile.
const maxOrderBodyBytes = 64 * 1024

// OrderHandlerDeps wires the order handler's collaborators.
type OrderHandlerDeps struct {
	Service         services.OrderService
	OrdersPerMinute int
	Clock           func() time.Time
}

// OrderHandler exposes the order intake endpoint.
type OrderHandler struct {
	service services.OrderService
	limiter *rateLimiter
}

// NewOrderHandler validates deps and builds the handler.
func NewOrderHandler(deps OrderHandlerDeps) (*OrderHandler, error) {
	if deps.Service == nil {
		return nil, fmt.Errorf("order handler: service is required")
	}
	return &OrderHandler{
		service: deps.Service,
		limiter: newRateLimiter(deps.OrdersPerMinute, time.Minute, deps.Clock),
	}, nil
}

// Routes returns the order subrouter.
func (h *OrderHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	return r
}

type orderResponse struct {
	OrderCode     string `json:"orderCode"`
	SubtotalCents int64  `json:"subtotalCents"`
	DeliveryCents int64  `json:"deliveryCents"`
	TotalCents    int64  `json:"totalCents"`
	Message       string `json:"message"`
	WhatsAppURL   string `json:"waUrl"`
}

// Create handles POST /api/v1/orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.limiter.Allow(clientKey(r)) {
		httpx.WriteError(ctx, w, httpx.NewError("rate_limited", "too many orders, try again shortly", http.StatusTooManyRequests))
		return
	}

	var raw services.RawOrderRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxOrderBodyBytes)
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&raw); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_body", "request body is not valid JSON", http.StatusBadRequest))
		return
	}

	result, err := h.service.PlaceOrder(ctx, raw)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			httpx.WriteError(ctx, w, httpx.NewError("validation_failed", "order was rejected", http.StatusBadRequest).
				WithDetails(map[string]any{"violations": ve.Violations}))
			return
		}
		httpx.WriteError(ctx, w, httpx.NewError("internal_server_error", "could not place order", http.StatusInternalServerError))
		return
	}

	writeJSON(w, http.StatusOK, orderResponse{
		OrderCode:     result.Code,
		SubtotalCents: result.Totals.SubtotalCents,
		DeliveryCents: result.Totals.DeliveryCents,
		TotalCents:    result.Totals.TotalCents,
		Message:       result.Message,
		WhatsAppURL:   result.WhatsAppURL,
	})
}

// clientKey identifies the caller for rate limiting. RealIP middleware
// already resolved forwarding headers into RemoteAddr.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
