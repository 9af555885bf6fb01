package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/premiun-cakes/api/internal/domain"
)

// RawOrderRequest is the untrusted order submission exactly as decoded from
// the request body. Every field tolerates missing, empty or oddly typed
// values; the normalizer cleans it into a NormalizedRequest.
type RawOrderRequest struct {
	Items          []RawOrderItem `json:"items"`
	CustomerName   string         `json:"customerName"`
	DeliveryMethod string         `json:"deliveryMethod"`
	Address        string         `json:"address"`
	PaymentMethod  string         `json:"paymentMethod"`
}

// RawOrderItem is a single untrusted cart line. Quantity stays raw JSON so
// numeric strings and fractional numbers can be coerced instead of failing
// the whole decode.
type RawOrderItem struct {
	Kind      string          `json:"kind"`
	FlavorID  string          `json:"flavorId"`
	Batter    string          `json:"massa"`
	Addons    []string        `json:"addons"`
	FillingID string          `json:"fillingId"`
	Topper    string          `json:"topoType"`
	Quantity  json.RawMessage `json:"qty"`
}

// NormalizedItem is a cart line after folding, alias resolution, kind
// inference and quantity clamping. Ids not recognized by the catalog keep
// their folded spelling so the validator can name them in a violation.
type NormalizedItem struct {
	Kind      domain.ItemKind
	FlavorID  string
	Batter    string
	Addons    []string
	FillingID string
	Topper    string
	Quantity  int
}

// NormalizedRequest is the cleaned submission handed to the validator.
// DeliveryMethod and PaymentMethod hold folded text that may or may not be
// canonical.
type NormalizedRequest struct {
	Items          []NormalizedItem
	CustomerName   string
	DeliveryMethod string
	Address        string
	PaymentMethod  string
}

// PlaceOrderResult is the successful outcome of an order submission.
type PlaceOrderResult struct {
	Code        string
	Totals      domain.Totals
	Message     string
	WhatsAppURL string
	CreatedAt   time.Time
}

// OrderService runs the full intake pipeline for one submission.
type OrderService interface {
	PlaceOrder(ctx context.Context, raw RawOrderRequest) (PlaceOrderResult, error)
}

// OrderCreatedEvent describes an accepted order for downstream consumers.
type OrderCreatedEvent struct {
	EventID        string    `json:"eventId"`
	Code           string    `json:"code"`
	DeliveryMethod string    `json:"deliveryMethod"`
	PaymentMethod  string    `json:"paymentMethod"`
	ItemCount      int       `json:"itemCount"`
	TotalCents     int64     `json:"totalCents"`
	CreatedAt      time.Time `json:"createdAt"`
}

// OrderEventPublisher emits order lifecycle events. Publishing is best
// effort; failures are logged, never surfaced to the client.
type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, event OrderCreatedEvent) error
}

// CodeChecker answers whether an order code is already taken. Satisfied by
// repositories.OrderRepository.
type CodeChecker interface {
	ExistsByCode(ctx context.Context, code string) (bool, error)
}
