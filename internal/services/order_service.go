package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/premiun-cakes/api/internal/domain"
	"github.com/premiun-cakes/api/internal/platform/observability"
	"github.com/premiun-cakes/api/internal/repositories"
)

// createAttempts bounds the persist loop: the initial write plus one
// re-mint when the transactional create loses a code race.
const createAttempts = 2

// ErrOrderNotPersisted indicates the store rejected every create attempt.
var ErrOrderNotPersisted = errors.New("order service: order not persisted")

// CodeGenerator mints unique order codes. Satisfied by OrderCodeGenerator.
type CodeGenerator interface {
	Generate(ctx context.Context) (string, error)
}

// OrderServiceDeps wires the pipeline stages. Events, Logger, Clock and
// Metrics are optional.
type OrderServiceDeps struct {
	Normalizer     *Normalizer
	Validator      *Validator
	Pricing        *PricingEngine
	Codes          CodeGenerator
	Renderer       *MessageRenderer
	Orders         repositories.OrderRepository
	Events         OrderEventPublisher
	WhatsAppNumber string
	Clock          func() time.Time
	Logger         func(ctx context.Context, event string, fields map[string]any)
	Metrics        *observability.PipelineMetrics
}

type orderService struct {
	normalizer     *Normalizer
	validator      *Validator
	pricing        *PricingEngine
	codes          CodeGenerator
	renderer       *MessageRenderer
	orders         repositories.OrderRepository
	events         OrderEventPublisher
	whatsappNumber string
	clock          func() time.Time
	logger         func(ctx context.Context, event string, fields map[string]any)
	metrics        *observability.PipelineMetrics
}

// NewOrderService validates deps and builds the order intake service.
func NewOrderService(deps OrderServiceDeps) (OrderService, error) {
	if deps.Normalizer == nil {
		return nil, fmt.Errorf("order service: normalizer is required")
	}
	if deps.Validator == nil {
		return nil, fmt.Errorf("order service: validator is required")
	}
	if deps.Pricing == nil {
		return nil, fmt.Errorf("order service: pricing engine is required")
	}
	if deps.Codes == nil {
		return nil, fmt.Errorf("order service: code generator is required")
	}
	if deps.Renderer == nil {
		return nil, fmt.Errorf("order service: message renderer is required")
	}
	if deps.Orders == nil {
		return nil, fmt.Errorf("order service: order repository is required")
	}
	if deps.WhatsAppNumber == "" {
		return nil, fmt.Errorf("order service: whatsapp number is required")
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = func(context.Context, string, map[string]any) {}
	}
	return &orderService{
		normalizer:     deps.Normalizer,
		validator:      deps.Validator,
		pricing:        deps.Pricing,
		codes:          deps.Codes,
		renderer:       deps.Renderer,
		orders:         deps.Orders,
		events:         deps.Events,
		whatsappNumber: deps.WhatsAppNumber,
		clock:          deps.Clock,
		logger:         deps.Logger,
		metrics:        deps.Metrics,
	}, nil
}

// PlaceOrder runs normalize, validate, price, code, render and persist for
// one submission. A *ValidationError means the order was rejected and
// nothing was stored.
func (s *orderService) PlaceOrder(ctx context.Context, raw RawOrderRequest) (PlaceOrderResult, error) {
	normalized := s.normalizer.NormalizeRequest(raw)

	request, err := s.validator.ValidateRequest(normalized)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			if s.metrics != nil {
				s.metrics.OrdersRejected.Add(ctx, 1)
			}
			s.logger(ctx, "order.rejected", map[string]any{
				"violations": len(ve.Violations),
			})
		}
		return PlaceOrderResult{}, err
	}

	totals, err := s.pricing.Totals(request.Items, request.DeliveryMethod)
	if err != nil {
		return PlaceOrderResult{}, fmt.Errorf("order service: price order: %w", err)
	}

	created, order, err := s.persist(ctx, request, totals)
	if err != nil {
		return PlaceOrderResult{}, err
	}

	message := s.renderer.Render(order)

	if s.metrics != nil {
		s.metrics.OrdersAccepted.Add(ctx, 1)
	}
	s.logger(ctx, "order.accepted", map[string]any{
		"code":        created.Code,
		"items":       len(order.Items),
		"total_cents": created.TotalCents,
	})

	s.publishCreated(ctx, order, created)

	return PlaceOrderResult{
		Code:        created.Code,
		Totals:      totals,
		Message:     message,
		WhatsAppURL: s.whatsappURL(message),
		CreatedAt:   created.CreatedAt,
	}, nil
}

// persist mints a code and writes the order, re-minting once when the
// transactional create reports a code conflict.
func (s *orderService) persist(ctx context.Context, request domain.OrderRequest, totals domain.Totals) (domain.CreatedOrder, domain.Order, error) {
	var lastErr error
	for attempt := 0; attempt < createAttempts; attempt++ {
		code, err := s.codes.Generate(ctx)
		if err != nil {
			return domain.CreatedOrder{}, domain.Order{}, fmt.Errorf("order service: generate code: %w", err)
		}

		order := domain.Order{
			Code:           code,
			Items:          request.Items,
			CustomerName:   request.CustomerName,
			DeliveryMethod: request.DeliveryMethod,
			Address:        request.Address,
			PaymentMethod:  request.PaymentMethod,
			Totals:         totals,
		}

		created, err := s.orders.Create(ctx, order)
		if err == nil {
			return created, order, nil
		}
		if !repositories.IsConflict(err) {
			return domain.CreatedOrder{}, domain.Order{}, fmt.Errorf("order service: persist order: %w", err)
		}
		lastErr = err
		s.logger(ctx, "order.code_conflict", map[string]any{"code": code})
	}
	return domain.CreatedOrder{}, domain.Order{}, fmt.Errorf("%w: %v", ErrOrderNotPersisted, lastErr)
}

// publishCreated emits the order-created event when a publisher is wired.
// Failures are logged and swallowed; the order is already stored.
func (s *orderService) publishCreated(ctx context.Context, order domain.Order, created domain.CreatedOrder) {
	if s.events == nil {
		return
	}
	event := OrderCreatedEvent{
		EventID:        ulid.Make().String(),
		Code:           created.Code,
		DeliveryMethod: string(order.DeliveryMethod),
		PaymentMethod:  string(order.PaymentMethod),
		ItemCount:      len(order.Items),
		TotalCents:     created.TotalCents,
		CreatedAt:      created.CreatedAt,
	}
	if err := s.events.PublishOrderCreated(ctx, event); err != nil {
		s.logger(ctx, "order.event_publish_failed", map[string]any{
			"code":  created.Code,
			"error": err.Error(),
		})
	}
}

func (s *orderService) whatsappURL(message string) string {
	// Spaces must be %20, not "+": some WhatsApp clients show a literal
	// plus sign in the prefilled text otherwise.
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", s.whatsappNumber, text)
}
