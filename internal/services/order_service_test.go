package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/premiun-cakes/api/internal/domain"
)

type stubOrderRepository struct {
	created      []domain.Order
	conflictFor  map[string]bool
	failErr      error
	createdAt    time.Time
	existsCalled []string
}

func (s *stubOrderRepository) ExistsByCode(_ context.Context, code string) (bool, error) {
	s.existsCalled = append(s.existsCalled, code)
	return false, nil
}

type stubConflictError struct{ code string }

func (e *stubConflictError) Error() string    { return "code taken: " + e.code }
func (e *stubConflictError) IsNotFound() bool { return false }
func (e *stubConflictError) IsConflict() bool { return true }

func (s *stubOrderRepository) Create(_ context.Context, order domain.Order) (domain.CreatedOrder, error) {
	if s.failErr != nil {
		return domain.CreatedOrder{}, s.failErr
	}
	if s.conflictFor[order.Code] {
		return domain.CreatedOrder{}, &stubConflictError{code: order.Code}
	}
	s.created = append(s.created, order)
	return domain.CreatedOrder{
		Code:       order.Code,
		TotalCents: order.Totals.TotalCents,
		CreatedAt:  s.createdAt,
	}, nil
}

type stubCodeGenerator struct {
	codes []string
	next  int
}

func (s *stubCodeGenerator) Generate(context.Context) (string, error) {
	if s.next >= len(s.codes) {
		return "", errors.New("out of codes")
	}
	code := s.codes[s.next]
	s.next++
	return code, nil
}

type stubPublisher struct {
	events []OrderCreatedEvent
	err    error
}

func (s *stubPublisher) PublishOrderCreated(_ context.Context, event OrderCreatedEvent) error {
	s.events = append(s.events, event)
	return s.err
}

func newTestOrderService(t *testing.T, repo *stubOrderRepository, codes *stubCodeGenerator, events OrderEventPublisher) OrderService {
	t.Helper()
	catalog := domain.NewCatalog()
	normalizer, err := NewNormalizer(catalog.Aliases())
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}
	validator, err := NewValidator(catalog)
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	pricing, err := NewPricingEngine(PricingEngineDeps{
		Catalog: catalog,
		FeePolicy: domain.DeliveryFeePolicyFunc(func() domain.DeliveryQuote {
			return domain.DeliveryQuote{FeeCents: 500}
		}),
	})
	if err != nil {
		t.Fatalf("NewPricingEngine: %v", err)
	}
	renderer, err := NewMessageRenderer(catalog, testPickupAddress)
	if err != nil {
		t.Fatalf("NewMessageRenderer: %v", err)
	}
	service, err := NewOrderService(OrderServiceDeps{
		Normalizer:     normalizer,
		Validator:      validator,
		Pricing:        pricing,
		Codes:          codes,
		Renderer:       renderer,
		Orders:         repo,
		Events:         events,
		WhatsAppNumber: "5569993471428",
		Clock:          func() time.Time { return time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("NewOrderService: %v", err)
	}
	return service
}

func validRawRequest() RawOrderRequest {
	return RawOrderRequest{
		Items: []RawOrderItem{{
			FlavorID: "Vulcão Chocolate",
			Batter:   "Massa Branca",
			Addons:   []string{"KitKat"},
			Quantity: json.RawMessage(`2`),
		}},
		CustomerName:   "Maria",
		DeliveryMethod: "Retirada",
		PaymentMethod:  "PIX",
	}
}

func TestPlaceOrderHappyPath(t *testing.T) {
	repo := &stubOrderRepository{createdAt: time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)}
	publisher := &stubPublisher{}
	service := newTestOrderService(t, repo, &stubCodeGenerator{codes: []string{"PJ-123456"}}, publisher)

	result, err := service.PlaceOrder(context.Background(), validRawRequest())
	if err != nil {
		t.Fatalf("PlaceOrder returned error: %v", err)
	}

	if result.Code != "PJ-123456" {
		t.Errorf("Code = %q", result.Code)
	}
	if result.Totals.SubtotalCents != 4398 || result.Totals.TotalCents != 4398 {
		t.Errorf("Totals = %+v", result.Totals)
	}
	if !strings.Contains(result.Message, "Pedido: PJ-123456") {
		t.Errorf("Message missing code:\n%s", result.Message)
	}
	if !strings.HasPrefix(result.WhatsAppURL, "https://wa.me/5569993471428?text=") {
		t.Errorf("WhatsAppURL = %q", result.WhatsAppURL)
	}
	if text := result.WhatsAppURL[strings.Index(result.WhatsAppURL, "?text=")+len("?text="):]; strings.Contains(text, "+") || !strings.Contains(text, "%20") {
		t.Errorf("spaces must encode as %%20, never +: %q", text)
	}
	if len(repo.created) != 1 {
		t.Fatalf("created orders = %d, want 1", len(repo.created))
	}
	stored := repo.created[0]
	if stored.Code != "PJ-123456" || stored.PaymentMethod != domain.PaymentPix {
		t.Errorf("stored order = %+v", stored)
	}
	if len(publisher.events) != 1 {
		t.Fatalf("published events = %d, want 1", len(publisher.events))
	}
	event := publisher.events[0]
	if event.Code != "PJ-123456" || event.TotalCents != 4398 || event.ItemCount != 1 {
		t.Errorf("event = %+v", event)
	}
	if event.EventID == "" {
		t.Error("event id is empty")
	}
}

func TestPlaceOrderRejectionStoresNothing(t *testing.T) {
	repo := &stubOrderRepository{}
	codes := &stubCodeGenerator{codes: []string{"PJ-123456"}}
	service := newTestOrderService(t, repo, codes, nil)

	_, err := service.PlaceOrder(context.Background(), RawOrderRequest{
		DeliveryMethod: "sedex",
		PaymentMethod:  "boleto",
	})

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if len(repo.created) != 0 {
		t.Errorf("created orders = %d, want none on rejection", len(repo.created))
	}
	if codes.next != 0 {
		t.Errorf("codes minted = %d, want none on rejection", codes.next)
	}
}

func TestPlaceOrderRetriesOnCodeConflict(t *testing.T) {
	repo := &stubOrderRepository{
		conflictFor: map[string]bool{"PJ-111111": true},
		createdAt:   time.Now(),
	}
	service := newTestOrderService(t, repo, &stubCodeGenerator{codes: []string{"PJ-111111", "PJ-222222"}}, nil)

	result, err := service.PlaceOrder(context.Background(), validRawRequest())
	if err != nil {
		t.Fatalf("PlaceOrder returned error: %v", err)
	}
	if result.Code != "PJ-222222" {
		t.Errorf("Code = %q, want the re-minted code", result.Code)
	}
	if !strings.Contains(result.Message, "Pedido: PJ-222222") {
		t.Errorf("Message rendered with stale code:\n%s", result.Message)
	}
}

func TestPlaceOrderGivesUpAfterRepeatedConflicts(t *testing.T) {
	repo := &stubOrderRepository{
		conflictFor: map[string]bool{"PJ-111111": true, "PJ-222222": true},
	}
	service := newTestOrderService(t, repo, &stubCodeGenerator{codes: []string{"PJ-111111", "PJ-222222"}}, nil)

	_, err := service.PlaceOrder(context.Background(), validRawRequest())
	if !errors.Is(err, ErrOrderNotPersisted) {
		t.Errorf("err = %v, want ErrOrderNotPersisted", err)
	}
}

func TestPlaceOrderSurvivesPublishFailure(t *testing.T) {
	repo := &stubOrderRepository{createdAt: time.Now()}
	publisher := &stubPublisher{err: fmt.Errorf("broker down")}
	service := newTestOrderService(t, repo, &stubCodeGenerator{codes: []string{"PJ-123456"}}, publisher)

	result, err := service.PlaceOrder(context.Background(), validRawRequest())
	if err != nil {
		t.Fatalf("PlaceOrder returned error: %v", err)
	}
	if result.Code != "PJ-123456" {
		t.Errorf("Code = %q", result.Code)
	}
}
