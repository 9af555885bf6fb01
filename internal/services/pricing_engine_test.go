package services

import (
	"errors"
	"testing"

	"github.com/premiun-cakes/api/internal/domain"
)

func newTestPricingEngine(t *testing.T, quote domain.DeliveryQuote) *PricingEngine {
	t.Helper()
	engine, err := NewPricingEngine(PricingEngineDeps{
		Catalog: domain.NewCatalog(),
		FeePolicy: domain.DeliveryFeePolicyFunc(func() domain.DeliveryQuote {
			return quote
		}),
	})
	if err != nil {
		t.Fatalf("NewPricingEngine returned error: %v", err)
	}
	return engine
}

func TestLineTotalVulcao(t *testing.T) {
	engine := newTestPricingEngine(t, domain.DeliveryQuote{FeeCents: 500})

	tests := []struct {
		name string
		item domain.VulcaoItem
		want int64
	}{
		{
			name: "base only",
			item: domain.VulcaoItem{FlavorID: "chocolate", Batter: "branca", Quantity: 1},
			want: 1499,
		},
		{
			name: "with addons times quantity",
			item: domain.VulcaoItem{
				FlavorID: "chocolate",
				Batter:   "branca",
				Addons:   []string{"kitkat"},
				Quantity: 2,
			},
			want: 4398,
		},
		{
			name: "zero price addon",
			item: domain.VulcaoItem{
				FlavorID: "ninho",
				Batter:   "morango",
				Addons:   []string{"granulado"},
				Quantity: 3,
			},
			want: 4497,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item := tc.item
			got, err := engine.LineTotal(domain.OrderItem{Kind: domain.ItemKindVulcao, Vulcao: &item})
			if err != nil {
				t.Fatalf("LineTotal returned error: %v", err)
			}
			if got != tc.want {
				t.Errorf("LineTotal = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestLineTotalBolo(t *testing.T) {
	engine := newTestPricingEngine(t, domain.DeliveryQuote{FeeCents: 500})

	tests := []struct {
		name   string
		topper domain.TopperTier
		qty    int
		want   int64
	}{
		{name: "no topper", topper: domain.TopperNone, qty: 1, want: 6000},
		{name: "simple topper", topper: domain.TopperSimple, qty: 1, want: 7500},
		{name: "custom topper times two", topper: domain.TopperCustom, qty: 2, want: 18000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := engine.LineTotal(domain.OrderItem{
				Kind: domain.ItemKindBolo10,
				Bolo: &domain.BoloItem{Batter: "chocolate", FillingID: "ninho", Topper: tc.topper, Quantity: tc.qty},
			})
			if err != nil {
				t.Fatalf("LineTotal returned error: %v", err)
			}
			if got != tc.want {
				t.Errorf("LineTotal = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestLineTotalUnknownReferences(t *testing.T) {
	engine := newTestPricingEngine(t, domain.DeliveryQuote{})

	_, err := engine.LineTotal(domain.OrderItem{
		Kind:   domain.ItemKindVulcao,
		Vulcao: &domain.VulcaoItem{FlavorID: "chocolate", Batter: "branca", Addons: []string{"pistache"}, Quantity: 1},
	})
	if !errors.Is(err, ErrPricingInvalidItem) {
		t.Errorf("unknown addon err = %v, want ErrPricingInvalidItem", err)
	}

	_, err = engine.LineTotal(domain.OrderItem{Kind: domain.ItemKindUnknown})
	if !errors.Is(err, ErrPricingInvalidItem) {
		t.Errorf("unknown kind err = %v, want ErrPricingInvalidItem", err)
	}
}

func TestTotalsDeliveryFee(t *testing.T) {
	items := []domain.OrderItem{{
		Kind:   domain.ItemKindVulcao,
		Vulcao: &domain.VulcaoItem{FlavorID: "chocolate", Batter: "branca", Quantity: 1},
	}}

	t.Run("pickup never charges", func(t *testing.T) {
		engine := newTestPricingEngine(t, domain.DeliveryQuote{FeeCents: 500})
		totals, err := engine.Totals(items, domain.DeliveryPickup)
		if err != nil {
			t.Fatalf("Totals returned error: %v", err)
		}
		if totals.DeliveryCents != 0 || totals.TotalCents != 1499 {
			t.Errorf("totals = %+v", totals)
		}
	})

	t.Run("delivery charges the fee", func(t *testing.T) {
		engine := newTestPricingEngine(t, domain.DeliveryQuote{FeeCents: 500})
		totals, err := engine.Totals(items, domain.DeliveryDeliver)
		if err != nil {
			t.Fatalf("Totals returned error: %v", err)
		}
		if totals.DeliveryCents != 500 || totals.TotalCents != 1999 {
			t.Errorf("totals = %+v", totals)
		}
	})

	t.Run("promo waives the fee", func(t *testing.T) {
		engine := newTestPricingEngine(t, domain.DeliveryQuote{FeeCents: 500, Waived: true})
		totals, err := engine.Totals(items, domain.DeliveryDeliver)
		if err != nil {
			t.Fatalf("Totals returned error: %v", err)
		}
		if totals.DeliveryCents != 0 || totals.TotalCents != 1499 {
			t.Errorf("totals = %+v", totals)
		}
	})
}
