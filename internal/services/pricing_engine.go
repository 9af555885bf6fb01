package services

import (
	"errors"
	"fmt"

	"github.com/premiun-cakes/api/internal/domain"
)

// ErrPricingInvalidItem indicates an order item that references catalog
// entries the engine does not know. Validated orders never trigger it.
var ErrPricingInvalidItem = errors.New("pricing: invalid item")

// PricingEngineDeps wires the pricing engine's collaborators.
type PricingEngineDeps struct {
	Catalog   *domain.Catalog
	FeePolicy domain.DeliveryFeePolicy
}

// PricingEngine computes line and order totals in integer cents. It holds
// no state beyond the catalog and the delivery fee policy.
type PricingEngine struct {
	catalog   *domain.Catalog
	feePolicy domain.DeliveryFeePolicy
}

// NewPricingEngine validates deps and builds the engine.
func NewPricingEngine(deps PricingEngineDeps) (*PricingEngine, error) {
	if deps.Catalog == nil {
		return nil, fmt.Errorf("pricing engine: catalog is required")
	}
	if deps.FeePolicy == nil {
		return nil, fmt.Errorf("pricing engine: fee policy is required")
	}
	return &PricingEngine{catalog: deps.Catalog, feePolicy: deps.FeePolicy}, nil
}

// LineTotal prices one order item: unit price from the catalog times the
// quantity.
func (e *PricingEngine) LineTotal(item domain.OrderItem) (int64, error) {
	switch item.Kind {
	case domain.ItemKindVulcao:
		if item.Vulcao == nil {
			return 0, fmt.Errorf("%w: vulcao item without payload", ErrPricingInvalidItem)
		}
		return e.vulcaoLineTotal(item.Vulcao)
	case domain.ItemKindBolo10:
		if item.Bolo == nil {
			return 0, fmt.Errorf("%w: bolo10 item without payload", ErrPricingInvalidItem)
		}
		return e.boloLineTotal(item.Bolo)
	default:
		return 0, fmt.Errorf("%w: kind %q", ErrPricingInvalidItem, item.Kind)
	}
}

func (e *PricingEngine) vulcaoLineTotal(item *domain.VulcaoItem) (int64, error) {
	unit := e.catalog.VulcaoBasePriceCents
	for _, id := range item.Addons {
		addon, ok := e.catalog.AddonByID(id)
		if !ok {
			return 0, fmt.Errorf("%w: addon %q", ErrPricingInvalidItem, id)
		}
		unit += addon.PriceCents
	}
	return unit * int64(item.Quantity), nil
}

func (e *PricingEngine) boloLineTotal(item *domain.BoloItem) (int64, error) {
	topper, ok := e.catalog.TopperByTier(item.Topper)
	if !ok {
		return 0, fmt.Errorf("%w: topper %q", ErrPricingInvalidItem, item.Topper)
	}
	unit := e.catalog.Bolo10BasePriceCents + topper.SurchargeCents
	return unit * int64(item.Quantity), nil
}

// Totals prices the whole order. Pickup never carries a delivery fee;
// delivery charges the policy's fee unless the promo waives it.
func (e *PricingEngine) Totals(items []domain.OrderItem, method domain.DeliveryMethod) (domain.Totals, error) {
	var subtotal int64
	for _, item := range items {
		line, err := e.LineTotal(item)
		if err != nil {
			return domain.Totals{}, err
		}
		subtotal += line
	}

	var deliveryFee int64
	if method == domain.DeliveryDeliver {
		quote := e.feePolicy.Quote()
		if !quote.Waived {
			deliveryFee = quote.FeeCents
		}
	}

	return domain.Totals{
		SubtotalCents: subtotal,
		DeliveryCents: deliveryFee,
		TotalCents:    subtotal + deliveryFee,
	}, nil
}
