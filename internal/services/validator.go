package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/premiun-cakes/api/internal/domain"
)

// FieldViolation names one rejected field and the reason, in the storefront
// language so the client can show it verbatim.
type FieldViolation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError carries every violation found in a submission. The
// pipeline rejects the whole order; nothing is priced or persisted.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Reason))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator checks a normalized submission against the catalog and the
// order bounds, collecting every violation instead of stopping at the
// first.
type Validator struct {
	catalog *domain.Catalog
}

// NewValidator builds a validator over the catalog.
func NewValidator(catalog *domain.Catalog) (*Validator, error) {
	if catalog == nil {
		return nil, fmt.Errorf("validator: catalog is required")
	}
	return &Validator{catalog: catalog}, nil
}

// ValidateRequest either returns the fully typed order request or a
// *ValidationError listing everything wrong with it.
func (v *Validator) ValidateRequest(req NormalizedRequest) (domain.OrderRequest, error) {
	var violations []FieldViolation
	add := func(field, reason string) {
		violations = append(violations, FieldViolation{Field: field, Reason: reason})
	}

	if len(req.Items) == 0 {
		add("items", "Pedido sem itens")
	}
	if len(req.Items) > domain.MaxOrderItems {
		add("items", fmt.Sprintf("Pedido com mais de %d itens", domain.MaxOrderItems))
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	for i, item := range req.Items {
		if i >= domain.MaxOrderItems {
			break
		}
		validated, ok := v.validateItem(i, item, add)
		if ok {
			items = append(items, validated)
		}
	}

	if req.CustomerName != "" {
		if nameLen := utf8.RuneCountInString(req.CustomerName); nameLen < domain.MinCustomerNameLen {
			add("customerName", "Nome muito curto")
		} else if nameLen > domain.MaxCustomerNameLen {
			add("customerName", "Nome muito longo")
		}
	}

	var deliveryMethod domain.DeliveryMethod
	switch req.DeliveryMethod {
	case string(domain.DeliveryPickup):
		deliveryMethod = domain.DeliveryPickup
	case string(domain.DeliveryDeliver):
		deliveryMethod = domain.DeliveryDeliver
	case "":
		add("deliveryMethod", "Forma de entrega é obrigatória")
	default:
		add("deliveryMethod", fmt.Sprintf("Forma de entrega desconhecida: %q", req.DeliveryMethod))
	}

	var paymentMethod domain.PaymentMethod
	switch req.PaymentMethod {
	case string(domain.PaymentPix):
		paymentMethod = domain.PaymentPix
	case string(domain.PaymentCash):
		paymentMethod = domain.PaymentCash
	case string(domain.PaymentCard):
		paymentMethod = domain.PaymentCard
	case "":
		add("paymentMethod", "Forma de pagamento é obrigatória")
	default:
		add("paymentMethod", fmt.Sprintf("Forma de pagamento desconhecida: %q", req.PaymentMethod))
	}

	if req.Address != "" {
		if addrLen := utf8.RuneCountInString(req.Address); addrLen < domain.MinAddressLen {
			add("address", "Endereço muito curto")
		} else if addrLen > domain.MaxAddressLen {
			add("address", "Endereço muito longo")
		}
	}

	// Cross-field rule, checked after the per-field ones so both reasons
	// can surface at once.
	if deliveryMethod == domain.DeliveryDeliver && req.Address == "" {
		add("address", "Endereço é obrigatório para entrega")
	}

	if len(violations) > 0 {
		return domain.OrderRequest{}, &ValidationError{Violations: violations}
	}

	return domain.OrderRequest{
		Items:          items,
		CustomerName:   req.CustomerName,
		DeliveryMethod: deliveryMethod,
		Address:        req.Address,
		PaymentMethod:  paymentMethod,
	}, nil
}

func (v *Validator) validateItem(index int, item NormalizedItem, add func(field, reason string)) (domain.OrderItem, bool) {
	path := func(field string) string {
		return fmt.Sprintf("items[%d].%s", index, field)
	}

	switch item.Kind {
	case domain.ItemKindVulcao:
		return v.validateVulcao(path, item, add)
	case domain.ItemKindBolo10:
		return v.validateBolo(path, item, add)
	default:
		add(path("kind"), "Tipo de item não identificado")
		return domain.OrderItem{}, false
	}
}

func (v *Validator) validateVulcao(path func(string) string, item NormalizedItem, add func(field, reason string)) (domain.OrderItem, bool) {
	ok := true

	if item.FlavorID == "" {
		add(path("flavorId"), "Sabor é obrigatório")
		ok = false
	} else if _, known := v.catalog.FlavorByID(item.FlavorID); !known {
		add(path("flavorId"), fmt.Sprintf("Sabor desconhecido: %q", item.FlavorID))
		ok = false
	}

	if item.Batter == "" {
		add(path("massa"), "Massa é obrigatória")
		ok = false
	} else if _, known := v.catalog.BatterByID(item.Batter); !known {
		add(path("massa"), fmt.Sprintf("Massa desconhecida: %q", item.Batter))
		ok = false
	}

	for i, addon := range item.Addons {
		if _, known := v.catalog.AddonByID(addon); !known {
			add(path(fmt.Sprintf("addons[%d]", i)), fmt.Sprintf("Adicional desconhecido: %q", addon))
			ok = false
		}
	}

	if item.FillingID != "" {
		add(path("fillingId"), "Recheio não se aplica ao vulcão")
		ok = false
	}
	if item.Topper != "" {
		add(path("topoType"), "Topo não se aplica ao vulcão")
		ok = false
	}

	if !ok {
		return domain.OrderItem{}, false
	}
	return domain.OrderItem{
		Kind: domain.ItemKindVulcao,
		Vulcao: &domain.VulcaoItem{
			FlavorID: item.FlavorID,
			Batter:   item.Batter,
			Addons:   item.Addons,
			Quantity: item.Quantity,
		},
	}, true
}

func (v *Validator) validateBolo(path func(string) string, item NormalizedItem, add func(field, reason string)) (domain.OrderItem, bool) {
	ok := true

	if item.Batter == "" {
		add(path("massa"), "Massa é obrigatória")
		ok = false
	} else if _, known := v.catalog.BatterByID(item.Batter); !known {
		add(path("massa"), fmt.Sprintf("Massa desconhecida: %q", item.Batter))
		ok = false
	}

	if item.FillingID == "" {
		add(path("fillingId"), "Recheio é obrigatório")
		ok = false
	} else if _, known := v.catalog.FillingByID(item.FillingID); !known {
		add(path("fillingId"), fmt.Sprintf("Recheio desconhecido: %q", item.FillingID))
		ok = false
	}

	topper := domain.TopperNone
	if item.Topper != "" {
		candidate := domain.TopperTier(item.Topper)
		if _, known := v.catalog.TopperByTier(candidate); !known {
			add(path("topoType"), fmt.Sprintf("Topo desconhecido: %q", item.Topper))
			ok = false
		} else {
			topper = candidate
		}
	}

	if item.FlavorID != "" {
		add(path("flavorId"), "Sabor não se aplica ao bolo de 10")
		ok = false
	}
	if item.Addons != nil {
		add(path("addons"), "Adicionais não se aplicam ao bolo de 10")
		ok = false
	}

	if !ok {
		return domain.OrderItem{}, false
	}
	return domain.OrderItem{
		Kind: domain.ItemKindBolo10,
		Bolo: &domain.BoloItem{
			Batter:    item.Batter,
			FillingID: item.FillingID,
			Topper:    topper,
			Quantity:  item.Quantity,
		},
	}, true
}
