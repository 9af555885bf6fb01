package domain

import "time"

// ItemKind discriminates the two product kinds.
type ItemKind string

const (
	ItemKindUnknown ItemKind = ""
	ItemKindVulcao  ItemKind = "vulcao"
	ItemKindBolo10  ItemKind = "bolo10"
)

// TopperTier identifies a bolo10 topper option.
type TopperTier string

const (
	TopperNone   TopperTier = "nenhum"
	TopperSimple TopperTier = "simples"
	TopperCustom TopperTier = "personalizado"
)

// DeliveryMethod is one of the two canonical handoff methods.
type DeliveryMethod string

const (
	DeliveryPickup  DeliveryMethod = "retirada"
	DeliveryDeliver DeliveryMethod = "entrega"
)

// PaymentMethod is one of the three canonical payment options.
type PaymentMethod string

const (
	PaymentPix  PaymentMethod = "pix"
	PaymentCash PaymentMethod = "dinheiro"
	PaymentCard PaymentMethod = "cartao"
)

// Bounds shared by normalization and validation.
const (
	MinQuantity = 1
	MaxQuantity = 20

	MaxOrderItems = 30

	MinCustomerNameLen = 2
	MaxCustomerNameLen = 50

	MinAddressLen = 2
	MaxAddressLen = 200
)

// VulcaoItem is a validated vulcao cart line.
type VulcaoItem struct {
	FlavorID string
	Batter   string
	Addons   []string
	Quantity int
}

// BoloItem is a validated bolo10 cart line.
type BoloItem struct {
	Batter    string
	FillingID string
	Topper    TopperTier
	Quantity  int
}

// OrderItem is the tagged union over the two product kinds. Exactly one of
// Vulcao or Bolo is set, matching Kind.
type OrderItem struct {
	Kind   ItemKind
	Vulcao *VulcaoItem
	Bolo   *BoloItem
}

// Quantity returns the line quantity regardless of kind.
func (i OrderItem) Quantity() int {
	switch i.Kind {
	case ItemKindVulcao:
		if i.Vulcao != nil {
			return i.Vulcao.Quantity
		}
	case ItemKindBolo10:
		if i.Bolo != nil {
			return i.Bolo.Quantity
		}
	}
	return 0
}

// InferItemKind decides an item's kind from the set of fields it carries.
// Flavor or addons imply vulcao; filling or topper imply bolo10. When both
// or neither side is present the shape is ambiguous and the item keeps
// ItemKindUnknown, which always fails validation rather than guessing.
func InferItemKind(hasFlavor, hasAddons, hasFilling, hasTopper bool) ItemKind {
	vulcaoShape := hasFlavor || hasAddons
	boloShape := hasFilling || hasTopper
	switch {
	case vulcaoShape && !boloShape:
		return ItemKindVulcao
	case boloShape && !vulcaoShape:
		return ItemKindBolo10
	default:
		return ItemKindUnknown
	}
}

// OrderRequest is a fully validated order submission. CustomerName and
// Address are empty when absent; Address is always empty for pickup.
type OrderRequest struct {
	Items          []OrderItem
	CustomerName   string
	DeliveryMethod DeliveryMethod
	Address        string
	PaymentMethod  PaymentMethod
}

// Totals is the priced outcome of an order, in integer cents.
type Totals struct {
	SubtotalCents int64 `json:"subtotalCents"`
	DeliveryCents int64 `json:"deliveryCents"`
	TotalCents    int64 `json:"totalCents"`
}

// Order is the accepted order handed to the repository for persistence.
type Order struct {
	Code           string
	Items          []OrderItem
	CustomerName   string
	DeliveryMethod DeliveryMethod
	Address        string
	PaymentMethod  PaymentMethod
	Totals         Totals
}

// CreatedOrder echoes the persisted record.
type CreatedOrder struct {
	Code       string
	TotalCents int64
	CreatedAt  time.Time
}
