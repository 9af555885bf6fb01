package services

import (
	"fmt"
	"strings"

	"github.com/premiun-cakes/api/internal/domain"
	"github.com/premiun-cakes/api/internal/platform/textutil"
)

const (
	messageHeader    = "Olá! Quero fazer um pedido na Premiun cakes jc 🍰"
	messageFooter    = "Atendimento: finais de semana"
	topperNote       = "Obs.: Tema do topo (simples/personalizado) a combinar aqui no WhatsApp."
	addressFallback  = "(informar endereço)"
	labelPickup      = "Retirada"
	labelDelivery    = "Entrega"
	labelPaymentPix  = "PIX"
	labelPaymentCash = "Dinheiro"
	labelPaymentCard = "Cartão (débito/crédito)"
)

// MessageRenderer turns an accepted order into the WhatsApp summary text.
// Rendering is deterministic: the same order always yields the same bytes.
type MessageRenderer struct {
	catalog       *domain.Catalog
	pickupAddress string
}

// NewMessageRenderer builds a renderer over the catalog and the fixed
// pickup location.
func NewMessageRenderer(catalog *domain.Catalog, pickupAddress string) (*MessageRenderer, error) {
	if catalog == nil {
		return nil, fmt.Errorf("message renderer: catalog is required")
	}
	if strings.TrimSpace(pickupAddress) == "" {
		return nil, fmt.Errorf("message renderer: pickup address is required")
	}
	return &MessageRenderer{catalog: catalog, pickupAddress: pickupAddress}, nil
}

// Render produces the order summary. Name and address are re-sanitized at
// the boundary even though the pipeline already cleaned them.
func (r *MessageRenderer) Render(order domain.Order) string {
	var b strings.Builder

	b.WriteString(messageHeader)
	b.WriteString("\n\nPedido: ")
	b.WriteString(order.Code)

	if name := textutil.Sanitize(order.CustomerName, domain.MaxCustomerNameLen); name != "" {
		b.WriteString("\nCliente: ")
		b.WriteString(name)
	}

	b.WriteString("\n\nItens:\n")
	for i, item := range order.Items {
		if i > 0 {
			b.WriteString("\n\n")
		}
		r.writeItem(&b, i+1, item)
	}

	b.WriteString("\n\n")
	r.writeDelivery(&b, order)
	b.WriteString("\nPagamento: ")
	b.WriteString(paymentLabel(order.PaymentMethod))

	b.WriteString("\n\nSubtotal: ")
	b.WriteString(domain.FormatBRL(order.Totals.SubtotalCents))
	b.WriteString("\nEntrega: ")
	b.WriteString(domain.FormatBRL(order.Totals.DeliveryCents))
	b.WriteString("\nTotal: ")
	b.WriteString(domain.FormatBRL(order.Totals.TotalCents))

	b.WriteString("\n\n")
	b.WriteString(messageFooter)

	if hasPaidTopper(order.Items) {
		b.WriteString("\n\n")
		b.WriteString(topperNote)
	}

	return b.String()
}

func (r *MessageRenderer) writeItem(b *strings.Builder, position int, item domain.OrderItem) {
	switch {
	case item.Vulcao != nil:
		fmt.Fprintf(b, "%d) %s\n", position, r.flavorName(item.Vulcao.FlavorID))
		fmt.Fprintf(b, "- Massa: %s\n", r.batterLabel(item.Vulcao.Batter))
		fmt.Fprintf(b, "- Adicionais: %s\n", r.addonsLine(item.Vulcao.Addons))
		fmt.Fprintf(b, "- Qtd: %d", item.Vulcao.Quantity)
	case item.Bolo != nil:
		fmt.Fprintf(b, "%d) Bolo 10 pessoas\n", position)
		fmt.Fprintf(b, "- Massa: %s\n", r.batterLabel(item.Bolo.Batter))
		fmt.Fprintf(b, "- Recheio: %s\n", r.fillingName(item.Bolo.FillingID))
		fmt.Fprintf(b, "- Topo: %s\n", topperMessageLabel(item.Bolo.Topper))
		fmt.Fprintf(b, "- Qtd: %d", item.Bolo.Quantity)
	}
}

func (r *MessageRenderer) writeDelivery(b *strings.Builder, order domain.Order) {
	if order.DeliveryMethod == domain.DeliveryDeliver {
		b.WriteString("Entrega/Retirada: ")
		b.WriteString(labelDelivery)
		b.WriteString("\nEndereço: ")
		if address := textutil.Sanitize(order.Address, domain.MaxAddressLen); address != "" {
			b.WriteString(address)
		} else {
			b.WriteString(addressFallback)
		}
		return
	}
	b.WriteString("Entrega/Retirada: ")
	b.WriteString(labelPickup)
	b.WriteString("\nLocal: ")
	b.WriteString(r.pickupAddress)
}

func (r *MessageRenderer) flavorName(id string) string {
	if flavor, ok := r.catalog.FlavorByID(id); ok {
		return flavor.Name
	}
	return "Mini Bolo Vulcão"
}

func (r *MessageRenderer) batterLabel(id string) string {
	if batter, ok := r.catalog.BatterByID(id); ok {
		return batter.Label
	}
	return id
}

func (r *MessageRenderer) fillingName(id string) string {
	if filling, ok := r.catalog.FillingByID(id); ok {
		return filling.Name
	}
	return id
}

// topperMessageLabel differs from the catalog label: paid tiers remind the
// customer the theme is arranged over chat.
func topperMessageLabel(tier domain.TopperTier) string {
	switch tier {
	case domain.TopperSimple:
		return "Topo simples (tema no WhatsApp)"
	case domain.TopperCustom:
		return "Topo personalizado (tema no WhatsApp)"
	default:
		return "Sem topo"
	}
}

func (r *MessageRenderer) addonsLine(ids []string) string {
	if len(ids) == 0 {
		return "Nenhum"
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if addon, ok := r.catalog.AddonByID(id); ok {
			names = append(names, addon.Name)
			continue
		}
		names = append(names, id)
	}
	return strings.Join(names, ", ")
}

func paymentLabel(method domain.PaymentMethod) string {
	switch method {
	case domain.PaymentPix:
		return labelPaymentPix
	case domain.PaymentCash:
		return labelPaymentCash
	case domain.PaymentCard:
		return labelPaymentCard
	default:
		return string(method)
	}
}

func hasPaidTopper(items []domain.OrderItem) bool {
	for _, item := range items {
		if item.Bolo != nil && item.Bolo.Topper != domain.TopperNone {
			return true
		}
	}
	return false
}
