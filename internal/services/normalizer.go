package services

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/premiun-cakes/api/internal/domain"
	"github.com/premiun-cakes/api/internal/platform/textutil"
)

// ErrNilAliasIndex indicates a normalizer constructed without a catalog
// alias index.
var ErrNilAliasIndex = errors.New("normalizer: alias index is required")

// cardSpellings maps the long card spellings onto the single canonical
// card method before alias-free folding would leave them unrecognized.
var cardSpellings = map[string]string{
	"cartao de credito": string(domain.PaymentCard),
	"cartao de debito":  string(domain.PaymentCard),
	"credito":           string(domain.PaymentCard),
	"debito":            string(domain.PaymentCard),
}

// Normalizer turns raw submissions into canonical form without judging
// them. Unknown spellings survive folded so the validator can reject them
// with the offending text intact.
type Normalizer struct {
	aliases *domain.AliasIndex
}

// NewNormalizer builds a normalizer over the catalog alias index.
func NewNormalizer(aliases *domain.AliasIndex) (*Normalizer, error) {
	if aliases == nil {
		return nil, ErrNilAliasIndex
	}
	return &Normalizer{aliases: aliases}, nil
}

// NormalizeRequest cleans every field of the submission. It never fails;
// anything it cannot make sense of is carried through for validation.
func (n *Normalizer) NormalizeRequest(raw RawOrderRequest) NormalizedRequest {
	req := NormalizedRequest{
		// Length limits are enforced by the validator, not clipped away here;
		// clipping happens again at the render boundary.
		CustomerName:   textutil.Sanitize(raw.CustomerName, 0),
		DeliveryMethod: textutil.Fold(raw.DeliveryMethod),
		Address:        textutil.Sanitize(raw.Address, 0),
		PaymentMethod:  normalizePayment(raw.PaymentMethod),
	}

	// Pickup orders never carry an address, whatever the client sent.
	if req.DeliveryMethod == string(domain.DeliveryPickup) {
		req.Address = ""
	}

	if len(raw.Items) > 0 {
		req.Items = make([]NormalizedItem, 0, len(raw.Items))
		for _, item := range raw.Items {
			req.Items = append(req.Items, n.normalizeItem(item))
		}
	}
	return req
}

func normalizePayment(raw string) string {
	folded := textutil.Fold(raw)
	if canonical, ok := cardSpellings[folded]; ok {
		return canonical
	}
	return folded
}

func (n *Normalizer) normalizeItem(raw RawOrderItem) NormalizedItem {
	item := NormalizedItem{
		Quantity: coerceQuantity(raw.Quantity),
	}

	if strings.TrimSpace(raw.FlavorID) != "" {
		item.FlavorID = n.aliases.Flavor(raw.FlavorID)
	}
	if strings.TrimSpace(raw.Batter) != "" {
		item.Batter = n.aliases.Batter(raw.Batter)
	}
	if strings.TrimSpace(raw.FillingID) != "" {
		item.FillingID = n.aliases.Filling(raw.FillingID)
	}
	if strings.TrimSpace(raw.Topper) != "" {
		item.Topper = n.aliases.Topper(raw.Topper)
	}
	if raw.Addons != nil {
		item.Addons = n.normalizeAddons(raw.Addons)
	}

	item.Kind = resolveKind(raw.Kind, item)
	return item
}

// normalizeAddons resolves each addon and drops repeats, keeping the first
// occurrence's position. An explicitly empty list stays an empty slice so
// kind inference still sees the vulcao shape.
func (n *Normalizer) normalizeAddons(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, entry := range raw {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		id := n.aliases.Addon(entry)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// resolveKind honors a recognized explicit kind; shape inference only runs
// when no discriminator was sent at all. An explicit but unrecognized kind
// stays unknown so validation rejects it instead of guessing.
func resolveKind(rawKind string, item NormalizedItem) domain.ItemKind {
	switch folded := textutil.Fold(rawKind); folded {
	case string(domain.ItemKindVulcao):
		return domain.ItemKindVulcao
	case string(domain.ItemKindBolo10), "bolo 10":
		return domain.ItemKindBolo10
	case "":
	default:
		return domain.ItemKindUnknown
	}
	return domain.InferItemKind(
		item.FlavorID != "",
		item.Addons != nil,
		item.FillingID != "",
		item.Topper != "",
	)
}

// coerceQuantity accepts numbers and numeric strings, floors fractions and
// clamps into the allowed range. Anything unintelligible becomes 1.
func coerceQuantity(raw json.RawMessage) int {
	if len(raw) == 0 {
		return domain.MinQuantity
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err != nil {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return domain.MinQuantity
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			return domain.MinQuantity
		}
		num = parsed
	}

	if math.IsNaN(num) || math.IsInf(num, 0) {
		return domain.MinQuantity
	}
	qty := int(math.Floor(num))
	if qty < domain.MinQuantity {
		return domain.MinQuantity
	}
	if qty > domain.MaxQuantity {
		return domain.MaxQuantity
	}
	return qty
}
