package handlers

import (
	"fmt"
	"net/http"

	"github.com/premiun-cakes/api/internal/domain"
)

// CatalogHandler serves the storefront catalog so clients render options
// and prices from the same data the pipeline validates against.
type CatalogHandler struct {
	catalog   *domain.Catalog
	feePolicy domain.DeliveryFeePolicy
}

// NewCatalogHandler builds the handler.
func NewCatalogHandler(catalog *domain.Catalog, feePolicy domain.DeliveryFeePolicy) (*CatalogHandler, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog handler: catalog is required")
	}
	if feePolicy == nil {
		return nil, fmt.Errorf("catalog handler: fee policy is required")
	}
	return &CatalogHandler{catalog: catalog, feePolicy: feePolicy}, nil
}

type catalogResponse struct {
	Masses           []domain.Batter `json:"masses"`
	Vulcao           vulcaoSection   `json:"vulcao"`
	Bolo10           boloSection     `json:"bolo10"`
	DeliveryFeeCents int64           `json:"deliveryFeeCents"`
}

type vulcaoSection struct {
	BasePriceCents int64           `json:"basePriceCents"`
	Flavors        []domain.Flavor `json:"flavors"`
	Addons         []domain.Addon  `json:"addons"`
}

type boloSection struct {
	BasePriceCents int64            `json:"basePriceCents"`
	Toppers        []domain.Topper  `json:"topo"`
	Fillings       []domain.Filling `json:"fillings"`
}

// Get handles GET /api/v1/catalog.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	quote := h.feePolicy.Quote()
	fee := quote.FeeCents
	if quote.Waived {
		fee = 0
	}
	writeJSON(w, http.StatusOK, catalogResponse{
		Masses: h.catalog.Batters,
		Vulcao: vulcaoSection{
			BasePriceCents: h.catalog.VulcaoBasePriceCents,
			Flavors:        h.catalog.Flavors,
			Addons:         h.catalog.Addons,
		},
		Bolo10: boloSection{
			BasePriceCents: h.catalog.Bolo10BasePriceCents,
			Toppers:        h.catalog.Toppers,
			Fillings:       h.catalog.Fillings,
		},
		DeliveryFeeCents: fee,
	})
}
