package domain

// Batter is a cake batter option shared by both product kinds.
type Batter struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Flavor is a vulcao cake flavor.
type Flavor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Addon is a priced vulcao extra. A zero price is valid.
type Addon struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
}

// Filling is a bolo10 filling option.
type Filling struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Topper is a bolo10 topper tier with its fixed surcharge.
type Topper struct {
	Tier           TopperTier `json:"tier"`
	Label          string     `json:"label"`
	SurchargeCents int64      `json:"surchargeCents"`
}

// Catalog holds the full product reference data. It is built once at process
// start and never mutated afterwards; lookups report absence instead of
// panicking so callers decide whether an unknown id is fatal.
type Catalog struct {
	Batters              []Batter
	VulcaoBasePriceCents int64
	Flavors              []Flavor
	Addons               []Addon
	Bolo10BasePriceCents int64
	Fillings             []Filling
	Toppers              []Topper

	battersByID   map[string]Batter
	flavorsByID   map[string]Flavor
	addonsByID    map[string]Addon
	fillingsByID  map[string]Filling
	toppersByTier map[TopperTier]Topper

	aliases *AliasIndex
}

// NewCatalog constructs the storefront catalog with its lookup tables and
// alias index.
func NewCatalog() *Catalog {
	c := &Catalog{
		Batters: []Batter{
			{ID: "branca", Label: "Massa branca"},
			{ID: "chocolate", Label: "Massa chocolate"},
			{ID: "morango", Label: "Massa morango"},
		},
		VulcaoBasePriceCents: 1499,
		Flavors: []Flavor{
			{ID: "chocolate", Name: "Vulcão Chocolate"},
			{ID: "nesquik", Name: "Vulcão Nesquik (morango)"},
			{ID: "ninho", Name: "Vulcão Leite Ninho"},
			{ID: "meio-ninho-choco", Name: "Vulcão Metade Ninho + Chocolate"},
			{ID: "meio-nesquik-choco", Name: "Vulcão Metade Nesquik + Chocolate"},
			{ID: "maracuja", Name: "Vulcão Maracujá"},
		},
		Addons: []Addon{
			{ID: "kitkat", Name: "KitKat", PriceCents: 700},
			{ID: "morango_fresco", Name: "Morango fresco", PriceCents: 500},
			{ID: "brigadeiros", Name: "Brigadeiros", PriceCents: 550},
			{ID: "granulado", Name: "Granulado", PriceCents: 0},
		},
		Bolo10BasePriceCents: 6000,
		Fillings: []Filling{
			{ID: "maracuja", Name: "Maracujá"},
			{ID: "ninho", Name: "Leite Ninho"},
			{ID: "quatro-leites", Name: "4 Leites"},
			{ID: "brigadeiro", Name: "Brigadeiro"},
			{ID: "prestigio", Name: "Prestígio"},
			{ID: "chocolate", Name: "Chocolate"},
			{ID: "morango", Name: "Morango"},
			{ID: "abacaxi", Name: "Abacaxi"},
		},
		Toppers: []Topper{
			{Tier: TopperNone, Label: "Sem topo", SurchargeCents: 0},
			{Tier: TopperSimple, Label: "Topo simples", SurchargeCents: 1500},
			{Tier: TopperCustom, Label: "Topo personalizado", SurchargeCents: 3000},
		},
	}

	c.battersByID = make(map[string]Batter, len(c.Batters))
	for _, batter := range c.Batters {
		c.battersByID[batter.ID] = batter
	}
	c.flavorsByID = make(map[string]Flavor, len(c.Flavors))
	for _, flavor := range c.Flavors {
		c.flavorsByID[flavor.ID] = flavor
	}
	c.addonsByID = make(map[string]Addon, len(c.Addons))
	for _, addon := range c.Addons {
		c.addonsByID[addon.ID] = addon
	}
	c.fillingsByID = make(map[string]Filling, len(c.Fillings))
	for _, filling := range c.Fillings {
		c.fillingsByID[filling.ID] = filling
	}
	c.toppersByTier = make(map[TopperTier]Topper, len(c.Toppers))
	for _, topper := range c.Toppers {
		c.toppersByTier[topper.Tier] = topper
	}

	c.aliases = buildAliasIndex(c)
	return c
}

// BatterByID looks up a batter by canonical id.
func (c *Catalog) BatterByID(id string) (Batter, bool) {
	batter, ok := c.battersByID[id]
	return batter, ok
}

// FlavorByID looks up a vulcao flavor by canonical id.
func (c *Catalog) FlavorByID(id string) (Flavor, bool) {
	flavor, ok := c.flavorsByID[id]
	return flavor, ok
}

// AddonByID looks up a vulcao addon by canonical id.
func (c *Catalog) AddonByID(id string) (Addon, bool) {
	addon, ok := c.addonsByID[id]
	return addon, ok
}

// FillingByID looks up a bolo10 filling by canonical id.
func (c *Catalog) FillingByID(id string) (Filling, bool) {
	filling, ok := c.fillingsByID[id]
	return filling, ok
}

// TopperByTier looks up a bolo10 topper tier.
func (c *Catalog) TopperByTier(tier TopperTier) (Topper, bool) {
	topper, ok := c.toppersByTier[tier]
	return topper, ok
}

// Aliases returns the immutable alias lookup built from this catalog.
func (c *Catalog) Aliases() *AliasIndex {
	return c.aliases
}

// DeliveryQuote is the delivery fee configuration observed at pricing time.
type DeliveryQuote struct {
	FeeCents int64
	Waived   bool
}

// DeliveryFeePolicy yields the current delivery fee configuration. The policy
// is consulted on every pricing call so a fee change does not require a
// restart.
type DeliveryFeePolicy interface {
	Quote() DeliveryQuote
}

// DeliveryFeePolicyFunc adapts ordinary functions to DeliveryFeePolicy.
type DeliveryFeePolicyFunc func() DeliveryQuote

// Quote returns the current delivery fee configuration.
func (f DeliveryFeePolicyFunc) Quote() DeliveryQuote {
	return f()
}
