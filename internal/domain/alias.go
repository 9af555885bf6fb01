package domain

import (
	"strings"

	"github.com/premiun-cakes/api/internal/platform/textutil"
)

// flavorPrefix is the leading word shared by every vulcao flavor name; it is
// stripped to accept "Chocolate" for "Vulcão Chocolate".
const flavorPrefix = "vulcao"

// AliasIndex resolves the accepted spellings of catalog entries (canonical
// id, display name, and for flavors the prefix-stripped display name) to
// their canonical ids. Comparisons happen on folded text, so case, accents
// and stray whitespace never matter. The index is built once from the
// catalog and is read-only afterwards.
type AliasIndex struct {
	batters  map[string]string
	flavors  map[string]string
	addons   map[string]string
	fillings map[string]string
	toppers  map[string]TopperTier
}

func buildAliasIndex(c *Catalog) *AliasIndex {
	index := &AliasIndex{
		batters:  make(map[string]string),
		flavors:  make(map[string]string),
		addons:   make(map[string]string),
		fillings: make(map[string]string),
		toppers:  make(map[string]TopperTier),
	}

	for _, batter := range c.Batters {
		index.batters[textutil.Fold(batter.ID)] = batter.ID
		index.batters[textutil.Fold(batter.Label)] = batter.ID
	}
	for _, flavor := range c.Flavors {
		index.flavors[textutil.Fold(flavor.ID)] = flavor.ID
		folded := textutil.Fold(flavor.Name)
		index.flavors[folded] = flavor.ID
		if stripped := strings.TrimSpace(strings.TrimPrefix(folded, flavorPrefix)); stripped != "" && stripped != folded {
			index.flavors[stripped] = flavor.ID
		}
	}
	for _, addon := range c.Addons {
		index.addons[textutil.Fold(addon.ID)] = addon.ID
		index.addons[textutil.Fold(addon.Name)] = addon.ID
	}
	for _, filling := range c.Fillings {
		index.fillings[textutil.Fold(filling.ID)] = filling.ID
		index.fillings[textutil.Fold(filling.Name)] = filling.ID
	}
	for _, topper := range c.Toppers {
		index.toppers[textutil.Fold(string(topper.Tier))] = topper.Tier
		index.toppers[textutil.Fold(topper.Label)] = topper.Tier
	}

	return index
}

// resolve folds the input and returns the canonical id when known; otherwise
// the folded input is passed through for downstream validation to reject.
func resolve(table map[string]string, raw string) string {
	folded := textutil.Fold(raw)
	if id, ok := table[folded]; ok {
		return id
	}
	return folded
}

// Batter resolves a batter spelling to its canonical id.
func (a *AliasIndex) Batter(raw string) string { return resolve(a.batters, raw) }

// Flavor resolves a vulcao flavor spelling to its canonical id.
func (a *AliasIndex) Flavor(raw string) string { return resolve(a.flavors, raw) }

// Addon resolves a vulcao addon spelling to its canonical id.
func (a *AliasIndex) Addon(raw string) string { return resolve(a.addons, raw) }

// Filling resolves a bolo10 filling spelling to its canonical id.
func (a *AliasIndex) Filling(raw string) string { return resolve(a.fillings, raw) }

// Topper resolves a topper spelling to its canonical tier; unrecognized text
// passes through folded.
func (a *AliasIndex) Topper(raw string) string {
	folded := textutil.Fold(raw)
	if tier, ok := a.toppers[folded]; ok {
		return string(tier)
	}
	return folded
}
