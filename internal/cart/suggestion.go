package cart

import (
	"github.com/svetline/svetline-backend/pkg/db/models"
	"github.com/svetline/svetline-backend/pkg/types"
)

// closeMatchBand is how far below the needed amount a product may sit and
// still count as a close match, in rubles.
const closeMatchBand = 20

// maxSuggestions caps how many products a suggestion carries.
const maxSuggestions = 3

// Suggestion is the answer to "what should I add to reach a round total".
type Suggestion struct {
	Needed      types.Rubles     `json:"needed"`
	Suggestions []models.Product `json:"suggestions"`
}

// SuggestionToRoundSum finds products that top the cart up toward targetSum.
// The catalog snapshot is searched in three tiers and the first non-empty
// tier wins: exact price match, then prices within closeMatchBand below the
// needed amount, then any product not exceeding it. Results keep catalog
// order and are capped at maxSuggestions. A nil result means the cart
// already meets the target or nothing in the catalog is cheap enough.
func (c *Cart) SuggestionToRoundSum(targetSum types.Rubles, catalog []models.Product) *Suggestion {
	needed := targetSum - c.TotalPrice()
	if needed <= 0 {
		return nil
	}

	exact := collect(catalog, func(price types.Rubles) bool {
		return price == needed
	})
	if len(exact) > 0 {
		return &Suggestion{Needed: needed, Suggestions: exact}
	}

	close := collect(catalog, func(price types.Rubles) bool {
		return price <= needed && needed-price <= closeMatchBand
	})
	if len(close) > 0 {
		return &Suggestion{Needed: needed, Suggestions: close}
	}

	fallback := collect(catalog, func(price types.Rubles) bool {
		return price <= needed
	})
	if len(fallback) > 0 {
		return &Suggestion{Needed: needed, Suggestions: fallback}
	}
	return nil
}

func collect(catalog []models.Product, match func(price types.Rubles) bool) []models.Product {
	var out []models.Product
	for _, product := range catalog {
		if !match(types.Rubles(product.PriceRub)) {
			continue
		}
		out = append(out, product)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
