package catalog

import (
	"strings"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"github.com/skillcart/skillcart/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// ApplyPricing fills the missing piece of the (original_price,
// discount_percentage, price) triple before a product write. Exactly one
// derivation applies:
//
//  1. original price and discount both present: price is derived.
//  2. original price and price present: discount is derived, truncated
//     toward zero.
//  3. no original price: discount resets to zero whatever was stored.
//
// A zero price counts as unset, so an original price alone derives
// nothing.
func ApplyPricing(p *domain.Product) {
	if p.OriginalPrice == nil {
		p.DiscountPercentage = 0
		return
	}
	orig := *p.OriginalPrice
	if orig.IsZero() {
		p.DiscountPercentage = 0
		return
	}
	if p.DiscountPercentage > 0 {
		disc := decimal.NewFromInt(int64(p.DiscountPercentage))
		p.Price = orig.Sub(orig.Mul(disc).Div(hundred))
		return
	}
	if p.Price.IsZero() {
		p.DiscountPercentage = 0
		return
	}
	// Inverse direction, integer-truncated.
	ratio := orig.Sub(p.Price).Div(orig).Mul(hundred)
	p.DiscountPercentage = int(ratio.IntPart())
	if p.DiscountPercentage < 0 {
		p.DiscountPercentage = 0
	}
}

// FillSlug derives a URL-safe slug from the name when none was supplied.
func FillSlug(name, current string) string {
	if strings.TrimSpace(current) != "" {
		return current
	}
	return slug.Make(name)
}
