// Package pricing derives the discount, GST and final price of a
// subscription plan and edits its feature lists.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/sorenmh/homeservices-admin/internal/models"
)

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
)

// round2 rounds to cents with halves going up, so -2.5 cents becomes -2
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Mul(hundred).Add(half).Floor().Div(hundred)
}

// Round2 rounds x to two decimals, halves rounding up
func Round2(x float64) float64 {
	return round2(decimal.NewFromFloat(x)).InexactFloat64()
}

// Discount returns the discount of price against originalPrice in percent,
// or nil unless both are positive
func Discount(originalPrice, price float64) *float64 {
	if originalPrice <= 0 || price <= 0 {
		return nil
	}
	orig := decimal.NewFromFloat(originalPrice)
	pct := orig.Sub(decimal.NewFromFloat(price)).Div(orig).Mul(hundred)
	v := round2(pct).InexactFloat64()
	return &v
}

// GST returns the tax on price and the price including it. ok is false when
// either input is negative.
func GST(price, gstPercentage float64) (gstAmount, finalPrice float64, ok bool) {
	if price < 0 || gstPercentage < 0 {
		return 0, 0, false
	}
	p := decimal.NewFromFloat(price)
	amount := round2(p.Mul(decimal.NewFromFloat(gstPercentage)).Div(hundred))
	return amount.InexactFloat64(), p.Add(amount).InexactFloat64(), true
}

// Recalculate refreshes the derived fields of plan from its price fields.
// Derived values are left as they are when GST cannot be computed.
func Recalculate(plan *models.SubscriptionPlan) {
	plan.DiscountPercentage = Discount(plan.OriginalPrice, plan.Price)
	if amount, final, ok := GST(plan.Price, plan.GSTPercentage); ok {
		plan.GSTAmount = amount
		plan.FinalPrice = final
	}
}

// Quote is a derived-price preview
type Quote struct {
	OriginalPrice      float64  `json:"originalPrice" yaml:"originalPrice"`
	Price              float64  `json:"price" yaml:"price"`
	DiscountPercentage *float64 `json:"discountPercentage" yaml:"discountPercentage"`
	GSTPercentage      float64  `json:"gstPercentage" yaml:"gstPercentage"`
	GSTAmount          float64  `json:"gstAmount" yaml:"gstAmount"`
	FinalPrice         float64  `json:"finalPrice" yaml:"finalPrice"`
}

// Preview computes a Quote without touching any plan
func Preview(originalPrice, price, gstPercentage float64) Quote {
	plan := models.SubscriptionPlan{
		OriginalPrice: originalPrice,
		Price:         price,
		GSTPercentage: gstPercentage,
	}
	Recalculate(&plan)
	return Quote{
		OriginalPrice:      plan.OriginalPrice,
		Price:              plan.Price,
		DiscountPercentage: plan.DiscountPercentage,
		GSTPercentage:      plan.GSTPercentage,
		GSTAmount:          plan.GSTAmount,
		FinalPrice:         plan.FinalPrice,
	}
}
