package costing

import (
	"github.com/shopspring/decimal"

	"github.com/costwatch/ec2cost/internal/models"
)

// Billing constants. Discounts are flat business assumptions carried
// over from the pricing model definitions, not computed ratios.
var (
	// HoursPerMonth is the fixed monthly hour count used for all
	// cost projections (365 days / 12 months * 24 hours).
	HoursPerMonth = decimal.NewFromInt(730)

	// MonthsPerYear converts monthly cost to annual cost.
	MonthsPerYear = decimal.NewFromInt(12)

	// ReservedFactor is the reserved rate multiplier (40% discount).
	ReservedFactor = decimal.RequireFromString("0.6")

	// SpotFactor is the spot rate multiplier (30% discount).
	SpotFactor = decimal.RequireFromString("0.7")
)

// EffectiveRate returns the hourly rate an instance actually pays under
// the given pricing model. On-demand rates pass through unchanged;
// reserved and spot apply their flat discounts. Any model outside the
// three canonical ones is priced as on-demand.
func EffectiveRate(base decimal.Decimal, model models.PricingModel) decimal.Decimal {
	switch model {
	case models.ModelReserved:
		return base.Mul(ReservedFactor)
	case models.ModelSpot:
		return base.Mul(SpotFactor)
	default:
		return base
	}
}

// DiscountPercent returns the fixed discount of a pricing model
// relative to on-demand, in whole percent.
func DiscountPercent(model models.PricingModel) int {
	switch model {
	case models.ModelReserved:
		return 40
	case models.ModelSpot:
		return 30
	default:
		return 0
	}
}
