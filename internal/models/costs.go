package models

import "github.com/shopspring/decimal"

// InstanceTypeCost holds the aggregated cost of all running instances
// of a single type, broken down by pricing model. All monetary fields
// are exact decimals; conversion to float happens only at display time.
type InstanceTypeCost struct {
	InstanceType   string
	TotalInstances int
	OnDemandCount  int
	ReservedCount  int
	SpotCount      int

	// HourlyRate is the resolved on-demand rate for this type.
	HourlyRate decimal.Decimal

	MonthlyCost decimal.Decimal
	AnnualCost  decimal.Decimal

	// OnDemandEquivalent is what the type would cost per month if
	// every instance ran on-demand.
	OnDemandEquivalent decimal.Decimal

	// Savings is OnDemandEquivalent minus MonthlyCost.
	Savings decimal.Decimal
}

// CostSummary is the fleet-wide cost report produced by the aggregator.
// It is built once per invocation and read-only afterwards.
type CostSummary struct {
	InstanceCosts map[string]InstanceTypeCost

	TotalInstances    int
	TotalMonthlyCost  decimal.Decimal
	TotalOnDemandCost decimal.Decimal
	TotalReservedCost decimal.Decimal
	TotalSpotCost     decimal.Decimal
	MonthlySavings    decimal.Decimal
}

// NewCostSummary returns an empty summary with zero-valued totals.
func NewCostSummary() *CostSummary {
	return &CostSummary{
		InstanceCosts:     make(map[string]InstanceTypeCost),
		TotalMonthlyCost:  decimal.Zero,
		TotalOnDemandCost: decimal.Zero,
		TotalReservedCost: decimal.Zero,
		TotalSpotCost:     decimal.Zero,
		MonthlySavings:    decimal.Zero,
	}
}

// InstanceCost is the per-instance cost row used by the detail table
// and the instances CSV export.
type InstanceCost struct {
	InstanceID   string
	Name         string
	InstanceType string
	Model        PricingModel
	State        string
	Region       string
	HourlyRate   decimal.Decimal
	MonthlyCost  decimal.Decimal
	AnnualCost   decimal.Decimal
}

// SavingsOpportunity describes one recommended pricing model switch
// for an instance type.
type SavingsOpportunity struct {
	InstanceType     string
	CurrentModel     PricingModel
	RecommendedModel PricingModel

	// InstanceCount is the number of on-demand instances the
	// recommendation applies to.
	InstanceCount int

	CurrentMonthlyCost   decimal.Decimal
	PotentialMonthlyCost decimal.Decimal
	MonthlySavings       decimal.Decimal
	AnnualSavings        decimal.Decimal

	// SavingsPercentage is the fixed discount of the recommended
	// model (40 for reserved, 30 for spot).
	SavingsPercentage int
}
