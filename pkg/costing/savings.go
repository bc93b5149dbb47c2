package costing

import (
	"sort"

	"github.com/costwatch/ec2cost/internal/models"
)

// FindSavingsOpportunities scans a cost summary for instance types where
// switching on-demand instances to a discounted model would lower the
// bill. It is a heuristic recommender: commitment terms, upfront
// payments and spot interruption risk are out of scope.
func FindSavingsOpportunities(summary *models.CostSummary) []models.SavingsOpportunity {
	var opportunities []models.SavingsOpportunity

	for instanceType, cost := range summary.InstanceCosts {
		// More on-demand than reserved instances: reserved capacity
		// is underused for this type.
		if cost.OnDemandCount > 0 && cost.OnDemandCount > cost.ReservedCount {
			if opp, ok := opportunity(instanceType, cost, models.ModelReserved); ok {
				opportunities = append(opportunities, opp)
			}
		}

		// Spot already in use for this type alongside on-demand:
		// the workload evidently tolerates interruption.
		if cost.OnDemandCount > 0 && cost.SpotCount > 0 {
			if opp, ok := opportunity(instanceType, cost, models.ModelSpot); ok {
				opportunities = append(opportunities, opp)
			}
		}
	}

	// Largest savings first; type name breaks ties so the output is
	// stable run to run.
	sort.Slice(opportunities, func(i, j int) bool {
		if !opportunities[i].MonthlySavings.Equal(opportunities[j].MonthlySavings) {
			return opportunities[i].MonthlySavings.GreaterThan(opportunities[j].MonthlySavings)
		}
		if opportunities[i].InstanceType != opportunities[j].InstanceType {
			return opportunities[i].InstanceType < opportunities[j].InstanceType
		}
		return opportunities[i].RecommendedModel < opportunities[j].RecommendedModel
	})

	return opportunities
}

// opportunity builds a single recommendation, applying the recommended
// model's flat discount to the type's current monthly cost. Emitted
// only when the resulting saving is strictly positive.
func opportunity(instanceType string, cost models.InstanceTypeCost, recommended models.PricingModel) (models.SavingsOpportunity, bool) {
	current := cost.MonthlyCost
	potential := EffectiveRate(current, recommended)
	savings := current.Sub(potential)

	if !savings.IsPositive() {
		return models.SavingsOpportunity{}, false
	}

	return models.SavingsOpportunity{
		InstanceType:         instanceType,
		CurrentModel:         models.ModelOnDemand,
		RecommendedModel:     recommended,
		InstanceCount:        cost.OnDemandCount,
		CurrentMonthlyCost:   current,
		PotentialMonthlyCost: potential,
		MonthlySavings:       savings,
		AnnualSavings:        savings.Mul(MonthsPerYear),
		SavingsPercentage:    DiscountPercent(recommended),
	}, true
}
