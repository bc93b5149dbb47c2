package costing

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/costwatch/ec2cost/internal/models"
)

// Aggregate groups running instances by type and pricing model and
// computes the fleet cost summary.
//
// Instances not in the "running" state are invisible to the summary.
// Types whose on-demand rate cannot be resolved are skipped with a
// warning diagnostic; they contribute no entry and no totals. A
// resolver error aborts the aggregation and is returned as-is.
func Aggregate(ctx context.Context, instances []models.Instance, resolver PriceResolver) (*models.CostSummary, []Diagnostic, error) {
	summary := models.NewCostSummary()
	var diags []Diagnostic

	groups := groupRunningByType(instances)

	// Deterministic iteration so diagnostics and resolver calls are
	// stable across identical inputs.
	types := make([]string, 0, len(groups))
	for t := range groups {
		types = append(types, t)
	}
	sort.Strings(types)

	for _, instanceType := range types {
		group := groups[instanceType]

		rate, ok, err := resolver.OnDemandRate(ctx, instanceType)
		if err != nil {
			return nil, diags, fmt.Errorf("resolving price for %s: %w", instanceType, err)
		}
		if !ok {
			diags = append(diags, warnf(instanceType, "no on-demand price found for %s, excluding from summary", instanceType))
			continue
		}

		cost := costForType(instanceType, rate, group)

		summary.InstanceCosts[instanceType] = cost
		summary.TotalInstances += cost.TotalInstances
		summary.TotalMonthlyCost = summary.TotalMonthlyCost.Add(cost.MonthlyCost)
		summary.TotalOnDemandCost = summary.TotalOnDemandCost.Add(cost.OnDemandEquivalent)
		summary.TotalReservedCost = summary.TotalReservedCost.Add(modelMonthlyCost(rate, models.ModelReserved, cost.ReservedCount))
		summary.TotalSpotCost = summary.TotalSpotCost.Add(modelMonthlyCost(rate, models.ModelSpot, cost.SpotCount))
		summary.MonthlySavings = summary.MonthlySavings.Add(cost.Savings)
	}

	return summary, diags, nil
}

// groupRunningByType buckets the running instances of each type by
// pricing model. Non-running instances are dropped here and never
// reach the cost math.
func groupRunningByType(instances []models.Instance) map[string]map[models.PricingModel]int {
	groups := make(map[string]map[models.PricingModel]int)
	for _, inst := range instances {
		if !inst.IsRunning() {
			continue
		}
		counts, ok := groups[inst.InstanceType]
		if !ok {
			counts = make(map[models.PricingModel]int)
			groups[inst.InstanceType] = counts
		}
		counts[inst.Model]++
	}
	return groups
}

// modelMonthlyCost is count * effective hourly rate * hours per month.
func modelMonthlyCost(onDemandRate decimal.Decimal, model models.PricingModel, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return EffectiveRate(onDemandRate, model).
		Mul(HoursPerMonth).
		Mul(decimal.NewFromInt(int64(count)))
}

// costForType computes the full cost breakdown of one instance type.
func costForType(instanceType string, rate decimal.Decimal, counts map[models.PricingModel]int) models.InstanceTypeCost {
	onDemand := counts[models.ModelOnDemand]
	reserved := counts[models.ModelReserved]
	spot := counts[models.ModelSpot]
	total := onDemand + reserved + spot

	monthly := modelMonthlyCost(rate, models.ModelOnDemand, onDemand).
		Add(modelMonthlyCost(rate, models.ModelReserved, reserved)).
		Add(modelMonthlyCost(rate, models.ModelSpot, spot))

	equivalent := modelMonthlyCost(rate, models.ModelOnDemand, total)

	return models.InstanceTypeCost{
		InstanceType:       instanceType,
		TotalInstances:     total,
		OnDemandCount:      onDemand,
		ReservedCount:      reserved,
		SpotCount:          spot,
		HourlyRate:         rate,
		MonthlyCost:        monthly,
		AnnualCost:         monthly.Mul(MonthsPerYear),
		OnDemandEquivalent: equivalent,
		Savings:            equivalent.Sub(monthly),
	}
}

// InstanceCosts computes the per-instance cost rows used by the detail
// table and CSV export. Unlike the type-level summary, an instance
// whose type has no known price is kept with a zero rate so the row
// set still covers the whole running fleet.
func InstanceCosts(ctx context.Context, instances []models.Instance, resolver PriceResolver) ([]models.InstanceCost, []Diagnostic, error) {
	var rows []models.InstanceCost
	var diags []Diagnostic
	warned := make(map[string]bool)

	for _, inst := range instances {
		if !inst.IsRunning() {
			continue
		}

		rate, ok, err := resolver.OnDemandRate(ctx, inst.InstanceType)
		if err != nil {
			return nil, diags, fmt.Errorf("resolving price for %s: %w", inst.InstanceType, err)
		}
		if !ok {
			if !warned[inst.InstanceType] {
				diags = append(diags, warnf(inst.InstanceType, "no on-demand price found for %s, using zero rate", inst.InstanceType))
				warned[inst.InstanceType] = true
			}
			rate = decimal.Zero
		}

		hourly := EffectiveRate(rate, inst.Model)
		monthly := hourly.Mul(HoursPerMonth)

		rows = append(rows, models.InstanceCost{
			InstanceID:   inst.InstanceID,
			Name:         inst.Name,
			InstanceType: inst.InstanceType,
			Model:        inst.Model,
			State:        inst.State,
			Region:       inst.Region,
			HourlyRate:   hourly,
			MonthlyCost:  monthly,
			AnnualCost:   monthly.Mul(MonthsPerYear),
		})
	}

	// Canonical order, most expensive first, so every consumer (table,
	// CSV) sees the same row order regardless of input order.
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].MonthlyCost.Equal(rows[j].MonthlyCost) {
			return rows[i].MonthlyCost.GreaterThan(rows[j].MonthlyCost)
		}
		return rows[i].InstanceID < rows[j].InstanceID
	})

	return rows, diags, nil
}
