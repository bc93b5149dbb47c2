// Package export writes cost report data as CSV files. Like the
// console formatter it is a pure presentation layer: everything it
// receives is already-computed structured data.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/costwatch/ec2cost/internal/models"
	"github.com/costwatch/ec2cost/pkg/costing"
)

// defaultFilename includes the region so per-region exports written in
// the same second do not overwrite each other.
func defaultFilename(kind, region string) string {
	return fmt.Sprintf("ec2_%s_%s_%s.csv", kind, region, time.Now().Format("20060102_150405"))
}

func writeCSV(path string, header []string, records [][]string) (string, error) {
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("writing CSV header: %w", err)
	}
	if err := w.WriteAll(records); err != nil {
		return "", fmt.Errorf("writing CSV rows: %w", err)
	}
	return path, nil
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func rate(d decimal.Decimal) string {
	return "$" + d.StringFixed(4)
}

// WriteInstancesCSV exports the per-instance cost rows. An empty path
// picks a region-qualified timestamped default filename; the path
// written is returned.
func WriteInstancesCSV(path, region string, rows []models.InstanceCost) (string, error) {
	if path == "" {
		path = defaultFilename("instances", region)
	}

	header := []string{
		"instance_id", "name", "instance_type", "pricing_model",
		"state", "region", "hourly_rate", "monthly_cost", "annual_cost",
	}

	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.InstanceID,
			row.Name,
			row.InstanceType,
			row.Model.String(),
			row.State,
			row.Region,
			rate(row.HourlyRate),
			money(row.MonthlyCost),
			money(row.AnnualCost),
		})
	}

	return writeCSV(path, header, records)
}

// WriteCostsCSV exports the cost summary as one row per instance type
// and pricing model, skipping zero-count models.
func WriteCostsCSV(path, region string, summary *models.CostSummary) (string, error) {
	if path == "" {
		path = defaultFilename("costs", region)
	}

	header := []string{
		"instance_type", "pricing_model", "count",
		"hourly_rate", "monthly_cost", "annual_cost",
	}

	types := make([]string, 0, len(summary.InstanceCosts))
	for t := range summary.InstanceCosts {
		types = append(types, t)
	}
	sort.Strings(types)

	var records [][]string
	for _, t := range types {
		cost := summary.InstanceCosts[t]
		for _, group := range []struct {
			model models.PricingModel
			count int
		}{
			{models.ModelOnDemand, cost.OnDemandCount},
			{models.ModelReserved, cost.ReservedCount},
			{models.ModelSpot, cost.SpotCount},
		} {
			if group.count == 0 {
				continue
			}
			hourly := costing.EffectiveRate(cost.HourlyRate, group.model)
			monthly := hourly.Mul(costing.HoursPerMonth).Mul(decimal.NewFromInt(int64(group.count)))
			records = append(records, []string{
				cost.InstanceType,
				group.model.String(),
				fmt.Sprintf("%d", group.count),
				rate(hourly),
				money(monthly),
				money(monthly.Mul(costing.MonthsPerYear)),
			})
		}
	}

	return writeCSV(path, header, records)
}

// WriteSavingsCSV exports the savings opportunity list.
func WriteSavingsCSV(path, region string, opportunities []models.SavingsOpportunity) (string, error) {
	if path == "" {
		path = defaultFilename("savings", region)
	}

	header := []string{
		"instance_type", "current_pricing", "recommended_pricing",
		"instance_count", "current_monthly_cost", "potential_monthly_cost",
		"monthly_savings", "annual_savings", "savings_percentage",
	}

	records := make([][]string, 0, len(opportunities))
	for _, opp := range opportunities {
		records = append(records, []string{
			opp.InstanceType,
			opp.CurrentModel.String(),
			opp.RecommendedModel.String(),
			fmt.Sprintf("%d", opp.InstanceCount),
			money(opp.CurrentMonthlyCost),
			money(opp.PotentialMonthlyCost),
			money(opp.MonthlySavings),
			money(opp.AnnualSavings),
			fmt.Sprintf("%d%%", opp.SavingsPercentage),
		})
	}

	return writeCSV(path, header, records)
}
