package formatter

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/costwatch/ec2cost/internal/models"
	"github.com/costwatch/ec2cost/pkg/costing"
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	savingsColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
)

// money renders a decimal as a dollar amount with two digits and
// thousands separators. Decimal to float conversion happens only here,
// at the display boundary.
func money(d decimal.Decimal) string {
	return "$" + humanize.CommafWithDigits(d.InexactFloat64(), 2)
}

// rate renders an hourly rate with four digits.
func rate(d decimal.Decimal) string {
	return fmt.Sprintf("$%.4f", d.InexactFloat64())
}

// PrintInstancesTable prints the per-instance cost detail table.
func PrintInstancesTable(rows []models.InstanceCost, scanTime time.Time, scanDuration time.Duration) {
	if len(rows) == 0 {
		fmt.Println("No running instances found.")
		return
	}

	// Sort a copy: the caller's slice also feeds the CSV export and
	// must keep its canonical order.
	rows = append([]models.InstanceCost(nil), rows...)
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].MonthlyCost.Equal(rows[j].MonthlyCost) {
			return rows[i].MonthlyCost.GreaterThan(rows[j].MonthlyCost)
		}
		return rows[i].InstanceID < rows[j].InstanceID
	})

	titleColor.Println("\n## Running EC2 Instances")

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)

	fmt.Fprintf(w, "Scan time: %s (completed in %.2f seconds)\n",
		scanTime.Format("2006-01-02 15:04:05"),
		scanDuration.Seconds())

	fmt.Fprintln(w, "INSTANCE ID\tNAME\tTYPE\tMODEL\tREGION\tRATE/HR\tCOST/MO\tCOST/YR")

	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.InstanceID,
			instanceName(row.Name),
			row.InstanceType,
			row.Model,
			row.Region,
			rate(row.HourlyRate),
			money(row.MonthlyCost),
			money(row.AnnualCost),
		)
	}

	w.Flush()
}

// PrintCostBreakdownTable prints the per-type cost breakdown.
func PrintCostBreakdownTable(summary *models.CostSummary) {
	if len(summary.InstanceCosts) == 0 {
		fmt.Println("No priced instance types to report.")
		return
	}

	types := make([]string, 0, len(summary.InstanceCosts))
	for t := range summary.InstanceCosts {
		types = append(types, t)
	}
	sort.Strings(types)

	titleColor.Println("\n## Cost Breakdown by Instance Type")

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)

	fmt.Fprintln(w, "TYPE\tRATE/HR\tON-DEMAND\tRESERVED\tSPOT\tTOTAL\tCOST/MO\tCOST/YR\tOD EQUIV/MO\tSAVINGS/MO")

	for _, t := range types {
		cost := summary.InstanceCosts[t]
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%s\t%s\t%s\t%s\n",
			cost.InstanceType,
			rate(cost.HourlyRate),
			cost.OnDemandCount,
			cost.ReservedCount,
			cost.SpotCount,
			cost.TotalInstances,
			money(cost.MonthlyCost),
			money(cost.AnnualCost),
			money(cost.OnDemandEquivalent),
			savingsColor.Sprint(money(cost.Savings)),
		)
	}

	fmt.Fprintf(w, "Total:\t\t\t\t\t%s\t%s\t\t%s\t%s\n",
		humanize.Comma(int64(summary.TotalInstances)),
		money(summary.TotalMonthlyCost),
		money(summary.TotalOnDemandCost),
		savingsColor.Sprint(money(summary.MonthlySavings)),
	)

	w.Flush()
}

// PrintFleetSummary prints the fleet-wide cost totals.
func PrintFleetSummary(summary *models.CostSummary) {
	titleColor.Println("\n## Fleet Cost Summary")

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)

	fmt.Fprintf(w, "Total running instances:\t%s\n", humanize.Comma(int64(summary.TotalInstances)))
	fmt.Fprintf(w, "Total monthly cost:\t%s\n", money(summary.TotalMonthlyCost))
	fmt.Fprintf(w, "Total annual cost:\t%s\n", money(summary.TotalMonthlyCost.Mul(costing.MonthsPerYear)))
	fmt.Fprintf(w, "On-demand equivalent:\t%s\n", money(summary.TotalOnDemandCost))
	fmt.Fprintf(w, "Reserved spend:\t%s\n", money(summary.TotalReservedCost))
	fmt.Fprintf(w, "Spot spend:\t%s\n", money(summary.TotalSpotCost))
	fmt.Fprintf(w, "Monthly savings:\t%s\n", savingsColor.Sprint(money(summary.MonthlySavings)))

	w.Flush()
}

// PrintSavingsTable prints the ranked savings opportunities.
func PrintSavingsTable(opportunities []models.SavingsOpportunity) {
	titleColor.Println("\n## Savings Opportunities")

	if len(opportunities) == 0 {
		fmt.Println("No savings opportunities found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)

	fmt.Fprintln(w, "TYPE\tCURRENT\tRECOMMENDED\tINSTANCES\tCURRENT/MO\tPOTENTIAL/MO\tSAVINGS/MO\tSAVINGS/YR\tDISCOUNT")

	for _, opp := range opportunities {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t%d%%\n",
			opp.InstanceType,
			opp.CurrentModel,
			opp.RecommendedModel,
			opp.InstanceCount,
			money(opp.CurrentMonthlyCost),
			money(opp.PotentialMonthlyCost),
			money(opp.MonthlySavings),
			money(opp.AnnualSavings),
			opp.SavingsPercentage,
		)
	}

	w.Flush()
}

// PrintDiagnostics prints the warnings collected during aggregation.
func PrintDiagnostics(diags []costing.Diagnostic) {
	for _, d := range diags {
		warnColor.Printf("Warning: %s\n", d.Message)
	}
}

func instanceName(name string) string {
	if name == "" {
		return "<unnamed>"
	}
	return name
}
