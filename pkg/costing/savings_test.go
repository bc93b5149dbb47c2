package costing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/costwatch/ec2cost/internal/models"
)

func summaryFor(t *testing.T, rates map[string]string, instances []models.Instance) *models.CostSummary {
	t.Helper()
	summary, _, err := Aggregate(context.Background(), instances, &fakeResolver{rates: rates})
	if err != nil {
		t.Fatalf("building summary: %v", err)
	}
	return summary
}

func TestFindSavingsRecommendsReserved(t *testing.T) {
	summary := summaryFor(t, map[string]string{"m5.large": "0.096"}, []models.Instance{
		running("i-01", "m5.large", models.ModelOnDemand),
		running("i-02", "m5.large", models.ModelOnDemand),
		running("i-03", "m5.large", models.ModelReserved),
	})

	opportunities := FindSavingsOpportunities(summary)
	if len(opportunities) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(opportunities))
	}

	opp := opportunities[0]
	if opp.RecommendedModel != models.ModelReserved {
		t.Fatalf("expected reserved recommendation, got %s", opp.RecommendedModel)
	}
	if opp.CurrentModel != models.ModelOnDemand {
		t.Fatalf("expected on-demand current model, got %s", opp.CurrentModel)
	}
	if opp.InstanceCount != 2 {
		t.Fatalf("expected count basis 2, got %d", opp.InstanceCount)
	}
	if opp.SavingsPercentage != 40 {
		t.Fatalf("expected fixed 40%% percentage, got %d", opp.SavingsPercentage)
	}

	cost := summary.InstanceCosts["m5.large"]
	wantPotential := cost.MonthlyCost.Mul(decimal.RequireFromString("0.6"))
	if !opp.PotentialMonthlyCost.Equal(wantPotential) {
		t.Fatalf("expected potential %s, got %s", wantPotential, opp.PotentialMonthlyCost)
	}
	if !opp.MonthlySavings.Equal(cost.MonthlyCost.Sub(wantPotential)) {
		t.Fatalf("monthly savings mismatch: %s", opp.MonthlySavings)
	}
	if !opp.AnnualSavings.Equal(opp.MonthlySavings.Mul(decimal.NewFromInt(12))) {
		t.Fatalf("annual savings mismatch: %s", opp.AnnualSavings)
	}
}

func TestFindSavingsRecommendsSpotWhenAlreadyUsed(t *testing.T) {
	summary := summaryFor(t, map[string]string{"c5.xlarge": "0.17"}, []models.Instance{
		running("i-01", "c5.xlarge", models.ModelOnDemand),
		running("i-02", "c5.xlarge", models.ModelSpot),
	})

	opportunities := FindSavingsOpportunities(summary)

	var spotOpp *models.SavingsOpportunity
	for i := range opportunities {
		if opportunities[i].RecommendedModel == models.ModelSpot {
			spotOpp = &opportunities[i]
		}
	}
	if spotOpp == nil {
		t.Fatalf("expected a spot opportunity, got %+v", opportunities)
	}
	if spotOpp.SavingsPercentage != 30 {
		t.Fatalf("expected fixed 30%% percentage, got %d", spotOpp.SavingsPercentage)
	}
	if !spotOpp.MonthlySavings.IsPositive() {
		t.Fatalf("expected positive savings, got %s", spotOpp.MonthlySavings)
	}
}

func TestFindSavingsNoSpotRecommendationWithoutSpotUsage(t *testing.T) {
	summary := summaryFor(t, map[string]string{"m5.large": "0.096"}, []models.Instance{
		running("i-01", "m5.large", models.ModelOnDemand),
	})

	for _, opp := range FindSavingsOpportunities(summary) {
		if opp.RecommendedModel == models.ModelSpot {
			t.Fatalf("spot must not be recommended when unused: %+v", opp)
		}
	}
}

func TestFindSavingsSkipsReservedHeavyTypes(t *testing.T) {
	// More reserved than on-demand: no reserved recommendation.
	summary := summaryFor(t, map[string]string{"m5.large": "0.096"}, []models.Instance{
		running("i-01", "m5.large", models.ModelOnDemand),
		running("i-02", "m5.large", models.ModelReserved),
		running("i-03", "m5.large", models.ModelReserved),
	})

	for _, opp := range FindSavingsOpportunities(summary) {
		if opp.RecommendedModel == models.ModelReserved {
			t.Fatalf("reserved must not be recommended when coverage exceeds on-demand: %+v", opp)
		}
	}
}

func TestFindSavingsEmptySummary(t *testing.T) {
	if got := FindSavingsOpportunities(models.NewCostSummary()); len(got) != 0 {
		t.Fatalf("expected no opportunities for empty summary, got %d", len(got))
	}
}

func TestFindSavingsOrderedByMonthlySavings(t *testing.T) {
	summary := summaryFor(t, map[string]string{"m5.large": "0.096", "c5.9xlarge": "1.53"}, []models.Instance{
		running("i-01", "m5.large", models.ModelOnDemand),
		running("i-02", "c5.9xlarge", models.ModelOnDemand),
		running("i-03", "c5.9xlarge", models.ModelOnDemand),
	})

	opportunities := FindSavingsOpportunities(summary)
	if len(opportunities) < 2 {
		t.Fatalf("expected at least 2 opportunities, got %d", len(opportunities))
	}
	for i := 1; i < len(opportunities); i++ {
		if opportunities[i].MonthlySavings.GreaterThan(opportunities[i-1].MonthlySavings) {
			t.Fatalf("opportunities not sorted by savings: %s before %s",
				opportunities[i-1].MonthlySavings, opportunities[i].MonthlySavings)
		}
	}
}
