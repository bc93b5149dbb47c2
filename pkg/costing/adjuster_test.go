package costing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/costwatch/ec2cost/internal/models"
)

func TestEffectiveRateOnDemand(t *testing.T) {
	base := decimal.RequireFromString("0.096")
	got := EffectiveRate(base, models.ModelOnDemand)
	if !got.Equal(base) {
		t.Fatalf("expected on-demand rate unchanged, got %s", got)
	}
}

func TestEffectiveRateReserved(t *testing.T) {
	base := decimal.RequireFromString("0.096")
	want := decimal.RequireFromString("0.0576")
	got := EffectiveRate(base, models.ModelReserved)
	if !got.Equal(want) {
		t.Fatalf("expected reserved rate %s, got %s", want, got)
	}
}

func TestEffectiveRateSpot(t *testing.T) {
	base := decimal.RequireFromString("0.096")
	want := decimal.RequireFromString("0.0672")
	got := EffectiveRate(base, models.ModelSpot)
	if !got.Equal(want) {
		t.Fatalf("expected spot rate %s, got %s", want, got)
	}
}

func TestEffectiveRateExactForAnyPositiveRate(t *testing.T) {
	for _, raw := range []string{"0.0001", "1", "3.072", "12.2400", "0.096"} {
		base := decimal.RequireFromString(raw)

		if got, want := EffectiveRate(base, models.ModelReserved), base.Mul(decimal.RequireFromString("0.6")); !got.Equal(want) {
			t.Fatalf("reserved rate for %s: expected %s, got %s", raw, want, got)
		}
		if got, want := EffectiveRate(base, models.ModelSpot), base.Mul(decimal.RequireFromString("0.7")); !got.Equal(want) {
			t.Fatalf("spot rate for %s: expected %s, got %s", raw, want, got)
		}
	}
}

func TestEffectiveRateZeroBase(t *testing.T) {
	for _, model := range []models.PricingModel{models.ModelOnDemand, models.ModelReserved, models.ModelSpot} {
		if got := EffectiveRate(decimal.Zero, model); !got.IsZero() {
			t.Fatalf("expected zero rate for zero base under %s, got %s", model, got)
		}
	}
}

func TestDiscountPercent(t *testing.T) {
	if got := DiscountPercent(models.ModelReserved); got != 40 {
		t.Fatalf("expected reserved discount 40, got %d", got)
	}
	if got := DiscountPercent(models.ModelSpot); got != 30 {
		t.Fatalf("expected spot discount 30, got %d", got)
	}
	if got := DiscountPercent(models.ModelOnDemand); got != 0 {
		t.Fatalf("expected on-demand discount 0, got %d", got)
	}
}
