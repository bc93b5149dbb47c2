package pricing

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Source identifies where a resolved price came from.
type Source string

const (
	// SourceAPI means the rate came from a live Pricing API call.
	SourceAPI Source = "API"

	// SourceCache means the rate was served from the in-process cache.
	SourceCache Source = "Cache"

	// SourceNA means no rate is available for the type.
	SourceNA Source = "N/A"
)

// Attributes narrow an EC2 price lookup. The zero value is not useful;
// call DefaultAttributes for the standard Linux/Shared/Used query.
type Attributes struct {
	OperatingSystem string
	Tenancy         string
	CapacityStatus  string
}

// DefaultAttributes returns the attribute set used for baseline
// on-demand pricing.
func DefaultAttributes() Attributes {
	return Attributes{
		OperatingSystem: "Linux",
		Tenancy:         "Shared",
		CapacityStatus:  "Used",
	}
}

// In-process rate cache, keyed by region:instanceType.
var (
	rateCache     = make(map[string]decimal.Decimal)
	rateCacheLock sync.RWMutex
)

// API call statistics, keyed region -> {success, failure, cache}.
var (
	apiStats     = make(map[string]map[string]int)
	apiStatsLock sync.RWMutex
)

func recordStat(region, statType string) {
	apiStatsLock.Lock()
	defer apiStatsLock.Unlock()

	if _, exists := apiStats[region]; !exists {
		apiStats[region] = map[string]int{
			"success": 0,
			"failure": 0,
			"cache":   0,
		}
	}
	apiStats[region][statType]++
}

// GetAPIStats returns a copy of the Pricing API call statistics
// accumulated during this run.
func GetAPIStats() map[string]map[string]int {
	apiStatsLock.RLock()
	defer apiStatsLock.RUnlock()

	statsCopy := make(map[string]map[string]int, len(apiStats))
	for region, stats := range apiStats {
		statsCopy[region] = make(map[string]int, len(stats))
		for key, value := range stats {
			statsCopy[region][key] = value
		}
	}
	return statsCopy
}
