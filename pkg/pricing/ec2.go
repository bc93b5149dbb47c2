package pricing

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"github.com/shopspring/decimal"

	"github.com/costwatch/ec2cost/pkg/utils"
)

// Resolver resolves on-demand hourly rates for EC2 instance types in
// one region. It satisfies the costing.PriceResolver contract: a
// missing price is (zero, false, nil), a transport or auth failure is
// a non-nil error.
type Resolver struct {
	region string
	attrs  Attributes
}

// NewResolver returns a Resolver for the given region using the
// default Linux/Shared/Used pricing attributes.
func NewResolver(region string) *Resolver {
	return &Resolver{region: region, attrs: DefaultAttributes()}
}

// WithAttributes overrides the pricing attributes used for lookups.
func (r *Resolver) WithAttributes(attrs Attributes) *Resolver {
	r.attrs = attrs
	return r
}

// OnDemandRate returns the hourly on-demand rate for an instance type.
// Results are cached per region and type for the lifetime of the
// process.
func (r *Resolver) OnDemandRate(ctx context.Context, instanceType string) (decimal.Decimal, bool, error) {
	rate, _, ok, err := r.OnDemandRateWithSource(ctx, instanceType)
	return rate, ok, err
}

// OnDemandRateWithSource is OnDemandRate plus the source of the rate
// (API, cache, or N/A).
func (r *Resolver) OnDemandRateWithSource(ctx context.Context, instanceType string) (decimal.Decimal, Source, bool, error) {
	cacheKey := fmt.Sprintf("%s:%s", r.region, instanceType)

	rateCacheLock.RLock()
	if rate, exists := rateCache[cacheKey]; exists {
		rateCacheLock.RUnlock()
		recordStat(r.region, "cache")
		return rate, SourceCache, true, nil
	}
	rateCacheLock.RUnlock()

	priceJSON, found, err := getProducts(ctx, "AmazonEC2", r.filters(instanceType))
	if err != nil {
		recordStat(r.region, "failure")
		return decimal.Zero, SourceNA, false, err
	}
	if !found {
		recordStat(r.region, "failure")
		return decimal.Zero, SourceNA, false, nil
	}

	rate, err := ExtractOnDemandPrice(priceJSON)
	if err != nil {
		// A price list entry we cannot parse is treated the same as
		// no price at all: the type is skipped, not the whole run.
		log.Printf("Warning: unparseable price list entry for %s in %s: %v", instanceType, r.region, err)
		recordStat(r.region, "failure")
		return decimal.Zero, SourceNA, false, nil
	}

	recordStat(r.region, "success")

	rateCacheLock.Lock()
	rateCache[cacheKey] = rate
	rateCacheLock.Unlock()

	return rate, SourceAPI, true, nil
}

// filters builds the GetProducts filter set for a baseline on-demand
// EC2 price query.
func (r *Resolver) filters(instanceType string) []types.Filter {
	return []types.Filter{
		{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String("instanceType"),
			Value: aws.String(instanceType),
		},
		{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String("location"),
			Value: aws.String(utils.GetRegionDescriptiveName(r.region)),
		},
		{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String("operatingSystem"),
			Value: aws.String(r.attrs.OperatingSystem),
		},
		{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String("tenancy"),
			Value: aws.String(r.attrs.Tenancy),
		},
		{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String("preInstalledSw"),
			Value: aws.String("NA"),
		},
		{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String("capacitystatus"),
			Value: aws.String(r.attrs.CapacityStatus),
		},
	}
}
