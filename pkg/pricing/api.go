package pricing

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
)

// The AWS Pricing API is only served from us-east-1 and ap-south-1,
// regardless of which region is being priced.
const pricingAPIRegion = "us-east-1"

var (
	apiClient     *pricing.Client
	apiClientErr  error
	apiClientOnce sync.Once
	apiProfile    string
)

// SetProfile selects the shared-config profile used when the pricing
// client is first initialized. Must be called before the first lookup.
func SetProfile(profile string) {
	apiProfile = profile
}

func initClient(ctx context.Context) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(pricingAPIRegion),
	}
	if apiProfile != "" {
		opts = append(opts, config.WithSharedConfigProfile(apiProfile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		apiClientErr = fmt.Errorf("loading AWS config for pricing API: %w", err)
		return
	}
	apiClient = pricing.NewFromConfig(cfg)
}

// getProducts runs a GetProducts query against the Pricing API and
// returns the first matching price list entry as raw JSON. An empty
// result is reported as found=false, not as an error.
func getProducts(ctx context.Context, serviceCode string, filters []types.Filter) (string, bool, error) {
	apiClientOnce.Do(func() { initClient(ctx) })
	if apiClientErr != nil {
		return "", false, apiClientErr
	}

	input := &pricing.GetProductsInput{
		ServiceCode: aws.String(serviceCode),
		Filters:     filters,
		MaxResults:  aws.Int32(1),
	}

	resp, err := apiClient.GetProducts(ctx, input)
	if err != nil {
		return "", false, fmt.Errorf("calling AWS Pricing API: %w", err)
	}
	if len(resp.PriceList) == 0 {
		return "", false, nil
	}
	return resp.PriceList[0], true, nil
}
