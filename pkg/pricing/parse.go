package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/costwatch/ec2cost/pkg/utils"
)

// ExtractOnDemandPrice pulls the USD hourly rate out of a Pricing API
// price list entry. The rate is parsed straight from the USD string
// into a decimal so no float rounding sneaks into the cost math.
func ExtractOnDemandPrice(priceJSON string) (decimal.Decimal, error) {
	priceData, err := utils.ParseJSON(priceJSON)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing price list entry: %w", err)
	}

	terms, ok := priceData["terms"].(map[string]interface{})
	if !ok {
		return decimal.Zero, fmt.Errorf("terms field not found or invalid")
	}

	onDemand, ok := terms["OnDemand"].(map[string]interface{})
	if !ok {
		return decimal.Zero, fmt.Errorf("OnDemand field not found or invalid")
	}

	skuOffer, err := utils.GetFirstMapValue(onDemand)
	if err != nil {
		return decimal.Zero, fmt.Errorf("no SKU offer found")
	}

	skuOfferMap, ok := skuOffer.(map[string]interface{})
	if !ok {
		return decimal.Zero, fmt.Errorf("SKU offer is not a map")
	}

	priceDimensions, ok := skuOfferMap["priceDimensions"].(map[string]interface{})
	if !ok {
		return decimal.Zero, fmt.Errorf("priceDimensions field not found or invalid")
	}

	dimension, err := utils.GetFirstMapValue(priceDimensions)
	if err != nil {
		return decimal.Zero, fmt.Errorf("no price dimension found")
	}

	dimensionMap, ok := dimension.(map[string]interface{})
	if !ok {
		return decimal.Zero, fmt.Errorf("price dimension is not a map")
	}

	pricePerUnit, ok := dimensionMap["pricePerUnit"].(map[string]interface{})
	if !ok {
		return decimal.Zero, fmt.Errorf("pricePerUnit field not found or invalid")
	}

	usd, ok := pricePerUnit["USD"].(string)
	if !ok {
		return decimal.Zero, fmt.Errorf("USD price not found or invalid")
	}

	rate, err := decimal.NewFromString(usd)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing price %q: %w", usd, err)
	}

	return rate, nil
}
