package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestExtractOnDemandPrice(t *testing.T) {
	priceListItem := `{
		"terms": {
			"OnDemand": {
				"ABCDEF.JRTCKXETXF": {
					"offerTermCode": "JRTCKXETXF",
					"sku": "ABCDEF",
					"priceDimensions": {
						"ABCDEF.JRTCKXETXF.6YS6EN2CT7": {
							"pricePerUnit": {
								"USD": "0.0960000000"
							}
						}
					}
				}
			}
		}
	}`

	price, err := ExtractOnDemandPrice(priceListItem)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if want := decimal.RequireFromString("0.096"); !price.Equal(want) {
		t.Fatalf("expected price %s, got %s", want, price)
	}
}

func TestExtractOnDemandPriceKeepsExactDecimal(t *testing.T) {
	priceListItem := `{
		"terms": {
			"OnDemand": {
				"SKU.TERM": {
					"priceDimensions": {
						"SKU.TERM.RATE": {
							"pricePerUnit": {
								"USD": "0.1000000000"
							}
						}
					}
				}
			}
		}
	}`

	price, err := ExtractOnDemandPrice(priceListItem)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// 0.1 is not representable in binary floating point; the decimal
	// must still round-trip exactly.
	if price.String() != "0.1" {
		t.Fatalf("expected exact decimal 0.1, got %s", price.String())
	}
}

func TestExtractOnDemandPriceNoUSD(t *testing.T) {
	priceListItem := `{
		"terms": {
			"OnDemand": {
				"SKU.TERM": {
					"priceDimensions": {
						"SKU.TERM.RATE": {
							"pricePerUnit": {
								"EUR": "0.0900000000"
							}
						}
					}
				}
			}
		}
	}`

	if _, err := ExtractOnDemandPrice(priceListItem); err == nil {
		t.Fatal("expected error when USD price dimension is missing")
	}
}

func TestExtractOnDemandPriceMissingTerms(t *testing.T) {
	if _, err := ExtractOnDemandPrice(`{"product": {}}`); err == nil {
		t.Fatal("expected error when terms field is missing")
	}
}

func TestExtractOnDemandPriceInvalidJSON(t *testing.T) {
	if _, err := ExtractOnDemandPrice(`{not json`); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
