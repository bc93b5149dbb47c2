package models

import (
	"strings"
	"time"
)

// PricingModel identifies how an EC2 instance is billed.
type PricingModel int

const (
	ModelOnDemand PricingModel = iota
	ModelReserved
	ModelSpot
)

// String returns the display name of the pricing model.
func (m PricingModel) String() string {
	switch m {
	case ModelReserved:
		return "RESERVED"
	case ModelSpot:
		return "SPOT"
	default:
		return "ON-DEMAND"
	}
}

// ParsePricingModel maps a lifecycle string to a PricingModel.
// Unrecognized values fall back to on-demand; the second return
// value reports whether the input matched a known model.
func ParsePricingModel(s string) (PricingModel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "on-demand", "ondemand", "normal":
		return ModelOnDemand, true
	case "reserved", "ri":
		return ModelReserved, true
	case "spot":
		return ModelSpot, true
	default:
		return ModelOnDemand, false
	}
}

// Instance is a read-only snapshot of one EC2 instance as returned
// by the inventory provider.
type Instance struct {
	InstanceID       string
	Name             string
	InstanceType     string
	Model            PricingModel
	State            string
	Tags             map[string]string
	Region           string
	AvailabilityZone string
	LaunchTime       time.Time
}

// IsRunning reports whether the instance counts toward cost accounting.
// State comparison is case-insensitive.
func (i Instance) IsRunning() bool {
	return strings.EqualFold(i.State, "running")
}
