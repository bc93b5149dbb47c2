package costing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// PriceResolver supplies the hourly on-demand rate for an instance type.
// The boolean reports whether a rate was found; a false result is not an
// error. A non-nil error signals a collaborator failure (network, auth)
// and aborts the whole computation.
type PriceResolver interface {
	OnDemandRate(ctx context.Context, instanceType string) (decimal.Decimal, bool, error)
}

// PriceResolverFunc adapts a function to the PriceResolver interface.
type PriceResolverFunc func(ctx context.Context, instanceType string) (decimal.Decimal, bool, error)

// OnDemandRate calls f.
func (f PriceResolverFunc) OnDemandRate(ctx context.Context, instanceType string) (decimal.Decimal, bool, error) {
	return f(ctx, instanceType)
}

// Diagnostic is a non-fatal event collected during aggregation.
// The core never writes to a process-wide logger; callers decide
// what to do with the collected diagnostics.
type Diagnostic struct {
	Level        string
	InstanceType string
	Message      string
}

const levelWarning = "warning"

func warnf(instanceType, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Level:        levelWarning,
		InstanceType: instanceType,
		Message:      fmt.Sprintf(format, args...),
	}
}
