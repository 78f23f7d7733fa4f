package control

import (
	"fmt"

	"github.com/san-kum/smctune/internal/dynamo"
)

// Variant names the sliding-mode controller families. They share one
// surface and differ only in gain arity and reaching law, so gain tuning
// treats them uniformly.
const (
	VariantClassical = "classical"
	VariantAdaptive  = "adaptive"
	VariantSTA       = "sta"
)

// GainCount returns the gain-vector arity for a variant.
func GainCount(variant string) (int, error) {
	switch variant {
	case VariantClassical, VariantSTA:
		return 6, nil
	case VariantAdaptive:
		return 5, nil
	default:
		return 0, fmt.Errorf("unknown controller variant: %s", variant)
	}
}

// NewFromGains builds a fresh controller of the named variant. Each call
// returns an independent instance, so parallel evaluations never share
// controller state.
func NewFromGains(variant string, gains []float64) (dynamo.Controller, error) {
	switch variant {
	case VariantClassical:
		return NewClassicalSMC(gains)
	case VariantAdaptive:
		return NewAdaptiveSMC(gains)
	case VariantSTA:
		return NewSuperTwistingSMC(gains)
	default:
		return nil, fmt.Errorf("unknown controller variant: %s", variant)
	}
}
