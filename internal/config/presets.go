package config

import "github.com/san-kum/smctune/internal/control"

// Gain bounds per controller variant. Surface gains share one admissible
// range; the switching-related tail differs per variant.
var (
	// [k1, k2, lam1, lam2, K, kd]
	ClassicalBounds = []Bound{
		{Min: 1, Max: 50}, {Min: 1, Max: 50},
		{Min: 1, Max: 50}, {Min: 1, Max: 50},
		{Min: 1, Max: 100}, {Min: 0.1, Max: 20},
	}

	// [k1, k2, lam1, lam2, gamma]
	AdaptiveBounds = []Bound{
		{Min: 1, Max: 50}, {Min: 1, Max: 50},
		{Min: 1, Max: 50}, {Min: 1, Max: 50},
		{Min: 0.1, Max: 10},
	}

	// [k1, k2, lam1, lam2, K1, K2]
	STABounds = []Bound{
		{Min: 1, Max: 50}, {Min: 1, Max: 50},
		{Min: 1, Max: 50}, {Min: 1, Max: 50},
		{Min: 1, Max: 100}, {Min: 1, Max: 100},
	}
)

var Presets = map[string]map[string]*Config{
	control.VariantClassical: {
		"default": presetFor(control.VariantClassical, ClassicalBounds, 0.1, 0.05),
		"large":   presetFor(control.VariantClassical, ClassicalBounds, 0.3, 0.2),
	},
	control.VariantAdaptive: {
		"default": presetFor(control.VariantAdaptive, AdaptiveBounds, 0.1, 0.05),
		"large":   presetFor(control.VariantAdaptive, AdaptiveBounds, 0.3, 0.2),
	},
	control.VariantSTA: {
		"default": presetFor(control.VariantSTA, STABounds, 0.1, 0.05),
		"large":   presetFor(control.VariantSTA, STABounds, 0.3, 0.2),
	},
}

func presetFor(variant string, bounds []Bound, theta1, theta2 float64) *Config {
	cfg := DefaultConfig()
	cfg.Controller = variant
	cfg.Bounds = bounds
	cfg.InitState = InitStateConfig{Theta1: theta1, Theta2: theta2}
	return cfg
}

// GetPreset returns a copy of a named preset, or nil if the controller
// or preset is unknown. Callers may mutate the result freely.
func GetPreset(controller, preset string) *Config {
	controllerPresets, ok := Presets[controller]
	if !ok {
		return nil
	}
	cfg, ok := controllerPresets[preset]
	if !ok {
		return nil
	}
	out := *cfg
	out.Bounds = append([]Bound(nil), cfg.Bounds...)
	return &out
}

func ListPresets(controller string) []string {
	controllerPresets, ok := Presets[controller]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(controllerPresets))
	for name := range controllerPresets {
		names = append(names, name)
	}
	return names
}

// ForVariant returns the default config for a controller variant, or
// nil if the variant is unknown.
func ForVariant(variant string) *Config {
	return GetPreset(variant, "default")
}
