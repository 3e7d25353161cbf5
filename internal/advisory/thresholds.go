package advisory

import (
	"errors"
	"sort"

	"github.com/go-playground/validator/v10"
)

// ErrUnknownPreset is returned for a preset name that does not exist.
var ErrUnknownPreset = errors.New("unknown threshold preset")

var validate = validator.New()

// AlertThresholds are the user-tunable alert trigger levels.
type AlertThresholds struct {
	RainMM  float64 `json:"rainMM" validate:"gte=0"`
	WindKMH float64 `json:"windKMH" validate:"gte=0"`
	HeatC   float64 `json:"heatC"`
	ColdC   float64 `json:"coldC"`
}

// Validate checks the thresholds' value ranges.
func (t AlertThresholds) Validate() error {
	return validate.Struct(t)
}

// DefaultThresholds apply until a profile saves its own.
func DefaultThresholds() AlertThresholds {
	return AlertThresholds{RainMM: 10, WindKMH: 25, HeatC: 40, ColdC: 8}
}

// Preset names.
const (
	PresetGeneral        = "general"
	PresetSpraySensitive = "spraySensitive"
	PresetCotton         = "cotton"
)

var presets = map[string]AlertThresholds{
	PresetGeneral:        {RainMM: 10, WindKMH: 20, HeatC: 38, ColdC: 8},
	PresetSpraySensitive: {RainMM: 8, WindKMH: 18, HeatC: 40, ColdC: 7},
	PresetCotton:         {RainMM: 12, WindKMH: 22, HeatC: 42, ColdC: 6},
}

// Preset returns the named preset.
func Preset(name string) (AlertThresholds, error) {
	t, ok := presets[name]
	if !ok {
		return AlertThresholds{}, ErrUnknownPreset
	}
	return t, nil
}

// NamedPreset pairs a preset with its name for listing.
type NamedPreset struct {
	Name       string          `json:"name"`
	Thresholds AlertThresholds `json:"thresholds"`
}

// Presets lists all presets ordered by name.
func Presets() []NamedPreset {
	out := make([]NamedPreset, 0, len(presets))
	for name, t := range presets {
		out = append(out, NamedPreset{Name: name, Thresholds: t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
