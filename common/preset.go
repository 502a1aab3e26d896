package common

import "fmt"

const (
	PresetNameClassic  = "classic"
	PresetNameExtended = "extended"
)

// Preset captures the defaults and capabilities of one flavour of the tool
type Preset struct {
	Name        string
	Model       string
	Temperature float64
	// AlwaysLogInput writes the prompt to the diagnostic file on every run
	AlwaysLogInput bool
	// AcceptsOptions allows --context, --model and --log-input
	AcceptsOptions bool
}

var (
	PresetClassic = Preset{
		Name:           PresetNameClassic,
		Model:          "gpt-3.5-turbo",
		Temperature:    0,
		AlwaysLogInput: true,
		AcceptsOptions: false,
	}

	PresetExtended = Preset{
		Name:           PresetNameExtended,
		Model:          "gpt-4.1",
		Temperature:    0,
		AlwaysLogInput: false,
		AcceptsOptions: true,
	}
)

func LookupPreset(name string) (Preset, error) {
	switch name {
	case PresetNameClassic:
		return PresetClassic, nil
	case PresetNameExtended, "":
		return PresetExtended, nil
	}
	return Preset{}, fmt.Errorf("unknown preset: %s (expected %s or %s)", name, PresetNameClassic, PresetNameExtended)
}
