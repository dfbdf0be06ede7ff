package gpio

import (
	"fmt"

	"go.uber.org/multierr"
)

// PinState is one pin's desired direction and, for outputs, level. Pins
// are referenced by symbolic name so a preset stays meaningful across
// boards with the same header layout.
type PinState struct {
	Pin       string    `json:"pin"`
	Direction Direction `json:"direction"`
	Level     Level     `json:"level"`
}

// Preset is a collection of pin states that can be captured from a device
// and applied back to it later.
type Preset struct {
	Pins []PinState `json:"pins"`
}

// Apply restores every entry of the preset: direction first, then the
// level for output pins. A failing entry doesn't stop the rest; all
// failures come back combined into one error.
func (d *Device) Apply(preset Preset) error {
	var result error
	for _, state := range preset.Pins {
		pin, err := d.FindPin(state.Pin)
		if err != nil {
			result = multierr.Combine(result, fmt.Errorf("unable to apply %q: %w", state.Pin, err))
			continue
		}

		if err := d.SetDirection(pin.ID, state.Direction); err != nil {
			result = multierr.Combine(result, fmt.Errorf("unable to apply %q: %w", state.Pin, err))
			continue
		}

		if state.Direction == Out {
			if err := d.SetLevel(pin.ID, state.Level); err != nil {
				result = multierr.Combine(result, fmt.Errorf("unable to apply %q: %w", state.Pin, err))
			}
		}
	}

	return result
}

// Snapshot captures the mirrored state of every GPIO pin as a preset that
// Apply can restore.
func (d *Device) Snapshot() (Preset, error) {
	pins, err := d.GPIOPins()
	if err != nil {
		return Preset{}, err
	}

	preset := Preset{Pins: make([]PinState, 0, len(pins))}
	for _, p := range pins {
		preset.Pins = append(preset.Pins, PinState{
			Pin:       p.Name,
			Direction: p.Direction,
			Level:     p.Level,
		})
	}

	return preset, nil
}
