package store

import (
	"errors"
	"io"

	"github.com/headpin-io/headpin-app/gpio"
)

// ErrNoPreset is returned when a named preset isn't in the store.
var ErrNoPreset = errors.New("preset does not exist")

// Store describes a persistent storage engine for headpin-app information.
type Store interface {
	Preset(name string) (gpio.Preset, error)
	ListPresets() ([]string, error)
	PutPreset(name string, p gpio.Preset) error
	DeletePreset(name string) error

	DefaultPreset() (string, error)
	PutDefaultPreset(name string) error

	io.Closer
}
