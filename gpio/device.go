package gpio

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Config carries the dependencies of a Device. The zero value is usable:
// nil Lines selects the platform default and a nil Logger discards
// everything.
type Config struct {
	Lines  Lines
	Logger logrus.FieldLogger
}

// Device owns the pin catalog and is the single point of truth for pin
// state. Every operation serializes on one mutex, and callers only ever
// receive copies of catalog entries, so nothing outside the device can
// observe or introduce a half-applied change.
type Device struct {
	mu     sync.Mutex
	lines  Lines
	logger logrus.FieldLogger

	ready bool
	pins  []Pin
}

func NewDevice(config Config) *Device {
	lines := config.Lines
	if lines == nil {
		lines = DefaultLines()
	}

	logger := config.Logger
	if logger == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		logger = quiet
	}

	return &Device{lines: lines, logger: logger}
}

// Init builds the catalog in header order and claims every GPIO line from
// the kernel. Each line is released before it is exported, so a stale
// export from an unclean shutdown cannot make the claim fail. Failures
// along the way are logged and skipped; the device always comes up ready.
// Init is a no-op while ready and re-arms the device after Shutdown.
func (d *Device) Init() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ready {
		return
	}

	d.pins = make([]Pin, 0, len(pinTable))
	for _, spec := range pinTable {
		d.pins = append(d.pins, Pin{
			ID:        spec.id,
			Name:      spec.name,
			Label:     spec.label,
			Kind:      spec.kind,
			Line:      spec.line,
			Direction: Out,
			Level:     Low,
		})
	}

	for i := range d.pins {
		p := &d.pins[i]
		if p.Kind != KindGPIO {
			continue
		}

		if err := d.lines.Unexport(p.Line); err != nil {
			d.logger.WithError(err).WithField("pin", p.Name).Debug("pre-export release failed")
		}

		if err := d.lines.Export(p.Line); err != nil {
			d.logger.WithError(err).WithField("pin", p.Name).Warn("unable to export pin")
		} else {
			p.Exported = true
		}

		if err := d.lines.SetDirection(p.Line, Out); err != nil {
			d.logger.WithError(err).WithField("pin", p.Name).Warn("unable to set pin direction")
		}
	}

	d.ready = true
}

// Shutdown releases every GPIO line back to the kernel and forgets the
// catalog. Unexport failures are logged and don't stop the remaining pins
// from being released. Calling Shutdown on a device that isn't ready does
// nothing.
func (d *Device) Shutdown() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.ready {
		return
	}

	for i := range d.pins {
		p := &d.pins[i]
		if p.Kind != KindGPIO {
			continue
		}

		if err := d.lines.Unexport(p.Line); err != nil {
			d.logger.WithError(err).WithField("pin", p.Name).Warn("unable to unexport pin")
		}
		p.Exported = false
	}

	d.pins = nil
	d.ready = false
}

// Ready reports whether the device is between Init and Shutdown.
func (d *Device) Ready() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.ready
}

// Pins returns a snapshot of all 40 header positions in physical order.
func (d *Device) Pins() ([]Pin, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.ready {
		return nil, ErrNotInitialized
	}

	return append([]Pin(nil), d.pins...), nil
}

// GPIOPins returns the subset of positions that are GPIO lines, in header
// order.
func (d *Device) GPIOPins() ([]Pin, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.ready {
		return nil, ErrNotInitialized
	}

	var pins []Pin
	for _, p := range d.pins {
		if p.Kind == KindGPIO {
			pins = append(pins, p)
		}
	}

	return pins, nil
}

// FindPin resolves a free-form query to a catalog entry. A query that
// parses as a number matches the BCM line of a GPIO pin ("4" is GPIO4);
// after that the label ("Ground") and then the symbolic name ("GPIO4",
// "P1", "ID_SD") are compared case-insensitively. The first match in
// header order wins.
func (d *Device) FindPin(query string) (Pin, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.ready {
		return Pin{}, ErrNotInitialized
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return Pin{}, ErrEmptyQuery
	}

	if line, err := strconv.Atoi(query); err == nil {
		for _, p := range d.pins {
			if p.Kind == KindGPIO && p.Line == line {
				return p, nil
			}
		}
	}

	for _, p := range d.pins {
		if strings.EqualFold(p.Label, query) {
			return p, nil
		}
	}

	for _, p := range d.pins {
		if strings.EqualFold(p.Name, query) {
			return p, nil
		}
	}

	return Pin{}, fmt.Errorf("%w %q", ErrUnknownPin, query)
}

// SetDirection points a GPIO pin in or out. The mirror only picks up the
// new direction after the sysfs write succeeds.
func (d *Device) SetDirection(id PinID, dir Direction) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.ready {
		return ErrNotInitialized
	}
	if !dir.valid() {
		return fmt.Errorf("%w %q", ErrInvalidDirection, string(dir))
	}

	p, err := d.pinLocked(id)
	if err != nil {
		return err
	}
	if p.Kind != KindGPIO {
		return fmt.Errorf("%w: %s is %s", ErrNotGPIO, p.Name, p.Kind)
	}

	if err := d.lines.SetDirection(p.Line, dir); err != nil {
		return ioErr("direction", id, p.Line, err)
	}

	p.Direction = dir
	return nil
}

// SetLevel drives a GPIO pin high or low. The mirror only picks up the new
// level after the sysfs write succeeds.
func (d *Device) SetLevel(id PinID, level Level) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.ready {
		return ErrNotInitialized
	}

	p, err := d.pinLocked(id)
	if err != nil {
		return err
	}
	if p.Kind != KindGPIO {
		return fmt.Errorf("%w: %s is %s", ErrNotGPIO, p.Name, p.Kind)
	}

	if err := d.lines.SetValue(p.Line, level); err != nil {
		return ioErr("value", id, p.Line, err)
	}

	p.Level = level
	return nil
}

// Level reads a GPIO pin's value back from the kernel, refreshes the
// mirror and returns it. Anything above zero reads as High.
func (d *Device) Level(id PinID) (Level, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.ready {
		return Low, ErrNotInitialized
	}

	p, err := d.pinLocked(id)
	if err != nil {
		return Low, err
	}
	if p.Kind != KindGPIO {
		return Low, fmt.Errorf("%w: %s is %s", ErrNotGPIO, p.Name, p.Kind)
	}

	v, err := d.lines.Value(p.Line)
	if err != nil {
		return Low, ioErr("value", id, p.Line, err)
	}

	p.Level = Level(v > 0)
	return p.Level, nil
}

// pinLocked returns the mutable catalog entry for id. Callers hold d.mu.
func (d *Device) pinLocked(id PinID) (*Pin, error) {
	for i := range d.pins {
		if d.pins[i].ID == id {
			return &d.pins[i], nil
		}
	}

	return nil, fmt.Errorf("%w %q", ErrUnknownPin, id.Name())
}
