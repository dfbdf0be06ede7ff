// Package gpio models the 40-pin GPIO header of a Raspberry Pi class
// single-board computer and keeps an in-memory mirror of each pin's state
// synchronized with the kernel's sysfs GPIO control files.
package gpio

import (
	"fmt"
	"strings"
)

// Level describes the binary state of a GPIO pin: either LOW or HIGH.
type Level bool

const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l {
		return "high"
	}
	return "low"
}

// token renders the level the way the sysfs value file expects it.
func (l Level) token() string {
	if l {
		return "1"
	}
	return "0"
}

// ParseLevel converts a string to a Level. Accepts "high"/"low", "1"/"0",
// "true"/"false" and "on"/"off" (case-insensitive).
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "1", "true", "on":
		return High, nil
	case "low", "0", "false", "off":
		return Low, nil
	}
	return Low, fmt.Errorf("unknown level %q", s)
}

// Direction describes whether a GPIO pin is read from or driven. The two
// values are the exact tokens the sysfs direction file accepts.
type Direction string

const (
	In  Direction = "in"
	Out Direction = "out"
)

func (d Direction) valid() bool {
	return d == In || d == Out
}

// ParseDirection converts a string to a Direction. Accepts "in"/"out"
// (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in":
		return In, nil
	case "out":
		return Out, nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

// Kind classifies what a header position is wired to. It is a fixed
// property of the position, not runtime state.
type Kind int

const (
	KindPower Kind = iota
	KindGround
	KindGPIO
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindPower:
		return "power"
	case KindGround:
		return "ground"
	case KindGPIO:
		return "gpio"
	case KindOther:
		return "other"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalJSON renders the kind as its lower-case name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// UnmarshalJSON accepts the names produced by MarshalJSON.
func (k *Kind) UnmarshalJSON(b []byte) error {
	switch strings.Trim(string(b), `"`) {
	case "power":
		*k = KindPower
	case "ground":
		*k = KindGround
	case "gpio":
		*k = KindGPIO
	case "other":
		*k = KindOther
	default:
		return fmt.Errorf("unknown pin kind %s", b)
	}
	return nil
}

// PinID identifies a physical header position, numbered 1 to 40 the way the
// board silkscreen does. The zero value is not a valid position.
type PinID uint8

// Physical header positions.
const (
	P1 PinID = iota + 1
	P2
	P3
	P4
	P5
	P6
	P7
	P8
	P9
	P10
	P11
	P12
	P13
	P14
	P15
	P16
	P17
	P18
	P19
	P20
	P21
	P22
	P23
	P24
	P25
	P26
	P27
	P28
	P29
	P30
	P31
	P32
	P33
	P34
	P35
	P36
	P37
	P38
	P39
	P40
)

// BCM aliases for the GPIO-capable header positions.
const (
	GPIO2  = P3
	GPIO3  = P5
	GPIO4  = P7
	GPIO5  = P29
	GPIO6  = P31
	GPIO7  = P26
	GPIO8  = P24
	GPIO9  = P21
	GPIO10 = P19
	GPIO11 = P23
	GPIO12 = P32
	GPIO13 = P33
	GPIO14 = P8
	GPIO15 = P10
	GPIO16 = P36
	GPIO17 = P11
	GPIO18 = P12
	GPIO19 = P35
	GPIO20 = P38
	GPIO21 = P40
	GPIO22 = P15
	GPIO23 = P16
	GPIO24 = P18
	GPIO25 = P22
	GPIO26 = P37
	GPIO27 = P13
)

// ID EEPROM positions, reserved for HAT identification.
const (
	IDSD = P27
	IDSC = P28
)

// pinSpec is one row of the fixed header catalog.
type pinSpec struct {
	id    PinID
	name  string
	label string
	kind  Kind
	line  int // BCM line number, -1 for positions without one
}

// pinTable describes the 40-pin header in physical order. Line numbers are
// the BCM numbering used by the sysfs GPIO class.
var pinTable = [...]pinSpec{
	{P1, "P1", "3v3 Power", KindPower, -1},
	{P2, "P2", "5v Power", KindPower, -1},
	{P3, "GPIO2", "GPIO 2", KindGPIO, 2},
	{P4, "P4", "5v Power", KindPower, -1},
	{P5, "GPIO3", "GPIO 3", KindGPIO, 3},
	{P6, "P6", "Ground", KindGround, -1},
	{P7, "GPIO4", "GPIO 4", KindGPIO, 4},
	{P8, "GPIO14", "GPIO 14", KindGPIO, 14},
	{P9, "P9", "Ground", KindGround, -1},
	{P10, "GPIO15", "GPIO 15", KindGPIO, 15},
	{P11, "GPIO17", "GPIO 17", KindGPIO, 17},
	{P12, "GPIO18", "GPIO 18", KindGPIO, 18},
	{P13, "GPIO27", "GPIO 27", KindGPIO, 27},
	{P14, "P14", "Ground", KindGround, -1},
	{P15, "GPIO22", "GPIO 22", KindGPIO, 22},
	{P16, "GPIO23", "GPIO 23", KindGPIO, 23},
	{P17, "P17", "3v3 Power", KindPower, -1},
	{P18, "GPIO24", "GPIO 24", KindGPIO, 24},
	{P19, "GPIO10", "GPIO 10", KindGPIO, 10},
	{P20, "P20", "Ground", KindGround, -1},
	{P21, "GPIO9", "GPIO 9", KindGPIO, 9},
	{P22, "GPIO25", "GPIO 25", KindGPIO, 25},
	{P23, "GPIO11", "GPIO 11", KindGPIO, 11},
	{P24, "GPIO8", "GPIO 8", KindGPIO, 8},
	{P25, "P25", "Ground", KindGround, -1},
	{P26, "GPIO7", "GPIO 7", KindGPIO, 7},
	{P27, "ID_SD", "ID EEPROM Data", KindOther, -1},
	{P28, "ID_SC", "ID EEPROM Clock", KindOther, -1},
	{P29, "GPIO5", "GPIO 5", KindGPIO, 5},
	{P30, "P30", "Ground", KindGround, -1},
	{P31, "GPIO6", "GPIO 6", KindGPIO, 6},
	{P32, "GPIO12", "GPIO 12", KindGPIO, 12},
	{P33, "GPIO13", "GPIO 13", KindGPIO, 13},
	{P34, "P34", "Ground", KindGround, -1},
	{P35, "GPIO19", "GPIO 19", KindGPIO, 19},
	{P36, "GPIO16", "GPIO 16", KindGPIO, 16},
	{P37, "GPIO26", "GPIO 26", KindGPIO, 26},
	{P38, "GPIO20", "GPIO 20", KindGPIO, 20},
	{P39, "P39", "Ground", KindGround, -1},
	{P40, "GPIO21", "GPIO 21", KindGPIO, 21},
}

func (id PinID) valid() bool {
	return id >= P1 && id <= P40
}

func (id PinID) spec() *pinSpec {
	return &pinTable[id-1]
}

// Name returns the symbolic name of the position: "GPIO4" for BCM line 4,
// "ID_SD"/"ID_SC" for the EEPROM positions, "P1" style otherwise.
func (id PinID) Name() string {
	if !id.valid() {
		return fmt.Sprintf("P?%d", uint8(id))
	}
	return id.spec().name
}

// Label returns the human-readable description of the position.
func (id PinID) Label() string {
	if !id.valid() {
		return ""
	}
	return id.spec().label
}

// Kind reports what the position is wired to.
func (id PinID) Kind() Kind {
	if !id.valid() {
		return KindOther
	}
	return id.spec().kind
}

func (id PinID) String() string {
	return id.Name()
}

// Pin is a snapshot of one catalog entry: the immutable identity of a
// header position together with its mirrored runtime state. The device
// hands out copies; mutating a Pin has no effect on the device.
type Pin struct {
	ID        PinID     `json:"id"`
	Name      string    `json:"name"`
	Label     string    `json:"label"`
	Kind      Kind      `json:"kind"`
	Line      int       `json:"line"`
	Exported  bool      `json:"exported"`
	Direction Direction `json:"direction"`
	Level     Level     `json:"level"`
}
