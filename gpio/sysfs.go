package gpio

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultSysfsRoot is where Linux kernels expose the GPIO class.
const DefaultSysfsRoot = "/sys/class/gpio"

// settleDelay gives udev time to create the per-line control files after an
// export before anything tries to open them.
const settleDelay = 10 * time.Millisecond

// SysfsLines drives GPIO lines through the kernel's sysfs GPIO class: a
// textual write to export/unexport per line, plus per-line direction and
// value files. Every call is one blocking file operation.
type SysfsLines struct {
	root string
}

var _ Lines = &SysfsLines{}

// NewSysfsLines returns an implementation rooted at /sys/class/gpio.
func NewSysfsLines() *SysfsLines {
	return &SysfsLines{root: DefaultSysfsRoot}
}

// NewSysfsLinesAt returns an implementation rooted at an alternate
// directory, for tests and callers running under a sysfs bind mount.
func NewSysfsLinesAt(root string) *SysfsLines {
	return &SysfsLines{root: root}
}

func (s *SysfsLines) Export(line int) error {
	if err := writeControl(filepath.Join(s.root, "export"), strconv.Itoa(line)); err != nil {
		return err
	}

	time.Sleep(settleDelay)
	return nil
}

func (s *SysfsLines) Unexport(line int) error {
	return writeControl(filepath.Join(s.root, "unexport"), strconv.Itoa(line))
}

func (s *SysfsLines) SetDirection(line int, d Direction) error {
	return writeControl(s.linePath(line, "direction"), string(d))
}

func (s *SysfsLines) SetValue(line int, l Level) error {
	return writeControl(s.linePath(line, "value"), l.token())
}

func (s *SysfsLines) Value(line int) (float64, error) {
	raw, err := os.ReadFile(s.linePath(line, "value"))
	if err != nil {
		return 0, fmt.Errorf("unable to read value file: %w", err)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil {
		return 0, fmt.Errorf("unable to parse value %q: %w", strings.TrimSpace(string(raw)), err)
	}

	return v, nil
}

func (s *SysfsLines) linePath(line int, file string) string {
	return filepath.Join(s.root, fmt.Sprintf("gpio%d", line), file)
}

func writeControl(path, token string) error {
	if err := os.WriteFile(path, []byte(token), 0644); err != nil {
		return fmt.Errorf("unable to write %q to %s: %w", token, path, err)
	}

	return nil
}
