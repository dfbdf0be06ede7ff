package gpio

import (
	"runtime"
	"sync"
)

// Lines is the narrow boundary to the operating system's per-line GPIO
// control surface. The device performs every OS-facing step through it, so
// the real sysfs implementation can be swapped for an in-memory fake on
// platforms without the control files (and in tests).
type Lines interface {
	// Export asks the kernel to expose the line's control files.
	Export(line int) error
	// Unexport releases the line. Unexporting a line that is not
	// exported is an error on real kernels.
	Unexport(line int) error
	// SetDirection writes the direction token for the line.
	SetDirection(line int, d Direction) error
	// SetValue writes the level token for the line.
	SetValue(line int, l Level) error
	// Value reads the line's value file back as a number.
	Value(line int) (float64, error)
}

// SysfsSupported reports whether this platform exposes the sysfs GPIO
// class consumed by SysfsLines.
func SysfsSupported() bool {
	return runtime.GOOS == "linux"
}

// DefaultLines returns the sysfs implementation on platforms that have it
// and an in-memory fake elsewhere, so the catalog and validation logic can
// be exercised without hardware.
func DefaultLines() Lines {
	if SysfsSupported() {
		return NewSysfsLines()
	}
	return NewMemLines()
}

// MemLines is an in-memory Lines implementation. Every operation succeeds
// and Value returns whatever SetValue last wrote, which makes it the
// stand-in used when the OS has no sysfs GPIO surface.
type MemLines struct {
	mu       sync.Mutex
	exported map[int]bool
	dirs     map[int]Direction
	values   map[int]float64
}

var _ Lines = &MemLines{}

func NewMemLines() *MemLines {
	return &MemLines{
		exported: make(map[int]bool),
		dirs:     make(map[int]Direction),
		values:   make(map[int]float64),
	}
}

func (m *MemLines) Export(line int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.exported[line] = true
	return nil
}

func (m *MemLines) Unexport(line int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.exported, line)
	return nil
}

func (m *MemLines) SetDirection(line int, d Direction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dirs[line] = d
	return nil
}

func (m *MemLines) SetValue(line int, l Level) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if l {
		m.values[line] = 1
	} else {
		m.values[line] = 0
	}
	return nil
}

func (m *MemLines) Value(line int) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.values[line], nil
}

// Exported reports whether the line is currently exported.
func (m *MemLines) Exported(line int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.exported[line]
}

// Direction returns the last direction written for the line.
func (m *MemLines) Direction(line int) Direction {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.dirs[line]
}
