package gpio

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func readControl(t *testing.T, path string) string {
	t.Helper()

	b, err := os.ReadFile(path)
	test.That(t, err, test.ShouldBeNil)
	return string(b)
}

func TestSysfsLinesProtocol(t *testing.T) {
	root := t.TempDir()
	test.That(t, os.MkdirAll(filepath.Join(root, "gpio4"), 0755), test.ShouldBeNil)

	s := NewSysfsLinesAt(root)

	test.That(t, s.Export(4), test.ShouldBeNil)
	test.That(t, readControl(t, filepath.Join(root, "export")), test.ShouldEqual, "4")

	test.That(t, s.SetDirection(4, In), test.ShouldBeNil)
	test.That(t, readControl(t, filepath.Join(root, "gpio4", "direction")), test.ShouldEqual, "in")

	test.That(t, s.SetValue(4, High), test.ShouldBeNil)
	test.That(t, readControl(t, filepath.Join(root, "gpio4", "value")), test.ShouldEqual, "1")

	v, err := s.Value(4)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, float64(1))

	test.That(t, s.SetValue(4, Low), test.ShouldBeNil)
	v, err = s.Value(4)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, float64(0))

	test.That(t, s.Unexport(4), test.ShouldBeNil)
	test.That(t, readControl(t, filepath.Join(root, "unexport")), test.ShouldEqual, "4")
}

func TestSysfsValueParsing(t *testing.T) {
	root := t.TempDir()
	test.That(t, os.MkdirAll(filepath.Join(root, "gpio7"), 0755), test.ShouldBeNil)
	s := NewSysfsLinesAt(root)

	// kernels terminate the value with a newline
	test.That(t, os.WriteFile(filepath.Join(root, "gpio7", "value"), []byte("1\n"), 0644), test.ShouldBeNil)
	v, err := s.Value(7)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, float64(1))

	test.That(t, os.WriteFile(filepath.Join(root, "gpio7", "value"), []byte("bogus"), 0644), test.ShouldBeNil)
	_, err = s.Value(7)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unable to parse")
}

func TestSysfsValueMissingLine(t *testing.T) {
	s := NewSysfsLinesAt(t.TempDir())

	_, err := s.Value(9)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestDeviceSurvivesSysfsFailures(t *testing.T) {
	// a bare root has no per-line directories, so every direction write
	// fails; the device must still come up
	root := t.TempDir()
	d := NewDevice(Config{Lines: NewSysfsLinesAt(root)})
	d.Init()

	test.That(t, d.Ready(), test.ShouldBeTrue)
	test.That(t, readControl(t, filepath.Join(root, "export")), test.ShouldEqual, "21")

	pins, err := d.Pins()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pins, test.ShouldHaveLength, 40)
}
