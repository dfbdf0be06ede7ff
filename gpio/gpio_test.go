package gpio

import (
	"encoding/json"
	"testing"

	"go.viam.com/test"
)

func TestPinTable(t *testing.T) {
	test.That(t, len(pinTable), test.ShouldEqual, 40)

	counts := map[Kind]int{}
	lines := map[int]bool{}
	names := map[string]bool{}
	for i, spec := range pinTable {
		test.That(t, spec.id, test.ShouldEqual, PinID(i+1))
		test.That(t, names[spec.name], test.ShouldBeFalse)
		names[spec.name] = true
		counts[spec.kind]++

		if spec.kind == KindGPIO {
			test.That(t, spec.line, test.ShouldBeGreaterThanOrEqualTo, 2)
			test.That(t, spec.line, test.ShouldBeLessThanOrEqualTo, 27)
			test.That(t, lines[spec.line], test.ShouldBeFalse)
			lines[spec.line] = true
		} else {
			test.That(t, spec.line, test.ShouldEqual, -1)
		}
	}

	test.That(t, counts[KindGPIO], test.ShouldEqual, 26)
	test.That(t, counts[KindGround], test.ShouldEqual, 8)
	test.That(t, counts[KindPower], test.ShouldEqual, 4)
	test.That(t, counts[KindOther], test.ShouldEqual, 2)
	test.That(t, len(lines), test.ShouldEqual, 26)
}

func TestPinIDAccessors(t *testing.T) {
	test.That(t, GPIO4, test.ShouldEqual, P7)
	test.That(t, GPIO4.Name(), test.ShouldEqual, "GPIO4")
	test.That(t, GPIO4.Label(), test.ShouldEqual, "GPIO 4")
	test.That(t, GPIO4.Kind(), test.ShouldEqual, KindGPIO)

	test.That(t, P1.Name(), test.ShouldEqual, "P1")
	test.That(t, P1.Label(), test.ShouldEqual, "3v3 Power")
	test.That(t, P1.Kind(), test.ShouldEqual, KindPower)

	test.That(t, P6.Label(), test.ShouldEqual, "Ground")
	test.That(t, P6.Kind(), test.ShouldEqual, KindGround)

	test.That(t, IDSD, test.ShouldEqual, P27)
	test.That(t, IDSD.Name(), test.ShouldEqual, "ID_SD")
	test.That(t, IDSC.Name(), test.ShouldEqual, "ID_SC")
	test.That(t, IDSD.Kind(), test.ShouldEqual, KindOther)

	test.That(t, GPIO21, test.ShouldEqual, P40)
	test.That(t, GPIO21.String(), test.ShouldEqual, "GPIO21")
}

func TestLevelRendering(t *testing.T) {
	test.That(t, High.String(), test.ShouldEqual, "high")
	test.That(t, Low.String(), test.ShouldEqual, "low")
	test.That(t, High.token(), test.ShouldEqual, "1")
	test.That(t, Low.token(), test.ShouldEqual, "0")
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"high", "HIGH", "1", "true", "on", " High "} {
		l, err := ParseLevel(s)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, l, test.ShouldEqual, High)
	}

	for _, s := range []string{"low", "0", "false", "off"} {
		l, err := ParseLevel(s)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, l, test.ShouldEqual, Low)
	}

	_, err := ParseLevel("sideways")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("in")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d, test.ShouldEqual, In)

	d, err = ParseDirection(" OUT ")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d, test.ShouldEqual, Out)

	_, err = ParseDirection("up")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestKindJSON(t *testing.T) {
	b, err := json.Marshal(KindGPIO)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(b), test.ShouldEqual, `"gpio"`)

	var k Kind
	test.That(t, json.Unmarshal([]byte(`"ground"`), &k), test.ShouldBeNil)
	test.That(t, k, test.ShouldEqual, KindGround)

	test.That(t, json.Unmarshal([]byte(`"lava"`), &k), test.ShouldNotBeNil)
}

func TestPinJSON(t *testing.T) {
	p := Pin{
		ID:        GPIO4,
		Name:      "GPIO4",
		Label:     "GPIO 4",
		Kind:      KindGPIO,
		Line:      4,
		Exported:  true,
		Direction: Out,
		Level:     High,
	}

	b, err := json.Marshal(p)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(b), test.ShouldContainSubstring, `"name":"GPIO4"`)
	test.That(t, string(b), test.ShouldContainSubstring, `"kind":"gpio"`)
	test.That(t, string(b), test.ShouldContainSubstring, `"direction":"out"`)
	test.That(t, string(b), test.ShouldContainSubstring, `"level":true`)

	var back Pin
	test.That(t, json.Unmarshal(b, &back), test.ShouldBeNil)
	test.That(t, back, test.ShouldResemble, p)
}
