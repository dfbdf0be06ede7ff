package gpio

import (
	"encoding/json"
	"testing"

	"go.viam.com/test"
)

func TestSnapshotApplyRoundTrip(t *testing.T) {
	d, _ := newTestDevice()
	d.Init()

	test.That(t, d.SetDirection(GPIO4, In), test.ShouldBeNil)
	test.That(t, d.SetLevel(GPIO17, High), test.ShouldBeNil)

	snap, err := d.Snapshot()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, snap.Pins, test.ShouldHaveLength, 26)

	other, _ := newTestDevice()
	other.Init()
	test.That(t, other.Apply(snap), test.ShouldBeNil)

	p, err := other.FindPin("4")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Direction, test.ShouldEqual, In)

	p, err = other.FindPin("17")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Level, test.ShouldEqual, High)
}

func TestApplyKeepsGoingOnFailure(t *testing.T) {
	d, mem := newTestDevice()
	d.Init()

	preset := Preset{Pins: []PinState{
		{Pin: "no such pin", Direction: Out, Level: High},
		{Pin: "GPIO4", Direction: Out, Level: High},
	}}

	err := d.Apply(preset)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "no such pin")

	// the valid entry still went through
	p, ferr := d.FindPin("4")
	test.That(t, ferr, test.ShouldBeNil)
	test.That(t, p.Level, test.ShouldEqual, High)

	v, verr := mem.Value(4)
	test.That(t, verr, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, float64(1))
}

func TestApplySkipsLevelForInputs(t *testing.T) {
	d, mem := newTestDevice()
	d.Init()

	preset := Preset{Pins: []PinState{{Pin: "GPIO4", Direction: In, Level: High}}}
	test.That(t, d.Apply(preset), test.ShouldBeNil)

	p, err := d.FindPin("4")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Direction, test.ShouldEqual, In)
	test.That(t, p.Level, test.ShouldEqual, Low)

	v, err := mem.Value(4)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, float64(0))
}

func TestApplyAndSnapshotNotReady(t *testing.T) {
	d, _ := newTestDevice()

	err := d.Apply(Preset{Pins: []PinState{{Pin: "GPIO4", Direction: Out}}})
	test.That(t, err, test.ShouldWrap, ErrNotInitialized)

	_, err = d.Snapshot()
	test.That(t, err, test.ShouldWrap, ErrNotInitialized)
}

func TestPresetJSON(t *testing.T) {
	preset := Preset{Pins: []PinState{{Pin: "GPIO4", Direction: Out, Level: High}}}

	b, err := json.Marshal(preset)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(b), test.ShouldEqual, `{"pins":[{"pin":"GPIO4","direction":"out","level":true}]}`)

	var back Preset
	test.That(t, json.Unmarshal(b, &back), test.ShouldBeNil)
	test.That(t, back, test.ShouldResemble, preset)
}
