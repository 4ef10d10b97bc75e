package radiation

import (
	"testing"

	"deathrun-power/core/types"
)

type stubEndpoint struct {
	transform *types.Transform
}

func (s stubEndpoint) ID() string                  { return "stub" }
func (s stubEndpoint) Kind() types.EndpointKind    { return types.KindVehicle }
func (s stubEndpoint) Transform() *types.Transform { return s.transform }
func (s stubEndpoint) Power() float64              { return 0 }

func aurora() *ZoneSet {
	return NewZoneSet(Zone{
		Name:     "aurora",
		Center:   types.Vec3{X: 1000, Y: 0, Z: 0},
		Radius:   500,
		MaxDepth: 60,
		Active:   true,
	})
}

func TestMissingReferenceIsNeverInRadiation(t *testing.T) {
	c := NewClassifier(aurora())
	if c.InRadiation(nil) {
		t.Error("nil transform must classify as outside radiation")
	}
	if c.EndpointInRadiation(stubEndpoint{}) {
		t.Error("endpoint without transform must classify as outside radiation")
	}
	if c.EndpointInRadiation(nil) {
		t.Error("nil endpoint must classify as outside radiation")
	}

	var zero *Classifier
	if zero.InRadiation(&types.Transform{}) {
		t.Error("nil classifier must classify as outside radiation")
	}
}

func TestZoneMembership(t *testing.T) {
	c := NewClassifier(aurora())

	tests := []struct {
		name string
		pos  types.Vec3
		want bool
	}{
		{"center", types.Vec3{X: 1000}, true},
		{"edge", types.Vec3{X: 1500}, true},
		{"outside", types.Vec3{X: 1501}, false},
		{"shallow", types.Vec3{X: 1000, Y: -50}, true},
		{"below depth floor", types.Vec3{X: 1000, Y: -61}, false},
		{"origin", types.Vec3{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.InRadiation(&types.Transform{Position: tt.pos})
			if got != tt.want {
				t.Errorf("InRadiation(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestSealedZoneStopsClassifying(t *testing.T) {
	zones := aurora()
	c := NewClassifier(zones)
	inside := &types.Transform{Position: types.Vec3{X: 1000}}

	if !c.InRadiation(inside) {
		t.Fatal("expected active zone to classify as radiation")
	}
	if !zones.SetActive("aurora", false) {
		t.Fatal("expected zone to exist")
	}
	if c.InRadiation(inside) {
		t.Error("inactive zone must not classify as radiation")
	}
	if zones.SetActive("missing", true) {
		t.Error("unknown zone must report false")
	}
}
