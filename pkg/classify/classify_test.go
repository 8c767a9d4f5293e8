package classify

import (
	"strings"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/faceplate/pkg/geom"
)

func f64(v float64) *float64 { return &v }

func mustConfig(t *testing.T, toml string) *Config {
	t.Helper()
	cfg, err := Parse([]byte(toml))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return cfg
}

const discTable = `
[part]
name  = "disc"
units = "mm"

[[feature]]
name   = "bottom"
kind   = "plane"
height = 0.0
tol    = 0.1

[[feature]]
name   = "top"
kind   = "plane"
height = 50.0
tol    = 0.2

[[feature]]
name   = "bore.wall"
kind   = "cylinder"
radius = 2.5
tol    = 0.1
`

func TestClassifyLiteralScenarios(t *testing.T) {
	cfg := mustConfig(t, discTable)
	descs := []geom.SurfaceDescriptor{
		{Index: 0, Kind: geom.KindPlane, Centroid: v3.Vec{X: 0, Y: 0, Z: 0}},
		{Index: 1, Kind: geom.KindPlane, Centroid: v3.Vec{X: 0, Y: 0, Z: 50.05}},
		{Index: 2, Kind: geom.KindCylinder, Radius: 2.52, Centroid: v3.Vec{Z: 25}},
	}
	labels, err := Classify(descs, cfg)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	want := []string{"bottom", "top", "bore.wall"}
	for i, w := range want {
		if labels[i] != w {
			t.Errorf("face %d label = %q, want %q", i, labels[i], w)
		}
	}
}

func TestClassifyLengthAndOrder(t *testing.T) {
	cfg := mustConfig(t, discTable)
	var descs []geom.SurfaceDescriptor
	for i := 0; i < 17; i++ {
		descs = append(descs, geom.SurfaceDescriptor{
			Index: i, Kind: geom.KindCylinder, Radius: float64(i),
		})
	}
	labels, err := Classify(descs, cfg)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(labels) != len(descs) {
		t.Fatalf("got %d labels for %d descriptors", len(labels), len(descs))
	}
	// radius 2.52 is not present; only face with radius in 2.5±0.1 would match.
	for i, l := range labels {
		if l == "" {
			t.Errorf("face %d has empty label", i)
		}
	}
}

func TestClassifyOutOfToleranceIsUnclassified(t *testing.T) {
	cfg := mustConfig(t, discTable)
	descs := []geom.SurfaceDescriptor{
		{Kind: geom.KindCylinder, Radius: 2.7}, // 0.2 past the bore nominal, tol 0.1
	}
	labels, err := Classify(descs, cfg)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if labels[0] != "unclassified.cylinder_r2.7" {
		t.Errorf("label = %q, want unclassified.cylinder_r2.7", labels[0])
	}
}

func TestSectorAligned(t *testing.T) {
	p := &Pattern{Count: 5} // width defaults to 72
	cases := []struct {
		angle float64
		want  int
	}{
		{0, 0},
		{71.9, 1},   // nearest pattern angle is 72
		{144.3, 2},
		{359.9, 0},  // wraps across 360 back to the first arm
		{35.9, 0},
		{36.1, 1},
	}
	for _, c := range cases {
		if got := p.Sector(c.angle); got != c.want {
			t.Errorf("aligned Sector(%v) = %d, want %d", c.angle, got, c.want)
		}
	}
}

func TestSectorHalfOffset(t *testing.T) {
	// Sector centers sit between pattern angles, so a window-wall centroid
	// never lands on a rounding boundary.
	p := &Pattern{Count: 5, Offset: true}
	cases := []struct {
		angle float64
		want  int
	}{
		{71.9, 0},  // nearest offset center is 36
		{36.0, 0},
		{72.1, 1},
		{107.9, 1},
		{359.9, 4},
	}
	for _, c := range cases {
		if got := p.Sector(c.angle); got != c.want {
			t.Errorf("offset Sector(%v) = %d, want %d", c.angle, got, c.want)
		}
	}
}

func TestSectorStart(t *testing.T) {
	p := &Pattern{Count: 4, Start: 45}
	if got := p.Sector(46); got != 0 {
		t.Errorf("Sector(46) with start 45 = %d, want 0", got)
	}
	if got := p.Sector(134); got != 1 {
		t.Errorf("Sector(134) with start 45 = %d, want 1", got)
	}
}

func TestPatternLabels(t *testing.T) {
	cfg := mustConfig(t, `
[[feature]]
name   = "bolt.hole"
kind   = "cylinder"
radius = 5.0
tol    = 0.5
radial = { nominal = 72.0, tol = 5.0 }
pattern = { count = 5 }
`)
	descs := []geom.SurfaceDescriptor{
		{Kind: geom.KindCylinder, Radius: 5.0, Centroid: v3.Vec{X: 72, Y: 0}},
		{Kind: geom.KindCylinder, Radius: 5.0, Centroid: v3.Vec{X: 22.2, Y: 68.5}}, // ~72 deg
	}
	labels, err := Classify(descs, cfg)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if labels[0] != "bolt.hole_01" {
		t.Errorf("label 0 = %q, want bolt.hole_01", labels[0])
	}
	if labels[1] != "bolt.hole_02" {
		t.Errorf("label 1 = %q, want bolt.hole_02", labels[1])
	}
}

func TestRadialBandRejects(t *testing.T) {
	cfg := mustConfig(t, `
[[feature]]
name   = "bolt.hole"
kind   = "cylinder"
radius = 5.0
radial = { nominal = 72.0, tol = 5.0 }
`)
	// Same radius but at the hub, far inside the bolt circle.
	descs := []geom.SurfaceDescriptor{
		{Kind: geom.KindCylinder, Radius: 5.0, Centroid: v3.Vec{X: 10, Y: 0}},
	}
	labels, err := Classify(descs, cfg)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if !strings.HasPrefix(labels[0], "unclassified.") {
		t.Errorf("label = %q, want unclassified", labels[0])
	}
}

func TestSideSplit(t *testing.T) {
	cfg := mustConfig(t, `
[[feature]]
name = "spoke"
kind = "plane"
max-normal-z = 0.1
side = true
pattern = { count = 5 }
`)
	// Two walls of spoke 1 (pattern angle 0): one on each side of +X.
	descs := []geom.SurfaceDescriptor{
		{Kind: geom.KindPlane, Normal: v3.Vec{Y: 1}, Centroid: v3.Vec{X: 50, Y: 5}},
		{Kind: geom.KindPlane, Normal: v3.Vec{Y: -1}, Centroid: v3.Vec{X: 50, Y: -5}},
	}
	labels, err := Classify(descs, cfg)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if labels[0] != "spoke_01.left" {
		t.Errorf("label 0 = %q, want spoke_01.left", labels[0])
	}
	if labels[1] != "spoke_01.right" {
		t.Errorf("label 1 = %q, want spoke_01.right", labels[1])
	}
}

func TestSideNameOverrides(t *testing.T) {
	cfg := mustConfig(t, `
[[feature]]
name  = "arm.side"
kind  = "plane"
side  = true
left  = "pos"
right = "neg"
`)
	descs := []geom.SurfaceDescriptor{
		{Kind: geom.KindPlane, Centroid: v3.Vec{X: -100, Y: 12}},
		{Kind: geom.KindPlane, Centroid: v3.Vec{X: -100, Y: -12}},
	}
	labels, err := Classify(descs, cfg)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if labels[0] != "arm.side.pos" || labels[1] != "arm.side.neg" {
		t.Errorf("labels = %v, want arm.side.pos / arm.side.neg", labels)
	}
}

func TestIndexedCounter(t *testing.T) {
	cfg := mustConfig(t, `
[[feature]]
name = "fillet"
kind = "torus"
indexed = true
`)
	descs := []geom.SurfaceDescriptor{
		{Kind: geom.KindTorus, MinorRadius: 3},
		{Kind: geom.KindPlane},
		{Kind: geom.KindTorus, MinorRadius: 3},
	}
	labels, err := Classify(descs, cfg)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if labels[0] != "fillet_01" || labels[2] != "fillet_02" {
		t.Errorf("labels = %v, want fillet_01 / fillet_02", labels)
	}

	// Counter state is per-call: re-running restarts the numbering.
	labels2, err := Classify(descs, cfg)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if labels2[0] != "fillet_01" {
		t.Errorf("second run label 0 = %q, want fillet_01", labels2[0])
	}
}

func TestNormalAlignment(t *testing.T) {
	cfg := mustConfig(t, `
[[feature]]
name   = "front"
kind   = "plane"
normal = [0.0, 0.0, 1.0]
height = 20.0
`)
	descs := []geom.SurfaceDescriptor{
		// Downward normal still matches: alignment is unsigned.
		{Kind: geom.KindPlane, Normal: v3.Vec{Z: -1}, Centroid: v3.Vec{Z: 20}},
		// Vertical wall does not.
		{Kind: geom.KindPlane, Normal: v3.Vec{X: 1}, Centroid: v3.Vec{Z: 20}},
	}
	labels, err := Classify(descs, cfg)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if labels[0] != "front" {
		t.Errorf("label 0 = %q, want front", labels[0])
	}
	if !strings.HasPrefix(labels[1], "unclassified.") {
		t.Errorf("label 1 = %q, want unclassified", labels[1])
	}
}

func TestFirstMatchWins(t *testing.T) {
	cfg := mustConfig(t, `
[[feature]]
name   = "axle.bore"
kind   = "cylinder"
radius = 10.0
radial = { max = 12.0 }

[[feature]]
name   = "hub.rim"
kind   = "cylinder"
radius = 10.0
`)
	descs := []geom.SurfaceDescriptor{
		{Kind: geom.KindCylinder, Radius: 10.0, Centroid: v3.Vec{X: 0, Y: 0}},
		{Kind: geom.KindCylinder, Radius: 10.0, Centroid: v3.Vec{X: 40, Y: 0}},
	}
	labels, err := Classify(descs, cfg)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if labels[0] != "axle.bore" {
		t.Errorf("label 0 = %q, want axle.bore", labels[0])
	}
	if labels[1] != "hub.rim" {
		t.Errorf("label 1 = %q, want hub.rim", labels[1])
	}
}

func TestUnclassifiedFormats(t *testing.T) {
	cases := []struct {
		d    geom.SurfaceDescriptor
		want string
	}{
		{geom.SurfaceDescriptor{Kind: geom.KindPlane, Centroid: v3.Vec{Z: 13.04}}, "unclassified.plane_z13.0"},
		{geom.SurfaceDescriptor{Kind: geom.KindCylinder, Radius: 2.5}, "unclassified.cylinder_r2.5"},
		{geom.SurfaceDescriptor{Kind: geom.KindCone, Radius: 4, Centroid: v3.Vec{Z: 7}}, "unclassified.cone_r4.0_z7.0"},
		{geom.SurfaceDescriptor{Kind: geom.KindTorus, MinorRadius: 3}, "unclassified.torus_mr3.0"},
		{geom.SurfaceDescriptor{Kind: geom.KindFreeform, Centroid: v3.Vec{Z: 1}}, "unclassified.freeform_z1.0"},
	}
	for _, c := range cases {
		if got := Unclassified(c.d); got != c.want {
			t.Errorf("Unclassified(%v) = %q, want %q", c.d.Kind, got, c.want)
		}
	}
}
