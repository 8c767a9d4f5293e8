package classify

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/chazu/faceplate/pkg/geom"
)

// RuleError reports a feature rule that failed while being applied to a
// face, which is a table bug (bad guard expression, unusable rule), not an
// unclassified face.
type RuleError struct {
	Feature string
	Face    int
	Err     error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("classify: feature %q on face %d: %v", e.Feature, e.Face, e.Err)
}

func (e *RuleError) Unwrap() error { return e.Err }

// Classify maps each descriptor to a label. It always returns exactly one
// label per descriptor, in input order. Faces matching no rule receive an
// unclassified label that encodes their kind and key parameters; they never
// abort classification. The counter state for Indexed features lives in the
// call frame, so concurrent calls on separate inputs are independent.
func Classify(descs []geom.SurfaceDescriptor, cfg *Config) ([]string, error) {
	labels := make([]string, len(descs))
	counters := make(map[string]int)
	for i, d := range descs {
		label, err := classifyOne(d, cfg, counters)
		if err != nil {
			return nil, err
		}
		labels[i] = label
	}
	return labels, nil
}

func classifyOne(d geom.SurfaceDescriptor, cfg *Config, counters map[string]int) (string, error) {
	for i := range cfg.Features {
		f := &cfg.Features[i]
		ok, err := f.matches(d)
		if err != nil {
			return "", &RuleError{Feature: f.Name, Face: d.Index, Err: err}
		}
		if ok {
			return f.label(d, counters), nil
		}
	}
	return Unclassified(d), nil
}

// matches applies the full acceptance chain: kind gate, nominal parameters
// within tolerance, orientation and band disambiguators, then the optional
// guard expression.
func (f *Feature) matches(d geom.SurfaceDescriptor) (bool, error) {
	if !f.anyKind && f.kind != d.Kind {
		return false, nil
	}
	if f.Radius != nil && !scalar.EqualWithinAbs(d.Radius, *f.Radius, f.tol()) {
		return false, nil
	}
	if f.MinorRadius != nil && !scalar.EqualWithinAbs(d.MinorRadius, *f.MinorRadius, f.tol()) {
		return false, nil
	}
	if f.Normal != nil && !f.normalAligned(d.Normal) {
		return false, nil
	}
	if f.MinNormalZ != nil && math.Abs(d.Normal.Z) < *f.MinNormalZ {
		return false, nil
	}
	if f.MaxNormalZ != nil && math.Abs(d.Normal.Z) > *f.MaxNormalZ {
		return false, nil
	}
	if f.Height != nil && !scalar.EqualWithinAbs(d.Centroid.Z, *f.Height, f.heightTol()) {
		return false, nil
	}
	if f.ZMin != nil && d.Centroid.Z < *f.ZMin {
		return false, nil
	}
	if f.ZMax != nil && d.Centroid.Z > *f.ZMax {
		return false, nil
	}
	if f.Radial != nil && !f.Radial.contains(d.RadialDistance()) {
		return false, nil
	}
	if f.Span != nil && !f.spanOK(d) {
		return false, nil
	}
	if f.When != "" {
		return evalGuard(f.When, d)
	}
	return true, nil
}

// normalAligned checks unsigned alignment between the face normal and the
// feature's reference direction. Sign is ignored: a bottom face's normal may
// point either way depending on the kernel's orientation convention.
func (f *Feature) normalAligned(n v3.Vec) bool {
	rx, ry, rz := f.Normal[0], f.Normal[1], f.Normal[2]
	rlen := math.Sqrt(rx*rx + ry*ry + rz*rz)
	nlen := math.Sqrt(n.X*n.X + n.Y*n.Y + n.Z*n.Z)
	if rlen == 0 || nlen == 0 {
		return false
	}
	dot := math.Abs(rx*n.X+ry*n.Y+rz*n.Z) / (rlen * nlen)
	tol := defaultNormalTol
	if f.NormalTol != nil {
		tol = *f.NormalTol
	}
	return dot >= 1-tol
}

func (f *Feature) spanOK(d geom.SurfaceDescriptor) bool {
	var v float64
	switch f.Span.Axis {
	case "x":
		v = d.SpanX()
	case "y":
		v = d.SpanY()
	case "z":
		v = d.SpanZ()
	}
	if f.Span.Min != nil && v < *f.Span.Min {
		return false
	}
	if f.Span.Max != nil && v > *f.Span.Max {
		return false
	}
	return true
}

// label assembles the final label: base name, sector suffix for patterned
// features, running index for repeated ones, and a side suffix resolved by
// the sign of the 2-D cross product between the reference direction and the
// centroid.
func (f *Feature) label(d geom.SurfaceDescriptor, counters map[string]int) string {
	name := f.Name
	ref := 0.0
	if f.Pattern != nil {
		sector := f.Pattern.Sector(d.AngleDeg())
		ref = f.Pattern.Center(sector)
		name = fmt.Sprintf("%s_%02d", name, sector+1)
	}
	if f.Indexed {
		counters[f.Name]++
		name = fmt.Sprintf("%s_%02d", name, counters[f.Name])
	}
	if f.Side {
		name = name + "." + f.sideName(d, ref)
	}
	return name
}

func (f *Feature) sideName(d geom.SurfaceDescriptor, refDeg float64) string {
	ref := refDeg * math.Pi / 180.0
	cross := math.Cos(ref)*d.Centroid.Y - math.Sin(ref)*d.Centroid.X
	if cross > 0 {
		if f.Left != "" {
			return f.Left
		}
		return "left"
	}
	if f.Right != "" {
		return f.Right
	}
	return "right"
}

// Sector returns the angular bucket of a centroid angle (degrees). The
// aligned convention rounds angle/width, putting sector centers on pattern
// angles; the half-offset convention shifts by half a sector so features
// that sit between pattern angles (window walls, hub segments) bucket
// cleanly without a centroid ever landing on a rounding boundary.
func (p *Pattern) Sector(angleDeg float64) int {
	w := p.Width
	if w == 0 {
		w = 360.0 / float64(p.Count)
	}
	a := math.Mod(angleDeg-p.Start, 360)
	if a < 0 {
		a += 360
	}
	q := a / w
	if p.Offset {
		q -= 0.5
	}
	i := int(math.Round(q)) % p.Count
	if i < 0 {
		i += p.Count
	}
	return i
}

// Center returns the center angle of a sector in degrees, the reference
// direction used for side disambiguation.
func (p *Pattern) Center(sector int) float64 {
	w := p.Width
	if w == 0 {
		w = 360.0 / float64(p.Count)
	}
	c := p.Start + float64(sector)*w
	if p.Offset {
		c += w / 2
	}
	return c
}

// Unclassified builds the explicit fallback label for a face no rule
// resolved: the surface kind plus the parameters someone diagnosing the
// table needs first.
func Unclassified(d geom.SurfaceDescriptor) string {
	switch d.Kind {
	case geom.KindPlane:
		return fmt.Sprintf("unclassified.plane_z%.1f", d.Centroid.Z)
	case geom.KindCylinder:
		return fmt.Sprintf("unclassified.cylinder_r%.1f", d.Radius)
	case geom.KindCone:
		return fmt.Sprintf("unclassified.cone_r%.1f_z%.1f", d.Radius, d.Centroid.Z)
	case geom.KindTorus:
		return fmt.Sprintf("unclassified.torus_mr%.1f", d.MinorRadius)
	default:
		return fmt.Sprintf("unclassified.%s_z%.1f", d.Kind, d.Centroid.Z)
	}
}
