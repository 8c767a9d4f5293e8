// Package geom defines the geometric face descriptor data model for
// faceplate. A SurfaceDescriptor is an immutable snapshot of one topological
// face of a B-rep solid: its surface kind, the kind-specific parameters, and
// the kind-independent centroid, bounding box, and area. Descriptors are
// extracted once per run and never mutated afterwards.
package geom

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// SurfaceKind identifies the geometric type of a face's underlying surface.
type SurfaceKind int

const (
	KindPlane SurfaceKind = iota
	KindCylinder
	KindCone
	KindTorus
	KindRevolution
	KindFreeform
	KindOther // anything the kernel reports outside the enum
)

func (k SurfaceKind) String() string {
	switch k {
	case KindPlane:
		return "plane"
	case KindCylinder:
		return "cylinder"
	case KindCone:
		return "cone"
	case KindTorus:
		return "torus"
	case KindRevolution:
		return "revolution"
	case KindFreeform:
		return "freeform"
	case KindOther:
		return "other"
	default:
		return fmt.Sprintf("SurfaceKind(%d)", int(k))
	}
}

// ParseKind converts a config/dump string into a SurfaceKind.
func ParseKind(s string) (SurfaceKind, error) {
	switch s {
	case "plane":
		return KindPlane, nil
	case "cylinder":
		return KindCylinder, nil
	case "cone":
		return KindCone, nil
	case "torus":
		return KindTorus, nil
	case "revolution":
		return KindRevolution, nil
	case "freeform":
		return KindFreeform, nil
	case "other":
		return KindOther, nil
	}
	return KindOther, fmt.Errorf("unknown surface kind %q", s)
}

// MarshalJSON encodes the kind as its string name so descriptor dump files
// stay readable and stable across enum reordering.
func (k SurfaceKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *SurfaceKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// SurfaceDescriptor describes one face of a solid. Kind-specific fields are
// zero for kinds they do not apply to:
//
//	Normal      plane
//	Radius      cylinder, cone
//	Axis        cylinder, cone, revolution
//	Apex        cone
//	MinorRadius torus
//
// Centroid, Bounds, and Area are populated for every kind.
type SurfaceDescriptor struct {
	Index       int         `json:"index"` // kernel traversal order
	Kind        SurfaceKind `json:"kind"`
	Normal      v3.Vec      `json:"normal,omitzero"`
	Radius      float64     `json:"radius,omitempty"`
	Axis        v3.Vec      `json:"axis,omitzero"`
	Apex        v3.Vec      `json:"apex,omitzero"`
	MinorRadius float64     `json:"minorRadius,omitempty"`
	Centroid    v3.Vec      `json:"centroid"`
	Bounds      sdf.Box3    `json:"bounds"`
	Area        float64     `json:"area,omitempty"`
}

// RadialDistance returns the XY-plane distance of the centroid from the
// Z axis, the radial coordinate used for band disambiguation.
func (d SurfaceDescriptor) RadialDistance() float64 {
	return math.Hypot(d.Centroid.X, d.Centroid.Y)
}

// AngleDeg returns the centroid's angular position around the Z axis in
// degrees, normalized to [0, 360).
func (d SurfaceDescriptor) AngleDeg() float64 {
	a := math.Atan2(d.Centroid.Y, d.Centroid.X) * 180.0 / math.Pi
	if a < 0 {
		a += 360
	}
	return a
}

// SpanX returns the bounding-box extent along X.
func (d SurfaceDescriptor) SpanX() float64 { return d.Bounds.Max.X - d.Bounds.Min.X }

// SpanY returns the bounding-box extent along Y.
func (d SurfaceDescriptor) SpanY() float64 { return d.Bounds.Max.Y - d.Bounds.Min.Y }

// SpanZ returns the bounding-box extent along Z.
func (d SurfaceDescriptor) SpanZ() float64 { return d.Bounds.Max.Z - d.Bounds.Min.Z }
