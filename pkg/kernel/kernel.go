// Package kernel defines the boundary to the solid-modeling kernel.
// Faceplate never builds geometry itself; it consumes a solid a kernel has
// already built, through the Solid and Face interfaces, and extracts one
// immutable descriptor per face. The interface abstraction allows swapping
// kernel backends (a live B-rep kernel binding, the in-memory memsolid
// backend) without changing the rest of the system.
package kernel

import (
	"errors"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/faceplate/pkg/geom"
)

// ErrNilSolid is returned by Extract for an invalid kernel handle.
var ErrNilSolid = errors.New("kernel: nil solid handle")

// Face is one topological face of a built solid. The kind-specific query
// methods return zero values for kinds they do not apply to, mirroring how
// B-rep kernels expose surface adaptors.
type Face interface {
	Kind() geom.SurfaceKind
	Centroid() v3.Vec
	Bounds() sdf.Box3
	Area() float64

	Normal() v3.Vec       // plane
	Radius() float64      // cylinder, cone
	Axis() v3.Vec         // cylinder, cone, revolution
	Apex() v3.Vec         // cone
	MinorRadius() float64 // torus
}

// Solid is an opaque handle to a built solid. Faces returns the faces in the
// kernel's own traversal order; that order is the correlation contract with
// the exported file's shell record and must not be filtered or re-sorted.
type Solid interface {
	Faces() []Face
	Bounds() sdf.Box3
}

// Extract reads the solid's face list and produces one SurfaceDescriptor per
// face, in traversal order. It is a pure read: no face is skipped, including
// faces no classification rule will later resolve.
func Extract(s Solid) ([]geom.SurfaceDescriptor, error) {
	if s == nil {
		return nil, ErrNilSolid
	}
	faces := s.Faces()
	descs := make([]geom.SurfaceDescriptor, len(faces))
	for i, f := range faces {
		descs[i] = geom.SurfaceDescriptor{
			Index:       i,
			Kind:        f.Kind(),
			Normal:      f.Normal(),
			Radius:      f.Radius(),
			Axis:        f.Axis(),
			Apex:        f.Apex(),
			MinorRadius: f.MinorRadius(),
			Centroid:    f.Centroid(),
			Bounds:      f.Bounds(),
			Area:        f.Area(),
		}
	}
	return descs, nil
}
