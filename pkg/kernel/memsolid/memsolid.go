// Package memsolid implements the kernel interfaces over already-extracted
// surface descriptors. It is the backend used by tests and by descriptor-dump
// files: a kernel harness runs next to the live modeling kernel, serializes
// one descriptor per face, and faceplate replays them here without linking
// the kernel itself.
package memsolid

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/faceplate/pkg/geom"
	"github.com/chazu/faceplate/pkg/kernel"
)

// Compile-time interface checks.
var (
	_ kernel.Solid = (*Solid)(nil)
	_ kernel.Face  = (*face)(nil)
)

// Solid replays a fixed descriptor sequence as a kernel.Solid.
type Solid struct {
	faces []kernel.Face
}

// face wraps one descriptor to implement kernel.Face.
type face struct {
	d geom.SurfaceDescriptor
}

func (f *face) Kind() geom.SurfaceKind { return f.d.Kind }
func (f *face) Centroid() v3.Vec       { return f.d.Centroid }
func (f *face) Bounds() sdf.Box3       { return f.d.Bounds }
func (f *face) Area() float64          { return f.d.Area }
func (f *face) Normal() v3.Vec         { return f.d.Normal }
func (f *face) Radius() float64        { return f.d.Radius }
func (f *face) Axis() v3.Vec           { return f.d.Axis }
func (f *face) Apex() v3.Vec           { return f.d.Apex }
func (f *face) MinorRadius() float64   { return f.d.MinorRadius }

// New wraps a descriptor sequence. The sequence order is preserved as the
// solid's face traversal order.
func New(descs []geom.SurfaceDescriptor) *Solid {
	s := &Solid{faces: make([]kernel.Face, len(descs))}
	for i, d := range descs {
		s.faces[i] = &face{d: d}
	}
	return s
}

// Faces returns the wrapped faces in replay order.
func (s *Solid) Faces() []kernel.Face { return s.faces }

// Bounds returns the union of all face bounding boxes.
func (s *Solid) Bounds() sdf.Box3 {
	var bb sdf.Box3
	for i, f := range s.faces {
		fb := f.Bounds()
		if i == 0 {
			bb = fb
			continue
		}
		bb.Min.X = math.Min(bb.Min.X, fb.Min.X)
		bb.Min.Y = math.Min(bb.Min.Y, fb.Min.Y)
		bb.Min.Z = math.Min(bb.Min.Z, fb.Min.Z)
		bb.Max.X = math.Max(bb.Max.X, fb.Max.X)
		bb.Max.Y = math.Max(bb.Max.Y, fb.Max.Y)
		bb.Max.Z = math.Max(bb.Max.Z, fb.Max.Z)
	}
	return bb
}

// ReadFile loads a JSON descriptor dump (an array of surface descriptors in
// kernel traversal order) and wraps it as a Solid.
func ReadFile(path string) (*Solid, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("memsolid: %w", err)
	}
	var descs []geom.SurfaceDescriptor
	if err := json.Unmarshal(raw, &descs); err != nil {
		return nil, fmt.Errorf("memsolid: parse %s: %w", path, err)
	}
	return New(descs), nil
}
