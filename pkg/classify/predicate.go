package classify

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/faceplate/pkg/geom"
)

// evalGuard evaluates a feature's guard expression against one face. Each
// evaluation runs in a fresh sandboxed zygomys environment for determinism;
// the face's fields are bound as globals via a generated prelude:
//
//	cx cy cz   centroid
//	r          centroid radial distance from the Z axis
//	angle      centroid angle (degrees, [0,360))
//	radius minor area
//	nx ny nz   plane normal components
//	xspan yspan zspan
//	kind       surface kind name, e.g. "cylinder"
//
// The expression must evaluate to a boolean.
func evalGuard(expr string, d geom.SurfaceDescriptor) (bool, error) {
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerGuardBuiltins(env)

	src := guardPrelude(d) + strings.TrimSpace(expr)
	if err := env.LoadString(src); err != nil {
		return false, fmt.Errorf("guard %q: %w", expr, err)
	}
	result, err := env.Run()
	if err != nil {
		return false, fmt.Errorf("guard %q: %w", expr, err)
	}
	b, ok := result.(*zygo.SexpBool)
	if !ok {
		return false, fmt.Errorf("guard %q: evaluated to %s, want a boolean",
			expr, result.SexpString(nil))
	}
	return b.Val, nil
}

// registerGuardBuiltins installs the numeric helpers guard expressions
// need beyond the sandbox's arithmetic.
func registerGuardBuiltins(env *zygo.Zlisp) {
	env.AddFunction("abs", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("abs: want 1 argument, got %d", len(args))
		}
		f, err := guardFloat(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("abs: %w", err)
		}
		return &zygo.SexpFloat{Val: math.Abs(f)}, nil
	})
	env.AddFunction("hypot", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("hypot: want 2 arguments, got %d", len(args))
		}
		a, err := guardFloat(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("hypot: %w", err)
		}
		b, err := guardFloat(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("hypot: %w", err)
		}
		return &zygo.SexpFloat{Val: math.Hypot(a, b)}, nil
	})
}

// guardFloat extracts a float64 from a Sexp (SexpInt or SexpFloat).
func guardFloat(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// guardPrelude generates the (def ...) bindings for one face.
func guardPrelude(d geom.SurfaceDescriptor) string {
	var b strings.Builder
	def := func(name string, v float64) {
		fmt.Fprintf(&b, "(def %s %s)\n", name, floatLit(v))
	}
	def("cx", d.Centroid.X)
	def("cy", d.Centroid.Y)
	def("cz", d.Centroid.Z)
	def("r", d.RadialDistance())
	def("angle", d.AngleDeg())
	def("radius", d.Radius)
	def("minor", d.MinorRadius)
	def("area", d.Area)
	def("nx", d.Normal.X)
	def("ny", d.Normal.Y)
	def("nz", d.Normal.Z)
	def("xspan", d.SpanX())
	def("yspan", d.SpanY())
	def("zspan", d.SpanZ())
	fmt.Fprintf(&b, "(def kind %q)\n", d.Kind.String())
	return b.String()
}

// floatLit renders a float so zygomys parses it as a float, never an int.
// Mixed int/float arithmetic is where guard expressions go to die.
func floatLit(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
