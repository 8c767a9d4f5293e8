// Package classify maps surface descriptors to semantic face labels using
// per-part-family feature tables. The decision procedure dispatches on
// surface kind, matches extracted parameters against nominal values within
// absolute tolerance bands, disambiguates with centroid/bounding-box bands,
// and resolves angular patterns and left/right sides. Classification is a
// pure function of (descriptors, config); the only state is a per-call
// counter for numbering repeated features.
package classify

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/chazu/faceplate/pkg/geom"
)

// DefaultTol is the absolute tolerance used when a feature omits tol.
// Typical bands in the part tables run 0.1–0.5 length units.
const DefaultTol = 0.25

// defaultNormalTol bounds |1 - |n·ref|| for plane normal alignment.
const defaultNormalTol = 0.1

// PartInfo names the part family a feature table describes.
type PartInfo struct {
	Name  string `toml:"name"`
	Units string `toml:"units"`
}

// Band is a one-dimensional acceptance band, either nominal±tol or min/max.
type Band struct {
	Nominal *float64 `toml:"nominal"`
	Tol     *float64 `toml:"tol"`
	Min     *float64 `toml:"min"`
	Max     *float64 `toml:"max"`
}

// contains reports whether v falls inside the band.
func (b *Band) contains(v float64) bool {
	if b.Nominal != nil {
		tol := DefaultTol
		if b.Tol != nil {
			tol = *b.Tol
		}
		if v < *b.Nominal-tol || v > *b.Nominal+tol {
			return false
		}
	}
	if b.Min != nil && v < *b.Min {
		return false
	}
	if b.Max != nil && v > *b.Max {
		return false
	}
	return true
}

// Pattern describes a radially repeated feature arrangement.
type Pattern struct {
	Count  int     `toml:"count"`
	Width  float64 `toml:"width"`  // sector width in degrees; 0 means 360/count
	Start  float64 `toml:"start"`  // angle of the pattern's reference direction
	Offset bool    `toml:"offset"` // half-step convention for between-arm features
}

// Span constrains a bounding-box extent along one axis.
type Span struct {
	Axis string   `toml:"axis"` // "x", "y", or "z"
	Min  *float64 `toml:"min"`
	Max  *float64 `toml:"max"`
}

// Feature is one classification rule. Features are tried in table order and
// the first full match wins, so tables must list the most specific rules
// first.
type Feature struct {
	Name string `toml:"name"`
	Kind string `toml:"kind"` // surface kind name, or "any"

	// Nominal parameters, matched within tol of the measured value.
	Radius      *float64 `toml:"radius"`       // cylinder, cone
	MinorRadius *float64 `toml:"minor-radius"` // torus
	Tol         *float64 `toml:"tol"`

	// Plane orientation.
	Normal     []float64 `toml:"normal"` // required alignment direction, unsigned
	NormalTol  *float64  `toml:"normal-tol"`
	MinNormalZ *float64  `toml:"min-normal-z"` // bounds on |normal.Z|
	MaxNormalZ *float64  `toml:"max-normal-z"`

	// Centroid bands.
	Height    *float64 `toml:"height"` // nominal centroid Z
	HeightTol *float64 `toml:"height-tol"`
	ZMin      *float64 `toml:"zmin"`
	ZMax      *float64 `toml:"zmax"`
	Radial    *Band    `toml:"radial"` // centroid distance from the Z axis

	// Bounding-box band.
	Span *Span `toml:"span"`

	// Label modifiers.
	Pattern *Pattern `toml:"pattern"`
	Side    bool     `toml:"side"`
	Left    string   `toml:"left"`
	Right   string   `toml:"right"`
	Indexed bool     `toml:"indexed"`

	// Optional guard expression, evaluated in a sandboxed Lisp environment
	// with the face's fields bound. Must yield a boolean.
	When string `toml:"when"`

	kind    geom.SurfaceKind // resolved by Validate
	anyKind bool
}

// Config is a complete feature table for one part family.
type Config struct {
	Part     PartInfo  `toml:"part"`
	Features []Feature `toml:"feature"`
}

// Parse decodes a TOML feature table and validates it. Unknown keys are
// rejected so a typoed disambiguator cannot silently widen a rule.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("classify: parse feature table: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads and parses a feature table file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks table-level invariants and resolves kind strings.
func (c *Config) Validate() error {
	if len(c.Features) == 0 {
		return fmt.Errorf("classify: feature table has no features")
	}
	for i := range c.Features {
		f := &c.Features[i]
		if f.Name == "" {
			return fmt.Errorf("classify: feature %d has no name", i)
		}
		if strings.ContainsAny(f.Name, "'\n\r") {
			return fmt.Errorf("classify: feature %q: name contains bytes that cannot appear in a STEP name string", f.Name)
		}
		if f.Kind == "any" {
			f.anyKind = true
		} else {
			k, err := geom.ParseKind(f.Kind)
			if err != nil {
				return fmt.Errorf("classify: feature %q: %w", f.Name, err)
			}
			f.kind = k
		}
		if f.Tol != nil && *f.Tol < 0 {
			return fmt.Errorf("classify: feature %q: negative tolerance", f.Name)
		}
		if f.Normal != nil && len(f.Normal) != 3 {
			return fmt.Errorf("classify: feature %q: normal must have 3 components", f.Name)
		}
		if f.Pattern != nil {
			if f.Pattern.Count <= 0 {
				return fmt.Errorf("classify: feature %q: pattern count must be positive", f.Name)
			}
			if f.Pattern.Width < 0 {
				return fmt.Errorf("classify: feature %q: negative pattern width", f.Name)
			}
		}
		if f.Span != nil {
			switch f.Span.Axis {
			case "x", "y", "z":
			default:
				return fmt.Errorf("classify: feature %q: span axis must be x, y, or z", f.Name)
			}
		}
	}
	return nil
}

// tol returns the feature's parameter tolerance.
func (f *Feature) tol() float64 {
	if f.Tol != nil {
		return *f.Tol
	}
	return DefaultTol
}

// heightTol returns the tolerance for the centroid-height match, falling
// back to the feature's parameter tolerance.
func (f *Feature) heightTol() float64 {
	if f.HeightTol != nil {
		return *f.HeightTol
	}
	return f.tol()
}
