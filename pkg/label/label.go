// Package label runs the end-to-end pipeline: extract descriptors from a
// built solid, classify them, correlate the labels with the exported file's
// shell face order, and rewrite the face names in place. Every stage either
// completes or fails the whole run; the file on disk is only touched after
// the complete output text exists.
package label

import (
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/chazu/faceplate/pkg/classify"
	"github.com/chazu/faceplate/pkg/kernel"
	"github.com/chazu/faceplate/pkg/step"
)

// Summary reports what one labeling run produced.
type Summary struct {
	Labels       []string       // one per face, kernel traversal order
	Counts       map[string]int // labels grouped with index suffixes collapsed
	Unclassified int            // faces that fell into the unclassified bucket
}

// ClassifyAndLabel labels every face of the solid's exported interchange
// file at path. On success the file is rewritten in place with only the face
// name fields changed; on any error the file is left byte-identical to its
// pre-call state. Unclassified faces are not errors; they surface in the
// summary so the caller decides whether they fail the build.
func ClassifyAndLabel(solid kernel.Solid, path string, cfg *classify.Config) (*Summary, error) {
	descs, err := kernel.Extract(solid)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	labels, err := classify.Classify(descs, cfg)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	f, err := step.Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	out, err := f.Inject(labels)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(out), mode); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return Summarize(labels), nil
}

// Summarize groups a label sequence for reporting. Numeric index suffixes
// collapse so repeated features count together: bolt.hole_03 counts under
// bolt.hole, spoke_02.left under spoke.left.
func Summarize(labels []string) *Summary {
	s := &Summary{Labels: labels, Counts: make(map[string]int)}
	for _, l := range labels {
		if strings.HasPrefix(l, "unclassified.") {
			s.Unclassified++
		}
		s.Counts[GroupKey(l)]++
	}
	return s
}

// GroupKey strips trailing _NN index suffixes from each dotted segment of
// a label.
func GroupKey(label string) string {
	parts := strings.Split(label, ".")
	for i, p := range parts {
		parts[i] = stripIndex(p)
	}
	return strings.Join(parts, ".")
}

func stripIndex(s string) string {
	i := strings.LastIndexByte(s, '_')
	if i < 0 || i == len(s)-1 {
		return s
	}
	for _, c := range s[i+1:] {
		if c < '0' || c > '9' {
			return s
		}
	}
	return s[:i]
}

// SortedCounts returns the summary's group counts in label order, for
// stable run reports.
func (s *Summary) SortedCounts() []GroupCount {
	out := make([]GroupCount, 0, len(s.Counts))
	for k, n := range s.Counts {
		out = append(out, GroupCount{Label: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// GroupCount is one row of a run report.
type GroupCount struct {
	Label string
	Count int
}
