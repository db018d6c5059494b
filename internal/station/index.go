// Package station maps the fixed list of served stations to positions and
// compares station spans for job/laborer matching.
package station

import (
	"fmt"
	"strings"

	"github.com/cuongbtq/labour-market/internal/domain"
)

// DefaultNames returns the stations served when no list is configured, in line order
func DefaultNames() []string {
	return []string{"vasai", "nalasopara", "virar"}
}

// Index is an immutable ordered list of stations
type Index struct {
	names     []string
	positions map[string]int
}

// New builds an Index from names in line order. Names are normalized
// (trimmed, lower-cased); empty or duplicate names are rejected.
func New(names []string) (*Index, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("station list is empty")
	}

	idx := &Index{
		names:     make([]string, 0, len(names)),
		positions: make(map[string]int, len(names)),
	}

	for _, name := range names {
		key := normalize(name)
		if key == "" {
			return nil, fmt.Errorf("station name at position %d is empty", len(idx.names))
		}
		if _, dup := idx.positions[key]; dup {
			return nil, fmt.Errorf("duplicate station %q", key)
		}
		idx.positions[key] = len(idx.names)
		idx.names = append(idx.names, key)
	}

	return idx, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Names returns a copy of the station list
func (i *Index) Names() []string {
	out := make([]string, len(i.names))
	copy(out, i.names)
	return out
}

// IndexOf returns the position of a station, or -1 if it is unknown
func (i *Index) IndexOf(name string) int {
	pos, ok := i.positions[normalize(name)]
	if !ok {
		return -1
	}
	return pos
}

// Validate fails with ValidationFailed when name is not a known station
func (i *Index) Validate(name string) error {
	if strings.TrimSpace(name) == "" {
		return domain.Validationf("station is required")
	}
	if i.IndexOf(name) < 0 {
		return domain.Validationf("unknown station %q (allowed: %s)", name, strings.Join(i.names, ", "))
	}
	return nil
}

// ValidateRange validates both ends of a station range
func (i *Index) ValidateRange(r domain.StationRange) error {
	if err := i.Validate(r.From); err != nil {
		return err
	}
	return i.Validate(r.To)
}

// NormalizeRange validates r and returns it in the stored (trimmed, lower
// case) form
func (i *Index) NormalizeRange(r domain.StationRange) (domain.StationRange, error) {
	if err := i.ValidateRange(r); err != nil {
		return domain.StationRange{}, err
	}
	return domain.StationRange{From: normalize(r.From), To: normalize(r.To)}, nil
}

// span returns the inclusive (min, max) positions of a pair of stations
func (i *Index) span(from, to string) (start, end int, ok bool) {
	a, b := i.IndexOf(from), i.IndexOf(to)
	if a < 0 || b < 0 {
		return 0, 0, false
	}
	if a > b {
		a, b = b, a
	}
	return a, b, true
}

// Contains reports whether the job's span lies entirely within the laborer's span.
// Any unknown station yields false.
func (i *Index) Contains(jobFrom, jobTo, laborFrom, laborTo string) bool {
	jobStart, jobEnd, ok := i.span(jobFrom, jobTo)
	if !ok {
		return false
	}
	laborStart, laborEnd, ok := i.span(laborFrom, laborTo)
	if !ok {
		return false
	}
	return laborStart <= jobStart && jobEnd <= laborEnd
}

// OverlapStrength returns the fraction of the job's span covered by the
// laborer's span, in [0,1]. Unknown stations and disjoint spans yield 0.
func (i *Index) OverlapStrength(jobFrom, jobTo, laborFrom, laborTo string) float64 {
	jobStart, jobEnd, ok := i.span(jobFrom, jobTo)
	if !ok {
		return 0
	}
	laborStart, laborEnd, ok := i.span(laborFrom, laborTo)
	if !ok {
		return 0
	}

	overlapStart := max(jobStart, laborStart)
	overlapEnd := min(jobEnd, laborEnd)
	if overlapStart > overlapEnd {
		return 0
	}

	return float64(overlapEnd-overlapStart+1) / float64(jobEnd-jobStart+1)
}
