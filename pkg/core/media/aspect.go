package media

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultRatio is the universal fallback ratio (2:3) for unknown types.
const DefaultRatio = 2.0 / 3.0

// DefaultRatios maps each known type to its default display ratio.
var DefaultRatios = map[Type]float64{
	TypeMovie:   2.0 / 3.0,
	TypeTV:      2.0 / 3.0,
	TypeBook:    2.0 / 3.0,
	TypeAlbum:   1.0,
	TypePodcast: 1.0,
	TypeGame:    3.0 / 4.0,
}

// Resolver looks up display aspect ratios.
// The zero value uses [DefaultRatios] and [DefaultRatio].
type Resolver struct {
	Defaults map[Type]float64
	Fallback float64
}

// Resolve returns the item's display ratio using the default table.
func Resolve(it Item) float64 {
	return Resolver{}.Resolve(it)
}

// Resolve returns the item's display ratio. The result is always positive and finite.
func (r Resolver) Resolve(it Item) float64 {
	if it.AspectRatio != nil && ValidRatio(*it.AspectRatio) {
		return *it.AspectRatio
	}
	defaults := r.Defaults
	if defaults == nil {
		defaults = DefaultRatios
	}
	if v, ok := defaults[it.Type]; ok && ValidRatio(v) {
		return v
	}
	if ValidRatio(r.Fallback) {
		return r.Fallback
	}
	return DefaultRatio
}

// ValidRatio reports whether v is a usable aspect ratio: positive and finite.
func ValidRatio(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// ParseRatio parses "w:h", "w/h" or a decimal ratio such as "1.5".
func ParseRatio(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty aspect ratio")
	}
	for _, sep := range []string{":", "/"} {
		if w, h, ok := strings.Cut(s, sep); ok {
			wv, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
			if err != nil {
				return 0, fmt.Errorf("aspect ratio %q: %w", s, err)
			}
			hv, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
			if err != nil {
				return 0, fmt.Errorf("aspect ratio %q: %w", s, err)
			}
			if !ValidRatio(wv) || !ValidRatio(hv) {
				return 0, fmt.Errorf("aspect ratio %q: sides must be positive", s)
			}
			return wv / hv, nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("aspect ratio %q: %w", s, err)
	}
	if !ValidRatio(v) {
		return 0, fmt.Errorf("aspect ratio %q: must be positive", s)
	}
	return v, nil
}
