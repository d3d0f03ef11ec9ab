// Package particle provides value types shared by firework pattern tuning.
//
// Pattern parameters in the YAML profiles are either fixed numbers or
// uniform ranges, written in one of these forms:
//   - Fixed value: 9 or "9"
//   - Range string: "[8 11]" (random value between min and max)
//   - Sequence: [8, 11]
package particle

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Range is a uniform [Min, Max] interval. Min == Max means a fixed value.
type Range struct {
	Min float64
	Max float64
}

// Fixed returns a Range with Min == Max == v.
func Fixed(v float64) Range {
	return Range{Min: v, Max: v}
}

// Between returns a Range between min and max.
func Between(min, max float64) Range {
	return Range{Min: min, Max: max}
}

// ParseValue parses a value string from a profile.
// Supported formats:
//   - Fixed value: "1500" → min=1500, max=1500
//   - Range: "[0.7 0.9]" → min=0.7, max=0.9
//   - Single bracket value: "[3]" → min=3, max=3
//
// Reversed ranges are normalised so that Min <= Max.
func ParseValue(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, fmt.Errorf("empty value")
	}

	if strings.HasPrefix(s, "[") {
		if !strings.HasSuffix(s, "]") {
			return Range{}, fmt.Errorf("unterminated range %q", s)
		}
		parts := strings.Fields(strings.TrimSuffix(strings.TrimPrefix(s, "["), "]"))
		switch len(parts) {
		case 1:
			v, err := strconv.ParseFloat(parts[0], 64)
			if err != nil {
				return Range{}, fmt.Errorf("invalid range value %q: %w", s, err)
			}
			return Fixed(v), nil
		case 2:
			min, err1 := strconv.ParseFloat(parts[0], 64)
			max, err2 := strconv.ParseFloat(parts[1], 64)
			if err1 != nil || err2 != nil {
				return Range{}, fmt.Errorf("invalid range %q", s)
			}
			return normalize(min, max), nil
		default:
			return Range{}, fmt.Errorf("range %q must have one or two values", s)
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Range{}, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return Fixed(v), nil
}

// UnmarshalYAML accepts scalars ("[8 11]", "9", 9) and two-element sequences.
func (r *Range) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		parsed, err := ParseValue(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*r = parsed
		return nil
	case yaml.SequenceNode:
		var values []float64
		if err := node.Decode(&values); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		switch len(values) {
		case 1:
			*r = Fixed(values[0])
		case 2:
			*r = normalize(values[0], values[1])
		default:
			return fmt.Errorf("line %d: range must have one or two values, got %d", node.Line, len(values))
		}
		return nil
	default:
		return fmt.Errorf("line %d: range must be a scalar or a sequence", node.Line)
	}
}

// MarshalYAML writes the range back in "[min max]" form (fixed values as numbers).
func (r Range) MarshalYAML() (interface{}, error) {
	if r.Min == r.Max {
		return r.Min, nil
	}
	return fmt.Sprintf("[%s %s]",
		strconv.FormatFloat(r.Min, 'g', -1, 64),
		strconv.FormatFloat(r.Max, 'g', -1, 64)), nil
}

// Random draws a value from the range.
func (r Range) Random(rng *rand.Rand) float64 {
	return RandomInRange(rng, r.Min, r.Max)
}

// Span returns Max - Min.
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// Contains reports whether v lies within [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// RandomInRange returns a random float64 in the range [min, max].
func RandomInRange(rng *rand.Rand, min, max float64) float64 {
	if min >= max {
		return min
	}
	return min + rng.Float64()*(max-min)
}

func normalize(min, max float64) Range {
	if min > max {
		min, max = max, min
	}
	return Range{Min: min, Max: max}
}
