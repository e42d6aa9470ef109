package matching

import (
	"fmt"
	"math"
)

// Attribute names a numeric profile attribute.
type Attribute string

const (
	AttributeGPA            Attribute = "gpa"
	AttributeExperience     Attribute = "experience_years"
	AttributeCertifications Attribute = "certification_count"
)

// Attributes returns the numeric attributes in scoring order.
func Attributes() []Attribute {
	return []Attribute{AttributeGPA, AttributeExperience, AttributeCertifications}
}

// Range is a closed reference interval used for min-max normalization.
type Range struct {
	Lo float64 `mapstructure:"lo" json:"lo" yaml:"lo"`
	Hi float64 `mapstructure:"hi" json:"hi" yaml:"hi"`
}

// DefaultRanges returns the reference intervals: GPA on a 10 point scale,
// up to 5 years of experience and up to 10 certifications.
func DefaultRanges() map[Attribute]Range {
	return map[Attribute]Range{
		AttributeGPA:            {Lo: 0, Hi: 10},
		AttributeExperience:     {Lo: 0, Hi: 5},
		AttributeCertifications: {Lo: 0, Hi: 10},
	}
}

// Normalizer maps raw attribute values into [0, 1].
type Normalizer struct {
	ranges map[Attribute]Range
}

// NewNormalizer validates ranges and returns a Normalizer. Every attribute in
// Attributes must be present with a finite, non-degenerate interval.
func NewNormalizer(ranges map[Attribute]Range) (*Normalizer, error) {
	copied := make(map[Attribute]Range, len(ranges))
	for _, attr := range Attributes() {
		r, ok := ranges[attr]
		if !ok {
			return nil, &ConfigurationError{Attribute: attr, Reason: "range not configured"}
		}
		if err := validateRange(attr, r); err != nil {
			return nil, err
		}
		copied[attr] = r
	}
	return &Normalizer{ranges: copied}, nil
}

func validateRange(attr Attribute, r Range) error {
	switch {
	case !isFinite(r.Lo) || !isFinite(r.Hi):
		return &ConfigurationError{Attribute: attr, Range: r, Reason: "bounds must be finite"}
	case r.Hi == r.Lo:
		return &ConfigurationError{Attribute: attr, Range: r, Reason: "hi equals lo"}
	case r.Hi < r.Lo:
		return &ConfigurationError{Attribute: attr, Range: r, Reason: "hi is below lo"}
	}
	return nil
}

// Normalize returns clamp((raw-lo)/(hi-lo), 0, 1) for the attribute.
func (n *Normalizer) Normalize(attr Attribute, raw float64) (float64, error) {
	r, ok := n.ranges[attr]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownAttribute, attr)
	}
	if !isFinite(raw) {
		return 0, &InvalidProfileValueError{Field: string(attr), Value: raw}
	}
	if raw <= r.Lo {
		return 0, nil
	}
	if raw >= r.Hi {
		return 1, nil
	}
	return (raw - r.Lo) / (r.Hi - r.Lo), nil
}

// Range returns the configured interval for attr.
func (n *Normalizer) Range(attr Attribute) (Range, bool) {
	r, ok := n.ranges[attr]
	return r, ok
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
