package matching

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNormalizer_DefaultRanges(t *testing.T) {
	n, err := NewNormalizer(DefaultRanges())
	require.NoError(t, err)

	r, ok := n.Range(AttributeExperience)
	assert.True(t, ok)
	assert.Equal(t, Range{Lo: 0, Hi: 5}, r)
}

func TestNewNormalizer_RejectsInvalidRanges(t *testing.T) {
	tests := []struct {
		name   string
		ranges map[Attribute]Range
		attr   Attribute
	}{
		{
			name:   "degenerate",
			ranges: withRange(AttributeGPA, Range{Lo: 4, Hi: 4}),
			attr:   AttributeGPA,
		},
		{
			name:   "inverted",
			ranges: withRange(AttributeExperience, Range{Lo: 5, Hi: 0}),
			attr:   AttributeExperience,
		},
		{
			name:   "infinite",
			ranges: withRange(AttributeCertifications, Range{Lo: 0, Hi: math.Inf(1)}),
			attr:   AttributeCertifications,
		},
		{
			name: "missing",
			ranges: map[Attribute]Range{
				AttributeGPA:        {Lo: 0, Hi: 10},
				AttributeExperience: {Lo: 0, Hi: 5},
			},
			attr: AttributeCertifications,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewNormalizer(tt.ranges)
			assert.Nil(t, n)

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.attr, cfgErr.Attribute)
		})
	}
}

func TestNormalize_Bounds(t *testing.T) {
	n, err := NewNormalizer(DefaultRanges())
	require.NoError(t, err)

	tests := []struct {
		attr     Attribute
		raw      float64
		expected float64
	}{
		{AttributeGPA, 0, 0},
		{AttributeGPA, -3, 0},
		{AttributeGPA, 10, 1},
		{AttributeGPA, 12.5, 1},
		{AttributeGPA, 8.5, 0.85},
		{AttributeExperience, 1, 0.2},
		{AttributeExperience, 5, 1},
		{AttributeExperience, 7, 1},
		{AttributeCertifications, 2, 0.2},
		{AttributeCertifications, 0, 0},
	}

	for _, tt := range tests {
		got, err := n.Normalize(tt.attr, tt.raw)
		require.NoError(t, err)
		assert.InDelta(t, tt.expected, got, 1e-9, "%s(%v)", tt.attr, tt.raw)
	}
}

func TestNormalize_ExactAtEndpoints(t *testing.T) {
	n, err := NewNormalizer(map[Attribute]Range{
		AttributeGPA:            {Lo: 4, Hi: 9.7},
		AttributeExperience:     {Lo: 0.3, Hi: 2.9},
		AttributeCertifications: {Lo: 1, Hi: 3},
	})
	require.NoError(t, err)

	lo, err := n.Normalize(AttributeGPA, 4)
	require.NoError(t, err)
	hi, err := n.Normalize(AttributeGPA, 9.7)
	require.NoError(t, err)

	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)
}

func TestNormalize_AlwaysInUnitInterval(t *testing.T) {
	n, err := NewNormalizer(DefaultRanges())
	require.NoError(t, err)

	for raw := -20.0; raw <= 20; raw += 0.25 {
		for _, attr := range Attributes() {
			got, err := n.Normalize(attr, raw)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		}
	}
}

func TestNormalize_Errors(t *testing.T) {
	n, err := NewNormalizer(DefaultRanges())
	require.NoError(t, err)

	_, err = n.Normalize(Attribute("age"), 3)
	assert.ErrorIs(t, err, ErrUnknownAttribute)

	_, err = n.Normalize(AttributeGPA, math.NaN())
	var valErr *InvalidProfileValueError
	assert.True(t, errors.As(err, &valErr))
}

func withRange(attr Attribute, r Range) map[Attribute]Range {
	ranges := DefaultRanges()
	ranges[attr] = r
	return ranges
}
