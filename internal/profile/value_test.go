package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueEquality(t *testing.T) {
	assert.True(t, Bool(true).Equal(Bool(true)))
	assert.False(t, Bool(true).Equal(Bool(false)))
	assert.True(t, Enum("fp").Equal(Enum("fp")))
	// Same textual form, different declared kind.
	assert.False(t, Enum("true").Equal(Bool(true)))
	assert.False(t, Value{}.Equal(Bool(false)))
}

func TestAttributeAdmits(t *testing.T) {
	tests := []struct {
		attr Attribute
		v    Value
		want bool
	}{
		{AttrProblemType, Enum("regression"), true},
		{AttrProblemType, Enum("fp"), false},
		{AttrProblemType, Bool(true), false},
		{AttrGaussian, Bool(false), true},
		{AttrGaussian, Enum("false"), false},
		{AttrErrorFocus, Enum("fn"), true},
		{AttrErrorFocus, Enum("unknown"), false},
		{Attribute("skewed"), Bool(true), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.attr)+"="+tt.v.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.attr.Admits(tt.v))
		})
	}
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue(AttrGaussian, true)
	require.NoError(t, err)
	assert.Equal(t, Bool(true), v)

	v, err = ParseValue(AttrProblemType, "time-series")
	require.NoError(t, err)
	assert.Equal(t, Enum("time-series"), v)

	_, err = ParseValue(AttrGaussian, "yes")
	require.ErrorIs(t, err, ErrInvalidProfile)

	_, err = ParseValue(AttrErrorFocus, "both")
	require.ErrorIs(t, err, ErrInvalidProfile)

	_, err = ParseValue(Attribute("rows"), 10)
	require.ErrorIs(t, err, ErrInvalidProfile)
}

func TestProfileValue(t *testing.T) {
	p := Profile{ProblemType: ProblemClustering, ClassImbalance: true, ErrorFocus: FocusFalseNegative}
	assert.Equal(t, Enum("clustering"), p.Value(AttrProblemType))
	assert.Equal(t, Bool(false), p.Value(AttrGaussian))
	assert.Equal(t, Bool(true), p.Value(AttrClassImbalance))
	assert.Equal(t, Enum("fn"), p.Value(AttrErrorFocus))
	assert.Equal(t, KindInvalid, p.Value(Attribute("rows")).Kind())
}

func TestAttributeRank(t *testing.T) {
	assert.Equal(t, 0, AttrProblemType.Rank())
	assert.Equal(t, 4, AttrErrorFocus.Rank())
	assert.Equal(t, -1, Attribute("rows").Rank())
}
