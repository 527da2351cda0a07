package bulk

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBool(t *testing.T) {
	for _, v := range []any{"TRUE", "true", "Yes", "y", "Y", "1", "On", " on ", true, 1.0, 3, -2} {
		assert.True(t, ParseBool(v, false), "%#v", v)
	}
	for _, v := range []any{"FALSE", "No", "n", "0", "Off", false, 0.0, 0} {
		assert.False(t, ParseBool(v, true), "%#v", v)
	}
	for _, v := range []any{nil, "", "   ", "maybe"} {
		assert.True(t, ParseBool(v, true), "%#v", v)
		assert.False(t, ParseBool(v, false), "%#v", v)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   any
		want *float64
	}{
		{nil, nil},
		{"", nil},
		{"  ", nil},
		{"abc", nil},
		{"1,000", nil},
		{"NaN", nil},
		{math.Inf(1), nil},
		{"12.5", ptr(12.5)},
		{" 7 ", ptr(7.0)},
		{3, ptr(3.0)},
		{int64(9), ptr(9.0)},
		{4.25, ptr(4.25)},
		{true, ptr(1.0)},
		{json.Number("18"), ptr(18.0)},
	}
	for _, tt := range tests {
		got := ParseNumber(tt.in)
		if tt.want == nil {
			assert.Nil(t, got, "%#v", tt.in)
			continue
		}
		require.NotNil(t, got, "%#v", tt.in)
		assert.Equal(t, *tt.want, *got, "%#v", tt.in)
	}
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	id, ok = ParseID(42.0)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	id, ok = ParseID("9223372036854774784")
	assert.True(t, ok)
	assert.Equal(t, int64(9223372036854774784), id)

	for _, bad := range []any{nil, "", "0", -3, 4.5, "abc", "9223372036854775808", 1e19} {
		_, ok := ParseID(bad)
		assert.False(t, ok, "%#v", bad)
	}
}

func TestText(t *testing.T) {
	assert.Equal(t, "Drinks", Text("  Drinks "))
	assert.Equal(t, "12", Text(12.0))
	assert.Equal(t, "12.5", Text(12.5))
	assert.Equal(t, "7", Text(7))
	assert.Equal(t, "", Text(nil))
	assert.Nil(t, OptionalText("   "))
	assert.Equal(t, "x", *OptionalText(" x"))
}

func TestRowEmpty(t *testing.T) {
	assert.True(t, Row{Number: 5}.Empty())
	assert.True(t, Row{Number: 5, Values: map[string]any{"Action": "", "Category Name": "  ", "Sort Order": nil}}.Empty())
	assert.False(t, Row{Values: map[string]any{"Sort Order": 0}}.Empty())
	assert.False(t, Row{Values: map[string]any{"Is Visible": false}}.Empty())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		in         any
		want       Action
		recognized bool
	}{
		{nil, ActionCreate, true},
		{"", ActionCreate, true},
		{"Create", ActionCreate, true},
		{"UPDATE", ActionUpdate, true},
		{" edit ", ActionUpdate, true},
		{"Change", ActionUpdate, true},
		{"delete", ActionDelete, true},
		{"Remove", ActionDelete, true},
		{"upsert", ActionCreate, false},
		{"delte", ActionCreate, false},
		{7, ActionCreate, false},
	}
	for _, tt := range tests {
		got, recognized := Classify(tt.in)
		assert.Equal(t, tt.want, got, "%#v", tt.in)
		assert.Equal(t, tt.recognized, recognized, "%#v", tt.in)
	}
}

func ptr[T any](v T) *T { return &v }
