package bulk

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryDisplay_TruncatesToTen(t *testing.T) {
	s := newSummary()
	s.Created = 3
	for i := 0; i < 13; i++ {
		s.fail(i+2, invalid("Item Name is required"))
	}

	v := s.Display()
	assert.Equal(t, 13, v.ErrorCount)
	require.Len(t, v.Errors, DisplayLimit)
	assert.Equal(t, "Row 2: Item Name is required", v.Errors[0])
	assert.Equal(t, 3, v.More)
	assert.Len(t, s.Errors, 13, "display never trims the summary")
	assert.Contains(t, v.String(), "... and 3 more")
	assert.Contains(t, v.String(), "Created: 3")
}

func TestSummaryDisplay_NoErrors(t *testing.T) {
	s := newSummary()
	s.Updated = 2
	v := s.Display()
	assert.Zero(t, v.More)
	assert.NotNil(t, v.Errors)
	assert.NotContains(t, v.String(), "Errors")
}

func TestKind(t *testing.T) {
	assert.Equal(t, "validation", Kind(invalid("x")))
	assert.Equal(t, "resolution", Kind(&ResolutionError{Entity: "Item", Name: "Tea"}))
	assert.Equal(t, "cascade", Kind(&CascadeError{Step: "Day pricing", Err: errors.New("x")}))
	assert.Equal(t, "remote", Kind(&RemoteError{Op: "Delete item", Err: errors.New("x")}))
	assert.Equal(t, "remote", Kind(errors.New("plain")))
}

func TestBuildSchedule(t *testing.T) {
	all := BuildSchedule(12, nil)
	require.Len(t, all, 7)
	for _, e := range all {
		assert.True(t, e.IsActive)
		assert.Equal(t, 12.0, e.Price)
	}

	some := BuildSchedule(12, map[int]float64{0: 15})
	assert.True(t, some[0].IsActive)
	assert.Equal(t, 15.0, some[0].Price)
	assert.False(t, some[3].IsActive)
	assert.Equal(t, 12.0, some[3].Price)
}
