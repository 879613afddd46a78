package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(h, m int) time.Time {
	return time.Date(2024, 6, 3, h, m, 0, 0, time.UTC)
}

func iv(h1, m1, h2, m2 int) Interval {
	return Interval{Start: at(h1, m1), End: at(h2, m2)}
}

func TestOverlapsSymmetric(t *testing.T) {
	cases := []struct {
		a, b Interval
		want bool
	}{
		{iv(10, 0, 11, 0), iv(10, 30, 11, 30), true},
		{iv(10, 0, 11, 0), iv(11, 0, 12, 0), false},
		{iv(10, 0, 12, 0), iv(10, 30, 11, 0), true},
		{iv(9, 0, 9, 30), iv(10, 0, 10, 30), false},
		{iv(10, 0, 11, 0), iv(10, 0, 11, 0), true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Overlaps(tc.a, tc.b))
		assert.Equal(t, Overlaps(tc.a, tc.b), Overlaps(tc.b, tc.a))
	}
}

func TestTouchingIntervalsDoNotOverlap(t *testing.T) {
	assert.False(t, iv(10, 0, 11, 0).Overlaps(iv(11, 0, 12, 0)))
}

func TestWithin(t *testing.T) {
	outer := iv(9, 0, 17, 0)
	assert.True(t, iv(9, 0, 10, 0).Within(outer))
	assert.True(t, iv(16, 0, 17, 0).Within(outer))
	assert.False(t, iv(16, 30, 17, 30).Within(outer))
}

func TestSameCalendarDay(t *testing.T) {
	mx := time.FixedZone("CST", -6*3600)
	local := time.Date(2024, 6, 3, 20, 0, 0, 0, mx)

	// 2024-06-04 01:00 UTC это ещё 3 июня по местному времени
	assert.True(t, SameCalendarDay(local, time.Date(2024, 6, 4, 1, 0, 0, 0, time.UTC)))
	assert.False(t, SameCalendarDay(local, time.Date(2024, 6, 4, 7, 0, 0, 0, time.UTC)))
	assert.True(t, SameCalendarDay(at(0, 0), at(23, 59)))
}

func TestToAbsolute(t *testing.T) {
	got, err := ToAbsolute(at(0, 0), "13:45")
	require.NoError(t, err)
	assert.Equal(t, at(13, 45), got)

	_, err = ToAbsolute(at(0, 0), "1:45")
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)
}

func TestSubtract(t *testing.T) {
	window := iv(9, 0, 17, 0)
	busy := []Interval{
		iv(13, 0, 14, 0),
		iv(9, 0, 9, 30),
		iv(10, 0, 11, 0),
		iv(10, 30, 11, 30),
		iv(18, 0, 19, 0),
	}

	free := Subtract(window, busy)

	assert.Equal(t, []Interval{
		iv(9, 30, 10, 0),
		iv(11, 30, 13, 0),
		iv(14, 0, 17, 0),
	}, free)
}

func TestSubtractFullyBusy(t *testing.T) {
	assert.Empty(t, Subtract(iv(9, 0, 10, 0), []Interval{iv(8, 0, 11, 0)}))
	assert.Equal(t, []Interval{iv(9, 0, 10, 0)}, Subtract(iv(9, 0, 10, 0), nil))
}
