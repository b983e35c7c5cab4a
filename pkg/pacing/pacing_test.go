package pacing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuzzyBounds(t *testing.T) {
	const min = 400 * time.Millisecond

	tests := []struct {
		name     string
		draw     float64
		expected time.Duration
	}{
		{
			name:     "lower bound",
			draw:     0.0,
			expected: min,
		},
		{
			name:     "midpoint",
			draw:     0.5,
			expected: min + min/2,
		},
		{
			name:     "just below upper bound",
			draw:     0.999,
			expected: min + time.Duration(0.999*float64(min)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var slept time.Duration
			p := NewFuzzyWithClock(min,
				func() float64 { return tt.draw },
				func(d time.Duration) { slept = d },
			)

			p.Pace()

			assert.Equal(t, tt.expected, slept)
			assert.GreaterOrEqual(t, slept, min)
			assert.Less(t, slept, 2*min)
		})
	}
}

func TestFuzzyRealSleepElapsesAtLeastMin(t *testing.T) {
	const min = 5 * time.Millisecond
	p := NewFuzzy(min)

	start := time.Now()
	p.Pace()
	elapsed := time.Since(start)

	require.GreaterOrEqual(t, elapsed, min)
}

func TestFuzzyDrawsVary(t *testing.T) {
	const min = time.Second

	var sleeps []time.Duration
	draws := []float64{0.1, 0.9, 0.4}
	i := 0
	p := NewFuzzyWithClock(min,
		func() float64 { d := draws[i%len(draws)]; i++; return d },
		func(d time.Duration) { sleeps = append(sleeps, d) },
	)

	p.Pace()
	p.Pace()
	p.Pace()

	require.Len(t, sleeps, 3)
	assert.NotEqual(t, sleeps[0], sleeps[1])
	for _, s := range sleeps {
		assert.GreaterOrEqual(t, s, min)
		assert.Less(t, s, 2*min)
	}
}

func TestNopNeverWaits(t *testing.T) {
	start := time.Now()
	Nop{}.Pace()
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}
