// SPDX-FileCopyrightText: 2026 Vantage Security Labs
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantage-sec/genai-risk/internal/types"
)

func points(scores ...float64) []scorePoint {
	out := make([]scorePoint, len(scores))
	for i, s := range scores {
		out[i] = scorePoint{Score: s}
	}
	return out
}

func TestTrendClassification(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   types.Trend
	}{
		{"no points", nil, types.TrendInsufficientData},
		{"two points", []float64{10, 50}, types.TrendInsufficientData},
		{"ascending", []float64{10, 30, 50}, types.TrendIncreasing},
		{"descending", []float64{50, 30, 10}, types.TrendDecreasing},
		{"flat", []float64{30, 30, 30}, types.TrendStable},
		{"noise within threshold", []float64{30, 31, 29, 30.5}, types.TrendStable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, trendOf(points(tt.scores...)))
		})
	}
}

func TestRegressionSlope(t *testing.T) {
	// Perfect line: slope 20 per assessment.
	assert.InDelta(t, 20.0, regressionSlope(points(10, 30, 50)), 0.001)
	assert.InDelta(t, -20.0, regressionSlope(points(50, 30, 10)), 0.001)
	assert.InDelta(t, 0.0, regressionSlope(points(30, 30, 30)), 0.001)
}

func TestPushScoreEvictsOldest(t *testing.T) {
	var history []scorePoint
	for i := 0; i < 15; i++ {
		history = pushScore(history, scorePoint{Score: float64(i)})
	}
	require.Len(t, history, historyCap)
	// Entries 0-4 were evicted; the oldest remaining is 5.
	assert.Equal(t, 5.0, history[0].Score)
	assert.Equal(t, 14.0, history[len(history)-1].Score)
}

func TestAnalyzerTrendAcrossCalls(t *testing.T) {
	a := bareAnalyzer()
	profile := internalProfile()

	// Same analyzer instance, rising severities: 10 -> 6.3, 30 -> 18.9,
	// 50 -> 31.5. Slope 12.6 clears the threshold on the third call.
	for i, severity := range []float64{10, 30, 50} {
		got, err := a.Analyze(measurements(map[string]float64{"promptInjection": severity}), profile)
		require.NoError(t, err)
		if i < 2 {
			assert.Equal(t, types.TrendInsufficientData, got.Trending)
		} else {
			assert.Equal(t, types.TrendIncreasing, got.Trending)
		}
	}
}

func TestAnalyzerTrendDecreasing(t *testing.T) {
	a := bareAnalyzer()
	profile := internalProfile()

	var last *types.RiskAssessment
	for _, severity := range []float64{50, 30, 10} {
		got, err := a.Analyze(measurements(map[string]float64{"promptInjection": severity}), profile)
		require.NoError(t, err)
		last = got
	}
	assert.Equal(t, types.TrendDecreasing, last.Trending)
}

func TestAnalyzersDoNotShareHistory(t *testing.T) {
	profile := internalProfile()
	a := bareAnalyzer()
	for _, severity := range []float64{10, 30} {
		_, err := a.Analyze(measurements(map[string]float64{"promptInjection": severity}), profile)
		require.NoError(t, err)
	}

	// A fresh analyzer starts with an empty history.
	b := bareAnalyzer()
	got, err := b.Analyze(measurements(map[string]float64{"promptInjection": 50}), profile)
	require.NoError(t, err)
	assert.Equal(t, types.TrendInsufficientData, got.Trending)
}
