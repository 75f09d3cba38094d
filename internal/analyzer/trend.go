// SPDX-FileCopyrightText: 2026 Vantage Security Labs
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"time"

	"github.com/vantage-sec/genai-risk/internal/types"
)

// historyCap bounds the rolling score history used for trend detection.
const historyCap = 10

// slopeThreshold separates a real trend from noise: the regression slope
// must move more than one point per assessment.
const slopeThreshold = 1.0

// scorePoint is one entry in the rolling history.
type scorePoint struct {
	Score float64
	At    time.Time
}

// pushScore appends a point to the history, evicting the oldest entry
// when over capacity. Caller holds the analyzer lock.
func pushScore(history []scorePoint, p scorePoint) []scorePoint {
	history = append(history, p)
	if len(history) > historyCap {
		history = history[len(history)-historyCap:]
	}
	return history
}

// trendOf classifies the history by fitting a least-squares line of
// score against assessment index. Fewer than three points cannot
// establish a direction.
func trendOf(history []scorePoint) types.Trend {
	if len(history) < 3 {
		return types.TrendInsufficientData
	}
	slope := regressionSlope(history)
	switch {
	case slope > slopeThreshold:
		return types.TrendIncreasing
	case slope < -slopeThreshold:
		return types.TrendDecreasing
	default:
		return types.TrendStable
	}
}

// regressionSlope computes the ordinary least-squares slope of score
// versus index over the history.
func regressionSlope(history []scorePoint) float64 {
	n := float64(len(history))
	var sumX, sumY, sumXY, sumXX float64
	for i, p := range history {
		x := float64(i)
		sumX += x
		sumY += p.Score
		sumXY += x * p.Score
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}
