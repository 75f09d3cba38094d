// SPDX-FileCopyrightText: 2026 Vantage Security Labs
// SPDX-License-Identifier: Apache-2.0

// Package analyzer aggregates per-category vulnerability measurements
// into a calibrated risk assessment: score, level, confidence, trend,
// and a ranked mitigation plan.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/vantage-sec/genai-risk/internal/threatintel"
	"github.com/vantage-sec/genai-risk/internal/types"
)

// criticalFindingThreshold marks components whose adjusted risk (0-100)
// qualifies as a critical finding.
const criticalFindingThreshold = 70.0

// maxMitigations bounds the ranked mitigation list.
const maxMitigations = 5

// ErrNilVulnerabilities is returned when the caller passes a nil map
// instead of an (possibly empty) vulnerabilities map.
var ErrNilVulnerabilities = errors.New("vulnerabilities map is nil")

// Analyzer computes risk assessments. The only mutable state is the
// bounded score history used for trend detection, guarded by a mutex so
// a shared instance stays safe; the default remains one analyzer per
// assessment.
type Analyzer struct {
	intel *threatintel.Store

	mu      sync.Mutex
	history []scorePoint
	now     func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithClock injects a clock for deterministic timestamps in tests.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// New creates an analyzer backed by the given threat-intelligence store.
// A nil store disables threat-landscape adjustments: the multiplier is
// pinned to 1.0 and incident history is treated as empty.
func New(intel *threatintel.Store, opts ...Option) *Analyzer {
	a := &Analyzer{intel: intel, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CalculateRisk refreshes the threat-intelligence snapshot, then runs the
// same synchronous scoring path as Analyze. Use it from async callers
// that want the snapshot current before scoring.
func (a *Analyzer) CalculateRisk(ctx context.Context, vulns map[string]types.Measurement, profile *types.SystemProfile) (*types.RiskAssessment, error) {
	if a.intel != nil {
		if err := a.intel.Refresh(ctx); err != nil {
			return nil, fmt.Errorf("refreshing threat intelligence: %w", err)
		}
	}
	return a.Analyze(vulns, profile)
}

// Analyze scores the measured vulnerabilities against the deployment
// profile and returns a full assessment. It never fails for malformed
// measurements or a missing profile; those degrade to documented
// defaults. A nil vulnerabilities map is a caller bug and errors.
func (a *Analyzer) Analyze(vulns map[string]types.Measurement, profile *types.SystemProfile) (*types.RiskAssessment, error) {
	if vulns == nil {
		return nil, ErrNilVulnerabilities
	}
	start := a.now()
	resolved := profile.WithDefaults()

	components := make(map[string]types.ComponentRisk, len(vulns))
	var candidates []types.Mitigation
	var totalWeighted, weightSum float64
	active := 0

	for category, m := range vulns {
		w := weightsFor(category)
		baseFrac := (m.Severity / 100) * w.Impact * w.Likelihood
		modifier, factors := a.contextualModifier(category, m, resolved)
		adjustedFrac := baseFrac * modifier

		totalWeighted += adjustedFrac * w.Weight
		weightSum += w.Weight

		components[category] = types.ComponentRisk{
			Category:        category,
			Severity:        m.Severity,
			Impact:          w.Impact,
			Likelihood:      w.Likelihood,
			Weight:          w.Weight,
			BaseRisk:        round1(baseFrac * 100),
			Modifier:        modifier,
			ModifierFactors: factors,
			AdjustedRisk:    round1(adjustedFrac * 100),
			WeightedRisk:    round1(adjustedFrac * w.Weight * 100),
		}

		if m.Severity > 0 {
			active++
			candidates = append(candidates, buildMitigation(category, adjustedFrac))
		}
	}

	multiplier := 1.0
	if a.intel != nil {
		multiplier = a.intel.ThreatMultiplier(vulns, resolved)
	}

	// Aggregate as the weighted average over measured categories so a
	// single severe category is not diluted by the weights of
	// categories that were never measured.
	var aggregate float64
	if weightSum > 0 {
		aggregate = totalWeighted / weightSum
	}
	score := round1(math.Min(100, aggregate*multiplier*100))

	a.mu.Lock()
	a.history = pushScore(a.history, scorePoint{Score: score, At: start})
	trend := trendOf(a.history)
	a.mu.Unlock()

	mitigations := rankMitigations(candidates)
	critical := criticalFindings(components)
	confidence := confidenceFor(components)
	level := types.LevelForScore(score)

	assessment := &types.RiskAssessment{
		Score:                 score,
		Level:                 level,
		Confidence:            confidence,
		ThreatMultiplier:      multiplier,
		Trending:              trend,
		ActiveVulnerabilities: active,
		ComponentRisks:        components,
		MitigationPriority:    mitigations,
		CriticalFindings:      critical,
		GeneratedAt:           start,
		Duration:              a.now().Sub(start),
	}
	assessment.ExecutiveSummary = executiveSummary(assessment)
	return assessment, nil
}

// contextualModifier compounds the deployment-context multipliers for
// one category and names the contributing factors.
func (a *Analyzer) contextualModifier(category string, m types.Measurement, profile types.ResolvedProfile) (float64, []string) {
	modifier := 1.0
	var factors []string

	if profile.PublicFacing || m.PubliclyExposed() {
		modifier *= 1.5
		factors = append(factors, "public_exposure")
	}
	if profile.HandlesSensitiveData() || m.HandlesSensitiveData() {
		modifier *= 1.3
		factors = append(factors, "sensitive_data")
	}
	if profile.CriticalBusinessFunction() {
		modifier *= 1.2
		factors = append(factors, "critical_business_function")
	}
	if profile.ComplianceRequired() {
		modifier *= 1.2
		factors = append(factors, "compliance_required")
	}
	if profile.PreviousIncidents > 0 || (a.intel != nil && a.intel.HasPreviousIncidents(category)) {
		modifier *= 1.25
		factors = append(factors, "previous_incidents")
	}

	return modifier, factors
}

// buildMitigation derives the remediation candidate for one active
// category. adjustedFrac is the 0-1 adjusted risk.
func buildMitigation(category string, adjustedFrac float64) types.Mitigation {
	s := strategyFor(category)
	reduction := math.Min(0.9, adjustedFrac*s.Effectiveness)
	return types.Mitigation{
		Vulnerability: category,
		CurrentRisk:   round1(adjustedFrac * 100),
		PriorityScore: (reduction * s.Feasibility) / s.Cost,
		Strategy:      s.Description,
		Effort:        s.Effort,
		RiskReduction: reduction,
		TimeEstimate:  s.TimeEstimate,
	}
}

// rankMitigations sorts candidates by priority score descending and
// keeps the top five. Ties break on category name for stable output.
func rankMitigations(candidates []types.Mitigation) []types.Mitigation {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].PriorityScore != candidates[j].PriorityScore {
			return candidates[i].PriorityScore > candidates[j].PriorityScore
		}
		return candidates[i].Vulnerability < candidates[j].Vulnerability
	})
	if len(candidates) > maxMitigations {
		candidates = candidates[:maxMitigations]
	}
	return candidates
}

// criticalFindings returns components at or above the critical adjusted
// risk threshold, most severe first.
func criticalFindings(components map[string]types.ComponentRisk) []types.ComponentRisk {
	var out []types.ComponentRisk
	for _, c := range components {
		if c.AdjustedRisk >= criticalFindingThreshold {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AdjustedRisk != out[j].AdjustedRisk {
			return out[i].AdjustedRisk > out[j].AdjustedRisk
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// confidenceFor estimates how much to trust the assessment: a base of
// 50, up to 20 for measurement breadth, up to 15 for active-finding
// depth, and up to 15 for consistency of the adjusted risks. Only
// categories with observed findings contribute; an all-zero scan stays
// at the base 50.
func confidenceFor(components map[string]types.ComponentRisk) float64 {
	var adjusted []float64
	for _, c := range components {
		if c.Severity > 0 {
			adjusted = append(adjusted, c.AdjustedRisk)
		}
	}
	active := len(adjusted)

	confidence := 50.0
	confidence += math.Min(20, 2*float64(active))
	confidence += math.Min(15, 3*float64(active))

	if active > 0 {
		m := mean(adjusted)
		if m > 0 {
			consistency := 1 - stddev(adjusted, m)/m
			if consistency < 0 {
				consistency = 0
			}
			confidence += 15 * consistency
		}
	}

	if confidence > 100 {
		confidence = 100
	}
	if confidence < 0 {
		confidence = 0
	}
	return round1(confidence)
}

// executiveSummary builds the prose digest from a finished assessment.
func executiveSummary(a *types.RiskAssessment) types.ExecutiveSummary {
	headline := fmt.Sprintf("%s risk: overall score %.1f/100", a.Level, a.Score)
	summary := fmt.Sprintf(
		"%d of %d measured categories show active findings; the current posture %s.",
		a.ActiveVulnerabilities, len(a.ComponentRisks), levelPhrase(a.Level))

	recommendation := "No active vulnerabilities detected; continue monitoring and periodic re-scanning."
	if len(a.MitigationPriority) > 0 {
		top := a.MitigationPriority[0]
		recommendation = fmt.Sprintf("Prioritize %q (%s effort, %s).",
			top.Strategy, top.Effort, top.TimeEstimate)
	}

	return types.ExecutiveSummary{
		Headline:       headline,
		Summary:        summary,
		Recommendation: recommendation,
		KeyMetrics: types.KeyMetrics{
			Score:                 a.Score,
			Level:                 a.Level,
			ActiveVulnerabilities: a.ActiveVulnerabilities,
			CriticalFindings:      len(a.CriticalFindings),
			Confidence:            a.Confidence,
			Trend:                 a.Trending,
		},
	}
}

// levelPhrase returns the severity-keyed phrase used in the summary
// sentence.
func levelPhrase(level types.RiskLevel) string {
	switch level {
	case types.LevelCritical:
		return "demands immediate remediation"
	case types.LevelHigh:
		return "requires prompt attention"
	case types.LevelMedium:
		return "warrants scheduled remediation"
	case types.LevelLow:
		return "is within tolerable bounds"
	default:
		return "shows no significant exposure"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64, m float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
