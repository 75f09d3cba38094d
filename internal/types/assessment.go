// SPDX-FileCopyrightText: 2026 Vantage Security Labs
// SPDX-License-Identifier: Apache-2.0

package types

import "time"

// RiskLevel is the five-bucket classification of an aggregate score.
type RiskLevel string

const (
	LevelCritical RiskLevel = "CRITICAL"
	LevelHigh     RiskLevel = "HIGH"
	LevelMedium   RiskLevel = "MEDIUM"
	LevelLow      RiskLevel = "LOW"
	LevelMinimal  RiskLevel = "MINIMAL"
)

// LevelForScore classifies a 0-100 score. Thresholds are inclusive lower
// bounds: 80 is CRITICAL, 79.9 is HIGH.
func LevelForScore(score float64) RiskLevel {
	switch {
	case score >= 80:
		return LevelCritical
	case score >= 60:
		return LevelHigh
	case score >= 40:
		return LevelMedium
	case score >= 20:
		return LevelLow
	default:
		return LevelMinimal
	}
}

// Rank returns a numeric rank for level comparison (higher = worse).
func (l RiskLevel) Rank() int {
	switch l {
	case LevelCritical:
		return 5
	case LevelHigh:
		return 4
	case LevelMedium:
		return 3
	case LevelLow:
		return 2
	case LevelMinimal:
		return 1
	default:
		return 0
	}
}

// Trend describes the direction of the rolling score history.
type Trend string

const (
	TrendIncreasing       Trend = "increasing"
	TrendDecreasing       Trend = "decreasing"
	TrendStable           Trend = "stable"
	TrendInsufficientData Trend = "insufficient_data"
)

// ThreatLevel is the threat-landscape classification from the
// threat-intelligence store.
type ThreatLevel string

const (
	ThreatCritical ThreatLevel = "CRITICAL"
	ThreatHigh     ThreatLevel = "HIGH"
	ThreatMedium   ThreatLevel = "MEDIUM"
	ThreatLow      ThreatLevel = "LOW"
)

// ComponentRisk is the per-category risk breakdown. BaseRisk, AdjustedRisk
// and WeightedRisk are display-scaled to 0-100.
type ComponentRisk struct {
	Category        string   `json:"category"`
	Severity        float64  `json:"severity"`
	Impact          float64  `json:"impact"`
	Likelihood      float64  `json:"likelihood"`
	Weight          float64  `json:"weight"`
	BaseRisk        float64  `json:"baseRisk"`
	Modifier        float64  `json:"modifier"`
	ModifierFactors []string `json:"modifierFactors,omitempty"`
	AdjustedRisk    float64  `json:"adjustedRisk"`
	WeightedRisk    float64  `json:"weightedRisk"`
}

// Mitigation is one ranked remediation recommendation.
type Mitigation struct {
	Vulnerability string  `json:"vulnerability"`
	CurrentRisk   float64 `json:"currentRisk"`
	PriorityScore float64 `json:"priorityScore"`
	Strategy      string  `json:"strategy"`
	Effort        string  `json:"effort"`
	RiskReduction float64 `json:"estimatedRiskReduction"`
	TimeEstimate  string  `json:"timeEstimate"`
}

// KeyMetrics is the numeric digest inside the executive summary.
type KeyMetrics struct {
	Score                 float64   `json:"score"`
	Level                 RiskLevel `json:"level"`
	ActiveVulnerabilities int       `json:"activeVulnerabilities"`
	CriticalFindings      int       `json:"criticalFindings"`
	Confidence            float64   `json:"confidence"`
	Trend                 Trend     `json:"trend"`
}

// ExecutiveSummary is the prose digest of an assessment.
type ExecutiveSummary struct {
	Headline       string     `json:"headline"`
	Summary        string     `json:"summary"`
	Recommendation string     `json:"recommendation"`
	KeyMetrics     KeyMetrics `json:"keyMetrics"`
}

// RiskAssessment is the full output of one analysis run.
type RiskAssessment struct {
	Score                 float64                  `json:"score"`
	Level                 RiskLevel                `json:"level"`
	Confidence            float64                  `json:"confidence"`
	ThreatMultiplier      float64                  `json:"threatMultiplier"`
	Trending              Trend                    `json:"trending"`
	ActiveVulnerabilities int                      `json:"activeVulnerabilities"`
	ComponentRisks        map[string]ComponentRisk `json:"componentRisks"`
	MitigationPriority    []Mitigation             `json:"mitigationPriority"`
	CriticalFindings      []ComponentRisk          `json:"criticalFindings"`
	ExecutiveSummary      ExecutiveSummary         `json:"executiveSummary"`
	GeneratedAt           time.Time                `json:"generatedAt"`
	Duration              time.Duration            `json:"durationNs"`
}

// ScanDocument is the wire format accepted on stdin: detector output plus
// an optional deployment profile.
type ScanDocument struct {
	Vulnerabilities map[string]Measurement `json:"vulnerabilities"`
	Profile         *SystemProfile         `json:"profile,omitempty"`
}
