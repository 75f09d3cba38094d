// SPDX-FileCopyrightText: 2026 Vantage Security Labs
// SPDX-License-Identifier: Apache-2.0

package analyzer

// categoryWeight holds the static scoring constants for one vulnerability
// category. Weights sum to 1.0 across the ten known categories; impact
// and likelihood are 0-1 fractions.
type categoryWeight struct {
	Weight     float64
	Impact     float64
	Likelihood float64
}

// fallbackWeight is used for categories not in the table.
var fallbackWeight = categoryWeight{Weight: 0.05, Impact: 0.5, Likelihood: 0.5}

// categoryWeights covers the ten known GenAI vulnerability categories.
var categoryWeights = map[string]categoryWeight{
	"promptInjection": {Weight: 0.20, Impact: 0.90, Likelihood: 0.70},
	"jailbreak":       {Weight: 0.15, Impact: 0.85, Likelihood: 0.60},
	"dataLeakage":     {Weight: 0.15, Impact: 0.95, Likelihood: 0.50},
	"hallucination":   {Weight: 0.10, Impact: 0.60, Likelihood: 0.80},
	"modelExtraction": {Weight: 0.08, Impact: 0.70, Likelihood: 0.40},
	"dos":             {Weight: 0.08, Impact: 0.60, Likelihood: 0.50},
	"bias":            {Weight: 0.07, Impact: 0.50, Likelihood: 0.60},
	"supplyChain":     {Weight: 0.07, Impact: 0.80, Likelihood: 0.30},
	"outputHandling":  {Weight: 0.06, Impact: 0.70, Likelihood: 0.60},
	"overreliance":    {Weight: 0.04, Impact: 0.40, Likelihood: 0.70},
}

// weightsFor returns the scoring constants for a category, falling back
// to the generic constants for unknown categories.
func weightsFor(category string) categoryWeight {
	if w, ok := categoryWeights[category]; ok {
		return w
	}
	return fallbackWeight
}

// strategy holds the static remediation constants for one category.
// Cost is in relative effort units; effectiveness and feasibility are
// 0-1 fractions.
type strategy struct {
	Description   string
	Effectiveness float64
	Feasibility   float64
	Cost          float64
	Effort        string
	TimeEstimate  string
}

// fallbackStrategy is recommended for categories without a dedicated entry.
var fallbackStrategy = strategy{
	Description:   "Apply defense-in-depth controls around model input and output",
	Effectiveness: 0.60,
	Feasibility:   0.70,
	Cost:          2,
	Effort:        "medium",
	TimeEstimate:  "2-4 weeks",
}

// strategies maps each category to its primary mitigation.
var strategies = map[string]strategy{
	"promptInjection": {
		Description:   "Deploy input validation and prompt hardening",
		Effectiveness: 0.85,
		Feasibility:   0.90,
		Cost:          2,
		Effort:        "medium",
		TimeEstimate:  "2-4 weeks",
	},
	"jailbreak": {
		Description:   "Strengthen system prompt isolation and refusal policies",
		Effectiveness: 0.80,
		Feasibility:   0.85,
		Cost:          2,
		Effort:        "medium",
		TimeEstimate:  "2-4 weeks",
	},
	"dataLeakage": {
		Description:   "Add output filtering and PII redaction",
		Effectiveness: 0.90,
		Feasibility:   0.80,
		Cost:          3,
		Effort:        "high",
		TimeEstimate:  "4-8 weeks",
	},
	"hallucination": {
		Description:   "Introduce retrieval grounding and response verification",
		Effectiveness: 0.70,
		Feasibility:   0.75,
		Cost:          3,
		Effort:        "high",
		TimeEstimate:  "4-8 weeks",
	},
	"modelExtraction": {
		Description:   "Rate-limit high-volume querying and watermark outputs",
		Effectiveness: 0.75,
		Feasibility:   0.70,
		Cost:          2,
		Effort:        "medium",
		TimeEstimate:  "2-4 weeks",
	},
	"bias": {
		Description:   "Expand evaluation suites and debias fine-tuning data",
		Effectiveness: 0.65,
		Feasibility:   0.60,
		Cost:          4,
		Effort:        "high",
		TimeEstimate:  "8-12 weeks",
	},
	"dos": {
		Description:   "Enforce token budgets and request throttling",
		Effectiveness: 0.80,
		Feasibility:   0.95,
		Cost:          1,
		Effort:        "low",
		TimeEstimate:  "1-2 weeks",
	},
	"supplyChain": {
		Description:   "Pin and verify model and dependency provenance",
		Effectiveness: 0.85,
		Feasibility:   0.80,
		Cost:          2,
		Effort:        "medium",
		TimeEstimate:  "2-4 weeks",
	},
	"outputHandling": {
		Description:   "Sanitize and encode model output before downstream use",
		Effectiveness: 0.90,
		Feasibility:   0.90,
		Cost:          1,
		Effort:        "low",
		TimeEstimate:  "1-2 weeks",
	},
	"overreliance": {
		Description:   "Add human review gates for high-stakes outputs",
		Effectiveness: 0.60,
		Feasibility:   0.70,
		Cost:          2,
		Effort:        "medium",
		TimeEstimate:  "2-4 weeks",
	},
}

// strategyFor returns the mitigation strategy for a category, falling
// back to the generic strategy for unknown categories.
func strategyFor(category string) strategy {
	if s, ok := strategies[category]; ok {
		return s
	}
	return fallbackStrategy
}
