// SPDX-FileCopyrightText: 2026 Vantage Security Labs
// SPDX-License-Identifier: Apache-2.0

package threatintel

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Campaign describes one tracked attack campaign against GenAI systems.
type Campaign struct {
	Name           string   `json:"name"`
	Active         bool     `json:"active"`
	Prevalence     float64  `json:"prevalence"`
	Trending       string   `json:"trending"` // increasing, decreasing, stable
	Sophistication string   `json:"sophistication"`
	Actors         []string `json:"actors,omitempty"`
}

// Exploit describes a known CVE relevant to the GenAI stack.
type Exploit struct {
	Description      string  `json:"description"`
	CVSS             float64 `json:"cvss"`
	ExploitAvailable bool    `json:"exploitAvailable"`
	InTheWild        bool    `json:"inTheWild"`
	PatchAvailable   bool    `json:"patchAvailable"`
}

// EmergingThreat is a registered not-yet-mainstream attack technique.
type EmergingThreat struct {
	Name        string `json:"name"`
	Timeline    string `json:"timeline"` // "active" or an ETA like "3-6 months"
	Description string `json:"description,omitempty"`
}

// IncidentRecord tracks prior incidents for one vulnerability category.
type IncidentRecord struct {
	Count        int       `json:"count"`
	LastIncident time.Time `json:"lastIncident"`
}

// Snapshot is the full threat-landscape dataset the store serves.
// Campaign and exploit maps are keyed by snake_case attack type and CVE ID.
type Snapshot struct {
	Campaigns         map[string]Campaign       `json:"activeCampaigns"`
	Exploits          map[string]Exploit        `json:"knownExploits"`
	IndustryTargeting map[string]float64        `json:"industryTargeting"`
	EmergingThreats   []EmergingThreat          `json:"emergingThreats"`
	IncidentHistory   map[string]IncidentRecord `json:"incidentHistory"`
	LastUpdated       time.Time                 `json:"lastUpdated"`
}

// seedSnapshot returns the built-in threat landscape. Incident timestamps
// are resolved against the provided clock so recency checks stay stable
// under an injected test clock.
func seedSnapshot(now time.Time) *Snapshot {
	return &Snapshot{
		Campaigns: map[string]Campaign{
			"prompt_injection": {
				Name:           "Indirect prompt injection via retrieved content",
				Active:         true,
				Prevalence:     0.78,
				Trending:       "increasing",
				Sophistication: "medium",
				Actors:         []string{"opportunistic", "organized"},
			},
			"jailbreak": {
				Name:           "Role-play and encoding jailbreak kits",
				Active:         true,
				Prevalence:     0.62,
				Trending:       "increasing",
				Sophistication: "low",
				Actors:         []string{"opportunistic"},
			},
			"data_leakage": {
				Name:           "System prompt and training data extraction",
				Active:         true,
				Prevalence:     0.45,
				Trending:       "stable",
				Sophistication: "medium",
				Actors:         []string{"organized", "researchers"},
			},
			"model_extraction": {
				Name:           "Distillation through high-volume querying",
				Active:         false,
				Prevalence:     0.18,
				Trending:       "decreasing",
				Sophistication: "high",
			},
			"training_data_poisoning": {
				Name:           "Poisoned fine-tuning datasets on public hubs",
				Active:         false,
				Prevalence:     0.12,
				Trending:       "increasing",
				Sophistication: "high",
			},
		},
		Exploits: map[string]Exploit{
			"CVE-2023-29374": {
				Description:      "LangChain LLMMathChain prompt injection to arbitrary code execution",
				CVSS:             9.8,
				ExploitAvailable: true,
				InTheWild:        true,
				PatchAvailable:   true,
			},
			"CVE-2024-34359": {
				Description:      "llama-cpp-python Jinja2 template injection in model metadata",
				CVSS:             9.7,
				ExploitAvailable: true,
				InTheWild:        false,
				PatchAvailable:   true,
			},
			"CVE-2024-5184": {
				Description:      "Email assistant prompt injection exposing mailbox contents",
				CVSS:             7.5,
				ExploitAvailable: true,
				InTheWild:        false,
				PatchAvailable:   false,
			},
		},
		IndustryTargeting: map[string]float64{
			"defense":    0.93,
			"government": 0.91,
			"finance":    0.88,
			"banking":    0.88,
			"healthcare": 0.85,
			"energy":     0.80,
			"technology": 0.72,
			"retail":     0.60,
			"education":  0.55,
			"unknown":    0.30,
		},
		EmergingThreats: []EmergingThreat{
			{
				Name:        "Multimodal prompt injection via images",
				Timeline:    "3-6 months",
				Description: "Instructions embedded in image inputs bypass text-only filters",
			},
			{
				Name:        "Agentic tool-chain escalation",
				Timeline:    "6-12 months",
				Description: "Compromised tool output steers autonomous agent actions",
			},
		},
		IncidentHistory: map[string]IncidentRecord{
			"promptInjection": {Count: 3, LastIncident: now.Add(-12 * 24 * time.Hour)},
			"jailbreak":       {Count: 2, LastIncident: now.Add(-8 * 24 * time.Hour)},
			"dataLeakage":     {Count: 1, LastIncident: now.Add(-45 * 24 * time.Hour)},
		},
		LastUpdated: now,
	}
}

// LoadSnapshot reads a threat feed snapshot from a local JSON file,
// replacing the embedded seed. Maps left empty in the file stay empty;
// there is no merging with the seed.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading threat feed: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing threat feed: %w", err)
	}
	if snap.Campaigns == nil {
		snap.Campaigns = map[string]Campaign{}
	}
	if snap.Exploits == nil {
		snap.Exploits = map[string]Exploit{}
	}
	if snap.IndustryTargeting == nil {
		snap.IndustryTargeting = map[string]float64{}
	}
	if snap.IncidentHistory == nil {
		snap.IncidentHistory = map[string]IncidentRecord{}
	}
	return &snap, nil
}
