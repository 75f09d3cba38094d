// SPDX-FileCopyrightText: 2026 Vantage Security Labs
// SPDX-License-Identifier: Apache-2.0

// Package threatintel serves contextual threat-landscape facts so risk
// assessments reflect real-world exploitation pressure, not measurement
// alone. All lookups operate on an in-memory snapshot and are
// deterministic given the same snapshot and clock.
package threatintel

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/vantage-sec/genai-risk/internal/types"
)

const (
	incidentRecency = 30 * 24 * time.Hour
	refreshInterval = time.Hour
	maxMultiplier   = 2.0
)

// activeCategories are the vulnerability categories whose campaigns feed
// the threat multiplier directly.
var activeCategories = []string{"promptInjection", "jailbreak", "dataLeakage"}

// Store holds a threat-landscape snapshot and answers contextual queries.
// Construct one per process or per tenant and pass it to the analyzer;
// there is no package-level singleton.
type Store struct {
	mu   sync.RWMutex
	snap *Snapshot
	now  func() time.Time
}

// NewStore creates a store seeded with the built-in threat landscape.
func NewStore() *Store {
	return NewStoreWithSnapshot(nil, nil)
}

// NewStoreWithSnapshot creates a store from an explicit snapshot and
// clock. A nil snapshot selects the embedded seed; a nil clock selects
// time.Now. Tests freeze the clock here.
func NewStoreWithSnapshot(snap *Snapshot, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	if snap == nil {
		snap = seedSnapshot(now())
	}
	return &Store{snap: snap, now: now}
}

// Summary is the digest returned by ThreatIntelligenceSummary.
type Summary struct {
	Level                   types.ThreatLevel `json:"level"`
	ActiveCampaigns         []string          `json:"activeCampaigns"`
	CriticalVulnerabilities []string          `json:"criticalVulnerabilities"`
	EmergingThreats         []string          `json:"emergingThreats"`
	LastUpdate              time.Time         `json:"lastUpdate"`
	Recommendations         []string          `json:"recommendations"`
}

// IsHighValueTarget scores the profile against industry targeting plus
// bonuses for sensitive data (+0.3), large user base (+0.2), public
// exposure (+0.15), and prior incidents (+0.1 each, capped at 3). A total
// above 0.7 marks the system as a high-value target.
func (s *Store) IsHighValueTarget(profile types.ResolvedProfile) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isHighValueTarget(profile)
}

func (s *Store) isHighValueTarget(profile types.ResolvedProfile) bool {
	score, ok := s.snap.IndustryTargeting[profile.Industry]
	if !ok {
		score = s.snap.IndustryTargeting["unknown"]
	}
	if profile.HandlesSensitiveData() {
		score += 0.3
	}
	if profile.UserBase > 10000 {
		score += 0.2
	}
	if profile.PublicFacing {
		score += 0.15
	}
	incidents := profile.PreviousIncidents
	if incidents > 3 {
		incidents = 3
	}
	score += 0.1 * float64(incidents)
	return score > 0.7
}

// HasEmergingThreats reports whether the measured categories intersect
// the emerging threat landscape: an active-and-increasing campaign
// matches a measured category, jailbreak and prompt injection are
// observed together, or a registered emerging threat is already active.
func (s *Store) HasEmergingThreats(vulns map[string]types.Measurement) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasEmergingThreats(vulns)
}

func (s *Store) hasEmergingThreats(vulns map[string]types.Measurement) bool {
	for category := range vulns {
		c, ok := s.snap.Campaigns[campaignKey(category)]
		if ok && c.Active && c.Trending == "increasing" {
			return true
		}
	}
	// Jailbreak plus prompt injection observed together signals a
	// combined attack.
	if vulns["jailbreak"].Severity > 0 && vulns["promptInjection"].Severity > 0 {
		return true
	}
	for _, t := range s.snap.EmergingThreats {
		if t.Timeline == "active" {
			return true
		}
	}
	return false
}

// HasPreviousIncidents reports whether the category has a recorded
// incident within the last 30 days.
func (s *Store) HasPreviousIncidents(category string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasPreviousIncidents(category)
}

func (s *Store) hasPreviousIncidents(category string) bool {
	rec, ok := s.snap.IncidentHistory[category]
	if !ok || rec.Count == 0 {
		return false
	}
	return s.now().Sub(rec.LastIncident) <= incidentRecency
}

// ThreatMultiplier derives the 1.0-2.0 scaling factor applied to the
// aggregate risk: active campaigns against measured categories add
// prevalence*0.15 each, high-value targets multiply by 1.3, emerging
// threats by 1.15, and weaponized in-the-wild exploits by up to 1.3.
func (s *Store) ThreatMultiplier(vulns map[string]types.Measurement, profile types.ResolvedProfile) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	multiplier := 1.0
	for _, category := range activeCategories {
		m, ok := vulns[category]
		if !ok || m.Severity <= 20 {
			continue
		}
		c, ok := s.snap.Campaigns[campaignKey(category)]
		if ok && c.Active {
			multiplier += c.Prevalence * 0.15
		}
	}

	if s.isHighValueTarget(profile) {
		multiplier *= 1.3
	}
	if s.hasEmergingThreats(vulns) {
		multiplier *= 1.15
	}

	weaponized := 0
	for _, e := range s.snap.Exploits {
		if e.ExploitAvailable && e.InTheWild {
			weaponized++
		}
	}
	if weaponized > 3 {
		weaponized = 3
	}
	multiplier *= 1 + 0.1*float64(weaponized)

	if multiplier > maxMultiplier {
		multiplier = maxMultiplier
	}
	if multiplier < 1.0 {
		multiplier = 1.0
	}
	return multiplier
}

// CurrentThreatLevel classifies the overall landscape from campaign and
// exploit counts.
func (s *Store) CurrentThreatLevel() types.ThreatLevel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentThreatLevel()
}

func (s *Store) currentThreatLevel() types.ThreatLevel {
	var campaigns, criticalExploits int
	for _, c := range s.snap.Campaigns {
		if c.Active {
			campaigns++
		}
	}
	for _, e := range s.snap.Exploits {
		if e.CVSS >= 7 && e.InTheWild {
			criticalExploits++
		}
	}
	switch {
	case campaigns >= 3 && criticalExploits >= 2:
		return types.ThreatCritical
	case campaigns >= 2 || criticalExploits >= 1:
		return types.ThreatHigh
	case campaigns >= 1:
		return types.ThreatMedium
	default:
		return types.ThreatLow
	}
}

// ThreatIntelligenceSummary returns the landscape digest with
// rule-generated recommendations. Each rule appends at most one
// recommendation.
func (s *Store) ThreatIntelligenceSummary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := Summary{
		Level:      s.currentThreatLevel(),
		LastUpdate: s.snap.LastUpdated,
	}

	var increasing []string
	for key, c := range s.snap.Campaigns {
		if !c.Active {
			continue
		}
		sum.ActiveCampaigns = append(sum.ActiveCampaigns, c.Name)
		if c.Trending == "increasing" {
			increasing = append(increasing, strings.ReplaceAll(key, "_", " "))
		}
	}
	sort.Strings(sum.ActiveCampaigns)
	sort.Strings(increasing)

	unpatchedInTheWild := false
	for id, e := range s.snap.Exploits {
		if e.CVSS >= 7 && e.InTheWild {
			sum.CriticalVulnerabilities = append(sum.CriticalVulnerabilities, id)
		}
		if e.InTheWild && !e.PatchAvailable {
			unpatchedInTheWild = true
		}
	}
	sort.Strings(sum.CriticalVulnerabilities)

	for _, t := range s.snap.EmergingThreats {
		sum.EmergingThreats = append(sum.EmergingThreats, t.Name)
	}

	if sum.Level == types.ThreatHigh || sum.Level == types.ThreatCritical {
		sum.Recommendations = append(sum.Recommendations,
			"Increase monitoring of LLM interaction logs: active campaigns are targeting GenAI deployments")
	}
	if unpatchedInTheWild {
		sum.Recommendations = append(sum.Recommendations,
			"Apply compensating controls for actively exploited vulnerabilities without vendor patches")
	}
	if len(increasing) > 0 {
		sum.Recommendations = append(sum.Recommendations,
			"Review defenses against escalating campaigns: "+strings.Join(increasing, ", "))
	}

	return sum
}

// Refresh applies the periodic threat-intelligence update when the
// snapshot is older than the refresh interval. It honors context
// cancellation so async callers can bail out early.
func (s *Store) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.now().Sub(s.snap.LastUpdated) < refreshInterval {
		return nil
	}
	s.updateThreatIntelligence()
	return nil
}

// UpdateThreatIntelligence steps each campaign's prevalence by 5% in its
// trend direction, clamped to [0,1], and stamps the snapshot.
func (s *Store) UpdateThreatIntelligence() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateThreatIntelligence()
}

func (s *Store) updateThreatIntelligence() {
	for key, c := range s.snap.Campaigns {
		switch c.Trending {
		case "increasing":
			c.Prevalence *= 1.05
			if c.Prevalence > 1 {
				c.Prevalence = 1
			}
		case "decreasing":
			c.Prevalence *= 0.95
			if c.Prevalence < 0 {
				c.Prevalence = 0
			}
		}
		s.snap.Campaigns[key] = c
	}
	s.snap.LastUpdated = s.now()
}

// campaignKey converts a camelCase category name to the snake_case key
// used in the campaign map: promptInjection -> prompt_injection.
func campaignKey(category string) string {
	var b strings.Builder
	for i, r := range category {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
