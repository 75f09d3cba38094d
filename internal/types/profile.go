// SPDX-FileCopyrightText: 2026 Vantage Security Labs
// SPDX-License-Identifier: Apache-2.0

package types

import "strings"

// SystemProfile describes the deployment context of the scanned system.
// All fields are optional; WithDefaults fills the documented fallbacks.
type SystemProfile struct {
	Industry           string `json:"industry,omitempty"`
	DataClassification string `json:"dataClassification,omitempty"`
	UserBase           int    `json:"userBase,omitempty"`
	PublicFacing       *bool  `json:"publicFacing,omitempty"`
	PreviousIncidents  int    `json:"previousIncidents,omitempty"`
}

// ResolvedProfile is a SystemProfile with every field populated.
type ResolvedProfile struct {
	Industry           string
	DataClassification string
	UserBase           int
	PublicFacing       bool
	PreviousIncidents  int
}

// WithDefaults resolves a possibly nil or partial profile. Missing fields
// default to industry "unknown", classification "public", 100 users,
// public-facing, and no prior incidents.
func (p *SystemProfile) WithDefaults() ResolvedProfile {
	r := ResolvedProfile{
		Industry:           "unknown",
		DataClassification: "public",
		UserBase:           100,
		PublicFacing:       true,
		PreviousIncidents:  0,
	}
	if p == nil {
		return r
	}
	if p.Industry != "" {
		r.Industry = strings.ToLower(p.Industry)
	}
	if p.DataClassification != "" {
		r.DataClassification = strings.ToLower(p.DataClassification)
	}
	if p.UserBase > 0 {
		r.UserBase = p.UserBase
	}
	if p.PublicFacing != nil {
		r.PublicFacing = *p.PublicFacing
	}
	if p.PreviousIncidents > 0 {
		r.PreviousIncidents = p.PreviousIncidents
	}
	return r
}

// sensitiveClassifications are data classifications that imply the system
// handles regulated or otherwise sensitive data.
var sensitiveClassifications = map[string]bool{
	"pii":          true,
	"phi":          true,
	"financial":    true,
	"confidential": true,
	"classified":   true,
	"restricted":   true,
}

// regulatedIndustries are industries treated as critical business
// functions with compliance obligations.
var regulatedIndustries = map[string]bool{
	"finance":                 true,
	"banking":                 true,
	"healthcare":              true,
	"government":              true,
	"defense":                 true,
	"energy":                  true,
	"critical_infrastructure": true,
}

// HandlesSensitiveData reports whether the classification implies
// sensitive data.
func (r ResolvedProfile) HandlesSensitiveData() bool {
	return sensitiveClassifications[r.DataClassification]
}

// CriticalBusinessFunction reports whether the industry is treated as a
// critical business function.
func (r ResolvedProfile) CriticalBusinessFunction() bool {
	return regulatedIndustries[r.Industry]
}

// ComplianceRequired reports whether the deployment context implies a
// compliance regime (regulated industry or regulated data).
func (r ResolvedProfile) ComplianceRequired() bool {
	switch r.DataClassification {
	case "pii", "phi", "financial", "classified":
		return true
	}
	switch r.Industry {
	case "finance", "banking", "healthcare", "government":
		return true
	}
	return false
}
