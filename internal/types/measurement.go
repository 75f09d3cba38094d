// SPDX-FileCopyrightText: 2026 Vantage Security Labs
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"encoding/json"
	"strings"
)

// Measurement is one detector result for a vulnerability category.
// Detectors emit severity under a variety of field names; decoding
// normalizes all of them to a single 0-100 Severity. Fields the engine
// inspects are typed; all other JSON fields are captured in Extras and
// re-emitted on marshal to avoid data loss.
type Measurement struct {
	Severity  float64
	Exposure  string
	PII       bool
	Sensitive bool
	Public    bool
	// Extras holds all other JSON fields for passthrough.
	Extras map[string]json.RawMessage
}

// measurementKnownFields lists the JSON keys that correspond to typed
// fields on Measurement. Everything else goes into Extras.
var measurementKnownFields = map[string]bool{
	"rate":      true,
	"score":     true,
	"severity":  true,
	"value":     true,
	"result":    true,
	"metrics":   true,
	"exposure":  true,
	"pii":       true,
	"sensitive": true,
	"public":    true,
}

// severityExtractor attempts to pull a severity number out of a decoded
// measurement object. Extractors are tried in order; the first success wins.
type severityExtractor func(map[string]json.RawMessage) (float64, bool)

// severityExtractors is the ordered fallback chain for severity fields.
var severityExtractors = []severityExtractor{
	numberField("rate"),
	numberField("score"),
	numberField("severity"),
	numberField("value"),
	nestedNumberField("result", "rate"),
	nestedNumberField("metrics", "score"),
}

func numberField(key string) severityExtractor {
	return func(obj map[string]json.RawMessage) (float64, bool) {
		raw, ok := obj[key]
		if !ok {
			return 0, false
		}
		var n float64
		if err := json.Unmarshal(raw, &n); err != nil {
			return 0, false
		}
		return n, true
	}
}

func nestedNumberField(outer, inner string) severityExtractor {
	return func(obj map[string]json.RawMessage) (float64, bool) {
		raw, ok := obj[outer]
		if !ok {
			return 0, false
		}
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(raw, &nested); err != nil {
			return 0, false
		}
		return numberField(inner)(nested)
	}
}

// extractSeverity runs the fallback chain over a decoded object,
// returning 0 when no extractor matches.
func extractSeverity(obj map[string]json.RawMessage) float64 {
	for _, extract := range severityExtractors {
		if n, ok := extract(obj); ok {
			return clampSeverity(n)
		}
	}
	return 0
}

func clampSeverity(n float64) float64 {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// UnmarshalJSON decodes a Measurement from JSON. A raw number is accepted
// directly as severity. Objects go through the severity fallback chain.
// Any other shape (string, bool, null, array) decodes to severity 0 —
// malformed detector output degrades silently, it never errors.
func (m *Measurement) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	// Raw scalar severity.
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		m.Severity = clampSeverity(n)
		return nil
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		// Not object-like: zero contribution, no error.
		return nil
	}

	m.Severity = extractSeverity(all)

	get := func(key string, dst interface{}) {
		raw, ok := all[key]
		if !ok {
			return
		}
		_ = json.Unmarshal(raw, dst)
	}
	get("exposure", &m.Exposure)
	get("pii", &m.PII)
	get("sensitive", &m.Sensitive)
	get("public", &m.Public)

	extras := make(map[string]json.RawMessage)
	for k, val := range all {
		if !measurementKnownFields[k] {
			extras[k] = val
		}
	}
	if len(extras) > 0 {
		m.Extras = extras
	}

	return nil
}

// MarshalJSON encodes a Measurement to JSON, merging typed fields with
// the passthrough Extras map.
func (m Measurement) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{})
	for k, val := range m.Extras {
		out[k] = val
	}
	out["severity"] = m.Severity
	if m.Exposure != "" {
		out["exposure"] = m.Exposure
	}
	if m.PII {
		out["pii"] = true
	}
	if m.Sensitive {
		out["sensitive"] = true
	}
	if m.Public {
		out["public"] = true
	}
	return json.Marshal(out)
}

// PubliclyExposed reports whether the measurement itself marks the
// component as reachable from outside the trust boundary.
func (m Measurement) PubliclyExposed() bool {
	switch strings.ToLower(m.Exposure) {
	case "public", "external", "internet":
		return true
	}
	return m.Public
}

// HandlesSensitiveData reports whether the measurement flags PII or other
// sensitive data in the tested flow.
func (m Measurement) HandlesSensitiveData() bool {
	return m.PII || m.Sensitive
}
