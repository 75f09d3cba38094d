// SPDX-FileCopyrightText: 2026 Vantage Security Labs
// SPDX-License-Identifier: Apache-2.0

package input

import (
	"encoding/json"
	"fmt"

	"github.com/vantage-sec/genai-risk/internal/types"
)

// Parse decodes detector output from raw JSON. Two shapes are accepted:
// a wrapped scan document {"vulnerabilities": {...}, "profile": {...}},
// or a bare {category: measurement} map. Non-JSON input is a caller
// error and is rejected.
func Parse(data []byte) (*types.ScanDocument, error) {
	// Probe for the wrapped document shape.
	var probe struct {
		Vulnerabilities json.RawMessage `json:"vulnerabilities"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("invalid JSON input: %w", err)
	}

	if probe.Vulnerabilities != nil {
		var doc types.ScanDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing scan document: %w", err)
		}
		if doc.Vulnerabilities == nil {
			doc.Vulnerabilities = map[string]types.Measurement{}
		}
		return &doc, nil
	}

	// Bare measurement map.
	var vulns map[string]types.Measurement
	if err := json.Unmarshal(data, &vulns); err != nil {
		return nil, fmt.Errorf("parsing measurement map: %w", err)
	}
	if vulns == nil {
		vulns = map[string]types.Measurement{}
	}
	return &types.ScanDocument{Vulnerabilities: vulns}, nil
}
