// SPDX-FileCopyrightText: 2026 Vantage Security Labs
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/vantage-sec/genai-risk/internal/threatintel"
)

// WriteThreatSummary renders the threat-landscape digest below the
// assessment report.
func WriteThreatSummary(w io.Writer, sum threatintel.Summary, isTerminal bool) {
	writeHeader(w, "Threat Landscape", isTerminal)

	level := string(sum.Level)
	if isTerminal {
		level = colorizeLevel(level)
	}
	fmt.Fprintf(w, "Threat level: %s   Last update: %s\n", level, sum.LastUpdate.Format("2006-01-02 15:04 MST"))

	if len(sum.ActiveCampaigns) > 0 {
		fmt.Fprintf(w, "Active campaigns: %s\n", strings.Join(sum.ActiveCampaigns, "; "))
	}
	if len(sum.CriticalVulnerabilities) > 0 {
		fmt.Fprintf(w, "Critical vulnerabilities: %s\n", strings.Join(sum.CriticalVulnerabilities, ", "))
	}
	if len(sum.EmergingThreats) > 0 {
		fmt.Fprintf(w, "Emerging threats: %s\n", strings.Join(sum.EmergingThreats, "; "))
	}
	for _, rec := range sum.Recommendations {
		fmt.Fprintf(w, "  - %s\n", rec)
	}
}
