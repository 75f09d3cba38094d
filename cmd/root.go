// SPDX-FileCopyrightText: 2026 Vantage Security Labs
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vantage-sec/genai-risk/internal/analyzer"
	"github.com/vantage-sec/genai-risk/internal/input"
	"github.com/vantage-sec/genai-risk/internal/output"
	"github.com/vantage-sec/genai-risk/internal/threatintel"
	"github.com/vantage-sec/genai-risk/internal/types"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ExitError signals a non-zero exit code with an optional message.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

// Options holds all CLI flag values.
type Options struct {
	Format             string
	Output             string
	Industry           string
	DataClassification string
	UserBase           int
	PublicFacing       bool
	PreviousIncidents  int
	ThreatFeed         string
	NoThreatIntel      bool
	ShowIntel          bool
	HideComponents     bool
	Top                int
	FailOnLevel        string
}

// NewRootCommand creates the root cobra command with all flags.
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:     "genai-risk",
		Short:   "Score GenAI scanner findings into a calibrated risk assessment",
		Version: Version,
		Long: `genai-risk reads GenAI vulnerability detector output as JSON from stdin
and aggregates it into a single risk assessment: a calibrated 0-100 score,
risk level, confidence, trend, and a ranked mitigation plan, adjusted for
the current threat landscape.

Usage:
  genai-scan --format json | genai-risk
  genai-scan --format json | genai-risk --format table --industry finance`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, _ []string) error {
			return run(c, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Format, "format", "json", "Output format: json, table")
	flags.StringVarP(&opts.Output, "output", "o", "", "Write to file instead of stdout")
	flags.StringVar(&opts.Industry, "industry", "", "Override profile industry (e.g. finance, healthcare)")
	flags.StringVar(&opts.DataClassification, "data-classification", "", "Override profile data classification (e.g. public, pii, classified)")
	flags.IntVar(&opts.UserBase, "user-base", 0, "Override profile user base size")
	flags.BoolVar(&opts.PublicFacing, "public-facing", true, "Override whether the system is public-facing")
	flags.IntVar(&opts.PreviousIncidents, "previous-incidents", 0, "Override count of prior security incidents")
	flags.StringVar(&opts.ThreatFeed, "threat-feed", "", "Load threat intelligence from a local JSON snapshot file")
	flags.BoolVar(&opts.NoThreatIntel, "no-threat-intel", false, "Disable threat-intelligence adjustments (multiplier pinned to 1.0)")
	flags.BoolVar(&opts.ShowIntel, "show-intel", false, "Append the threat landscape summary to table output")
	flags.BoolVar(&opts.HideComponents, "hide-components", false, "Omit the per-category breakdown from table output")
	flags.IntVar(&opts.Top, "top", 5, "Number of mitigation recommendations to show (max 5)")
	flags.StringVar(&opts.FailOnLevel, "fail-on-level", "", "Exit code 1 if the assessed level is at or above: LOW, MEDIUM, HIGH, CRITICAL")

	return cmd
}

// run orchestrates the full assessment pipeline.
func run(c *cobra.Command, opts *Options) error {
	// Read all of stdin.
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	if len(data) == 0 {
		return &ExitError{Code: 2, Message: "no input provided on stdin"}
	}

	doc, err := input.Parse(data)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}

	profile := mergeProfile(c, doc.Profile, opts)

	// Validate --fail-on-level before doing any work.
	var failLevel types.RiskLevel
	if opts.FailOnLevel != "" {
		failLevel = types.RiskLevel(strings.ToUpper(opts.FailOnLevel))
		if failLevel.Rank() == 0 {
			return &ExitError{Code: 2, Message: fmt.Sprintf("unknown risk level: %s", opts.FailOnLevel)}
		}
	}

	// Build the threat-intelligence store.
	var store *threatintel.Store
	if !opts.NoThreatIntel {
		if opts.ThreatFeed != "" {
			snap, err := threatintel.LoadSnapshot(opts.ThreatFeed)
			if err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}
			store = threatintel.NewStoreWithSnapshot(snap, nil)
		} else {
			store = threatintel.NewStore()
		}
	}

	a := analyzer.New(store)
	assessment, err := a.CalculateRisk(context.Background(), doc.Vulnerabilities, profile)
	if err != nil {
		return fmt.Errorf("analyzing vulnerabilities: %w", err)
	}

	if opts.Top >= 0 && opts.Top < len(assessment.MitigationPriority) {
		assessment.MitigationPriority = assessment.MitigationPriority[:opts.Top]
	}

	// Determine output writer.
	var w io.Writer
	if opts.Output != "" && opts.Output != "-" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	switch opts.Format {
	case "json":
		if err := output.WriteJSON(w, assessment); err != nil {
			return err
		}
	case "table":
		cfg := output.TableConfig{
			ShowComponents: !opts.HideComponents,
			IsTerminal:     output.IsOutputToTerminal(w),
		}
		if err := output.WriteTable(w, assessment, cfg); err != nil {
			return err
		}
		if opts.ShowIntel && store != nil {
			fmt.Fprintln(w)
			output.WriteThreatSummary(w, store.ThreatIntelligenceSummary(), cfg.IsTerminal)
		}
	default:
		return &ExitError{
			Code:    2,
			Message: fmt.Sprintf("unsupported output format: %s", opts.Format),
		}
	}

	if failLevel != "" && assessment.Level.Rank() >= failLevel.Rank() {
		return &ExitError{Code: 1, Message: fmt.Sprintf("risk level %s is at or above %s", assessment.Level, failLevel)}
	}

	return nil
}

// mergeProfile overlays CLI flag overrides on the profile from the scan
// document. Flags win only when explicitly set.
func mergeProfile(c *cobra.Command, base *types.SystemProfile, opts *Options) *types.SystemProfile {
	profile := &types.SystemProfile{}
	if base != nil {
		*profile = *base
	}
	if opts.Industry != "" {
		profile.Industry = opts.Industry
	}
	if opts.DataClassification != "" {
		profile.DataClassification = opts.DataClassification
	}
	if opts.UserBase > 0 {
		profile.UserBase = opts.UserBase
	}
	if c.Flags().Changed("public-facing") {
		v := opts.PublicFacing
		profile.PublicFacing = &v
	}
	if opts.PreviousIncidents > 0 {
		profile.PreviousIncidents = opts.PreviousIncidents
	}
	return profile
}
