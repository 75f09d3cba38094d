// SPDX-FileCopyrightText: 2026 Vantage Security Labs
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantage-sec/genai-risk/internal/types"
)

// runCommand executes the root command with the given stdin content and
// args, writing output to a temp file. It returns the output file
// contents and the execution error.
func runCommand(t *testing.T, stdin string, args ...string) ([]byte, error) {
	t.Helper()
	dir := t.TempDir()

	inPath := filepath.Join(dir, "stdin.json")
	require.NoError(t, os.WriteFile(inPath, []byte(stdin), 0o644))
	in, err := os.Open(inPath)
	require.NoError(t, err)
	defer in.Close()

	orig := os.Stdin
	os.Stdin = in
	defer func() { os.Stdin = orig }()

	outPath := filepath.Join(dir, "out.json")
	cmd := NewRootCommand()
	cmd.SetArgs(append(args, "--output", outPath))
	execErr := cmd.Execute()

	out, _ := os.ReadFile(outPath)
	return out, execErr
}

// exitCode extracts the ExitError code, or -1 for other errors, 0 for nil.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}

func TestRunWritesAssessmentJSON(t *testing.T) {
	out, err := runCommand(t, `{"promptInjection": {"rate": 80}}`, "--no-threat-intel")
	require.NoError(t, err)

	var assessment map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &assessment))
	assert.Contains(t, assessment, "score")
	assert.Contains(t, assessment, "level")
	assert.Contains(t, assessment, "mitigationPriority")
}

func TestFailOnLevelBelowThreshold(t *testing.T) {
	// bias at 5 with no threat intel: base = 0.05*0.5*0.6 = 0.015,
	// modifier 1.5 (default public) -> score 2.3, MINIMAL. Well below
	// CRITICAL, so the command succeeds.
	_, err := runCommand(t, `{"bias": {"rate": 5}}`,
		"--no-threat-intel", "--fail-on-level", "CRITICAL")
	assert.Equal(t, 0, exitCode(err))
}

func TestFailOnLevelAtOrAboveThreshold(t *testing.T) {
	// Three severe categories with no threat intel land at HIGH
	// (weighted average of adjusted risks ~74.7), which is at the
	// threshold -> exit code 1.
	stdin := `{"promptInjection": {"rate": 95}, "jailbreak": {"rate": 90}, "dataLeakage": {"rate": 85}}`
	_, err := runCommand(t, stdin, "--no-threat-intel", "--fail-on-level", "HIGH")
	assert.Equal(t, 1, exitCode(err))

	// The same assessment is above a LOW threshold too.
	_, err = runCommand(t, stdin, "--no-threat-intel", "--fail-on-level", "LOW")
	assert.Equal(t, 1, exitCode(err))
}

func TestFailOnLevelIsCaseInsensitive(t *testing.T) {
	stdin := `{"promptInjection": {"rate": 95}, "jailbreak": {"rate": 90}, "dataLeakage": {"rate": 85}}`
	_, err := runCommand(t, stdin, "--no-threat-intel", "--fail-on-level", "high")
	assert.Equal(t, 1, exitCode(err))
}

func TestFailOnLevelUnknownLevel(t *testing.T) {
	_, err := runCommand(t, `{"bias": {"rate": 5}}`, "--fail-on-level", "BOGUS")
	require.Equal(t, 2, exitCode(err))
	assert.Contains(t, err.Error(), "unknown risk level")
}

func TestEmptyStdin(t *testing.T) {
	_, err := runCommand(t, "")
	require.Equal(t, 2, exitCode(err))
	assert.Contains(t, err.Error(), "no input provided")
}

func TestInvalidJSONInput(t *testing.T) {
	_, err := runCommand(t, "not json")
	assert.Equal(t, 2, exitCode(err))
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := runCommand(t, `{"bias": {"rate": 5}}`, "--format", "xml")
	require.Equal(t, 2, exitCode(err))
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestProfileFlagsOverrideDocument(t *testing.T) {
	// The document says retail/internal; flags push the profile into
	// every contextual modifier. The promptInjection component must
	// carry all the flag-driven factors.
	stdin := `{
		"vulnerabilities": {"promptInjection": {"rate": 50}},
		"profile": {"industry": "retail", "publicFacing": false}
	}`
	out, err := runCommand(t, stdin,
		"--no-threat-intel",
		"--industry", "finance",
		"--data-classification", "pii",
		"--public-facing=true",
		"--previous-incidents", "2")
	require.NoError(t, err)

	var assessment types.RiskAssessment
	require.NoError(t, json.Unmarshal(out, &assessment))
	c, ok := assessment.ComponentRisks["promptInjection"]
	require.True(t, ok)
	assert.Equal(t, []string{
		"public_exposure",
		"sensitive_data",
		"critical_business_function",
		"compliance_required",
		"previous_incidents",
	}, c.ModifierFactors)
}

func TestDocumentProfileKeptWithoutFlags(t *testing.T) {
	// No profile flags set: the document's internal, unregulated
	// profile stands and no modifier fires.
	stdin := `{
		"vulnerabilities": {"promptInjection": {"rate": 50}},
		"profile": {"industry": "gaming", "publicFacing": false}
	}`
	out, err := runCommand(t, stdin, "--no-threat-intel")
	require.NoError(t, err)

	var assessment types.RiskAssessment
	require.NoError(t, json.Unmarshal(out, &assessment))
	c := assessment.ComponentRisks["promptInjection"]
	assert.Equal(t, 1.0, c.Modifier)
	assert.Empty(t, c.ModifierFactors)
}

func TestMergeProfileFlagPrecedence(t *testing.T) {
	c := NewRootCommand()
	require.NoError(t, c.Flags().Set("industry", "finance"))
	require.NoError(t, c.Flags().Set("public-facing", "false"))
	opts := &Options{Industry: "finance", PublicFacing: false}
	base := &types.SystemProfile{Industry: "retail", DataClassification: "pii"}

	got := mergeProfile(c, base, opts)
	assert.Equal(t, "finance", got.Industry)
	// Fields not overridden by flags keep the document value.
	assert.Equal(t, "pii", got.DataClassification)
	require.NotNil(t, got.PublicFacing)
	assert.False(t, *got.PublicFacing)
}

func TestMergeProfilePublicFacingTriState(t *testing.T) {
	// --public-facing defaults true but is only applied when the flag
	// was explicitly set; otherwise the profile keeps its nil
	// (default-resolved) value.
	c := NewRootCommand()
	got := mergeProfile(c, nil, &Options{PublicFacing: true})
	assert.Nil(t, got.PublicFacing)

	require.NoError(t, c.Flags().Set("public-facing", "true"))
	got = mergeProfile(c, nil, &Options{PublicFacing: true})
	require.NotNil(t, got.PublicFacing)
	assert.True(t, *got.PublicFacing)
}

func TestTopTrimsMitigations(t *testing.T) {
	stdin := `{"promptInjection": {"rate": 50}, "jailbreak": {"rate": 50}, "dos": {"rate": 50}}`
	out, err := runCommand(t, stdin, "--no-threat-intel", "--top", "1")
	require.NoError(t, err)

	var assessment types.RiskAssessment
	require.NoError(t, json.Unmarshal(out, &assessment))
	assert.Len(t, assessment.MitigationPriority, 1)
}
