package cli

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cargofocus/internal/engine"
)

func TestValidateScenarioFlags(t *testing.T) {
	tests := []struct {
		name    string
		params  ScenarioParams
		args    []string
		wantErr string
	}{
		{name: "mode substitution", params: ScenarioParams{From: "air", To: "sea"}},
		{name: "blanket", params: ScenarioParams{From: "all"}},
		{name: "record only", params: ScenarioParams{Record: "SHP-002"}},
		{name: "free text only", args: []string{"what if all air went by sea"}},
		{name: "flags and text", params: ScenarioParams{From: "air"}, args: []string{"text"}, wantErr: "mutually exclusive"},
		{name: "nothing at all", wantErr: "nothing to simulate"},
		{name: "bad from", params: ScenarioParams{From: "teleport"}, wantErr: "invalid --from"},
		{name: "bad to", params: ScenarioParams{From: "air", To: "rail"}, wantErr: "invalid --to"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScenarioFlags(tt.params, tt.args)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBuildScenarioRequest(t *testing.T) {
	req, err := buildScenarioRequest(ScenarioParams{From: "air", To: "sea"})
	require.NoError(t, err)
	require.NotNil(t, req.Source)
	require.NotNil(t, req.Target)
	assert.False(t, req.SourceAll)

	req, err = buildScenarioRequest(ScenarioParams{From: "all"})
	require.NoError(t, err)
	assert.True(t, req.SourceAll)
	assert.True(t, req.IsBlanket())

	req, err = buildScenarioRequest(ScenarioParams{Record: "SHP-002", To: "land"})
	require.NoError(t, err)
	assert.Equal(t, "SHP-002", req.RecordID)
	require.NotNil(t, req.Target)
}

func TestScenarioCommandTable(t *testing.T) {
	setupCommandTest(t)

	output, err := runCommand(t, "scenario", "--from", "air", "--to", "sea")
	require.NoError(t, err)

	assert.Contains(t, output, "What-If Scenario Analysis")
	assert.Contains(t, output, "Scenario:  air → sea")
	assert.Contains(t, output, "Baseline:")
	assert.Contains(t, output, "Preview:")
	assert.Contains(t, output, "Score:")
	assert.Contains(t, output, "Affected Routes:")
	assert.Contains(t, output, "Recommendation:")
	assert.Contains(t, output, "sea freight")
}

func TestScenarioCommandJSON(t *testing.T) {
	setupCommandTest(t)

	output, err := runCommand(t, "scenario", "--from", "air", "--to", "sea", "--output", "json")
	require.NoError(t, err)

	var result engine.ScenarioResult
	require.NoError(t, json.Unmarshal([]byte(output), &result))

	assert.NotEmpty(t, result.RunID)
	assert.Positive(t, result.OriginalKG)
	assert.Positive(t, result.PreviewKG)
	assert.Less(t, result.PreviewKG, result.OriginalKG, "air → sea should reduce emissions")
	assert.InDelta(t, result.PreviewKG-result.OriginalKG, result.DeltaKG, 0.0001)
	assert.NotEmpty(t, result.Affected)
	for _, impact := range result.Affected {
		assert.Equal(t, "air", impact.Before.String())
		assert.Equal(t, "sea", impact.After.String())
	}
}

func TestScenarioCommandBlanket(t *testing.T) {
	setupCommandTest(t)

	output, err := runCommand(t, "scenario", "--from", "all", "--output", "json")
	require.NoError(t, err)

	var result engine.ScenarioResult
	require.NoError(t, json.Unmarshal([]byte(output), &result))

	assert.True(t, result.Request.IsBlanket())
	assert.LessOrEqual(t, result.PreviewKG, result.OriginalKG,
		"blanket optimization never increases the total")
}

func TestScenarioCommandFreeText(t *testing.T) {
	setupCommandTest(t)

	output, err := runCommand(t, "scenario", "--", "what if we moved all air shipments to sea")
	require.NoError(t, err)
	assert.Contains(t, output, "Scenario:  air → sea")
}

func TestScenarioCommandFreeTextNoIntent(t *testing.T) {
	setupCommandTest(t)

	output, err := runCommand(t, "scenario", "--", "how is the weather")
	require.NoError(t, err)
	assert.Contains(t, output, "No scenario intent recognized")
}

func TestScenarioCommandStrictSelectionNoMatches(t *testing.T) {
	setupCommandTest(t)

	// Single-record selection that cannot match the demo set.
	output, err := runCommand(t, "scenario",
		"--record", "SHP-999", "--to", "sea", "--strict-selection", "--output", "json")
	require.NoError(t, err)

	var result engine.ScenarioResult
	require.NoError(t, json.Unmarshal([]byte(output), &result))

	assert.True(t, result.NoMatches)
	assert.False(t, result.FellBackToAll)
	assert.Empty(t, result.Affected)
	assert.Equal(t, result.OriginalKG, result.PreviewKG)
}

func TestScenarioCommandFallbackNote(t *testing.T) {
	setupCommandTest(t)

	output, err := runCommand(t, "scenario", "--record", "SHP-999", "--to", "sea")
	require.NoError(t, err)
	assert.Contains(t, output, "the preview covers the full set instead")
}

func TestScenarioCommandUsageErrors(t *testing.T) {
	setupCommandTest(t)

	_, err := runCommand(t, "scenario")
	require.Error(t, err)
	var usageErr *UsageError
	assert.True(t, errors.As(err, &usageErr))

	_, err = runCommand(t, "scenario", "--from", "teleport", "--to", "sea")
	require.Error(t, err)
	assert.True(t, errors.As(err, &usageErr))
}
