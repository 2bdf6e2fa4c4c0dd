package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cargofocus/internal/config"
	"github.com/rshade/cargofocus/internal/engine"
)

// setupCommandTest isolates a CLI test from the real home directory and
// global config state.
func setupCommandTest(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvHome, t.TempDir())
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvDatabaseURL, "")
	t.Cleanup(func() {
		config.ResetGlobalConfigForTest()
		config.SetResolvedProjectDir("")
	})
}

// runCommand executes the root command with the given args and returns the
// combined output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	cmd := NewRootCmd("test")
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestBuildSimulator(t *testing.T) {
	setupCommandTest(t)

	sim, err := buildSimulator(t.Context(), config.DefaultConfig(), nil)
	require.NoError(t, err)
	require.NotNil(t, sim)

	total, err := sim.Calculator().TotalEmissions(nil)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestBuildSimulatorBadTables(t *testing.T) {
	setupCommandTest(t)

	cfg := config.DefaultConfig()
	cfg.Tables.Factors = map[string]float64{"teleport": 0.0}

	_, err := buildSimulator(t.Context(), cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "building reference tables")
}

func TestFetchShipmentsStatic(t *testing.T) {
	setupCommandTest(t)

	cfg := config.DefaultConfig()
	cfg.Provider.Source = config.SourceStatic

	records, err := fetchShipments(t.Context(), cfg, "", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, records)
}

func TestFetchShipmentsUnknownSource(t *testing.T) {
	setupCommandTest(t)

	cfg := config.DefaultConfig()
	cfg.Provider.Source = "carrier-pigeon"

	_, err := fetchShipments(t.Context(), cfg, "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolving shipment provider")
}

func TestSelectionPolicy(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		strictFlag bool
		want       engine.SelectionPolicy
		wantErr    bool
	}{
		{name: "default fallback", configured: "fallback", want: engine.SelectionFallback},
		{name: "configured strict", configured: "strict", want: engine.SelectionStrict},
		{name: "flag outranks config", configured: "fallback", strictFlag: true, want: engine.SelectionStrict},
		{name: "unknown policy", configured: "lenient", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Scenario.EmptySelection = tt.configured

			policy, err := selectionPolicy(cfg, tt.strictFlag)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, policy)
		})
	}
}

func TestOutputFormatResolution(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.DefaultFormat = "json"

	cmd := &cobra.Command{Use: "probe"}
	cmd.Flags().StringP("output", "o", "", "")

	assert.Equal(t, "json", outputFormat(cmd, cfg))

	require.NoError(t, cmd.Flags().Set("output", "ndjson"))
	assert.Equal(t, "ndjson", outputFormat(cmd, cfg))

	assert.Equal(t, outputFormatTable, outputFormat(&cobra.Command{Use: "bare"}, nil))
}

func TestUsageErrorf(t *testing.T) {
	err := usageErrorf("bad flag %q", "--frob")
	require.Error(t, err)
	assert.Equal(t, `bad flag "--frob"`, err.Error())
}
