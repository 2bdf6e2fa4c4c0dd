package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/cargofocus/internal/config"
	"github.com/rshade/cargofocus/internal/logging"
	"github.com/rshade/cargofocus/internal/provider"
)

// StepStatus represents the outcome of a single setup step.
type StepStatus int

const (
	// StepSuccess indicates the step completed successfully.
	StepSuccess StepStatus = iota
	// StepWarning indicates the step completed with a non-fatal issue.
	StepWarning
	// StepSkipped indicates the step was intentionally skipped via flag.
	StepSkipped
	// StepError indicates the step failed.
	StepError
)

// StepResult describes the outcome of executing a single setup step.
type StepResult struct {
	Name     string
	Status   StepStatus
	Message  string
	Critical bool
	Err      error
}

// SetupOptions holds the configuration for the setup command, derived from CLI flags.
type SetupOptions struct {
	SkipSample     bool
	SkipDB         bool
	NonInteractive bool
}

// SetupResult is the aggregate outcome of all setup steps.
type SetupResult struct {
	Steps       []StepResult
	HasErrors   bool
	HasWarnings bool
}

// dirPermBase is the permission mode for the config and log directories.
const dirPermBase = 0o700

// dbPingTimeout bounds the database connectivity check.
const dbPingTimeout = 5 * time.Second

// sampleManifestName is the demo manifest written next to the config file.
const sampleManifestName = "shipments.sample.json"

// formatStatus returns a status marker appropriate for the output mode.
func formatStatus(status StepStatus, nonInteractive bool) string {
	if nonInteractive {
		switch status {
		case StepSuccess:
			return "[OK]"
		case StepWarning:
			return "[WARN]"
		case StepSkipped:
			return "[SKIP]"
		case StepError:
			return "[ERR]"
		default:
			return "[??]"
		}
	}

	switch status {
	case StepSuccess:
		return "✓"
	case StepWarning:
		return "!"
	case StepSkipped:
		return "-"
	case StepError:
		return "✗"
	default:
		return "?"
	}
}

// NewSetupCmd creates the top-level setup command that bootstraps the
// CargoFocus environment.
func NewSetupCmd() *cobra.Command {
	var opts SetupOptions

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Bootstrap the CargoFocus environment",
		Long: `Sets up the CargoFocus environment by creating directories, initializing
configuration, writing a sample shipment manifest, and checking the
optional postgres shipment store.

This command is idempotent — it is safe to run multiple times. Existing
configuration files are preserved, and already-present components are
detected without modification.`,
		Example: `  # Full setup
  cargofocus setup

  # CI/CD setup (no TTY-dependent output)
  cargofocus setup --non-interactive

  # Setup without touching the database (offline environments)
  cargofocus setup --skip-db

  # Setup directories and config only
  cargofocus setup --skip-db --skip-sample`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSetup(cmd, &opts)
		},
	}

	cmd.Flags().BoolVar(&opts.NonInteractive, "non-interactive", false,
		"Disable TTY-dependent output (status symbols, color)")
	cmd.Flags().BoolVar(&opts.SkipSample, "skip-sample", false,
		"Skip writing the sample shipment manifest")
	cmd.Flags().BoolVar(&opts.SkipDB, "skip-db", false,
		"Skip the postgres connectivity check")

	return cmd
}

// runSetup orchestrates all setup steps using a collect-and-continue
// pattern. Each step is executed sequentially. Failures in one step do not
// prevent subsequent steps from running. The function returns an error only
// if a critical step fails.
func runSetup(cmd *cobra.Command, opts *SetupOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	log := logging.FromContext(ctx)

	// Auto-detect non-interactive mode when stdin is not a TTY
	if !opts.NonInteractive && !isTerminal(os.Stdin) {
		opts.NonInteractive = true
	}

	result := &SetupResult{}

	step := stepDisplayVersion(cmd)
	printStep(cmd, step, opts.NonInteractive)
	result.Steps = append(result.Steps, step)

	dirSteps := stepCreateDirectories()
	for _, s := range dirSteps {
		printStep(cmd, s, opts.NonInteractive)
		result.Steps = append(result.Steps, s)
	}

	step = stepInitConfig()
	printStep(cmd, step, opts.NonInteractive)
	result.Steps = append(result.Steps, step)

	if opts.SkipSample {
		step = StepResult{
			Name:    "Sample manifest",
			Status:  StepSkipped,
			Message: "Skipped sample manifest",
		}
	} else {
		step = stepWriteSampleManifest()
	}
	printStep(cmd, step, opts.NonInteractive)
	result.Steps = append(result.Steps, step)

	if opts.SkipDB {
		step = StepResult{
			Name:    "Database check",
			Status:  StepSkipped,
			Message: "Skipped postgres connectivity check",
		}
	} else {
		step = stepCheckDatabase(ctx)
	}
	printStep(cmd, step, opts.NonInteractive)
	result.Steps = append(result.Steps, step)

	// Compute aggregate status
	for _, s := range result.Steps {
		if s.Status == StepError && s.Critical {
			result.HasErrors = true
		}
		if s.Status == StepWarning {
			result.HasWarnings = true
		}
	}

	printSummary(cmd, result)

	if result.HasErrors {
		log.Error().
			Ctx(ctx).
			Str("component", "setup").
			Msg("setup completed with critical errors")
		return errors.New("setup failed: one or more critical steps failed")
	}

	return nil
}

// printStep outputs a single step's status line.
func printStep(cmd *cobra.Command, step StepResult, nonInteractive bool) {
	marker := formatStatus(step.Status, nonInteractive)
	cmd.Printf("%s %s\n", marker, step.Message)
}

// printSummary outputs the final completion message.
func printSummary(cmd *cobra.Command, result *SetupResult) {
	cmd.Println()
	if result.HasErrors {
		cmd.Println("Setup completed with errors. Review the messages above for remediation steps.")
	} else {
		cmd.Println("Setup complete! Run 'cargofocus analyze' to get started.")
	}
}

// stepDisplayVersion prints the CargoFocus version and Go runtime info.
func stepDisplayVersion(cmd *cobra.Command) StepResult {
	ver := cmd.Root().Version
	if ver == "" {
		ver = "dev"
	}
	msg := fmt.Sprintf("CargoFocus v%s (%s)", ver, runtime.Version())
	return StepResult{
		Name:    "Version display",
		Status:  StepSuccess,
		Message: msg,
	}
}

// stepCreateDirectories creates the required CargoFocus directories.
// Returns one StepResult per directory.
func stepCreateDirectories() []StepResult {
	baseDir, err := config.GetConfigDir()
	if err != nil {
		return []StepResult{{
			Name:     "Directory creation",
			Status:   StepError,
			Message:  fmt.Sprintf("Failed to resolve config directory: %v", err),
			Critical: true,
			Err:      err,
		}}
	}

	dirs := []string{
		baseDir,
		filepath.Join(baseDir, "logs"),
	}

	var results []StepResult
	for _, dir := range dirs {
		info, statErr := os.Stat(dir)
		if statErr == nil && info.IsDir() {
			results = append(results, StepResult{
				Name:     "Directory creation",
				Status:   StepSuccess,
				Message:  fmt.Sprintf("Directory exists: %s", dir),
				Critical: true,
			})
			continue
		}

		if mkErr := os.MkdirAll(dir, dirPermBase); mkErr != nil {
			results = append(results, StepResult{
				Name:   "Directory creation",
				Status: StepError,
				Message: fmt.Sprintf(
					"Failed to create %s: %v\n  Try: export CARGOFOCUS_HOME=/path/to/writable/directory",
					dir,
					mkErr,
				),
				Critical: true,
				Err:      mkErr,
			})
			continue
		}

		results = append(results, StepResult{
			Name:     "Directory creation",
			Status:   StepSuccess,
			Message:  fmt.Sprintf("Created %s", dir),
			Critical: true,
		})
	}

	return results
}

// stepInitConfig initializes the default config file if one does not exist.
func stepInitConfig() StepResult {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return StepResult{
			Name:     "Config initialization",
			Status:   StepError,
			Message:  fmt.Sprintf("Failed to resolve config path: %v", err),
			Critical: true,
			Err:      err,
		}
	}

	if _, statErr := os.Stat(configPath); statErr == nil {
		return StepResult{
			Name:     "Config initialization",
			Status:   StepSuccess,
			Message:  fmt.Sprintf("Config already exists (%s)", configPath),
			Critical: true,
		}
	}

	cfg := config.DefaultConfig()
	if saveErr := cfg.Save(configPath); saveErr != nil {
		return StepResult{
			Name:     "Config initialization",
			Status:   StepError,
			Message:  fmt.Sprintf("Failed to initialize config: %v", saveErr),
			Critical: true,
			Err:      saveErr,
		}
	}

	return StepResult{
		Name:     "Config initialization",
		Status:   StepSuccess,
		Message:  fmt.Sprintf("Initialized config (%s)", configPath),
		Critical: true,
	}
}

// stepWriteSampleManifest writes the bundled demo shipments as a JSON
// manifest next to the config file, so 'analyze <file>' has something to
// chew on immediately. An existing manifest is never overwritten.
func stepWriteSampleManifest() StepResult {
	baseDir, err := config.GetConfigDir()
	if err != nil {
		return StepResult{
			Name:    "Sample manifest",
			Status:  StepWarning,
			Message: fmt.Sprintf("Failed to resolve config directory: %v", err),
			Err:     err,
		}
	}

	path := filepath.Join(baseDir, sampleManifestName)
	if _, statErr := os.Stat(path); statErr == nil {
		return StepResult{
			Name:    "Sample manifest",
			Status:  StepSuccess,
			Message: fmt.Sprintf("Sample manifest already exists (%s)", path),
		}
	}

	data, err := json.MarshalIndent(provider.DemoShipments(), "", "  ")
	if err != nil {
		return StepResult{
			Name:    "Sample manifest",
			Status:  StepWarning,
			Message: fmt.Sprintf("Failed to encode sample manifest: %v", err),
			Err:     err,
		}
	}

	if writeErr := os.WriteFile(path, data, 0o600); writeErr != nil {
		return StepResult{
			Name:    "Sample manifest",
			Status:  StepWarning,
			Message: fmt.Sprintf("Failed to write sample manifest: %v", writeErr),
			Err:     writeErr,
		}
	}

	return StepResult{
		Name:    "Sample manifest",
		Status:  StepSuccess,
		Message: fmt.Sprintf("Wrote sample manifest (%s)", path),
	}
}

// stepCheckDatabase verifies the configured postgres store is reachable.
// A missing DSN is a normal condition, not a warning: most installs run on
// the static or file provider.
func stepCheckDatabase(ctx context.Context) StepResult {
	cfg := config.New()
	if cfg.Provider.DSN == "" {
		return StepResult{
			Name:    "Database check",
			Status:  StepSuccess,
			Message: "No postgres DSN configured (static/file providers in use)",
		}
	}

	pg, err := provider.NewPostgres(cfg.Provider.DSN)
	if err != nil {
		return StepResult{
			Name:    "Database check",
			Status:  StepWarning,
			Message: fmt.Sprintf("Failed to open postgres pool: %v", err),
			Err:     err,
		}
	}
	defer pg.Close() //nolint:errcheck // connectivity probe only

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()

	if pingErr := pg.Ping(pingCtx); pingErr != nil {
		return StepResult{
			Name:   "Database check",
			Status: StepWarning,
			Message: fmt.Sprintf(
				"Postgres not reachable: %v\n  Try later: cargofocus db init --seed",
				pingErr,
			),
			Err: pingErr,
		}
	}

	return StepResult{
		Name:    "Database check",
		Status:  StepSuccess,
		Message: "Postgres shipment store reachable",
	}
}
