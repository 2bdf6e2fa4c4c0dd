package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/cargofocus/internal/engine"
	"github.com/rshade/cargofocus/internal/intent"
	"github.com/rshade/cargofocus/internal/logging"
)

// IntentReport is the intent command's result document.
type IntentReport struct {
	// Text is the analyzed input.
	Text string `json:"text"`

	// Triggered reports whether any scenario trigger phrase matched.
	Triggered bool `json:"triggered"`

	// Request is the extracted scenario request, nil when not triggered.
	Request *engine.ScenarioRequest `json:"request"`
}

// NewIntentCmd creates the "intent" subcommand. It runs the free-text
// heuristic on its own and shows what scenario request (if any) the text
// would produce — the debugging surface for the extraction rules.
func NewIntentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "intent <text>",
		Short: "Show the scenario request extracted from free text",
		Long: `Intent runs the keyword heuristic over the given text and prints the
scenario request it extracts, without simulating anything.

The rules are evaluated in a fixed order and later rules overwrite earlier
ones; this command exists to make that behavior inspectable.`,
		Example: intentExample,
		Args:    cobra.MinimumNArgs(1),
		RunE:    executeIntent,
	}

	return cmd
}

const intentExample = `  # A full scenario phrase
  cargofocus intent "what if we moved all air shipments to sea"

  # A single-shipment phrase
  cargofocus intent "could we switch shipment SHP-002 to land"

  # Text with no scenario intent
  cargofocus intent "how is the weather"`

// executeIntent runs the extraction for the "intent" command.
func executeIntent(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	cfg, err := loadCommandConfig(cmd)
	if err != nil {
		return err
	}
	format := outputFormat(cmd, cfg)
	if err := validateOutputFormat(format); err != nil {
		return usageErrorf("%s", err.Error())
	}

	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return usageErrorf("no text to analyze")
	}

	audit := newAuditContext(ctx, "intent", map[string]string{"text": text, "output": format})

	req := intent.Extract(text)
	report := IntentReport{
		Text:      text,
		Triggered: req != nil,
		Request:   req,
	}

	if renderErr := renderIntentReport(cmd.OutOrStdout(), format, &report); renderErr != nil {
		return renderErr
	}

	audit.logSuccess(ctx, boolToCount(report.Triggered), 0)
	log.Debug().Ctx(ctx).Str("operation", "intent").Bool("triggered", report.Triggered).
		Dur("duration_ms", time.Since(audit.start)).Msg("intent extraction complete")

	return nil
}

// boolToCount maps a trigger outcome to the audit entry's record count.
func boolToCount(b bool) int {
	if b {
		return 1
	}
	return 0
}

// renderIntentReport renders the extraction outcome in the chosen format.
func renderIntentReport(w io.Writer, format string, report *IntentReport) error {
	switch format {
	case outputFormatJSON:
		return renderJSON(w, report)
	case outputFormatNDJSON:
		return renderNDJSON(w, report)
	default:
		return renderIntentTable(w, report)
	}
}

// renderIntentTable renders the extraction outcome as plain text.
func renderIntentTable(w io.Writer, report *IntentReport) error {
	fmt.Fprintf(w, "Text: %q\n", report.Text)

	if !report.Triggered {
		fmt.Fprintln(w, "No scenario intent recognized.")
		return nil
	}

	req := report.Request
	fmt.Fprintf(w, "Scenario: %s\n", req.Describe())

	switch {
	case req.RecordID != "":
		fmt.Fprintf(w, "Selection: shipment %s\n", req.RecordID)
	case req.SourceAll:
		fmt.Fprintln(w, "Selection: all shipments")
	case req.Source != nil:
		fmt.Fprintf(w, "Selection: %s shipments\n", *req.Source)
	default:
		fmt.Fprintln(w, "Selection: all shipments (no selector)")
	}

	if req.Target != nil {
		fmt.Fprintf(w, "Target mode: %s\n", *req.Target)
	} else if req.IsBlanket() {
		fmt.Fprintln(w, "Target mode: cheapest available (blanket optimization)")
	}

	return nil
}
