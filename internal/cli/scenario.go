package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/cargofocus/internal/emissions"
	"github.com/rshade/cargofocus/internal/engine"
	"github.com/rshade/cargofocus/internal/intent"
	"github.com/rshade/cargofocus/internal/logging"
)

// sourceAll is the --from value selecting every record.
const sourceAll = "all"

// ScenarioParams holds the parameters for the scenario command execution.
// Exported for testing.
type ScenarioParams struct {
	From   string
	To     string
	Record string
	Strict bool
	Output string
}

// NewScenarioCmd creates the "scenario" subcommand for what-if transport
// analysis.
//
// The scenario is described either by flags or by free text after "--":
//
//  1. Flag mode:
//     - --from: source mode or "all" (selects the affected records)
//     - --to: target mode the affected records hypothetically switch to
//     - --record: narrow the scenario to a single shipment id
//     "--from all" without --to requests blanket optimization: every
//     record recomputed with the globally cheapest mode.
//
//  2. Free-text mode:
//     - trailing arguments are joined and routed through the intent
//     extractor, e.g. `cargofocus scenario -- "what if all air went by sea"`
//
// Common flags:
//   - --strict-selection: a selection that matches nothing stays empty
//     instead of widening to the whole record set
func NewScenarioCmd() *cobra.Command {
	var params ScenarioParams

	cmd := &cobra.Command{
		Use:   "scenario [-- free text]",
		Short: "Preview a what-if transport scenario",
		Long: `Scenario previews the emissions impact of reassigning shipments to a
different transport mode: baseline versus hypothetical totals, per-route
impacts, a 0-100 health score, and a recommendation.

The record set itself is never modified; the reassignment exists only in
the preview.`,
		Example: scenarioExample,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeScenario(cmd, args, params)
		},
	}

	cmd.Flags().StringVar(&params.From, "from", "",
		"Source transport mode (air, sea, land) or \"all\"")
	cmd.Flags().StringVar(&params.To, "to", "",
		"Target transport mode (air, sea, land)")
	cmd.Flags().StringVar(&params.Record, "record", "",
		"Limit the scenario to a single shipment id")
	cmd.Flags().BoolVar(&params.Strict, "strict-selection", false,
		"Keep an empty selection empty instead of widening to all records")

	return cmd
}

const scenarioExample = `  # Switch all air freight to sea
  cargofocus scenario --from air --to sea

  # Let the engine pick the cheapest mode for everything
  cargofocus scenario --from all

  # What happens if one shipment goes by land
  cargofocus scenario --record SHP-002 --to land

  # Ask in plain words
  cargofocus scenario -- "what if we moved all air shipments to sea"

  # Strict selection: no silent fallback when nothing matches
  cargofocus scenario --from air --to sea --strict-selection`

// ValidateScenarioFlags checks flag and argument consistency for the
// scenario command. Exported for testing.
func ValidateScenarioFlags(params ScenarioParams, args []string) error {
	hasFlags := params.From != "" || params.To != "" || params.Record != ""
	hasText := len(args) > 0

	if hasFlags && hasText {
		return fmt.Errorf("scenario flags and free text are mutually exclusive")
	}
	if !hasFlags && !hasText {
		return fmt.Errorf("nothing to simulate: provide --from/--to/--record or free text")
	}

	if params.From != "" && params.From != sourceAll {
		if _, err := emissions.ParseTransportMode(params.From); err != nil {
			return fmt.Errorf("invalid --from: %w", err)
		}
	}
	if params.To != "" {
		if _, err := emissions.ParseTransportMode(params.To); err != nil {
			return fmt.Errorf("invalid --to: %w", err)
		}
	}

	return nil
}

// buildScenarioRequest turns validated flags into a scenario request.
func buildScenarioRequest(params ScenarioParams) (engine.ScenarioRequest, error) {
	var req engine.ScenarioRequest

	switch {
	case params.From == sourceAll:
		req.SourceAll = true
	case params.From != "":
		mode, err := emissions.ParseTransportMode(params.From)
		if err != nil {
			return req, fmt.Errorf("invalid --from: %w", err)
		}
		req.Source = &mode
	}

	if params.To != "" {
		mode, err := emissions.ParseTransportMode(params.To)
		if err != nil {
			return req, fmt.Errorf("invalid --to: %w", err)
		}
		req.Target = &mode
	}

	req.RecordID = params.Record
	return req, nil
}

// executeScenario runs the what-if evaluation for the "scenario" command.
func executeScenario(cmd *cobra.Command, args []string, params ScenarioParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	if err := ValidateScenarioFlags(params, args); err != nil {
		return usageErrorf("%s", err.Error())
	}

	cfg, err := loadCommandConfig(cmd)
	if err != nil {
		return err
	}
	params.Output = outputFormat(cmd, cfg)
	if err := validateOutputFormat(params.Output); err != nil {
		return usageErrorf("%s", err.Error())
	}

	freeText := strings.TrimSpace(strings.Join(args, " "))
	auditParams := map[string]string{
		"from": params.From, "to": params.To, "record": params.Record, "output": params.Output,
	}
	if freeText != "" {
		auditParams["text"] = freeText
	}
	audit := newAuditContext(ctx, "scenario", auditParams)

	var req engine.ScenarioRequest
	if freeText != "" {
		extracted := intent.Extract(freeText)
		if extracted == nil {
			log.Debug().Ctx(ctx).Str("operation", "scenario").Msg("no scenario intent recognized")
			audit.logSuccess(ctx, 0, 0)
			return renderNoIntent(cmd.OutOrStdout(), params.Output)
		}
		req = *extracted
	} else {
		req, err = buildScenarioRequest(params)
		if err != nil {
			return usageErrorf("%s", err.Error())
		}
	}

	policy, err := selectionPolicy(cfg, params.Strict)
	if err != nil {
		audit.logFailure(ctx, err)
		return err
	}
	req.EmptySelection = policy

	log.Debug().Ctx(ctx).Str("operation", "scenario").Str("scenario", req.Describe()).
		Msg("starting scenario simulation")

	records, err := fetchShipments(ctx, cfg, "", audit)
	if err != nil {
		return err
	}

	sim, err := buildSimulator(ctx, cfg, audit)
	if err != nil {
		return err
	}

	result, err := sim.Simulate(records, req)
	if err != nil {
		log.Error().Ctx(ctx).Err(err).Str("scenario", req.Describe()).Msg("scenario simulation failed")
		audit.logFailure(ctx, err)
		return fmt.Errorf("simulating scenario: %w", err)
	}
	result.RunID = logging.TraceIDFromContext(ctx)

	styled := styledWriter(cmd.OutOrStdout(), colorDisabled(cmd))
	if renderErr := renderScenarioResult(cmd.OutOrStdout(), params.Output, styled, result); renderErr != nil {
		return renderErr
	}

	audit.logSuccess(ctx, len(result.Affected), result.PreviewKG)
	log.Info().Ctx(ctx).Str("operation", "scenario").Str("scenario", req.Describe()).
		Float64("preview_kg", result.PreviewKG).Dur("duration_ms", time.Since(audit.start)).
		Msg("scenario simulation complete")

	return nil
}

// noIntentResult is the JSON shape returned when free text carried no
// recognizable scenario intent.
type noIntentResult struct {
	Intent  *engine.ScenarioRequest `json:"intent"`
	Message string                  `json:"message"`
}

// renderNoIntent reports that free text did not describe a scenario.
func renderNoIntent(w io.Writer, format string) error {
	result := noIntentResult{Message: "no scenario intent recognized"}
	switch format {
	case outputFormatJSON:
		return renderJSON(w, result)
	case outputFormatNDJSON:
		return renderNDJSON(w, result)
	default:
		fmt.Fprintln(w, "No scenario intent recognized in the text.")
		fmt.Fprintln(w, `Try phrasing like "what if all air shipments went by sea".`)
		return nil
	}
}

// renderScenarioResult renders a scenario result in the chosen format.
func renderScenarioResult(w io.Writer, format string, styled bool, result *engine.ScenarioResult) error {
	switch format {
	case outputFormatJSON:
		return renderJSON(w, result)
	case outputFormatNDJSON:
		return renderNDJSON(w, result)
	default:
		return renderScenarioResultTable(w, styled, result)
	}
}

// renderScenarioResultTable renders a scenario result as a table.
func renderScenarioResultTable(w io.Writer, styled bool, result *engine.ScenarioResult) error {
	fmt.Fprintln(w, "What-If Scenario Analysis")
	fmt.Fprintln(w, "=========================")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Scenario:  %s\n", result.Request.Describe())
	fmt.Fprintf(w, "Baseline:  %s\n", emissions.FormatKG(result.OriginalKG))
	fmt.Fprintf(w, "Preview:   %s\n", emissions.FormatKG(result.PreviewKG))

	arrow := DirectionArrow(resultDirection(result))
	fmt.Fprintf(w, "Change:    %s %s (%s)\n", arrow, emissions.FormatKG(result.DeltaKG), result.Percent.Format())
	fmt.Fprintf(w, "Score:     %s\n", renderScore(result.Score, styled))
	fmt.Fprintln(w)

	if len(result.Affected) > 0 {
		fmt.Fprintln(w, "Affected Routes:")
		fmt.Fprintln(w, "----------------")
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tROUTE\tMODE\tEMISSIONS (KG CO2E)\tCHANGE")
		for _, impact := range result.Affected {
			fmt.Fprintf(tw, "%s\t%s\t%s → %s\t%s → %s\t%s %s\n",
				impact.RecordID,
				impact.Route,
				impact.Before, impact.After,
				emissions.FormatFloat(impact.OriginalKG, 2),
				emissions.FormatFloat(impact.PreviewKG, 2),
				DirectionArrow(impact.Direction),
				impact.Percent.Format(),
			)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Recommendation: %s\n", RecommendationText(result.Recommendation))

	if result.FellBackToAll {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Note: the selection matched no records; the preview covers the full set instead.")
	}
	if result.NoMatches {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Note: the selection matched no records; strict selection kept the preview unchanged.")
	}

	return nil
}

// resultDirection classifies the top-level delta for the change arrow.
func resultDirection(result *engine.ScenarioResult) engine.Direction {
	switch {
	case result.DeltaKG < 0:
		return engine.DirectionReduction
	case result.DeltaKG > 0:
		return engine.DirectionIncrease
	default:
		return engine.DirectionUnchanged
	}
}
