package cli

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/cargofocus/internal/config"
	"github.com/rshade/cargofocus/internal/emissions"
	"github.com/rshade/cargofocus/internal/engine"
	"github.com/rshade/cargofocus/internal/engine/batch"
	"github.com/rshade/cargofocus/internal/logging"
	"github.com/rshade/cargofocus/internal/provider"
)

// ModeInsight is one transport mode's aggregate inside an analyze report.
// The fixed {air, sea, land} set is always present, in that order, with
// zero values for modes no record uses.
type ModeInsight struct {
	Mode          emissions.TransportMode `json:"mode"`
	Count         int                     `json:"count"`
	TotalWeightKG float64                 `json:"total_weight_kg"`
	TotalKG       float64                 `json:"total_emissions_kg"`
}

// AnalyzeReport is the baseline emissions picture of one record set.
type AnalyzeReport struct {
	// Source names where the records came from: a provider name or a
	// file path.
	Source string `json:"source"`

	// RecordCount is the number of shipments analyzed.
	RecordCount int `json:"record_count"`

	// TotalKG is the summed footprint in kg CO2e.
	TotalKG float64 `json:"total_kg_co2e"`

	// Insights aggregates the set per transport mode.
	Insights []ModeInsight `json:"insights"`

	// Equivalency translates the total into everyday terms.
	Equivalency emissions.EquivalencySummary `json:"equivalency"`
}

// AnalyzeParams holds the parameters for the analyze command execution.
// Exported for testing.
type AnalyzeParams struct {
	Source string
	Filter []string
	Output string
}

// NewAnalyzeCmd creates the "analyze" subcommand for baseline emissions
// analysis.
//
// With no arguments the configured shipment provider supplies the record
// set. With one or more file arguments each file is analyzed concurrently
// and one report is produced per file.
//
// Registered flags:
//   - --source: provider source override (static, file, postgres)
//   - --filter: repeatable record filter expression(s)
func NewAnalyzeCmd() *cobra.Command {
	var params AnalyzeParams

	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Analyze baseline shipment emissions",
		Long: `Analyze computes the carbon baseline of a shipment set: total emissions,
per-mode aggregates, and an everyday-terms equivalency line.

Without arguments the configured provider supplies the records. With file
arguments each file is analyzed concurrently, producing one report per file.`,
		Example: analyzeExample,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeAnalyze(cmd, args, params)
		},
	}

	cmd.Flags().StringVar(&params.Source, "source", "",
		"Shipment source override: static, file, or postgres")
	cmd.Flags().StringArrayVar(&params.Filter, "filter", []string{},
		"Record filter expressions (e.g., 'mode=air', 'origin=Shanghai')")

	return cmd
}

const analyzeExample = `  # Analyze the configured shipment set
  cargofocus analyze

  # Analyze the bundled demo shipments explicitly
  cargofocus analyze --source static

  # Analyze only air freight
  cargofocus analyze --filter mode=air

  # Analyze shipment files concurrently
  cargofocus analyze q1.json q2.json q3.json

  # Output as JSON
  cargofocus analyze --output json`

// executeAnalyze runs the baseline analysis for the "analyze" command.
func executeAnalyze(cmd *cobra.Command, files []string, params AnalyzeParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	cfg, err := loadCommandConfig(cmd)
	if err != nil {
		return err
	}
	if params.Source != "" {
		cfg.Provider.Source = params.Source
	}
	params.Output = outputFormat(cmd, cfg)
	if err := validateOutputFormat(params.Output); err != nil {
		return usageErrorf("%s", err.Error())
	}

	auditParams := map[string]string{"source": cfg.Provider.Source, "output": params.Output}
	if len(files) > 0 {
		auditParams["files"] = strings.Join(files, ",")
	}
	if len(params.Filter) > 0 {
		auditParams["filter"] = strings.Join(params.Filter, ",")
	}
	audit := newAuditContext(ctx, "analyze", auditParams)

	log.Debug().Ctx(ctx).Str("operation", "analyze").Str("source", cfg.Provider.Source).
		Int("file_count", len(files)).Msg("starting emissions analysis")

	sim, err := buildSimulator(ctx, cfg, audit)
	if err != nil {
		return err
	}

	var reports []AnalyzeReport
	if len(files) == 0 {
		report, reportErr := analyzeConfiguredSource(ctx, cfg, sim, params, audit)
		if reportErr != nil {
			return reportErr
		}
		reports = []AnalyzeReport{*report}
	} else {
		reports, err = analyzeFiles(ctx, sim, files, params.Filter)
		if err != nil {
			audit.logFailure(ctx, err)
			return err
		}
	}

	if renderErr := renderAnalyzeReports(cmd.OutOrStdout(), params.Output, reports); renderErr != nil {
		return renderErr
	}

	totalRecords := 0
	totalKG := 0.0
	for _, r := range reports {
		totalRecords += r.RecordCount
		totalKG += r.TotalKG
	}
	audit.logSuccess(ctx, totalRecords, totalKG)

	log.Info().Ctx(ctx).Str("operation", "analyze").Int("report_count", len(reports)).
		Int("record_count", totalRecords).Dur("duration_ms", time.Since(audit.start)).
		Msg("emissions analysis complete")

	return nil
}

// analyzeConfiguredSource builds the report for the configured provider.
func analyzeConfiguredSource(
	ctx context.Context,
	cfg *config.Config,
	sim *engine.Simulator,
	params AnalyzeParams,
	audit *auditContext,
) (*AnalyzeReport, error) {
	records, err := fetchShipments(ctx, cfg, "", audit)
	if err != nil {
		return nil, err
	}

	records, err = ApplyFilters(ctx, records, params.Filter)
	if err != nil {
		audit.logFailure(ctx, err)
		return nil, fmt.Errorf("applying filters: %w", err)
	}

	report, err := buildAnalyzeReport(sim, cfg.Provider.Source, records)
	if err != nil {
		audit.logFailure(ctx, err)
		return nil, err
	}
	return report, nil
}

// analyzeFiles analyzes shipment files concurrently, one report per file.
// Reports land in input order regardless of completion order.
func analyzeFiles(
	ctx context.Context,
	sim *engine.Simulator,
	files []string,
	filters []string,
) ([]AnalyzeReport, error) {
	log := logging.FromContext(ctx)
	reports := make([]AnalyzeReport, len(files))

	proc, err := batch.NewProcessor[string](1)
	if err != nil {
		return nil, fmt.Errorf("building file processor: %w", err)
	}

	callback := func(ctx context.Context, fileBatch []string, index int) error {
		path := fileBatch[0]
		records, fetchErr := provider.NewFile(path).FetchShipments(ctx)
		if fetchErr != nil {
			return fetchErr
		}

		records, filterErr := ApplyFilters(ctx, records, filters)
		if filterErr != nil {
			return fmt.Errorf("applying filters: %w", filterErr)
		}

		report, buildErr := buildAnalyzeReport(sim, path, records)
		if buildErr != nil {
			return buildErr
		}

		// Each batch holds exactly one file, so index maps 1:1 to the
		// report slot.
		reports[index] = *report
		return nil
	}

	if err := proc.ProcessConcurrent(ctx, files, callback, runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("analyzing files: %w", err)
	}

	log.Debug().Ctx(ctx).Int("file_count", len(files)).Msg("file analysis complete")
	return reports, nil
}

// buildAnalyzeReport computes one record set's baseline report.
func buildAnalyzeReport(
	sim *engine.Simulator,
	source string,
	records []emissions.ShipmentRecord,
) (*AnalyzeReport, error) {
	total, err := sim.Calculator().TotalEmissions(records)
	if err != nil {
		return nil, fmt.Errorf("computing total emissions: %w", err)
	}

	stats, err := sim.ModeInsights(records)
	if err != nil {
		return nil, fmt.Errorf("aggregating mode insights: %w", err)
	}

	insights := make([]ModeInsight, 0, len(emissions.AllModes()))
	for _, mode := range emissions.AllModes() {
		stat := stats[mode]
		insights = append(insights, ModeInsight{
			Mode:          mode,
			Count:         stat.Count,
			TotalWeightKG: stat.TotalWeightKG,
			TotalKG:       stat.TotalKG,
		})
	}

	equivalency, err := emissions.Equivalencies(total)
	if err != nil {
		return nil, fmt.Errorf("computing equivalencies: %w", err)
	}

	return &AnalyzeReport{
		Source:      source,
		RecordCount: len(records),
		TotalKG:     total,
		Insights:    insights,
		Equivalency: equivalency,
	}, nil
}

// renderAnalyzeReports renders one or more analyze reports in the chosen
// format.
func renderAnalyzeReports(w io.Writer, format string, reports []AnalyzeReport) error {
	switch format {
	case outputFormatJSON:
		if len(reports) == 1 {
			return renderJSON(w, reports[0])
		}
		return renderJSON(w, reports)
	case outputFormatNDJSON:
		return renderNDJSONStream(w, reports)
	default:
		for i, report := range reports {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if err := renderAnalyzeReportTable(w, &report); err != nil {
				return err
			}
		}
		return nil
	}
}

// renderAnalyzeReportTable renders a single analyze report as a table.
func renderAnalyzeReportTable(w io.Writer, report *AnalyzeReport) error {
	fmt.Fprintln(w, "Shipment Emissions Analysis")
	fmt.Fprintln(w, "===========================")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Source:    %s\n", report.Source)
	fmt.Fprintf(w, "Shipments: %d\n", report.RecordCount)
	fmt.Fprintf(w, "Total:     %s\n", emissions.FormatKG(report.TotalKG))
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODE\tSHIPMENTS\tWEIGHT (KG)\tEMISSIONS (KG CO2E)")
	for _, insight := range report.Insights {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
			insight.Mode,
			insight.Count,
			emissions.FormatFloat(insight.TotalWeightKG, 1),
			emissions.FormatFloat(insight.TotalKG, 2),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if !report.Equivalency.IsEmpty {
		fmt.Fprintln(w)
		fmt.Fprintln(w, report.Equivalency.DisplayText)
	}

	return nil
}
