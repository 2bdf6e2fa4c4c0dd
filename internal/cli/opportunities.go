package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/cargofocus/internal/cli/pagination"
	"github.com/rshade/cargofocus/internal/emissions"
	"github.com/rshade/cargofocus/internal/engine"
	"github.com/rshade/cargofocus/internal/logging"
)

// OpportunitiesParams holds the parameters for the opportunities command
// execution. Exported for testing.
type OpportunitiesParams struct {
	Sort       string
	Filter     []string
	Output     string
	Pagination pagination.PaginationParams
}

// OpportunitiesReport is the opportunities command's result document.
// TotalSavingsKG sums the full opportunity list, not just the returned
// page.
type OpportunitiesReport struct {
	Opportunities  []engine.Opportunity      `json:"opportunities"`
	TotalSavingsKG float64                   `json:"total_savings_kg"`
	Pagination     pagination.PaginationMeta `json:"pagination"`
}

// NewOpportunitiesCmd creates the "opportunities" subcommand for ranked
// per-route savings.
//
// Each record is compared against its own best alternative mode; records
// already on their cheapest mode produce no opportunity. Results default
// to descending savings order.
//
// Registered flags:
//   - --sort: sort expression, field[:order] with field one of
//     savings, percent, route, record, mode
//   - --filter: repeatable record filter expression(s)
//   - --limit/--offset: offset-based pagination
//   - --page/--page-size: page-based pagination (mutually exclusive with the above)
func NewOpportunitiesCmd() *cobra.Command {
	var params OpportunitiesParams

	cmd := &cobra.Command{
		Use:   "opportunities",
		Short: "Rank per-route emission savings opportunities",
		Long: `Opportunities evaluates every other transport mode for each shipment and
keeps the best one. A shipment whose alternative would emit strictly less
than its current mode becomes an opportunity, ranked by potential savings.`,
		Example: opportunitiesExample,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeOpportunities(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.Sort, "sort", "",
		"Sort expression: field[:asc|:desc] with field one of savings, percent, route, record, mode")
	cmd.Flags().StringArrayVar(&params.Filter, "filter", []string{},
		"Record filter expressions (e.g., 'mode=air')")
	cmd.Flags().IntVar(&params.Pagination.Limit, "limit", 0, "Maximum number of results")
	cmd.Flags().IntVar(&params.Pagination.Offset, "offset", 0, "Number of results to skip")
	cmd.Flags().IntVar(&params.Pagination.Page, "page", 0, "1-based page number")
	cmd.Flags().IntVar(&params.Pagination.PageSize, "page-size", 0, "Results per page")

	return cmd
}

const opportunitiesExample = `  # Top savings first
  cargofocus opportunities

  # Ten biggest savings
  cargofocus opportunities --sort savings --limit 10

  # Second page of five
  cargofocus opportunities --page 2 --page-size 5

  # Smallest percentage gain first
  cargofocus opportunities --sort percent:asc

  # Output as JSON with pagination metadata
  cargofocus opportunities --output json`

// ValidateOpportunitiesFlags checks sort and pagination consistency.
// Exported for testing.
func ValidateOpportunitiesFlags(params OpportunitiesParams) error {
	if err := params.Pagination.Validate(); err != nil {
		return err
	}

	if params.Sort != "" {
		field, _, err := pagination.ParseSortExpression(params.Sort)
		if err != nil {
			return err
		}
		sorter := pagination.NewOpportunitySorter()
		if !sorter.IsValidField(field) {
			return fmt.Errorf("%w: %q (valid: %s)",
				pagination.ErrInvalidSortField, field, strings.Join(sorter.GetValidFields(), ", "))
		}
	}

	return nil
}

// executeOpportunities runs the savings ranking for the "opportunities"
// command.
func executeOpportunities(cmd *cobra.Command, params OpportunitiesParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	if err := ValidateOpportunitiesFlags(params); err != nil {
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

	auditParams := map[string]string{"sort": params.Sort, "output": params.Output}
	if len(params.Filter) > 0 {
		auditParams["filter"] = strings.Join(params.Filter, ",")
	}
	audit := newAuditContext(ctx, "opportunities", auditParams)

	log.Debug().Ctx(ctx).Str("operation", "opportunities").Str("sort", params.Sort).
		Msg("starting opportunity ranking")

	records, err := fetchShipments(ctx, cfg, "", audit)
	if err != nil {
		return err
	}

	records, err = ApplyFilters(ctx, records, params.Filter)
	if err != nil {
		audit.logFailure(ctx, err)
		return fmt.Errorf("applying filters: %w", err)
	}

	sim, err := buildSimulator(ctx, cfg, audit)
	if err != nil {
		return err
	}

	opportunities, err := sim.Opportunities(records)
	if err != nil {
		log.Error().Ctx(ctx).Err(err).Msg("failed to rank opportunities")
		audit.logFailure(ctx, err)
		return fmt.Errorf("ranking opportunities: %w", err)
	}

	// The engine already orders by descending savings; an explicit --sort
	// re-orders on top of that.
	if params.Sort != "" {
		field, order, sortErr := pagination.ParseSortExpression(params.Sort)
		if sortErr != nil {
			return usageErrorf("%s", sortErr.Error())
		}
		opportunities = pagination.NewOpportunitySorter().Sort(opportunities, field, order)
	}

	totalSavings := 0.0
	for _, opp := range opportunities {
		totalSavings += opp.SavingsKG
	}

	report := OpportunitiesReport{
		Opportunities:  pagination.ApplyToSlice(params.Pagination, opportunities),
		TotalSavingsKG: totalSavings,
		Pagination:     pagination.NewPaginationMeta(params.Pagination, len(opportunities)),
	}

	if renderErr := renderOpportunitiesReport(cmd.OutOrStdout(), params.Output, &report); renderErr != nil {
		return renderErr
	}

	audit.logSuccess(ctx, len(report.Opportunities), totalSavings)
	log.Info().Ctx(ctx).Str("operation", "opportunities").
		Int("opportunity_count", len(opportunities)).Float64("total_savings_kg", totalSavings).
		Dur("duration_ms", time.Since(audit.start)).Msg("opportunity ranking complete")

	return nil
}

// renderOpportunitiesReport renders the ranking in the chosen format.
func renderOpportunitiesReport(w io.Writer, format string, report *OpportunitiesReport) error {
	switch format {
	case outputFormatJSON:
		return renderJSON(w, report)
	case outputFormatNDJSON:
		return renderNDJSONStream(w, report.Opportunities)
	default:
		return renderOpportunitiesTable(w, report)
	}
}

// renderOpportunitiesTable renders the ranking as a table.
func renderOpportunitiesTable(w io.Writer, report *OpportunitiesReport) error {
	fmt.Fprintln(w, "Optimization Opportunities")
	fmt.Fprintln(w, "==========================")
	fmt.Fprintln(w)

	if len(report.Opportunities) == 0 {
		fmt.Fprintln(w, "No optimization opportunities: every shipment already uses its cheapest mode.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tROUTE\tSWITCH\tCURRENT (KG)\tBEST (KG)\tSAVINGS (KG)\tSAVINGS %")
	rankOffset := report.Pagination.PageSize * (report.Pagination.CurrentPage - 1)
	for i, opp := range report.Opportunities {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s → %s\t%s\t%s\t%s\t%.1f%%\n",
			rankOffset+i+1,
			opp.Record.ID,
			opp.Record.Route(),
			opp.Record.TransportType, opp.BestMode,
			emissions.FormatFloat(opp.CurrentKG, 2),
			emissions.FormatFloat(opp.BestKG, 2),
			emissions.FormatFloat(opp.SavingsKG, 2),
			opp.SavingsPercent,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total potential savings: %s\n", emissions.FormatKG(report.TotalSavingsKG))

	if report.Pagination.TotalPages > 1 {
		fmt.Fprintf(w, "Page %d of %d (%d opportunities)\n",
			report.Pagination.CurrentPage, report.Pagination.TotalPages, report.Pagination.TotalItems)
	}

	return nil
}
