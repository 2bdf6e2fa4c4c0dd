package tui

import (
	"fmt"
	"strings"

	"github.com/rshade/cargofocus/internal/emissions"
	"github.com/rshade/cargofocus/internal/engine"
)

// Column widths for the route table.
const (
	routeIDWidth   = 10
	routeNameWidth = 26
	routeModeWidth = 12
	routeKGWidth   = 12
	minTruncateLen = 3
)

// View renders the explorer.
func (m *ExplorerModel) View() string {
	switch m.state {
	case ExplorerStateQuitting:
		return ""

	case ExplorerStateError:
		return fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err)

	case ExplorerStateLoading:
		return mutedStyle.Render("Loading shipments...")

	case ExplorerStateReady:
		// Rendered below.
	}

	var sb strings.Builder

	sb.WriteString(titleStyle.Render("What-If Scenario Explorer"))
	sb.WriteString("\n\n")
	sb.WriteString(m.renderScenarioLine())
	sb.WriteString("\n\n")

	if m.simulating {
		sb.WriteString(mutedStyle.Render("Simulating..."))
		sb.WriteString("\n\n")
	} else if m.result != nil {
		sb.WriteString(renderComparison(m.result))
		sb.WriteString("\n\n")
		sb.WriteString(renderRouteHeader())
		sb.WriteString("\n")
		sb.WriteString(m.routes.View())
		sb.WriteString("\n")
		sb.WriteString(m.renderNotes())
	}

	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))

	return sb.String()
}

// renderScenarioLine shows the scenario under construction.
func (m *ExplorerModel) renderScenarioLine() string {
	var sb strings.Builder

	sb.WriteString(labelStyle.Render("Scenario:  "))
	sb.WriteString(valueStyle.Render(m.request().Describe()))

	var flags []string
	if m.blanket {
		flags = append(flags, "blanket optimization")
	}
	if m.strict {
		flags = append(flags, "strict selection")
	}
	if len(flags) > 0 {
		sb.WriteString(mutedStyle.Render("  (" + strings.Join(flags, ", ") + ")"))
	}

	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("Shipments: "))
	sb.WriteString(valueStyle.Render(fmt.Sprintf("%d", len(m.records))))

	return sb.String()
}

// renderComparison shows baseline, preview, delta, and score.
func renderComparison(result *engine.ScenarioResult) string {
	var sb strings.Builder

	sb.WriteString(labelStyle.Render("Baseline:  "))
	sb.WriteString(valueStyle.Render(emissions.FormatKG(result.OriginalKG)))
	sb.WriteString("\n")

	sb.WriteString(labelStyle.Render("Preview:   "))
	sb.WriteString(valueStyle.Render(emissions.FormatKG(result.PreviewKG)))
	sb.WriteString("\n")

	icon, sign, style := deltaStyle(result.DeltaKG)
	delta := result.DeltaKG
	if delta < 0 {
		delta = -delta
	}
	sb.WriteString(labelStyle.Render("Change:    "))
	sb.WriteString(style.Render(fmt.Sprintf("%s%s %s (%s)",
		sign, emissions.FormatKG(delta), icon, result.Percent.Format())))
	sb.WriteString("\n")

	sb.WriteString(labelStyle.Render("Score:     "))
	sb.WriteString(scoreStyle(result.Score).Render(fmt.Sprintf("%.1f / 100", result.Score)))

	return sb.String()
}

// renderRouteHeader renders the fixed column headers above the viewport.
func renderRouteHeader() string {
	header := fmt.Sprintf("  %-*s %-*s %-*s %*s %*s  %s",
		routeIDWidth, "ID",
		routeNameWidth, "Route",
		routeModeWidth, "Mode",
		routeKGWidth, "Before (kg)",
		routeKGWidth, "After (kg)",
		"Change")
	return labelStyle.Render(header)
}

// renderRouteTable renders the per-route impact rows for the viewport.
func renderRouteTable(impacts []engine.RouteImpact) string {
	if len(impacts) == 0 {
		return noteStyle.Render("  No routes affected.")
	}

	var sb strings.Builder
	for i, impact := range impacts {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(renderRouteRow(impact))
	}
	return sb.String()
}

// renderRouteRow renders one affected route.
func renderRouteRow(impact engine.RouteImpact) string {
	icon, _, style := deltaStyle(impact.DeltaKG)

	modeChange := impact.Before.String()
	if impact.Before != impact.After {
		modeChange = fmt.Sprintf("%s%s%s", impact.Before, IconArrowRight, impact.After)
	}

	return fmt.Sprintf("  %-*s %-*s %-*s %*.2f %*.2f  %s",
		routeIDWidth, truncate(impact.RecordID, routeIDWidth),
		routeNameWidth, truncate(impact.Route, routeNameWidth),
		routeModeWidth, modeChange,
		routeKGWidth, impact.OriginalKG,
		routeKGWidth, impact.PreviewKG,
		style.Render(fmt.Sprintf("%s %s", icon, impact.Percent.Format())),
	)
}

// renderNotes shows the recommendation and selection-policy notes.
func (m *ExplorerModel) renderNotes() string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("Recommendation: "))
	sb.WriteString(valueStyle.Render(recommendationText(m.result.Recommendation)))

	if m.result.FellBackToAll {
		sb.WriteString("\n")
		sb.WriteString(noteStyle.Render("Selection matched nothing; previewing the full set instead."))
	}
	if m.result.NoMatches {
		sb.WriteString("\n")
		sb.WriteString(noteStyle.Render("Selection matched nothing; strict policy kept the preview unchanged."))
	}

	return sb.String()
}

// recommendationText renders the structured recommendation with the same
// five-case template table the CLI uses.
func recommendationText(rec engine.Recommendation) string {
	subject := "1 shipment"
	if rec.AffectedCount != 1 {
		subject = fmt.Sprintf("%d shipments", rec.AffectedCount)
	}
	switch rec.Kind {
	case engine.RecReductionToSea:
		return fmt.Sprintf("Switching %s to sea freight would cut emissions by %.1f%%.", subject, rec.Percent)
	case engine.RecReductionToLand:
		return fmt.Sprintf("Moving %s to land transport would cut emissions by %.1f%%.", subject, rec.Percent)
	case engine.RecGenericReduction:
		return fmt.Sprintf("This change would reduce total emissions by %.1f%% across %s.", rec.Percent, subject)
	case engine.RecIncreaseToAir:
		return fmt.Sprintf("Switching %s to air freight would raise emissions by %.1f%%; consider keeping slower modes.", subject, rec.Percent)
	case engine.RecGenericIncrease:
		return fmt.Sprintf("This change would raise total emissions by %.1f%% across %s.", rec.Percent, subject)
	default:
		return fmt.Sprintf("This change would move total emissions by %.1f%% across %s.", rec.Percent, subject)
	}
}

// truncate truncates a string to maxLen with ellipsis. Rune-aware so
// multi-byte route names survive.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= minTruncateLen {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-minTruncateLen]) + "..."
}
