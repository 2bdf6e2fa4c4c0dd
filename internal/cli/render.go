package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/cargofocus/internal/engine"
)

// Output format names accepted by the --output flag.
const (
	outputFormatTable  = "table"
	outputFormatJSON   = "json"
	outputFormatNDJSON = "ndjson"
)

// Health score band boundaries used for coloring scores in tables and the
// TUI. A preview at or above scoreBandGood renders green, at or above
// scoreBandFair amber, below that red.
const (
	scoreBandGood = 80.0
	scoreBandFair = 50.0
)

func scoreGoodColor() lipgloss.Color { return lipgloss.Color("42") }

func scoreFairColor() lipgloss.Color { return lipgloss.Color("214") }

func scorePoorColor() lipgloss.Color { return lipgloss.Color("196") }

// validateOutputFormat rejects --output values other than the three known
// format names.
func validateOutputFormat(format string) error {
	switch format {
	case outputFormatTable, outputFormatJSON, outputFormatNDJSON:
		return nil
	default:
		return fmt.Errorf("invalid output format %q (valid: %s, %s, %s)",
			format, outputFormatTable, outputFormatJSON, outputFormatNDJSON)
	}
}

// renderJSON writes v as indented JSON.
func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderNDJSON writes v as a single JSON line.
func renderNDJSON(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

// renderNDJSONStream writes each item as its own JSON line.
func renderNDJSONStream[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return err
		}
	}
	return nil
}

// ScoreColor maps a 0-100 health score to its band color.
func ScoreColor(score float64) lipgloss.Color {
	switch {
	case score >= scoreBandGood:
		return scoreGoodColor()
	case score >= scoreBandFair:
		return scoreFairColor()
	default:
		return scorePoorColor()
	}
}

// renderScore formats "92.3 / 100", bold and band-colored when styled.
func renderScore(score float64, styled bool) string {
	text := fmt.Sprintf("%.1f / 100", score)
	if !styled {
		return text
	}
	style := lipgloss.NewStyle().Bold(true).Foreground(ScoreColor(score))
	return style.Render(text)
}

// DirectionArrow maps a route direction to its table glyph.
func DirectionArrow(d engine.Direction) string {
	switch d {
	case engine.DirectionReduction:
		return "↓"
	case engine.DirectionIncrease:
		return "↑"
	case engine.DirectionUnchanged:
		return "→"
	default:
		return "→"
	}
}

// styledWriter reports whether w should receive lipgloss-styled output.
// Styling requires a terminal and is disabled entirely by --no-color.
func styledWriter(w io.Writer, noColor bool) bool {
	if noColor {
		return false
	}
	return isWriterTerminal(w)
}

// isWriterTerminal reports whether the writer refers to a terminal. Only
// *os.File writers can be terminals; buffers in tests never are.
func isWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}

// RecommendationText turns a structured recommendation into prose using
// the five-case template table. The engine picks the kind; this is the
// only place the wording lives.
func RecommendationText(rec engine.Recommendation) string {
	subject := countShipments(rec.AffectedCount)
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

// countShipments phrases an affected count, e.g. "1 shipment", "4 shipments".
func countShipments(n int) string {
	if n == 1 {
		return "1 shipment"
	}
	return fmt.Sprintf("%d shipments", n)
}
