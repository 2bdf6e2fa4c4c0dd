package pagination

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rshade/cargofocus/internal/engine"
)

// Sorter defines the interface for sorting opportunities.
type Sorter interface {
	// Sort sorts a slice of opportunities by the specified field and order.
	Sort(opportunities []engine.Opportunity, field, order string) []engine.Opportunity
	// IsValidField checks if the given field name is valid for sorting.
	IsValidField(field string) bool
	// GetValidFields returns a list of valid field names for sorting.
	GetValidFields() []string
}

// OpportunitySorter implements Sorter for engine.Opportunity.
type OpportunitySorter struct {
	validFields map[string]bool
}

// NewOpportunitySorter creates a new OpportunitySorter with valid sort fields.
func NewOpportunitySorter() *OpportunitySorter {
	return &OpportunitySorter{
		validFields: map[string]bool{
			"savings": true,
			"percent": true,
			"route":   true,
			"record":  true,
			"mode":    true,
		},
	}
}

// IsValidField checks if the field is valid for sorting.
func (s *OpportunitySorter) IsValidField(field string) bool {
	return s.validFields[field]
}

// GetValidFields returns all valid sort fields.
func (s *OpportunitySorter) GetValidFields() []string {
	fields := make([]string, 0, len(s.validFields))
	for field := range s.validFields {
		fields = append(fields, field)
	}
	sort.Strings(fields) // Return in consistent order
	return fields
}

// Sort sorts opportunities by the specified field and order.
// Returns a new sorted slice; does not modify the original.
// If field is invalid, returns the original slice unchanged.
func (s *OpportunitySorter) Sort(
	opportunities []engine.Opportunity,
	field, order string,
) []engine.Opportunity {
	if !s.IsValidField(field) {
		return opportunities
	}

	// Make a copy to avoid modifying the original
	sorted := make([]engine.Opportunity, len(opportunities))
	copy(sorted, opportunities)

	sort.SliceStable(sorted, func(i, j int) bool {
		// For descending order, swap i and j in comparisons to maintain stability
		if order == SortOrderDesc {
			i, j = j, i
		}

		switch field {
		case "savings":
			return sorted[i].SavingsKG < sorted[j].SavingsKG
		case "percent":
			return sorted[i].SavingsPercent < sorted[j].SavingsPercent
		case "route":
			return sorted[i].Record.Route() < sorted[j].Record.Route()
		case "record":
			return sorted[i].Record.ID < sorted[j].Record.ID
		case "mode":
			return sorted[i].Record.TransportType.String() < sorted[j].Record.TransportType.String()
		default:
			return false
		}
	})

	return sorted
}

// ParseSortExpression parses a sort expression in "field:order" format.
// Supports:
//   - "field" - defaults to desc order
//   - "field:asc" - explicit ascending order
//   - "field:desc" - explicit descending order
//
// Returns field name, order, and error if parsing fails.
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseSortExpression(expr string) (field, order string, err error) {
	if strings.TrimSpace(expr) == "" {
		return "", "", errors.New("empty sort expression")
	}

	parts := strings.Split(expr, ":")

	if len(parts) > sortPartsMax {
		return "", "", fmt.Errorf("invalid format: too many colons in %q", expr)
	}

	field = strings.TrimSpace(parts[0])
	if field == "" {
		return "", "", errors.New("empty sort expression")
	}

	// Order defaults to desc: biggest savings first is the useful view.
	if len(parts) == sortPartsMax {
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	} else {
		order = "desc"
	}

	if order != "asc" && order != "desc" {
		return "", "", fmt.Errorf("invalid sort order: %q (must be asc or desc)", order)
	}

	return field, order, nil
}
