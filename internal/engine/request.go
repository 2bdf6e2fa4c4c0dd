package engine

import (
	"fmt"

	"github.com/rshade/cargofocus/internal/emissions"
)

// SelectionPolicy controls what happens when a scenario filter matches no
// records.
//
//nolint:recvcheck // UnmarshalJSON requires pointer receiver; String/MarshalJSON use value receivers.
type SelectionPolicy int

const (
	// SelectionFallback silently widens an empty selection to the entire
	// record set, so a "no match" request still produces a meaningful
	// preview. This is the default.
	SelectionFallback SelectionPolicy = iota

	// SelectionStrict keeps an empty selection empty and reports it on the
	// result instead of widening.
	SelectionStrict
)

// String returns the wire label for a SelectionPolicy.
func (p SelectionPolicy) String() string {
	switch p {
	case SelectionFallback:
		return "fallback"
	case SelectionStrict:
		return "strict"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// MarshalJSON implements json.Marshaler to output SelectionPolicy as string.
func (p SelectionPolicy) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler to parse SelectionPolicy from string.
func (p *SelectionPolicy) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"fallback"`, `""`:
		*p = SelectionFallback
	case `"strict"`:
		*p = SelectionStrict
	default:
		return fmt.Errorf("unknown selection policy: %s", string(data))
	}
	return nil
}

// ScenarioRequest describes a what-if transport reassignment.
//
// The affected subset is chosen by the first selector present: RecordID,
// then Source (when SourceAll is false), otherwise the entire record set.
// SourceAll marks the "all shipments" selector; combined with a nil Target
// it switches the simulation into blanket optimization.
type ScenarioRequest struct {
	// Source restricts the affected set to records of one mode. Ignored
	// when SourceAll is true or RecordID is set.
	Source *emissions.TransportMode `json:"source,omitempty"`

	// SourceAll selects every record ("all" in free-text requests).
	SourceAll bool `json:"source_all,omitempty"`

	// Target is the mode affected records are hypothetically switched to.
	// Nil combined with SourceAll requests blanket optimization.
	Target *emissions.TransportMode `json:"target,omitempty"`

	// RecordID narrows the scenario to a single shipment.
	RecordID string `json:"record_id,omitempty"`

	// EmptySelection is the policy applied when the selectors above match
	// nothing.
	EmptySelection SelectionPolicy `json:"empty_selection,omitempty"`
}

// IsBlanket reports whether the request asks for blanket optimization:
// every selected record recomputed with the single globally-cheapest mode.
func (r ScenarioRequest) IsBlanket() bool {
	return r.SourceAll && r.Target == nil
}

// Describe returns a short human label for logging and report headers,
// e.g. "air → sea", "all → best", or "record SHP-002 → sea".
func (r ScenarioRequest) Describe() string {
	target := "best"
	if r.Target != nil {
		target = r.Target.String()
	}
	switch {
	case r.RecordID != "":
		return fmt.Sprintf("record %s → %s", r.RecordID, target)
	case r.SourceAll:
		return "all → " + target
	case r.Source != nil:
		return r.Source.String() + " → " + target
	default:
		return "all records → " + target
	}
}

// selectAffected returns the records the scenario recomputes, plus whether
// a narrowing filter was actually applied. Callers decide what an empty
// filtered result means via the request's SelectionPolicy.
func selectAffected(records []emissions.ShipmentRecord, req ScenarioRequest) (affected []emissions.ShipmentRecord, filtered bool) {
	switch {
	case req.RecordID != "":
		for _, rec := range records {
			if rec.ID == req.RecordID {
				affected = append(affected, rec)
			}
		}
		return affected, true
	case req.Source != nil && !req.SourceAll:
		for _, rec := range records {
			if rec.TransportType == *req.Source {
				affected = append(affected, rec)
			}
		}
		return affected, true
	default:
		return records, false
	}
}
