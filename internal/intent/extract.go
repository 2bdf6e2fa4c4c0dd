// Package intent maps free-text utterances onto structured scenario
// requests using an ordered heuristic rule list.
//
// Extraction is deliberately keyword-driven, not linguistic: a fixed
// trigger set decides whether the text is asking for a what-if at all, and
// a prioritized rule list then fills in the request fields. Rules run in
// a fixed order and later rules may overwrite earlier ones (last writer
// wins); the order is:
//
//  1. record/route identifier ("route <id>", "shipment <id>")
//  2. whole-fleet selectors ("all shipments", "all routes", "everything")
//  3. air as source mode
//  4. sea as target mode, unless phrased directionally ("sea to …"),
//     which makes sea the source instead
//  5. land as target with a directional preposition ("to land"), else as
//     source when none is set
//  6. blanket optimization ("optimize all …", "best mode", "lowest"),
//     which clears any target so the engine picks the cheapest mode
//
// When one phrase implies the same mode as both source and target, the
// directional reading wins and the target stays unset. Callers that get a
// nil request fall back to a general informational answer.
package intent

import (
	"regexp"
	"strings"

	"github.com/rshade/cargofocus/internal/emissions"
	"github.com/rshade/cargofocus/internal/engine"
)

// Trigger patterns. The text must match at least one before any field
// extraction happens.
var (
	conditionalTriggers = []string{
		"what if", "what would", "what happens", "suppose", "could we",
		"how about", "imagine",
	}

	allModeTrigger = regexp.MustCompile(`\ball (air|sea|land|shipments|routes)\b`)

	actionTrigger = regexp.MustCompile(
		`\b(switch|switched|move|moved|shift|shifted|eliminate|reduce|improve|optimize|optimise|convert|replace)\b`)
)

// Field extraction patterns.
var (
	recordIDPattern = regexp.MustCompile(`(?i)\b(?:route|shipment)\s+#?([A-Za-z0-9][A-Za-z0-9_-]*)`)

	airPattern        = regexp.MustCompile(`\bair\b`)
	seaPattern        = regexp.MustCompile(`\bsea\b`)
	seaSourcePattern  = regexp.MustCompile(`\bsea to\b`)
	landPattern       = regexp.MustCompile(`\bland\b`)
	landTargetPattern = regexp.MustCompile(`\b(?:to|into|onto) land\b`)

	wholeFleetPattern = regexp.MustCompile(`\ball (?:shipments|routes)\b|\beverything\b`)
	blanketPattern    = regexp.MustCompile(`\b(?:optimize|optimise|best mode|lowest|cheapest|greenest)\b`)
)

// reservedTokens are words the record-id capture must not mistake for an
// identifier ("shipment to sea" carries no id).
var reservedTokens = map[string]struct{}{
	"to": {}, "into": {}, "onto": {}, "from": {}, "by": {}, "via": {},
	"the": {}, "a": {}, "an": {}, "all": {}, "and": {}, "or": {},
	"with": {}, "for": {},
}

// rule is one step of the extraction pipeline. Rules see the lowercased
// text plus the original (for case-preserving captures) and mutate the
// request in place.
type rule struct {
	name  string
	apply func(lower, original string, req *engine.ScenarioRequest)
}

// rules is the prioritized list, evaluated first to last.
var rules = []rule{
	{name: "record-id", apply: extractRecordID},
	{name: "whole-fleet", apply: extractWholeFleet},
	{name: "air-source", apply: extractAirSource},
	{name: "sea-target", apply: extractSeaTarget},
	{name: "land", apply: extractLand},
	{name: "blanket-optimize", apply: extractBlanket},
}

// RuleOrder returns the rule names in evaluation order, for diagnostics.
func RuleOrder() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}

// Extract maps free text onto a scenario request, or nil when the text
// does not ask for a what-if at all. The returned request is freshly
// allocated; callers own it.
func Extract(text string) *engine.ScenarioRequest {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" || !Triggered(lower) {
		return nil
	}

	req := &engine.ScenarioRequest{}
	for _, r := range rules {
		r.apply(lower, text, req)
	}
	return req
}

// Triggered reports whether lowercased text matches any trigger phrase:
// conditional/hypothetical phrasing, "all <mode>" phrasing, or one of the
// action verbs.
func Triggered(lower string) bool {
	for _, phrase := range conditionalTriggers {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return allModeTrigger.MatchString(lower) || actionTrigger.MatchString(lower)
}

func extractRecordID(_, original string, req *engine.ScenarioRequest) {
	m := recordIDPattern.FindStringSubmatch(original)
	if m == nil {
		return
	}
	if _, reserved := reservedTokens[strings.ToLower(m[1])]; reserved {
		return
	}
	req.RecordID = m[1]
}

func extractWholeFleet(lower, _ string, req *engine.ScenarioRequest) {
	if wholeFleetPattern.MatchString(lower) {
		req.SourceAll = true
	}
}

func extractAirSource(lower, _ string, req *engine.ScenarioRequest) {
	if airPattern.MatchString(lower) {
		mode := emissions.ModeAir
		req.Source = &mode
	}
}

func extractSeaTarget(lower, _ string, req *engine.ScenarioRequest) {
	if !seaPattern.MatchString(lower) {
		return
	}
	if seaSourcePattern.MatchString(lower) {
		// "sea to X" reads directionally: sea is where the shipments
		// come from, not where they go.
		mode := emissions.ModeSea
		req.Source = &mode
		return
	}
	mode := emissions.ModeSea
	req.Target = &mode
}

func extractLand(lower, _ string, req *engine.ScenarioRequest) {
	if !landPattern.MatchString(lower) {
		return
	}
	if landTargetPattern.MatchString(lower) {
		mode := emissions.ModeLand
		req.Target = &mode
		return
	}
	if req.Source == nil {
		mode := emissions.ModeLand
		req.Source = &mode
	}
}

func extractBlanket(lower, _ string, req *engine.ScenarioRequest) {
	if blanketPattern.MatchString(lower) && strings.Contains(lower, "all") {
		req.SourceAll = true
		req.Target = nil
	}
}
