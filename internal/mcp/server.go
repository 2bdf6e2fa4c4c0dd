// Package mcp exposes the scenario engine to chat assistants over the
// Model Context Protocol. Each tool call fetches records from the
// configured provider and runs a pure engine operation; nothing is cached
// between calls.
package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rshade/cargofocus/internal/emissions"
	"github.com/rshade/cargofocus/internal/engine"
	"github.com/rshade/cargofocus/internal/intent"
	"github.com/rshade/cargofocus/internal/logging"
	"github.com/rshade/cargofocus/internal/provider"
)

// serverName identifies this MCP implementation to clients.
const serverName = "cargofocus"

// Server wraps the MCP SDK server around the scenario engine.
type Server struct {
	MCPServer *sdkmcp.Server

	sim    *engine.Simulator
	src    provider.Provider
	policy engine.SelectionPolicy
}

// NewServer creates an MCP server exposing the engine's simulate, insights,
// opportunities, and intent operations as tools.
func NewServer(version string, sim *engine.Simulator, src provider.Provider, policy engine.SelectionPolicy) *Server {
	s := &Server{
		sim:    sim,
		src:    src,
		policy: policy,
	}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: serverName, Version: version},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves MCP over stdio until the context is canceled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "simulate_scenario",
		Description: "Preview the emissions impact of switching shipments to a different transport mode. Returns baseline, preview, delta, health score, per-route impacts, and a recommendation.",
	}, s.handleSimulateScenario)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "emission_insights",
		Description: "Aggregate the shipment set per transport mode: count, total weight, total emissions, plus the overall baseline and an everyday-terms equivalency.",
	}, s.handleEmissionInsights)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "optimization_opportunities",
		Description: "Rank shipments by the emissions saved if each switched to its own best alternative mode. Only strictly positive savings are returned, largest first.",
	}, s.handleOpportunities)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "extract_intent",
		Description: "Extract a structured what-if scenario request from free text. Returns triggered=false when the text carries no scenario intent.",
	}, s.handleExtractIntent)
}

// --- Tool input/output types ---

type simulateScenarioInput struct {
	Source   string `json:"source,omitempty" jsonschema:"source transport mode (air, sea, land) or 'all' for every shipment"`
	Target   string `json:"target,omitempty" jsonschema:"target transport mode (air, sea, land); empty with source=all requests blanket optimization"`
	RecordID string `json:"record_id,omitempty" jsonschema:"limit the scenario to a single shipment id"`
	Strict   bool   `json:"strict,omitempty" jsonschema:"keep an empty selection empty instead of widening to all records"`
}

type simulateScenarioOutput struct {
	Result  *engine.ScenarioResult `json:"result"`
	Summary string                 `json:"summary"`
}

type emissionInsightsInput struct{}

type modeInsightEntry struct {
	Mode          emissions.TransportMode `json:"mode"`
	Count         int                     `json:"count"`
	TotalWeightKG float64                 `json:"total_weight_kg"`
	TotalKG       float64                 `json:"total_emissions_kg"`
}

type emissionInsightsOutput struct {
	RecordCount int                          `json:"record_count"`
	TotalKG     float64                      `json:"total_kg_co2e"`
	Insights    []modeInsightEntry           `json:"insights"`
	Equivalency emissions.EquivalencySummary `json:"equivalency"`
}

type opportunitiesInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of opportunities to return (0 = all)"`
}

type opportunitiesOutput struct {
	Opportunities  []engine.Opportunity `json:"opportunities"`
	TotalSavingsKG float64              `json:"total_savings_kg"`
}

type extractIntentInput struct {
	Text string `json:"text" jsonschema:"free text to analyze for scenario intent"`
}

type extractIntentOutput struct {
	Triggered bool                    `json:"triggered"`
	Request   *engine.ScenarioRequest `json:"request,omitempty"`
	Scenario  string                  `json:"scenario,omitempty"`
}

// --- Tool handlers ---

func (s *Server) handleSimulateScenario(
	ctx context.Context,
	_ *sdkmcp.CallToolRequest,
	input simulateScenarioInput,
) (*sdkmcp.CallToolResult, simulateScenarioOutput, error) {
	req, err := buildRequest(input, s.policy)
	if err != nil {
		return nil, simulateScenarioOutput{}, err
	}

	records, err := s.fetch(ctx)
	if err != nil {
		return nil, simulateScenarioOutput{}, err
	}

	result, err := s.sim.Simulate(records, req)
	if err != nil {
		return nil, simulateScenarioOutput{}, fmt.Errorf("simulate_scenario: %w", err)
	}
	result.RunID = logging.TraceIDFromContext(ctx)

	summary := fmt.Sprintf("%s: %s baseline → %s preview (%s change, score %.1f/100)",
		result.Request.Describe(),
		emissions.FormatKG(result.OriginalKG),
		emissions.FormatKG(result.PreviewKG),
		result.Percent.Format(),
		result.Score)

	return textResult(summary), simulateScenarioOutput{Result: result, Summary: summary}, nil
}

func (s *Server) handleEmissionInsights(
	ctx context.Context,
	_ *sdkmcp.CallToolRequest,
	_ emissionInsightsInput,
) (*sdkmcp.CallToolResult, emissionInsightsOutput, error) {
	records, err := s.fetch(ctx)
	if err != nil {
		return nil, emissionInsightsOutput{}, err
	}

	total, err := s.sim.Calculator().TotalEmissions(records)
	if err != nil {
		return nil, emissionInsightsOutput{}, fmt.Errorf("emission_insights: %w", err)
	}

	stats, err := s.sim.ModeInsights(records)
	if err != nil {
		return nil, emissionInsightsOutput{}, fmt.Errorf("emission_insights: %w", err)
	}

	insights := make([]modeInsightEntry, 0, len(emissions.AllModes()))
	for _, mode := range emissions.AllModes() {
		stat := stats[mode]
		insights = append(insights, modeInsightEntry{
			Mode:          mode,
			Count:         stat.Count,
			TotalWeightKG: stat.TotalWeightKG,
			TotalKG:       stat.TotalKG,
		})
	}

	equivalency, err := emissions.Equivalencies(total)
	if err != nil {
		return nil, emissionInsightsOutput{}, fmt.Errorf("emission_insights: %w", err)
	}

	summary := fmt.Sprintf("%d shipments emitting %s total", len(records), emissions.FormatKG(total))
	return textResult(summary), emissionInsightsOutput{
		RecordCount: len(records),
		TotalKG:     total,
		Insights:    insights,
		Equivalency: equivalency,
	}, nil
}

func (s *Server) handleOpportunities(
	ctx context.Context,
	_ *sdkmcp.CallToolRequest,
	input opportunitiesInput,
) (*sdkmcp.CallToolResult, opportunitiesOutput, error) {
	records, err := s.fetch(ctx)
	if err != nil {
		return nil, opportunitiesOutput{}, err
	}

	opportunities, err := s.sim.Opportunities(records)
	if err != nil {
		return nil, opportunitiesOutput{}, fmt.Errorf("optimization_opportunities: %w", err)
	}

	totalSavings := 0.0
	for _, opp := range opportunities {
		totalSavings += opp.SavingsKG
	}

	if input.Limit > 0 && input.Limit < len(opportunities) {
		opportunities = opportunities[:input.Limit]
	}

	summary := fmt.Sprintf("%d opportunities, %s total potential savings",
		len(opportunities), emissions.FormatKG(totalSavings))
	return textResult(summary), opportunitiesOutput{
		Opportunities:  opportunities,
		TotalSavingsKG: totalSavings,
	}, nil
}

func (s *Server) handleExtractIntent(
	_ context.Context,
	_ *sdkmcp.CallToolRequest,
	input extractIntentInput,
) (*sdkmcp.CallToolResult, extractIntentOutput, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, extractIntentOutput{}, fmt.Errorf("extract_intent: empty text")
	}

	req := intent.Extract(text)
	if req == nil {
		return textResult("no scenario intent recognized"), extractIntentOutput{Triggered: false}, nil
	}

	return textResult("scenario: " + req.Describe()), extractIntentOutput{
		Triggered: true,
		Request:   req,
		Scenario:  req.Describe(),
	}, nil
}

// --- Helpers ---

// fetch loads the shipment set from the configured provider.
func (s *Server) fetch(ctx context.Context) ([]emissions.ShipmentRecord, error) {
	records, err := s.src.FetchShipments(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching shipments from %s provider: %w", s.src.Name(), err)
	}
	return records, nil
}

// buildRequest validates tool input into a scenario request.
func buildRequest(input simulateScenarioInput, policy engine.SelectionPolicy) (engine.ScenarioRequest, error) {
	req := engine.ScenarioRequest{
		RecordID:       input.RecordID,
		EmptySelection: policy,
	}
	if input.Strict {
		req.EmptySelection = engine.SelectionStrict
	}

	switch {
	case input.Source == "all":
		req.SourceAll = true
	case input.Source != "":
		mode, err := emissions.ParseTransportMode(input.Source)
		if err != nil {
			return req, fmt.Errorf("invalid source: %w", err)
		}
		req.Source = &mode
	}

	if input.Target != "" {
		mode, err := emissions.ParseTransportMode(input.Target)
		if err != nil {
			return req, fmt.Errorf("invalid target: %w", err)
		}
		req.Target = &mode
	}

	if req.Source == nil && !req.SourceAll && req.Target == nil && req.RecordID == "" {
		return req, fmt.Errorf("nothing to simulate: provide source, target, or record_id")
	}

	return req, nil
}

// textResult wraps a human-readable summary as the unstructured half of a
// tool result; the typed output carries the structured half.
func textResult(text string) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: text}},
	}
}
