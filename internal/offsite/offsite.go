// Package offsite scores how a site shows up in AI answers: visibility across
// providers and how quotable a single page is.
package offsite

import (
	"fmt"

	"github.com/dtnitsch/llm-readiness/models"
	"github.com/dtnitsch/llm-readiness/pkg/citation"
	"github.com/dtnitsch/llm-readiness/pkg/engine"
	"github.com/dtnitsch/llm-readiness/pkg/signals"
	"github.com/dtnitsch/llm-readiness/pkg/visibility"
)

// VisibilityInput carries either precomputed rates or raw probes.
type VisibilityInput struct {
	Rates             *visibility.Rates        `json:"rates,omitempty" yaml:"rates,omitempty"`
	Checks            []visibility.CheckResult `json:"checks,omitempty" yaml:"checks,omitempty"`
	BacklinkAuthority float64                  `json:"backlink_authority" yaml:"backlink_authority"`
}

// VisibilityReport is the data of the visibility verb.
type VisibilityReport struct {
	Rates  visibility.Rates         `json:"rates" yaml:"rates"`
	Probes int                      `json:"probes" yaml:"probes"`
	Score  models.AIVisibilityScore `json:"score" yaml:"score"`
}

// Visibility scores precomputed rates, or rates aggregated from probes.
func Visibility(eng *engine.Engine, in VisibilityInput) models.Response {
	var rates visibility.Rates
	switch {
	case in.Rates != nil:
		rates = *in.Rates
	case len(in.Checks) > 0:
		rates = visibility.RatesFromChecks(in.Checks, in.BacklinkAuthority)
	default:
		return models.NewErrorResponse("visibility", models.ErrorTypeNoData, "no rates or visibility checks provided",
			"Provide 'rates' or a list of 'checks' in the input file")
	}
	return models.NewDataResponse("visibility", VisibilityReport{
		Rates:  rates,
		Probes: len(in.Checks),
		Score:  eng.AIVisibility(rates),
	})
}

// CitationFromInput scores a prepared citation input.
func CitationFromInput(eng *engine.Engine, in citation.Input) models.Response {
	return models.NewDataResponse("citation", eng.CitationReadiness(in))
}

// CitationFromDocument extracts signals and facts from a fetched page and
// scores it.
func CitationFromDocument(eng *engine.Engine, doc signals.Document) (models.Response, error) {
	ex, err := signals.NewExtractor().Extract(doc, models.SiteContext{})
	if err != nil {
		return models.Response{}, fmt.Errorf("failed to extract signals: %w", err)
	}
	return CitationFromInput(eng, citation.InputFromSignals(&ex.Signals, ex.Facts)), nil
}
