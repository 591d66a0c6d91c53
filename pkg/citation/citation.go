// Package citation scores how quotable a page is for AI answer engines.
package citation

import (
	"slices"

	"github.com/dtnitsch/llm-readiness/models"
	"github.com/dtnitsch/llm-readiness/pkg/rules"
)

const (
	topN = 5

	factWeight   = 0.40
	llmWeight    = 0.35
	schemaWeight = 0.25

	structuredDataBase = 10
	perExternalLink    = 2
	maxLinkBonus       = 10
)

// highValueBonus is the credit for the 1st, 2nd, 3rd and 4th distinct
// high-value schema type. Further types add nothing.
var highValueBonus = []float64{40, 25, 15, 10}

// Fact is a statement extracted from the page.
type Fact struct {
	Text            string  `json:"text" yaml:"text"`
	CitabilityScore float64 `json:"citability_score" yaml:"citability_score"` // 0-100
}

// Input is everything the scorer looks at. Every field is optional.
type Input struct {
	CitationWorthiness  *float64 `json:"citation_worthiness,omitempty" yaml:"citation_worthiness,omitempty"`
	SchemaTypes         []string `json:"schema_types,omitempty" yaml:"schema_types,omitempty"`
	StructuredDataCount int      `json:"structured_data_count" yaml:"structured_data_count"`
	ExternalLinkCount   int      `json:"external_link_count" yaml:"external_link_count"`
	Facts               []Fact   `json:"facts,omitempty" yaml:"facts,omitempty"`
}

// Components are the three parts of the score, each 0-100.
type Components struct {
	FactCitability        float64 `json:"fact_citability" yaml:"fact_citability"`
	LLMCitationWorthiness float64 `json:"llm_citation_worthiness" yaml:"llm_citation_worthiness"`
	SchemaQuality         float64 `json:"schema_quality" yaml:"schema_quality"`
}

// Result is the citation readiness of a page.
type Result struct {
	Score           int        `json:"score" yaml:"score"`
	Components      Components `json:"components" yaml:"components"`
	TopCitableFacts []Fact     `json:"top_citable_facts" yaml:"top_citable_facts"`
}

// InputFromSignals builds an Input from page signals and extracted facts.
func InputFromSignals(s *models.PageSignals, facts []Fact) Input {
	in := Input{
		SchemaTypes:         s.SchemaTypes,
		StructuredDataCount: len(s.StructuredData),
		ExternalLinkCount:   len(s.ExternalLinks),
		Facts:               facts,
	}
	if s.LLMRubric != nil {
		cw := s.LLMRubric.CitationWorthiness
		in.CitationWorthiness = &cw
	}
	return in
}

// Compute never fails: absent inputs give a component of 0.
func Compute(in Input, rs *rules.Ruleset) Result {
	top := slices.Clone(in.Facts)
	slices.SortStableFunc(top, func(a, b Fact) int {
		switch {
		case a.CitabilityScore > b.CitabilityScore:
			return -1
		case a.CitabilityScore < b.CitabilityScore:
			return 1
		}
		return 0
	})
	if top == nil {
		top = []Fact{}
	}

	var c Components
	if n := min(len(top), topN); n > 0 {
		var sum float64
		for _, f := range top[:n] {
			sum += models.ClampRate(f.CitabilityScore/100) * 100
		}
		c.FactCitability = sum / float64(n)
	}
	if in.CitationWorthiness != nil {
		c.LLMCitationWorthiness = models.ClampRate(*in.CitationWorthiness/100) * 100
	}
	c.SchemaQuality = schemaQuality(in, rs.HighValueSchemaTypes)

	score := factWeight*c.FactCitability + llmWeight*c.LLMCitationWorthiness + schemaWeight*c.SchemaQuality
	return Result{
		Score:           models.ClampScore(score),
		Components:      c,
		TopCitableFacts: top,
	}
}

func schemaQuality(in Input, highValue []string) float64 {
	if in.StructuredDataCount == 0 && len(in.SchemaTypes) == 0 {
		return 0
	}

	wanted := make(map[string]bool, len(highValue))
	for _, t := range highValue {
		wanted[rules.NormalizeSchemaType(t)] = true
	}
	matched := make(map[string]bool)
	score := float64(structuredDataBase)
	for _, t := range in.SchemaTypes {
		key := rules.NormalizeSchemaType(t)
		if !wanted[key] || matched[key] {
			continue
		}
		if n := len(matched); n < len(highValueBonus) {
			score += highValueBonus[n]
		}
		matched[key] = true
	}
	score += float64(min(max(in.ExternalLinkCount, 0)*perExternalLink, maxLinkBonus))
	return min(score, 100)
}
