// Package rules holds the static tables the scoring engine runs on: category
// weights, thresholds, the issue catalog, per-platform requirement tables and
// the content-type classification rules.
//
// A Ruleset is a plain value passed into each engine component. Callers that
// want different rules build or load their own; nothing in the engine reads a
// package-level table.
package rules

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/llm-readiness/models"
)

// ErrInvalidRuleset wraps every validation failure.
var ErrInvalidRuleset = errors.New("invalid ruleset")

// Importance is how much an AI platform cares about a requirement.
type Importance string

const (
	ImportanceCritical    Importance = "critical"
	ImportanceImportant   Importance = "important"
	ImportanceRecommended Importance = "recommended"
)

// Weights are the category weights of the overall score. They must sum to 100.
type Weights struct {
	Technical   int `yaml:"technical"`
	Content     int `yaml:"content"`
	AIReadiness int `yaml:"ai_readiness"`
	Performance int `yaml:"performance"`
}

// For returns the weight of a category.
func (w Weights) For(c models.Category) int {
	switch c {
	case models.CategoryTechnical:
		return w.Technical
	case models.CategoryContent:
		return w.Content
	case models.CategoryAIReadiness:
		return w.AIReadiness
	case models.CategoryPerformance:
		return w.Performance
	}
	return 0
}

// Sum returns the total weight.
func (w Weights) Sum() int {
	return w.Technical + w.Content + w.AIReadiness + w.Performance
}

// SeverityWeights weight a check inside its category pass rate.
type SeverityWeights struct {
	Critical int `yaml:"critical"`
	Warning  int `yaml:"warning"`
	Info     int `yaml:"info"`
}

// For returns the weight of a severity.
func (w SeverityWeights) For(s models.Severity) int {
	switch s {
	case models.SeverityCritical:
		return w.Critical
	case models.SeverityWarning:
		return w.Warning
	case models.SeverityInfo:
		return w.Info
	}
	return 0
}

// Thresholds are the numeric cut-offs used by the detector and scorer.
type Thresholds struct {
	ThinContentWords   int     `yaml:"thin_content_words"`
	TargetWords        int     `yaml:"target_words"`
	TitleMin           int     `yaml:"title_min"`
	TitleMax           int     `yaml:"title_max"`
	MetaDescriptionMin int     `yaml:"meta_description_min"`
	MetaDescriptionMax int     `yaml:"meta_description_max"`
	MinReadability     float64 `yaml:"min_readability"`
	RubricMinimum      float64 `yaml:"rubric_minimum"`

	LighthousePerformance   float64 `yaml:"lighthouse_performance"`
	LighthouseSEO           float64 `yaml:"lighthouse_seo"`
	LighthouseAccessibility float64 `yaml:"lighthouse_accessibility"`
	LighthouseBestPractices float64 `yaml:"lighthouse_best_practices"`

	NeutralPerformance int     `yaml:"neutral_performance"`
	GateCap            int     `yaml:"gate_cap"`
	ContentRubricShare float64 `yaml:"content_rubric_share"`
	AIRubricShare      float64 `yaml:"ai_rubric_share"`
}

// IssueDef is the catalog entry for one issue code.
type IssueDef struct {
	Category       models.Category `yaml:"category"`
	Severity       models.Severity `yaml:"severity"`
	Message        string          `yaml:"message"`
	Recommendation string          `yaml:"recommendation"`
	Effort         models.Effort   `yaml:"effort"`
	Impact         int             `yaml:"impact"`
	Snippet        string          `yaml:"snippet,omitempty"`
	// Gate checks do not count toward a pass rate; failing one caps the
	// technical and AI-readiness sub-scores instead.
	Gate bool `yaml:"gate,omitempty"`
}

// Requirement is one row of a platform requirement table.
type Requirement struct {
	Code       string     `yaml:"code"`
	Label      string     `yaml:"label"`
	Importance Importance `yaml:"importance"`
}

// Platform is an AI answer engine and the checks it cares about.
type Platform struct {
	Name         string        `yaml:"name"`
	Requirements []Requirement `yaml:"requirements"`
}

// URLRule classifies a page by its URL path.
type URLRule struct {
	Pattern string `yaml:"pattern"`
	Type    string `yaml:"type"`
	Weight  int    `yaml:"weight"`
	Signal  string `yaml:"signal"`

	re *regexp.Regexp
}

// Match reports whether the lowercased path matches the rule. A rule that
// was never compiled matches nothing; Validate reports it.
func (r *URLRule) Match(path string) bool {
	if r.re == nil {
		return false
	}
	return r.re.MatchString(path)
}

// Ruleset bundles every table. A Ruleset built or edited in code must be
// compiled before use; Default, Load and Parse return compiled rulesets.
// Treat a Ruleset as read-only once compiled.
type Ruleset struct {
	Weights         Weights             `yaml:"weights"`
	SeverityWeights SeverityWeights     `yaml:"severity_weights"`
	Thresholds      Thresholds          `yaml:"thresholds"`
	Issues          map[string]IssueDef `yaml:"issues"`
	Platforms       []Platform          `yaml:"platforms"`

	// ContentTypes is the declared type order; earlier types win ties.
	ContentTypes         []string          `yaml:"content_types"`
	SchemaTypes          map[string]string `yaml:"schema_types"`
	URLRules             []URLRule         `yaml:"url_rules"`
	HighValueSchemaTypes []string          `yaml:"high_value_schema_types"`
	AICrawlers           []string          `yaml:"ai_crawlers"`
}

// Issue returns the catalog entry for code.
func (rs *Ruleset) Issue(code string) (IssueDef, bool) {
	def, ok := rs.Issues[code]
	return def, ok
}

// SchemaContentType maps a schema.org type onto a content type. Both the
// argument and the table keys are normalized, so an uncompiled table with
// keys like "TechArticle" still matches.
func (rs *Ruleset) SchemaContentType(schemaType string) (string, bool) {
	key := NormalizeSchemaType(schemaType)
	if t, ok := rs.SchemaTypes[key]; ok {
		return t, true
	}
	for k, t := range rs.SchemaTypes {
		if NormalizeSchemaType(k) == key {
			return t, true
		}
	}
	return "", false
}

// NormalizeSchemaType strips schema.org URL prefixes and lowercases the type.
func NormalizeSchemaType(t string) string {
	t = strings.TrimSpace(t)
	for _, prefix := range []string{"https://schema.org/", "http://schema.org/", "schema:"} {
		t = strings.TrimPrefix(t, prefix)
	}
	return strings.ToLower(t)
}

// Load reads a YAML override file on top of Default. Maps are merged key by
// key, but an overridden issue entry replaces the whole definition. Lists
// (platforms, url_rules, ...) replace the default list wholesale.
func Load(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return Parse(data)
}

// Parse is Load for an in-memory document.
func Parse(data []byte) (*Ruleset, error) {
	rs := Default()
	if err := yaml.Unmarshal(data, rs); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	applyDefaults(rs)
	if err := rs.Compile(); err != nil {
		return nil, err
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return rs, nil
}

// applyDefaults fills zero values an override may have cleared.
func applyDefaults(rs *Ruleset) {
	if rs.SeverityWeights == (SeverityWeights{}) {
		rs.SeverityWeights = SeverityWeights{Critical: 3, Warning: 2, Info: 1}
	}
	if rs.Thresholds.NeutralPerformance == 0 {
		rs.Thresholds.NeutralPerformance = 50
	}
	if rs.Thresholds.TargetWords == 0 {
		rs.Thresholds.TargetWords = 1200
	}
}

// Compile normalizes the schema type keys and compiles every URL rule. Call it
// after building or editing a Ruleset in code. It is safe to call again.
func (rs *Ruleset) Compile() error {
	normalized := make(map[string]string, len(rs.SchemaTypes))
	for k, v := range rs.SchemaTypes {
		normalized[NormalizeSchemaType(k)] = v
	}
	rs.SchemaTypes = normalized

	for i := range rs.URLRules {
		re, err := regexp.Compile(rs.URLRules[i].Pattern)
		if err != nil {
			return fmt.Errorf("%w: url rule %q: %v", ErrInvalidRuleset, rs.URLRules[i].Pattern, err)
		}
		rs.URLRules[i].re = re
	}
	return nil
}

// Validate checks weights and every enum-valued field.
func (rs *Ruleset) Validate() error {
	if sum := rs.Weights.Sum(); sum != 100 {
		return fmt.Errorf("%w: category weights sum to %d, want 100", ErrInvalidRuleset, sum)
	}
	for code, def := range rs.Issues {
		switch def.Category {
		case models.CategoryTechnical, models.CategoryContent, models.CategoryAIReadiness, models.CategoryPerformance:
		default:
			return fmt.Errorf("%w: issue %s has unknown category %q", ErrInvalidRuleset, code, def.Category)
		}
		switch def.Severity {
		case models.SeverityCritical, models.SeverityWarning, models.SeverityInfo:
		default:
			return fmt.Errorf("%w: issue %s has unknown severity %q", ErrInvalidRuleset, code, def.Severity)
		}
		switch def.Effort {
		case models.EffortLow, models.EffortMedium, models.EffortHigh:
		default:
			return fmt.Errorf("%w: issue %s has unknown effort %q", ErrInvalidRuleset, code, def.Effort)
		}
	}
	for _, p := range rs.Platforms {
		if p.Name == "" {
			return fmt.Errorf("%w: platform without a name", ErrInvalidRuleset)
		}
		for _, req := range p.Requirements {
			switch req.Importance {
			case ImportanceCritical, ImportanceImportant, ImportanceRecommended:
			default:
				return fmt.Errorf("%w: %s requirement %s has unknown importance %q", ErrInvalidRuleset, p.Name, req.Code, req.Importance)
			}
			if _, ok := rs.Issues[req.Code]; !ok {
				return fmt.Errorf("%w: %s requirement references unknown issue %s", ErrInvalidRuleset, p.Name, req.Code)
			}
		}
	}
	known := make(map[string]bool, len(rs.ContentTypes))
	for _, t := range rs.ContentTypes {
		known[t] = true
	}
	for _, r := range rs.URLRules {
		if r.re == nil || r.re.String() != r.Pattern {
			return fmt.Errorf("%w: url rule %q is not compiled, call Compile", ErrInvalidRuleset, r.Pattern)
		}
		if !known[r.Type] {
			return fmt.Errorf("%w: url rule %q targets undeclared type %q", ErrInvalidRuleset, r.Pattern, r.Type)
		}
	}
	for s, t := range rs.SchemaTypes {
		if !known[t] {
			return fmt.Errorf("%w: schema type %q targets undeclared type %q", ErrInvalidRuleset, s, t)
		}
	}
	return nil
}
