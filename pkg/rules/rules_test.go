package rules

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/llm-readiness/models"
)

func TestDefault_Valid(t *testing.T) {
	rs := Default()
	require.NoError(t, rs.Validate())
	assert.Equal(t, 100, rs.Weights.Sum())
	assert.Len(t, rs.Platforms, 4)

	for _, code := range []string{CodeMissingTitle, CodeThinContent, CodeAICrawlerBlocked} {
		def, ok := rs.Issue(code)
		require.True(t, ok, code)
		assert.Equal(t, models.SeverityCritical, def.Severity, code)
	}
	def, _ := rs.Issue(CodeMissingLLMsTxt)
	assert.Equal(t, models.CategoryTechnical, def.Category)
}

func TestDefault_FreshCopy(t *testing.T) {
	a := Default()
	a.Weights.Technical = 90
	a.Issues[CodeMissingTitle] = IssueDef{}
	b := Default()
	assert.Equal(t, 25, b.Weights.Technical)
	assert.Equal(t, models.SeverityCritical, b.Issues[CodeMissingTitle].Severity)
}

func TestWeights_For(t *testing.T) {
	w := Default().Weights
	assert.Equal(t, 25, w.For(models.CategoryTechnical))
	assert.Equal(t, 30, w.For(models.CategoryContent))
	assert.Equal(t, 30, w.For(models.CategoryAIReadiness))
	assert.Equal(t, 15, w.For(models.CategoryPerformance))
	assert.Equal(t, 0, w.For("bogus"))
}

func TestSchemaContentType(t *testing.T) {
	rs := Default()
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"FAQPage", TypeFAQ, true},
		{"https://schema.org/Product", TypeProduct, true},
		{"  newsarticle ", TypeNewsArticle, true},
		{"Organization", "", false},
	}
	for _, tt := range tests {
		got, ok := rs.SchemaContentType(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestURLRule_Match(t *testing.T) {
	rs := Default()
	match := func(path string) []string {
		var types []string
		for i := range rs.URLRules {
			if rs.URLRules[i].Match(path) {
				types = append(types, rs.URLRules[i].Type)
			}
		}
		return types
	}
	assert.Equal(t, []string{TypeHomepage}, match("/"))
	assert.Equal(t, []string{TypeBlogPost}, match("/blog/my-post"))
	assert.Equal(t, []string{TypeAbout}, match("/about-us"))
	assert.Equal(t, []string{TypeLegal}, match("/privacy-policy"))
	assert.Empty(t, match("/random/thing"))

	var unset URLRule
	assert.False(t, unset.Match("/"))
}

func TestCompile_HandBuiltTables(t *testing.T) {
	rs := Default()
	rs.URLRules = []URLRule{{Pattern: "/kb/", Type: TypeDocumentation, Weight: 3, Signal: "kb path"}}
	rs.SchemaTypes = map[string]string{"TechArticle": TypeDocumentation}

	err := rs.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRuleset))
	assert.Contains(t, err.Error(), "not compiled")

	// schema lookups normalize the table keys even before Compile
	got, ok := rs.SchemaContentType("techarticle")
	assert.True(t, ok)
	assert.Equal(t, TypeDocumentation, got)

	require.NoError(t, rs.Compile())
	require.NoError(t, rs.Validate())
	assert.True(t, rs.URLRules[0].Match("/kb/setup"))
	assert.Equal(t, map[string]string{"techarticle": TypeDocumentation}, rs.SchemaTypes)

	// a pattern edited after compiling must be compiled again
	rs.URLRules[0].Pattern = "/help/"
	assert.Error(t, rs.Validate())
	require.NoError(t, rs.Compile())
	assert.NoError(t, rs.Validate())
}

func TestCompile_BadPattern(t *testing.T) {
	rs := Default()
	rs.URLRules = []URLRule{{Pattern: "(", Type: TypeFAQ, Weight: 1}}
	err := rs.Compile()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRuleset))
}

func TestParse_Overrides(t *testing.T) {
	doc := []byte(`
weights:
  technical: 40
  content: 20
  ai_readiness: 30
  performance: 10
thresholds:
  thin_content_words: 500
schema_types:
  Recipe: how_to
`)
	rs, err := Parse(doc)
	require.NoError(t, err)
	assert.Equal(t, 40, rs.Weights.Technical)
	assert.Equal(t, 500, rs.Thresholds.ThinContentWords)
	// untouched values survive the merge
	assert.Equal(t, 60, rs.Thresholds.TitleMax)
	got, ok := rs.SchemaContentType("Recipe")
	assert.True(t, ok)
	assert.Equal(t, TypeHowTo, got)
	_, ok = rs.SchemaContentType("FAQPage")
	assert.True(t, ok)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"weights do not sum to 100", "weights: {technical: 10, content: 10, ai_readiness: 10, performance: 10}"},
		{"bad regex", "url_rules: [{pattern: '(', type: faq, weight: 1, signal: x}]"},
		{"undeclared type", "url_rules: [{pattern: '/x', type: recipe, weight: 1, signal: x}]"},
		{"bad importance", "platforms: [{name: X, requirements: [{code: MISSING_TITLE, importance: urgent}]}]"},
		{"unknown issue in platform", "platforms: [{name: X, requirements: [{code: NOPE, importance: critical}]}]"},
		{"bad category", "issues: {NEW_CODE: {category: seo, severity: info, effort: low}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRuleset), err.Error())
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("weights: [1, 2"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidRuleset))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("thresholds:\n  gate_cap: 10\n"), 0o644))

	rs, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, rs.Thresholds.GateCap)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
