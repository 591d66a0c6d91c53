package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/llm-readiness/pkg/rules"
)

func TestDetectContentType(t *testing.T) {
	rs := rules.Default()

	tests := []struct {
		name       string
		url        string
		schema     []string
		wantType   string
		wantConf   float64
		wantSignal string
	}{
		{
			name:       "blog path",
			url:        "https://example.com/blog/how-we-ship",
			wantType:   rules.TypeBlogPost,
			wantConf:   0.5,
			wantSignal: "blog path",
		},
		{
			name:       "schema plus path saturates confidence",
			url:        "https://example.com/faq",
			schema:     []string{"FAQPage"},
			wantType:   rules.TypeFAQ,
			wantConf:   1,
			wantSignal: "schema:FAQPage",
		},
		{
			name:       "dated path alone",
			url:        "https://example.com/2024/05/launch",
			wantType:   rules.TypeNewsArticle,
			wantConf:   0.25,
			wantSignal: "dated path",
		},
		{
			name:     "blog path beats dated path",
			url:      "https://example.com/blog/2023/recap",
			wantType: rules.TypeBlogPost,
			wantConf: 0.5,
		},
		{
			name:     "homepage",
			url:      "https://example.com/",
			wantType: rules.TypeHomepage,
			wantConf: 0.75,
		},
		{
			name:     "subdomain is not a signal",
			url:      "https://news.example.com/x",
			wantType: rules.TypeUnknown,
			wantConf: 0,
		},
		{
			name:     "no signals",
			url:      "https://example.com/zzz/qqq",
			wantType: rules.TypeUnknown,
			wantConf: 0,
		},
		{
			name:     "schema prefix is stripped",
			url:      "",
			schema:   []string{"https://schema.org/Product"},
			wantType: rules.TypeProduct,
			wantConf: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectContentType(tt.url, tt.schema, rs)
			assert.Equal(t, tt.wantType, got.Type)
			assert.InDelta(t, tt.wantConf, got.Confidence, 1e-9)
			if tt.wantSignal != "" {
				assert.Contains(t, got.Signals, tt.wantSignal)
			}
		})
	}
}

func TestDetectContentType_TieGoesToDeclaredOrder(t *testing.T) {
	rs := rules.Default()
	// product (2) and faq (2): product is declared earlier
	got := DetectContentType("https://example.com/", []string{"Product", "FAQPage"}, &rules.Ruleset{
		ContentTypes: rs.ContentTypes,
		SchemaTypes:  rs.SchemaTypes,
	})
	assert.Equal(t, rules.TypeProduct, got.Type)
	assert.InDelta(t, 0.5, got.Confidence, 1e-9)
}

func TestDetectContentType_MalformedURL(t *testing.T) {
	rs := rules.Default()
	inputs := []string{"://bad", "http://[::1", "%zz", "\x00", " "}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			got := DetectContentType(in, []string{"HowTo"}, rs)
			assert.Equal(t, rules.TypeHowTo, got.Type, in)
		})
	}
}

func TestDetectContentType_HandBuiltRules(t *testing.T) {
	rs := rules.Default()
	rs.URLRules = []rules.URLRule{{Pattern: "/kb/", Type: rules.TypeDocumentation, Weight: 3, Signal: "kb path"}}
	rs.SchemaTypes = map[string]string{"TechArticle": rules.TypeDocumentation}
	require.NoError(t, rs.Compile())
	require.NoError(t, rs.Validate())

	got := DetectContentType("https://example.com/kb/setup", nil, rs)
	assert.Equal(t, rules.TypeDocumentation, got.Type)
	assert.InDelta(t, 0.75, got.Confidence, 1e-9)
	assert.Equal(t, []string{"kb path"}, got.Signals)

	got = DetectContentType("", []string{"TechArticle"}, rs)
	assert.Equal(t, rules.TypeDocumentation, got.Type)
	assert.InDelta(t, 0.5, got.Confidence, 1e-9)

	// the default blog rule is gone
	got = DetectContentType("https://example.com/blog/post", nil, rs)
	assert.Equal(t, rules.TypeUnknown, got.Type)
}
