package common

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/llm-readiness/models"
	"github.com/dtnitsch/llm-readiness/pkg/rules"
)

var markdownLinkPattern = regexp.MustCompile(`^\[.*?\]\((https?://[^\)]+)\)$`)

// NewLogger builds the JSON stderr logger every action uses.
func NewLogger(quiet bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if quiet {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// LoadRules returns the default rule tables, or the defaults overridden by
// the YAML file at path.
func LoadRules(path string) (*rules.Ruleset, error) {
	if path == "" {
		return rules.Default(), nil
	}
	rs, err := rules.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	return rs, nil
}

// ReadInput decodes a JSON or YAML file into v. "-" reads stdin. Files ending
// in .json are decoded as JSON, anything else as YAML.
func ReadInput(path string, v any) error {
	if path == "" {
		return fmt.Errorf("no input file provided")
	}
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse JSON input: %w", err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse YAML input: %w", err)
	}
	return nil
}

// ReadOptionalFile returns nil when path is empty or the file does not exist.
func ReadOptionalFile(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// PrintResponse writes resp as YAML.
func PrintResponse(w io.Writer, resp models.Response) error {
	yamlBytes, err := yaml.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	_, err = w.Write(yamlBytes)
	return err
}

// SanitizeURL performs basic cleanup on URLs to handle common copy-paste issues.
// Removes whitespace, trailing punctuation and markdown link wrappers.
func SanitizeURL(rawURL string) string {
	cleaned := strings.TrimSpace(rawURL)

	// [text](url) -> url
	if matches := markdownLinkPattern.FindStringSubmatch(cleaned); len(matches) > 1 {
		cleaned = matches[1]
	}

	for _, char := range []string{",", ".", ")", "}", "]", "\"", "'", ">", ";"} {
		cleaned = strings.TrimSuffix(cleaned, char)
	}
	for _, char := range []string{"(", "[", "<", "\"", "'"} {
		cleaned = strings.TrimPrefix(cleaned, char)
	}

	return strings.TrimSpace(cleaned)
}

// NormalizeDomain reduces a URL or bare host to a lowercase host without a
// www. prefix. It returns "" when nothing host-like remains.
func NormalizeDomain(raw string) string {
	cleaned := SanitizeURL(raw)
	if cleaned == "" {
		return ""
	}
	if !strings.Contains(cleaned, "://") {
		cleaned = "https://" + cleaned
	}
	parsed, err := url.Parse(cleaned)
	if err != nil || parsed.Hostname() == "" {
		return ""
	}
	if strings.ContainsAny(parsed.Host, "{}[]<>\"'") {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
}

// SplitList splits a comma-separated flag value, dropping empty entries.
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
