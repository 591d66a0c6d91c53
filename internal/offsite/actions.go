package offsite

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/llm-readiness/internal/common"
	"github.com/dtnitsch/llm-readiness/models"
	"github.com/dtnitsch/llm-readiness/pkg/citation"
	"github.com/dtnitsch/llm-readiness/pkg/engine"
	"github.com/dtnitsch/llm-readiness/pkg/signals"
)

func VisibilityAction(c *cli.Context) error {
	rs, err := common.LoadRules(c.String("rules"))
	if err != nil {
		return err
	}

	var in VisibilityInput
	if err := common.ReadInput(c.String("input"), &in); err != nil {
		return err
	}
	return common.PrintResponse(os.Stdout, Visibility(engine.New(rs), in))
}

func CitationAction(c *cli.Context) error {
	rs, err := common.LoadRules(c.String("rules"))
	if err != nil {
		return err
	}
	eng := engine.New(rs)

	if c.IsSet("html") {
		html, err := os.ReadFile(c.String("html"))
		if err != nil {
			return fmt.Errorf("failed to read html: %w", err)
		}
		doc := signals.Document{
			URL:        common.SanitizeURL(c.String("url")),
			StatusCode: 200,
			HTML:       string(html),
		}
		if c.IsSet("citation-worthiness") {
			doc.LLMRubric = &models.LLMRubric{CitationWorthiness: c.Float64("citation-worthiness")}
		}
		resp, err := CitationFromDocument(eng, doc)
		if err != nil {
			return err
		}
		return common.PrintResponse(os.Stdout, resp)
	}

	var in citation.Input
	if err := common.ReadInput(c.String("input"), &in); err != nil {
		return err
	}
	return common.PrintResponse(os.Stdout, CitationFromInput(eng, in))
}
