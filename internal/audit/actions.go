package audit

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/llm-readiness/internal/common"
	"github.com/dtnitsch/llm-readiness/models"
	"github.com/dtnitsch/llm-readiness/pkg/db"
	"github.com/dtnitsch/llm-readiness/pkg/engine"
	"github.com/dtnitsch/llm-readiness/pkg/metrics"
	"github.com/dtnitsch/llm-readiness/pkg/signals"
)

func ScoreAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"))

	rs, err := common.LoadRules(c.String("rules"))
	if err != nil {
		return err
	}
	eng := engine.New(rs)

	config := models.AuditConfig{
		InputPath:   c.String("input"),
		WorkerCount: c.Int("workers"),
		ProjectID:   c.String("project"),
		Resolved:    common.SplitList(c.String("resolved")),
		MetricsFile: c.String("metrics-file"),
	}

	var input []models.PageSignals
	if err := common.ReadInput(config.InputPath, &input); err != nil {
		return err
	}
	if len(input) == 0 {
		return common.PrintResponse(os.Stdout, models.NewErrorResponse("score", models.ErrorTypeInvalid,
			"input contains no pages", "Provide a list of page signals with --input"))
	}

	var database *db.DB
	if config.ProjectID != "" {
		database, err = db.Open(c.String("db"))
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()
	}

	var recorder *metrics.Recorder
	if config.MetricsFile != "" {
		recorder = metrics.New()
	}

	report, err := Audit(logger, eng, config, input, database, recorder)
	if errors.Is(err, ErrProjectNotFound) {
		return common.PrintResponse(os.Stdout, models.NewNotFoundResponse("score", "project"))
	}
	if err != nil {
		return err
	}

	if recorder != nil {
		if err := recorder.WriteToTextfile(config.MetricsFile); err != nil {
			logger.Warn("Failed to write metrics", "path", config.MetricsFile, "error", err)
		}
	}

	return common.PrintResponse(os.Stdout, models.NewDataResponse("score", report))
}

func ExtractAction(c *cli.Context) error {
	rs, err := common.LoadRules(c.String("rules"))
	if err != nil {
		return err
	}

	rawURL := common.SanitizeURL(c.String("url"))
	if rawURL == "" {
		return fmt.Errorf("no URL provided via --url flag")
	}
	html, err := os.ReadFile(c.String("html"))
	if err != nil {
		return fmt.Errorf("failed to read html: %w", err)
	}

	in := ExtractInput{
		Document: signals.Document{
			URL:          rawURL,
			StatusCode:   c.Int("status"),
			HTML:         string(html),
			RobotsHeader: c.String("robots-header"),
		},
		Now:   time.Now(),
		Score: c.Bool("score"),
	}
	if in.Site.Sitemap, err = common.ReadOptionalFile(c.String("sitemap")); err != nil {
		return err
	}
	if in.Site.RobotsTxt, err = optionalText(c.String("robots")); err != nil {
		return err
	}
	if in.Site.LLMsTxt, err = optionalText(c.String("llms")); err != nil {
		return err
	}

	report, err := Extract(engine.New(rs), in)
	if err != nil {
		return err
	}
	return common.PrintResponse(os.Stdout, models.NewDataResponse("extract", report))
}

func optionalText(path string) (*string, error) {
	data, err := common.ReadOptionalFile(path)
	if err != nil || data == nil {
		return nil, err
	}
	text := string(data)
	return &text, nil
}
