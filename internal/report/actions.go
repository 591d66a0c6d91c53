package report

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/llm-readiness/internal/common"
	"github.com/dtnitsch/llm-readiness/models"
	"github.com/dtnitsch/llm-readiness/pkg/db"
	"github.com/dtnitsch/llm-readiness/pkg/engine"
)

func openDB(c *cli.Context) (*db.DB, error) {
	database, err := db.Open(c.String("db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

func loadEngine(c *cli.Context) (*engine.Engine, error) {
	rs, err := common.LoadRules(c.String("rules"))
	if err != nil {
		return nil, err
	}
	return engine.New(rs), nil
}

func ProgressAction(c *cli.Context) error {
	database, err := openDB(c)
	if err != nil {
		return err
	}
	defer database.Close()

	resp, err := Progress(database, c.String("user"), c.String("project"))
	if err != nil {
		return fmt.Errorf("failed to compute progress: %w", err)
	}
	return common.PrintResponse(os.Stdout, resp)
}

func InsightsAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"))
	eng, err := loadEngine(c)
	if err != nil {
		return err
	}
	database, err := openDB(c)
	if err != nil {
		return err
	}
	defer database.Close()

	crawlID := c.String("crawl")
	logger.Info("Loading insights", "crawl_id", crawlID, "refresh", c.Bool("refresh"))
	resp, err := Insights(database, eng, crawlID, c.Bool("refresh"), common.SplitList(c.String("resolved")))
	if err != nil {
		return fmt.Errorf("failed to capture insights: %w", err)
	}
	return common.PrintResponse(os.Stdout, resp)
}

func BenchmarkAction(c *cli.Context) error {
	eng, err := loadEngine(c)
	if err != nil {
		return err
	}
	database, err := openDB(c)
	if err != nil {
		return err
	}
	defer database.Close()

	resp, err := Benchmark(database, eng, c.String("user"), c.String("project"))
	if err != nil {
		return fmt.Errorf("failed to compare benchmarks: %w", err)
	}
	return common.PrintResponse(os.Stdout, resp)
}

func BenchmarkAddAction(c *cli.Context) error {
	eng, err := loadEngine(c)
	if err != nil {
		return err
	}

	var homepage models.PageSignals
	if err := common.ReadInput(c.String("input"), &homepage); err != nil {
		return err
	}

	database, err := openDB(c)
	if err != nil {
		return err
	}
	defer database.Close()

	resp, err := AddBenchmark(database, eng, c.String("user"), c.String("project"), c.String("domain"), &homepage, time.Now())
	if err != nil {
		return fmt.Errorf("failed to add benchmark: %w", err)
	}
	return common.PrintResponse(os.Stdout, resp)
}
