package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/llm-readiness/internal/audit"
	"github.com/dtnitsch/llm-readiness/internal/offsite"
	"github.com/dtnitsch/llm-readiness/internal/report"
	"github.com/dtnitsch/llm-readiness/pkg/help"
)

func main() {
	app := &cli.App{
		Name:  "llm-readiness",
		Usage: "Score web pages for AI readiness and track progress across crawls",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Usage:   "SQLite database path (default: next to the binary)",
				EnvVars: []string{"LLM_READINESS_DB"},
			},
			&cli.StringFlag{
				Name:  "rules",
				Usage: "YAML file overriding the default rule tables",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Only log errors",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "score",
				Usage:  "Score page signals, rank quick wins and check platform readiness",
				Action: audit.ScoreAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "YAML or JSON list of page signals ('-' for stdin)", Required: true},
					&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Value: 4, Usage: "Number of scoring workers"},
					&cli.StringFlag{Name: "project", Usage: "Store the run as a new crawl of this project"},
					&cli.StringFlag{Name: "resolved", Usage: "Comma-separated issue codes marked as handled"},
					&cli.StringFlag{Name: "metrics-file", Usage: "Write Prometheus metrics to this textfile"},
				},
			},
			{
				Name:   "extract",
				Usage:  "Extract page signals from fetched HTML and site files",
				Action: audit.ExtractAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Usage: "URL the HTML was fetched from", Required: true},
					&cli.StringFlag{Name: "html", Usage: "HTML file", Required: true},
					&cli.IntFlag{Name: "status", Value: 200, Usage: "HTTP status code of the fetch"},
					&cli.StringFlag{Name: "robots-header", Usage: "X-Robots-Tag response header"},
					&cli.StringFlag{Name: "robots", Usage: "robots.txt file"},
					&cli.StringFlag{Name: "llms", Usage: "llms.txt file"},
					&cli.StringFlag{Name: "sitemap", Usage: "sitemap.xml file"},
					&cli.BoolFlag{Name: "score", Usage: "Also score the extracted page"},
				},
			},
			{
				Name:   "progress",
				Usage:  "Compare the two most recent completed crawls of a project",
				Action: report.ProgressAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "project", Required: true},
					&cli.StringFlag{Name: "user", Usage: "Requesting user; must own the project", Required: true},
				},
			},
			{
				Name:   "insights",
				Usage:  "Show, or capture and store, the insights of a crawl",
				Action: report.InsightsAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "crawl", Required: true},
					&cli.BoolFlag{Name: "refresh", Usage: "Recapture even when insights are stored"},
					&cli.StringFlag{Name: "resolved", Usage: "Comma-separated issue codes marked as handled"},
				},
			},
			{
				Name:  "benchmark",
				Usage: "Competitor benchmarks",
				Subcommands: []*cli.Command{
					{
						Name:   "add",
						Usage:  "Score a competitor homepage and store it",
						Action: report.BenchmarkAddAction,
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "project", Required: true},
							&cli.StringFlag{Name: "user", Required: true},
							&cli.StringFlag{Name: "domain", Required: true},
							&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "Page signals of the competitor homepage", Required: true},
						},
					},
					{
						Name:   "compare",
						Usage:  "Rank the project against its latest competitor benchmarks",
						Action: report.BenchmarkAction,
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "project", Required: true},
							&cli.StringFlag{Name: "user", Required: true},
						},
					},
				},
			},
			{
				Name:   "visibility",
				Usage:  "Score AI visibility from rates or raw provider probes",
				Action: offsite.VisibilityAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true},
				},
			},
			{
				Name:   "citation",
				Usage:  "Score how quotable a page is",
				Action: offsite.CitationAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "Citation input file"},
					&cli.StringFlag{Name: "html", Usage: "HTML file to extract facts from"},
					&cli.StringFlag{Name: "url", Usage: "URL the HTML was fetched from"},
					&cli.Float64Flag{Name: "citation-worthiness", Usage: "LLM rubric citation worthiness, 0-100"},
				},
			},
			{
				Name:  "coldstart",
				Usage: "Print a quick start guide",
				Action: func(c *cli.Context) error {
					fmt.Print(help.ColdstartYAML)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
