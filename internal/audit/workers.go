package audit

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/dtnitsch/llm-readiness/pkg/engine"
	"github.com/dtnitsch/llm-readiness/pkg/metrics"
	"github.com/dtnitsch/llm-readiness/pkg/scoring"
)

// run scores pages on workerCount goroutines and returns the results in
// input order. recorder may be nil.
func run(logger *slog.Logger, eng *engine.Engine, pages []scoring.Page, workerCount int, recorder *metrics.Recorder) []Result {
	if workerCount < 1 {
		workerCount = 1
	}

	logger.Info("Starting scoring phase", "page_count", len(pages), "workers", workerCount)
	var wg sync.WaitGroup
	jobs := make(chan Job, len(pages))
	results := make(chan Result, len(pages))

	for w := 1; w <= workerCount; w++ {
		wg.Add(1)
		go worker(w, logger, eng, recorder, &wg, jobs, results)
	}

	for i, p := range pages {
		jobs <- Job{Index: i, Page: p}
	}
	close(jobs)

	wg.Wait()
	close(results)
	logger.Info("All scoring workers finished")

	all := make([]Result, 0, len(pages))
	for result := range results {
		all = append(all, result)
	}
	slices.SortFunc(all, func(a, b Result) int { return a.Index - b.Index })
	return all
}

func worker(id int, logger *slog.Logger, eng *engine.Engine, recorder *metrics.Recorder, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result) {
	defer wg.Done()
	for job := range jobs {
		result := Result{Index: job.Index}
		if job.Page.Signals != nil {
			result.URL = job.Page.Signals.URL
		}

		start := time.Now()
		ps, err := eng.ScorePage(job.Page.ID, job.Page.Signals)
		result.Took = time.Since(start)
		if err != nil {
			logger.Warn("Page could not be scored", "worker_id", id, "url", result.URL, "error", err)
			result.Error = err
			if recorder != nil {
				recorder.ObserveUngraded()
			}
			results <- result
			continue
		}

		result.Score = ps
		if recorder != nil {
			recorder.ObserveScore(ps, result.Took)
		}
		logger.Info("Worker scored page", "worker_id", id, "url", result.URL, "overall", ps.OverallScore, "grade", ps.LetterGrade)
		results <- result
	}
}
