package progress

import (
	"errors"
	"fmt"

	"github.com/dtnitsch/llm-readiness/models"
)

// ErrNotFound is returned for a project that does not exist or that the
// caller does not own. Both cases return the same error.
var ErrNotFound = errors.New("project not found")

// Store is the persistence the service needs.
type Store interface {
	// GetProject returns nil, nil when the project does not exist.
	GetProject(projectID string) (*models.Project, error)
	// CompletedCrawls returns up to limit complete crawls, newest first.
	CompletedCrawls(projectID string, limit int) ([]models.Crawl, error)
	// CrawlScores returns every page score of a crawl with its issues.
	CrawlScores(crawlID string) ([]models.PageScore, error)
}

// Service answers progress questions for a project on behalf of a user.
type Service struct {
	store Store
}

// NewService creates a progress service over store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// ProjectProgress compares the two most recent completed crawls. It returns
// ErrNotFound before touching any crawl data when userID does not own the
// project, and nil, nil when fewer than two completed crawls exist.
func (s *Service) ProjectProgress(userID, projectID string) (*models.ProgressDelta, error) {
	project, err := s.store.GetProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil || project.OwnerID != userID {
		return nil, ErrNotFound
	}

	crawls, err := s.store.CompletedCrawls(projectID, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to load crawls: %w", err)
	}
	if len(crawls) < 2 {
		return nil, nil
	}

	snapshots := make([]*Snapshot, 2)
	for i := range snapshots {
		scores, err := s.store.CrawlScores(crawls[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load scores for crawl %s: %w", crawls[i].ID, err)
		}
		snapshots[i] = &Snapshot{Crawl: crawls[i], Scores: scores}
	}
	return Compute(snapshots[0], snapshots[1]), nil
}
