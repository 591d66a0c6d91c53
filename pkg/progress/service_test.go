package progress

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/llm-readiness/models"
)

type fakeStore struct {
	projects    map[string]*models.Project
	crawls      map[string][]models.Crawl
	scores      map[string][]models.PageScore
	crawlLoads  int
	projectErr  error
	scoresCalls []string
}

func (f *fakeStore) GetProject(projectID string) (*models.Project, error) {
	if f.projectErr != nil {
		return nil, f.projectErr
	}
	return f.projects[projectID], nil
}

func (f *fakeStore) CompletedCrawls(projectID string, limit int) ([]models.Crawl, error) {
	f.crawlLoads++
	crawls := f.crawls[projectID]
	if len(crawls) > limit {
		crawls = crawls[:limit]
	}
	return crawls, nil
}

func (f *fakeStore) CrawlScores(crawlID string) ([]models.PageScore, error) {
	f.scoresCalls = append(f.scoresCalls, crawlID)
	return f.scores[crawlID], nil
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		projects: map[string]*models.Project{
			"p1": {ID: "p1", OwnerID: "alice", Domain: "example.com"},
		},
		crawls: map[string][]models.Crawl{
			"p1": {
				{ID: "c3", ProjectID: "p1", Status: models.CrawlComplete},
				{ID: "c2", ProjectID: "p1", Status: models.CrawlComplete},
				{ID: "c1", ProjectID: "p1", Status: models.CrawlComplete},
			},
		},
		scores: map[string][]models.PageScore{
			"c3": {page("/", 80)},
			"c2": {page("/", 70)},
			"c1": {page("/", 10)},
		},
	}
}

func TestProjectProgress(t *testing.T) {
	store := newFakeStore()
	d, err := NewService(store).ProjectProgress("alice", "p1")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "c3", d.CurrentCrawlID)
	assert.Equal(t, "c2", d.PreviousCrawlID)
	assert.Equal(t, 10.0, d.ScoreDelta)
	assert.Equal(t, []string{"c3", "c2"}, store.scoresCalls)
}

func TestProjectProgress_NotOwner(t *testing.T) {
	store := newFakeStore()
	_, err := NewService(store).ProjectProgress("mallory", "p1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, store.crawlLoads, "crawls must not be loaded for a non-owner")
	assert.Empty(t, store.scoresCalls)
}

func TestProjectProgress_UnknownProject(t *testing.T) {
	_, err := NewService(newFakeStore()).ProjectProgress("alice", "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectProgress_NotEnoughCrawls(t *testing.T) {
	store := newFakeStore()
	store.crawls["p1"] = store.crawls["p1"][:1]
	d, err := NewService(store).ProjectProgress("alice", "p1")
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestProjectProgress_StoreError(t *testing.T) {
	store := newFakeStore()
	boom := errors.New("disk on fire")
	store.projectErr = boom
	_, err := NewService(store).ProjectProgress("alice", "p1")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
}
