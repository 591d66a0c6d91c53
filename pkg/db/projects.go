package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtnitsch/llm-readiness/models"
)

// CreateProject stores a new project and returns it with a generated ID.
func (db *DB) CreateProject(ownerID, name, domain string) (*models.Project, error) {
	p := &models.Project{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		Name:    name,
		Domain:  domain,
	}
	_, err := db.Exec(`
		INSERT INTO projects (project_id, owner_id, name, domain, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, p.ID, p.OwnerID, p.Name, p.Domain, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to insert project: %w", err)
	}
	return p, nil
}

// GetProject returns the project, or nil if it does not exist.
func (db *DB) GetProject(projectID string) (*models.Project, error) {
	var p models.Project
	err := db.QueryRow(`
		SELECT project_id, owner_id, name, domain
		FROM projects
		WHERE project_id = ?
	`, projectID).Scan(&p.ID, &p.OwnerID, &p.Name, &p.Domain)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &p, nil
}

// CreateCrawl starts a running crawl for a project.
func (db *DB) CreateCrawl(projectID string, startedAt time.Time) (*models.Crawl, error) {
	c := &models.Crawl{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Status:    models.CrawlRunning,
		StartedAt: startedAt.UTC(),
	}
	_, err := db.Exec(`
		INSERT INTO crawls (crawl_id, project_id, status, started_at)
		VALUES (?, ?, ?, ?)
	`, c.ID, c.ProjectID, string(c.Status), c.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert crawl: %w", err)
	}
	return c, nil
}

// FinishCrawl marks a crawl complete or failed.
func (db *DB) FinishCrawl(crawlID string, status models.CrawlStatus, completedAt time.Time) error {
	if status != models.CrawlComplete && status != models.CrawlFailed {
		return fmt.Errorf("invalid final crawl status %q", status)
	}
	result, err := db.Exec(`
		UPDATE crawls
		SET status = ?, completed_at = ?
		WHERE crawl_id = ?
	`, string(status), completedAt.UTC(), crawlID)
	if err != nil {
		return fmt.Errorf("failed to update crawl: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("crawl %s not found", crawlID)
	}
	return nil
}

// GetCrawl returns the crawl, or nil if it does not exist.
func (db *DB) GetCrawl(crawlID string) (*models.Crawl, error) {
	row := db.QueryRow(`
		SELECT crawl_id, project_id, status, started_at, completed_at
		FROM crawls
		WHERE crawl_id = ?
	`, crawlID)
	c, err := scanCrawl(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get crawl: %w", err)
	}
	return c, nil
}

// CompletedCrawls returns up to limit complete crawls of a project, most
// recently completed first.
func (db *DB) CompletedCrawls(projectID string, limit int) ([]models.Crawl, error) {
	rows, err := db.Query(`
		SELECT crawl_id, project_id, status, started_at, completed_at
		FROM crawls
		WHERE project_id = ? AND status = ?
		ORDER BY completed_at DESC, started_at DESC
		LIMIT ?
	`, projectID, string(models.CrawlComplete), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query crawls: %w", err)
	}
	defer rows.Close()

	var crawls []models.Crawl
	for rows.Next() {
		c, err := scanCrawl(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan crawl: %w", err)
		}
		crawls = append(crawls, *c)
	}
	return crawls, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCrawl(row scanner) (*models.Crawl, error) {
	var c models.Crawl
	var status string
	var completed sql.NullTime
	if err := row.Scan(&c.ID, &c.ProjectID, &status, &c.StartedAt, &completed); err != nil {
		return nil, err
	}
	c.Status = models.CrawlStatus(status)
	if completed.Valid {
		t := completed.Time
		c.CompletedAt = &t
	}
	return &c, nil
}
