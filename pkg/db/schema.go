package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Projects: customer sites being audited
CREATE TABLE IF NOT EXISTS projects (
    project_id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    name TEXT NOT NULL,
    domain TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_projects_owner ON projects(owner_id);

-- Crawls: one audit run over a project
CREATE TABLE IF NOT EXISTS crawls (
    crawl_id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    status TEXT NOT NULL,           -- pending, running, complete, failed
    started_at TIMESTAMP NOT NULL,
    completed_at TIMESTAMP,
    FOREIGN KEY (project_id) REFERENCES projects(project_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_crawls_project ON crawls(project_id, status, completed_at DESC);

-- Pages: crawled pages in insertion order (rowid)
CREATE TABLE IF NOT EXISTS pages (
    page_id TEXT PRIMARY KEY,
    crawl_id TEXT NOT NULL,
    url TEXT NOT NULL,
    word_count INTEGER DEFAULT 0,
    content_type TEXT,
    content_hash TEXT,
    FOREIGN KEY (crawl_id) REFERENCES crawls(crawl_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_pages_crawl ON pages(crawl_id);
CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);

-- Page scores: one row per scored page
CREATE TABLE IF NOT EXISTS page_scores (
    page_id TEXT PRIMARY KEY,
    overall_score INTEGER NOT NULL,
    technical_score INTEGER NOT NULL,
    content_score INTEGER NOT NULL,
    ai_readiness_score INTEGER NOT NULL,
    performance_score INTEGER NOT NULL,
    letter_grade TEXT NOT NULL,
    FOREIGN KEY (page_id) REFERENCES pages(page_id) ON DELETE CASCADE
);

-- Issues: detected deficiencies per page; data is JSON
CREATE TABLE IF NOT EXISTS issues (
    issue_id INTEGER PRIMARY KEY AUTOINCREMENT,
    page_id TEXT NOT NULL,
    code TEXT NOT NULL,
    category TEXT NOT NULL,
    severity TEXT NOT NULL,
    message TEXT NOT NULL,
    recommendation TEXT NOT NULL,
    data TEXT,
    FOREIGN KEY (page_id) REFERENCES pages(page_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_issues_page ON issues(page_id);
CREATE INDEX IF NOT EXISTS idx_issues_code ON issues(code);

-- Crawl insights: stored summaries, one per (crawl, type)
CREATE TABLE IF NOT EXISTS crawl_insights (
    insight_id INTEGER PRIMARY KEY AUTOINCREMENT,
    crawl_id TEXT NOT NULL,
    type TEXT NOT NULL,
    data TEXT NOT NULL,
    FOREIGN KEY (crawl_id) REFERENCES crawls(crawl_id) ON DELETE CASCADE,
    UNIQUE(crawl_id, type)
);

-- Page insights: per-page summaries, one per (crawl, page, type)
CREATE TABLE IF NOT EXISTS page_insights (
    insight_id INTEGER PRIMARY KEY AUTOINCREMENT,
    crawl_id TEXT NOT NULL,
    page_id TEXT NOT NULL,
    url TEXT NOT NULL,
    type TEXT NOT NULL,
    data TEXT NOT NULL,
    FOREIGN KEY (crawl_id) REFERENCES crawls(crawl_id) ON DELETE CASCADE,
    FOREIGN KEY (page_id) REFERENCES pages(page_id) ON DELETE CASCADE,
    UNIQUE(crawl_id, page_id, type)
);

CREATE INDEX IF NOT EXISTS idx_page_insights_crawl ON page_insights(crawl_id);

-- Benchmarks: competitor scores, append-only
CREATE TABLE IF NOT EXISTS benchmarks (
    benchmark_id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id TEXT NOT NULL,
    competitor_domain TEXT NOT NULL,
    overall_score INTEGER NOT NULL,
    technical_score INTEGER NOT NULL,
    content_score INTEGER NOT NULL,
    ai_readiness_score INTEGER NOT NULL,
    performance_score INTEGER NOT NULL,
    letter_grade TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY (project_id) REFERENCES projects(project_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_benchmarks_project ON benchmarks(project_id, created_at DESC);
`
