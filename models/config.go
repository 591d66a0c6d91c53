package models

// AuditConfig holds runtime configuration for a scoring run.
// All values come from CLI flags; rule tables are loaded separately.
type AuditConfig struct {
	InputPath   string
	WorkerCount int
	ProjectID   string
	Resolved    []string
	MetricsFile string
}
