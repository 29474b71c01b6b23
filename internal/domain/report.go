package domain

import "time"

// Report summarises one migration run.
// It is written to disk after the run when a report path is configured.
type Report struct {
	// RunID uniquely identifies the run
	RunID string `json:"run_id"`

	// Profile is the migration kind (d2, mermaid, images, giphy)
	Profile string `json:"profile"`

	// DryRun is true when no uploads or writes were performed
	DryRun bool `json:"dry_run"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Posts []PostResult `json:"posts"`

	// Totals across all posts
	Migrated  int `json:"migrated"`
	Failed    int `json:"failed"`
	Malformed int `json:"malformed"`
	Skipped   int `json:"skipped"`
}

// PostResult is the outcome of migrating a single post.
type PostResult struct {
	Post  string `json:"post"`
	Title string `json:"title,omitempty"`

	Found     int `json:"found"`
	Migrated  int `json:"migrated"`
	Failed    int `json:"failed"`
	Malformed int `json:"malformed"`

	// Error is set when the whole post was skipped
	Error string `json:"error,omitempty"`

	Assets []AssetRecord `json:"assets,omitempty"`
}

// AssetRecord is the outcome for one region.
type AssetRecord struct {
	Ordinal int    `json:"ordinal"`
	Name    string `json:"name"`
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Add folds a post result into the run totals.
func (r *Report) Add(p PostResult) {
	r.Posts = append(r.Posts, p)
	r.Migrated += p.Migrated
	r.Failed += p.Failed
	r.Malformed += p.Malformed
	if p.Error != "" {
		r.Skipped++
	}
}
