package ports

import (
	"context"

	"github.com/bft-labs/assetship/internal/domain"
)

// DocumentStore reads and writes post entry files.
type DocumentStore interface {
	// List returns the names of all post folders that have an entry file,
	// sorted by name.
	List(ctx context.Context) ([]string, error)

	// Load reads the entry file of a post.
	// Returns domain.ErrEntryNotFound if the post has no entry file.
	Load(ctx context.Context, post string) (*domain.Document, error)

	// Save replaces the entry file of doc with text.
	// The write is atomic: readers see either the old or the new content.
	Save(ctx context.Context, doc *domain.Document, text string) error
}
