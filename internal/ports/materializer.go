package ports

import (
	"context"

	"github.com/bft-labs/assetship/internal/domain"
)

// Materializer turns a region payload into an uploaded asset and returns its
// public URL. Each call is independent; a failure affects only that region.
type Materializer interface {
	Materialize(ctx context.Context, doc *domain.Document, r domain.Region, name string) (string, error)
}

// Renderer converts diagram source into a PNG image.
type Renderer interface {
	Render(ctx context.Context, source string) ([]byte, error)
}

// Encoder converts a PNG image into the final upload format.
type Encoder interface {
	// Encode returns the encoded bytes and their content type.
	Encode(ctx context.Context, png []byte) ([]byte, string, error)
}

// Fetcher downloads a remote resource.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// SourceResolver locates the bytes behind an image reference.
type SourceResolver interface {
	// Resolve returns the source bytes and a canonical location (URL or file
	// path). It returns domain.ErrUnresolved when nothing matches.
	Resolve(ctx context.Context, doc *domain.Document, target string) ([]byte, string, error)
}

// Uploader stores assets in the public bucket.
type Uploader interface {
	// Upload stores body under key and returns the public URL.
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)

	// URL returns the public URL an object stored under key would have.
	URL(key string) string
}

// CommandRunner executes external programs.
type CommandRunner interface {
	// Run executes name with args and returns combined output.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)

	// LookPath reports the resolved path of an executable.
	LookPath(name string) (string, error)
}

// ReportRepository persists run reports.
type ReportRepository interface {
	// Save writes the report atomically.
	Save(ctx context.Context, report *domain.Report) error
}
