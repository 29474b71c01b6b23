package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bft-labs/assetship/internal/domain"
	"github.com/bft-labs/assetship/internal/ports"
)

// Resolver implements ports.SourceResolver. Remote targets are downloaded
// with the fetcher; local targets are looked up relative to the post folder,
// then the project root, then its src/ and public/ folders.
type Resolver struct {
	root    string
	fetcher ports.Fetcher
}

// NewResolver creates a Resolver for the project at root.
func NewResolver(root string, fetcher ports.Fetcher) *Resolver {
	return &Resolver{root: root, fetcher: fetcher}
}

// Resolve implements ports.SourceResolver.
func (r *Resolver) Resolve(ctx context.Context, doc *domain.Document, target string) ([]byte, string, error) {
	if url, ok := remote(target); ok {
		if r.fetcher == nil {
			return nil, "", fmt.Errorf("%w: no fetcher for %s", domain.ErrUnresolved, url)
		}
		data, err := r.fetcher.Fetch(ctx, url)
		if err != nil {
			return nil, "", fmt.Errorf("download %s: %w", url, err)
		}
		return data, url, nil
	}

	for _, candidate := range r.Candidates(doc.Dir, target) {
		fi, err := os.Stat(candidate)
		if err != nil || fi.IsDir() {
			continue
		}
		data, err := os.ReadFile(candidate)
		if err != nil {
			return nil, "", fmt.Errorf("read %s: %w", candidate, err)
		}
		return data, candidate, nil
	}
	return nil, "", fmt.Errorf("%w: %s", domain.ErrUnresolved, target)
}

// Candidates lists the local paths tried for target, in order.
func (r *Resolver) Candidates(postDir, target string) []string {
	target = localPath(target)
	rel := strings.TrimLeft(target, "/")

	var out []string
	if !strings.HasPrefix(target, "/") {
		out = append(out, filepath.Join(postDir, filepath.FromSlash(target)))
	} else {
		out = append(out, filepath.Join(r.root, filepath.FromSlash(rel)))
	}
	out = append(out,
		filepath.Join(r.root, "src", filepath.FromSlash(rel)),
		filepath.Join(r.root, "public", filepath.FromSlash(rel)),
	)
	return out
}

func remote(target string) (string, bool) {
	switch {
	case strings.HasPrefix(target, "http://"), strings.HasPrefix(target, "https://"):
		return target, true
	case strings.HasPrefix(target, "//"):
		return "https:" + target, true
	}
	return "", false
}

// localPath drops any query or fragment from a local reference.
func localPath(target string) string {
	if i := strings.IndexAny(target, "?#"); i >= 0 {
		return target[:i]
	}
	return target
}
