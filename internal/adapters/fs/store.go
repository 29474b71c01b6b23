package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bft-labs/assetship/internal/domain"
	"github.com/bft-labs/assetship/internal/markdown"
)

// DefaultEntryFile is the entry file name inside each post folder.
const DefaultEntryFile = "index.mdx"

// Store implements ports.DocumentStore over a content directory laid out as
// <root>/<post>/<entry>.
type Store struct {
	root  string
	entry string
}

// NewStore creates a Store. An empty entry selects DefaultEntryFile.
func NewStore(root, entry string) *Store {
	if entry == "" {
		entry = DefaultEntryFile
	}
	return &Store{root: root, entry: entry}
}

// Root returns the content directory.
func (s *Store) Root() string { return s.root }

// EntryPath returns the entry file path for post.
func (s *Store) EntryPath(post string) string {
	return filepath.Join(s.root, post, s.entry)
}

// List returns every post folder that contains an entry file.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrContentDir, s.root)
		}
		return nil, fmt.Errorf("read content dir: %w", err)
	}

	var posts []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(s.EntryPath(e.Name())); err == nil {
			posts = append(posts, e.Name())
		}
	}
	sort.Strings(posts)
	return posts, nil
}

// Load reads the entry file of post.
func (s *Store) Load(ctx context.Context, post string) (*domain.Document, error) {
	path := s.EntryPath(post)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	doc := domain.NewDocument(post, filepath.Dir(path), path, string(data))
	doc.Title = markdown.Title(data)
	return doc, nil
}

// Save replaces the entry file of doc, keeping its permissions.
func (s *Store) Save(ctx context.Context, doc *domain.Document, text string) error {
	perm := os.FileMode(0o644)
	if fi, err := os.Stat(doc.Path); err == nil {
		perm = fi.Mode().Perm()
	}
	if err := writeAtomic(doc.Path, []byte(text), perm); err != nil {
		return fmt.Errorf("write %s: %w", doc.Path, err)
	}
	return nil
}
