package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/bft-labs/assetship/internal/domain"
	"github.com/bft-labs/assetship/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct {
	mu    sync.Mutex
	warns []string
}

func (*mockLogger) Debug(msg string, fields ...ports.Field) {}
func (*mockLogger) Info(msg string, fields ...ports.Field)  {}
func (*mockLogger) Error(msg string, fields ...ports.Field) {}
func (m *mockLogger) Warn(msg string, fields ...ports.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warns = append(m.warns, msg)
}

func (m *mockLogger) Warnings() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.warns...)
}

// memStore is an in-memory ports.DocumentStore.
type memStore struct {
	mu    sync.Mutex
	docs  map[string]string
	saves map[string]int
}

func newMemStore(docs map[string]string) *memStore {
	return &memStore{docs: docs, saves: make(map[string]int)}
}

func (s *memStore) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var posts []string
	for p := range s.docs {
		posts = append(posts, p)
	}
	sort.Strings(posts)
	return posts, nil
}

func (s *memStore) Load(ctx context.Context, post string) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.docs[post]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, post)
	}
	return domain.NewDocument(post, "/content/"+post, "/content/"+post+"/index.mdx", text), nil
}

func (s *memStore) Save(ctx context.Context, doc *domain.Document, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.Post] = text
	s.saves[doc.Post]++
	return nil
}

func (s *memStore) Text(post string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[post]
}

func (s *memStore) Saves(post string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves[post]
}

// fakeMaterializer returns a URL derived from the name and fails for
// payloads containing "FAIL".
type fakeMaterializer struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeMaterializer) Materialize(ctx context.Context, doc *domain.Document, r domain.Region, name string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
	if strings.Contains(r.Payload, "FAIL") {
		return "", errors.New("render failed")
	}
	if strings.Contains(r.Payload, "missing") {
		return "", fmt.Errorf("%w: %s", domain.ErrUnresolved, r.Payload)
	}
	return "https://assets.example.com/" + AssetKey("blogs", doc.Post, name), nil
}

// fakeUploader records uploads.
type fakeUploader struct {
	mu       sync.Mutex
	keys     []string
	types    []string
	failures int
}

func (u *fakeUploader) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.failures > 0 {
		u.failures--
		return "", errors.New("503 slow down")
	}
	u.keys = append(u.keys, key)
	u.types = append(u.types, contentType)
	return u.URL(key), nil
}

func (u *fakeUploader) URL(key string) string {
	return "https://assets.example.com/" + key
}

type fakeRenderer struct{ err error }

func (r fakeRenderer) Render(ctx context.Context, source string) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []byte("png:" + source), nil
}

type fakeEncoder struct{ name string }

func (e fakeEncoder) Encode(ctx context.Context, data []byte) ([]byte, string, error) {
	return append([]byte(e.name+":"), data...), "image/" + e.name, nil
}

type fakeResolver struct {
	files map[string]string
}

func (r fakeResolver) Resolve(ctx context.Context, doc *domain.Document, target string) ([]byte, string, error) {
	data, ok := r.files[target]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", domain.ErrUnresolved, target)
	}
	return []byte(data), target, nil
}

type fakeRunner struct {
	installed map[string]string
}

func (f fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return []byte(f.installed[name] + "\nextra"), nil
}

func (f fakeRunner) LookPath(name string) (string, error) {
	if _, ok := f.installed[name]; ok {
		return "/usr/local/bin/" + name, nil
	}
	return "", os.ErrNotExist
}
