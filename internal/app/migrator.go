package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/assetship/internal/domain"
	"github.com/bft-labs/assetship/internal/locate"
	"github.com/bft-labs/assetship/internal/patch"
	"github.com/bft-labs/assetship/internal/ports"
)

// Options configures a Migrator.
type Options struct {
	// Workers is the number of posts processed in parallel; at least one
	Workers int

	// DryRun skips writes; planned rewrites are shown as diffs on DiffOut
	DryRun  bool
	DiffOut io.Writer
	Color   bool
}

// Migrator runs a profile over posts from a document store.
type Migrator struct {
	store   ports.DocumentStore
	profile *Profile
	logger  ports.Logger
	opts    Options
}

// NewMigrator creates a Migrator.
func NewMigrator(store ports.DocumentStore, profile *Profile, logger ports.Logger, opts Options) *Migrator {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Migrator{
		store:   store,
		profile: profile,
		logger:  logger,
		opts:    opts,
	}
}

// Run holds the state of one migration over the corpus. Counters are shared
// between workers; everything else belongs to a single post.
type Run struct {
	ID string

	migrated  atomic.Int64
	failed    atomic.Int64
	malformed atomic.Int64

	mu     sync.Mutex
	report *domain.Report
}

func (r *Run) record(res domain.PostResult) {
	r.migrated.Add(int64(res.Migrated))
	r.failed.Add(int64(res.Failed))
	r.malformed.Add(int64(res.Malformed))

	r.mu.Lock()
	defer r.mu.Unlock()
	r.report.Add(res)
}

// Migrated returns the number of regions migrated so far.
func (r *Run) Migrated() int64 { return r.migrated.Load() }

// Run migrates the named posts, or every post in the store when posts is
// empty. Per-post failures are recorded in the report; only listing the
// store can fail the run.
func (m *Migrator) Run(ctx context.Context, posts []string) (*domain.Report, error) {
	if len(posts) == 0 {
		var err error
		posts, err = m.store.List(ctx)
		if err != nil {
			return nil, err
		}
	}

	run := &Run{
		ID: uuid.NewString(),
		report: &domain.Report{
			Profile:   m.profile.Name,
			DryRun:    m.opts.DryRun,
			StartedAt: time.Now().UTC(),
			Posts:     make([]domain.PostResult, 0, len(posts)),
		},
	}
	run.report.RunID = run.ID

	m.logger.Info("starting migration",
		ports.String("run_id", run.ID),
		ports.String("kind", m.profile.Name),
		ports.Int("posts", len(posts)),
		ports.Int("workers", m.opts.Workers),
		ports.Bool("dry_run", m.opts.DryRun),
	)

	queue := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < m.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for post := range queue {
				run.record(m.Migrate(ctx, post))
			}
		}()
	}

feed:
	for _, post := range posts {
		if ctx.Err() != nil {
			m.logger.Warn("migration cancelled, not starting remaining posts")
			break
		}
		select {
		case <-ctx.Done():
			m.logger.Warn("migration cancelled, not starting remaining posts")
			break feed
		case queue <- post:
		}
	}
	close(queue)
	wg.Wait()

	report := run.report
	sort.SliceStable(report.Posts, func(i, j int) bool {
		return report.Posts[i].Post < report.Posts[j].Post
	})
	report.FinishedAt = time.Now().UTC()

	m.logger.Info("migration finished",
		ports.String("run_id", run.ID),
		ports.Int64("migrated", run.migrated.Load()),
		ports.Int64("failed", run.failed.Load()),
		ports.Int64("malformed", run.malformed.Load()),
		ports.Int("skipped", report.Skipped),
	)
	return report, nil
}

// Migrate processes a single post. Regions are handled in document order; a
// failed region is left untouched while the others are still rewritten. A
// panic in any collaborator skips the post without writing it.
func (m *Migrator) Migrate(ctx context.Context, post string) (res domain.PostResult) {
	res = domain.PostResult{Post: post}
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			m.logger.Error("skipping post", ports.String("post", post), ports.Err(err))
			res.Error = err.Error()
			res.Migrated = 0
		}
	}()

	doc, err := m.store.Load(ctx, post)
	if err != nil {
		m.logger.Error("skipping post", ports.String("post", post), ports.Err(err))
		res.Error = err.Error()
		return res
	}
	res.Title = doc.Title

	regions, diags := locate.All(m.profile.Pattern, doc)
	res.Found = len(regions)
	res.Malformed = len(diags)
	for _, d := range diags {
		m.logger.Warn("malformed block",
			ports.String("post", post),
			ports.Int("line", d.Line+1),
			ports.String("detail", d.Message),
		)
	}
	if len(regions) == 0 {
		m.logger.Debug("nothing to migrate", ports.String("post", post))
		return res
	}

	batch := domain.NewBatch()
	for _, r := range regions {
		name := m.profile.Namer.Name(r)
		rec := domain.AssetRecord{Ordinal: r.Ordinal, Name: name}

		url, err := m.profile.Materializer.Materialize(ctx, doc, r, name)
		if err != nil {
			msg := "region failed"
			if errors.Is(err, domain.ErrUnresolved) {
				msg = "unresolved reference"
			}
			m.logger.Warn(msg,
				ports.String("post", post),
				ports.Int("ordinal", r.Ordinal),
				ports.String("name", name),
				ports.Err(err),
			)
			rec.Error = err.Error()
			res.Failed++
			res.Assets = append(res.Assets, rec)
			continue
		}

		rec.URL = url
		res.Assets = append(res.Assets, rec)
		batch.Add(domain.AssetRef{Region: r, Name: name, URL: url})
		m.logger.Debug("migrated region",
			ports.String("post", post),
			ports.Int("ordinal", r.Ordinal),
			ports.String("url", url),
		)
	}

	if batch.Empty() {
		return res
	}

	text := m.apply(doc, batch)
	if m.opts.DryRun {
		if m.opts.DiffOut != nil {
			WriteDiff(m.opts.DiffOut, doc.Path, doc.Text, text, m.opts.Color)
		}
		res.Migrated = batch.Size()
		return res
	}

	if err := m.store.Save(ctx, doc, text); err != nil {
		m.logger.Error("skipping post", ports.String("post", post), ports.Err(err))
		res.Error = fmt.Sprintf("save: %v", err)
		res.Failed += batch.Size()
		return res
	}
	res.Migrated = batch.Size()
	m.logger.Info("updated post",
		ports.String("post", post),
		ports.Int("migrated", res.Migrated),
		ports.Int("failed", res.Failed),
	)
	return res
}

// apply rewrites the document text for a batch.
func (m *Migrator) apply(doc *domain.Document, batch *domain.Batch) string {
	if m.profile.Fenced() {
		edits := make([]patch.LineEdit, 0, batch.Size())
		for _, ref := range batch.Refs {
			edits = append(edits, patch.LineEdit{Span: ref.Region.Lines, Line: m.profile.Replacement(ref)})
		}
		return domain.JoinLines(patch.Lines(doc.Lines, edits))
	}

	edits := make([]patch.SpanEdit, 0, batch.Size())
	for _, ref := range batch.Refs {
		edits = append(edits, patch.SpanEdit{Span: ref.Region.Target, Text: m.profile.Replacement(ref)})
	}
	return patch.Text(doc.Text, edits)
}
