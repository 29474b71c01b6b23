package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	logAdapter "github.com/bft-labs/assetship/internal/adapters/log"
	"github.com/bft-labs/assetship/internal/adapters/render"
	"github.com/bft-labs/assetship/internal/app"
	"github.com/bft-labs/assetship/internal/cliconfig"
	"github.com/bft-labs/assetship/internal/domain"
)

func init() {
	color.NoColor = true
}

func TestContentRoot(t *testing.T) {
	tests := []struct {
		name    string
		root    string
		content string
		want    string
	}{
		{name: "relative", root: "/site", content: "src/content/blog", want: filepath.Join("/site", "src/content/blog")},
		{name: "absolute", root: "/site", content: "/elsewhere/blog", want: "/elsewhere/blog"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := cliconfig.Config{ProjectRoot: tt.root, ContentDir: tt.content}
			if got := contentRoot(cfg); got != tt.want {
				t.Errorf("contentRoot() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	if got := exitCode(app.WrapSetupError(domain.ErrInvalidConfig)); got != 2 {
		t.Errorf("exitCode(config) = %d, want 2", got)
	}
	if got := exitCode(app.WrapSetupError(domain.ErrToolMissing)); got != 1 {
		t.Errorf("exitCode(tool) = %d, want 1", got)
	}
	if got := exitCode(errors.New("boom")); got != 1 {
		t.Errorf("exitCode(plain) = %d, want 1", got)
	}
}

func TestBuildDeps_DryRun(t *testing.T) {
	cfg := cliconfig.DefaultConfig()
	cfg.DryRun = true
	cfg.Encoder = cliconfig.EncoderPNG
	cfg.PublicURL = "https://assets.example.com"

	deps, err := buildDeps(cfg, app.KindD2, render.NewExecRunner(), logAdapter.NewNoopLogger())
	if err != nil {
		t.Fatalf("buildDeps() error = %v", err)
	}
	if !deps.DryRun || deps.Extension != ".png" {
		t.Errorf("deps = %+v, want dry run with .png", deps)
	}
	if deps.Uploader != nil || deps.Renderer != nil {
		t.Error("dry run should not build an uploader or renderer")
	}
}

func TestBuildDeps_Upload(t *testing.T) {
	cfg := cliconfig.DefaultConfig()
	cfg.Bucket = "blog-assets"
	cfg.AccessKeyID = "id"
	cfg.SecretAccessKey = "secret"
	cfg.EndpointURL = "https://acct.r2.cloudflarestorage.com"
	cfg.Renderer = cliconfig.RendererDocker
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	deps, err := buildDeps(cfg, app.KindD2, render.NewExecRunner(), logAdapter.NewNoopLogger())
	if err != nil {
		t.Fatalf("buildDeps() error = %v", err)
	}
	if deps.Extension != ".avif" {
		t.Errorf("Extension = %v, want .avif", deps.Extension)
	}
	framed, ok := deps.Renderer.(render.Framed)
	if !ok {
		t.Fatalf("Renderer = %T, want render.Framed", deps.Renderer)
	}
	if _, ok := framed.Renderer.(*render.D2Docker); !ok {
		t.Errorf("inner renderer = %T, want *render.D2Docker", framed.Renderer)
	}
	if deps.Uploader == nil || deps.Resolver == nil || deps.PhotoEncoder == nil {
		t.Error("upload run should build uploader, resolver and encoders")
	}
}

func TestPrintReport(t *testing.T) {
	report := &domain.Report{Profile: "d2", DryRun: true}
	report.Add(domain.PostResult{Post: "empty"})
	report.Add(domain.PostResult{Post: "graphs", Found: 2, Migrated: 1, Failed: 1,
		Assets: []domain.AssetRecord{
			{Ordinal: 1, URL: "https://assets.example.com/blogs/graphs/bfs-1-0a1b2c3d.avif"},
			{Ordinal: 2, Error: "render failed"},
		}})
	report.Add(domain.PostResult{Post: "missing", Error: "entry file not found"})

	var buf bytes.Buffer
	printReport(&buf, report)
	out := buf.String()

	for _, want := range []string{
		"! graphs: 1 migrated, 1 failed, 0 malformed",
		"#1 https://assets.example.com/blogs/graphs/bfs-1-0a1b2c3d.avif",
		"#2 render failed",
		"✗ missing: entry file not found",
		"d2 (dry run): 3 posts, 1 migrated, 1 failed, 0 malformed, 1 skipped",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "empty") {
		t.Errorf("posts without regions should be omitted:\n%s", out)
	}
}

func TestPrintRemaining(t *testing.T) {
	var buf bytes.Buffer
	printRemaining(&buf, "mermaid", []app.Remaining{
		{Post: "a", Located: 2, Parsed: 2},
		{Post: "b", Located: 1, Malformed: 1, Parsed: 3},
		{Post: "c"},
	})
	out := buf.String()

	if !strings.Contains(out, "· a: 2 remaining") {
		t.Errorf("missing post a:\n%s", out)
	}
	if !strings.Contains(out, "! b: 1 remaining, 1 malformed (parser sees 3)") {
		t.Errorf("missing mismatch for post b:\n%s", out)
	}
	if !strings.Contains(out, "mermaid: 3 regions left in 2 posts") {
		t.Errorf("missing total:\n%s", out)
	}

	buf.Reset()
	printRemaining(&buf, "giphy", []app.Remaining{{Post: "a"}})
	if !strings.Contains(buf.String(), "giphy: nothing left to migrate") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}
