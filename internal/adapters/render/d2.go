package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bft-labs/assetship/internal/ports"
)

// DefaultD2Image is the container image used by D2Docker.
const DefaultD2Image = "terrastruct/d2"

// D2Local renders D2 sources with a locally installed d2 binary.
type D2Local struct {
	runner ports.CommandRunner
}

// NewD2Local creates a D2Local renderer.
func NewD2Local(runner ports.CommandRunner) *D2Local {
	return &D2Local{runner: runner}
}

// Render implements ports.Renderer.
func (r *D2Local) Render(ctx context.Context, source string) ([]byte, error) {
	dir, err := os.MkdirTemp("", "assetship-d2-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "diagram.d2")
	out := filepath.Join(dir, "diagram.png")
	if err := os.WriteFile(in, []byte(source), 0o600); err != nil {
		return nil, err
	}

	if _, err := r.runner.Run(ctx, "d2", "--theme", "0", "--pad", "20", "--scale", "2", in, out); err != nil {
		return nil, fmt.Errorf("render d2: %w", err)
	}
	return readOutput(out)
}

// D2Docker renders D2 sources inside the terrastruct/d2 container. The image
// is pulled on first use when it is not present locally.
type D2Docker struct {
	runner ports.CommandRunner
	image  string

	once    sync.Once
	pullErr error
}

// NewD2Docker creates a D2Docker renderer. An empty image selects
// DefaultD2Image.
func NewD2Docker(runner ports.CommandRunner, image string) *D2Docker {
	if image == "" {
		image = DefaultD2Image
	}
	return &D2Docker{runner: runner, image: image}
}

// Render implements ports.Renderer.
func (r *D2Docker) Render(ctx context.Context, source string) ([]byte, error) {
	if err := r.ensureImage(ctx); err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "assetship-d2-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	if err := os.WriteFile(filepath.Join(dir, "diagram.d2"), []byte(source), 0o644); err != nil {
		return nil, err
	}

	_, err = r.runner.Run(ctx, "docker", "run", "--rm",
		"-v", dir+":/workspace",
		r.image,
		"--theme", "1", "--pad", "0", "--scale", "2",
		"/workspace/diagram.d2", "/workspace/diagram.png",
	)
	if err != nil {
		return nil, fmt.Errorf("render d2 in docker: %w", err)
	}
	return readOutput(filepath.Join(dir, "diagram.png"))
}

func (r *D2Docker) ensureImage(ctx context.Context) error {
	r.once.Do(func() {
		out, err := r.runner.Run(ctx, "docker", "images", "-q", r.image)
		if err != nil {
			r.pullErr = fmt.Errorf("list docker images: %w", err)
			return
		}
		if strings.TrimSpace(string(out)) != "" {
			return
		}
		if _, err := r.runner.Run(ctx, "docker", "pull", r.image); err != nil {
			r.pullErr = fmt.Errorf("pull %s: %w", r.image, err)
		}
	})
	return r.pullErr
}

func readOutput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rendered output: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("renderer produced an empty file")
	}
	return data, nil
}
