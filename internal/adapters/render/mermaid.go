package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bft-labs/assetship/internal/ports"
)

// Mermaid renders Mermaid sources with the mermaid-cli (mmdc).
type Mermaid struct {
	runner ports.CommandRunner
}

// NewMermaid creates a Mermaid renderer.
func NewMermaid(runner ports.CommandRunner) *Mermaid {
	return &Mermaid{runner: runner}
}

// Render implements ports.Renderer.
func (r *Mermaid) Render(ctx context.Context, source string) ([]byte, error) {
	dir, err := os.MkdirTemp("", "assetship-mmd-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "diagram.mmd")
	out := filepath.Join(dir, "diagram.png")
	if err := os.WriteFile(in, []byte(source), 0o600); err != nil {
		return nil, err
	}

	_, err = r.runner.Run(ctx, "mmdc",
		"-i", in, "-o", out,
		"-t", "neutral", "-b", "transparent", "--scale", "2",
	)
	if err != nil {
		return nil, fmt.Errorf("render mermaid: %w", err)
	}
	return readOutput(out)
}
