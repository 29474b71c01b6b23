package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/bft-labs/assetship/internal/domain"
	"github.com/bft-labs/assetship/internal/ports"
)

// ToolStatus is the result of probing one external tool.
type ToolStatus struct {
	Name    string
	Path    string
	Version string
	Err     error
}

// OK reports whether the tool was found and ran.
func (s ToolStatus) OK() bool { return s.Err == nil }

// RequiredTools lists the external programs a migration needs.
func RequiredTools(kind, renderer, encoder string) []string {
	var tools []string
	switch kind {
	case KindD2:
		if renderer == "docker" {
			tools = append(tools, "docker")
		} else {
			tools = append(tools, "d2")
		}
	case KindMermaid:
		tools = append(tools, "mmdc")
	case KindGiphy:
		return nil
	}
	if encoder != "png" {
		tools = append(tools, "avifenc")
	}
	return tools
}

// Doctor probes external tools.
type Doctor struct {
	runner ports.CommandRunner
}

// NewDoctor creates a Doctor.
func NewDoctor(runner ports.CommandRunner) *Doctor {
	return &Doctor{runner: runner}
}

// Probe locates each tool and asks it for its version.
func (d *Doctor) Probe(ctx context.Context, tools []string) []ToolStatus {
	out := make([]ToolStatus, 0, len(tools))
	for _, name := range tools {
		st := ToolStatus{Name: name}
		path, err := d.runner.LookPath(name)
		if err != nil {
			st.Err = fmt.Errorf("%w: %s", domain.ErrToolMissing, name)
			out = append(out, st)
			continue
		}
		st.Path = path

		v, err := d.runner.Run(ctx, name, "--version")
		if err != nil {
			st.Err = fmt.Errorf("%s --version: %w", name, err)
		} else {
			st.Version = firstLine(string(v))
		}
		out = append(out, st)
	}
	return out
}

// Preflight fails with domain.ErrToolMissing when any tool is unavailable.
func (d *Doctor) Preflight(ctx context.Context, tools []string) error {
	var missing []string
	for _, st := range d.Probe(ctx, tools) {
		if !st.OK() {
			missing = append(missing, st.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrToolMissing, strings.Join(missing, ", "))
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
