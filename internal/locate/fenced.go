package locate

import (
	"strings"

	"github.com/bft-labs/assetship/internal/domain"
)

// Fence is the bare token that opens (with a tag) and closes a fenced block.
const Fence = "```"

// DefaultFallbackLabel is used when no heading precedes a fenced block.
const DefaultFallbackLabel = "Diagram"

type fencedPattern struct {
	tag      string
	open     string
	fallback string
}

// FencedOption configures a fenced block pattern.
type FencedOption func(*fencedPattern)

// WithFallbackLabel sets the context label used when no heading precedes a block.
func WithFallbackLabel(label string) FencedOption {
	return func(p *fencedPattern) {
		if label != "" {
			p.fallback = label
		}
	}
}

// FencedBlock matches blocks opened by a line equal to "```"+tag and closed by
// the next line equal to "```", both compared after trimming whitespace.
func FencedBlock(tag string, opts ...FencedOption) Pattern {
	p := &fencedPattern{
		tag:      tag,
		open:     Fence + tag,
		fallback: DefaultFallbackLabel,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *fencedPattern) Kind() domain.PatternKind { return domain.FencedBlock }

func (p *fencedPattern) Scan(doc *domain.Document) Scanner {
	return &fencedScanner{
		lines:    doc.Lines,
		open:     p.open,
		fallback: p.fallback,
	}
}

type fencedScanner struct {
	lines    []string
	open     string
	fallback string

	pos     int
	ordinal int
	diags   []Diagnostic
}

func (s *fencedScanner) Next() (domain.Region, bool) {
	for s.pos < len(s.lines) {
		first := s.pos
		s.pos++
		if strings.TrimSpace(s.lines[first]) != s.open {
			continue
		}

		last := -1
		for j := first + 1; j < len(s.lines); j++ {
			if strings.TrimSpace(s.lines[j]) == Fence {
				last = j
				break
			}
		}
		if last < 0 {
			// Nothing after an unterminated fence can close a block.
			s.diags = append(s.diags, Diagnostic{
				Line:    first,
				Offset:  -1,
				Message: "unterminated " + s.open + " fence",
			})
			s.pos = len(s.lines)
			return domain.Region{}, false
		}

		s.pos = last + 1
		s.ordinal++
		return domain.Region{
			Kind:    domain.FencedBlock,
			Ordinal: s.ordinal,
			Lines:   domain.LineSpan{First: first, Last: last},
			Payload: strings.Join(s.lines[first+1:last], "\n"),
			Context: Heading(s.lines, first, s.fallback),
		}, true
	}
	return domain.Region{}, false
}

func (s *fencedScanner) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), s.diags...)
}

// Heading scans backward from line before and returns the label of the first
// level-2 or level-3 heading. Deeper headings and empty labels are skipped.
// When no heading is found, fallback is returned.
func Heading(lines []string, before int, fallback string) string {
	if before > len(lines) {
		before = len(lines)
	}
	for i := before - 1; i >= 0; i-- {
		if label, ok := headingLabel(strings.TrimSpace(lines[i])); ok && label != "" {
			return label
		}
	}
	return fallback
}

// headingLabel returns the text of a level-2 or level-3 ATX heading. The
// marker must be followed by whitespace or end the line.
func headingLabel(line string) (string, bool) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level != 2 && level != 3 {
		return "", false
	}
	rest := line[level:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}
	return strings.TrimSpace(rest), true
}
