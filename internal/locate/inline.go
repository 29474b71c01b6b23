package locate

import (
	"regexp"
	"strings"

	"github.com/bft-labs/assetship/internal/domain"
)

const (
	markdownImage = `!\[([^\]]*)\]\(([^)]+)\)`
	htmlImage     = `(?i:<img(?:\s+[^>]*?)?\s+src\s*=\s*["']([^"']+)["'][^>]*>)`
)

var htmlAlt = regexp.MustCompile(`(?i)(?:^|\s)alt\s*=\s*["']([^"']*)["']`)

type inlinePattern struct {
	filter   Filter
	markdown bool
	html     bool
	re       *regexp.Regexp
}

// InlineOption configures an inline reference pattern.
type InlineOption func(*inlinePattern)

// WithSyntaxes restricts the reference forms that are matched.
// The default is markdown and HTML.
func WithSyntaxes(syntaxes ...domain.Syntax) InlineOption {
	return func(p *inlinePattern) {
		p.markdown, p.html = false, false
		for _, s := range syntaxes {
			switch s {
			case domain.SyntaxMarkdown:
				p.markdown = true
			case domain.SyntaxHTML:
				p.html = true
			}
		}
	}
}

// InlineReference matches markdown ![alt](target) and HTML <img src="target">
// references whose target passes filter. A nil filter accepts every target.
//
// At each position the markdown form is tried before the HTML form, and the
// scan resumes after the end of each match, so references never overlap.
func InlineReference(filter Filter, opts ...InlineOption) Pattern {
	p := &inlinePattern{filter: filter, markdown: true, html: true}
	for _, o := range opts {
		o(p)
	}

	var alts []string
	if p.markdown {
		alts = append(alts, markdownImage)
	}
	if p.html {
		alts = append(alts, htmlImage)
	}
	p.re = regexp.MustCompile(strings.Join(alts, "|"))
	return p
}

func (p *inlinePattern) Kind() domain.PatternKind { return domain.InlineReference }

func (p *inlinePattern) Scan(doc *domain.Document) Scanner {
	return &inlineScanner{pattern: p, text: doc.Text}
}

type inlineScanner struct {
	pattern *inlinePattern
	text    string

	offset  int
	ordinal int
	done    bool
}

func (s *inlineScanner) Next() (domain.Region, bool) {
	for !s.done && s.offset <= len(s.text) {
		loc := s.pattern.re.FindStringSubmatchIndex(s.text[s.offset:])
		if loc == nil {
			s.done = true
			break
		}
		base := s.offset
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += base
			}
		}
		s.offset = loc[1]
		if loc[1] == loc[0] {
			s.offset++
		}

		r, ok := s.region(loc)
		if !ok {
			continue
		}
		s.ordinal++
		r.Ordinal = s.ordinal
		return r, true
	}
	return domain.Region{}, false
}

func (s *inlineScanner) Diagnostics() []Diagnostic { return nil }

// region builds a region from absolute submatch indices. The group layout
// depends on which syntaxes the pattern was compiled with.
func (s *inlineScanner) region(loc []int) (domain.Region, bool) {
	p := s.pattern
	match := domain.ByteSpan{Start: loc[0], End: loc[1]}

	var (
		syntax domain.Syntax
		target domain.ByteSpan
		alt    string
	)
	switch {
	case p.markdown && loc[4] >= 0:
		syntax = domain.SyntaxMarkdown
		alt = s.text[loc[2]:loc[3]]
		target = markdownTarget(s.text, domain.ByteSpan{Start: loc[4], End: loc[5]})
	case p.markdown && p.html && loc[6] >= 0:
		syntax = domain.SyntaxHTML
		target = domain.ByteSpan{Start: loc[6], End: loc[7]}
	case !p.markdown && p.html && loc[2] >= 0:
		syntax = domain.SyntaxHTML
		target = domain.ByteSpan{Start: loc[2], End: loc[3]}
	default:
		return domain.Region{}, false
	}

	if syntax == domain.SyntaxHTML {
		if m := htmlAlt.FindStringSubmatch(s.text[match.Start:match.End]); m != nil {
			alt = m[1]
		}
	}
	if target.Len() == 0 {
		return domain.Region{}, false
	}

	url := s.text[target.Start:target.End]
	if p.filter != nil && !p.filter.Accept(url) {
		return domain.Region{}, false
	}

	return domain.Region{
		Kind:    domain.InlineReference,
		Match:   match,
		Target:  target,
		Syntax:  syntax,
		Payload: url,
		Context: strings.TrimSpace(alt),
	}, true
}

// markdownTarget narrows the parenthesised part of a markdown image to the
// URL itself, dropping an optional title and angle brackets.
func markdownTarget(text string, span domain.ByteSpan) domain.ByteSpan {
	start, end := span.Start, span.End
	for start < end && isSpace(text[start]) {
		start++
	}
	if start < end && text[start] == '<' {
		if i := strings.IndexByte(text[start:end], '>'); i > 0 {
			return domain.ByteSpan{Start: start + 1, End: start + i}
		}
	}
	for i := start; i < end; i++ {
		if isSpace(text[i]) {
			return domain.ByteSpan{Start: start, End: i}
		}
	}
	return domain.ByteSpan{Start: start, End: end}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
