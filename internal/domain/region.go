package domain

import "fmt"

// PatternKind selects how regions are found in a document.
type PatternKind int

const (
	// FencedBlock regions are line ranges opened by "```tag" and closed by "```".
	FencedBlock PatternKind = iota

	// InlineReference regions are image references matched anywhere in the text.
	InlineReference
)

// String returns a human readable name for the kind.
func (k PatternKind) String() string {
	switch k {
	case FencedBlock:
		return "fenced-block"
	case InlineReference:
		return "inline-reference"
	default:
		return "unknown"
	}
}

// Syntax identifies which reference form produced an inline region.
type Syntax int

const (
	SyntaxNone Syntax = iota
	SyntaxMarkdown
	SyntaxHTML
)

// String returns the syntax name.
func (s Syntax) String() string {
	switch s {
	case SyntaxMarkdown:
		return "markdown"
	case SyntaxHTML:
		return "html"
	default:
		return "none"
	}
}

// LineSpan is an inclusive range of zero-based line indices.
type LineSpan struct {
	First int
	Last  int
}

// Len returns the number of lines covered by the span.
func (s LineSpan) Len() int {
	return s.Last - s.First + 1
}

// Overlaps reports whether the two spans share at least one line.
func (s LineSpan) Overlaps(o LineSpan) bool {
	return s.First <= o.Last && o.First <= s.Last
}

func (s LineSpan) String() string {
	return fmt.Sprintf("lines[%d..%d]", s.First, s.Last)
}

// ByteSpan is a half-open byte range [Start, End) into a text buffer.
type ByteSpan struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s ByteSpan) Len() int {
	return s.End - s.Start
}

// Overlaps reports whether the two spans share at least one byte.
func (s ByteSpan) Overlaps(o ByteSpan) bool {
	return s.Start < o.End && o.Start < s.End
}

func (s ByteSpan) String() string {
	return fmt.Sprintf("bytes[%d:%d]", s.Start, s.End)
}

// Region is a located occurrence of migratable content.
// All coordinates refer to the original document and are never updated
// after the region is created.
type Region struct {
	Kind PatternKind

	// Ordinal is the 1-based position of the region within its document
	Ordinal int

	// Lines is the inclusive fence range, set for FencedBlock regions
	Lines LineSpan

	// Match is the whole matched reference, set for InlineReference regions
	Match ByteSpan

	// Target is the reference target within Match, set for InlineReference regions
	Target ByteSpan

	// Syntax is the reference form, set for InlineReference regions
	Syntax Syntax

	// Payload is the fenced block body or the reference target
	Payload string

	// Context is the nearest heading for fenced blocks or the alt text for references
	Context string
}
