// Package locate finds migratable regions inside a document.
//
// A [Pattern] describes what to look for (a fenced block of a given tag, or
// inline image references). Scanning a document yields a [Scanner], a single
// pass over the original text that returns regions in first-occurrence
// order. Scanners are not restartable; scan the document again to start over.
package locate

import "github.com/bft-labs/assetship/internal/domain"

// Pattern describes a structural pattern to locate in documents.
type Pattern interface {
	// Kind reports whether regions are line ranges or byte ranges.
	Kind() domain.PatternKind

	// Scan starts a new single-pass scan over the document.
	Scan(doc *domain.Document) Scanner
}

// Scanner yields regions lazily.
type Scanner interface {
	// Next returns the next region, or false once the document is exhausted.
	Next() (domain.Region, bool)

	// Diagnostics returns malformed occurrences seen so far.
	Diagnostics() []Diagnostic
}

// Diagnostic describes an occurrence that looked like a region but could not
// be used, such as a fence that is never closed.
type Diagnostic struct {
	// Line is the zero-based line of the occurrence, or -1 when not line based
	Line int

	// Offset is the byte offset of the occurrence, or -1 when not byte based
	Offset int

	Message string
}

// Collect drains the scanner.
func Collect(s Scanner) []domain.Region {
	var out []domain.Region
	for {
		r, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, r)
	}
}

// All scans doc with p and returns every region plus any diagnostics.
func All(p Pattern, doc *domain.Document) ([]domain.Region, []Diagnostic) {
	s := p.Scan(doc)
	regions := Collect(s)
	return regions, s.Diagnostics()
}
