// Package patch applies batches of non-overlapping replacements to a
// document. Both variants are pure: the input is never modified and the
// result reflects the whole batch or, when the batch is invalid, nothing.
//
// Overlapping edits are a programming error in the caller and cause a panic.
package patch

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bft-labs/assetship/internal/domain"
)

// LineEdit replaces an inclusive line range with a single line.
type LineEdit struct {
	Span domain.LineSpan
	Line string
}

// Lines applies edits to lines and returns the new line slice.
//
// Edits are applied from the highest start line down so that earlier
// coordinates stay valid. If the last replaced line ends in "\r", the
// replacement keeps it.
func Lines(lines []string, edits []LineEdit) []string {
	sorted := append([]LineEdit(nil), edits...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Span.First > sorted[j].Span.First
	})

	for i, e := range sorted {
		if e.Span.First < 0 || e.Span.Last < e.Span.First || e.Span.Last >= len(lines) {
			panic(fmt.Sprintf("patch: %s out of range for %d lines", e.Span, len(lines)))
		}
		if i > 0 && sorted[i-1].Span.Overlaps(e.Span) {
			panic(fmt.Sprintf("patch: overlapping edits %s and %s", e.Span, sorted[i-1].Span))
		}
	}

	out := append([]string(nil), lines...)
	for _, e := range sorted {
		line := e.Line
		if strings.HasSuffix(out[e.Span.Last], "\r") && !strings.HasSuffix(line, "\r") {
			line += "\r"
		}
		tail := append([]string{line}, out[e.Span.Last+1:]...)
		out = append(out[:e.Span.First], tail...)
	}
	return out
}

// SpanEdit replaces a half-open byte range of the original text.
type SpanEdit struct {
	Span domain.ByteSpan
	Text string
}

// Text applies edits to src by slicing the original text at the recorded
// offsets. Each edit touches only its own occurrence.
func Text(src string, edits []SpanEdit) string {
	sorted := append([]SpanEdit(nil), edits...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Span.Start < sorted[j].Span.Start
	})

	for i, e := range sorted {
		if e.Span.Start < 0 || e.Span.End < e.Span.Start || e.Span.End > len(src) {
			panic(fmt.Sprintf("patch: %s out of range for %d bytes", e.Span, len(src)))
		}
		if i > 0 && sorted[i-1].Span.End > e.Span.Start {
			panic(fmt.Sprintf("patch: overlapping edits %s and %s", sorted[i-1].Span, e.Span))
		}
	}

	var b strings.Builder
	b.Grow(len(src))
	pos := 0
	for _, e := range sorted {
		b.WriteString(src[pos:e.Span.Start])
		b.WriteString(e.Text)
		pos = e.Span.End
	}
	b.WriteString(src[pos:])
	return b.String()
}
