package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is the number of unchanged lines shown around each change.
const diffContext = 2

// WriteDiff prints a line diff between before and after, showing a few
// unchanged lines around each change.
func WriteDiff(w io.Writer, path, before, after string, useColor bool) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	header := color.New(color.Bold)
	del := color.New(color.FgRed)
	add := color.New(color.FgGreen)
	hunk := color.New(color.FgCyan)
	for _, c := range []*color.Color{header, del, add, hunk} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	header.Fprintf(w, "--- %s\n+++ %s (planned)\n", path, path)
	for i, d := range diffs {
		text := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			for _, l := range text {
				del.Fprintln(w, "-"+l)
			}
		case diffmatchpatch.DiffInsert:
			for _, l := range text {
				add.Fprintln(w, "+"+l)
			}
		case diffmatchpatch.DiffEqual:
			first, last := i == 0, i == len(diffs)-1
			if len(text) <= 2*diffContext && !first && !last {
				writeContext(w, text)
				continue
			}
			if !first {
				writeContext(w, text[:min(diffContext, len(text))])
			}
			if !last {
				hunk.Fprintln(w, "@@")
				writeContext(w, text[max(len(text)-diffContext, 0):])
			}
		}
	}
}

func writeContext(w io.Writer, lines []string) {
	for _, l := range lines {
		fmt.Fprintln(w, " "+l)
	}
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
