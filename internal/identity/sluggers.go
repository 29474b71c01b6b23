package identity

import (
	"path"
	"regexp"
	"strings"

	"github.com/goliatone/go-slug"
)

var (
	labelField  = regexp.MustCompile(`label:\s*"([^"]+)"`)
	nonAlnum    = regexp.MustCompile(`[^a-zA-Z0-9]`)
	nonNameChar = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
	spaces      = regexp.MustCompile(`\s+`)
	dashes      = regexp.MustCompile(`-{2,}`)
)

// Label finds the first quoted label: field within the first Lines lines of a
// payload and slugs its first Words words.
type Label struct {
	Lines int
	Words int
}

// DefaultLabel scans ten lines and keeps three words.
var DefaultLabel = Label{Lines: 10, Words: 3}

// Slug implements Slugger.
func (l Label) Slug(payload, _ string) string {
	lines := strings.Split(strings.TrimSpace(payload), "\n")
	if len(lines) > l.Lines {
		lines = lines[:l.Lines]
	}
	for _, line := range lines {
		m := labelField.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		words := strings.Fields(m[1])
		if len(words) > l.Words {
			words = words[:l.Words]
		}
		var clean []string
		for _, w := range words {
			if w = strings.ToLower(nonAlnum.ReplaceAllString(w, "")); w != "" {
				clean = append(clean, w)
			}
		}
		if len(clean) > 0 {
			return strings.Join(clean, "-")
		}
	}
	return ""
}

// Keyword maps payloads containing known identifiers to a fixed slug.
type Keyword struct {
	Name string

	// All must appear verbatim
	All []string

	// AnyFold must appear ignoring case; one match is enough
	AnyFold []string
}

// Keywords tries each rule in order.
type Keywords []Keyword

// Slug implements Slugger.
func (ks Keywords) Slug(payload, _ string) string {
	lower := strings.ToLower(payload)
	for _, k := range ks {
		if k.matches(payload, lower) {
			return k.Name
		}
	}
	return ""
}

func (k Keyword) matches(payload, lower string) bool {
	for _, s := range k.All {
		if !strings.Contains(payload, s) {
			return false
		}
	}
	if len(k.AnyFold) == 0 {
		return len(k.All) > 0
	}
	for _, s := range k.AnyFold {
		if strings.Contains(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

// D2Keywords recognises the algorithm walkthroughs common in the blog.
var D2Keywords = Keywords{
	{Name: "two-pointers", All: []string{"isPalindrome"}},
	{Name: "sliding-window", All: []string{"maxSum"}, AnyFold: []string{"window"}},
	{Name: "prefix-sum", AnyFold: []string{"buildPrefixSum", "rangeSum"}},
	{Name: "binary-search", AnyFold: []string{"binarySearch"}},
	{Name: "dfs", AnyFold: []string{"dfs"}},
	{Name: "bfs", AnyFold: []string{"bfs"}},
}

// MermaidType slugs a mermaid payload by the diagram type on its first line.
var MermaidType = SluggerFunc(func(payload, _ string) string {
	first := strings.TrimSpace(payload)
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	lower := strings.ToLower(first)
	switch {
	case strings.Contains(lower, "gitgraph"):
		return "gitgraph"
	case strings.Contains(lower, "graph"), strings.Contains(lower, "flowchart"):
		return "flowchart"
	case strings.Contains(first, "sequenceDiagram"):
		return "sequence"
	case strings.Contains(first, "classDiagram"):
		return "class"
	case strings.Contains(lower, "pie"):
		return "pie"
	}
	return ""
})

// Alt slugs the region context (alt text) with at most max bytes.
type Alt struct {
	Max int
}

// Slug implements Slugger.
func (a Alt) Slug(_, context string) string {
	return truncate(slugify(context), a.Max)
}

// AltAndStem combines the alt text and the file stem of an image target.
// When both are present and differ the result is alt-stem; otherwise
// whichever one is present.
type AltAndStem struct {
	Max int
}

// Slug implements Slugger.
func (a AltAndStem) Slug(payload, context string) string {
	stem := truncate(nonNameChar.ReplaceAllString(Stem(payload), ""), a.Max)
	alt := truncate(slugify(context), a.Max)
	switch {
	case alt != "" && stem != "" && alt != stem:
		return alt + "-" + stem
	case stem != "":
		return stem
	default:
		return alt
	}
}

// Stem returns the file name of a target without its extension, ignoring any
// query or fragment.
func Stem(target string) string {
	if i := strings.IndexAny(target, "?#"); i >= 0 {
		target = target[:i]
	}
	if i := strings.Index(target, "://"); i >= 0 {
		target = target[i+3:]
		if j := strings.IndexByte(target, '/'); j >= 0 {
			target = target[j:]
		} else {
			target = ""
		}
	}
	base := path.Base(target)
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// slugify lowercases free text into a file-name safe slug. It prefers the
// go-slug normaliser and falls back to a plain ASCII filter.
func slugify(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	out, err := slug.Normalize(s)
	if err != nil || out == "" {
		out = spaces.ReplaceAllString(s, "-")
	}
	out = nonNameChar.ReplaceAllString(out, "")
	out = dashes.ReplaceAllString(out, "-")
	return strings.ToLower(strings.Trim(out, "-_"))
}

func truncate(s string, max int) string {
	if max > 0 && len(s) > max {
		s = strings.TrimRight(s[:max], "-_")
	}
	return s
}
