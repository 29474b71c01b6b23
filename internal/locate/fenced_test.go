package locate

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/assetship/internal/domain"
)

func doc(lines ...string) *domain.Document {
	return domain.NewDocument("post", "/tmp/post", "/tmp/post/index.mdx", strings.Join(lines, "\n"))
}

func TestFencedBlockTwoBlocks(t *testing.T) {
	d := doc(
		"# Title",
		"## Two Pointers",
		"",
		"```d2",
		"a -> b",
		"```",
		"",
		"### Window",
		"text",
		"",
		"```d2",
		"x -> y",
		"```",
		"tail",
	)

	regions, diags := All(FencedBlock("d2"), d)
	assert.Empty(t, diags)

	want := []domain.Region{
		{
			Kind:    domain.FencedBlock,
			Ordinal: 1,
			Lines:   domain.LineSpan{First: 3, Last: 5},
			Payload: "a -> b",
			Context: "Two Pointers",
		},
		{
			Kind:    domain.FencedBlock,
			Ordinal: 2,
			Lines:   domain.LineSpan{First: 10, Last: 12},
			Payload: "x -> y",
			Context: "Window",
		},
	}
	if diff := cmp.Diff(want, regions); diff != "" {
		t.Errorf("regions mismatch (-want +got):\n%s", diff)
	}
}

func TestFencedBlockDangling(t *testing.T) {
	tests := []struct {
		name      string
		lines     []string
		wantSpans []domain.LineSpan
		wantDiag  int
	}{
		{
			name:     "only block dangling",
			lines:    []string{"## H", "```d2", "a -> b", ""},
			wantDiag: 1,
		},
		{
			name:      "closed block then dangling",
			lines:     []string{"```d2", "a", "```", "text", "```d2", "b"},
			wantSpans: []domain.LineSpan{{First: 0, Last: 2}},
			wantDiag:  1,
		},
		{
			name:  "no blocks",
			lines: []string{"plain", "text"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			regions, diags := All(FencedBlock("d2"), doc(tt.lines...))

			var spans []domain.LineSpan
			for _, r := range regions {
				spans = append(spans, r.Lines)
			}
			assert.Equal(t, tt.wantSpans, spans)
			assert.Len(t, diags, tt.wantDiag)
		})
	}
}

func TestFencedBlockMatching(t *testing.T) {
	d := doc(
		"```mermaid",
		"graph TD",
		"```",
		"  ```d2  ",
		"  a",
		"  ```  ",
		"```d2 title",
		"```",
		"```d2",
		"",
		"```",
	)

	regions := Collect(FencedBlock("d2").Scan(d))
	require.Len(t, regions, 2)

	assert.Equal(t, domain.LineSpan{First: 3, Last: 5}, regions[0].Lines)
	assert.Equal(t, "  a", regions[0].Payload)

	// "```d2 title" is not an exact opener; the bare fence after it is
	// consumed as plain text and the next block starts at line 8.
	assert.Equal(t, domain.LineSpan{First: 8, Last: 10}, regions[1].Lines)
	assert.Equal(t, "", regions[1].Payload)
}

func TestFencedBlockSinglePass(t *testing.T) {
	s := FencedBlock("d2").Scan(doc("```d2", "a", "```"))

	_, ok := s.Next()
	require.True(t, ok)

	_, ok = s.Next()
	assert.False(t, ok)
	_, ok = s.Next()
	assert.False(t, ok)
}

func TestHeading(t *testing.T) {
	tests := []struct {
		name   string
		lines  []string
		before int
		want   string
	}{
		{"level two", []string{"## Intro", "text", "```d2"}, 2, "Intro"},
		{"level three", []string{"## Intro", "### Detail  ", "```d2"}, 2, "Detail"},
		{"level four skipped", []string{"## Intro", "#### Deep", "```d2"}, 2, "Intro"},
		{"level one ignored", []string{"# Title", "```d2"}, 1, "Fallback"},
		{"empty heading skipped", []string{"## Real", "##", "```d2"}, 2, "Real"},
		{"first line", []string{"```d2"}, 0, "Fallback"},
		{"headings below ignored", []string{"```d2", "## After"}, 0, "Fallback"},
		{"marker without space ignored", []string{"## Real", "##foo", "```d2"}, 2, "Real"},
		{"tab after marker", []string{"###\tTabbed", "```d2"}, 1, "Tabbed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Heading(tt.lines, tt.before, "Fallback"))
		})
	}
}

func TestFencedBlockFallbackLabel(t *testing.T) {
	regions := Collect(FencedBlock("d2", WithFallbackLabel("Algorithm Diagram")).Scan(doc("```d2", "a", "```")))
	require.Len(t, regions, 1)
	assert.Equal(t, "Algorithm Diagram", regions[0].Context)

	regions = Collect(FencedBlock("d2").Scan(doc("```d2", "a", "```")))
	require.Len(t, regions, 1)
	assert.Equal(t, DefaultFallbackLabel, regions[0].Context)
}
