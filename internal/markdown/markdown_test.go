package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	src := []byte("---\ntitle: Two Pointers\ndate: 2024-01-02\n---\n# Body\n")

	title, body, err := Split(src)
	require.NoError(t, err)
	assert.Equal(t, "Two Pointers", title)
	assert.Contains(t, string(body), "# Body")
	assert.NotContains(t, string(body), "title:")
}

func TestTitleWithoutFrontMatter(t *testing.T) {
	assert.Equal(t, "", Title([]byte("# Just text\n")))
}

func TestInspect(t *testing.T) {
	body := []byte("## A\n\n```d2\na -> b\n```\n\n```mermaid\ngraph TD\n```\n\n```d2\nc\n```\n\n![x](a.png) and ![y](https://i.imgur.com/b)\n\n```\nplain\n```\n")

	inv := Inspect(body)
	assert.Equal(t, 2, inv.Fenced["d2"])
	assert.Equal(t, 1, inv.Fenced["mermaid"])
	assert.Len(t, inv.Fenced, 2)
	assert.Equal(t, []string{"a.png", "https://i.imgur.com/b"}, inv.Images)
}
