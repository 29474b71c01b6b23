// Package markdown inspects post sources with a real Markdown parser. It is
// used to cross-check the line based locator and to read post metadata.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

type frontMatter struct {
	Title string `yaml:"title" toml:"title" json:"title"`
}

// Split separates the front matter from the body and returns the title.
// Sources without front matter return an empty title and the whole source.
func Split(source []byte) (string, []byte, error) {
	var meta frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return "", nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return meta.Title, body, nil
}

// Title returns the front matter title, or "" when there is none.
func Title(source []byte) string {
	title, _, err := Split(source)
	if err != nil {
		return ""
	}
	return title
}

// Inventory counts the migratable constructs goldmark sees in a post body.
type Inventory struct {
	// Fenced maps a fence language to the number of blocks using it
	Fenced map[string]int

	// Images lists the destinations of Markdown image nodes in order
	Images []string
}

// Inspect parses body and builds its inventory.
func Inspect(body []byte) Inventory {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	root := md.Parser().Parse(text.NewReader(body))

	inv := Inventory{Fenced: make(map[string]int)}
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.FencedCodeBlock:
			if lang := node.Language(body); len(lang) > 0 {
				inv.Fenced[string(lang)]++
			}
		case *ast.Image:
			inv.Images = append(inv.Images, string(node.Destination))
		}
		return ast.WalkContinue, nil
	})
	return inv
}
