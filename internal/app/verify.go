package app

import (
	"context"

	"github.com/bft-labs/assetship/internal/locate"
	"github.com/bft-labs/assetship/internal/markdown"
	"github.com/bft-labs/assetship/internal/ports"
)

// Remaining describes unmigrated content left in one post.
type Remaining struct {
	Post string

	// Located is what the locator would migrate
	Located int

	// Malformed counts unterminated blocks
	Malformed int

	// Parsed is the same count according to the Markdown parser
	Parsed int

	Err error
}

// Mismatch reports whether the locator and the parser disagree. The parser
// closes an unterminated fence at the end of the document, so malformed
// blocks count on its side.
func (r Remaining) Mismatch() bool {
	return r.Err == nil && r.Located+r.Malformed != r.Parsed
}

// Verify reports the regions still waiting for migration in each post. For
// fenced kinds the goldmark fence count is reported alongside; for inline
// kinds the parser sees only Markdown images, so HTML references can make
// the numbers differ.
func Verify(ctx context.Context, store ports.DocumentStore, profile *Profile, posts []string) ([]Remaining, error) {
	if len(posts) == 0 {
		var err error
		if posts, err = store.List(ctx); err != nil {
			return nil, err
		}
	}

	out := make([]Remaining, 0, len(posts))
	for _, post := range posts {
		rem := Remaining{Post: post}
		doc, err := store.Load(ctx, post)
		if err != nil {
			rem.Err = err
			out = append(out, rem)
			continue
		}

		regions, diags := locate.All(profile.Pattern, doc)
		rem.Located = len(regions)
		rem.Malformed = len(diags)

		_, body, err := markdown.Split([]byte(doc.Text))
		if err != nil {
			body = []byte(doc.Text)
		}
		inv := markdown.Inspect(body)
		if profile.Fenced() {
			rem.Parsed = inv.Fenced[profile.Fence]
		} else {
			for _, dest := range inv.Images {
				if profile.Filter == nil || profile.Filter.Accept(dest) {
					rem.Parsed++
				}
			}
		}
		out = append(out, rem)
	}
	return out, nil
}
