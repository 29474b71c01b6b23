package app

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/bft-labs/assetship/internal/domain"
	"github.com/bft-labs/assetship/internal/identity"
	"github.com/bft-labs/assetship/internal/locate"
	"github.com/bft-labs/assetship/internal/ports"
)

// Migration kinds.
const (
	KindD2      = "d2"
	KindMermaid = "mermaid"
	KindImages  = "images"
	KindGiphy   = "giphy"
)

// Kinds lists every supported migration kind.
var Kinds = []string{KindD2, KindMermaid, KindImages, KindGiphy}

// Alt texts used when rewriting fenced blocks.
const (
	D2FallbackAlt = "Algorithm Diagram"
	MermaidAlt    = "Mermaid Diagram"
)

var giphyHost = regexp.MustCompile(`^media[0-9]*\.giphy\.com$`)

// Profile bundles everything that differs between migration kinds.
type Profile struct {
	Name    string
	Pattern locate.Pattern
	Namer   identity.Namer

	// Fence is the fence tag for fenced kinds
	Fence string

	// Filter is the target filter for inline kinds
	Filter locate.Filter

	// Alt returns the alt text for a fenced block replacement
	Alt func(r domain.Region) string

	Materializer ports.Materializer
}

// Deps are the collaborators a profile's materializer needs.
type Deps struct {
	// Renderer renders diagram sources for fenced kinds
	Renderer ports.Renderer

	// Encoder encodes rendered diagrams
	Encoder ports.Encoder

	// GraphicsEncoder encodes PNG sources and PhotoEncoder everything else
	GraphicsEncoder ports.Encoder
	PhotoEncoder    ports.Encoder

	Resolver ports.SourceResolver
	Uploader ports.Uploader

	// Extension is the encoded file extension, ".avif" or ".png"
	Extension string

	// KeyPrefix is prepended to <post>/<name> to form object keys
	KeyPrefix string

	// PublicURL is the public base URL of the bucket
	PublicURL string

	// DryRun plans URLs without rendering or uploading
	DryRun bool
}

// NewProfile builds the profile for kind.
func NewProfile(kind string, deps Deps) (*Profile, error) {
	ext := deps.Extension
	if ext == "" {
		ext = ".avif"
	}

	var p *Profile
	switch kind {
	case KindD2:
		p = &Profile{
			Name:    KindD2,
			Fence:   "d2",
			Pattern: locate.FencedBlock("d2", locate.WithFallbackLabel(D2FallbackAlt)),
			Namer: identity.Scheme{
				Generic:   "diagram",
				Sluggers:  []identity.Slugger{identity.DefaultLabel, identity.D2Keywords},
				Extension: identity.Fixed(ext),
			},
			Alt: func(r domain.Region) string { return r.Context },
		}
		p.Materializer = &diagramMaterializer{renderer: deps.Renderer, encoder: deps.Encoder, uploader: deps.Uploader, prefix: deps.KeyPrefix}

	case KindMermaid:
		p = &Profile{
			Name:    KindMermaid,
			Fence:   "mermaid",
			Pattern: locate.FencedBlock("mermaid", locate.WithFallbackLabel(MermaidAlt)),
			Namer: identity.Scheme{
				Generic:   "diagram",
				Sluggers:  []identity.Slugger{identity.MermaidType},
				Extension: identity.Fixed(ext),
			},
			Alt: func(domain.Region) string { return MermaidAlt },
		}
		p.Materializer = &diagramMaterializer{renderer: deps.Renderer, encoder: deps.Encoder, uploader: deps.Uploader, prefix: deps.KeyPrefix}

	case KindImages:
		filter := locate.NewImageFilter(deps.PublicURL)
		p = &Profile{
			Name:    KindImages,
			Filter:  filter,
			Pattern: locate.InlineReference(filter),
			Namer: identity.Scheme{
				Generic:   "image",
				Sluggers:  []identity.Slugger{identity.AltAndStem{Max: 30}},
				Extension: identity.KeepGIF(ext),
			},
		}
		p.Materializer = &imageMaterializer{
			resolver: deps.Resolver,
			graphics: deps.GraphicsEncoder,
			photo:    deps.PhotoEncoder,
			uploader: deps.Uploader,
			prefix:   deps.KeyPrefix,
		}

	case KindGiphy:
		filter := &locate.ImageFilter{HostPattern: giphyHost}
		p = &Profile{
			Name:    KindGiphy,
			Filter:  filter,
			Pattern: locate.InlineReference(filter, locate.WithSyntaxes(domain.SyntaxMarkdown)),
			Namer: identity.Scheme{
				Generic:   "giphy",
				Sluggers:  []identity.Slugger{identity.Alt{Max: 50}},
				Extension: identity.Fixed(".gif"),
			},
		}
		p.Materializer = &passthroughMaterializer{resolver: deps.Resolver, uploader: deps.Uploader, prefix: deps.KeyPrefix, contentType: "image/gif"}

	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", domain.ErrUnknownProfile, kind, strings.Join(Kinds, ", "))
	}

	if deps.DryRun {
		p.Materializer = &plannedMaterializer{publicURL: deps.PublicURL, prefix: deps.KeyPrefix}
	}
	return p, nil
}

// Fenced reports whether the profile rewrites whole lines.
func (p *Profile) Fenced() bool {
	return p.Pattern.Kind() == domain.FencedBlock
}

// Replacement returns the text that replaces a region: a Markdown image line
// for fenced blocks, or just the new URL for inline references.
func (p *Profile) Replacement(ref domain.AssetRef) string {
	if !p.Fenced() {
		return ref.URL
	}
	alt := ""
	if p.Alt != nil {
		alt = p.Alt(ref.Region)
	}
	return fmt.Sprintf("![%s](%s)", escapeAlt(alt), ref.URL)
}

var altEscaper = strings.NewReplacer("[", "", "]", "")

func escapeAlt(s string) string {
	return altEscaper.Replace(strings.TrimSpace(s))
}

// AssetKey is the object key for an asset of post.
func AssetKey(prefix, post, name string) string {
	return strings.TrimLeft(path.Join(prefix, post, name), "/")
}
