package app

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/bft-labs/assetship/internal/domain"
	"github.com/bft-labs/assetship/internal/identity"
	"github.com/bft-labs/assetship/internal/ports"
)

// diagramMaterializer renders a fenced block, encodes it and uploads it.
type diagramMaterializer struct {
	renderer ports.Renderer
	encoder  ports.Encoder
	uploader ports.Uploader
	prefix   string
}

func (m *diagramMaterializer) Materialize(ctx context.Context, doc *domain.Document, r domain.Region, name string) (string, error) {
	png, err := m.renderer.Render(ctx, r.Payload)
	if err != nil {
		return "", err
	}
	data, contentType, err := m.encoder.Encode(ctx, png)
	if err != nil {
		return "", err
	}
	return m.uploader.Upload(ctx, AssetKey(m.prefix, doc.Post, name), data, contentType)
}

// imageMaterializer resolves an image reference and re-encodes it. GIFs are
// uploaded unchanged so animations survive.
type imageMaterializer struct {
	resolver ports.SourceResolver
	graphics ports.Encoder
	photo    ports.Encoder
	uploader ports.Uploader
	prefix   string
}

func (m *imageMaterializer) Materialize(ctx context.Context, doc *domain.Document, r domain.Region, name string) (string, error) {
	data, location, err := m.resolver.Resolve(ctx, doc, r.Payload)
	if err != nil {
		return "", err
	}
	key := AssetKey(m.prefix, doc.Post, name)

	if identity.IsGIF(r.Payload) {
		return m.uploader.Upload(ctx, key, data, "image/gif")
	}

	enc := m.photo
	if strings.EqualFold(path.Ext(strings.SplitN(location, "?", 2)[0]), ".png") {
		enc = m.graphics
	}
	encoded, contentType, err := enc.Encode(ctx, data)
	if err != nil {
		return "", fmt.Errorf("convert %s: %w", location, err)
	}
	return m.uploader.Upload(ctx, key, encoded, contentType)
}

// passthroughMaterializer downloads a resource and uploads it unchanged.
type passthroughMaterializer struct {
	resolver    ports.SourceResolver
	uploader    ports.Uploader
	prefix      string
	contentType string
}

func (m *passthroughMaterializer) Materialize(ctx context.Context, doc *domain.Document, r domain.Region, name string) (string, error) {
	data, _, err := m.resolver.Resolve(ctx, doc, r.Payload)
	if err != nil {
		return "", err
	}
	return m.uploader.Upload(ctx, AssetKey(m.prefix, doc.Post, name), data, m.contentType)
}

// plannedMaterializer computes the URL an asset would get without producing
// or uploading anything.
type plannedMaterializer struct {
	publicURL string
	prefix    string
}

func (m *plannedMaterializer) Materialize(_ context.Context, doc *domain.Document, _ domain.Region, name string) (string, error) {
	return strings.TrimRight(m.publicURL, "/") + "/" + AssetKey(m.prefix, doc.Post, name), nil
}
