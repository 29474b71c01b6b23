package render

import (
	"context"

	"github.com/bft-labs/assetship/internal/ports"
)

// Framed wraps a renderer so every rendered image is framed.
type Framed struct {
	Renderer ports.Renderer
	Options  FrameOptions
}

// Render implements ports.Renderer.
func (f Framed) Render(ctx context.Context, source string) ([]byte, error) {
	png, err := f.Renderer.Render(ctx, source)
	if err != nil {
		return nil, err
	}
	return Frame(png, f.Options)
}

// Flattened wraps an encoder so any decodable input image is first flattened
// onto white and converted to PNG.
type Flattened struct {
	Encoder ports.Encoder
}

// Encode implements ports.Encoder.
func (f Flattened) Encode(ctx context.Context, src []byte) ([]byte, string, error) {
	png, err := Flatten(src)
	if err != nil {
		return nil, "", err
	}
	return f.Encoder.Encode(ctx, png)
}
