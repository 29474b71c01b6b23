package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bft-labs/assetship/internal/ports"
)

// AVIF encoder defaults.
const (
	DefaultAVIFQuality  = 85
	GraphicsAVIFQuality = 90
	DefaultAVIFSpeed    = 6
)

// AVIFEncoder converts PNG images to AVIF with the avifenc tool.
type AVIFEncoder struct {
	runner  ports.CommandRunner
	quality int
	speed   int
}

// NewAVIFEncoder creates an encoder. Zero quality or speed selects the
// defaults.
func NewAVIFEncoder(runner ports.CommandRunner, quality, speed int) *AVIFEncoder {
	if quality <= 0 {
		quality = DefaultAVIFQuality
	}
	if speed <= 0 {
		speed = DefaultAVIFSpeed
	}
	return &AVIFEncoder{runner: runner, quality: quality, speed: speed}
}

// WithQuality returns a copy of the encoder using quality.
func (e *AVIFEncoder) WithQuality(quality int) *AVIFEncoder {
	c := *e
	c.quality = quality
	return &c
}

// Encode implements ports.Encoder.
func (e *AVIFEncoder) Encode(ctx context.Context, png []byte) ([]byte, string, error) {
	dir, err := os.MkdirTemp("", "assetship-avif-*")
	if err != nil {
		return nil, "", err
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.avif")
	if err := os.WriteFile(in, png, 0o600); err != nil {
		return nil, "", err
	}

	_, err = e.runner.Run(ctx, "avifenc",
		"--speed", strconv.Itoa(e.speed),
		"-q", strconv.Itoa(e.quality),
		in, out,
	)
	if err != nil {
		return nil, "", fmt.Errorf("encode avif: %w", err)
	}

	data, err := readOutput(out)
	if err != nil {
		return nil, "", err
	}
	return data, "image/avif", nil
}

// PNGEncoder keeps images as PNG.
type PNGEncoder struct{}

// Encode implements ports.Encoder.
func (PNGEncoder) Encode(_ context.Context, png []byte) ([]byte, string, error) {
	return png, "image/png", nil
}
