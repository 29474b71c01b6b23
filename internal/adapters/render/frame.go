package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	// Decoders for the image formats blog posts reference.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// FrameOptions controls how a rendered diagram is framed.
type FrameOptions struct {
	// Padding is added on every side, in pixels
	Padding int

	// Radius rounds the outer corners, in pixels
	Radius int

	// Border draws a thin light gray outline along the rounded edge
	Border bool
}

// DiagramFrame is the frame applied to D2 diagrams.
var DiagramFrame = FrameOptions{Padding: 20, Radius: 12}

// BorderedFrame is the frame applied to Mermaid diagrams.
var BorderedFrame = FrameOptions{Padding: 20, Radius: 12, Border: true}

var borderColor = color.NRGBA{R: 200, G: 200, B: 200, A: 100}

const borderWidth = 2

// Frame pads an image, rounds its corners and flattens it onto white.
// The result is PNG encoded.
func Frame(src []byte, opts FrameOptions) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	w := b.Dx() + 2*opts.Padding
	h := b.Dy() + 2*opts.Padding
	rect := image.Rect(0, 0, w, h)

	padded := image.NewNRGBA(rect)
	draw.Draw(padded, image.Rect(opts.Padding, opts.Padding, w-opts.Padding, h-opts.Padding), img, b.Min, draw.Over)

	if opts.Border {
		outline := image.NewUniform(borderColor)
		draw.DrawMask(padded, rect, outline, image.Point{}, borderMask(w, h, opts.Radius), image.Point{}, draw.Over)
	}

	out := image.NewRGBA(rect)
	draw.Draw(out, rect, image.White, image.Point{}, draw.Src)
	draw.DrawMask(out, rect, padded, image.Point{}, roundedMask(w, h, opts.Radius, 0), image.Point{}, draw.Over)

	return encodePNG(out)
}

// Flatten composites an image with transparency onto white and returns PNG.
func Flatten(src []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	rect := image.Rect(0, 0, b.Dx(), b.Dy())

	out := image.NewRGBA(rect)
	draw.Draw(out, rect, image.White, image.Point{}, draw.Src)
	draw.Draw(out, rect, img, b.Min, draw.Over)
	return encodePNG(out)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// roundedMask returns an alpha mask covering a w×h rectangle inset by inset
// pixels with corners of radius r. Edge pixels are antialiased.
func roundedMask(w, h, r, inset int) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mask.SetAlpha(x, y, color.Alpha{A: coverage(x, y, w, h, r, inset)})
		}
	}
	return mask
}

// borderMask covers the ring between the outer rounded edge and the same
// shape inset by borderWidth.
func borderMask(w, h, r int) *image.Alpha {
	outer := roundedMask(w, h, r, 0)
	inner := roundedMask(w, h, max(r-borderWidth, 0), borderWidth)
	for i := range outer.Pix {
		if outer.Pix[i] > inner.Pix[i] {
			outer.Pix[i] -= inner.Pix[i]
		} else {
			outer.Pix[i] = 0
		}
	}
	return outer
}

func coverage(x, y, w, h, r, inset int) uint8 {
	left, top := inset, inset
	right, bottom := w-inset, h-inset
	if x < left || y < top || x >= right || y >= bottom {
		return 0
	}
	if r <= 0 {
		return 255
	}

	px, py := float64(x)+0.5, float64(y)+0.5
	var cx, cy float64
	switch {
	case x < left+r:
		cx = float64(left + r)
	case x >= right-r:
		cx = float64(right - r)
	default:
		return 255
	}
	switch {
	case y < top+r:
		cy = float64(top + r)
	case y >= bottom-r:
		cy = float64(bottom - r)
	default:
		return 255
	}

	d := math.Hypot(px-cx, py-cy)
	a := float64(r) - d + 0.5
	switch {
	case a <= 0:
		return 0
	case a >= 1:
		return 255
	}
	return uint8(a * 255)
}
