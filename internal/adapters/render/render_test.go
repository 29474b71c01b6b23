package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeRunner records invocations and writes output for known tools.
type fakeRunner struct {
	calls  [][]string
	output []byte
	images string
	err    error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.err != nil {
		return nil, f.err
	}
	switch {
	case name == "docker" && len(args) > 0 && args[0] == "images":
		return []byte(f.images), nil
	case name == "docker" && len(args) > 0 && args[0] == "run":
		var hostDir string
		for i, a := range args {
			if a == "-v" {
				hostDir = strings.TrimSuffix(args[i+1], ":/workspace")
			}
		}
		out := strings.Replace(args[len(args)-1], "/workspace", hostDir, 1)
		return nil, os.WriteFile(out, f.output, 0o644)
	case name == "d2", name == "avifenc":
		return nil, os.WriteFile(args[len(args)-1], f.output, 0o644)
	case name == "mmdc":
		for i, a := range args {
			if a == "-o" {
				return nil, os.WriteFile(args[i+1], f.output, 0o644)
			}
		}
	}
	return nil, nil
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	return "/usr/bin/" + name, nil
}

func TestD2LocalRender(t *testing.T) {
	r := &fakeRunner{output: []byte("png")}
	got, err := NewD2Local(r).Render(context.Background(), "a -> b")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if string(got) != "png" {
		t.Errorf("Render() = %q", got)
	}

	args := strings.Join(r.calls[0], " ")
	if !strings.HasPrefix(args, "d2 --theme 0 --pad 20 --scale 2 ") {
		t.Errorf("unexpected command: %s", args)
	}
	if _, err := os.Stat(filepath.Dir(r.calls[0][len(r.calls[0])-1])); !os.IsNotExist(err) {
		t.Error("temporary directory not removed")
	}
}

func TestD2LocalEmptyOutput(t *testing.T) {
	r := &fakeRunner{}
	if _, err := NewD2Local(r).Render(context.Background(), "x"); err == nil {
		t.Error("expected error for empty output")
	}
}

func TestD2DockerPullsOnce(t *testing.T) {
	r := &fakeRunner{output: []byte("png")}
	d := NewD2Docker(r, "")

	for i := 0; i < 2; i++ {
		if _, err := d.Render(context.Background(), "a -> b"); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
	}

	var pulls, lists, runs int
	for _, c := range r.calls {
		switch c[1] {
		case "pull":
			pulls++
		case "images":
			lists++
		case "run":
			runs++
			if !strings.Contains(strings.Join(c, " "), DefaultD2Image+" --theme 1 --pad 0 --scale 2") {
				t.Errorf("unexpected run command: %v", c)
			}
		}
	}
	if pulls != 1 || lists != 1 || runs != 2 {
		t.Errorf("pulls=%d lists=%d runs=%d", pulls, lists, runs)
	}
}

func TestD2DockerImagePresent(t *testing.T) {
	r := &fakeRunner{output: []byte("png"), images: "abc123\n"}
	if _, err := NewD2Docker(r, "custom/d2").Render(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}
	for _, c := range r.calls {
		if c[1] == "pull" {
			t.Error("image pulled although present")
		}
	}
}

func TestMermaidRender(t *testing.T) {
	r := &fakeRunner{output: []byte("png")}
	if _, err := NewMermaid(r).Render(context.Background(), "graph TD"); err != nil {
		t.Fatal(err)
	}
	args := strings.Join(r.calls[0], " ")
	if !strings.Contains(args, "-t neutral -b transparent --scale 2") {
		t.Errorf("unexpected command: %s", args)
	}
}

func TestRenderError(t *testing.T) {
	r := &fakeRunner{err: errors.New("exit status 1")}
	if _, err := NewMermaid(r).Render(context.Background(), "graph TD"); err == nil {
		t.Error("expected error")
	}
}

func TestAVIFEncoder(t *testing.T) {
	r := &fakeRunner{output: []byte("avif")}
	data, ct, err := NewAVIFEncoder(r, 0, 0).WithQuality(GraphicsAVIFQuality).Encode(context.Background(), []byte("png"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "avif" || ct != "image/avif" {
		t.Errorf("Encode() = %q, %q", data, ct)
	}
	if got := strings.Join(r.calls[0][:5], " "); got != "avifenc --speed 6 -q 90" {
		t.Errorf("command = %q", got)
	}
}

func TestPNGEncoder(t *testing.T) {
	data, ct, err := PNGEncoder{}.Encode(context.Background(), []byte("x"))
	if err != nil || string(data) != "x" || ct != "image/png" {
		t.Errorf("Encode() = %q, %q, %v", data, ct, err)
	}
}

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestFrame(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	out, err := Frame(solidPNG(t, 10, 6, red), DiagramFrame)
	if err != nil {
		t.Fatalf("Frame() error = %v", err)
	}

	img := decode(t, out)
	if got := img.Bounds().Size(); got != (image.Point{X: 50, Y: 46}) {
		t.Fatalf("size = %v, want 50x46", got)
	}

	r, g, b, _ := img.At(0, 0).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("corner = %v, want white", img.At(0, 0))
	}
	r, g, b, _ = img.At(25, 23).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("center = %v, want red", img.At(25, 23))
	}
}

func TestFrameBorder(t *testing.T) {
	out, err := Frame(solidPNG(t, 4, 4, color.NRGBA{A: 0}), BorderedFrame)
	if err != nil {
		t.Fatal(err)
	}
	img := decode(t, out)

	// Middle of the top edge lies on the border ring.
	r, _, _, _ := img.At(img.Bounds().Dx()/2, 0).RGBA()
	if r>>8 == 255 {
		t.Error("border not drawn")
	}
	r, _, _, _ = img.At(img.Bounds().Dx()/2, img.Bounds().Dy()/2).RGBA()
	if r>>8 != 255 {
		t.Error("interior should stay white")
	}
}

func TestFlatten(t *testing.T) {
	out, err := Flatten(solidPNG(t, 3, 3, color.NRGBA{R: 0, G: 0, B: 255, A: 0}))
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, a := decode(t, out).At(1, 1).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 || a>>8 != 255 {
		t.Errorf("pixel = %d,%d,%d,%d, want opaque white", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestFrameRejectsGarbage(t *testing.T) {
	if _, err := Frame([]byte("not an image"), DiagramFrame); err == nil {
		t.Error("expected decode error")
	}
}

type staticRenderer []byte

func (s staticRenderer) Render(context.Context, string) ([]byte, error) { return s, nil }

func TestFramedRenderer(t *testing.T) {
	f := Framed{Renderer: staticRenderer(solidPNG(t, 2, 2, color.Black)), Options: DiagramFrame}
	out, err := f.Render(context.Background(), "x")
	if err != nil {
		t.Fatal(err)
	}
	if got := decode(t, out).Bounds().Dx(); got != 42 {
		t.Errorf("width = %d, want 42", got)
	}
}

func TestFlattenedEncoder(t *testing.T) {
	out, ct, err := Flattened{Encoder: PNGEncoder{}}.Encode(context.Background(), solidPNG(t, 2, 2, color.NRGBA{A: 0}))
	if err != nil {
		t.Fatal(err)
	}
	if ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	if _, _, _, a := decode(t, out).At(0, 0).RGBA(); a>>8 != 255 {
		t.Error("flattened image should be opaque")
	}
}
