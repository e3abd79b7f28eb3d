// Command textplane-demo renders one line of an editor text plane (line
// background, selection, glyphs, an emoji and a caret) with the CPU
// rasterizer and writes it as PNG.
package main

import (
	"flag"
	"image"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/textplane"
	"github.com/gogpu/textplane/atlas"
	"github.com/gogpu/textplane/raster"
)

const (
	fontSize   = 20
	lineHeight = 28
	padding    = 16
)

func main() {
	var (
		width   = flag.Int("width", 480, "surface width in points")
		height  = flag.Int("height", 60, "surface height in points")
		scale   = flag.Float64("scale", 2, "backing scale factor")
		output  = flag.String("output", "textplane.png", "output file")
		text    = flag.String("text", "Hello, text plane \U0001F600 done", "line to render")
		verbose = flag.Bool("v", false, "log pipeline activity")
	)
	flag.Parse()

	if *verbose {
		textplane.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}
	if *width <= 0 || *height <= 0 || *scale <= 0 {
		log.Fatalf("invalid surface %dx%d at scale %v", *width, *height, *scale)
	}

	img, err := render(float32(*width), float32(*height), float32(*scale), *text)
	if err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	if err := savePNG(*output, img); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Demo saved to %s (%dx%d)\n", *output, img.Bounds().Dx(), img.Bounds().Dy())
}

func render(width, height, scale float32, text string) (*image.RGBA, error) {
	face, err := atlas.NewFaceSource(goregular.TTF, fontSize)
	if err != nil {
		return nil, err
	}
	defer face.Close()
	ascent, _ := face.Metrics()

	emoji := atlas.NewBitmapSource(fontSize, float64(ascent))
	emoji.Add(0x1F600, smiley(64))
	src := atlas.MultiSource{Text: face, Emoji: emoji}

	glyphs, err := atlas.New(512, 512, 1)
	if err != nil {
		return nil, err
	}

	fg := mustColor("#d4d4d4")
	b := textplane.NewBatch()

	lineTop := float32(padding)
	baseline := lineTop + (lineHeight+ascent)/2 - 2

	selStart, selEnd := selection(face, text, scale)

	spans := []textplane.Span{
		{Start: 0, End: width, ARGB: 0xff1e1e1e},
		{Start: padding + selStart, End: padding + selEnd, ARGB: 0xff264f78},
	}
	if err := b.AddLineBackground(0, lineTop, lineHeight, spans); err != nil {
		return nil, err
	}
	end, err := glyphs.EmitRun(b, src, face, atlas.Run{X: padding, Y: baseline, Text: text, Color: fg, Scale: scale})
	if err != nil {
		return nil, err
	}
	if err := b.AddSolidRect(textplane.Rect{X: end + 1, Y: lineTop + 4, W: 2, H: lineHeight - 8}, mustColor("#aeafad")); err != nil {
		return nil, err
	}

	u, err := textplane.SurfaceUniforms(width, height)
	if err != nil {
		return nil, err
	}
	target := image.NewRGBA(image.Rect(0, 0, int(math.Ceil(float64(width*scale))), int(math.Ceil(float64(height*scale)))))
	r := raster.New(target, glyphs.Image())
	r.Clear(mustColor("#252526"))
	if err := r.Draw(b.Vertices(), u); err != nil {
		return nil, err
	}
	textplane.Logger().Info("demo: frame rendered",
		"quads", b.QuadCount(), "glyphs", glyphs.Len(), "atlas_utilization", glyphs.Utilization())
	return target, nil
}

// selection returns the span of the second word of text, relative to the
// line start.
func selection(face *atlas.FaceSource, text string, scale float32) (start, end float32) {
	x, word, inWord := float32(0), 0, false
	for _, r := range text {
		space := r == ' '
		if !space && !inWord {
			word++
			if word == 2 {
				start = x
			}
		}
		inWord = !space
		adv, _ := face.Advance(r, scale)
		x += adv
		if word == 2 && inWord {
			end = x
		}
	}
	return start, end
}

func mustColor(s string) [4]float32 {
	c, err := textplane.ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// smiley draws a simple emoji bitmap.
func smiley(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	face := color.RGBA{R: 0xff, G: 0xcc, B: 0x33, A: 0xff}
	dark := color.RGBA{R: 0x66, G: 0x44, B: 0x11, A: 0xff}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)+0.5-c, float64(y)+0.5-c
			d := math.Hypot(dx, dy)
			switch {
			case d > c:
			case math.Hypot(dx+c*0.35, dy+c*0.25) < c*0.12, math.Hypot(dx-c*0.35, dy+c*0.25) < c*0.12:
				img.SetRGBA(x, y, dark)
			case dy > 0 && math.Abs(d-c*0.55) < c*0.07:
				img.SetRGBA(x, y, dark)
			default:
				img.SetRGBA(x, y, face)
			}
		}
	}
	return img
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
