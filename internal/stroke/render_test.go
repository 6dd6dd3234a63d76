package stroke

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/man-in-deep/sonic/internal/model"
)

func TestRenderSizeAndBackground(t *testing.T) {
	img := Render(64, 48, nil)
	b := img.Bounds()
	if b.Dx() != 64 || b.Dy() != 48 {
		t.Fatalf("canvas %dx%d, want 64x48", b.Dx(), b.Dy())
	}
	r, g, bl, _ := img.At(0, 0).RGBA()
	if r>>8 != 255 || g>>8 != 255 || bl>>8 != 255 {
		t.Fatalf("background not white: %d %d %d", r>>8, g>>8, bl>>8)
	}
}

func TestRenderSkipsNonFiniteStroke(t *testing.T) {
	strokes := []model.Stroke{
		{X: 10, Y: 10, Length: 20, Angle: math.NaN(), Pressure: 0.5},
		{X: 5, Y: 5, Length: 10, Angle: 0, Pressure: 0.9, Color: &model.RGB{R: 10, G: 20, B: 30}},
		{X: 0, Y: 0, Length: 5, Angle: math.Inf(1), Pressure: 0.1},
	}
	img := Render(32, 32, strokes)
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 32 {
		t.Fatalf("unexpected canvas size %v", img.Bounds())
	}
	// The finite stroke still lands on the canvas.
	if !hasNonWhitePixel(img) {
		t.Fatal("finite stroke was not drawn")
	}
}

func TestRenderDefaultsToGold(t *testing.T) {
	strokes := []model.Stroke{{X: 2, Y: 16, Length: 20, Angle: 0, Pressure: 0.5}}
	img := Render(32, 32, strokes)
	found := false
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y && !found; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if uint8(r>>8) == Gold.R && uint8(g>>8) == Gold.G && uint8(bl>>8) == Gold.B {
				found = true
				break
			}
		}
	}
	if !found {
		t.Fatal("no gold pixel drawn for colorless stroke")
	}
}

func TestRenderOrderIsStableByPressure(t *testing.T) {
	red := model.RGB{R: 255}
	blue := model.RGB{B: 255}
	// Same geometry, same pressure: the later stroke must win, proving the
	// sort keeps planning order for ties.
	strokes := []model.Stroke{
		{X: 0, Y: 8, Length: 16, Angle: 0, Pressure: 0.5, Color: &red},
		{X: 0, Y: 8, Length: 16, Angle: 0, Pressure: 0.5, Color: &blue},
	}
	img := Render(16, 16, strokes)
	r, _, bl, _ := img.At(8, 8).RGBA()
	if uint8(bl>>8) != 255 || uint8(r>>8) == 255 {
		t.Fatalf("tie not resolved by planning order: r=%d b=%d", r>>8, bl>>8)
	}
}

func TestRenderTunneledDrawnOpaque(t *testing.T) {
	c := model.RGB{R: 200, G: 10, B: 10}
	strokes := []model.Stroke{{X: 0, Y: 8, Length: 16, Angle: 0, Pressure: 0.5, Color: &c, Tunneled: true}}
	img := Render(16, 16, strokes)
	r, g, bl, _ := img.At(8, 8).RGBA()
	got := color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8)}
	if got.R != 200 || got.G != 10 || got.B != 10 {
		t.Fatalf("tunneled stroke not drawn at full opacity: %+v", got)
	}
}

func hasNonWhitePixel(img image.Image) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r>>8 != 255 || g>>8 != 255 || bl>>8 != 255 {
				return true
			}
		}
	}
	return false
}
