package service

import (
	"image"
	"image/color"
	"math"
	"math/rand"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/man-in-deep/sonic/internal/model"
)

// ApplyMediumEffects applies the medium's cosmetic filter pass. Unknown
// mediums pass through untouched; effects never fail a generation.
func ApplyMediumEffects(img image.Image, mediumStyle string, rng *rand.Rand) image.Image {
	switch mediumStyle {
	case "Watercolor":
		blurred := imaging.Blur(img, 0.5)
		texture := paperTexture(blurred.Bounds().Dx(), blurred.Bounds().Dy(), rng)
		return imaging.Overlay(blurred, texture, image.Pt(0, 0), 0.1)
	case "Oil Paint":
		return imaging.Sharpen(img, 2.0)
	case "Pencil Art":
		return pencilSketch(img)
	case "Pastels":
		return imaging.Blur(img, 1.0)
	default:
		return img
	}
}

// paperTexture builds a white canvas sprinkled with faint gray grain.
func paperTexture(width, height int, rng *rand.Rand) image.Image {
	texture := imaging.New(width, height, color.White)
	for i := 0; i < 1000; i++ {
		x := rng.Intn(width)
		y := rng.Intn(height)
		gray := uint8(230 + rng.Intn(16))
		texture.Set(x, y, color.NRGBA{R: gray, G: gray, B: gray, A: 255})
	}
	return texture
}

// pencilSketch runs the classic dodge pipeline: grayscale, invert, blur,
// then a 50% blend back onto the grayscale base.
func pencilSketch(img image.Image) image.Image {
	gray := imaging.Grayscale(img)
	inverted := imaging.Invert(gray)
	blurred := imaging.Blur(inverted, 2.0)
	return imaging.Overlay(gray, blurred, image.Pt(0, 0), 0.5)
}

// OverlayArtStrokes draws the decorative gold marks directly onto the
// generated image: energetic line marks for expressionist styles, subtle
// dots for realism, nothing otherwise.
func OverlayArtStrokes(img image.Image, artType model.ArtType, rng *rand.Rand) image.Image {
	name := string(artType)
	switch {
	case strings.Contains(name, "Expressionism") || strings.Contains(name, "Abstract"):
		return overlayExpressionistMarks(img, rng)
	case strings.Contains(name, "Realism"):
		return overlayRealisticDots(img, rng)
	default:
		return img
	}
}

var goldPalette = []model.RGB{
	{R: 255, G: 215, B: 0},
	{R: 255, G: 223, B: 0},
	{R: 255, G: 200, B: 0},
}

func overlayExpressionistMarks(img image.Image, rng *rand.Rand) image.Image {
	dc := gg.NewContextForImage(img)
	w, h := dc.Width(), dc.Height()
	dc.SetLineWidth(1)
	for i := 0; i < 50; i++ {
		x1 := float64(rng.Intn(w))
		y1 := float64(rng.Intn(h))
		length := float64(10 + rng.Intn(41))
		angle := rng.Float64() * 2 * math.Pi
		c := goldPalette[rng.Intn(len(goldPalette))]
		dc.SetRGB255(int(c.R), int(c.G), int(c.B))
		dc.DrawLine(x1, y1, x1+length*math.Cos(angle), y1+length*math.Sin(angle))
		dc.Stroke()
	}
	return dc.Image()
}

func overlayRealisticDots(img image.Image, rng *rand.Rand) image.Image {
	dc := gg.NewContextForImage(img)
	w, h := dc.Width(), dc.Height()
	for i := 0; i < 20; i++ {
		x := float64(rng.Intn(w))
		y := float64(rng.Intn(h))
		radius := float64(1 + rng.Intn(3))
		dc.SetRGBA255(255, 215, 0, 30)
		dc.DrawCircle(x, y, radius)
		dc.Fill()
	}
	return dc.Image()
}
