// Package stroke plans and renders the decorative stroke sequences layered
// over generated artwork. Planning is randomized but seedable; rendering is
// a pure function of the planned sequence.
package stroke

import (
	"image"
	"math"
	"math/rand"

	"github.com/man-in-deep/sonic/internal/model"
)

// Simulator plans stroke sequences for one generation request. It owns its
// random source, so two simulators built from the same seed plan identical
// sequences.
type Simulator struct {
	rng *rand.Rand
}

func NewSimulator(seed int64) *Simulator {
	return &Simulator{rng: rand.New(rand.NewSource(seed))}
}

// PlanStrokes builds the full decorated sequence for an image: style-specific
// sampling, medium scaling, then tunneling and entanglement.
func (s *Simulator) PlanStrokes(img image.Image, artType model.ArtType, mediumStyle string) []model.Stroke {
	var strokes []model.Stroke
	switch artType {
	case model.ArtImpressionism:
		strokes = s.planImpressionist(img)
	case model.ArtCubism:
		strokes = s.planCubist(img)
	case model.ArtRealism:
		strokes = s.planRealistic(img)
	default:
		strokes = s.planGeneral(img)
	}
	strokes = ApplyMedium(strokes, mediumStyle)
	return s.AddQuantumEffects(strokes)
}

// planImpressionist emits short strokes on a stride-10 grid with a 30%
// chance per grid point.
func (s *Simulator) planImpressionist(img image.Image) []model.Stroke {
	b := img.Bounds()
	strokes := []model.Stroke{}
	for y := 0; y < b.Dy(); y += 10 {
		for x := 0; x < b.Dx(); x += 10 {
			if s.rng.Float64() <= 0.7 {
				continue
			}
			strokes = append(strokes, model.Stroke{
				Type:         model.StrokeBrush,
				X:            x,
				Y:            y,
				Length:       s.randInt(5, 15),
				Angle:        s.rng.Float64() * 2 * math.Pi,
				Pressure:     s.randFloat(0.3, 0.8),
				Color:        colorAt(img, x, y),
				QuantumState: s.rng.Float64(),
			})
		}
	}
	return strokes
}

// planCubist partitions the image into 100px cells and emits four
// fixed-angle strokes per cell. Cubist strokes carry no sampled color.
func (s *Simulator) planCubist(img image.Image) []model.Stroke {
	b := img.Bounds()
	strokes := []model.Stroke{}
	angles := []float64{0, math.Pi / 4, math.Pi / 2, 3 * math.Pi / 4}
	const cell = 100
	for y := 0; y < b.Dy(); y += cell {
		for x := 0; x < b.Dx(); x += cell {
			for _, angle := range angles {
				strokes = append(strokes, model.Stroke{
					Type:         model.StrokeGeometric,
					X:            x,
					Y:            y,
					Length:       s.randInt(20, 50),
					Angle:        angle,
					Pressure:     0.5,
					QuantumState: s.rng.Float64(),
				})
			}
		}
	}
	return strokes
}

// planRealistic follows the local intensity gradient on a stride-5 grid with
// a 10% chance per grid point.
func (s *Simulator) planRealistic(img image.Image) []model.Stroke {
	b := img.Bounds()
	strokes := []model.Stroke{}
	for y := 0; y < b.Dy(); y += 5 {
		for x := 0; x < b.Dx(); x += 5 {
			if s.rng.Float64() <= 0.9 {
				continue
			}
			strokes = append(strokes, model.Stroke{
				Type:         model.StrokeSmooth,
				X:            x,
				Y:            y,
				Length:       s.randInt(10, 30),
				Angle:        s.gradientAngle(img, x, y),
				Pressure:     s.randFloat(0.2, 0.6),
				Color:        colorAt(img, x, y),
				QuantumState: s.rng.Float64(),
			})
		}
	}
	return strokes
}

func (s *Simulator) planGeneral(img image.Image) []model.Stroke {
	b := img.Bounds()
	strokes := []model.Stroke{}
	for y := 0; y < b.Dy(); y += 8 {
		for x := 0; x < b.Dx(); x += 8 {
			if s.rng.Float64() <= 0.8 {
				continue
			}
			strokes = append(strokes, model.Stroke{
				Type:         model.StrokeGeneral,
				X:            x,
				Y:            y,
				Length:       s.randInt(8, 25),
				Angle:        s.rng.Float64() * 2 * math.Pi,
				Pressure:     s.randFloat(0.4, 0.7),
				Color:        colorAt(img, x, y),
				QuantumState: s.rng.Float64(),
			})
		}
	}
	return strokes
}

// gradientAngle estimates stroke direction from a central difference of the
// red channel. Interior pixels with zero horizontal gradient fall back to
// π/2; image-edge pixels fall back to a fully random angle. The two fallback
// branches differ on purpose.
func (s *Simulator) gradientAngle(img image.Image, x, y int) float64 {
	b := img.Bounds()
	if x <= 0 || y <= 0 || x >= b.Dx()-1 || y >= b.Dy()-1 {
		return s.rng.Float64() * 2 * math.Pi
	}
	dy := float64(redAt(img, x, y+1)) - float64(redAt(img, x, y-1))
	dx := float64(redAt(img, x+1, y)) - float64(redAt(img, x-1, y))
	if dx == 0 {
		return math.Pi / 2
	}
	return math.Atan2(dy, dx)
}

// colorAt samples the pixel color, or mid-gray when the point falls outside
// the image.
func colorAt(img image.Image, x, y int) *model.RGB {
	b := img.Bounds()
	if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
		return &model.RGB{R: 128, G: 128, B: 128}
	}
	r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
	return &model.RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8)}
}

func redAt(img image.Image, x, y int) uint8 {
	b := img.Bounds()
	r, _, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
	return uint8(r >> 8)
}

// randInt returns a uniform integer in [lo, hi] inclusive.
func (s *Simulator) randInt(lo, hi int) int {
	return lo + s.rng.Intn(hi-lo+1)
}

func (s *Simulator) randFloat(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}
