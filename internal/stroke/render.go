package stroke

import (
	"image"
	"math"
	"sort"

	"github.com/fogleman/gg"

	"github.com/man-in-deep/sonic/internal/model"
)

// Gold is the fallback stroke color for strokes without a sampled color.
var Gold = model.RGB{R: 255, G: 215, B: 0}

// Render draws the sequence onto a fresh white canvas of the given size.
// Strokes render in ascending pressure order (stable, so ties keep planning
// order). Strokes with non-finite geometry are skipped; rendering never
// fails.
func Render(width, height int, strokes []model.Stroke) image.Image {
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetLineWidth(2)

	ordered := make([]model.Stroke, len(strokes))
	copy(ordered, strokes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Pressure < ordered[j].Pressure
	})

	for _, st := range ordered {
		x1 := float64(st.X)
		y1 := float64(st.Y)
		x2 := x1 + float64(st.Length)*math.Cos(st.Angle)
		y2 := y1 + float64(st.Length)*math.Sin(st.Angle)
		if !finite(x1) || !finite(y1) || !finite(x2) || !finite(y2) {
			continue
		}
		c := Gold
		if st.Color != nil {
			c = *st.Color
		}
		dc.SetRGB255(int(c.R), int(c.G), int(c.B))
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
	}
	return dc.Image()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
