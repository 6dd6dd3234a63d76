package stroke

import "github.com/man-in-deep/sonic/internal/model"

var mediumTable = map[string]model.MediumProps{
	"Oil Paint":        {Viscosity: 0.8, Blending: 0.9, Drying: 0.1},
	"Watercolor":       {Viscosity: 0.3, Blending: 0.7, Drying: 0.8},
	"Pencil Art":       {Viscosity: 0.1, Blending: 0.4, Drying: 0.9},
	"Digital Painting": {Viscosity: 0.5, Blending: 1.0, Drying: 0.0},
}

// DefaultMedium is applied for any medium not in the table. Lookups never
// fail.
var DefaultMedium = model.MediumProps{Viscosity: 0.5, Blending: 0.7, Drying: 0.5}

func MediumPropsFor(mediumStyle string) model.MediumProps {
	if p, ok := mediumTable[mediumStyle]; ok {
		return p
	}
	return DefaultMedium
}

// ApplyMedium rescales every stroke by the medium's properties and attaches
// the property snapshot. Pressure and length are not clamped afterwards;
// values past their nominal ranges are accepted.
func ApplyMedium(strokes []model.Stroke, mediumStyle string) []model.Stroke {
	props := MediumPropsFor(mediumStyle)
	for i := range strokes {
		strokes[i].Medium = props
		strokes[i].Pressure *= props.Viscosity
		strokes[i].Length = int(float64(strokes[i].Length) * (1 + props.Blending*0.5))
	}
	return strokes
}
