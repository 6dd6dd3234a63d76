package stroke

import "github.com/man-in-deep/sonic/internal/model"

// AddQuantumEffects decorates a planned sequence with the two cosmetic
// effects: tunneling first, then entanglement.
func (s *Simulator) AddQuantumEffects(strokes []model.Stroke) []model.Stroke {
	strokes = s.tunnel(strokes)
	return entangle(strokes)
}

// tunnel clones floor(0.1*N) strokes at jittered positions. Each clone is
// picked from the growing slice, so earlier clones can themselves be
// re-tunneled.
func (s *Simulator) tunnel(strokes []model.Stroke) []model.Stroke {
	count := int(float64(len(strokes)) * 0.1)
	for i := 0; i < count; i++ {
		if len(strokes) == 0 {
			break
		}
		clone := strokes[s.rng.Intn(len(strokes))]
		clone.X += s.randInt(-50, 50)
		clone.Y += s.randInt(-50, 50)
		clone.QuantumState = s.randFloat(0.8, 1.0)
		clone.Tunneled = true
		clone.EntangledWith = nil
		strokes = append(strokes, clone)
	}
	return strokes
}

// entangle links index pairs (i, i+1) every 5 indices. The linkage is
// metadata only; rendering ignores it.
func entangle(strokes []model.Stroke) []model.Stroke {
	for i := 0; i < len(strokes); i += 5 {
		if i+1 >= len(strokes) {
			continue
		}
		a, b := i, i+1
		strokes[a].EntangledWith = &b
		strokes[b].EntangledWith = &a
	}
	return strokes
}
