package stroke

import (
	"testing"

	"github.com/man-in-deep/sonic/internal/model"
)

func baseStrokes(n int) []model.Stroke {
	out := make([]model.Stroke, n)
	for i := range out {
		out[i] = model.Stroke{Type: model.StrokeGeneral, X: i * 10, Y: i * 10, Length: 10, Pressure: 0.5}
	}
	return out
}

func TestTunnelAddsExactCount(t *testing.T) {
	for _, n := range []int{0, 5, 10, 37, 100} {
		sim := NewSimulator(int64(n))
		out := sim.tunnel(baseStrokes(n))
		want := n + n/10
		if len(out) != want {
			t.Fatalf("n=%d: got %d strokes, want %d", n, len(out), want)
		}
		for i := n; i < len(out); i++ {
			st := out[i]
			if !st.Tunneled {
				t.Fatalf("n=%d: appended stroke %d not marked tunneled", n, i)
			}
			if st.QuantumState < 0.8 || st.QuantumState > 1.0 {
				t.Fatalf("n=%d: quantum state %v out of [0.8,1.0]", n, st.QuantumState)
			}
		}
		for i := 0; i < n; i++ {
			if out[i].Tunneled {
				t.Fatalf("n=%d: original stroke %d marked tunneled", n, i)
			}
		}
	}
}

func TestTunnelOffsetBounds(t *testing.T) {
	sim := NewSimulator(8)
	in := baseStrokes(50)
	out := sim.tunnel(in)
	for i := 50; i < len(out); i++ {
		st := out[i]
		// Clones sit within ±50 of some source stroke on each axis. Sources
		// lie on the (i*10, i*10) diagonal, which bounds the clone range.
		if st.X < -50 || st.X > 49*10+50 {
			t.Fatalf("clone %d: x=%d outside jitter envelope", i, st.X)
		}
		if st.Y < -50 || st.Y > 49*10+50 {
			t.Fatalf("clone %d: y=%d outside jitter envelope", i, st.Y)
		}
	}
}

func TestEntanglementSymmetry(t *testing.T) {
	strokes := entangle(baseStrokes(23))
	pairs := 0
	for i, st := range strokes {
		if st.EntangledWith == nil {
			continue
		}
		j := *st.EntangledWith
		if j < 0 || j >= len(strokes) {
			t.Fatalf("stroke %d: partner %d out of range", i, j)
		}
		if strokes[j].EntangledWith == nil || *strokes[j].EntangledWith != i {
			t.Fatalf("stroke %d -> %d not symmetric", i, j)
		}
		pairs++
	}
	// Indices 0,5,10,15,20 each pair with the next index: 5 pairs, 10 ends.
	if pairs != 10 {
		t.Fatalf("got %d linked strokes, want 10", pairs)
	}
}

func TestEntanglementWalksInStepsOfFive(t *testing.T) {
	strokes := entangle(baseStrokes(12))
	for i, st := range strokes {
		linked := st.EntangledWith != nil
		wantLinked := i%5 == 0 || i%5 == 1
		// Index 11 would pair with 10's walk only if 10+1 is in range; it is.
		if linked != wantLinked {
			t.Fatalf("stroke %d: linked=%v, want %v", i, linked, wantLinked)
		}
	}
}

func TestEntangleSingleStroke(t *testing.T) {
	strokes := entangle(baseStrokes(1))
	if strokes[0].EntangledWith != nil {
		t.Fatal("lone stroke must stay unlinked")
	}
}
