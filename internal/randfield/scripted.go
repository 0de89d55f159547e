package randfield

// Scripted is a deterministic Source that replays fixed values.
// Ints are reduced into the requested range, floats are fractions in [0, 1)
// scaled into the range. Each list cycles when exhausted; empty lists yield
// the lower bound (or false).
type Scripted struct {
	Ints   []int
	Floats []float64
	Bools  []bool

	ii, fi, bi int
}

func (s *Scripted) IntN(lo, hi int) int {
	if len(s.Ints) == 0 {
		return lo
	}
	v := s.Ints[s.ii%len(s.Ints)]
	s.ii++
	span := hi - lo
	v %= span
	if v < 0 {
		v += span
	}
	return lo + v
}

func (s *Scripted) FloatIn(lo, hi float64) float64 {
	if len(s.Floats) == 0 {
		return lo
	}
	f := s.Floats[s.fi%len(s.Floats)]
	s.fi++
	return lo + f*(hi-lo)
}

func (s *Scripted) Bool() bool {
	if len(s.Bools) == 0 {
		return false
	}
	b := s.Bools[s.bi%len(s.Bools)]
	s.bi++
	return b
}

// Reset rewinds all three cursors.
func (s *Scripted) Reset() {
	s.ii, s.fi, s.bi = 0, 0, 0
}
