package fdcp

// ElementPropagator enforces array[idx] = value for a fixed array of
// integer constants (spec §4.E "Element"): it filters idx to indices whose
// array entry still intersects value's domain, filters value to the union
// of array entries over live indices, and — once idx is fixed — forces
// value to equal array[idx] exactly.
type ElementPropagator struct {
	Array []int64
	Idx   View
	Value View
}

func (p *ElementPropagator) Name() string { return "element" }

func (p *ElementPropagator) Register(s *Store, idx int) {
	mask := EventBound | EventDomain | EventFix
	s.Watch(p.Idx.Base(), idx, mask)
	s.Watch(p.Value.Base(), idx, mask)
}

func (p *ElementPropagator) Prune(s *Store) error {
	lo, hi := int(p.Idx.Min().AsInt()), int(p.Idx.Max().AsInt())
	if lo < 0 {
		lo = 0
	}
	if hi > len(p.Array)-1 {
		hi = len(p.Array) - 1
	}
	if lo > hi {
		return fail
	}

	// Filter idx: remove i if array[i] is not in value's domain, or if i is
	// out of the index view's representable range.
	for i := lo; i <= hi; i++ {
		if !p.Idx.Contains(Int(int64(i))) {
			continue
		}
		if !p.Value.Contains(Int(p.Array[i])) {
			if ev, ok := p.Idx.Remove(Int(int64(i))); !ok {
				return fail
			} else if ev != EventNone {
				s.wake(p.Idx.Base(), ev)
			}
		}
	}
	if ev, ok := p.Idx.SetMin(Int(int64(lo))); !ok {
		return fail
	} else {
		s.wake(p.Idx.Base(), ev)
	}
	if ev, ok := p.Idx.SetMax(Int(int64(hi))); !ok {
		return fail
	} else {
		s.wake(p.Idx.Base(), ev)
	}

	// Filter value to the union of array[i] over live i.
	newLo, newHi := int64(1), int64(0)
	first := true
	supported := map[int64]bool{}
	for i := lo; i <= hi; i++ {
		if !p.Idx.Contains(Int(int64(i))) {
			continue
		}
		a := p.Array[i]
		supported[a] = true
		if first {
			newLo, newHi, first = a, a, false
			continue
		}
		if a < newLo {
			newLo = a
		}
		if a > newHi {
			newHi = a
		}
	}
	if first {
		return fail // idx domain emptied entirely
	}
	if ev, ok := p.Value.SetMin(Int(newLo)); !ok {
		return fail
	} else {
		s.wake(p.Value.Base(), ev)
	}
	if ev, ok := p.Value.SetMax(Int(newHi)); !ok {
		return fail
	} else {
		s.wake(p.Value.Base(), ev)
	}
	var drop []Value
	p.Value.ForEach(func(v Value) bool {
		if !supported[v.AsInt()] {
			drop = append(drop, v)
		}
		return true
	})
	for _, v := range drop {
		if ev, ok := p.Value.Remove(v); !ok {
			return fail
		} else if ev != EventNone {
			s.wake(p.Value.Base(), ev)
		}
	}

	if p.Idx.IsFixed() {
		fixedIdx := int(p.Idx.Min().AsInt())
		if ev, ok := p.Value.Fix(Int(p.Array[fixedIdx])); !ok {
			return fail
		} else {
			s.wake(p.Value.Base(), ev)
		}
	}
	return nil
}

// NewElement builds a 1D element constraint array[idx] = value.
func NewElement(array []int64, idx, value View) *ElementPropagator {
	return &ElementPropagator{Array: array, Idx: idx, Value: value}
}

// NewElement2D builds array2[row][col] = value by flattening to a 1D
// element over row*cols+col, with a linear constraint tying idxFlat to
// row and col (spec §4.E "Element 2D/3D": flattened to 1D element with a
// linear index constraint idx_flat = row·cols + col).
func NewElement2D(flat []int64, cols int64, row, col, idxFlat, value View) (*ElementPropagator, *LinearPropagator) {
	elem := NewElement(flat, idxFlat, value)
	// idxFlat - cols*row - col = 0
	lin := NewLinear([]View{idxFlat, row, col}, []int64{1, -cols, -1}, LinearEQ, 0)
	return elem, lin
}

// NewElement3D flattens flat[i][j][k] = value (given in row-major order) the
// same way: idx_flat = i*rows2*cols + j*cols + k.
func NewElement3D(flat []int64, rows2, cols int64, i, j, k, idxFlat, value View) (*ElementPropagator, *LinearPropagator) {
	elem := NewElement(flat, idxFlat, value)
	lin := NewLinear([]View{idxFlat, i, j, k}, []int64{1, -rows2 * cols, -cols, -1}, LinearEQ, 0)
	return elem, lin
}
