package modfile

// slabPool hands out slices carved from bigger pre-allocated slabs.
//
// The parser allocates one notes slice per pattern; most modules
// have dozens of equally-sized patterns, so the slabs make the
// parser reuse cheap: reset() keeps the memory for the next run.
type slabPool[T any] struct {
	slabs    []slab[T]
	slabSize int
	maxSlabs int
}

type slab[T any] struct {
	data []T
	used int
}

func (s *slab[T]) available() int {
	return len(s.data) - s.used
}

func (s *slab[T]) take(n int) []T {
	result := s.data[s.used : s.used+n : s.used+n]
	s.used += n
	return result
}

func initSlabPool[T any](p *slabPool[T], slabSize, maxSlabs int) {
	p.slabs = make([]slab[T], 0, maxSlabs)
	p.slabSize = slabSize
	p.maxSlabs = maxSlabs
}

func (p *slabPool[T]) reset() {
	for i := range p.slabs {
		s := &p.slabs[i]
		clear(s.data[:s.used])
		s.used = 0
	}
}

func (p *slabPool[T]) makeSlice(n int) []T {
	if n > p.slabSize {
		return make([]T, n)
	}

	for i := range p.slabs {
		s := &p.slabs[i]
		if s.available() >= n {
			return s.take(n)
		}
	}

	if len(p.slabs) < p.maxSlabs {
		p.slabs = append(p.slabs, slab[T]{data: make([]T, p.slabSize)})
		return p.slabs[len(p.slabs)-1].take(n)
	}

	// Out of slabs: this one will be collected by GC.
	return make([]T, n)
}
