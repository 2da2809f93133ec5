package reftable

import "strconv"

// Seq allocates decimal ids "1", "2", ... skipping reserved ones.
type Seq struct {
	n    int
	used map[string]bool
}

func (s *Seq) Reserve(id string) {
	if s.used == nil {
		s.used = map[string]bool{}
	}
	s.used[id] = true
}

func (s *Seq) Next() string {
	for {
		s.n++
		id := strconv.Itoa(s.n)
		if !s.used[id] {
			s.Reserve(id)
			return id
		}
	}
}
