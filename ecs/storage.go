package ecs

// handleStore tracks slot generations and free slots. Slots are 1-based so
// that a zero handle is never alive.
type handleStore struct {
	gen  []generation
	free []slot
}

func (s *handleStore) create() uint64 {
	var id slot
	if len(s.free) > 0 {
		id = s.free[len(s.free)-1]
		s.free = s.free[:len(s.free)-1]
	} else {
		s.gen = append(s.gen, 0)
		id = slot(len(s.gen))
	}
	return makeHandle(id, s.gen[id-1])
}

func (s *handleStore) destroy(h uint64) bool {
	if !s.isAlive(h) {
		return false
	}
	id := handleSlot(h)
	s.gen[id-1]++
	s.free = append(s.free, id)
	return true
}

func (s *handleStore) isAlive(h uint64) bool {
	id := handleSlot(h)
	if id == 0 || int(id) > len(s.gen) {
		return false
	}
	return s.gen[id-1] == handleGeneration(h)
}

// index returns the 0-based storage index for a live handle.
func (s *handleStore) index(h uint64) (int, bool) {
	if !s.isAlive(h) {
		return 0, false
	}
	return int(handleSlot(h)) - 1, true
}

func (s *handleStore) len() int {
	return len(s.gen) - len(s.free)
}
