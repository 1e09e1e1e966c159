package ecs

import "strconv"

// NodeID addresses a transform node in a Tree. The zero value is never valid.
type NodeID uint64

// EntityID addresses an entity in a World. The zero value is never valid.
type EntityID uint64

type slot uint32
type generation uint32

const slotBits = 32

func makeHandle(s slot, gen generation) uint64 {
	return uint64(gen)<<slotBits | uint64(s)
}

func handleSlot(h uint64) slot {
	return slot(uint32(h))
}

func handleGeneration(h uint64) generation {
	return generation(uint32(h >> slotBits))
}

func (n NodeID) String() string {
	return strconv.FormatUint(uint64(handleSlot(uint64(n))), 10) + "v" +
		strconv.FormatUint(uint64(handleGeneration(uint64(n))), 10)
}

func (n NodeID) Valid() bool {
	return n > 0
}

func (e EntityID) String() string {
	return strconv.FormatUint(uint64(handleSlot(uint64(e))), 10) + "v" +
		strconv.FormatUint(uint64(handleGeneration(uint64(e))), 10)
}

func (e EntityID) Valid() bool {
	return e > 0
}
