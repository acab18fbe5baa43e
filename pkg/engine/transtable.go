package engine

import (
	. "github.com/lodestar-chess/lodestar/pkg/common"
)

const (
	boundLower = 1 << iota
	boundUpper
)

const boundExact = boundLower | boundUpper

const keyEmpty = ^uint64(0)

// 24 bytes
type ttEntry struct {
	key   uint64
	score int32
	move  Move
	depth uint8
	bound uint8
}

type transTable struct {
	megabytes int
	entries   []ttEntry
	mask      uint64
	used      int
}

func roundPowerOfTwo(size int) int {
	var x = 1
	for (x << 1) <= size {
		x <<= 1
	}
	return x
}

func newTransTable(megabytes int) *transTable {
	var size = roundPowerOfTwo(1024 * 1024 * megabytes / 24)
	var tt = &transTable{
		megabytes: megabytes,
		entries:   make([]ttEntry, size),
		mask:      uint64(size - 1),
	}
	tt.Clear()
	return tt
}

func (tt *transTable) Size() int {
	return tt.megabytes
}

func (tt *transTable) Clear() {
	tt.used = 0
	for i := range tt.entries {
		tt.entries[i] = ttEntry{key: keyEmpty}
	}
}

// HashFull estimates the per-mille fill from the used-entry counter.
func (tt *transTable) HashFull() int {
	return tt.used * 1000 / len(tt.entries)
}

func (tt *transTable) Read(key uint64) (depth, score, bound int, move Move, ok bool) {
	var entry = &tt.entries[key&tt.mask]
	if entry.key == key {
		score = int(entry.score)
		move = entry.move
		depth = int(entry.depth)
		bound = int(entry.bound)
		ok = true
	}
	return
}

// Depth-preferred, one entry per slot: replace when the slot is empty or the
// incoming entry searched at least as deep as the occupant.
func (tt *transTable) Update(key uint64, depth, score, bound int, move Move) {
	var entry = &tt.entries[key&tt.mask]
	if entry.key == keyEmpty {
		tt.used++
	} else if depth < int(entry.depth) {
		return
	}
	entry.key = key
	entry.score = int32(score)
	entry.move = move
	entry.depth = uint8(depth)
	entry.bound = uint8(bound)
}
