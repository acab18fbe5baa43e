package engine

import (
	. "github.com/lodestar-chess/lodestar/pkg/common"
)

// historyGood marks quiet moves whose counter earned them an unreduced search.
const historyGood = 1000

// historyService aggregates quiet β-cutoffs per (side, from, to). Counters
// saturate at the uint16 ceiling and are halved between iterations so stale
// bonuses decay.
type historyService struct {
	table [2 * 64 * 64]uint16
}

func sideFromToIndex(side bool, move Move) int {
	var result = (move.From() << 6) | move.To()
	if side {
		result |= 1 << 12
	}
	return result
}

func (h *historyService) Read(side bool, move Move) int {
	return int(h.table[sideFromToIndex(side, move)])
}

func (h *historyService) Update(side bool, move Move, depth int) {
	var entry = &h.table[sideFromToIndex(side, move)]
	var bonus = uint32(depth * depth)
	if uint32(*entry)+bonus >= 1<<16 {
		*entry = ^uint16(0)
	} else {
		*entry += uint16(bonus)
	}
}

func (h *historyService) Age() {
	for i := range h.table {
		h.table[i] >>= 1
	}
}

func (h *historyService) Clear() {
	for i := range h.table {
		h.table[i] = 0
	}
}
