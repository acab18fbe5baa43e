package engine

import (
	. "github.com/lodestar-chess/lodestar/pkg/common"
)

const (
	stackSize = 64
	maxHeight = stackSize - 1

	valueDraw          = 0
	valueMate          = 50000
	valueMateThreshold = valueMate - 1000
	valueInfinity      = valueMate + 1000
)

func winIn(height int) int {
	return valueMate - height
}

func lossIn(height int) int {
	return -valueMate + height
}

// Mate scores are stored relative to the probing node so one entry serves
// every ply. Adjust on the way in and back out.
func valueToTT(v, height int) int {
	if v >= valueMateThreshold {
		return v + height
	}
	if v <= -valueMateThreshold {
		return v - height
	}
	return v
}

func valueFromTT(v, height int) int {
	if v >= valueMateThreshold {
		return v - height
	}
	if v <= -valueMateThreshold {
		return v + height
	}
	return v
}

func newUciScore(v int) UciScore {
	if v >= valueMateThreshold {
		return UciScore{Mate: (valueMate - v + 1) / 2}
	} else if v <= -valueMateThreshold {
		return UciScore{Mate: (-valueMate - v) / 2}
	} else {
		return UciScore{Centipawns: v}
	}
}

func let(ok bool, yes, no int) int {
	if ok {
		return yes
	}
	return no
}
