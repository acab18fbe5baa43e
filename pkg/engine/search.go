package engine

import (
	"math"

	. "github.com/lodestar-chess/lodestar/pkg/common"
)

// nodeType gates futility pruning and propagates through the zero-window
// re-searches of LMR. The root is PV; every zero-window child is NonPV.
type nodeType int

const (
	nodePV nodeType = iota
	nodeNonPV
)

const futilityMargin = 200

const reductionMaxMoveIndex = 218

var reductions [stackSize][reductionMaxMoveIndex + 1]int

func init() {
	for d := 0; d < stackSize; d++ {
		for i := 0; i <= reductionMaxMoveIndex; i++ {
			var r = 1 + int(math.Floor(math.Log(float64(i+1))*math.Log(float64(d+1))/3.14))
			reductions[d][i] = Max(1, Min(r, 6))
		}
	}
}

func (e *Engine) pollDeadline() {
	if e.nodes&1023 == 0 {
		if e.timeManager.IsDone() ||
			(e.limitNodes > 0 && e.nodes >= int64(e.limitNodes)) {
			e.aborted = true
		}
	}
}

func (e *Engine) negamax(alpha, beta, depth, height int, nt nodeType) int {
	if depth <= 0 {
		return e.quiescence(alpha, beta, height)
	}

	e.nodes++
	if height > e.seldepth {
		e.seldepth = height
	}
	e.stack[height].pv.clear()

	var p = &e.pos
	var side = p.WhiteMove

	if height >= maxHeight {
		return evaluateRelative(p)
	}
	if e.isDraw(p) {
		return valueDraw
	}

	var staticEval = evaluateRelative(p)

	// The deadline is sampled sparsely; an aborted frame hands back the
	// static evaluation and the unfinished iteration is discarded above.
	e.pollDeadline()
	if e.aborted {
		return staticEval
	}

	// Mate-distance pruning: nothing below can beat a shorter mate.
	beta = Min(beta, winIn(height))
	alpha = Max(alpha, lossIn(height)+1)
	if alpha >= beta {
		return alpha
	}

	var alphaOriginal = alpha

	var ttMove = MoveEmpty
	if ttDepth, ttScore, ttBound, move, ok := e.transTable.Read(p.Key); ok {
		ttMove = move
		if ttDepth >= depth {
			var score = valueFromTT(ttScore, height)
			switch ttBound {
			case boundExact:
				return score
			case boundLower:
				alpha = Max(alpha, score)
			case boundUpper:
				beta = Min(beta, score)
			}
			if alpha >= beta {
				return score
			}
		}
	}

	var isCheck = p.InCheck()
	var futilityOk = depth == 1 && !isCheck && nt == nodeNonPV

	var ml = GenerateMoves(e.stack[height].moves[:], p)
	var ordered = e.orderMoves(p, ml, e.stack[height].ordered[:], ttMove, height)

	var best = -valueInfinity
	var bestMove = MoveEmpty
	var hasLegalMove = false
	var movesSearched = 0

	for i := range ordered {
		var move = ordered[i].Move
		var bucket = bucketOf(ordered[i].Key)

		var undo = e.makeMove(move)
		if !p.IsLegal() {
			e.unmakeMove(undo)
			continue
		}
		hasLegalMove = true
		movesSearched++

		if futilityOk &&
			(bucket == bucketQuiet || bucket == bucketKillers || bucket == bucketHistory) &&
			staticEval+futilityMargin < alpha {
			e.unmakeMove(undo)
			continue
		}

		var noReduction = bucket == bucketTT ||
			bucket == bucketChecks ||
			bucket == bucketGoodCaptures ||
			bucket == bucketPromotions ||
			isCheck ||
			movesSearched == 1 ||
			depth < 2 ||
			e.history.Read(side, move) > historyGood

		var score int
		if noReduction {
			score = -e.negamax(-beta, -alpha, depth-1, height+1, nt)
		} else {
			var reduced = Max(1, depth-reductions[Min(depth, stackSize-1)][Min(i, reductionMaxMoveIndex)])
			score = -e.negamax(-(alpha + 1), -alpha, reduced, height+1, nodeNonPV)
			if score > alpha && score < beta {
				score = -e.negamax(-beta, -alpha, depth-1, height+1, nodePV)
			}
		}

		if e.aborted {
			e.unmakeMove(undo)
			return 0
		}

		if score > best {
			best = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
			e.stack[height].pv.assign(move, &e.stack[height+1].pv)
			if alpha >= beta {
				if move.CapturedPiece() == Empty {
					e.updateKiller(move, height)
					e.history.Update(side, move, depth)
				}
				e.unmakeMove(undo)
				break
			}
		}

		e.unmakeMove(undo)
	}

	if !hasLegalMove {
		if isCheck {
			return lossIn(height)
		}
		return valueDraw
	}

	var bound = boundExact
	if best <= alphaOriginal {
		bound = boundUpper
	} else if best >= beta {
		bound = boundLower
	}
	e.transTable.Update(p.Key, depth, valueToTT(best, height), bound, bestMove)

	return best
}

func (e *Engine) quiescence(alpha, beta, height int) int {
	e.nodes++
	if height > e.seldepth {
		e.seldepth = height
	}
	e.stack[height].pv.clear()

	var p = &e.pos
	if height >= maxHeight {
		return evaluateRelative(p)
	}

	var alphaOriginal = alpha

	var best = evaluateRelative(p)
	if best >= beta {
		return best
	}
	alpha = Max(alpha, best)

	e.pollDeadline()
	if e.aborted {
		return best
	}

	var isCheck = p.InCheck()

	var ml []Move
	if isCheck {
		ml = GenerateMoves(e.stack[height].moves[:], p)
	} else {
		ml = GenerateCaptures(e.stack[height].moves[:], p)
	}

	var _, _, _, ttMove, _ = e.transTable.Read(p.Key)
	var ordered = orderMovesQS(ml, e.stack[height].ordered[:], ttMove)

	for i := range ordered {
		var move = ordered[i].Move

		// Outside check only winning or equal exchanges are explored.
		if !isCheck && move.CapturedPiece() != Empty && See(p, move) < 0 {
			continue
		}

		var undo = e.makeMove(move)
		if !p.IsLegal() {
			e.unmakeMove(undo)
			continue
		}
		var score = -e.quiescence(-beta, -alpha, height+1)
		e.unmakeMove(undo)

		if e.aborted {
			return best
		}

		if score >= beta {
			e.transTable.Update(p.Key, 0, valueToTT(score, height), boundLower, move)
			return score
		}
		if score > best {
			best = score
		}
		if score > alpha {
			alpha = score
			e.stack[height].pv.assign(move, &e.stack[height+1].pv)
		}
	}

	var bound = boundExact
	if best <= alphaOriginal {
		bound = boundUpper
	}
	e.transTable.Update(p.Key, 0, valueToTT(best, height), bound, MoveEmpty)

	return best
}
