package engine

import (
	. "github.com/lodestar-chess/lodestar/pkg/common"
)

// Staged ordering: every move lands in one bucket, buckets are searched in a
// fixed priority order, and captures/history sort within their bucket. The
// bucket is carried in the top byte of the sort key so the search can gate
// pruning decisions on it.
const (
	bucketQuiet int32 = iota
	bucketBadCaptures
	bucketHistory
	bucketPromotions
	bucketKillers
	bucketGoodCaptures
	bucketChecks
	bucketTT
)

const bucketShift = 24

func bucketOf(key int32) int32 {
	return key >> bucketShift
}

func mvvlva(move Move) int32 {
	var victim = move.CapturedPiece()
	var aggressor = move.MovingPiece()
	return int32(10*seeValue(victim) + (6 - aggressor))
}

// givesCheck detects direct checks from the destination square before the
// move is made. Discovered checks are not classified; they fall through to
// the regular buckets.
func givesCheck(p *Position, move Move) bool {
	var oppKings = p.Kings & p.PiecesByColor(!p.WhiteMove)
	var to = move.To()
	var occ = (p.AllPieces() &^ SquareMask[move.From()]) | SquareMask[to]

	var piece = move.MovingPiece()
	if move.Promotion() != Empty {
		piece = move.Promotion()
	}
	switch piece {
	case Pawn:
		return (PawnAttacks(to, p.WhiteMove) & oppKings) != 0
	case Knight:
		return (KnightAttacks[to] & oppKings) != 0
	case Bishop:
		return (BishopAttacks(to, occ) & oppKings) != 0
	case Rook:
		return (RookAttacks(to, occ) & oppKings) != 0
	case Queen:
		return (QueenAttacks(to, occ) & oppKings) != 0
	}
	return false
}

func (e *Engine) scoreMove(p *Position, move, ttMove, killer1, killer2 Move, side bool) int32 {
	if move == ttMove {
		return bucketTT << bucketShift
	}
	if move.CapturedPiece() != Empty {
		if See(p, move) >= 0 {
			return bucketGoodCaptures<<bucketShift + mvvlva(move)
		}
		return bucketBadCaptures<<bucketShift + mvvlva(move)
	}
	if givesCheck(p, move) {
		return bucketChecks << bucketShift
	}
	if move == killer1 || move == killer2 {
		return bucketKillers << bucketShift
	}
	if move.Promotion() != Empty {
		return bucketPromotions << bucketShift
	}
	if h := e.history.Read(side, move); h != 0 {
		return bucketHistory<<bucketShift + int32(h)
	}
	return bucketQuiet << bucketShift
}

// orderMoves distributes the pseudo-legal moves over the buckets and sorts
// the whole buffer descending, which yields bucket order with the in-bucket
// MVV/LVA and history ordering.
func (e *Engine) orderMoves(p *Position, ml []Move, buffer []OrderedMove, ttMove Move, height int) []OrderedMove {
	var killer1 = e.stack[height].killer1
	var killer2 = e.stack[height].killer2
	var side = p.WhiteMove
	for i, move := range ml {
		buffer[i] = OrderedMove{
			Move: move,
			Key:  e.scoreMove(p, move, ttMove, killer1, killer2, side),
		}
	}
	var result = buffer[:len(ml)]
	sortMoves(result)
	return result
}

// orderMovesQS keeps quiescence ordering cheap: the table move first, then
// captures by MVV/LVA.
func orderMovesQS(ml []Move, buffer []OrderedMove, ttMove Move) []OrderedMove {
	for i, move := range ml {
		var key int32
		if move == ttMove {
			key = bucketTT << bucketShift
		} else if move.CapturedPiece() != Empty {
			key = bucketGoodCaptures<<bucketShift + mvvlva(move)
		}
		buffer[i] = OrderedMove{Move: move, Key: key}
	}
	var result = buffer[:len(ml)]
	sortMoves(result)
	return result
}

func sortMoves(moves []OrderedMove) {
	for i := 1; i < len(moves); i++ {
		j, t := i, moves[i]
		for ; j > 0 && moves[j-1].Key < t.Key; j-- {
			moves[j] = moves[j-1]
		}
		moves[j] = t
	}
}
