package engine

import (
	. "github.com/lodestar-chess/lodestar/pkg/common"
)

var pieceValuesSEE = [King + 1]int{
	Empty:  0,
	Pawn:   100,
	Knight: 320,
	Bishop: 330,
	Rook:   500,
	Queen:  900,
	King:   20000,
}

func seeValue(piece int) int {
	return pieceValuesSEE[piece]
}

func getLeastValuableAttacker(p *Position, attackers uint64) (attacker int, fromSet uint64) {
	if bb := p.Pawns & attackers; bb != 0 {
		return Pawn, bb & -bb
	}
	if bb := p.Knights & attackers; bb != 0 {
		return Knight, bb & -bb
	}
	if bb := p.Bishops & attackers; bb != 0 {
		return Bishop, bb & -bb
	}
	if bb := p.Rooks & attackers; bb != 0 {
		return Rook, bb & -bb
	}
	if bb := p.Queens & attackers; bb != 0 {
		return Queen, bb & -bb
	}
	if bb := p.Kings & attackers; bb != 0 {
		return King, bb & -bb
	}
	return Empty, 0
}

// pinnedTo returns own pieces that are absolutely pinned against the king on
// kingSq under the given occupancy.
func pinnedTo(p *Position, kingSq int, ownFlat, enemyFlat, occ uint64) uint64 {
	var result uint64
	for bb := (p.Bishops | p.Queens) & enemyFlat & occ & BishopAttacks(kingSq, 0); bb != 0; bb &= bb - 1 {
		var sq = FirstOne(bb)
		var blockers = Between(sq, kingSq) & occ
		if blockers != 0 && !MoreThanOne(blockers) && (blockers&ownFlat) != 0 {
			result |= blockers
		}
	}
	for bb := (p.Rooks | p.Queens) & enemyFlat & occ & RookAttacks(kingSq, 0); bb != 0; bb &= bb - 1 {
		var sq = FirstOne(bb)
		var blockers = Between(sq, kingSq) & occ
		if blockers != 0 && !MoreThanOne(blockers) && (blockers&ownFlat) != 0 {
			result |= blockers
		}
	}
	return result
}

// See is the static exchange evaluation of a capture: the material balance
// after both sides recapture on the destination with their least valuable
// attacker until no profitable attacker remains. Pinned attackers may only
// take along their pin ray; sliders and pawns removed from the exchange
// expose X-ray attackers behind them.
func See(p *Position, move Move) int {
	var gain [32]int
	var depth = 0
	var side = p.WhiteMove
	var to = move.To()
	var mayXRay = p.Pawns | p.Bishops | p.Rooks | p.Queens
	var fromSet = SquareMask[move.From()]
	var whiteFlat = p.White
	var blackFlat = p.Black

	// The en passant victim is not on the destination square.
	if capSq := move.CapturedSquare(); move.CapturedPiece() != Empty && capSq != to {
		if side {
			blackFlat &^= SquareMask[capSq]
		} else {
			whiteFlat &^= SquareMask[capSq]
		}
	}

	var occ = whiteFlat | blackFlat
	var attackers = p.AttackersTo(to, occ) & occ
	var attackerType = move.MovingPiece()
	var whiteKingSq = FirstOne(p.Kings & p.White)
	var blackKingSq = FirstOne(p.Kings & p.Black)

	gain[0] = seeValue(move.CapturedPiece())
	if move.Promotion() != Empty {
		gain[0] = seeValue(move.Promotion()) - seeValue(Pawn) + seeValue(move.CapturedPiece())
	}

	for {
		side = !side
		depth++

		// A pawn recapturing on the back rank comes off the board as a queen.
		var isAttackerPromoting = attackerType == Pawn &&
			Rank(to) == let(side, Rank1, Rank8)
		if isAttackerPromoting {
			gain[depth] = seeValue(Queen) - seeValue(Pawn) - gain[depth-1]
		} else {
			gain[depth] = seeValue(attackerType) - gain[depth-1]
		}

		// The attacker that just captured leaves the board.
		attackers &^= fromSet
		occ &^= fromSet
		if side {
			blackFlat &^= fromSet
		} else {
			whiteFlat &^= fromSet
		}

		var ownFlat, enemyFlat uint64
		var kingSq int
		if side {
			ownFlat, enemyFlat, kingSq = whiteFlat, blackFlat, whiteKingSq
		} else {
			ownFlat, enemyFlat, kingSq = blackFlat, whiteFlat, blackKingSq
		}

		// Pinned attackers stay out of the exchange unless they capture along
		// the pin ray.
		var pinned = pinnedTo(p, kingSq, ownFlat, enemyFlat, occ) & attackers
		if pinned != 0 {
			var kingRay = Between(kingSq, to) | SquareMask[to]
			attackers &^= pinned &^ kingRay
		}

		if (fromSet & mayXRay) != 0 {
			attackers |= (BishopAttacks(to, occ)&(p.Bishops|p.Queens) |
				RookAttacks(to, occ)&(p.Rooks|p.Queens) |
				blackPawnAttackersTo(p, to) | whitePawnAttackersTo(p, to)) & occ
		}

		if attackerType == King {
			if side {
				blackKingSq = to
			} else {
				whiteKingSq = to
			}
		}

		attackerType, fromSet = getLeastValuableAttacker(p, attackers&ownFlat)
		if fromSet == 0 || depth+1 >= len(gain) {
			break
		}
	}

	for ; depth > 1; depth-- {
		gain[depth-2] = -Max(-gain[depth-2], gain[depth-1])
	}
	return gain[0]
}

func whitePawnAttackersTo(p *Position, sq int) uint64 {
	return PawnAttacks(sq, false) & p.Pawns & p.White
}

func blackPawnAttackersTo(p *Position, sq int) uint64 {
	return PawnAttacks(sq, true) & p.Pawns & p.Black
}
