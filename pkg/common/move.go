package common

import "strings"

// Move packs from, to, moving piece, captured piece, promotion piece and the
// captured square into an int32. The captured square differs from the
// destination only for en passant. Equality over the packed value is
// structural equality over all six fields.
type Move int32

const MoveEmpty = Move(0)

func MakeMove(from, to, movingPiece, capturedPiece int) Move {
	return Move(from ^ (to << 6) ^ (movingPiece << 12) ^ (capturedPiece << 15) ^ (to << 21))
}

func MakePawnMove(from, to, capturedPiece, promotion int) Move {
	return Move(from ^ (to << 6) ^ (Pawn << 12) ^ (capturedPiece << 15) ^ (promotion << 18) ^ (to << 21))
}

func MakeEnpassantMove(from, to, capturedSquare int) Move {
	return Move(from ^ (to << 6) ^ (Pawn << 12) ^ (Pawn << 15) ^ (capturedSquare << 21))
}

func (m Move) From() int {
	return int(m & 63)
}

func (m Move) To() int {
	return int((m >> 6) & 63)
}

func (m Move) MovingPiece() int {
	return int((m >> 12) & 7)
}

func (m Move) CapturedPiece() int {
	return int((m >> 15) & 7)
}

func (m Move) Promotion() int {
	return int((m >> 18) & 7)
}

func (m Move) CapturedSquare() int {
	return int((m >> 21) & 63)
}

func (m Move) String() string {
	if m == MoveEmpty {
		return "0000"
	}
	var sPromotion = ""
	if m.Promotion() != Empty {
		sPromotion = string("nbrq"[m.Promotion()-Knight])
	}
	return SquareName(m.From()) + SquareName(m.To()) + sPromotion
}

// ParseMoveLAN resolves a move in long algebraic notation ("e2e4", "e7e8q")
// against the legal moves of the position.
func (p *Position) ParseMoveLAN(lan string) (Move, bool) {
	var buffer [MaxMoves]Move
	var ml = GenerateMoves(buffer[:], p)
	for _, mv := range ml {
		if strings.EqualFold(mv.String(), lan) {
			var undo = p.MakeMove(mv)
			var legal = p.IsLegal()
			p.UnmakeMove(undo)
			if legal {
				return mv, true
			}
			return MoveEmpty, false
		}
	}
	return MoveEmpty, false
}
