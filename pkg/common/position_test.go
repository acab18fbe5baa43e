package common

import (
	"strings"
	"testing"
)

var testFENs = []string{
	InitialPositionFen,
	// Kiwipete
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	// Underpromotion
	"8/p1P5/P7/3p4/5p1p/3p1P1P/K2p2pp/3R2nk w - - 0 1",
	// Enpassant
	"8/7p/p5pb/4k3/P1pPn3/8/P5PP/1rB2RK1 b - d3 0 28",
	"rnb1kbnr/pp1ppppp/8/1q6/2PpP3/5N2/PP3PPP/RNBQ1K1R b kq c3 0 6",
	"2rqkb1r/p1pnpppp/3p3n/3B4/2BPP3/1QP5/PP3PPP/RN2K1NR w KQk - 0 1",
	"1rr3k1/4ppb1/2q1bnp1/1p2B1Q1/6P1/2p2P2/2P1B2R/2K4R w - - 0 1",
	"1k1r4/1pp4p/p7/4p3/8/P5P1/1PP4P/2K1R3 w - - 0 1",
	"1k1r3q/1ppn3p/p4b2/4p3/8/P2N2P1/1PP1R1BP/2K1Q3 w - - 0 1",
	"r2qk2r/pppb1ppp/2np4/1Bb5/4n3/5N2/PPP2PPP/RNBQR1K1 b kq - 1 1",
	"6k1/Qp1r1pp1/p1rP3p/P3q3/2Bnb1P1/1P3PNP/4p1K1/R1R5 b - - 0 1",
	"3r2k1/2Q2pb1/2n1r3/1p1p4/pB1PP3/n1N2p2/B1q2P1R/6RK b - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
}

// Make then unmake must restore the position bitwise, Zobrist included.
func TestMakeUnmakeIsInvolution(t *testing.T) {
	var buffer [MaxMoves]Move
	for _, fen := range testFENs {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(fen, err)
		}
		var before = p
		for _, move := range GenerateMoves(buffer[:], &p) {
			var undo = p.MakeMove(move)
			p.UnmakeMove(undo)
			if p != before {
				t.Fatalf("%v %v: position not restored\nbefore %v\nafter  %v",
					fen, move, before.String(), p.String())
			}
		}
	}
}

// The incremental hash must match a from-scratch recomputation after every
// make.
func TestIncrementalZobrist(t *testing.T) {
	var buffer [MaxMoves]Move
	for _, fen := range testFENs {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(fen, err)
		}
		for _, move := range GenerateMoves(buffer[:], &p) {
			var undo = p.MakeMove(move)
			if p.Key != p.ComputeKey() {
				t.Fatalf("%v %v: incremental key %x, recomputed %x",
					fen, move, p.Key, p.ComputeKey())
			}
			p.UnmakeMove(undo)
		}
	}
}

func TestMakeUnmakeDeep(t *testing.T) {
	var p, err = NewPositionFromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	var before = p
	var walked = walkMakeUnmake(t, &p, 3)
	if walked == 0 {
		t.Fatal("no moves walked")
	}
	if p != before {
		t.Fatalf("position not restored after deep walk")
	}
}

func walkMakeUnmake(t *testing.T, p *Position, depth int) int {
	if depth == 0 {
		return 1
	}
	var count = 0
	var buffer [MaxMoves]Move
	for _, move := range GenerateMoves(buffer[:], p) {
		var undo = p.MakeMove(move)
		if p.Key != p.ComputeKey() {
			t.Fatalf("%v: key diverged after %v", p.String(), move)
		}
		if p.IsLegal() {
			count += walkMakeUnmake(t, p, depth-1)
		}
		p.UnmakeMove(undo)
	}
	return count
}

// Transpositions reached by different move orders hash identically.
func TestTranspositionKeysAgree(t *testing.T) {
	var apply = func(moves ...string) Position {
		var p, err = NewPositionFromFEN(InitialPositionFen)
		if err != nil {
			t.Fatal(err)
		}
		for _, lan := range moves {
			var move, ok = p.ParseMoveLAN(lan)
			if !ok {
				t.Fatalf("illegal move %s", lan)
			}
			p.MakeMove(move)
		}
		return p
	}
	var a = apply("g1f3", "b8c6", "b1c3", "g8f6")
	var b = apply("b1c3", "g8f6", "g1f3", "b8c6")
	if a.Key != b.Key {
		t.Errorf("transposition keys differ: %x vs %x", a.Key, b.Key)
	}
	if a != b {
		t.Errorf("transposed positions differ:\n%v\n%v", a.String(), b.String())
	}
}

func TestFenRoundTrip(t *testing.T) {
	for _, fen := range testFENs {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(fen, err)
		}
		var p2, err2 = NewPositionFromFEN(p.String())
		if err2 != nil {
			t.Fatal(p.String(), err2)
		}
		if p.Key != p2.Key {
			t.Errorf("fen round trip changed position: %v -> %v", fen, p.String())
		}
	}
}

func TestFenErrors(t *testing.T) {
	var bad = []string{
		"",
		"rnbqkbnr/pppppppp/8/8",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbxkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		// two kings missing
		"8/8/8/8/8/8/8/8 w - - 0 1",
		// side not to move left in check
		"4k3/4r3/8/8/8/8/8/4K3 b - - 0 1",
	}
	for _, fen := range bad {
		if _, err := NewPositionFromFEN(fen); err == nil {
			t.Errorf("fen %q parsed without error", fen)
		}
	}
}

func TestCastlingRightsAfterRookCapture(t *testing.T) {
	var p, err = NewPositionFromFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	var move, ok = p.ParseMoveLAN("a1a8")
	if !ok {
		t.Fatal("a1a8 should be legal")
	}
	p.MakeMove(move)
	if (p.CastleRights & BlackQueenSide) != 0 {
		t.Error("black queen side right survived rook capture on a8")
	}
	if (p.CastleRights & WhiteQueenSide) != 0 {
		t.Error("white queen side right survived rook leaving a1")
	}
	if (p.CastleRights & BlackKingSide) == 0 {
		t.Error("black king side right should survive")
	}
	if p.Key != p.ComputeKey() {
		t.Error("key diverged after rights update")
	}
}

func TestCastlingMoveUpdatesRookAndRights(t *testing.T) {
	var p, err = NewPositionFromFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	var move, ok = p.ParseMoveLAN("e1g1")
	if !ok {
		t.Fatal("e1g1 should be legal")
	}
	var undo = p.MakeMove(move)
	if p.WhatPiece(SquareF1) != Rook || p.WhatPiece(SquareG1) != King {
		t.Error("castling did not place king and rook")
	}
	if (p.CastleRights & (WhiteKingSide | WhiteQueenSide)) != 0 {
		t.Error("white rights survived castling")
	}
	if p.Key != p.ComputeKey() {
		t.Error("key diverged after castling")
	}
	p.UnmakeMove(undo)
	if p.WhatPiece(SquareH1) != Rook || p.WhatPiece(SquareE1) != King {
		t.Error("castling unmake did not restore rook and king")
	}
}

func TestEnPassantMakeUnmake(t *testing.T) {
	var p, err = NewPositionFromFEN("8/7p/p5pb/4k3/P1pPn3/8/P5PP/1rB2RK1 b - d3 0 28")
	if err != nil {
		t.Fatal(err)
	}
	var before = p
	var move, ok = p.ParseMoveLAN("c4d3")
	if !ok {
		t.Fatal("c4d3 en passant should be legal")
	}
	if move.CapturedSquare() != SquareD4 {
		t.Errorf("captured square = %v, want d4", SquareName(move.CapturedSquare()))
	}
	var undo = p.MakeMove(move)
	if p.WhatPiece(SquareD4) != Empty {
		t.Error("en passant victim still on d4")
	}
	if p.WhatPiece(SquareD3) != Pawn {
		t.Error("capturing pawn not on d3")
	}
	if p.Key != p.ComputeKey() {
		t.Error("key diverged after en passant")
	}
	p.UnmakeMove(undo)
	if p != before {
		t.Error("en passant unmake did not restore position")
	}
}

func TestRule50Clock(t *testing.T) {
	var p, err = NewPositionFromFEN("1k1r4/1pp4p/p7/4p3/8/P5P1/1PP4P/2K1R3 w - - 99 1")
	if err != nil {
		t.Fatal(err)
	}
	var move, ok = p.ParseMoveLAN("e1e2")
	if !ok {
		t.Fatal("e1e2 should be legal")
	}
	p.MakeMove(move)
	if p.Rule50 != 100 {
		t.Errorf("rule50 = %d, want 100", p.Rule50)
	}

	// Capture resets the clock.
	p, _ = NewPositionFromFEN("1k1r4/1pp4p/p7/4p3/8/P5P1/1PP4P/2K1R3 w - - 99 1")
	move, _ = p.ParseMoveLAN("e1e5")
	p.MakeMove(move)
	if p.Rule50 != 0 {
		t.Errorf("rule50 after capture = %d, want 0", p.Rule50)
	}
}

func TestMirrorPosition(t *testing.T) {
	for _, fen := range testFENs {
		var p, err = NewPositionFromFEN(fen)
		if err != nil {
			t.Fatal(fen, err)
		}
		var m = MirrorPosition(&p)
		var back = MirrorPosition(&m)
		if p != back {
			t.Errorf("mirror is not an involution for %v", fen)
		}
		if m.WhiteMove == p.WhiteMove {
			t.Errorf("mirror kept side to move for %v", fen)
		}
	}
}

func TestMoveString(t *testing.T) {
	var tests = []struct {
		move Move
		want string
	}{
		{MakeMove(SquareE2, SquareE4, Pawn, Empty), "e2e4"},
		{MakeMove(SquareG1, SquareF3, Knight, Empty), "g1f3"},
		{MakePawnMove(SquareB7, SquareA8, Rook, Queen), "b7a8q"},
		{MoveEmpty, "0000"},
	}
	for _, test := range tests {
		if got := test.move.String(); got != test.want {
			t.Errorf("move string = %q, want %q", got, test.want)
		}
	}
	if !strings.EqualFold(WhiteKingSideCastle.String(), "e1g1") {
		t.Errorf("castle string = %q", WhiteKingSideCastle.String())
	}
}

func TestMoveFields(t *testing.T) {
	var m = MakePawnMove(SquareB7, SquareA8, Rook, Queen)
	if m.From() != SquareB7 || m.To() != SquareA8 ||
		m.MovingPiece() != Pawn || m.CapturedPiece() != Rook ||
		m.Promotion() != Queen || m.CapturedSquare() != SquareA8 {
		t.Errorf("move fields decoded wrong: %v", m)
	}
	var ep = MakeEnpassantMove(SquareE5, SquareD6, SquareD5)
	if ep.CapturedSquare() != SquareD5 || ep.CapturedPiece() != Pawn {
		t.Errorf("en passant fields decoded wrong: %v", ep)
	}
}
