package engine

import (
	"context"
	"time"

	. "github.com/lodestar-chess/lodestar/pkg/common"
)

const zobristHistorySize = 256

// Engine owns the single mutable Position and every search-scoped structure:
// transposition table, killers, history, repetition ring and per-ply buffers.
// All buffers are allocated up front; the search hot path does not allocate.
type Engine struct {
	Hash             int
	ProgressMinNodes int

	transTable  *transTable
	history     historyService
	timeManager *timeManager
	progress    func(SearchInfo)

	pos        Position
	stack      [stackSize]searchStack
	limitNodes int

	zobristHistory [zobristHistorySize]uint64
	zobristIndex   int

	nodes    int64
	seldepth int
	aborted  bool
	start    time.Time
	mainLine mainLine
}

type searchStack struct {
	moves   [MaxMoves]Move
	ordered [MaxMoves]OrderedMove
	pv      pv
	killer1 Move
	killer2 Move
}

type pv struct {
	items [stackSize]Move
	size  int
}

type mainLine struct {
	moves []Move
	score int
	depth int
}

func NewEngine() *Engine {
	return &Engine{
		Hash:             64,
		ProgressMinNodes: 0,
	}
}

func (e *Engine) Prepare() {
	if e.transTable == nil || e.transTable.Size() != e.Hash {
		e.transTable = newTransTable(e.Hash)
	}
}

// Clear resets everything "ucinewgame" is supposed to reset.
func (e *Engine) Clear() {
	if e.transTable != nil {
		e.transTable.Clear()
	}
	e.history.Clear()
	for i := range e.stack {
		e.stack[i].killer1 = MoveEmpty
		e.stack[i].killer2 = MoveEmpty
	}
	e.clearZobristHistory()
}

func (e *Engine) Search(ctx context.Context, params SearchParams) SearchInfo {
	e.start = time.Now()
	e.Prepare()

	var p = params.Positions[len(params.Positions)-1]
	e.pos = p
	e.timeManager = newTimeManager(ctx, e.start, params.Limits, p.WhiteMove)
	e.limitNodes = params.Limits.Nodes
	e.progress = params.Progress
	e.nodes = 0
	e.seldepth = 0
	e.aborted = false
	e.mainLine = mainLine{}

	// Seed the repetition ring with the game history so threefold detection
	// sees positions reached before the search started.
	e.clearZobristHistory()
	for i := range params.Positions {
		e.pushZobrist(params.Positions[i].Key)
	}

	e.iterateSearch(params.Limits)
	return e.currentSearchResult()
}

func (e *Engine) currentSearchResult() SearchInfo {
	return SearchInfo{
		Depth:    e.mainLine.depth,
		SelDepth: e.seldepth,
		Score:    newUciScore(e.mainLine.score),
		Nodes:    e.nodes,
		Time:     time.Since(e.start),
		HashFull: e.transTable.HashFull(),
		MainLine: e.mainLine.moves,
	}
}

// iterateSearch runs iterative deepening. A depth that did not complete is
// discarded; the previous completed depth supplies the best move.
func (e *Engine) iterateSearch(limits LimitsType) {
	var p = &e.pos
	var ml = e.legalRootMoves()
	if len(ml) == 0 {
		if p.InCheck() {
			e.mainLine.score = lossIn(0)
		}
		return
	}
	e.mainLine = mainLine{moves: []Move{ml[0]}, depth: 0}

	var maxDepth = maxHeight - 1
	if limits.Depth > 0 {
		maxDepth = Min(limits.Depth, maxDepth)
	}

	var prevScore = 0
	for depth := 1; depth <= maxDepth; depth++ {
		if depth > 1 && e.timeManager.IsDone() {
			break
		}
		var score = e.aspirationWindow(ml, depth, prevScore)
		if e.aborted {
			break
		}
		e.mainLine = mainLine{
			moves: e.stack[0].pv.toSlice(),
			score: score,
			depth: depth,
		}
		prevScore = score
		if e.progress != nil && e.nodes >= int64(e.ProgressMinNodes) {
			e.progress(e.currentSearchResult())
		}
		e.history.Age()
		if score >= valueMateThreshold || score <= -valueMateThreshold {
			break
		}
	}
}

// aspirationWindow narrows the first root window around the previous score
// and falls back to a full-width re-search when the score lands outside it.
func (e *Engine) aspirationWindow(ml []Move, depth, prevScore int) int {
	if depth > 4 && prevScore > -valueMateThreshold && prevScore < valueMateThreshold {
		const delta = 40
		var alpha = Max(-valueInfinity, prevScore-delta)
		var beta = Min(valueInfinity, prevScore+delta)
		var score = e.searchRoot(ml, alpha, beta, depth)
		if e.aborted {
			return score
		}
		if score > alpha && score < beta {
			return score
		}
	}
	return e.searchRoot(ml, -valueInfinity, valueInfinity, depth)
}

func (e *Engine) searchRoot(ml []Move, alpha, beta, depth int) int {
	const height = 0
	e.stack[height].pv.clear()
	var p = &e.pos

	var _, _, _, ttMove, _ = e.transTable.Read(p.Key)
	var ordered = e.orderMoves(p, ml, e.stack[height].ordered[:], ttMove, height)

	var alphaOriginal = alpha
	var best = -valueInfinity
	var bestMove = MoveEmpty

	for i := range ordered {
		var move = ordered[i].Move
		var undo = e.makeMove(move)
		var score = -e.negamax(-beta, -alpha, depth-1, height+1, nodePV)
		e.unmakeMove(undo)
		if e.aborted {
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
				break
			}
		}
	}

	var bound = boundExact
	if best <= alphaOriginal {
		bound = boundUpper
	} else if best >= beta {
		bound = boundLower
	}
	e.transTable.Update(p.Key, depth, valueToTT(best, 0), bound, bestMove)

	return best
}

// legalRootMoves filters the pseudo-legal list once so the root only ever
// iterates legal moves.
func (e *Engine) legalRootMoves() []Move {
	var p = &e.pos
	var buffer = e.stack[0].moves[:]
	var result []Move
	for _, move := range GenerateMoves(buffer, p) {
		var undo = p.MakeMove(move)
		if p.IsLegal() {
			result = append(result, move)
		}
		p.UnmakeMove(undo)
	}
	return result
}

func (e *Engine) makeMove(move Move) Undo {
	var undo = e.pos.MakeMove(move)
	e.pushZobrist(e.pos.Key)
	return undo
}

func (e *Engine) unmakeMove(undo Undo) {
	e.popZobrist()
	e.pos.UnmakeMove(undo)
}

func (e *Engine) updateKiller(move Move, height int) {
	if e.stack[height].killer1 != move {
		e.stack[height].killer2 = e.stack[height].killer1
		e.stack[height].killer1 = move
	}
}

func (e *Engine) clearZobristHistory() {
	for i := range e.zobristHistory {
		e.zobristHistory[i] = keyEmpty
	}
	e.zobristIndex = 0
}

func (e *Engine) pushZobrist(key uint64) {
	e.zobristHistory[e.zobristIndex] = key
	e.zobristIndex = (e.zobristIndex + 1) % zobristHistorySize
}

func (e *Engine) popZobrist() {
	e.zobristIndex = (e.zobristIndex + zobristHistorySize - 1) % zobristHistorySize
	e.zobristHistory[e.zobristIndex] = keyEmpty
}

// isDraw covers the fifty-move rule and threefold repetition. The position
// reached by the last make is already in the ring, so three occurrences of
// its key mean the position stands on the board for the third time.
func (e *Engine) isDraw(p *Position) bool {
	if p.Rule50 >= 100 {
		return true
	}
	var count = 0
	for i := range e.zobristHistory {
		if e.zobristHistory[i] == p.Key {
			count++
			if count >= 3 {
				return true
			}
		}
	}
	return false
}

func (pv *pv) clear() {
	pv.size = 0
}

func (pv *pv) assign(m Move, child *pv) {
	pv.size = 1
	pv.items[0] = m
	if child.size > 0 && pv.size+child.size <= len(pv.items) {
		copy(pv.items[1:], child.items[:child.size])
		pv.size += child.size
	}
}

func (pv *pv) toSlice() []Move {
	var result = make([]Move, pv.size)
	copy(result, pv.items[:pv.size])
	return result
}
