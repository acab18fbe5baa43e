package engine

import (
	"context"
	"time"

	. "github.com/lodestar-chess/lodestar/pkg/common"
)

// timeManager owns the wall-clock budget. The searcher polls IsDone every
// 1024 nodes; the UCI driver cancels through the context on "stop".
type timeManager struct {
	start    time.Time
	deadline time.Time
	ctx      context.Context
}

func newTimeManager(ctx context.Context, start time.Time, limits LimitsType, side bool) *timeManager {
	var tm = &timeManager{
		start: start,
		ctx:   ctx,
	}
	if budget := computeThinkTime(limits, side); budget > 0 {
		tm.deadline = start.Add(time.Duration(budget) * time.Millisecond)
	}
	return tm
}

func (tm *timeManager) IsDone() bool {
	if tm.ctx.Err() != nil {
		return true
	}
	return !tm.deadline.IsZero() && !time.Now().Before(tm.deadline)
}

func (tm *timeManager) Elapsed() time.Duration {
	return time.Since(tm.start)
}

// computeThinkTime turns go limits into a budget in milliseconds. Zero means
// no wall-clock bound (fixed depth or infinite analysis).
func computeThinkTime(limits LimitsType, side bool) int {
	if limits.MoveTime > 0 {
		return limits.MoveTime
	}
	if limits.Infinite || limits.Depth > 0 || limits.Nodes > 0 {
		return 0
	}

	var mainTime, incTime int
	if side {
		mainTime, incTime = limits.WhiteTime, limits.WhiteIncrement
	} else {
		mainTime, incTime = limits.BlackTime, limits.BlackIncrement
	}
	if mainTime == 0 && incTime == 0 {
		return 0
	}

	var movesToGo = limits.MovesToGo
	if movesToGo < 30 {
		movesToGo = 30
	}

	var budget = mainTime/(movesToGo+2) + 2*incTime/3
	budget = Min(budget, mainTime/2)
	budget = Max(budget, 10)
	return budget
}
