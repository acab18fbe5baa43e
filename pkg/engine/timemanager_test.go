package engine

import (
	"context"
	"testing"
	"time"

	. "github.com/lodestar-chess/lodestar/pkg/common"
)

func TestComputeThinkTime(t *testing.T) {
	var tests = []struct {
		name   string
		limits LimitsType
		side   bool
		want   int
	}{
		{
			name:   "movetime dominates",
			limits: LimitsType{MoveTime: 1500, WhiteTime: 60000},
			side:   true,
			want:   1500,
		},
		{
			name:   "sudden death",
			limits: LimitsType{WhiteTime: 64000},
			side:   true,
			want:   2000, // 64000/(30+2)
		},
		{
			name:   "increment adds two thirds",
			limits: LimitsType{BlackTime: 64000, BlackIncrement: 3000},
			side:   false,
			want:   4000, // 2000 + 2*3000/3
		},
		{
			name:   "movestogo floors at 30",
			limits: LimitsType{WhiteTime: 64000, MovesToGo: 5},
			side:   true,
			want:   2000,
		},
		{
			name:   "clamped below by 10ms",
			limits: LimitsType{WhiteTime: 64},
			side:   true,
			want:   10,
		},
		{
			name:   "clamped above by half the clock",
			limits: LimitsType{WhiteTime: 1000, WhiteIncrement: 60000},
			side:   true,
			want:   500,
		},
		{
			name:   "depth search has no budget",
			limits: LimitsType{Depth: 7, WhiteTime: 60000},
			side:   true,
			want:   0,
		},
		{
			name:   "infinite has no budget",
			limits: LimitsType{Infinite: true},
			side:   true,
			want:   0,
		},
	}
	for _, test := range tests {
		if got := computeThinkTime(test.limits, test.side); got != test.want {
			t.Errorf("%s: budget = %d, want %d", test.name, got, test.want)
		}
	}
}

func TestTimeManagerDeadline(t *testing.T) {
	var start = time.Now()
	var tm = newTimeManager(context.Background(), start, LimitsType{MoveTime: 50000}, true)
	if tm.IsDone() {
		t.Error("deadline far in the future reported done")
	}

	tm = newTimeManager(context.Background(), start.Add(-time.Minute), LimitsType{MoveTime: 100}, true)
	if !tm.IsDone() {
		t.Error("expired deadline not reported")
	}

	var ctx, cancel = context.WithCancel(context.Background())
	tm = newTimeManager(ctx, start, LimitsType{Infinite: true}, true)
	if tm.IsDone() {
		t.Error("infinite search reported done")
	}
	cancel()
	if !tm.IsDone() {
		t.Error("cancelled context not reported")
	}
}
