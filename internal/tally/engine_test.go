package tally

import (
	"testing"
	"time"

	"github.com/RECTo0/PokerPlanning/internal/model"
	"github.com/stretchr/testify/assert"
)

const testSplitDelay = 40 * time.Millisecond

func splitVotes() []model.Vote {
	return []model.Vote{
		{PlayerID: "p1", Value: "3"},
		{PlayerID: "p2", Value: "8"},
	}
}

func unanimousVotes() []model.Vote {
	return []model.Vote{
		{PlayerID: "p1", Value: "5"},
		{PlayerID: "p2", Value: "5"},
	}
}

func TestEngineHiddenShowsWaiting(t *testing.T) {
	rec := NewRecorder()
	e := NewEngine(rec, WithSplitDelay(testSplitDelay))
	defer e.Stop()

	e.Apply(false, splitVotes(), nil)

	phase, _, celebrated := rec.View()
	assert.Equal(t, PhaseWaiting, phase)
	assert.False(t, celebrated)
}

func TestEngineUnanimousShowsBoardImmediately(t *testing.T) {
	rec := NewRecorder()
	e := NewEngine(rec, WithSplitDelay(testSplitDelay))
	defer e.Stop()

	e.Apply(true, unanimousVotes(), nil)

	phase, board, celebrated := rec.View()
	assert.Equal(t, PhaseBoard, phase)
	assert.Equal(t, OutcomeUnanimous, board.Outcome)
	assert.True(t, celebrated)
}

func TestEngineSplitDelaysBoard(t *testing.T) {
	rec := NewRecorder()
	e := NewEngine(rec, WithSplitDelay(testSplitDelay))
	defer e.Stop()

	e.Apply(true, splitVotes(), nil)

	phase, _, celebrated := rec.View()
	assert.Equal(t, PhaseSplitPending, phase)
	assert.False(t, celebrated)

	assert.Eventually(t, func() bool {
		phase, board, _ := rec.View()
		return phase == PhaseBoard && board.Outcome == OutcomeSplit
	}, time.Second, 5*time.Millisecond)
}

func TestEngineNewSnapshotCancelsPendingBoard(t *testing.T) {
	rec := NewRecorder()
	e := NewEngine(rec, WithSplitDelay(testSplitDelay))
	defer e.Stop()

	e.Apply(true, splitVotes(), nil)
	e.Apply(false, nil, nil)

	time.Sleep(3 * testSplitDelay)

	phase, _, _ := rec.View()
	assert.Equal(t, PhaseWaiting, phase, "stale timer must not render the old board")
}

func TestEngineStopCancelsPendingBoard(t *testing.T) {
	rec := NewRecorder()
	e := NewEngine(rec, WithSplitDelay(testSplitDelay))

	e.Apply(true, splitVotes(), nil)
	e.Stop()

	time.Sleep(3 * testSplitDelay)

	phase, _, _ := rec.View()
	assert.Equal(t, PhaseSplitPending, phase, "nothing renders after Stop")
}
