package tally

import (
	"sync"
	"time"

	"github.com/RECTo0/PokerPlanning/internal/model"
)

// DefaultSplitDelay is how long a split round shows the neutral
// placeholder before the full board appears.
const DefaultSplitDelay = 4000 * time.Millisecond

// Presenter is the outward face of the engine. Implementations render:
// a websocket feed, a TUI, a test recorder. Calls arrive from the
// session's reconcile goroutine and from timer callbacks.
type Presenter interface {
	// ShowWaiting resets the results area to the neutral placeholder.
	ShowWaiting()
	// ShowSplitPending shows the pre-board notice of a split round.
	ShowSplitPending()
	ShowBoard(Board)
	// Celebrate fires the unanimous-round effect.
	Celebrate()
	// ClearEffects interrupts any running effect, even mid-animation.
	ClearEffects()
}

// Engine recomputes the presentation whenever the revealed flag or the
// vote set changes. Stateless over its inputs; the only retained state
// is the pending split timer, which a newer snapshot cancels.
type Engine struct {
	presenter  Presenter
	splitDelay time.Duration

	mu    sync.Mutex
	gen   uint64
	timer *time.Timer
}

type EngineOption func(*Engine)

func WithSplitDelay(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.splitDelay = d
		}
	}
}

func NewEngine(p Presenter, opts ...EngineOption) *Engine {
	e := &Engine{
		presenter:  p,
		splitDelay: DefaultSplitDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply reconciles the presentation with the given snapshot. Safe to
// call on either signal order: revealed observed before the final vote
// snapshot, or the other way round.
func (e *Engine) Apply(revealed bool, votes []model.Vote, players []model.Player) {
	e.mu.Lock()
	e.gen++
	gen := e.gen
	e.cancelLocked()

	if !revealed {
		e.mu.Unlock()
		e.presenter.ClearEffects()
		e.presenter.ShowWaiting()
		return
	}

	board := BuildBoard(votes, players)
	if board.Outcome == OutcomeUnanimous {
		e.mu.Unlock()
		e.presenter.Celebrate()
		e.presenter.ShowBoard(board)
		return
	}

	e.timer = time.AfterFunc(e.splitDelay, func() {
		e.mu.Lock()
		stale := e.gen != gen
		if !stale {
			e.timer = nil
		}
		e.mu.Unlock()
		if stale {
			return
		}
		e.presenter.ShowBoard(board)
	})
	e.mu.Unlock()
	e.presenter.ClearEffects()
	e.presenter.ShowSplitPending()
}

// Stop cancels any pending delayed render. Called on session teardown.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gen++
	e.cancelLocked()
}

func (e *Engine) cancelLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}
