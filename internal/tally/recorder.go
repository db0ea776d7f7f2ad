package tally

import "sync"

type Phase string

const (
	PhaseWaiting      Phase = "waiting"
	PhaseSplitPending Phase = "split_pending"
	PhaseBoard        Phase = "board"
)

// Recorder is a Presenter that keeps only the latest presentation,
// for consumers that poll instead of streaming.
type Recorder struct {
	mu         sync.RWMutex
	phase      Phase
	board      Board
	celebrated bool
}

func NewRecorder() *Recorder {
	return &Recorder{phase: PhaseWaiting}
}

func (r *Recorder) ShowWaiting() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phase = PhaseWaiting
	r.board = Board{}
}

func (r *Recorder) ShowSplitPending() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phase = PhaseSplitPending
	r.board = Board{}
}

func (r *Recorder) ShowBoard(board Board) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phase = PhaseBoard
	r.board = board
}

func (r *Recorder) Celebrate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.celebrated = true
}

func (r *Recorder) ClearEffects() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.celebrated = false
}

// View returns the latest phase, the board when one is shown, and
// whether the celebratory effect is live.
func (r *Recorder) View() (Phase, Board, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.phase, r.board, r.celebrated
}
