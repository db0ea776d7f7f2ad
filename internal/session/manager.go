package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/RECTo0/PokerPlanning/internal/model"
	"github.com/RECTo0/PokerPlanning/internal/store"
	"github.com/RECTo0/PokerPlanning/internal/tally"
	usecase_room "github.com/RECTo0/PokerPlanning/internal/usecase/room"
	usecase_roster "github.com/RECTo0/PokerPlanning/internal/usecase/roster"
	usecase_vote "github.com/RECTo0/PokerPlanning/internal/usecase/vote"
)

// Manager builds sessions. One per process; sessions themselves are
// per participant.
type Manager struct {
	rooms  *usecase_room.Usecase
	roster *usecase_roster.Usecase
	votes  *usecase_vote.Usecase

	roomWatcher   RoomWatcher
	rosterWatcher RosterWatcher
	voteWatcher   VoteWatcher

	splitDelay time.Duration
	logger     *slog.Logger
}

type ManagerOption func(*Manager)

func WithSplitDelay(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.splitDelay = d
		}
	}
}

func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

func NewManager(
	rooms *usecase_room.Usecase,
	roster *usecase_roster.Usecase,
	votes *usecase_vote.Usecase,
	roomWatcher RoomWatcher,
	rosterWatcher RosterWatcher,
	voteWatcher VoteWatcher,
	opts ...ManagerOption,
) *Manager {
	m := &Manager{
		rooms:         rooms,
		roster:        roster,
		votes:         votes,
		roomWatcher:   roomWatcher,
		rosterWatcher: rosterWatcher,
		voteWatcher:   voteWatcher,
		splitDelay:    tally.DefaultSplitDelay,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type SessionOption func(*Session)

func WithPresenter(p tally.Presenter) SessionOption {
	return func(s *Session) {
		s.engine = tally.NewEngine(p, tally.WithSplitDelay(s.manager.splitDelay))
	}
}

func WithListener(l Listener) SessionOption {
	return func(s *Session) {
		s.listener = l
	}
}

func WithNotifier(n Notifier) SessionOption {
	return func(s *Session) {
		s.notifier = n
	}
}

// Join sanitizes the inputs, generates a fresh participant identity,
// enters (or creates) the room, registers the player document and
// binds the three subscriptions. Session state is process-local and
// rebuilt from the store on every join.
func (m *Manager) Join(ctx context.Context, roomInput, name string, role model.Role, opts ...SessionOption) (*Session, error) {
	name = model.SanitizeName(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	roomID := model.SanitizeRoomID(roomInput)
	if roomID == model.EmptyRoomID {
		roomID = model.RandomRoomID()
	}
	playerID := model.NewParticipantID()

	room, created, err := m.rooms.EnterRoom(ctx, roomID, playerID)
	if err != nil {
		return nil, err
	}

	if err := m.roster.Join(ctx, roomID, model.Player{
		ID:   playerID,
		Name: name,
		Role: role,
	}); err != nil {
		return nil, err
	}

	s := &Session{
		manager:       m,
		listener:      nopListener{},
		notifier:      nopNotifier{},
		logger:        m.logger,
		roomID:        roomID,
		playerID:      playerID,
		name:          name,
		role:          role,
		facilitatorID: room.FacilitatorID,
		isFacilitator: room.FacilitatorID == playerID,
		revealed:      room.Revealed,
		round:         room.Round,
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = tally.NewEngine(nopPresenter{}, tally.WithSplitDelay(m.splitDelay))
	}

	roomCh, unsubRoom := m.roomWatcher.Watch(roomID)
	rosterCh, unsubRoster := m.rosterWatcher.Watch(roomID)
	votesCh, unsubVotes := m.voteWatcher.Watch(roomID)
	s.unsub = []store.UnsubscribeFunc{unsubRoom, unsubRoster, unsubVotes}

	go s.reconcile(roomCh, rosterCh, votesCh)

	m.logger.Info("participant joined",
		"room", roomID,
		"player", playerID,
		"role", role,
		"created_room", created)

	return s, nil
}
