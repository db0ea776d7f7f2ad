package usecase_room

import (
	"context"
	"testing"

	"github.com/RECTo0/PokerPlanning/internal/model"
	player_mocks "github.com/RECTo0/PokerPlanning/internal/usecase/room/mocks/players"
	repo_mocks "github.com/RECTo0/PokerPlanning/internal/usecase/room/mocks/repository"
	vote_mocks "github.com/RECTo0/PokerPlanning/internal/usecase/room/mocks/votes"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type UsecaseRoomUnitSuite struct {
	suite.Suite
}

type resources struct {
	usecase  *Usecase
	roomRepo *repo_mocks.RoomRepository
	players  *player_mocks.PlayerRepository
	votes    *vote_mocks.VoteRepository
	ctx      context.Context
}

func initResources(t provider.T) *resources {
	roomRepo := repo_mocks.NewRoomRepository(t)
	players := player_mocks.NewPlayerRepository(t)
	votes := vote_mocks.NewVoteRepository(t)
	usecase := New(roomRepo, players, votes)

	return &resources{
		usecase:  usecase,
		roomRepo: roomRepo,
		players:  players,
		votes:    votes,
		ctx:      context.Background(),
	}
}

func validRoomID() model.RoomID {
	return model.RoomID("sprint-planning")
}

func validParticipantID() model.ParticipantID {
	return model.NewParticipantID()
}

func (suite *UsecaseRoomUnitSuite) TestEnterRoom(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name            string
		setupMocks      func(r *resources, roomID model.RoomID, participant model.ParticipantID)
		expectedCreated bool
		expectError     bool
		expectedError   error
	}{
		{
			name: "Should return existing room untouched",
			setupMocks: func(r *resources, roomID model.RoomID, participant model.ParticipantID) {
				existing := model.Room{Revealed: true, FacilitatorID: "someone-else", Round: 3}
				r.roomRepo.On("Get", r.ctx, roomID).Return(existing, nil).Once()
			},
			expectedCreated: false,
			expectError:     false,
		},
		{
			name: "Should create room when absent",
			setupMocks: func(r *resources, roomID model.RoomID, participant model.ParticipantID) {
				r.roomRepo.On("Get", r.ctx, roomID).Return(model.Room{}, ErrResourceNotFound).Once()
				r.roomRepo.On("Create", r.ctx, roomID, mock.AnythingOfType("model.Room")).Return(nil).Once()
			},
			expectedCreated: true,
			expectError:     false,
		},
		{
			name: "Should return error when lookup fails",
			setupMocks: func(r *resources, roomID model.RoomID, participant model.ParticipantID) {
				r.roomRepo.On("Get", r.ctx, roomID).Return(model.Room{}, ErrInternal).Once()
			},
			expectError:   true,
			expectedError: ErrInternal,
		},
		{
			name: "Should return error when create fails",
			setupMocks: func(r *resources, roomID model.RoomID, participant model.ParticipantID) {
				r.roomRepo.On("Get", r.ctx, roomID).Return(model.Room{}, ErrResourceNotFound).Once()
				r.roomRepo.On("Create", r.ctx, roomID, mock.AnythingOfType("model.Room")).Return(ErrInternal).Once()
			},
			expectError:   true,
			expectedError: ErrInternal,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initResources(t)
			roomID := validRoomID()
			participant := validParticipantID()
			tc.setupMocks(r, roomID, participant)

			room, created, err := r.usecase.EnterRoom(r.ctx, roomID, participant)

			if tc.expectError {
				assert.ErrorIs(t, err, tc.expectedError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expectedCreated, created)
				if created {
					assert.Equal(t, participant, room.FacilitatorID)
					assert.Equal(t, 1, room.Round)
					assert.False(t, room.Revealed)
				}
			}
			r.roomRepo.AssertExpectations(t)
		})
	}
}

func (suite *UsecaseRoomUnitSuite) TestToggleReveal(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		setupMocks    func(r *resources, roomID model.RoomID)
		expectError   bool
		expectedError error
	}{
		{
			name: "Should reveal a hidden round",
			setupMocks: func(r *resources, roomID model.RoomID) {
				r.roomRepo.On("Get", r.ctx, roomID).Return(model.Room{Revealed: false, Round: 1}, nil).Once()
				r.roomRepo.On("SetRevealed", r.ctx, roomID, true).Return(nil).Once()
			},
			expectError: false,
		},
		{
			name: "Should hide a revealed round",
			setupMocks: func(r *resources, roomID model.RoomID) {
				r.roomRepo.On("Get", r.ctx, roomID).Return(model.Room{Revealed: true, Round: 1}, nil).Once()
				r.roomRepo.On("SetRevealed", r.ctx, roomID, false).Return(nil).Once()
			},
			expectError: false,
		},
		{
			name: "Should do nothing for missing room",
			setupMocks: func(r *resources, roomID model.RoomID) {
				r.roomRepo.On("Get", r.ctx, roomID).Return(model.Room{}, ErrResourceNotFound).Once()
			},
			expectError: false,
		},
		{
			name: "Should return error when write fails",
			setupMocks: func(r *resources, roomID model.RoomID) {
				r.roomRepo.On("Get", r.ctx, roomID).Return(model.Room{Round: 1}, nil).Once()
				r.roomRepo.On("SetRevealed", r.ctx, roomID, true).Return(ErrInternal).Once()
			},
			expectError:   true,
			expectedError: ErrInternal,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initResources(t)
			roomID := validRoomID()
			tc.setupMocks(r, roomID)

			err := r.usecase.ToggleReveal(r.ctx, roomID)

			if tc.expectError {
				assert.ErrorIs(t, err, tc.expectedError)
			} else {
				assert.NoError(t, err)
			}
			r.roomRepo.AssertExpectations(t)
		})
	}
}

func (suite *UsecaseRoomUnitSuite) TestReset(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		setupMocks    func(r *resources, roomID model.RoomID)
		expectError   bool
		expectedError error
	}{
		{
			name: "Should bump round and clear votes",
			setupMocks: func(r *resources, roomID model.RoomID) {
				r.roomRepo.On("Get", r.ctx, roomID).Return(model.Room{Revealed: true, Round: 2}, nil).Once()
				r.votes.On("DeleteAll", r.ctx, roomID).Return(nil).Once()
				r.players.On("ClearVotedAll", r.ctx, roomID).Return(nil).Once()
				r.roomRepo.On("SetRound", r.ctx, roomID, 3, false).Return(nil).Once()
			},
			expectError: false,
		},
		{
			name: "Should do nothing for missing room",
			setupMocks: func(r *resources, roomID model.RoomID) {
				r.roomRepo.On("Get", r.ctx, roomID).Return(model.Room{}, ErrResourceNotFound).Once()
			},
			expectError: false,
		},
		{
			name: "Should stop when deleting votes fails",
			setupMocks: func(r *resources, roomID model.RoomID) {
				r.roomRepo.On("Get", r.ctx, roomID).Return(model.Room{Round: 1}, nil).Once()
				r.votes.On("DeleteAll", r.ctx, roomID).Return(ErrInternal).Once()
			},
			expectError:   true,
			expectedError: ErrInternal,
		},
		{
			name: "Should stop when clearing voted flags fails",
			setupMocks: func(r *resources, roomID model.RoomID) {
				r.roomRepo.On("Get", r.ctx, roomID).Return(model.Room{Round: 1}, nil).Once()
				r.votes.On("DeleteAll", r.ctx, roomID).Return(nil).Once()
				r.players.On("ClearVotedAll", r.ctx, roomID).Return(ErrInternal).Once()
			},
			expectError:   true,
			expectedError: ErrInternal,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initResources(t)
			roomID := validRoomID()
			tc.setupMocks(r, roomID)

			err := r.usecase.Reset(r.ctx, roomID)

			if tc.expectError {
				assert.ErrorIs(t, err, tc.expectedError)
			} else {
				assert.NoError(t, err)
			}
			r.roomRepo.AssertExpectations(t)
			r.players.AssertExpectations(t)
			r.votes.AssertExpectations(t)
		})
	}
}

func TestUnitSuite(t *testing.T) {
	suite.RunSuite(t, new(UsecaseRoomUnitSuite))
}
