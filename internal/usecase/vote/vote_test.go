package usecase_vote

import (
	"context"
	"testing"

	infra_docstore "github.com/RECTo0/PokerPlanning/internal/infra/docstore"
	infra_memstore "github.com/RECTo0/PokerPlanning/internal/infra/memstore"
	"github.com/RECTo0/PokerPlanning/internal/model"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type UsecaseVoteSuite struct {
	suite.Suite
}

type resources struct {
	usecase *Usecase
	votes   *infra_docstore.VoteDriver
	players *infra_docstore.PlayerDriver
	roomID  model.RoomID
	ctx     context.Context
}

func initResources(_ provider.T) *resources {
	mem := infra_memstore.New()
	votes := infra_docstore.NewVote(mem)
	players := infra_docstore.NewPlayer(mem)

	return &resources{
		usecase: New(votes, players),
		votes:   votes,
		players: players,
		roomID:  model.RoomID("sprint-planning"),
		ctx:     context.Background(),
	}
}

func playerCaster() model.Player {
	return model.Player{ID: model.NewParticipantID(), Name: "Alice", Role: model.RolePlayer}
}

func (suite *UsecaseVoteSuite) TestCast(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		caster        func() model.Player
		revealed      bool
		value         string
		expectError   bool
		expectedError error
	}{
		{
			name:   "Should record a deck value while hidden",
			caster: playerCaster,
			value:  "5",
		},
		{
			name:   "Should accept the break card",
			caster: playerCaster,
			value:  model.BreakCard,
		},
		{
			name: "Should refuse observers",
			caster: func() model.Player {
				p := playerCaster()
				p.Role = model.RoleObserver
				return p
			},
			value:         "5",
			expectError:   true,
			expectedError: ErrObserverCannotVote,
		},
		{
			name:          "Should refuse votes on a revealed round",
			caster:        playerCaster,
			revealed:      true,
			value:         "5",
			expectError:   true,
			expectedError: ErrRoundRevealed,
		},
		{
			name:          "Should refuse values outside the deck",
			caster:        playerCaster,
			value:         "4",
			expectError:   true,
			expectedError: ErrUnknownCard,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initResources(t)
			caster := tc.caster()
			require.NoError(t, r.players.Upsert(r.ctx, r.roomID, caster))

			err := r.usecase.Cast(r.ctx, r.roomID, caster, tc.revealed, tc.value)

			if tc.expectError {
				assert.ErrorIs(t, err, tc.expectedError)

				votes, listErr := r.votes.List(r.ctx, r.roomID)
				require.NoError(t, listErr)
				assert.Empty(t, votes, "rejected casts leave no vote document")
				return
			}

			require.NoError(t, err)

			votes, err := r.votes.List(r.ctx, r.roomID)
			require.NoError(t, err)
			require.Len(t, votes, 1)
			assert.Equal(t, caster.ID, votes[0].PlayerID)
			assert.Equal(t, tc.value, votes[0].Value)

			roster, err := r.players.List(r.ctx, r.roomID)
			require.NoError(t, err)
			require.Len(t, roster, 1)
			assert.True(t, roster[0].HasVoted)
		})
	}
}

func (suite *UsecaseVoteSuite) TestCastOverwritesOwnVote(t provider.T) {
	t.Parallel()
	r := initResources(t)
	caster := playerCaster()
	require.NoError(t, r.players.Upsert(r.ctx, r.roomID, caster))

	require.NoError(t, r.usecase.Cast(r.ctx, r.roomID, caster, false, "3"))
	require.NoError(t, r.usecase.Cast(r.ctx, r.roomID, caster, false, "8"))

	votes, err := r.votes.List(r.ctx, r.roomID)
	require.NoError(t, err)
	require.Len(t, votes, 1, "one vote document per participant")
	assert.Equal(t, "8", votes[0].Value)
}

func TestVoteSuite(t *testing.T) {
	suite.RunSuite(t, new(UsecaseVoteSuite))
}
