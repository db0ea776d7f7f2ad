package tally

import (
	"testing"

	"github.com/RECTo0/PokerPlanning/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name     string
		values   []string
		expected Outcome
	}{
		{name: "single voter is unanimous", values: []string{"5"}, expected: OutcomeUnanimous},
		{name: "all equal is unanimous", values: []string{"8", "8", "8"}, expected: OutcomeUnanimous},
		{name: "mixed is split", values: []string{"3", "8"}, expected: OutcomeSplit},
		{name: "empty round is split", values: nil, expected: OutcomeSplit},
		{name: "question marks agree", values: []string{"?", "?"}, expected: OutcomeUnanimous},
		{name: "missing values collapse to placeholder", values: []string{"", ""}, expected: OutcomeUnanimous},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Classify(tc.values))
		})
	}
}

func TestHueFor(t *testing.T) {
	// h = h*31 + byte over uint32, reduced mod 360
	assert.Equal(t, int(uint32('5')%360), HueFor("5"))
	assert.Equal(t, int((uint32('1')*31+uint32('3'))%360), HueFor("13"))

	assert.Equal(t, HueFor("13"), HueFor("13"), "stable across calls")

	hue := HueFor("☕")
	assert.GreaterOrEqual(t, hue, 0)
	assert.Less(t, hue, 360)
}

func TestColorFor(t *testing.T) {
	assert.Contains(t, ColorFor("5"), "hsl(")
	assert.Contains(t, ColorFor("5"), "70% 60% / 0.45)")
}

func TestBuildBoard(t *testing.T) {
	players := []model.Player{
		{ID: "p1", Name: "zoe"},
		{ID: "p2", Name: "Adam"},
		{ID: "p3", Name: "mia"},
	}
	votes := []model.Vote{
		{PlayerID: "p1", Value: "5"},
		{PlayerID: "p2", Value: "5"},
		{PlayerID: "p3", Value: "8"},
	}

	board := BuildBoard(votes, players)

	assert.Equal(t, OutcomeSplit, board.Outcome)
	require.Len(t, board.Cards, 3)

	// sorted case-insensitively by name
	assert.Equal(t, "Adam", board.Cards[0].Name)
	assert.Equal(t, "mia", board.Cards[1].Name)
	assert.Equal(t, "zoe", board.Cards[2].Name)

	assert.True(t, board.Cards[0].Matched)
	assert.False(t, board.Cards[1].Matched)
	assert.True(t, board.Cards[2].Matched)

	assert.Equal(t, ColorFor("5"), board.Cards[0].Color)
	assert.Empty(t, board.Cards[1].Color)

	assert.Equal(t, map[string]int{"5": 2, "8": 1}, board.Counts)
}

func TestBuildBoardUnknownPlayer(t *testing.T) {
	votes := []model.Vote{{PlayerID: "ghost", Value: "3"}}

	board := BuildBoard(votes, nil)

	require.Len(t, board.Cards, 1)
	assert.Equal(t, "ghost", board.Cards[0].Name, "unresolved ids fall back to the raw id")
	assert.Equal(t, OutcomeUnanimous, board.Outcome)
}

func TestBuildBoardMissingValue(t *testing.T) {
	players := []model.Player{{ID: "p1", Name: "Alice"}}
	votes := []model.Vote{{PlayerID: "p1", Value: ""}}

	board := BuildBoard(votes, players)

	require.Len(t, board.Cards, 1)
	assert.Equal(t, NoValuePlaceholder, board.Cards[0].Value)
	assert.Equal(t, 1, board.Counts[NoValuePlaceholder])
}
