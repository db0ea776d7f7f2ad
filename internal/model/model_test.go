package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeRoomID(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected RoomID
	}{
		{name: "lowercases", input: "Sprint Planning", expected: "sprint-planning"},
		{name: "keeps allowed runes", input: "team-42_x", expected: "team-42_x"},
		{name: "replaces specials", input: "été #9!", expected: "-t---9-"},
		{name: "trims surrounding space", input: "  abc  ", expected: "abc"},
		{name: "empty stays empty", input: "", expected: EmptyRoomID},
		{name: "caps at 40", input: strings.Repeat("a", 64), expected: RoomID(strings.Repeat("a", 40))},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SanitizeRoomID(tc.input))
		})
	}
}

func TestSanitizeRoomIDIdempotent(t *testing.T) {
	inputs := []string{"Sprint Planning", "room-abc123", "été #9!", strings.Repeat("Z", 80), "a_b-c"}

	for _, input := range inputs {
		once := SanitizeRoomID(input)
		assert.Equal(t, once, SanitizeRoomID(string(once)), "input %q", input)
	}
}

func TestRandomRoomID(t *testing.T) {
	id := RandomRoomID()

	assert.Len(t, string(id), len("room-")+6)
	assert.True(t, strings.HasPrefix(string(id), "room-"))
	assert.Equal(t, id, SanitizeRoomID(string(id)), "random ids are already sanitized")
}

func TestNewParticipantID(t *testing.T) {
	seen := make(map[ParticipantID]struct{})
	for i := 0; i < 100; i++ {
		id := NewParticipantID()
		assert.NotEmpty(t, id)
		_, dup := seen[id]
		assert.False(t, dup, "duplicate participant id %s", id)
		seen[id] = struct{}{}
	}
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "Alice", SanitizeName("  Alice  "))
	assert.Equal(t, "", SanitizeName("   "))
	assert.Equal(t, strings.Repeat("n", 24), SanitizeName(strings.Repeat("n", 30)))

	// rune-aware cap, no torn UTF-8
	long := strings.Repeat("é", 30)
	assert.Equal(t, strings.Repeat("é", 24), SanitizeName(long))
}

func TestDeck(t *testing.T) {
	assert.Equal(t, []string{"0.5", "1", "2", "3", "5", "8", "13", "20", "40", "100", "?", BreakCard}, Deck)
	assert.True(t, InDeck("5"))
	assert.True(t, InDeck(BreakCard))
	assert.False(t, InDeck("4"))
	assert.False(t, InDeck(""))
}
