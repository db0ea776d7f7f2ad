// Package tally turns a revealed vote snapshot into the outcome every
// client renders: unanimous or split, rows joined with player names,
// matching values grouped and colored.
package tally

import (
	"fmt"
	"sort"
	"strings"

	"github.com/RECTo0/PokerPlanning/internal/model"
)

// NoValuePlaceholder stands in for vote documents without a value.
const NoValuePlaceholder = "—"

type Outcome string

const (
	OutcomeUnanimous Outcome = "unanimous"
	OutcomeSplit     Outcome = "split"
)

// Classify is unanimous only for a non-empty set with exactly one
// distinct value. An empty round counts as split.
func Classify(values []string) Outcome {
	distinct := make(map[string]struct{}, len(values))
	for _, v := range values {
		distinct[normalize(v)] = struct{}{}
	}
	if len(distinct) == 1 {
		return OutcomeUnanimous
	}
	return OutcomeSplit
}

func normalize(value string) string {
	if value == "" {
		return NoValuePlaceholder
	}
	return value
}

// HueFor hashes a card value to a hue. Pure: every client derives the
// same hue for the same value, no coordination needed.
func HueFor(value string) int {
	var h uint32
	for i := 0; i < len(value); i++ {
		h = h*31 + uint32(value[i])
	}
	return int(h % 360)
}

func ColorFor(value string) string {
	return fmt.Sprintf("hsl(%d 70%% 60%% / 0.45)", HueFor(value))
}

// Card is one revealed vote joined with its player.
type Card struct {
	PlayerID model.ParticipantID `json:"playerId"`
	Name     string              `json:"name"`
	Value    string              `json:"value"`
	Matched  bool                `json:"matched"`
	Color    string              `json:"color,omitempty"`
}

type Board struct {
	Outcome Outcome        `json:"outcome"`
	Cards   []Card         `json:"cards"`
	Counts  map[string]int `json:"counts"`
}

// BuildBoard joins votes with player names (unresolved ids fall back to
// the raw id), sorts case-insensitively by resolved name and marks any
// value shared by two or more participants as matched.
func BuildBoard(votes []model.Vote, players []model.Player) Board {
	nameByID := make(map[model.ParticipantID]string, len(players))
	for _, p := range players {
		if p.Name != "" {
			nameByID[p.ID] = p.Name
		}
	}

	values := make([]string, 0, len(votes))
	counts := make(map[string]int, len(votes))
	for _, v := range votes {
		value := normalize(v.Value)
		values = append(values, value)
		counts[value]++
	}

	cards := make([]Card, 0, len(votes))
	for _, v := range votes {
		value := normalize(v.Value)
		name, ok := nameByID[v.PlayerID]
		if !ok {
			name = string(v.PlayerID)
		}
		card := Card{
			PlayerID: v.PlayerID,
			Name:     name,
			Value:    value,
			Matched:  counts[value] >= 2,
		}
		if card.Matched {
			card.Color = ColorFor(value)
		}
		cards = append(cards, card)
	}
	sort.SliceStable(cards, func(i, j int) bool {
		return strings.ToLower(cards[i].Name) < strings.ToLower(cards[j].Name)
	})

	return Board{
		Outcome: Classify(values),
		Cards:   cards,
		Counts:  counts,
	}
}
