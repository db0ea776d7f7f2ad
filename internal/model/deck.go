package model

// BreakCard is the non-estimate card at the end of the deck.
const BreakCard = "☕"

// Deck is the fixed, ordered set of selectable card values.
var Deck = []string{"0.5", "1", "2", "3", "5", "8", "13", "20", "40", "100", "?", BreakCard}

func InDeck(value string) bool {
	for _, v := range Deck {
		if v == value {
			return true
		}
	}
	return false
}
