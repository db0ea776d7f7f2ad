// Typed Room/Player/Vote drivers over the generic document store. The
// collection layout below is the de facto wire contract between
// clients; there is no server in between to renegotiate it.
package infra_docstore

import (
	"github.com/RECTo0/PokerPlanning/internal/model"
	"github.com/RECTo0/PokerPlanning/internal/store"
)

const roomsCollection = "rooms"

func playersCollection(roomID model.RoomID) string {
	return "rooms/" + string(roomID) + "/players"
}

func votesCollection(roomID model.RoomID) string {
	return "rooms/" + string(roomID) + "/votes"
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

// asInt tolerates the numeric types JSON round-trips produce.
func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

// relay decodes raw store snapshots onto a typed channel, coalescing so
// a slow consumer always observes the newest state.
func relay[R, T any](raw <-chan R, unsub store.UnsubscribeFunc, decode func(R) (T, bool)) (<-chan T, store.UnsubscribeFunc) {
	out := make(chan T, 1)
	go func() {
		defer close(out)
		for state := range raw {
			v, ok := decode(state)
			if !ok {
				continue
			}
			for {
				select {
				case out <- v:
				default:
					select {
					case <-out:
					default:
					}
					continue
				}
				break
			}
		}
	}()
	return out, unsub
}
