package notation

import (
	"strings"

	"github.com/sarukas/midi2text/model"
)

// Token renders a single event: note name plus one dot per tick, or
// one dash per tick for rests.
func Token(ev model.TimedEvent) string {
	switch e := ev.(type) {
	case model.NoteEvent:
		return e.Pitch.String() + strings.Repeat(".", e.Ticks)
	case model.RestEvent:
		return strings.Repeat("-", e.Ticks)
	}
	return ""
}

// Render joins event tokens with single spaces.
func Render(events []model.TimedEvent) string {
	tokens := make([]string, 0, len(events))
	for _, ev := range events {
		tokens = append(tokens, Token(ev))
	}
	return strings.Join(tokens, " ")
}
