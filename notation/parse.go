// Package notation parses and renders the text melody format: note
// tokens like C4, F#5.., Bb3... where each trailing dot is one tick
// of duration, and rest tokens like --- where each dash is one tick.
package notation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sarukas/midi2text/model"
)

var (
	noteRe = regexp.MustCompile(`^([A-G])(#|B)?([0-9])(\.*)$`)
	restRe = regexp.MustCompile(`^-+$`)
)

// ErrNoValidEvents is returned when the whole input produced nothing
// parseable. Individual bad tokens are skipped, not fatal.
var ErrNoValidEvents = errors.New("no valid notes found in input")

type InvalidTokenError struct {
	Token string
}

func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("invalid note format %q: use format like C4, F#5.., Bb3..., or --- for rests", e.Token)
}

type OutOfRangeError struct {
	Token  string
	Number int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("note %q is out of MIDI range (0-127): %d", e.Token, e.Number)
}

// Parse converts notation text into timed events. Tokens that fail to
// parse are skipped and reported in the second return value; err is
// non-nil only when the entire input yields zero valid events.
func Parse(text string) (events []model.TimedEvent, skipped []error, err error) {
	for _, token := range strings.Fields(text) {
		if restRe.MatchString(token) {
			events = append(events, model.RestEvent{Ticks: len(token)})
			continue
		}

		m := noteRe.FindStringSubmatch(strings.ToUpper(token))
		if m == nil {
			skipped = append(skipped, &InvalidTokenError{Token: token})
			continue
		}

		pitch := model.Pitch{Letter: m[1][0]}
		switch m[2] {
		case "#":
			pitch.Accidental = model.Sharp
		case "B":
			pitch.Accidental = model.Flat
		}
		pitch.Octave, _ = strconv.Atoi(m[3])

		if !pitch.InRange() {
			skipped = append(skipped, &OutOfRangeError{Token: token, Number: pitch.Number()})
			continue
		}

		ticks := len(m[4])
		if ticks == 0 {
			ticks = 1
		}
		events = append(events, model.NoteEvent{Pitch: pitch, Ticks: ticks})
	}

	if len(events) == 0 {
		return nil, skipped, ErrNoValidEvents
	}
	return events, skipped, nil
}
