package notation

import (
	"fmt"
	"io"
	"time"

	"github.com/sarukas/midi2text/model"
	"github.com/sarukas/midi2text/timing"
)

// Transcriber renders decoded notes as they complete, one token per
// line so downstream pipelines see output incrementally. It inserts a
// rest token when the wall-clock gap since the previous note's
// completion is at least one tick.
type Transcriber struct {
	W   io.Writer
	BPM int

	lastEnd time.Time
	played  bool
}

func NewTranscriber(w io.Writer, bpm int) *Transcriber {
	return &Transcriber{W: w, BPM: bpm}
}

// NoteEnded is the decoder's note handler.
func (t *Transcriber) NoteEnded(ev model.NoteEvent, start, end time.Time) {
	if t.played {
		gap := start.Sub(t.lastEnd).Microseconds()
		if gap >= timing.TickMicros(t.BPM) {
			rest := model.RestEvent{Ticks: timing.MicrosToTicks(gap, t.BPM)}
			fmt.Fprintln(t.W, Token(rest))
		}
	}
	fmt.Fprintln(t.W, Token(ev))
	t.lastEnd = end
	t.played = true
}
