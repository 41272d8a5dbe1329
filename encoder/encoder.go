// Package encoder turns timed events into ordered MIDI messages and
// advisory delay markers, according to a note-off policy.
package encoder

import (
	"fmt"

	"github.com/sarukas/midi2text/model"
	"github.com/sarukas/midi2text/timing"
)

// Policy decides when NoteOff messages are emitted relative to their
// NoteOn. The set is closed; encoders match it exhaustively.
type Policy int

const (
	// Suppressed emits NoteOn only and discards durations.
	Suppressed Policy = iota
	// Deferred emits every NoteOn in order, then every NoteOff in
	// the same order at the end of the sequence.
	Deferred
	// Immediate emits each NoteOn immediately followed by its
	// NoteOff (zero-duration trigger).
	Immediate
	// ExternalTimed emits NoteOn, an advisory delay of the note's
	// duration, then NoteOff. A downstream scheduler must honor the
	// delay before consuming the NoteOff.
	ExternalTimed
)

// ParsePolicy maps the CLI note-off modes to policies.
func ParsePolicy(mode string) (Policy, error) {
	switch mode {
	case "off":
		return Suppressed, nil
	case "on":
		return Deferred, nil
	case "auto":
		return Immediate, nil
	case "timed":
		return ExternalTimed, nil
	}
	return 0, fmt.Errorf("note-off mode must be 'on', 'off', 'auto', or 'timed', got %q", mode)
}

type Encoder struct {
	Channel  uint8 // 0-15
	Velocity uint8
	BPM      int
	Policy   Policy
}

// Encode produces the ordered message/delay sequence for events.
// Pitch range was already enforced by the parser; no validation
// happens here. Rests yield a delay under ExternalTimed and are
// dropped under the other policies, which carry no timing channel.
func (e *Encoder) Encode(events []model.TimedEvent) []model.Element {
	var out []model.Element
	var deferred []model.Element

	for _, ev := range events {
		switch t := ev.(type) {
		case model.RestEvent:
			if e.Policy == ExternalTimed {
				out = append(out, model.Delay{
					Micros: timing.TicksToMicros(t.Ticks, e.BPM),
					Rest:   true,
				})
			}

		case model.NoteEvent:
			note := uint8(t.Pitch.Number())
			on := model.Message{Kind: model.NoteOn, Channel: e.Channel, Note: note, Velocity: e.Velocity}
			off := model.Message{Kind: model.NoteOff, Channel: e.Channel, Note: note}

			switch e.Policy {
			case Suppressed:
				out = append(out, on)
			case Deferred:
				out = append(out, on)
				deferred = append(deferred, off)
			case Immediate:
				out = append(out, on, off)
			case ExternalTimed:
				out = append(out, on)
				out = append(out, model.Delay{Micros: timing.TicksToMicros(t.Ticks, e.BPM)})
				out = append(out, off)
			}
		}
	}

	return append(out, deferred...)
}
