// Package decoder reconstructs notation events from an unbounded raw
// MIDI byte stream. It is a small state machine over channel-voice
// bytes: it honors running status, tracks concurrently held notes,
// and resynchronizes itself after any desync instead of failing.
package decoder

import (
	"context"
	"io"
	"time"

	"github.com/sarukas/midi2text/model"
	"github.com/sarukas/midi2text/timing"
)

type state int

const (
	awaitingStatus state = iota
	awaitingData1
	awaitingData2
)

// NoteHandler receives each note the moment its NoteOff completes it,
// with the quantized duration already applied. start and end are the
// wall-clock bounds of the note; the transcriber uses them for rest
// detection.
type NoteHandler func(ev model.NoteEvent, start, end time.Time)

// Session decodes one stream. It owns the active-note table and is
// not safe for concurrent readers; decoding multiple channels
// concurrently would need one session per channel, since note numbers
// are only unique within a channel.
type Session struct {
	BPM           int
	ChannelFilter int // 0 = all channels, 1-16 = that channel only
	Handler       NoteHandler
	Now           func() time.Time

	state   state
	kind    model.MessageKind
	channel uint8
	note    uint8

	active  map[uint8]time.Time // note number -> start time
	flushed bool
}

func NewSession(bpm int, channelFilter int, handler NoteHandler) *Session {
	return &Session{
		BPM:           bpm,
		ChannelFilter: channelFilter,
		Handler:       handler,
		Now:           time.Now,
		active:        make(map[uint8]time.Time),
	}
}

// Feed advances the state machine by one byte.
func (s *Session) Feed(b byte) {
	if b&0x80 != 0 {
		// A status byte always restarts message capture, even when a
		// data byte was expected. That is what lets the decoder
		// resynchronize after dropping into the middle of a stream.
		switch model.MessageKind(b & 0xF0) {
		case model.NoteOn, model.NoteOff:
			s.kind = model.MessageKind(b & 0xF0)
			s.channel = b & 0x0F
			s.state = awaitingData1
		default:
			// unmodeled status family; discard until the next
			// NoteOn/NoteOff status byte
			s.state = awaitingStatus
		}
		return
	}

	switch s.state {
	case awaitingStatus:
		// data byte with no usable status, drop it
	case awaitingData1:
		s.note = b
		s.state = awaitingData2
	case awaitingData2:
		s.dispatch(s.note, b)
		// back to awaitingData1: running status lets the next message
		// of the same kind/channel omit its status byte
		s.state = awaitingData1
	}
}

func (s *Session) dispatch(note, velocity uint8) {
	if s.ChannelFilter != 0 && int(s.channel)+1 != s.ChannelFilter {
		return
	}

	now := s.Now()
	if s.kind == model.NoteOn && velocity > 0 {
		// retriggering an already-active note overwrites its start
		s.active[note] = now
		return
	}

	// NoteOff, or NoteOn with velocity 0 which means the same thing
	s.complete(note, now)
}

func (s *Session) complete(note uint8, end time.Time) {
	start, ok := s.active[note]
	if !ok {
		// unmatched NoteOff, nothing to do
		return
	}
	delete(s.active, note)

	ticks := timing.MicrosToTicks(end.Sub(start).Microseconds(), s.BPM)
	if s.Handler != nil {
		s.Handler(model.NoteEvent{Pitch: model.PitchFromNumber(note), Ticks: ticks}, start, end)
	}
}

// Flush completes every still-active note against at. It runs at most
// once per session; later calls are no-ops.
func (s *Session) Flush(at time.Time) {
	if s.flushed {
		return
	}
	s.flushed = true

	// map iteration order is arbitrary, which is fine: these notes
	// were all cut off at the same instant
	for note := range s.active {
		s.complete(note, at)
	}
}

// Run reads r one byte at a time until EOF or ctx cancellation,
// whichever comes first, then flushes the active-note table exactly
// once. Completed notes reach the handler as they finish, not at
// stream end.
//
// On cancellation Run returns without waiting for the blocked Read to
// come back; the reader goroutine stays parked inside r.Read until one
// more byte (or an error) arrives and is then discarded. Callers that
// want to reuse r afterwards must account for that pending read.
func (s *Session) Run(ctx context.Context, r io.Reader) error {
	bytes := make(chan byte, 64)
	readErr := make(chan error, 1)

	go func() {
		defer close(bytes)
		buf := make([]byte, 1)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				select {
				case bytes <- buf[0]:
				case <-ctx.Done():
					readErr <- nil
					return
				}
			}
			if err == io.EOF {
				readErr <- nil
				return
			}
			if err != nil {
				readErr <- err
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			s.Flush(s.Now())
			return nil
		case b, ok := <-bytes:
			if !ok {
				s.Flush(s.Now())
				return <-readErr
			}
			s.Feed(b)
		}
	}
}
