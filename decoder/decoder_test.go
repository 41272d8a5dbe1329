package decoder

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/sarukas/midi2text/model"
	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestSession(channelFilter int) (*Session, *fakeClock, *[]model.NoteEvent) {
	var events []model.NoteEvent
	s := NewSession(120, channelFilter, func(ev model.NoteEvent, start, end time.Time) {
		events = append(events, ev)
	})
	clock := &fakeClock{now: time.Unix(1000, 0)}
	s.Now = clock.Now
	return s, clock, &events
}

func feed(s *Session, data ...byte) {
	for _, b := range data {
		s.Feed(b)
	}
}

func TestDecodesNoteWithQuantizedDuration(t *testing.T) {
	s, clock, events := newTestSession(0)

	feed(s, 0x90, 0x3C, 0x40)
	clock.advance(250 * time.Millisecond)
	feed(s, 0x80, 0x3C, 0x00)

	assert := assert.New(t)
	assert.Len(*events, 1)
	assert.Equal("C4", (*events)[0].Pitch.String())
	assert.Equal(3, (*events)[0].Ticks)
}

func TestLongNoteSaturatesAt24Ticks(t *testing.T) {
	s, clock, events := newTestSession(0)

	feed(s, 0x90, 0x3C, 0x40)
	clock.advance(3 * time.Second)
	feed(s, 0x80, 0x3C, 0x00)

	assert.Len(t, *events, 1)
	assert.Equal(t, 24, (*events)[0].Ticks)
}

func TestRunningStatusOmitsRepeatedStatusByte(t *testing.T) {
	s, clock, events := newTestSession(0)

	// 90 3C 40, then 3E 40 under running status
	feed(s, 0x90, 0x3C, 0x40)
	feed(s, 0x3E, 0x40)
	clock.advance(100 * time.Millisecond)
	// both ended under running status too: velocity 0 means NoteOff
	feed(s, 0x3C, 0x00)
	feed(s, 0x3E, 0x00)

	assert := assert.New(t)
	assert.Len(*events, 2)
	assert.Equal("C4", (*events)[0].Pitch.String())
	assert.Equal("D4", (*events)[1].Pitch.String())
}

func TestNotesEmittedImmediatelyNotBatched(t *testing.T) {
	s, clock, events := newTestSession(0)

	feed(s, 0x90, 0x3C, 0x40)
	clock.advance(100 * time.Millisecond)
	feed(s, 0x80, 0x3C, 0x00)
	assert.Len(t, *events, 1)

	feed(s, 0x90, 0x3E, 0x40)
	clock.advance(100 * time.Millisecond)
	feed(s, 0x80, 0x3E, 0x00)
	assert.Len(t, *events, 2)
}

func TestUnmatchedNoteOffIsIgnored(t *testing.T) {
	s, _, events := newTestSession(0)

	feed(s, 0x80, 0x3C, 0x00)

	assert.Empty(t, *events)
}

func TestChannelFilterDropsOtherChannels(t *testing.T) {
	s, clock, events := newTestSession(2)

	// channel 1 (0x90) is filtered out, channel 2 (0x91) passes
	feed(s, 0x90, 0x3C, 0x40)
	feed(s, 0x91, 0x3E, 0x40)
	clock.advance(100 * time.Millisecond)
	feed(s, 0x80, 0x3C, 0x00)
	feed(s, 0x81, 0x3E, 0x00)

	assert := assert.New(t)
	assert.Len(*events, 1)
	assert.Equal("D4", (*events)[0].Pitch.String())
}

func TestRetriggerOverwritesStartTime(t *testing.T) {
	s, clock, events := newTestSession(0)

	feed(s, 0x90, 0x3C, 0x40)
	clock.advance(2 * time.Second)
	// retrigger resets the start; only the second press is measured
	feed(s, 0x90, 0x3C, 0x40)
	clock.advance(250 * time.Millisecond)
	feed(s, 0x80, 0x3C, 0x00)

	assert.Len(t, *events, 1)
	assert.Equal(t, 3, (*events)[0].Ticks)
}

func TestResynchronizesOnStatusByteMidMessage(t *testing.T) {
	s, clock, events := newTestSession(0)

	// a truncated message: status and one data byte, then a fresh
	// status byte restarts capture
	feed(s, 0x90, 0x3C)
	feed(s, 0x90, 0x3E, 0x40)
	clock.advance(100 * time.Millisecond)
	feed(s, 0x80, 0x3E, 0x00)

	assert := assert.New(t)
	assert.Len(*events, 1)
	assert.Equal("D4", (*events)[0].Pitch.String())
}

func TestDiscardsDataBytesWithoutStatus(t *testing.T) {
	s, clock, events := newTestSession(0)

	// stream joined mid-message: stray data bytes, then a clean note
	feed(s, 0x3C, 0x40, 0x7F)
	feed(s, 0x90, 0x3C, 0x40)
	clock.advance(100 * time.Millisecond)
	feed(s, 0x80, 0x3C, 0x00)

	assert.Len(t, *events, 1)
}

func TestUnmodeledStatusFamilyIsIgnored(t *testing.T) {
	s, clock, events := newTestSession(0)

	// a control change and its data bytes must not disturb note state
	feed(s, 0x90, 0x3C, 0x40)
	feed(s, 0xB0, 0x07, 0x64)
	clock.advance(100 * time.Millisecond)
	feed(s, 0x80, 0x3C, 0x00)

	assert := assert.New(t)
	assert.Len(*events, 1)
	assert.Equal("C4", (*events)[0].Pitch.String())
}

func TestFlushEmitsActiveNotesExactlyOnce(t *testing.T) {
	s, clock, events := newTestSession(0)

	feed(s, 0x90, 0x3C, 0x40)
	feed(s, 0x90, 0x40, 0x40)
	clock.advance(250 * time.Millisecond)

	s.Flush(clock.Now())
	assert.Len(t, *events, 2)
	for _, ev := range *events {
		assert.Equal(t, 3, ev.Ticks)
	}

	s.Flush(clock.Now())
	assert.Len(t, *events, 2)
}

func TestRunFlushesOnEOF(t *testing.T) {
	var events []model.NoteEvent
	s := NewSession(120, 0, func(ev model.NoteEvent, start, end time.Time) {
		events = append(events, ev)
	})

	// note-on with no matching note-off before the stream ends
	err := s.Run(context.Background(), bytes.NewReader([]byte{0x90, 0x3C, 0x40}))

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(events, 1)
	assert.Equal("C4", events[0].Pitch.String())
	assert.Equal(1, events[0].Ticks) // near-zero elapsed clamps to 1
}

func TestRunFlushesOnCancellation(t *testing.T) {
	var events []model.NoteEvent
	s := NewSession(120, 0, func(ev model.NoteEvent, start, end time.Time) {
		events = append(events, ev)
	})

	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, pr)
	}()

	_, err := pw.Write([]byte{0x90, 0x3C, 0x40})
	assert.NoError(t, err)

	// give the read loop a moment to consume the bytes, then cancel
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	assert.Len(t, events, 1)
	assert.Equal(t, "C4", events[0].Pitch.String())
}
