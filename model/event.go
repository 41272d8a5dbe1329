package model

// TimedEvent is one notation token: a pitched note or a rest, with a
// duration in ticks (1 tick = 1/6 quarter note). Ticks is always >= 1.
type TimedEvent interface {
	timedEvent()
}

type NoteEvent struct {
	Pitch Pitch
	Ticks int
}

type RestEvent struct {
	Ticks int
}

func (NoteEvent) timedEvent() {}
func (RestEvent) timedEvent() {}
