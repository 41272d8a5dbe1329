package model

type MessageKind uint8

// MIDI channel-voice status nibbles
const (
	NoteOn  MessageKind = 0x90
	NoteOff MessageKind = 0x80
)

// Element is one item of an encoded sequence: either a wire message
// or an advisory delay that never reaches the wire itself.
type Element interface {
	element()
}

// Message is a single channel-voice message (NoteOn/NoteOff only).
type Message struct {
	Kind     MessageKind
	Channel  uint8 // 0-15
	Note     uint8 // 0-127
	Velocity uint8 // 0-127
}

// Delay tells a downstream scheduler to wait before consuming the
// next element. Rest marks delays that came from rest tokens rather
// than held notes.
type Delay struct {
	Micros int64
	Rest   bool
}

func (Message) element() {}
func (Delay) element()   {}

func (m Message) Status() uint8 {
	return uint8(m.Kind) | m.Channel&0x0F
}

func (m Message) Bytes() [3]byte {
	return [3]byte{m.Status(), m.Note, m.Velocity}
}
