package model

import "fmt"

type Accidental int

const (
	Natural Accidental = iota
	Sharp
	Flat
)

// semitone offset of each letter within an octave, C-based
var letterSemitones = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// names used when converting MIDI numbers back to text (sharps only)
var sharpNames = [12]string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}

type Pitch struct {
	Letter     byte
	Accidental Accidental
	Octave     int
}

// Number returns the MIDI note number, middle C (C4) = 60.
// The result is only meaningful for letters A-G and may fall
// outside [0, 127]; callers validate with InRange.
func (p Pitch) Number() int {
	n := letterSemitones[p.Letter]
	switch p.Accidental {
	case Sharp:
		n++
	case Flat:
		n--
	}
	return n + (p.Octave+1)*12
}

func (p Pitch) InRange() bool {
	n := p.Number()
	return n >= 0 && n <= 127
}

func (p Pitch) String() string {
	acc := ""
	switch p.Accidental {
	case Sharp:
		acc = "#"
	case Flat:
		acc = "b"
	}
	return fmt.Sprintf("%c%s%d", p.Letter, acc, p.Octave)
}

// PitchFromNumber converts a MIDI note number to a pitch,
// naming black keys with sharps.
func PitchFromNumber(num uint8) Pitch {
	name := sharpNames[num%12]
	p := Pitch{Letter: name[0], Octave: int(num)/12 - 1}
	if len(name) > 1 {
		p.Accidental = Sharp
	}
	return p
}
