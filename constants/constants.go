package constants

import "os"

const (
	DefaultChannel  = 1
	DefaultVelocity = 64
	DefaultBPM      = 120
	DefaultNoteOff  = "off"
)

func GetDefaultDevice() string {
	path := os.Getenv("MIDI_DEVICE")
	if path != "" {
		return path
	}
	return "/dev/snd/midiC2D0"
}
