// Package timing converts between tick counts and real time.
// A tick is 1/6 of a quarter note, so durations quantize coarsely
// compared to typical SMF resolutions.
package timing

import (
	"time"

	"github.com/sarukas/midi2text/util"
)

const (
	// PPQN is the number of ticks per quarter note.
	PPQN = 6

	MicrosPerMinute = 60_000_000

	// MinTicks and MaxTicks bound quantized durations. Very long
	// held notes saturate at MaxTicks (4 quarter notes) so notation
	// stays readable.
	MinTicks = 1
	MaxTicks = 24
)

// TickMicros returns the duration of one tick in microseconds,
// integer-truncated. At 120 BPM a tick is 83333us (~83ms).
func TickMicros(bpm int) int64 {
	return int64(MicrosPerMinute/bpm) / PPQN
}

func TicksToMicros(ticks int, bpm int) int64 {
	return int64(ticks) * TickMicros(bpm)
}

// MicrosToTicks quantizes an elapsed duration to ticks, rounding to
// the nearest tick and clamping to [MinTicks, MaxTicks].
func MicrosToTicks(elapsedMicros int64, bpm int) int {
	tick := TickMicros(bpm)
	ticks := int((elapsedMicros + tick/2) / tick)
	return util.Clamp(ticks, MinTicks, MaxTicks)
}

func TickDuration(bpm int) time.Duration {
	return time.Duration(TickMicros(bpm)) * time.Microsecond
}
