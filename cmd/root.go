package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "midi2text",
	Short: "Convert between text music notation and raw MIDI bytes",
	Long: `Convert between text music notation and raw MIDI channel-voice bytes.

Notation: note names with dot-encoded durations (C4... is C4 held for
3 ticks, 1 tick = 1/6 quarter note) and dash-encoded rests (--- is a
3-tick rest), tokens separated by spaces.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
