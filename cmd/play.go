package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sarukas/midi2text/constants"
	"github.com/sarukas/midi2text/encoder"
	"github.com/sarukas/midi2text/model"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

var (
	playPort     string
	playChannel  int
	playVelocity int
	playBPM      int
)

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().StringVar(&playPort, "port", "", "MIDI output port name (default: first port)")
	playCmd.Flags().IntVar(&playChannel, "channel", constants.DefaultChannel, "MIDI channel (1-16)")
	playCmd.Flags().IntVar(&playVelocity, "velocity", constants.DefaultVelocity, "note velocity (0-127)")
	playCmd.Flags().IntVar(&playBPM, "bpm", constants.DefaultBPM, "beats per minute (30-300)")
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play notation from stdin on a MIDI output port",
	Long: `Reads notation from stdin, encodes it with timed note-offs and sends
the messages to a MIDI output port, sleeping through the delays.

Example:
  echo "C4... E4... G4......" | midi2text play --port "FLUID Synth"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return play(cmd.InOrStdin())
	},
}

func play(in io.Reader) error {
	if playChannel < 1 || playChannel > 16 {
		return fmt.Errorf("MIDI channel must be between 1 and 16, got %d", playChannel)
	}
	if playVelocity < 0 || playVelocity > 127 {
		return fmt.Errorf("velocity must be between 0 and 127, got %d", playVelocity)
	}
	if playBPM < 30 || playBPM > 300 {
		return fmt.Errorf("BPM must be between 30 and 300, got %d", playBPM)
	}

	text, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("could not read stdin: %w", err)
	}

	elements, skipped, err := Encode(string(text), playChannel, playVelocity, playBPM, encoder.ExternalTimed)
	for _, skip := range skipped {
		fmt.Fprintf(os.Stderr, "Error: %v\n", skip)
	}
	if err != nil {
		return err
	}

	defer midi.CloseDriver()

	var out drivers.Out
	if playPort != "" {
		out, err = midi.FindOutPort(playPort)
	} else {
		out, err = midi.OutPort(0)
	}
	if err != nil {
		return fmt.Errorf("could not open MIDI output: %w", err)
	}

	send, err := midi.SendTo(out)
	if err != nil {
		return err
	}

	for _, el := range elements {
		switch e := el.(type) {
		case model.Message:
			var msg midi.Message
			if e.Kind == model.NoteOn {
				msg = midi.NoteOn(e.Channel, e.Note, e.Velocity)
			} else {
				msg = midi.NoteOff(e.Channel, e.Note)
			}
			if err := send(msg); err != nil {
				return err
			}
		case model.Delay:
			time.Sleep(time.Duration(e.Micros) * time.Microsecond)
		}
	}
	return nil
}
