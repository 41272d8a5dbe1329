package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sarukas/midi2text/constants"
	"github.com/sarukas/midi2text/encoder"
	"github.com/sarukas/midi2text/model"
	"github.com/sarukas/midi2text/notation"
	"github.com/spf13/cobra"
)

var (
	encodeChannel  int
	encodeVelocity int
	encodeNoteOff  string
	encodeBPM      int
)

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().IntVar(&encodeChannel, "channel", constants.DefaultChannel, "MIDI channel (1-16)")
	encodeCmd.Flags().IntVar(&encodeVelocity, "velocity", constants.DefaultVelocity, "note velocity (0-127)")
	encodeCmd.Flags().StringVar(&encodeNoteOff, "note-off", constants.DefaultNoteOff, "note-off handling: on, off, auto or timed")
	encodeCmd.Flags().IntVar(&encodeBPM, "bpm", constants.DefaultBPM, "beats per minute (30-300)")
}

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Convert notation from stdin to MIDI hex",
	Long: `Reads notation from stdin and writes the MIDI byte sequence to
stdout as space-separated two-digit hex octets, e.g. "90 3C 40".

Example:
  echo "C4... D4... E4..." | midi2text encode --channel 1 --note-off auto`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return encode(cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func validateEncodeFlags() (encoder.Policy, error) {
	if encodeChannel < 1 || encodeChannel > 16 {
		return 0, fmt.Errorf("MIDI channel must be between 1 and 16, got %d", encodeChannel)
	}
	if encodeVelocity < 0 || encodeVelocity > 127 {
		return 0, fmt.Errorf("velocity must be between 0 and 127, got %d", encodeVelocity)
	}
	if encodeBPM < 30 || encodeBPM > 300 {
		return 0, fmt.Errorf("BPM must be between 30 and 300, got %d", encodeBPM)
	}
	return encoder.ParsePolicy(encodeNoteOff)
}

func encode(in io.Reader, out io.Writer) error {
	policy, err := validateEncodeFlags()
	if err != nil {
		return err
	}

	text, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("could not read stdin: %w", err)
	}

	events, skipped, err := notation.Parse(string(text))
	for _, skip := range skipped {
		fmt.Fprintf(os.Stderr, "Error: %v\n", skip)
	}
	if err != nil {
		return err
	}

	enc := encoder.Encoder{
		Channel:  uint8(encodeChannel - 1),
		Velocity: uint8(encodeVelocity),
		BPM:      encodeBPM,
		Policy:   policy,
	}
	fmt.Fprintln(out, encoder.RenderHex(enc.Encode(events)))
	return nil
}

// Encode parses and encodes notation with the given settings. Used by
// the play command and end-to-end tests.
func Encode(text string, channel, velocity, bpm int, policy encoder.Policy) ([]model.Element, []error, error) {
	events, skipped, err := notation.Parse(text)
	if err != nil {
		return nil, skipped, err
	}
	enc := encoder.Encoder{
		Channel:  uint8(channel - 1),
		Velocity: uint8(velocity),
		BPM:      bpm,
		Policy:   policy,
	}
	return enc.Encode(events), skipped, nil
}
