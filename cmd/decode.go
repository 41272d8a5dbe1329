package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sarukas/midi2text/constants"
	"github.com/sarukas/midi2text/decoder"
	"github.com/sarukas/midi2text/notation"
	"github.com/spf13/cobra"
)

var (
	decodeChannelFilter int
	decodeBPM           int
)

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().IntVar(&decodeChannelFilter, "channel", 0, "channel filter: 0 = all, 1-16 = specific channel")
	decodeCmd.Flags().IntVar(&decodeBPM, "bpm", constants.DefaultBPM, "beats per minute (30-300)")
}

var decodeCmd = &cobra.Command{
	Use:   "decode [device]",
	Short: "Convert raw MIDI input to notation in real time",
	Long: `Reads raw MIDI bytes from a rawmidi device (or stdin with "-") and
writes notation to stdout as notes complete, one token per line.

Examples:
  midi2text decode /dev/snd/midiC2D0 --channel 1
  cat /dev/snd/midiC2D0 | midi2text decode -`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		device := constants.GetDefaultDevice()
		if len(args) == 1 {
			device = args[0]
		}
		return decode(device)
	},
}

func validateDecodeFlags() error {
	if decodeChannelFilter < 0 || decodeChannelFilter > 16 {
		return fmt.Errorf("channel filter must be between 0 (all) and 16, got %d", decodeChannelFilter)
	}
	if decodeBPM < 30 || decodeBPM > 300 {
		return fmt.Errorf("BPM must be between 30 and 300, got %d", decodeBPM)
	}
	return nil
}

func openMidiSource(device string) (io.ReadCloser, error) {
	if device == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(device)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot open MIDI device %v: %v\n", device, err)
		fmt.Fprintln(os.Stderr, "Available MIDI devices:")
		candidates, _ := filepath.Glob("/dev/snd/midi*")
		if len(candidates) == 0 {
			fmt.Fprintln(os.Stderr, "  No MIDI devices found")
		}
		for _, c := range candidates {
			fmt.Fprintf(os.Stderr, "  %v\n", c)
		}
		return nil, err
	}
	return f, nil
}

func decode(device string) error {
	if err := validateDecodeFlags(); err != nil {
		return err
	}

	src, err := openMidiSource(device)
	if err != nil {
		return err
	}
	defer src.Close()

	filterLabel := "all"
	if decodeChannelFilter != 0 {
		filterLabel = fmt.Sprintf("%d", decodeChannelFilter)
	}
	fmt.Fprintf(os.Stderr, "Reading MIDI from %v (channel filter: %v)\n", device, filterLabel)
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	transcriber := notation.NewTranscriber(os.Stdout, decodeBPM)
	session := decoder.NewSession(decodeBPM, decodeChannelFilter, transcriber.NoteEnded)
	return session.Run(ctx, src)
}
