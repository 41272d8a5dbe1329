package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

func init() {
	rootCmd.AddCommand(portsCmd)
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List available MIDI ports",
	Long:  `Lists the MIDI input and output ports the play command can target.`,
	Run: func(cmd *cobra.Command, args []string) {
		defer midi.CloseDriver()

		fmt.Println("MIDI inputs:")
		for _, p := range midi.GetInPorts() {
			fmt.Printf("  %d: %v\n", p.Number(), p.String())
		}
		fmt.Println("MIDI outputs:")
		for _, p := range midi.GetOutPorts() {
			fmt.Printf("  %d: %v\n", p.Number(), p.String())
		}
	},
}
