package main

import "github.com/sarukas/midi2text/cmd"

func main() {
	cmd.Execute()
}
