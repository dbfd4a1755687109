// ABOUTME: Entry point for the claude-web command line client
// ABOUTME: Talks to claude.ai with a browser session key

package main

import (
	"os"

	"github.com/fatih/color"
)

const banner = `
      _                 _                         _
  ___| | __ _ _   _  __| | ___    __      _____| |__
 / __| |/ _' | | | |/ _' |/ _ \___\ \ /\ / / _ \ '_ \
| (__| | (_| | |_| | (_| |  __/____\ V  V /  __/ |_) |
 \___|_|\__,_|\__,_|\__,_|\___|     \_/\_/ \___|_.__/
`

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}
