package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var root = &cobra.Command{
		Use:   "podbotnik",
		Short: "Ask questions about your podcast library",
	}

	root.AddCommand(serveCMD(), askCMD(), chatCMD(), episodesCMD(), searchCMD(), transcribeCMD())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
