package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mohammad-safakhou/podbotnik/config"
)

func episodesCMD() *cobra.Command {
	var cfgPath string
	var transcripts string
	var episodes = &cobra.Command{
		Use:   "episodes",
		Short: "List episodes in the transcript corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)

			bot, err := newChatbot(cmd.Context(), cfg, transcripts, false)
			if err != nil {
				return err
			}

			eps := bot.ListEpisodes()
			printEpisodes(eps)
			fmt.Printf("\nTotal: %d episode(s)\n", len(eps))
			return nil
		},
	}
	episodes.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./podbotnik.yaml)")
	episodes.Flags().StringVarP(&transcripts, "transcripts", "t", "", "transcripts location, path or s3:// (overrides config)")

	return episodes
}
