package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mohammad-safakhou/podbotnik/config"
)

func searchCMD() *cobra.Command {
	var cfgPath string
	var transcripts string
	var maxResults int
	var search = &cobra.Command{
		Use:   "search <query...>",
		Short: "Search transcripts without generating an answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)

			bot, err := newChatbot(cmd.Context(), cfg, transcripts, false)
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			results := bot.Search(query, maxResults)
			if len(results) == 0 {
				fmt.Println("No matching segments.")
				return nil
			}
			for i, r := range results {
				fmt.Printf("  [%d] %.3f | Episode #%d: %s @ %s\n", i+1, r.Score, r.EpisodeNumber, accentColor(r.Episode), r.Timestamp)
				fmt.Printf("      %s\n", r.Segment)
			}
			return nil
		},
	}
	search.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./podbotnik.yaml)")
	search.Flags().StringVarP(&transcripts, "transcripts", "t", "", "transcripts location, path or s3:// (overrides config)")
	search.Flags().IntVarP(&maxResults, "max-results", "n", 0, "number of hits to return (default from config)")

	return search
}
