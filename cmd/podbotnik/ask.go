package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mohammad-safakhou/podbotnik/config"
)

func askCMD() *cobra.Command {
	var cfgPath string
	var transcripts string
	var maxSegments int
	var asJSON bool
	var ask = &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask a single question and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)

			bot, err := newChatbot(cmd.Context(), cfg, transcripts, true)
			if err != nil {
				return err
			}

			question := strings.Join(args, " ")
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.LLM.Timeout)
			defer cancel()
			ans, err := bot.AnswerQuestion(ctx, question, maxSegments)
			if err != nil {
				return err
			}

			if asJSON {
				out, err := json.MarshalIndent(ans, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}
			printAnswer(ans)
			return nil
		},
	}
	ask.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./podbotnik.yaml)")
	ask.Flags().StringVarP(&transcripts, "transcripts", "t", "", "transcripts location, path or s3:// (overrides config)")
	ask.Flags().IntVarP(&maxSegments, "max-segments", "n", 0, "number of source segments to retrieve (default from config)")
	ask.Flags().BoolVar(&asJSON, "json", false, "print the raw answer JSON")

	return ask
}
