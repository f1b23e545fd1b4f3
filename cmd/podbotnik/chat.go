package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mohammad-safakhou/podbotnik/config"
)

func chatCMD() *cobra.Command {
	var cfgPath string
	var transcripts string
	var chat = &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat about the loaded episodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)

			bot, err := newChatbot(cmd.Context(), cfg, transcripts, true)
			if err != nil {
				return err
			}

			fmt.Printf("Ready: %d episode(s) loaded.\n", bot.EpisodeCount())
			printEpisodes(bot.ListEpisodes())
			fmt.Println("\nType a question and press Enter. 'list' shows episodes, 'quit' or 'exit' leaves.")
			fmt.Println()

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print(labelColor("You: "))
				if !scanner.Scan() {
					break
				}
				question := strings.TrimSpace(scanner.Text())
				switch strings.ToLower(question) {
				case "":
					continue
				case "quit", "exit":
					return nil
				case "list":
					printEpisodes(bot.ListEpisodes())
					fmt.Println()
					continue
				}

				answerCtx, cancel := context.WithTimeout(cmd.Context(), cfg.LLM.Timeout)
				ans, err := bot.AnswerQuestion(answerCtx, question, 0)
				cancel()
				if err != nil {
					fmt.Fprintf(os.Stderr, "error: %v\n\n", err)
					continue
				}
				printAnswer(ans)
				fmt.Println()
			}
			return scanner.Err()
		},
	}
	chat.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./podbotnik.yaml)")
	chat.Flags().StringVarP(&transcripts, "transcripts", "t", "", "transcripts location, path or s3:// (overrides config)")

	return chat
}
