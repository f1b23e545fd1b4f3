package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mohammad-safakhou/podbotnik/config"
	"github.com/mohammad-safakhou/podbotnik/internal/transcribe"
	"github.com/mohammad-safakhou/podbotnik/models"
)

func transcribeCMD() *cobra.Command {
	var cfgPath string
	var id, title, videoURL, audioURL, out, fromText string
	var number int
	var tc = &cobra.Command{
		Use:   "transcribe <audio-file>",
		Short: "Transcribe an episode recording and add it to a corpus file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)
			if title == "" {
				return fmt.Errorf("--title is required")
			}

			var text string
			switch {
			case fromText != "":
				data, err := os.ReadFile(fromText)
				if err != nil {
					return fmt.Errorf("reading transcript file: %w", err)
				}
				text = string(data)
			case len(args) == 1:
				tr, err := transcribe.New(transcribe.Config{
					APIKey:  cfg.Transcribe.APIKey,
					BaseURL: cfg.Transcribe.BaseURL,
					Model:   cfg.Transcribe.Model,
				}, nil)
				if err != nil {
					return err
				}
				text, err = tr.Transcribe(cmd.Context(), args[0])
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("an audio file argument or --from-text is required")
			}

			if id == "" {
				id = transcribe.NewEpisodeID()
			}
			ep := models.Episode{
				ID:         id,
				Title:      title,
				Number:     number,
				Transcript: text,
				VideoURL:   videoURL,
				AudioURL:   audioURL,
			}

			if out != "" {
				if err := transcribe.AppendEpisode(out, ep); err != nil {
					return err
				}
				fmt.Printf("Saved %s (%s) to %s\n", id, title, out)
			} else {
				enc, err := json.MarshalIndent(ep, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(enc))
			}

			fmt.Printf("%d words, %d characters\n", len(strings.Fields(text)), len(text))
			return nil
		},
	}
	tc.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./podbotnik.yaml)")
	tc.Flags().StringVar(&id, "id", "", "episode id (default generated)")
	tc.Flags().StringVar(&title, "title", "", "episode title (required)")
	tc.Flags().IntVar(&number, "number", 0, "episode number (default next in file)")
	tc.Flags().StringVar(&videoURL, "video-url", "", "video URL for timestamped links")
	tc.Flags().StringVar(&audioURL, "audio-url", "", "audio URL for timestamped links")
	tc.Flags().StringVar(&out, "out", "", "episode JSON file to append to (default print to stdout)")
	tc.Flags().StringVar(&fromText, "from-text", "", "use an existing transcript text file instead of transcribing")

	return tc
}
