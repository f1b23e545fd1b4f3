package chatbot

import (
	"fmt"
	"strings"

	"github.com/mohammad-safakhou/podbotnik/internal/index"
)

// noContextAnswer is returned when retrieval finds nothing. The model is not
// called in that case; an ungrounded completion would just be a guess.
const noContextAnswer = "I couldn't find relevant information in the podcast transcripts to answer your question."

const promptTemplate = `You are a helpful podcast assistant. Answer the user's question using only the provided transcript excerpts, concisely and accurately. If the excerpts don't contain the answer, say so. Keep your answer brief (2-3 sentences max).

Question: %s

Relevant transcript excerpts:
%s

Answer:`

// excerptRunes caps citation excerpts; longer segment text is cut and marked.
const excerptRunes = 200

func buildPrompt(question string, hits []index.Hit) string {
	return fmt.Sprintf(promptTemplate, question, buildContext(hits))
}

// buildContext concatenates the retrieved segments, each tagged with its
// episode title and approximate playback position.
func buildContext(hits []index.Hit) string {
	parts := make([]string, 0, len(hits))
	for _, hit := range hits {
		seg := hit.Segment
		parts = append(parts, fmt.Sprintf("[Episode: %s @ %s] %s",
			seg.EpisodeTitle, FormatTimestamp(seg.StartSeconds), seg.Text))
	}
	return strings.Join(parts, "\n\n")
}

func excerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= excerptRunes {
		return text
	}
	return string(runes[:excerptRunes]) + "..."
}
