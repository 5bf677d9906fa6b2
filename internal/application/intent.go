package application

import (
	"strings"

	"voice-assistant/internal/domain"
)

// fillerWords are stripped from a music request to leave the search terms.
var fillerWords = map[string]bool{
	"play":   true,
	"music":  true,
	"song":   true,
	"track":  true,
	"please": true,
	"can":    true,
	"you":    true,
}

// ParseIntent routes a transcribed utterance. Music verbs take priority;
// anything else is a conversational request for the LLM.
func ParseIntent(text string) domain.Request {
	tl := strings.ToLower(strings.TrimSpace(text))
	mentionsMusic := strings.Contains(tl, "music") || strings.Contains(tl, "song")

	switch {
	case mentionsMusic && strings.Contains(tl, "play"):
		return domain.Request{
			Intent:  domain.IntentPlayMusic,
			Query:   musicQuery(tl),
			RawText: text,
		}
	case mentionsMusic && strings.Contains(tl, "stop"):
		return domain.Request{Intent: domain.IntentStopMusic, RawText: text}
	default:
		return domain.Request{Intent: domain.IntentChat, RawText: text}
	}
}

func musicQuery(lowered string) string {
	var kept []string
	for _, word := range strings.Fields(lowered) {
		if !fillerWords[word] {
			kept = append(kept, word)
		}
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}
