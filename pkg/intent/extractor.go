package intent

import (
	"context"
	"fmt"
	"time"

	"github.com/Pranshu23x/project-server/internal/gemini"
	log "github.com/sirupsen/logrus"
)

const (
	extractionTemperature = 0.1
	extractionMaxTokens   = 500
)

type Extractor struct {
	completer gemini.Completer
}

func NewExtractor(completer gemini.Completer) *Extractor {
	return &Extractor{completer: completer}
}

// Extract asks the completion provider once and reads the first JSON object
// out of its answer. Provider failures are returned; an answer without usable
// JSON is not an error and yields an empty intent.
func (e *Extractor) Extract(ctx context.Context, utterance string, now time.Time) (EventIntent, error) {
	resp, err := e.completer.Generate(ctx, gemini.Request{
		Prompt:          buildPrompt(utterance, now),
		Temperature:     extractionTemperature,
		MaxOutputTokens: extractionMaxTokens,
	})
	if err != nil {
		log.Errorf("intent extraction failed: %v", err)
		return EventIntent{}, fmt.Errorf("unable to extract event details: %w", err)
	}

	parsed := parseIntent(resp.Text)
	log.Debugf("extracted intent: %+v", parsed)
	return parsed, nil
}
