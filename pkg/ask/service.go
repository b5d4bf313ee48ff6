package ask

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Pranshu23x/project-server/internal/gemini"
	log "github.com/sirupsen/logrus"
)

var ErrValidation = errors.New("question is required")

const (
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
	// tabExcerptLimit caps how much of each tab's content goes into the prompt.
	tabExcerptLimit = 1000
)

type Tab struct {
	Title   string `json:"title"`
	Url     string `json:"url"`
	Content string `json:"content"`
}

type Question struct {
	Question    string
	Tabs        []Tab
	MaxTokens   int
	Temperature *float64
}

type Answer struct {
	Text       string
	TokensUsed int
}

type Service struct {
	completer gemini.Completer
}

func NewService(completer gemini.Completer) *Service {
	return &Service{completer: completer}
}

func (s *Service) Ask(ctx context.Context, q Question) (Answer, error) {
	if strings.TrimSpace(q.Question) == "" {
		return Answer{}, ErrValidation
	}

	maxTokens := q.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	temperature := DefaultTemperature
	if q.Temperature != nil {
		temperature = *q.Temperature
	}

	resp, err := s.completer.Generate(ctx, gemini.Request{
		Prompt:          buildPrompt(q.Question, q.Tabs),
		Temperature:     temperature,
		MaxOutputTokens: maxTokens,
	})
	if err != nil {
		log.Errorf("gemini question failed: %v", err)
		return Answer{}, fmt.Errorf("unable to answer question: %w", err)
	}
	return Answer{Text: resp.Text, TokensUsed: resp.TotalTokens}, nil
}

func buildPrompt(question string, tabs []Tab) string {
	if len(tabs) == 0 {
		return question
	}

	var b strings.Builder
	b.WriteString("Context from the user's open browser tabs:\n\n")
	for i, tab := range tabs {
		fmt.Fprintf(&b, "Tab %d: %s\nURL: %s\n", i+1, tab.Title, tab.Url)
		if content := excerpt(tab.Content); content != "" {
			fmt.Fprintf(&b, "Content: %s\n", content)
		}
		b.WriteString("\n")
	}
	b.WriteString("Question: ")
	b.WriteString(question)
	return b.String()
}

func excerpt(content string) string {
	content = strings.TrimSpace(content)
	runes := []rune(content)
	if len(runes) <= tabExcerptLimit {
		return content
	}
	return string(runes[:tabExcerptLimit]) + "..."
}
