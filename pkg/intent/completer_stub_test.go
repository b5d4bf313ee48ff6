package intent

import (
	"context"

	"github.com/Pranshu23x/project-server/internal/gemini"
)

type stubCompleter struct {
	text     string
	err      error
	requests []gemini.Request
}

func (s *stubCompleter) Generate(_ context.Context, req gemini.Request) (gemini.Response, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return gemini.Response{}, s.err
	}
	return gemini.Response{Text: s.text}, nil
}
