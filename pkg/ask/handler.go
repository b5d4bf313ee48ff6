package ask

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Pranshu23x/project-server/internal/rest"
)

type askRequest struct {
	Question    string   `json:"question"`
	TabsContext []Tab    `json:"tabsContext"`
	MaxTokens   int      `json:"maxTokens"`
	Temperature *float64 `json:"temperature"`
}

type askResponse struct {
	Answer     string `json:"answer"`
	TokensUsed int    `json:"tokensUsed"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// AskGemini answers POST /ask-gemini.
func (h *Handler) AskGemini(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	answer, err := h.service.Ask(r.Context(), Question{
		Question:    req.Question,
		Tabs:        req.TabsContext,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		if errors.Is(err, ErrValidation) {
			rest.WriteError(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Question is required"})
			return
		}
		rest.WriteError(w, http.StatusInternalServerError, rest.ErrorResponse{Error: "Failed to get response from Gemini", Details: err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusOK, askResponse{Answer: answer.Text, TokensUsed: answer.TokensUsed})
}
