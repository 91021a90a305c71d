package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quizlab/quizd/internal/quiz/domain"
	"github.com/quizlab/quizd/internal/quiz/service"
	"github.com/quizlab/quizd/pkg/httpx"
	"github.com/quizlab/quizd/pkg/slogx"
)

// AdminHandler serves POST /admin: append a question to the bank.
// The route is gated by the admin scope plus the admin role check.
type AdminHandler struct {
	QuizService *service.QuizService
}

func (h *AdminHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var q domain.Question
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		httpx.WriteDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.QuizService.Append(ctx, q)
	if err != nil {
		if errors.Is(err, service.ErrInvalidQuestion) {
			httpx.WriteDetail(w, http.StatusBadRequest,
				"Missing required question fields")
			return
		}
		log.Error("failed to append question", "err", err)
		httpx.WriteDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if p, ok := httpx.PrincipalFromContext(ctx); ok {
		log.Info("question appended", "by", p.Username, "id", created.ID)
	}

	httpx.WriteJSON(w, http.StatusCreated, QuestionCreatedResponse{
		Status:      "The new question was created",
		CreatedItem: created,
	})
}
