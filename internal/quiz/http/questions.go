package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/quizlab/quizd/internal/quiz/service"
	"github.com/quizlab/quizd/pkg/httpx"
	"github.com/quizlab/quizd/pkg/slogx"
)

// UsesHandler serves GET /uses: the distinct test types in the bank.
type UsesHandler struct {
	QuizService *service.QuizService
}

func (h *UsesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	uses, err := h.QuizService.Uses(ctx)
	if err != nil {
		log.Error("failed to list uses", "err", err)
		httpx.WriteDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, uses)
}

// SubjectsHandler serves GET /subjects?use=...
type SubjectsHandler struct {
	QuizService *service.QuizService
}

func (h *SubjectsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	use := r.URL.Query().Get("use")

	subjects, err := h.QuizService.Subjects(ctx, use)
	if err != nil {
		if errors.Is(err, service.ErrUnknownUse) {
			httpx.WriteDetail(w, http.StatusNotFound,
				"The type of test chosen is not in the database")
			return
		}
		log.Error("failed to list subjects", "use", use, "err", err)
		httpx.WriteDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, subjects)
}

// QuestionsHandler serves GET /questions: a randomized questionnaire for
// the given test type, subjects, and question count.
type QuestionsHandler struct {
	QuizService *service.QuizService
}

func (h *QuestionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	query := r.URL.Query()
	use := query.Get("use")
	subjects := query["subject"]

	count := 0
	if raw := query.Get("nb_questions"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httpx.WriteDetail(w, http.StatusBadRequest, "nb_questions must be an integer")
			return
		}
		count = n
	}

	questionnaire, err := h.QuizService.Generate(ctx, use, subjects, count)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownUse):
			httpx.WriteDetail(w, http.StatusNotFound,
				"The type of test chosen is not in the database")
		case errors.Is(err, service.ErrSubjectNotInUse):
			httpx.WriteDetail(w, http.StatusNotFound,
				"One or several subjects not in the type selected")
		case errors.Is(err, service.ErrBadQuestionCount):
			httpx.WriteDetail(w, http.StatusNotFound,
				"Not enough questions to generate a questionnaire or wrong number of questions (5, 10 or 20)")
		default:
			log.Error("failed to generate questionnaire", "use", use, "err", err)
			httpx.WriteDetail(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, questionnaire)
}
