package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/abhisek/pathwise/internal/content"
	"github.com/abhisek/pathwise/internal/contentgen"
	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/store"
	"github.com/abhisek/pathwise/internal/workflow"
)

// ContentService is the content generation surface served over HTTP.
type ContentService interface {
	GenerateModuleContent(ctx context.Context, subject string, opts contentgen.ModuleOptions) (*content.ModuleContent, error)
	GenerateFlashcards(ctx context.Context, subject string, n int) ([]content.Flashcard, error)
	GenerateQuizData(ctx context.Context, subject string, n int, grounding string) (content.TopicQuiz, error)
	GenerateQuiz(ctx context.Context, moduleName string) (content.ModuleQuiz, error)
	GenerateLearningPath(ctx context.Context, goal string, opts contentgen.PathOptions) (content.LearningPath, error)
	GenerateCareerPaths(ctx context.Context, p content.Profile) ([]content.CareerPath, error)
	GenerateChatResponse(ctx context.Context, message string, cc content.ChatContext) (string, error)
}

// WorkflowService is the learner workflow surface served over HTTP.
type WorkflowService interface {
	CreateProfile(ctx context.Context, p content.Profile) (*workflow.ProfileResult, error)
	ListCareerPaths(ctx context.Context) ([]workflow.CareerPath, error)
	GetCareerPath(ctx context.Context, id string) (*workflow.CareerPath, error)
	MarkModuleComplete(ctx context.Context, pathID string, index int) (*workflow.CareerPath, error)
	LoadModuleContent(ctx context.Context, pathID string, index int, detailed bool) (*workflow.ModuleView, error)
	RecordQuizResult(ctx context.Context, sub workflow.QuizSubmission) (*workflow.QuizResult, error)
	CareerSummary(ctx context.Context) (*workflow.Summary, error)
}

// Handler serves the JSON API.
type Handler struct {
	Logger    *zap.Logger
	content   ContentService
	workflows WorkflowService
}

// NewHandler creates the API handler.
func NewHandler(cs ContentService, ws WorkflowService, logger *zap.Logger) *Handler {
	return &Handler{Logger: logger, content: cs, workflows: ws}
}

// RegisterRoutes registers all API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/generate", func(r chi.Router) {
		r.Post("/module", h.GenerateModule)
		r.Post("/flashcards", h.GenerateFlashcards)
		r.Post("/quiz", h.GenerateQuizData)
		r.Post("/module-quiz", h.GenerateModuleQuiz)
		r.Post("/path", h.GenerateLearningPath)
		r.Post("/careers", h.GenerateCareerPaths)
	})
	r.Post("/chat", h.Chat)

	r.Post("/profile", h.CreateProfile)
	r.Route("/paths", func(r chi.Router) {
		r.Get("/", h.ListPaths)
		r.Get("/{id}", h.GetPath)
		r.Get("/{id}/modules/{index}", h.LoadModule)
		r.Post("/{id}/modules/{index}/complete", h.CompleteModule)
	})
	r.Post("/quiz-results", h.RecordQuizResult)
	r.Get("/summary", h.Summary)
}

// RespondJSON sends a JSON response.
func (h *Handler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response.
func (h *Handler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]string{"error": message})
}

// fail maps err onto a status code and writes it.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.Logger.Error("request failed",
			zap.String("request_id", GetRequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
	}
	h.RespondError(w, status, err.Error())
}

func statusFor(err error) int {
	var (
		exhausted   *contentgen.ExhaustedError
		ladder      *llm.ErrLadderExhausted
		unavailable *llm.ErrProviderUnavailable
		rateLimit   *llm.ErrRateLimit
		badReply    *llm.ErrInvalidResponse
	)
	switch {
	case errors.Is(err, contentgen.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, workflow.ErrNoUser):
		return http.StatusUnauthorized
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &exhausted), errors.As(err, &ladder), errors.As(err, &unavailable),
		errors.As(err, &rateLimit), errors.As(err, &badReply):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.RespondError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		h.RespondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func (h *Handler) moduleIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "module index must be an integer")
		return 0, false
	}
	return index, true
}

type moduleRequest struct {
	Topic    string `json:"topic"`
	Detailed bool   `json:"detailed"`
	Model    string `json:"model,omitempty"`
}

// GenerateModule handles POST /generate/module.
func (h *Handler) GenerateModule(w http.ResponseWriter, r *http.Request) {
	var req moduleRequest
	if !h.decode(w, r, &req) {
		return
	}
	mc, err := h.content.GenerateModuleContent(r.Context(), req.Topic, contentgen.ModuleOptions{Detailed: req.Detailed, Model: req.Model})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, mc)
}

type countRequest struct {
	Topic     string `json:"topic"`
	Count     int    `json:"count"`
	Grounding string `json:"grounding,omitempty"`
}

// GenerateFlashcards handles POST /generate/flashcards.
func (h *Handler) GenerateFlashcards(w http.ResponseWriter, r *http.Request) {
	var req countRequest
	if !h.decode(w, r, &req) {
		return
	}
	cards, err := h.content.GenerateFlashcards(r.Context(), req.Topic, req.Count)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, cards)
}

// GenerateQuizData handles POST /generate/quiz.
func (h *Handler) GenerateQuizData(w http.ResponseWriter, r *http.Request) {
	var req countRequest
	if !h.decode(w, r, &req) {
		return
	}
	quiz, err := h.content.GenerateQuizData(r.Context(), req.Topic, req.Count, req.Grounding)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, quiz)
}

// GenerateModuleQuiz handles POST /generate/module-quiz.
func (h *Handler) GenerateModuleQuiz(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ModuleName string `json:"moduleName"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	quiz, err := h.content.GenerateQuiz(r.Context(), req.ModuleName)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, quiz)
}

// GenerateLearningPath handles POST /generate/path.
func (h *Handler) GenerateLearningPath(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Goal  string           `json:"goal"`
		Type  content.PathType `json:"type"`
		Model string           `json:"model,omitempty"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	path, err := h.content.GenerateLearningPath(r.Context(), req.Goal, contentgen.PathOptions{Type: req.Type, Model: req.Model})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, path)
}

// GenerateCareerPaths handles POST /generate/careers.
func (h *Handler) GenerateCareerPaths(w http.ResponseWriter, r *http.Request) {
	var p content.Profile
	if !h.decode(w, r, &p) {
		return
	}
	paths, err := h.content.GenerateCareerPaths(r.Context(), p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, paths)
}

// Chat handles POST /chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string              `json:"message"`
		Context content.ChatContext `json:"context"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	text, err := h.content.GenerateChatResponse(r.Context(), req.Message, req.Context)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, map[string]string{"response": text})
}

// CreateProfile handles POST /profile.
func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var p content.Profile
	if !h.decode(w, r, &p) {
		return
	}
	res, err := h.workflows.CreateProfile(r.Context(), p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusCreated, res)
}

// ListPaths handles GET /paths.
func (h *Handler) ListPaths(w http.ResponseWriter, r *http.Request) {
	paths, err := h.workflows.ListCareerPaths(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, paths)
}

// GetPath handles GET /paths/{id}.
func (h *Handler) GetPath(w http.ResponseWriter, r *http.Request) {
	path, err := h.workflows.GetCareerPath(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, path)
}

// LoadModule handles GET /paths/{id}/modules/{index}.
func (h *Handler) LoadModule(w http.ResponseWriter, r *http.Request) {
	index, ok := h.moduleIndex(w, r)
	if !ok {
		return
	}
	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))
	view, err := h.workflows.LoadModuleContent(r.Context(), chi.URLParam(r, "id"), index, detailed)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, view)
}

// CompleteModule handles POST /paths/{id}/modules/{index}/complete.
func (h *Handler) CompleteModule(w http.ResponseWriter, r *http.Request) {
	index, ok := h.moduleIndex(w, r)
	if !ok {
		return
	}
	path, err := h.workflows.MarkModuleComplete(r.Context(), chi.URLParam(r, "id"), index)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, path)
}

// RecordQuizResult handles POST /quiz-results.
func (h *Handler) RecordQuizResult(w http.ResponseWriter, r *http.Request) {
	var sub workflow.QuizSubmission
	if !h.decode(w, r, &sub) {
		return
	}
	res, err := h.workflows.RecordQuizResult(r.Context(), sub)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusCreated, res)
}

// Summary handles GET /summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.workflows.CareerSummary(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, sum)
}
