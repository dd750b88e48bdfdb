package handler

import (
	"codetrack/internal/api/middleware"
	"codetrack/internal/app/service"
	"codetrack/internal/common"
	"codetrack/internal/domain/model"
	"codetrack/internal/domain/repository"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type QuestionHandler struct {
	questionService *service.QuestionService
}

func NewQuestionHandler(qs *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: qs}
}

func (h *QuestionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{idOrSlug}", h.get)

	r.Group(func(admin chi.Router) {
		admin.Use(middleware.Authenticator)
		admin.Use(middleware.AdminOnly)
		admin.Post("/", h.create)
	})
}

func (h *QuestionHandler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	var req service.CreateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request payload: "+err.Error())
		return
	}

	question, err := h.questionService.Create(r.Context(), userID, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, question)
}

func (h *QuestionHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	filter := repository.QuestionFilter{
		Difficulty: model.Difficulty(q.Get("difficulty")),
		Topic:      q.Get("topic"),
		SearchTerm: q.Get("search"),
	}

	questions, total, err := h.questionService.List(r.Context(), filter, page, limit)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}

	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"data":  questions,
		"total": total,
	})
}

func (h *QuestionHandler) get(w http.ResponseWriter, r *http.Request) {
	role, _ := middleware.GetUserRoleFromContext(r.Context())
	includeHidden := role == model.RoleAdmin

	question, err := h.questionService.Get(r.Context(), chi.URLParam(r, "idOrSlug"), includeHidden)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, question)
}
