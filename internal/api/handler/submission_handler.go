package handler

import (
	"codetrack/internal/api/middleware"
	"codetrack/internal/app/service"
	"codetrack/internal/common"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

func NewSubmissionHandler(ss *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: ss}
}

func (h *SubmissionHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Post("/", h.submit)
	r.Get("/", h.list)
	r.Get("/latest", h.latest)
}

func (h *SubmissionHandler) submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	var req service.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request payload: "+err.Error())
		return
	}

	sub, err := h.submissionService.Submit(r.Context(), userID, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, sub)
}

func (h *SubmissionHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	req := service.ListSubmissionsRequest{
		Topic:      q.Get("topic"),
		Difficulty: q.Get("difficulty"),
		Language:   q.Get("language"),
		Status:     q.Get("status"),
		Page:       page,
		Limit:      limit,
	}

	var err error
	if req.From, err = parseTimeParam(q.Get("from"), false); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "VALIDATION", "invalid from: "+err.Error())
		return
	}
	if req.To, err = parseTimeParam(q.Get("to"), true); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "VALIDATION", "invalid to: "+err.Error())
		return
	}

	result, err := h.submissionService.List(r.Context(), userID, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}

func (h *SubmissionHandler) latest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	sub, err := h.submissionService.Latest(r.Context(), userID,
		r.URL.Query().Get("questionId"), r.URL.Query().Get("language"))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sub)
}

// parseTimeParam accepts RFC3339 timestamps and bare YYYY-MM-DD dates. A bare
// date parses to midnight UTC, so for an inclusive upper bound (endOfDay) it is
// extended to the last instant of that day; otherwise to=2026-03-10 would
// exclude all of that day's activity.
func parseTimeParam(value string, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t, err = time.Parse("2006-01-02", value)
		if err != nil {
			return nil, err
		}
		if endOfDay {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
	}
	t = t.UTC()
	return &t, nil
}
