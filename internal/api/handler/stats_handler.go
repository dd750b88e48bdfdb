package handler

import (
	"codetrack/internal/api/middleware"
	"codetrack/internal/app/service"
	"codetrack/internal/common"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type StatsHandler struct {
	statsService  *service.StatsService
	streakService *service.StreakService
}

func NewStatsHandler(stats *service.StatsService, streaks *service.StreakService) *StatsHandler {
	return &StatsHandler{statsService: stats, streakService: streaks}
}

func (h *StatsHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/overview", h.overview)
	r.Get("/topics", h.byTopic)
	r.Get("/difficulty", h.byDifficulty)
	r.Get("/streak", h.streak)
}

func (h *StatsHandler) overview(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	stats, err := h.statsService.Overview(r.Context(), userID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, stats)
}

func (h *StatsHandler) byTopic(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	stats, err := h.statsService.ByTopic(r.Context(), userID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, stats)
}

func (h *StatsHandler) byDifficulty(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	stats, err := h.statsService.ByDifficulty(r.Context(), userID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, stats)
}

func (h *StatsHandler) streak(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	streak, err := h.streakService.Streak(r.Context(), userID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, streak)
}
