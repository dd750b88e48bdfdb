package handler

import (
	"codetrack/internal/api/middleware"
	"codetrack/internal/app/service"
	"codetrack/internal/common"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(ds *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: ds}
}

func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/overview", h.overview)
}

func (h *DashboardHandler) overview(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return
	}

	overview, err := h.dashboardService.Overview(r.Context(), userID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, overview)
}
