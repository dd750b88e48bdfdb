package api

import (
	"codetrack/internal/api/handler"
	"codetrack/internal/api/middleware"
	"codetrack/internal/app/service"
	"codetrack/internal/common/security"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"go.uber.org/zap"
)

type Services struct {
	Auth        *service.AuthService
	Question    *service.QuestionService
	Submission  *service.SubmissionService
	Stats       *service.StatsService
	Streak      *service.StreakService
	Dashboard   *service.DashboardService
	Leaderboard *service.LeaderboardService
}

func NewRouter(tokens *security.TokenManager, svc Services, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies the bearer token and puts claims on the context; rejection is
	// left to the Authenticator middleware on protected routes.
	r.Use(jwtauth.Verifier(tokens.Auth()))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(svc.Auth)
		v1.Route("/auth", authHandler.RegisterRoutes)

		questionHandler := handler.NewQuestionHandler(svc.Question)
		v1.Route("/questions", questionHandler.RegisterRoutes)

		submissionHandler := handler.NewSubmissionHandler(svc.Submission)
		v1.Route("/submissions", submissionHandler.RegisterRoutes)

		statsHandler := handler.NewStatsHandler(svc.Stats, svc.Streak)
		v1.Route("/stats", statsHandler.RegisterRoutes)

		dashboardHandler := handler.NewDashboardHandler(svc.Dashboard)
		v1.Route("/dashboard", dashboardHandler.RegisterRoutes)

		leaderboardHandler := handler.NewLeaderboardHandler(svc.Leaderboard)
		v1.Route("/leaderboard", leaderboardHandler.RegisterRoutes)
	})

	return r
}
