package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/ekdma/pt-trainer-log-sub001/internal/auth"
	"github.com/ekdma/pt-trainer-log-sub001/internal/booking"
	"github.com/ekdma/pt-trainer-log-sub001/internal/clock"
	"github.com/ekdma/pt-trainer-log-sub001/internal/config"
	"github.com/ekdma/pt-trainer-log-sub001/internal/diary"
	"github.com/ekdma/pt-trainer-log-sub001/internal/health"
	"github.com/ekdma/pt-trainer-log-sub001/internal/member"
	"github.com/ekdma/pt-trainer-log-sub001/internal/notify"
	"github.com/ekdma/pt-trainer-log-sub001/internal/pack"
	"github.com/ekdma/pt-trainer-log-sub001/internal/session"
	"github.com/ekdma/pt-trainer-log-sub001/internal/user"
)

type Server struct {
	router *gin.Engine
	srv    *http.Server
}

func New(db *sqlx.DB, cfg *config.Config, notifier *notify.Service) *Server {
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(RateLimitMiddleware(20, 40))

	sessionRepo := session.NewRepository(db)
	packRepo := pack.NewRepository(db)
	memberRepo := member.NewRepository(db)

	bookingSvc := booking.NewService(sessionRepo, packRepo, memberRepo, notifier, clock.System{})

	userHandler := user.NewHandler(db, cfg.JWTSecret)
	memberHandler := member.NewHandler(memberRepo)
	packHandler := pack.NewHandler(packRepo)
	bookingHandler := booking.NewHandler(bookingSvc, sessionRepo)
	diaryHandler := diary.NewHandler(diary.NewRepository(db))
	healthHandler := health.NewHandler(health.NewRepository(db))

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.GET("/me/profile", memberHandler.GetMe)

		protected.POST("/sessions", bookingHandler.RequestSession)
		protected.POST("/sessions/:sessionID/cancel", bookingHandler.CancelSession)
		protected.GET("/quota", bookingHandler.Quota)
		protected.GET("/trainers/:trainerID/schedule", bookingHandler.TrainerSchedule)
		protected.GET("/calendar", bookingHandler.MemberCalendar)

		protected.POST("/diary", diaryHandler.Create)
		protected.GET("/diary", diaryHandler.List)
		protected.DELETE("/diary/:entryID", diaryHandler.Delete)

		protected.POST("/health-records", healthHandler.Create)
		protected.GET("/health-records", healthHandler.List)
		protected.DELETE("/health-records/:recordID", healthHandler.Delete)
	}

	trainer := router.Group("/trainer")
	trainer.Use(authMiddleware, auth.RequireRole(auth.RoleTrainer))
	{
		trainer.POST("/sessions/:sessionID/confirm", bookingHandler.ConfirmSession)
		trainer.POST("/sessions/:sessionID/cancel", bookingHandler.CancelSession)
		trainer.POST("/sessions/:sessionID/reject", bookingHandler.RejectSession)
		trainer.GET("/trainers/:trainerID/calendar", bookingHandler.TrainerCalendar)

		trainer.GET("/members", memberHandler.ListMine)
		trainer.GET("/members/:memberID", memberHandler.Get)
		trainer.PUT("/members/:memberID", memberHandler.Upsert)
		trainer.DELETE("/members/:memberID", memberHandler.Delete)

		trainer.GET("/members/:memberID/packages", packHandler.ListByMember)
		trainer.POST("/members/:memberID/packages", packHandler.Register)
		trainer.POST("/members/:memberID/packages/reregister", packHandler.Reregister)
		trainer.PUT("/packages/:packageID", packHandler.Update)
		trainer.DELETE("/packages/:packageID", packHandler.Delete)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-notification", TestNotification(notifier))

	return &Server{router: router}
}

func (s *Server) Start(port string) error {
	s.srv = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
