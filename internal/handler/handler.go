package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"salon-booking-api/internal/booking"
	"salon-booking-api/internal/mail"
	"salon-booking-api/internal/middleware"
	"salon-booking-api/internal/model"
)

// WorkerStore is the slice of the persistence gateway the staff endpoints
// need. *store.Store satisfies it.
type WorkerStore interface {
	CreateWorker(ctx context.Context, w *model.Worker) error
	WorkerByIdentifier(ctx context.Context, identifier string) (*model.Worker, error)
	WorkerByEmail(ctx context.Context, email string) (*model.Worker, error)
	WorkerByID(ctx context.Context, id string) (*model.Worker, error)
	WorkerByValidationToken(ctx context.Context, token string) (*model.Worker, error)
	WorkerByResetToken(ctx context.Context, token string) (*model.Worker, error)
	ValidateWorker(ctx context.Context, id string) error
	SetResetToken(ctx context.Context, email string, token *string, expires *time.Time) error
	UpdateWorkerPassword(ctx context.Context, id, passwordHash string) error
	UpdateWorkerInfo(ctx context.Context, id, username, email string) (*model.Worker, error)
	ListWorkers(ctx context.Context) ([]model.Worker, error)
	DeleteWorker(ctx context.Context, id string) error
}

// Pinger reports whether the database is reachable. *store.Store
// satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Config struct {
	JWTSecret       string
	PublicBaseURL   string
	FrontendBaseURL string
	AdminEmail      string
}

type Handler struct {
	bookings *booking.Manager
	workers  WorkerStore
	db       Pinger
	mailer   mail.Sender
	logger   *zap.Logger
	cfg      Config
}

func New(bookings *booking.Manager, workers WorkerStore, db Pinger, mailer mail.Sender, logger *zap.Logger, cfg Config) *Handler {
	return &Handler{
		bookings: bookings,
		workers:  workers,
		db:       db,
		mailer:   mailer,
		logger:   logger,
		cfg:      cfg,
	}
}

// Router assembles the HTTP surface.
func (h *Handler) Router(rl *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.CORS())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hairdressing Backend API is running!")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", h.Healthz)

	authed := middleware.WorkerAuth(h.cfg.JWTSecret)
	limited := middleware.RateLimit(rl)

	api := r.Group("/api")
	{
		b := api.Group("/bookings")
		{
			b.POST("", h.CreateBooking)
			b.GET("", h.ListBookings)
			b.GET("/:id", h.GetBooking)
			b.DELETE("/:id", authed, h.WorkerCancelBooking)
			b.POST("/cancel/:token", h.CancelBookingByToken)
		}

		w := api.Group("/workers")
		{
			w.POST("/signup", limited, h.Signup)
			w.POST("/login", limited, h.Login)
			w.GET("/validate/:token", h.ValidateWorker)
			w.POST("/password-reset-request", h.PasswordResetRequest)
			w.POST("/password-reset", h.PasswordReset)

			w.GET("", authed, h.ListWorkers)
			w.GET("/me", authed, h.Me)
			w.PUT("/me", authed, h.UpdateMe)
			w.DELETE("/me", authed, h.DeleteMe)
		}
	}

	return r
}

// Healthz is the liveness probe: 200 while the database answers a ping,
// 503 otherwise.
func (h *Handler) Healthz(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		h.logger.Error("health check", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
