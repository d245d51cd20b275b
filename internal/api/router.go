package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/brightnest/cleaning-booking-backend/internal/activity"
	activityHttp "github.com/brightnest/cleaning-booking-backend/internal/activity/http"
	"github.com/brightnest/cleaning-booking-backend/internal/appointment"
	appointmentHttp "github.com/brightnest/cleaning-booking-backend/internal/appointment/http"
	"github.com/brightnest/cleaning-booking-backend/internal/auth"
	"github.com/brightnest/cleaning-booking-backend/internal/availability"
	availabilityHttp "github.com/brightnest/cleaning-booking-backend/internal/availability/http"
	"github.com/brightnest/cleaning-booking-backend/internal/blockeddate"
	blockeddateHttp "github.com/brightnest/cleaning-booking-backend/internal/blockeddate/http"
	"github.com/brightnest/cleaning-booking-backend/internal/jobposting"
	jobpostingHttp "github.com/brightnest/cleaning-booking-backend/internal/jobposting/http"
	"github.com/brightnest/cleaning-booking-backend/internal/lead"
	leadHttp "github.com/brightnest/cleaning-booking-backend/internal/lead/http"
	"github.com/brightnest/cleaning-booking-backend/internal/offering"
	offeringHttp "github.com/brightnest/cleaning-booking-backend/internal/offering/http"
	"github.com/brightnest/cleaning-booking-backend/internal/pkg/logging"
	"github.com/brightnest/cleaning-booking-backend/internal/pkg/ratelimit"
	"github.com/brightnest/cleaning-booking-backend/internal/pkg/request"
	"github.com/brightnest/cleaning-booking-backend/internal/timewindow"
	timewindowHttp "github.com/brightnest/cleaning-booking-backend/internal/timewindow/http"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds the services and settings the router is assembled from.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Logger       *zap.Logger
	DB           Pinger
	Limiter      ratelimit.Limiter

	Authenticator *auth.Authenticator
	JWTManager    *auth.JWTManager

	AvailabilityService availability.Service
	OfferingService     offering.Service
	TimeWindowService   timewindow.Service
	BlockedDateService  blockeddate.Service
	AppointmentService  appointment.Service
	LeadService         lead.Service
	JobPostingService   jobposting.Service
	ActivityLog         *activity.Log
}

// NewRouter initializes the HTTP router engine.
// It assembles the global middleware (recovery, request logging, CORS) and registers every module under /v1.
func NewRouter(cfg Config) (*gin.Engine, error) {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := request.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()

	// Global Middleware:
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	// - logging.Middleware: One structured log line per request, with a request id.
	r.Use(gin.Recovery(), logging.Middleware(cfg.Logger))

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		corsConfig.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000", // Website
			"http://localhost:5173", // Admin dashboard
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	if len(corsConfig.AllowOrigins) > 0 {
		r.Use(cors.New(corsConfig))
	}

	r.GET("/healthz", healthHandler(cfg.DB))

	// authMiddleware: Validates that the request carries a valid admin JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// Public write endpoints are throttled per client IP.
	loginLimiter := ratelimit.Middleware(cfg.Limiter, "login")
	appointmentLimiter := ratelimit.Middleware(cfg.Limiter, "appointments")
	leadLimiter := ratelimit.Middleware(cfg.Limiter, "leads")

	authHandler := NewAuthHandler(cfg.Authenticator, cfg.JWTManager)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/login", loginLimiter, authHandler.Login)
		v1.GET("/auth/me", authMiddleware, authHandler.Me)

		availabilityHttp.RegisterRoutes(v1, availabilityHttp.NewHandler(cfg.AvailabilityService))
		offeringHttp.RegisterRoutes(v1, offeringHttp.NewHandler(cfg.OfferingService), authMiddleware)
		timewindowHttp.RegisterRoutes(v1, timewindowHttp.NewHandler(cfg.TimeWindowService), authMiddleware)
		blockeddateHttp.RegisterRoutes(v1, blockeddateHttp.NewHandler(cfg.BlockedDateService), authMiddleware)
		appointmentHttp.RegisterRoutes(v1, appointmentHttp.NewHandler(cfg.AppointmentService), authMiddleware, appointmentLimiter)
		leadHttp.RegisterRoutes(v1, leadHttp.NewHandler(cfg.LeadService), authMiddleware, leadLimiter)
		jobpostingHttp.RegisterRoutes(v1, jobpostingHttp.NewHandler(cfg.JobPostingService), authMiddleware)
		activityHttp.RegisterRoutes(v1, activityHttp.NewHandler(cfg.ActivityLog), authMiddleware)
	}

	return r, nil
}

func healthHandler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logging.FromContext(c).Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
