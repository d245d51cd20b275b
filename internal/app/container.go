package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/brightnest/cleaning-booking-backend/internal/activity"
	"github.com/brightnest/cleaning-booking-backend/internal/api"
	"github.com/brightnest/cleaning-booking-backend/internal/appointment"
	"github.com/brightnest/cleaning-booking-backend/internal/auth"
	"github.com/brightnest/cleaning-booking-backend/internal/availability"
	"github.com/brightnest/cleaning-booking-backend/internal/blockeddate"
	"github.com/brightnest/cleaning-booking-backend/internal/jobposting"
	"github.com/brightnest/cleaning-booking-backend/internal/jobs"
	"github.com/brightnest/cleaning-booking-backend/internal/lead"
	"github.com/brightnest/cleaning-booking-backend/internal/notification"
	"github.com/brightnest/cleaning-booking-backend/internal/offering"
	"github.com/brightnest/cleaning-booking-backend/internal/pkg/ratelimit"
	"github.com/brightnest/cleaning-booking-backend/internal/timewindow"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	Logger       *zap.Logger

	JWTSecret         string
	JWTTTL            time.Duration
	BcryptCost        int
	AdminEmail        string
	AdminPasswordHash string

	Location      *time.Location
	BufferMinutes int

	// Sender delivers email; NotifyEmail receives the business copies.
	Sender      notification.Sender
	NotifyEmail string

	Limiter ratelimit.Limiter

	ActivityLogSize int
	ActivityLogTTL  time.Duration

	// Clock overrides time.Now for the engine and background jobs.
	Clock func() time.Time
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router             *gin.Engine
	JWTManager         *auth.JWTManager
	AppointmentService appointment.Service
	Scheduler          *jobs.Scheduler
	Activity           *activity.Log
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Sender == nil {
		cfg.Sender = notification.NewLogSender(cfg.Logger)
	}
	if cfg.Limiter == nil {
		cfg.Limiter = ratelimit.NewMemoryLimiter(60)
	}

	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	authenticator := auth.NewAuthenticator(cfg.AdminEmail, cfg.AdminPasswordHash, passwordHasher, jwtManager)
	activityLog := activity.New(cfg.ActivityLogSize, cfg.ActivityLogTTL)
	notifier := notification.NewMailer(cfg.Sender, cfg.NotifyEmail, cfg.Location)

	// Availability Engine
	engine := availability.NewEngine(availability.NewPgxStore(cfg.DBPool),
		availability.WithLocation(cfg.Location),
		availability.WithBufferMinutes(cfg.BufferMinutes),
		availability.WithClock(cfg.Clock),
	)

	// Catalog & Schedule Modules
	offeringService := offering.NewService(offering.NewPgxRepository(cfg.DBPool))
	timeWindowService := timewindow.NewService(timewindow.NewPgxRepository(cfg.DBPool))
	blockedDateService := blockeddate.NewService(blockeddate.NewPgxRepository(cfg.DBPool), cfg.Location)

	// Appointment Module
	appointmentService := appointment.NewService(
		appointment.NewPgxRepository(cfg.DBPool),
		engine,
		notifier,
		activityLog,
		cfg.Logger,
		appointment.WithClock(cfg.Clock),
	)

	// Lead & Careers Modules
	leadService := lead.NewService(lead.NewPgxRepository(cfg.DBPool), notifier, activityLog, cfg.Logger)
	jobPostingService := jobposting.NewService(jobposting.NewPgxRepository(cfg.DBPool))

	// Router
	router, err := api.NewRouter(api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		Logger:              cfg.Logger,
		DB:                  cfg.DBPool,
		Limiter:             cfg.Limiter,
		Authenticator:       authenticator,
		JWTManager:          jwtManager,
		AvailabilityService: engine,
		OfferingService:     offeringService,
		TimeWindowService:   timeWindowService,
		BlockedDateService:  blockedDateService,
		AppointmentService:  appointmentService,
		LeadService:         leadService,
		JobPostingService:   jobPostingService,
		ActivityLog:         activityLog,
	})
	if err != nil {
		return nil, err
	}

	return &Container{
		Router:             router,
		JWTManager:         jwtManager,
		AppointmentService: appointmentService,
		Scheduler:          jobs.NewScheduler(appointmentService, activityLog, cfg.Logger, cfg.Location),
		Activity:           activityLog,
	}, nil
}
