package appointment

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/brightnest/cleaning-booking-backend/internal/activity"
	"github.com/brightnest/cleaning-booking-backend/internal/availability"
	"github.com/brightnest/cleaning-booking-backend/internal/notification"
	"github.com/brightnest/cleaning-booking-backend/internal/pkg/apperror"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"

	notifyTimeout = 15 * time.Second
)

type CreateRequest struct {
	ServiceID     string
	Date          string // YYYY-MM-DD in the business timezone
	StartTime     string // HH:MM
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Address       string
	Notes         string
}

type Service interface {
	// Create books a slot after re-validating it under the per-service lock.
	Create(ctx context.Context, req CreateRequest) (*Appointment, error)
	GetByID(ctx context.Context, id string) (*Appointment, error)
	List(ctx context.Context, filter Filter) ([]*Appointment, int, error)
	UpdateStatus(ctx context.Context, id string, status string) (*Appointment, error)

	// SendReminders emails customers whose confirmed appointment is on the next business day.
	SendReminders(ctx context.Context) (int, error)
	// CompleteFinished marks confirmed appointments that have ended as completed.
	CompleteFinished(ctx context.Context) (int64, error)
}

type service struct {
	repo     Repository
	engine   *availability.Engine
	notifier notification.Notifier
	activity *activity.Log
	logger   *zap.Logger
	now      func() time.Time
}

type Option func(*service)

// WithClock overrides the time source used by the background operations.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func NewService(
	repo Repository,
	engine *availability.Engine,
	notifier notification.Notifier,
	activityLog *activity.Log,
	logger *zap.Logger,
	opts ...Option,
) Service {
	s := &service{
		repo:     repo,
		engine:   engine,
		notifier: notifier,
		activity: activityLog,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Appointment, error) {
	loc := s.engine.Location()
	start, err := time.ParseInLocation(dateLayout+" "+clockLayout, req.Date+" "+req.StartTime, loc)
	if err != nil {
		return nil, ErrInvalidDate
	}

	svc, err := s.engine.LookupService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	a := &Appointment{
		ServiceID:     svc.ID,
		ServiceName:   svc.Name,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		Address:       strings.TrimSpace(req.Address),
		Notes:         strings.TrimSpace(req.Notes),
		StartTime:     start,
		EndTime:       start.Add(time.Duration(svc.DurationMinutes) * time.Minute),
		Status:        StatusPending,
	}

	err = s.repo.CreateExclusive(ctx, a, func(ctx context.Context, store availability.Store) error {
		v, err := s.engine.WithStore(store).ValidateProposedBooking(ctx, a.ServiceID, a.StartTime, a.EndTime)
		if err != nil {
			return err
		}
		if !v.IsValid {
			return rejection(v)
		}
		return nil
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code < http.StatusInternalServerError {
			s.activity.Record(activity.KindAppointmentReject, appErr.Message, map[string]string{
				"service_id": a.ServiceID,
				"start":      a.StartTime.Format(time.RFC3339),
			})
		}
		return nil, err
	}

	s.logger.Info("appointment created",
		zap.String("appointment_id", a.ID),
		zap.String("service_id", a.ServiceID),
		zap.Time("start", a.StartTime),
	)
	s.activity.Record(activity.KindAppointmentCreated, "New "+a.ServiceName+" appointment for "+a.CustomerName, map[string]string{
		"appointment_id": a.ID,
		"start":          a.StartTime.Format(time.RFC3339),
	})

	s.notify(ctx, a.ID, func(ctx context.Context) error {
		return s.notifier.AppointmentRequested(ctx, details(a))
	})

	return a, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Appointment, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) UpdateStatus(ctx context.Context, id string, status string) (*Appointment, error) {
	to, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == to {
		return current, nil
	}
	if !CanTransition(current.Status, to) {
		return nil, ErrInvalidTransition
	}

	updated, err := s.repo.UpdateStatus(ctx, id, current.Status, to)
	if err != nil {
		return nil, err
	}

	s.activity.Record(activity.KindAppointmentStatus, "Appointment "+string(current.Status)+" -> "+string(to), map[string]string{
		"appointment_id": id,
	})
	return updated, nil
}

func (s *service) SendReminders(ctx context.Context) (int, error) {
	tomorrow := s.engine.Day(s.now().In(s.engine.Location())).AddDate(0, 0, 1)

	due, err := s.repo.ListDueReminders(ctx, tomorrow, tomorrow.AddDate(0, 0, 1))
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, a := range due {
		if err := s.notifier.AppointmentReminder(ctx, details(a)); err != nil {
			s.logger.Warn("appointment reminder failed", zap.String("appointment_id", a.ID), zap.Error(err))
			continue
		}
		if err := s.repo.MarkReminded(ctx, a.ID, s.now()); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

func (s *service) CompleteFinished(ctx context.Context) (int64, error) {
	return s.repo.CompleteEnded(ctx, s.now())
}

// notify runs a best-effort email send. Failures are logged and recorded, never returned.
func (s *service) notify(ctx context.Context, appointmentID string, send func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := send(ctx); err != nil {
		s.logger.Warn("appointment notification failed", zap.String("appointment_id", appointmentID), zap.Error(err))
		s.activity.Record(activity.KindNotificationFailed, "Could not email appointment details", map[string]string{
			"appointment_id": appointmentID,
		})
	}
}

// rejection turns an engine verdict into a client error carrying its message verbatim.
func rejection(v availability.Validation) error {
	if v.Reason == availability.RejectOverlap {
		return ErrTimeConflict
	}
	return apperror.New(http.StatusBadRequest, v.ErrorReason)
}

func details(a *Appointment) notification.AppointmentDetails {
	return notification.AppointmentDetails{
		ID:            a.ID,
		ServiceName:   a.ServiceName,
		CustomerName:  a.CustomerName,
		CustomerEmail: a.CustomerEmail,
		CustomerPhone: a.CustomerPhone,
		Address:       a.Address,
		Notes:         a.Notes,
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
	}
}
