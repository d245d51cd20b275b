package lead

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/brightnest/cleaning-booking-backend/internal/activity"
	"github.com/brightnest/cleaning-booking-backend/internal/notification"
)

const notifyTimeout = 15 * time.Second

type CreateRequest struct {
	Name      string
	Email     string
	Phone     string
	Address   string
	ServiceID *string
	Message   string
}

type Service interface {
	// Create stores a lead and alerts the business. The alert is best effort.
	Create(ctx context.Context, req CreateRequest) (*Lead, error)
	GetByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, filter Filter) ([]*Lead, int, error)
	UpdateStatus(ctx context.Context, id string, status string) (*Lead, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo     Repository
	notifier notification.Notifier
	activity *activity.Log
	logger   *zap.Logger
}

func NewService(repo Repository, notifier notification.Notifier, activityLog *activity.Log, logger *zap.Logger) Service {
	return &service{
		repo:     repo,
		notifier: notifier,
		activity: activityLog,
		logger:   logger,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Lead, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	l := &Lead{
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(req.Phone),
		Address:   strings.TrimSpace(req.Address),
		ServiceID: req.ServiceID,
		Message:   strings.TrimSpace(req.Message),
		Status:    StatusNew,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	s.logger.Info("lead created", zap.String("lead_id", l.ID))
	s.activity.Record(activity.KindLeadCreated, "New quote request from "+l.Name, map[string]string{
		"lead_id": l.ID,
	})

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if err := s.notifier.LeadReceived(notifyCtx, notification.LeadDetails{
		ID:          l.ID,
		Name:        l.Name,
		Email:       l.Email,
		Phone:       l.Phone,
		Address:     l.Address,
		ServiceName: l.ServiceName,
		Message:     l.Message,
	}); err != nil {
		s.logger.Warn("lead notification failed", zap.String("lead_id", l.ID), zap.Error(err))
		s.activity.Record(activity.KindNotificationFailed, "Could not email new lead", map[string]string{
			"lead_id": l.ID,
		})
	}

	return l, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Lead, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Lead, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) UpdateStatus(ctx context.Context, id string, status string) (*Lead, error) {
	st, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}
	return s.repo.UpdateStatus(ctx, id, st)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
