package blockeddate

import (
	"context"
	"strings"
	"time"
)

type CreateRequest struct {
	Date   string
	Reason string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*BlockedDate, error)
	GetByID(ctx context.Context, id string) (*BlockedDate, error)
	List(ctx context.Context, filter Filter) ([]*BlockedDate, error)
	// Upcoming lists blocked dates from today onwards in the business timezone.
	Upcoming(ctx context.Context) ([]*BlockedDate, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

func NewService(repo Repository, loc *time.Location) Service {
	return &service{repo: repo, loc: loc, now: time.Now}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*BlockedDate, error) {
	b := &BlockedDate{
		Date:   req.Date,
		Reason: strings.TrimSpace(req.Reason),
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*BlockedDate, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*BlockedDate, error) {
	// Same-layout dates compare correctly as strings.
	if filter.From != "" && filter.To != "" && filter.From > filter.To {
		return nil, ErrInvalidRange
	}
	return s.repo.List(ctx, filter)
}

func (s *service) Upcoming(ctx context.Context) ([]*BlockedDate, error) {
	today := s.now().In(s.loc).Format(DateLayout)
	return s.repo.List(ctx, Filter{From: today})
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
