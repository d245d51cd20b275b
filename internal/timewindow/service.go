package timewindow

import (
	"context"
	"time"
)

const clockLayout = "15:04"

type CreateRequest struct {
	DayOfWeek   int
	StartTime   string
	EndTime     string
	IsAvailable bool
}

type UpdateRequest struct {
	DayOfWeek   *int
	StartTime   *string
	EndTime     *string
	IsAvailable *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*TimeWindow, error)
	GetByID(ctx context.Context, id string) (*TimeWindow, error)
	List(ctx context.Context, filter Filter) ([]*TimeWindow, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*TimeWindow, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*TimeWindow, error) {
	w := &TimeWindow{
		DayOfWeek:   req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: req.IsAvailable,
	}
	if err := validateWindow(w); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*TimeWindow, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*TimeWindow, error) {
	if filter.DayOfWeek != nil && (*filter.DayOfWeek < 0 || *filter.DayOfWeek > 6) {
		return nil, ErrInvalidDay
	}
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*TimeWindow, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DayOfWeek != nil {
		w.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		w.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		w.EndTime = *req.EndTime
	}
	if req.IsAvailable != nil {
		w.IsAvailable = *req.IsAvailable
	}

	// Validate the merged window, not just the changed fields.
	if err := validateWindow(w); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validateWindow(w *TimeWindow) error {
	if w.DayOfWeek < 0 || w.DayOfWeek > 6 {
		return ErrInvalidDay
	}

	start, err := time.Parse(clockLayout, w.StartTime)
	if err != nil {
		return ErrInvalidTime
	}
	end, err := time.Parse(clockLayout, w.EndTime)
	if err != nil {
		return ErrInvalidTime
	}

	if !start.Before(end) {
		return ErrInvalidTimeRange
	}
	return nil
}
