package jobposting

import (
	"context"
	"strings"
)

type CreateRequest struct {
	Title          string
	Description    string
	Location       string
	EmploymentType string
	IsActive       bool
}

type UpdateRequest struct {
	Title          *string
	Description    *string
	Location       *string
	EmploymentType *string
	IsActive       *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*JobPosting, error)
	GetByID(ctx context.Context, id string) (*JobPosting, error)
	List(ctx context.Context, filter Filter) ([]*JobPosting, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*JobPosting, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*JobPosting, error) {
	p := &JobPosting{
		Title:          strings.TrimSpace(req.Title),
		Description:    strings.TrimSpace(req.Description),
		Location:       strings.TrimSpace(req.Location),
		EmploymentType: EmploymentType(req.EmploymentType),
		IsActive:       req.IsActive,
	}
	if p.EmploymentType == "" {
		p.EmploymentType = FullTime
	}
	if err := validate(p); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*JobPosting, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*JobPosting, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*JobPosting, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		p.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		p.Description = strings.TrimSpace(*req.Description)
	}
	if req.Location != nil {
		p.Location = strings.TrimSpace(*req.Location)
	}
	if req.EmploymentType != nil {
		p.EmploymentType = EmploymentType(*req.EmploymentType)
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := validate(p); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validate(p *JobPosting) error {
	if p.Title == "" {
		return ErrTitleRequired
	}
	if p.Description == "" {
		return ErrDescriptionRequired
	}
	if !p.EmploymentType.Valid() {
		return ErrInvalidEmploymentType
	}
	return nil
}
