package jobposting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	items map[string]*JobPosting
}

func (f *fakeRepo) Create(_ context.Context, p *JobPosting) error {
	p.ID = "job-1"
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*JobPosting, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) List(context.Context, Filter) ([]*JobPosting, int, error) {
	return nil, 0, nil
}

func (f *fakeRepo) Update(_ context.Context, p *JobPosting) error {
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateRequest
		wantErr error
	}{
		{name: "defaults to full time", req: CreateRequest{Title: "Cleaner", Description: "Homes", IsActive: true}},
		{name: "blank title", req: CreateRequest{Title: " ", Description: "Homes"}, wantErr: ErrTitleRequired},
		{name: "blank description", req: CreateRequest{Title: "Cleaner"}, wantErr: ErrDescriptionRequired},
		{name: "bad type", req: CreateRequest{Title: "Cleaner", Description: "Homes", EmploymentType: "seasonal"}, wantErr: ErrInvalidEmploymentType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&fakeRepo{items: map[string]*JobPosting{}})
			p, err := svc.Create(context.Background(), tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, FullTime, p.EmploymentType)
			assert.True(t, p.IsActive)
		})
	}
}

func TestService_Update(t *testing.T) {
	repo := &fakeRepo{items: map[string]*JobPosting{}}
	svc := NewService(repo)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateRequest{Title: "Cleaner", Description: "Homes", Location: "Springfield", IsActive: true})
	require.NoError(t, err)

	contract := "contract"
	closed := false
	updated, err := svc.Update(ctx, p.ID, UpdateRequest{EmploymentType: &contract, IsActive: &closed})
	require.NoError(t, err)
	assert.Equal(t, Contract, updated.EmploymentType)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Springfield", updated.Location)

	blank := ""
	_, err = svc.Update(ctx, p.ID, UpdateRequest{Title: &blank})
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = svc.Update(ctx, "missing", UpdateRequest{IsActive: &closed})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.ErrorIs(t, svc.Delete(ctx, p.ID), ErrNotFound)
}
