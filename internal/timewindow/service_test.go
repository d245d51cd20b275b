package timewindow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	windows map[string]*TimeWindow
	updated *TimeWindow
}

func (f *fakeRepo) Create(_ context.Context, w *TimeWindow) error {
	w.ID = "new"
	f.windows[w.ID] = w
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*TimeWindow, error) {
	w, ok := f.windows[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (f *fakeRepo) List(context.Context, Filter) ([]*TimeWindow, error) {
	return nil, nil
}

func (f *fakeRepo) Update(_ context.Context, w *TimeWindow) error {
	f.updated = w
	return nil
}

func (f *fakeRepo) Delete(context.Context, string) error {
	return nil
}

func TestService_CreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateRequest
		wantErr error
	}{
		{name: "valid", req: CreateRequest{DayOfWeek: 1, StartTime: "08:00", EndTime: "18:00", IsAvailable: true}},
		{name: "day too large", req: CreateRequest{DayOfWeek: 7, StartTime: "08:00", EndTime: "18:00"}, wantErr: ErrInvalidDay},
		{name: "negative day", req: CreateRequest{DayOfWeek: -1, StartTime: "08:00", EndTime: "18:00"}, wantErr: ErrInvalidDay},
		{name: "bad start", req: CreateRequest{DayOfWeek: 1, StartTime: "8am", EndTime: "18:00"}, wantErr: ErrInvalidTime},
		{name: "bad end", req: CreateRequest{DayOfWeek: 1, StartTime: "08:00", EndTime: "25:00"}, wantErr: ErrInvalidTime},
		{name: "equal", req: CreateRequest{DayOfWeek: 1, StartTime: "08:00", EndTime: "08:00"}, wantErr: ErrInvalidTimeRange},
		{name: "reversed", req: CreateRequest{DayOfWeek: 1, StartTime: "18:00", EndTime: "08:00"}, wantErr: ErrInvalidTimeRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&fakeRepo{windows: map[string]*TimeWindow{}})
			w, err := svc.Create(context.Background(), tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "new", w.ID)
		})
	}
}

func TestService_UpdateValidatesMergedWindow(t *testing.T) {
	repo := &fakeRepo{windows: map[string]*TimeWindow{
		"w1": {ID: "w1", DayOfWeek: 2, StartTime: "08:00", EndTime: "12:00", IsAvailable: true},
	}}
	svc := NewService(repo)
	ctx := context.Background()

	// Moving only the start past the stored end must fail.
	start := "13:00"
	_, err := svc.Update(ctx, "w1", UpdateRequest{StartTime: &start})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
	assert.Nil(t, repo.updated)

	end := "17:00"
	w, err := svc.Update(ctx, "w1", UpdateRequest{StartTime: &start, EndTime: &end})
	require.NoError(t, err)
	assert.Equal(t, "13:00", w.StartTime)
	assert.Equal(t, "17:00", w.EndTime)
	assert.Equal(t, 2, w.DayOfWeek)
	assert.Same(t, w, repo.updated)

	_, err = svc.Update(ctx, "missing", UpdateRequest{StartTime: &start})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_ListRejectsBadDay(t *testing.T) {
	svc := NewService(&fakeRepo{})
	day := 9
	_, err := svc.List(context.Background(), Filter{DayOfWeek: &day})
	assert.ErrorIs(t, err, ErrInvalidDay)
}

func TestTrimSeconds(t *testing.T) {
	assert.Equal(t, "08:00", trimSeconds("08:00:00"))
	assert.Equal(t, "08:00:30", trimSeconds("08:00:30"))
	assert.Equal(t, "08:00", trimSeconds("08:00"))
}
