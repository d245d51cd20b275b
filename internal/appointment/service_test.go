package appointment

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brightnest/cleaning-booking-backend/internal/activity"
	"github.com/brightnest/cleaning-booking-backend/internal/availability"
	"github.com/brightnest/cleaning-booking-backend/internal/notification"
	"github.com/brightnest/cleaning-booking-backend/internal/pkg/apperror"
)

var testLoc = time.FixedZone("EST", -5*60*60)

const standardID = "svc-standard"

// fakeBackend serves both the availability reads and the appointment writes from memory.
type fakeBackend struct {
	mu           sync.Mutex
	appointments map[string]*Appointment
	blocked      map[string]bool
	nextID       int
	reminded     []string
	completedAt  time.Time
	listErr      error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		appointments: map[string]*Appointment{},
		blocked:      map[string]bool{},
	}
}

// availability.Store

func (f *fakeBackend) GetService(_ context.Context, id string) (*availability.ServiceInfo, error) {
	switch id {
	case standardID:
		return &availability.ServiceInfo{ID: id, Name: "Standard Clean", DurationMinutes: 120, IsActive: true}, nil
	case "svc-retired":
		return &availability.ServiceInfo{ID: id, Name: "Retired", DurationMinutes: 60, IsActive: false}, nil
	}
	return nil, availability.ErrServiceNotFound
}

func (f *fakeBackend) HasBlockedDate(_ context.Context, from, _ time.Time) (bool, error) {
	return f.blocked[from.Format("2006-01-02")], nil
}

func (f *fakeBackend) ListWindows(_ context.Context, weekday time.Weekday) ([]availability.Window, error) {
	if weekday == time.Saturday || weekday == time.Sunday {
		return nil, nil
	}
	return []availability.Window{{ID: "w", DayOfWeek: int(weekday), StartTime: "08:00:00", EndTime: "17:00:00", IsAvailable: true}}, nil
}

func (f *fakeBackend) ListBookings(_ context.Context, serviceID string, from, to time.Time) ([]availability.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []availability.Booking
	for _, a := range f.appointments {
		if a.ServiceID != serviceID || a.Status == StatusCancelled {
			continue
		}
		if a.StartTime.Before(to) && a.EndTime.After(from) {
			out = append(out, availability.Booking{ID: a.ID, ServiceID: a.ServiceID, StartTime: a.StartTime, EndTime: a.EndTime, Status: a.Status})
		}
	}
	return out, nil
}

// Repository

func (f *fakeBackend) CreateExclusive(ctx context.Context, a *Appointment, check CheckFunc) error {
	if err := check(ctx, f); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	a.ID = "appt-" + strconv.Itoa(f.nextID)
	cp := *a
	f.appointments[a.ID] = &cp
	return nil
}

func (f *fakeBackend) GetByID(_ context.Context, id string) (*Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeBackend) List(_ context.Context, _ Filter) ([]*Appointment, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Appointment
	for _, a := range f.appointments {
		out = append(out, a)
	}
	return out, len(out), nil
}

func (f *fakeBackend) UpdateStatus(_ context.Context, id string, from, to Status) (*Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	if a.Status != from {
		return nil, ErrStatusChanged
	}
	a.Status = to
	cp := *a
	return &cp, nil
}

func (f *fakeBackend) ListDueReminders(_ context.Context, from, to time.Time) ([]*Appointment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Appointment
	for _, a := range f.appointments {
		if a.Status == StatusConfirmed && a.RemindedAt == nil && !a.StartTime.Before(from) && a.StartTime.Before(to) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeBackend) MarkReminded(_ context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appointments[id].RemindedAt = &at
	f.reminded = append(f.reminded, id)
	return nil
}

func (f *fakeBackend) CompleteEnded(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completedAt = cutoff
	var n int64
	for _, a := range f.appointments {
		if a.Status == StatusConfirmed && !a.EndTime.After(cutoff) {
			a.Status = StatusCompleted
			n++
		}
	}
	return n, nil
}

type recordingNotifier struct {
	requested []notification.AppointmentDetails
	reminders []notification.AppointmentDetails
	err       error
}

func (n *recordingNotifier) AppointmentRequested(_ context.Context, a notification.AppointmentDetails) error {
	n.requested = append(n.requested, a)
	return n.err
}

func (n *recordingNotifier) AppointmentReminder(_ context.Context, a notification.AppointmentDetails) error {
	n.reminders = append(n.reminders, a)
	return n.err
}

func (n *recordingNotifier) LeadReceived(context.Context, notification.LeadDetails) error {
	return n.err
}

type fixture struct {
	backend  *fakeBackend
	notifier *recordingNotifier
	log      *activity.Log
	svc      Service
}

// Friday, 2026-03-06 09:00 local.
var fixedNow = time.Date(2026, 3, 6, 9, 0, 0, 0, testLoc)

func newFixture() *fixture {
	backend := newFakeBackend()
	clock := func() time.Time { return fixedNow }
	engine := availability.NewEngine(backend,
		availability.WithLocation(testLoc),
		availability.WithClock(clock),
		availability.WithBufferMinutes(30),
	)
	notifier := &recordingNotifier{}
	log := activity.New(50, time.Hour)
	return &fixture{
		backend:  backend,
		notifier: notifier,
		log:      log,
		svc:      NewService(backend, engine, notifier, log, zap.NewNop(), WithClock(clock)),
	}
}

func bookingRequest(date, start string) CreateRequest {
	return CreateRequest{
		ServiceID:     standardID,
		Date:          date,
		StartTime:     start,
		CustomerName:  " Jane Doe ",
		CustomerEmail: "jane@example.com",
		Address:       "12 Elm Street",
	}
}

func TestService_Create(t *testing.T) {
	f := newFixture()

	a, err := f.svc.Create(context.Background(), bookingRequest("2026-03-09", "10:00"))
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "Standard Clean", a.ServiceName)
	assert.Equal(t, "Jane Doe", a.CustomerName)
	assert.Equal(t, StatusPending, a.Status)
	assert.True(t, a.StartTime.Equal(time.Date(2026, 3, 9, 10, 0, 0, 0, testLoc)))
	assert.True(t, a.EndTime.Equal(time.Date(2026, 3, 9, 12, 0, 0, 0, testLoc)))

	require.Len(t, f.notifier.requested, 1)
	assert.Equal(t, a.ID, f.notifier.requested[0].ID)

	recent := f.log.Recent(10)
	require.NotEmpty(t, recent)
	assert.Equal(t, activity.KindAppointmentCreated, recent[0].Kind)
}

func TestService_CreateConflicts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, bookingRequest("2026-03-09", "10:00"))
	require.NoError(t, err)

	// 12:00 touches the booking but falls inside its 30 minute buffer.
	_, err = f.svc.Create(ctx, bookingRequest("2026-03-09", "12:00"))
	assert.ErrorIs(t, err, ErrTimeConflict)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusConflict, appErr.Code)
	assert.Equal(t, "This time slot is no longer available", appErr.Message)

	// 12:30 clears the buffer.
	_, err = f.svc.Create(ctx, bookingRequest("2026-03-09", "12:30"))
	assert.NoError(t, err)

	assert.Equal(t, activity.KindAppointmentCreated, f.log.Recent(1)[0].Kind)
}

func TestService_CreateRejections(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateRequest
		code    int
		message string
	}{
		{name: "past", req: bookingRequest("2026-03-05", "10:00"), code: http.StatusBadRequest, message: "Cannot book appointments in the past"},
		{name: "earlier today", req: bookingRequest("2026-03-06", "08:30"), code: http.StatusBadRequest, message: "Cannot book appointments in the past"},
		{name: "weekend", req: bookingRequest("2026-03-07", "10:00"), code: http.StatusBadRequest, message: "Selected time is outside business hours"},
		{name: "runs past closing", req: bookingRequest("2026-03-09", "16:00"), code: http.StatusBadRequest, message: "Selected time is outside business hours"},
		{name: "blocked", req: bookingRequest("2026-03-10", "10:00"), code: http.StatusBadRequest, message: "This date is not available for booking"},
		{name: "bad date", req: bookingRequest("03/09/2026", "10:00"), code: http.StatusBadRequest, message: ErrInvalidDate.Message},
		{name: "bad time", req: bookingRequest("2026-03-09", "25:00"), code: http.StatusBadRequest, message: ErrInvalidDate.Message},
		{name: "unknown service", req: CreateRequest{ServiceID: "nope", Date: "2026-03-09", StartTime: "10:00"}, code: http.StatusNotFound, message: availability.ErrServiceNotFound.Message},
		{name: "inactive service", req: CreateRequest{ServiceID: "svc-retired", Date: "2026-03-09", StartTime: "10:00"}, code: http.StatusNotFound, message: availability.ErrServiceInactive.Message},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.backend.blocked["2026-03-10"] = true

			_, err := f.svc.Create(context.Background(), tt.req)
			require.Error(t, err)

			var appErr *apperror.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.message, appErr.Message)
			assert.Empty(t, f.backend.appointments)
			assert.Empty(t, f.notifier.requested)
		})
	}
}

func TestService_CreateRecordsRejection(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), bookingRequest("2026-03-07", "10:00"))
	require.Error(t, err)

	recent := f.log.Recent(1)
	require.Len(t, recent, 1)
	assert.Equal(t, activity.KindAppointmentReject, recent[0].Kind)
	assert.Equal(t, "Selected time is outside business hours", recent[0].Message)
}

func TestService_CreateSurvivesNotificationFailure(t *testing.T) {
	f := newFixture()
	f.notifier.err = errors.New("smtp down")

	a, err := f.svc.Create(context.Background(), bookingRequest("2026-03-09", "08:00"))
	require.NoError(t, err)
	assert.Contains(t, f.backend.appointments, a.ID)

	recent := f.log.Recent(1)
	require.Len(t, recent, 1)
	assert.Equal(t, activity.KindNotificationFailed, recent[0].Kind)
	assert.Equal(t, a.ID, recent[0].Fields["appointment_id"])
}

func TestService_CreateConcurrent(t *testing.T) {
	f := newFixture()
	// Serialize like the advisory lock does.
	var lock sync.Mutex
	repo := &lockingRepo{fakeBackend: f.backend, lock: &lock}
	engine := availability.NewEngine(f.backend,
		availability.WithLocation(testLoc),
		availability.WithClock(func() time.Time { return fixedNow }),
	)
	svc := NewService(repo, engine, f.notifier, f.log, zap.NewNop())

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), bookingRequest("2026-03-09", "10:00"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrTimeConflict)
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, f.backend.appointments, 1)
}

type lockingRepo struct {
	*fakeBackend
	lock *sync.Mutex
}

func (r *lockingRepo) CreateExclusive(ctx context.Context, a *Appointment, check CheckFunc) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.fakeBackend.CreateExclusive(ctx, a, check)
}

func TestService_UpdateStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.svc.Create(ctx, bookingRequest("2026-03-09", "10:00"))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, a.ID, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = f.svc.UpdateStatus(ctx, a.ID, "completed")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	same, err := f.svc.UpdateStatus(ctx, a.ID, "pending")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, same.Status)

	confirmed, err := f.svc.UpdateStatus(ctx, a.ID, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)
	assert.Equal(t, activity.KindAppointmentStatus, f.log.Recent(1)[0].Kind)

	cancelled, err := f.svc.UpdateStatus(ctx, a.ID, "cancelled")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	_, err = f.svc.UpdateStatus(ctx, a.ID, "confirmed")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// A cancelled appointment frees its slot.
	_, err = f.svc.Create(ctx, bookingRequest("2026-03-09", "10:00"))
	assert.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, "missing", "confirmed")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusConfirmed))
	assert.True(t, CanTransition(StatusPending, StatusCancelled))
	assert.True(t, CanTransition(StatusConfirmed, StatusCompleted))
	assert.False(t, CanTransition(StatusPending, StatusCompleted))
	assert.False(t, CanTransition(StatusCompleted, StatusCancelled))
	assert.False(t, CanTransition(StatusCancelled, StatusPending))
}

func TestService_SendReminders(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Monday appointments; "now" is moved to the Sunday before.
	first, err := f.svc.Create(ctx, bookingRequest("2026-03-09", "08:00"))
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, bookingRequest("2026-03-09", "13:00"))
	require.NoError(t, err)
	unconfirmed, err := f.svc.Create(ctx, bookingRequest("2026-03-10", "08:00"))
	require.NoError(t, err)

	for _, id := range []string{first.ID, second.ID} {
		_, err := f.svc.UpdateStatus(ctx, id, "confirmed")
		require.NoError(t, err)
	}

	sunday := time.Date(2026, 3, 8, 18, 0, 0, 0, testLoc)
	engine := availability.NewEngine(f.backend, availability.WithLocation(testLoc))
	svc := NewService(f.backend, engine, f.notifier, f.log, zap.NewNop(), WithClock(func() time.Time { return sunday }))

	sent, err := svc.SendReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.ElementsMatch(t, []string{first.ID, second.ID}, f.backend.reminded)
	assert.NotContains(t, f.backend.reminded, unconfirmed.ID)

	// Already reminded appointments are not sent again.
	sent, err = svc.SendReminders(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestService_SendRemindersSkipsFailures(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.svc.Create(ctx, bookingRequest("2026-03-09", "08:00"))
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, a.ID, "confirmed")
	require.NoError(t, err)

	f.notifier.err = errors.New("smtp down")
	sunday := time.Date(2026, 3, 8, 18, 0, 0, 0, testLoc)
	engine := availability.NewEngine(f.backend, availability.WithLocation(testLoc))
	svc := NewService(f.backend, engine, f.notifier, f.log, zap.NewNop(), WithClock(func() time.Time { return sunday }))

	sent, err := svc.SendReminders(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, f.backend.reminded)

	f.backend.listErr = errors.New("db down")
	_, err = svc.SendReminders(ctx)
	assert.Error(t, err)
}

func TestService_CompleteFinished(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.svc.Create(ctx, bookingRequest("2026-03-09", "08:00"))
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, a.ID, "confirmed")
	require.NoError(t, err)

	n, err := f.svc.CompleteFinished(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.True(t, f.backend.completedAt.Equal(fixedNow))

	later := time.Date(2026, 3, 9, 11, 0, 0, 0, testLoc)
	engine := availability.NewEngine(f.backend, availability.WithLocation(testLoc))
	svc := NewService(f.backend, engine, f.notifier, f.log, zap.NewNop(), WithClock(func() time.Time { return later }))

	n, err = svc.CompleteFinished(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := svc.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
}
