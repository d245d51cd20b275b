package availability

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Service is the availability API consumed by the HTTP layer.
type Service interface {
	AvailableSlots(ctx context.Context, serviceID string, date time.Time) (*DaySlots, error)
	AvailableDates(ctx context.Context, serviceID string, from time.Time, days int) ([]DayCount, error)
	ComputeAvailableSlots(ctx context.Context, serviceID string, date time.Time, durationMinutes, bufferMinutes int) ([]Slot, error)
	ValidateProposedBooking(ctx context.Context, serviceID string, start, end time.Time) (Validation, error)
}

var _ Service = (*Engine)(nil)

// Engine computes bookable slots and re-validates proposed bookings.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	store         Store
	now           func() time.Time
	loc           *time.Location
	bufferMinutes int
}

type Option func(*Engine)

// WithClock overrides the source of "now".
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the business timezone that calendar dates and window times are read in.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithBufferMinutes sets the gap enforced around existing bookings.
// Negative values fall back to DefaultBufferMinutes.
func WithBufferMinutes(m int) Option {
	return func(e *Engine) {
		if m < 0 {
			m = DefaultBufferMinutes
		}
		e.bufferMinutes = m
	}
}

func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:         store,
		now:           time.Now,
		loc:           time.Local,
		bufferMinutes: DefaultBufferMinutes,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithStore returns a copy of the engine reading from store, e.g. a transaction-bound store.
func (e *Engine) WithStore(store Store) *Engine {
	cp := *e
	cp.store = store
	return &cp
}

// Location returns the business timezone.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// BufferMinutes returns the configured booking buffer.
func (e *Engine) BufferMinutes() int {
	return e.bufferMinutes
}

// Day returns local midnight of the calendar date carried by t.
// The year/month/day fields are taken as-is, without converting t to the business timezone,
// so a date parsed as UTC midnight still names the same calendar day.
func (e *Engine) Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, e.loc)
}

// AvailableSlots looks up the service and lists its slots on date with the configured buffer.
func (e *Engine) AvailableSlots(ctx context.Context, serviceID string, date time.Time) (*DaySlots, error) {
	svc, err := e.LookupService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	slots, err := e.ComputeAvailableSlots(ctx, svc.ID, date, svc.DurationMinutes, e.bufferMinutes)
	if err != nil {
		return nil, err
	}

	return &DaySlots{
		Service: *svc,
		Date:    e.Day(date),
		Slots:   slots,
	}, nil
}

// AvailableDates returns the number of open slots for each of the days starting at from.
// days is clamped to [1, MaxDateRange].
func (e *Engine) AvailableDates(ctx context.Context, serviceID string, from time.Time, days int) ([]DayCount, error) {
	svc, err := e.LookupService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	if days < 1 {
		days = 1
	}
	if days > MaxDateRange {
		days = MaxDateRange
	}

	start := e.Day(from)
	counts := make([]DayCount, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		slots, err := e.ComputeAvailableSlots(ctx, svc.ID, day, svc.DurationMinutes, e.bufferMinutes)
		if err != nil {
			return nil, err
		}
		counts = append(counts, DayCount{Date: day, SlotCount: len(slots)})
	}
	return counts, nil
}

// ComputeAvailableSlots lists the bookable slots for serviceID on date.
//
// Candidates start every GridStep inside each business-hours window of the weekday.
// A candidate is dropped when it runs past the window end, when it overlaps any
// non-cancelled booking padded by bufferMinutes on both sides, or, for today,
// when it does not start strictly after now. Past and blocked dates yield no slots.
// A negative bufferMinutes selects DefaultBufferMinutes.
func (e *Engine) ComputeAvailableSlots(ctx context.Context, serviceID string, date time.Time, durationMinutes, bufferMinutes int) ([]Slot, error) {
	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	if bufferMinutes < 0 {
		bufferMinutes = DefaultBufferMinutes
	}

	now := e.now().In(e.loc)
	day := e.Day(date)
	today := e.Day(now)

	slots := make([]Slot, 0)
	if day.Before(today) {
		return slots, nil
	}

	dayEnd := day.AddDate(0, 0, 1)
	blocked, err := e.store.HasBlockedDate(ctx, day, dayEnd)
	if err != nil {
		return nil, unavailable("blocked dates lookup", err)
	}
	if blocked {
		return slots, nil
	}

	windows, err := e.store.ListWindows(ctx, day.Weekday())
	if err != nil {
		return nil, unavailable("business hours lookup", err)
	}
	if len(windows) == 0 {
		return slots, nil
	}

	duration := time.Duration(durationMinutes) * time.Minute
	buffer := time.Duration(bufferMinutes) * time.Minute

	// Bookings ending shortly before midnight still push their buffer into this day.
	bookings, err := e.store.ListBookings(ctx, serviceID, day.Add(-buffer), dayEnd.Add(buffer))
	if err != nil {
		return nil, unavailable("bookings lookup", err)
	}

	isToday := day.Equal(today)

	for _, w := range windows {
		if !w.IsAvailable {
			continue
		}
		windowStart, windowEnd, err := e.windowBounds(day, w)
		if err != nil {
			return nil, err
		}

		for cursor := windowStart; cursor.Before(windowEnd); cursor = cursor.Add(GridStep) {
			proposedEnd := cursor.Add(duration)
			if proposedEnd.After(windowEnd) {
				continue
			}
			if overlapsAny(cursor, proposedEnd, bookings, buffer) {
				continue
			}
			if isToday && !cursor.After(now) {
				continue
			}
			slots = append(slots, Slot{
				StartTime: cursor.Format(clockLayout),
				EndTime:   proposedEnd.Format(clockLayout),
				Available: true,
			})
		}
	}

	return slots, nil
}

// ValidateProposedBooking re-derives from scratch whether [start, end) can be booked
// for serviceID. It does not trust any previously listed slot.
func (e *Engine) ValidateProposedBooking(ctx context.Context, serviceID string, start, end time.Time) (Validation, error) {
	if !end.After(start) {
		return reject(RejectInvalidRange), nil
	}

	// Instant comparison, stricter than the day-level check used for listing.
	if start.Before(e.now()) {
		return reject(RejectPast), nil
	}

	day := e.Day(start.In(e.loc))

	blocked, err := e.store.HasBlockedDate(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return Validation{}, unavailable("blocked dates lookup", err)
	}
	if blocked {
		return reject(RejectBlocked), nil
	}

	windows, err := e.store.ListWindows(ctx, day.Weekday())
	if err != nil {
		return Validation{}, unavailable("business hours lookup", err)
	}

	contained := false
	for _, w := range windows {
		if !w.IsAvailable {
			continue
		}
		windowStart, windowEnd, err := e.windowBounds(day, w)
		if err != nil {
			return Validation{}, err
		}
		if !windowStart.After(start) && !windowEnd.Before(end) {
			contained = true
			break
		}
	}
	if !contained {
		return reject(RejectOutsideHours), nil
	}

	buffer := time.Duration(e.bufferMinutes) * time.Minute
	bookings, err := e.store.ListBookings(ctx, serviceID, start.Add(-buffer), end.Add(buffer))
	if err != nil {
		return Validation{}, unavailable("bookings lookup", err)
	}
	if overlapsAny(start, end, bookings, buffer) {
		return reject(RejectOverlap), nil
	}

	return Validation{IsValid: true}, nil
}

// LookupService returns the service if it exists and is bookable.
func (e *Engine) LookupService(ctx context.Context, serviceID string) (*ServiceInfo, error) {
	svc, err := e.store.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, unavailable("service lookup", err)
	}
	if !svc.IsActive {
		return nil, ErrServiceInactive
	}
	return svc, nil
}

// windowBounds places a recurring window on the given local day.
func (e *Engine) windowBounds(day time.Time, w Window) (time.Time, time.Time, error) {
	startClock, err := parseClock(w.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("window %s: invalid start time %q: %w", w.ID, w.StartTime, err)
	}
	endClock, err := parseClock(w.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("window %s: invalid end time %q: %w", w.ID, w.EndTime, err)
	}

	at := func(c time.Time) time.Time {
		return time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), c.Second(), 0, e.loc)
	}
	return at(startClock), at(endClock), nil
}

// parseClock accepts "HH:MM:SS" (Postgres TIME::text) and "HH:MM".
func parseClock(s string) (time.Time, error) {
	t, err := time.Parse("15:04:05", s)
	if err == nil {
		return t, nil
	}
	return time.Parse(clockLayout, s)
}

// overlapsAny applies the strict half-open test against every non-cancelled booking
// padded by buffer on both ends; touching boundaries do not conflict.
func overlapsAny(start, end time.Time, bookings []Booking, buffer time.Duration) bool {
	for _, b := range bookings {
		if b.Status == StatusCancelled {
			continue
		}
		bufferedStart := b.StartTime.Add(-buffer)
		bufferedEnd := b.EndTime.Add(buffer)
		if start.Before(bufferedEnd) && end.After(bufferedStart) {
			return true
		}
	}
	return false
}

func unavailable(op string, err error) error {
	return ErrUnavailable.WithCause(fmt.Errorf("%s: %w", op, err))
}
