package activity

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestLog_RecentNewestFirst(t *testing.T) {
	l := New(10, time.Hour)
	l.Record(KindLeadCreated, "first", nil)
	l.Record(KindLeadCreated, "second", nil)
	l.Record(KindLeadCreated, "third", map[string]string{"id": "3"})

	got := l.Recent(0)
	require.Len(t, got, 3)
	assert.Equal(t, "third", got[0].Message)
	assert.Equal(t, "3", got[0].Fields["id"])
	assert.Equal(t, "first", got[2].Message)

	assert.Len(t, l.Recent(2), 2)
}

func TestLog_OverwritesOldestWhenFull(t *testing.T) {
	l := New(3, 0)
	for i := 1; i <= 5; i++ {
		l.Record(KindJobRun, fmt.Sprintf("e%d", i), nil)
	}

	got := l.Recent(0)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"e5", "e4", "e3"}, []string{got[0].Message, got[1].Message, got[2].Message})
}

func TestLog_ExpiresByTTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)}
	l := New(10, 30*time.Minute, WithClock(clock.Now))

	l.Record(KindJobRun, "old", nil)
	clock.Advance(20 * time.Minute)
	l.Record(KindJobRun, "new", nil)
	assert.Equal(t, 2, l.Len())

	clock.Advance(15 * time.Minute)
	got := l.Recent(0)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Message)

	clock.Advance(time.Hour)
	assert.Empty(t, l.Recent(0))
}

func TestLog_EmptyAndMinimumSize(t *testing.T) {
	l := New(0, time.Minute)
	assert.Empty(t, l.Recent(5))

	l.Record(KindJobRun, "a", nil)
	l.Record(KindJobRun, "b", nil)
	got := l.Recent(5)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Message)
}

func TestLog_ConcurrentRecord(t *testing.T) {
	l := New(50, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				l.Record(KindJobRun, fmt.Sprintf("%d-%d", i, j), nil)
				_ = l.Recent(5)
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, l.Recent(0), 50)
}
