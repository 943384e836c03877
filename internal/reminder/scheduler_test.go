package reminder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/agenda-pro/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-pro/internal/models"
	"github.com/BruksfildServices01/agenda-pro/internal/timezone"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeStore struct {
	mu           sync.Mutex
	appointments map[uint]*models.Appointment
}

func newFakeStore(aps ...models.Appointment) *fakeStore {
	s := &fakeStore{appointments: make(map[uint]*models.Appointment)}
	for i := range aps {
		ap := aps[i]
		s.appointments[ap.ID] = &ap
	}
	return s
}

func (s *fakeStore) FindPendingInWindow(ctx context.Context, start, end time.Time) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc := timezone.Location()
	var due []models.Appointment
	for _, ap := range s.appointments {
		if ap.Status != string(domain.StatusPending) || ap.ReminderSent {
			continue
		}
		startsAt, err := domain.SlotTime(ap.Date, ap.Time, loc)
		if err != nil {
			continue
		}
		if !startsAt.Before(start) && startsAt.Before(end) {
			due = append(due, *ap)
		}
	}
	return due, nil
}

func (s *fakeStore) MarkReminderSent(ctx context.Context, id uint, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ap, ok := s.appointments[id]
	if !ok || ap.Status != string(domain.StatusPending) || ap.ReminderSent {
		return false, nil
	}
	ap.ReminderSent = true
	ap.ReminderSentAt = &at
	return true, nil
}

func (s *fakeStore) cancel(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments[id].Status = string(domain.StatusCancelled)
}

type fakeSender struct {
	mu      sync.Mutex
	sent    []uint
	failFor map[uint]bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{failFor: make(map[uint]bool)}
}

func (f *fakeSender) Send(ctx context.Context, ap models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[ap.ID] {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, ap.ID)
	return nil
}

func (f *fakeSender) sentCount(id uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.sent {
		if s == id {
			n++
		}
	}
	return n
}

func pendingAt(id uint, date, slot string) models.Appointment {
	return models.Appointment{
		ID:          id,
		Date:        date,
		Time:        slot,
		Status:      string(domain.StatusPending),
		ClientName:  "João",
		ClientEmail: "joao@example.com",
	}
}

func baseTime(t *testing.T) time.Time {
	t.Helper()
	base, err := time.ParseInLocation("2006-01-02 15:04", "2026-03-10 09:00", timezone.Location())
	require.NoError(t, err)
	return base
}

func TestSweepSendsReminderOnce(t *testing.T) {
	base := baseTime(t)
	clk := &fakeClock{now: base}

	store := newFakeStore(pendingAt(1, "2026-03-10", "09:30"))
	sender := newFakeSender()

	s := NewScheduler(store, sender).
		WithInterval(30 * time.Minute).
		WithWindow(30 * time.Minute).
		WithClock(clk)

	require.NoError(t, s.Sweep(context.Background()))
	assert.Equal(t, 1, sender.sentCount(1))

	// segunda varredura não reenvia
	require.NoError(t, s.Sweep(context.Background()))
	assert.Equal(t, 1, sender.sentCount(1))
}

func TestSweepWindowIsHalfOpen(t *testing.T) {
	base := baseTime(t)
	clk := &fakeClock{now: base}

	store := newFakeStore(
		pendingAt(1, "2026-03-10", "09:00"), // == start, dentro
		pendingAt(2, "2026-03-10", "09:30"), // == end, fora
		pendingAt(3, "2026-03-10", "10:00"), // além, fora
	)
	sender := newFakeSender()

	s := NewScheduler(store, sender).
		WithInterval(30 * time.Minute).
		WithWindow(30 * time.Minute).
		WithClock(clk)

	require.NoError(t, s.Sweep(context.Background()))

	assert.Equal(t, 1, sender.sentCount(1))
	assert.Equal(t, 0, sender.sentCount(2))
	assert.Equal(t, 0, sender.sentCount(3))

	// a próxima varredura cobre o que ficou fora
	clk.Advance(30 * time.Minute)
	require.NoError(t, s.Sweep(context.Background()))
	assert.Equal(t, 1, sender.sentCount(2))
}

func TestSweepSkipsCancelled(t *testing.T) {
	base := baseTime(t)
	clk := &fakeClock{now: base}

	store := newFakeStore(pendingAt(1, "2026-03-10", "09:00"))
	store.cancel(1)
	sender := newFakeSender()

	s := NewScheduler(store, sender).WithClock(clk)

	require.NoError(t, s.Sweep(context.Background()))
	assert.Equal(t, 0, sender.sentCount(1))
}

func TestSweepRetriesAfterSendFailure(t *testing.T) {
	base := baseTime(t)
	clk := &fakeClock{now: base}

	store := newFakeStore(
		pendingAt(1, "2026-03-10", "09:00"),
		pendingAt(2, "2026-03-10", "09:00"),
	)
	sender := newFakeSender()
	sender.failFor[1] = true

	s := NewScheduler(store, sender).WithClock(clk)

	// a falha do 1 não bloqueia o 2
	require.NoError(t, s.Sweep(context.Background()))
	assert.Equal(t, 0, sender.sentCount(1))
	assert.Equal(t, 1, sender.sentCount(2))
	assert.False(t, store.appointments[1].ReminderSent)

	// enviador volta e a varredura seguinte recupera o 1
	sender.failFor[1] = false
	require.NoError(t, s.Sweep(context.Background()))
	assert.Equal(t, 1, sender.sentCount(1))
	assert.Equal(t, 1, sender.sentCount(2))
}

func TestSweepSkipsAppointmentWithoutEmail(t *testing.T) {
	base := baseTime(t)
	clk := &fakeClock{now: base}

	ap := pendingAt(1, "2026-03-10", "09:00")
	ap.ClientEmail = ""
	store := newFakeStore(ap)
	sender := newFakeSender()

	s := NewScheduler(store, sender).WithClock(clk)

	require.NoError(t, s.Sweep(context.Background()))
	assert.Equal(t, 0, sender.sentCount(1))
}

func TestWindowNeverSmallerThanInterval(t *testing.T) {
	s := NewScheduler(newFakeStore(), newFakeSender()).
		WithInterval(30 * time.Minute).
		WithWindow(10 * time.Minute)

	assert.Equal(t, 30*time.Minute, s.window)
}
