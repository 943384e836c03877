package appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/agenda-pro/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-pro/internal/httperr"
	"github.com/BruksfildServices01/agenda-pro/internal/models"
	"github.com/BruksfildServices01/agenda-pro/internal/timezone"
)

// ===============================
// Fake repository
// ===============================

type fakeRepo struct {
	mu            sync.Mutex
	professionals map[uint]models.Professional
	services      map[uint]models.Service
	clients       []models.Client
	appointments  map[uint]*models.Appointment
	nextID        uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		professionals: make(map[uint]models.Professional),
		services:      make(map[uint]models.Service),
		appointments:  make(map[uint]*models.Appointment),
		nextID:        1,
	}
}

func (r *fakeRepo) addProfessional(p models.Professional) {
	r.professionals[p.ID] = p
}

func (r *fakeRepo) addService(s models.Service) {
	r.services[s.ID] = s
}

func (r *fakeRepo) addAppointment(ap models.Appointment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ap.ID == 0 {
		ap.ID = r.nextID
		r.nextID++
	}
	r.appointments[ap.ID] = &ap
}

func (r *fakeRepo) GetProfessionalByID(ctx context.Context, id uint) (*models.Professional, error) {
	p, ok := r.professionals[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return &p, nil
}

func (r *fakeRepo) GetProfessionalBySlug(ctx context.Context, slug string) (*models.Professional, error) {
	for _, p := range r.professionals {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *fakeRepo) GetService(ctx context.Context, professionalID, serviceID uint) (*models.Service, error) {
	s, ok := r.services[serviceID]
	if !ok || s.ProfessionalID != professionalID {
		return nil, errors.New("record not found")
	}
	return &s, nil
}

func (r *fakeRepo) GetOrCreateClient(ctx context.Context, professionalID uint, name, phone, email string) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.clients {
		c := &r.clients[i]
		if c.ProfessionalID == professionalID && c.Phone == phone {
			return c, nil
		}
	}
	c := models.Client{
		ID:             uint(len(r.clients) + 1),
		ProfessionalID: professionalID,
		Name:           name,
		Phone:          phone,
		Email:          email,
	}
	r.clients = append(r.clients, c)
	return &c, nil
}

func (r *fakeRepo) CreateIfSlotFree(ctx context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.appointments {
		if existing.ProfessionalID == ap.ProfessionalID &&
			existing.Date == ap.Date &&
			existing.Time == ap.Time &&
			existing.Status != string(domain.StatusCancelled) {
			return httperr.ErrBusiness("slot_taken")
		}
	}

	ap.ID = r.nextID
	r.nextID++
	cp := *ap
	r.appointments[ap.ID] = &cp
	return nil
}

func (r *fakeRepo) ListBookedForDay(ctx context.Context, professionalID uint, date string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.ProfessionalID == professionalID &&
			ap.Date == date &&
			ap.Status != string(domain.StatusCancelled) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetAppointmentForProfessional(ctx context.Context, appointmentID, professionalID uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ap, ok := r.appointments[appointmentID]
	if !ok || ap.ProfessionalID != professionalID {
		return nil, errors.New("record not found")
	}
	cp := *ap
	return &cp, nil
}

func (r *fakeRepo) GetAppointmentByPublicID(ctx context.Context, publicID string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ap := range r.appointments {
		if ap.PublicID == publicID {
			cp := *ap
			return &cp, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *fakeRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *ap
	r.appointments[ap.ID] = &cp
	return nil
}

func (r *fakeRepo) ListAppointmentsForDay(ctx context.Context, professionalID uint, date string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.ProfessionalID == professionalID && ap.Date == date {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListAppointmentsForMonth(ctx context.Context, professionalID uint, year, month int) ([]models.Appointment, error) {
	return nil, nil
}

func (r *fakeRepo) FindPendingInWindow(ctx context.Context, start, end time.Time) ([]models.Appointment, error) {
	return nil, nil
}

func (r *fakeRepo) MarkReminderSent(ctx context.Context, appointmentID uint, at time.Time) (bool, error) {
	return false, nil
}

var _ domain.Repository = (*fakeRepo)(nil)

// ===============================
// Helpers
// ===============================

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func testClock(t *testing.T, value string) fixedClock {
	t.Helper()
	now, err := time.ParseInLocation("2006-01-02 15:04", value, timezone.Location())
	require.NoError(t, err)
	return fixedClock{now: now}
}

func seededRepo() *fakeRepo {
	repo := newFakeRepo()
	repo.addProfessional(models.Professional{ID: 1, Name: "Ana", Slug: "ana"})
	repo.addService(models.Service{ID: 10, ProfessionalID: 1, Name: "Corte", DurationMin: 30, Price: 50})
	return repo
}

func validReserveInput() ReserveInput {
	return ReserveInput{
		ProfessionalID: 1,
		ServiceID:      10,
		Date:           "2026-03-10",
		Time:           "14:30",
		ClientName:     "João",
		ClientPhone:    "11999990000",
		ClientEmail:    "joao@example.com",
	}
}

// ===============================
// Reserve
// ===============================

func TestReserveCreatesPendingAppointment(t *testing.T) {
	repo := seededRepo()
	uc := NewReserveSlot(repo, nil, nil).WithClock(testClock(t, "2026-03-09 10:00"))

	ap, err := uc.Execute(context.Background(), validReserveInput())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), ap.Status)
	assert.NotEmpty(t, ap.PublicID)
	assert.Equal(t, "2026-03-10", ap.Date)
	assert.Equal(t, "14:30", ap.Time)
	require.NotNil(t, ap.ClientID)
}

func TestReserveRejectsSlotOffGrid(t *testing.T) {
	repo := seededRepo()
	uc := NewReserveSlot(repo, nil, nil).WithClock(testClock(t, "2026-03-09 10:00"))

	for _, slot := range []string{"18:00", "08:30", "14:15", ""} {
		in := validReserveInput()
		in.Time = slot

		_, err := uc.Execute(context.Background(), in)
		assert.True(t, httperr.IsBusiness(err, "invalid_slot"), "slot %q", slot)
	}
}

func TestReserveRejectsTakenSlot(t *testing.T) {
	repo := seededRepo()
	uc := NewReserveSlot(repo, nil, nil).WithClock(testClock(t, "2026-03-09 10:00"))

	_, err := uc.Execute(context.Background(), validReserveInput())
	require.NoError(t, err)

	in := validReserveInput()
	in.ClientName = "Maria"
	in.ClientPhone = "11988880000"

	_, err = uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "slot_taken"))
}

func TestReserveAllowsSlotFreedByCancellation(t *testing.T) {
	repo := seededRepo()
	clk := testClock(t, "2026-03-09 10:00")
	reserve := NewReserveSlot(repo, nil, nil).WithClock(clk)
	cancel := NewCancelAppointment(repo, nil, nil).WithClock(clk)

	ap, err := reserve.Execute(context.Background(), validReserveInput())
	require.NoError(t, err)

	_, err = cancel.Execute(context.Background(), 1, ap.ID, "cliente desmarcou")
	require.NoError(t, err)

	in := validReserveInput()
	in.ClientName = "Maria"
	_, err = reserve.Execute(context.Background(), in)
	assert.NoError(t, err)
}

func TestReserveConcurrentSameSlotExactlyOneWins(t *testing.T) {
	repo := seededRepo()
	uc := NewReserveSlot(repo, nil, nil).WithClock(testClock(t, "2026-03-09 10:00"))

	const attempts = 20
	results := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), validReserveInput())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, taken int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case httperr.IsBusiness(err, "slot_taken"):
			taken++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, ok)
	assert.Equal(t, attempts-1, taken)
}

func TestReserveEnforcesMinAdvance(t *testing.T) {
	repo := seededRepo()
	pro := repo.professionals[1]
	pro.MinAdvanceMinutes = 60
	repo.addProfessional(pro)

	// 14:30 do mesmo dia, faltando 30 minutos
	uc := NewReserveSlot(repo, nil, nil).WithClock(testClock(t, "2026-03-10 14:00"))

	_, err := uc.Execute(context.Background(), validReserveInput())
	assert.True(t, httperr.IsBusiness(err, "too_soon"))
}

func TestReserveRejectsPastSlot(t *testing.T) {
	repo := seededRepo()
	uc := NewReserveSlot(repo, nil, nil).WithClock(testClock(t, "2026-03-10 15:00"))

	_, err := uc.Execute(context.Background(), validReserveInput())
	assert.True(t, httperr.IsBusiness(err, "too_soon"))
}

func TestReserveUnknownServiceOrProfessional(t *testing.T) {
	repo := seededRepo()
	uc := NewReserveSlot(repo, nil, nil).WithClock(testClock(t, "2026-03-09 10:00"))

	in := validReserveInput()
	in.ServiceID = 99
	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "service_not_found"))

	in = validReserveInput()
	in.ProfessionalID = 99
	_, err = uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "professional_not_found"))
}

// ===============================
// Availability
// ===============================

func TestGetAvailabilitySplitsGrid(t *testing.T) {
	repo := seededRepo()
	reserve := NewReserveSlot(repo, nil, nil).WithClock(testClock(t, "2026-03-09 10:00"))

	for _, slot := range []string{"09:00", "14:30"} {
		in := validReserveInput()
		in.Time = slot
		_, err := reserve.Execute(context.Background(), in)
		require.NoError(t, err)
	}

	uc := NewGetAvailability(repo, nil)
	av, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		ProfessionalID: 1,
		Date:           "2026-03-10",
	})
	require.NoError(t, err)

	assert.Equal(t, "2026-03-10", av.Date)
	assert.Len(t, av.Available, 16)
	assert.Equal(t, []string{"09:00", "14:30"}, av.Booked)
	assert.NotContains(t, av.Available, "09:00")
	assert.NotContains(t, av.Available, "14:30")
}

func TestGetAvailabilityCancelledSlotIsFree(t *testing.T) {
	repo := seededRepo()
	clk := testClock(t, "2026-03-09 10:00")
	reserve := NewReserveSlot(repo, nil, nil).WithClock(clk)
	cancel := NewCancelAppointment(repo, nil, nil).WithClock(clk)

	ap, err := reserve.Execute(context.Background(), validReserveInput())
	require.NoError(t, err)
	_, err = cancel.Execute(context.Background(), 1, ap.ID, "imprevisto")
	require.NoError(t, err)

	uc := NewGetAvailability(repo, nil)
	av, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		ProfessionalID: 1,
		Date:           "2026-03-10",
	})
	require.NoError(t, err)

	assert.Len(t, av.Available, 18)
	assert.Empty(t, av.Booked)
}

func TestGetAvailabilityUnknownProfessional(t *testing.T) {
	uc := NewGetAvailability(newFakeRepo(), nil)

	_, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		ProfessionalID: 1,
		Date:           "2026-03-10",
	})
	assert.True(t, httperr.IsBusiness(err, "professional_not_found"))
}

// ===============================
// Cancel / Complete
// ===============================

func TestCancelRequiresReasonThroughUsecase(t *testing.T) {
	repo := seededRepo()
	clk := testClock(t, "2026-03-09 10:00")
	reserve := NewReserveSlot(repo, nil, nil).WithClock(clk)
	cancel := NewCancelAppointment(repo, nil, nil).WithClock(clk)

	ap, err := reserve.Execute(context.Background(), validReserveInput())
	require.NoError(t, err)

	_, err = cancel.Execute(context.Background(), 1, ap.ID, "  ")
	assert.True(t, httperr.IsBusiness(err, "missing_reason"))

	got, err := repo.GetAppointmentForProfessional(context.Background(), ap.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), got.Status)
}

func TestCompleteThenCancelFails(t *testing.T) {
	repo := seededRepo()
	clk := testClock(t, "2026-03-09 10:00")
	reserve := NewReserveSlot(repo, nil, nil).WithClock(clk)
	complete := NewCompleteAppointment(repo, nil).WithClock(clk)
	cancel := NewCancelAppointment(repo, nil, nil).WithClock(clk)

	ap, err := reserve.Execute(context.Background(), validReserveInput())
	require.NoError(t, err)

	done, err := complete.Execute(context.Background(), 1, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), done.Status)
	require.NotNil(t, done.CompletedAt)

	_, err = cancel.Execute(context.Background(), 1, ap.ID, "tarde demais")
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
}

func TestCancelScopedToProfessional(t *testing.T) {
	repo := seededRepo()
	clk := testClock(t, "2026-03-09 10:00")
	reserve := NewReserveSlot(repo, nil, nil).WithClock(clk)
	cancel := NewCancelAppointment(repo, nil, nil).WithClock(clk)

	ap, err := reserve.Execute(context.Background(), validReserveInput())
	require.NoError(t, err)

	_, err = cancel.Execute(context.Background(), 2, ap.ID, "motivo")
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
}

func TestCancelByClientUsesPublicID(t *testing.T) {
	repo := seededRepo()
	clk := testClock(t, "2026-03-09 10:00")
	reserve := NewReserveSlot(repo, nil, nil).WithClock(clk)
	cancelPublic := NewCancelByClient(repo, nil, nil).WithClock(clk)

	ap, err := reserve.Execute(context.Background(), validReserveInput())
	require.NoError(t, err)

	got, err := cancelPublic.Execute(context.Background(), ap.PublicID, "não vou conseguir ir")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), got.Status)
	assert.Equal(t, "não vou conseguir ir", got.CancellationReason)

	_, err = cancelPublic.Execute(context.Background(), "nao-existe", "motivo")
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
}

// ===============================
// List by date
// ===============================

func TestListByDateProjectsDisplayStatus(t *testing.T) {
	repo := seededRepo()
	repo.addAppointment(models.Appointment{
		ProfessionalID: 1,
		ServiceID:      10,
		Date:           "2026-03-09",
		Time:           "10:00",
		Status:         string(domain.StatusPending),
		ClientName:     "João",
		Service:        models.Service{ID: 10, Name: "Corte"},
	})

	uc := NewListByDate(repo).WithClock(testClock(t, "2026-03-10 08:00"))

	out, err := uc.Execute(context.Background(), 1, "2026-03-09")
	require.NoError(t, err)
	require.Len(t, out, 1)

	// gravado continua pendente, exibido vira concluído
	assert.Equal(t, string(domain.StatusPending), out[0].Status)
	assert.Equal(t, string(domain.StatusCompleted), out[0].DisplayStatus)
	assert.Equal(t, "Corte", out[0].ServiceName)
}
