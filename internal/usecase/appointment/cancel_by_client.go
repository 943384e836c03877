package appointment

import (
	"context"

	"github.com/BruksfildServices01/agenda-pro/internal/audit"
	"github.com/BruksfildServices01/agenda-pro/internal/cache"
	"github.com/BruksfildServices01/agenda-pro/internal/clock"
	domain "github.com/BruksfildServices01/agenda-pro/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-pro/internal/httperr"
	"github.com/BruksfildServices01/agenda-pro/internal/models"
)

// CancelByClient cancela via link público, usando o public_id do
// agendamento em vez de credenciais.
type CancelByClient struct {
	repo  domain.Repository
	cache *cache.AvailabilityCache
	audit *audit.Dispatcher
	clock clock.Clock
}

func NewCancelByClient(
	repo domain.Repository,
	cache *cache.AvailabilityCache,
	audit *audit.Dispatcher,
) *CancelByClient {
	return &CancelByClient{
		repo:  repo,
		cache: cache,
		audit: audit,
		clock: clock.Real{},
	}
}

func (uc *CancelByClient) WithClock(c clock.Clock) *CancelByClient {
	if c != nil {
		uc.clock = c
	}
	return uc
}

func (uc *CancelByClient) Execute(
	ctx context.Context,
	publicID string,
	reason string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentByPublicID(ctx, publicID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if err := domain.Cancel(ap, reason, uc.clock.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, ap.ProfessionalID, ap.Date)

	uc.audit.Dispatch(audit.Event{
		ProfessionalID: ap.ProfessionalID,
		Action:         "appointment_cancelled_by_client",
		Entity:         "appointment",
		EntityID:       &ap.ID,
		Metadata:       map[string]string{"reason": ap.CancellationReason},
	})

	return ap, nil
}
