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

type CancelAppointment struct {
	repo  domain.Repository
	cache *cache.AvailabilityCache
	audit *audit.Dispatcher
	clock clock.Clock
}

func NewCancelAppointment(
	repo domain.Repository,
	cache *cache.AvailabilityCache,
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		cache: cache,
		audit: audit,
		clock: clock.Real{},
	}
}

func (uc *CancelAppointment) WithClock(c clock.Clock) *CancelAppointment {
	if c != nil {
		uc.clock = c
	}
	return uc
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	professionalID uint,
	appointmentID uint,
	reason string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForProfessional(ctx, appointmentID, professionalID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if err := domain.Cancel(ap, reason, uc.clock.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	// o slot volta a ficar livre
	uc.cache.Invalidate(ctx, professionalID, ap.Date)

	uc.audit.Dispatch(audit.Event{
		ProfessionalID: professionalID,
		UserID:         &professionalID,
		Action:         "appointment_cancelled",
		Entity:         "appointment",
		EntityID:       &ap.ID,
		Metadata:       map[string]string{"reason": ap.CancellationReason},
	})

	return ap, nil
}
