package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-pro/internal/audit"
	"github.com/BruksfildServices01/agenda-pro/internal/cache"
	"github.com/BruksfildServices01/agenda-pro/internal/clock"
	domain "github.com/BruksfildServices01/agenda-pro/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-pro/internal/httperr"
	"github.com/BruksfildServices01/agenda-pro/internal/models"
	"github.com/BruksfildServices01/agenda-pro/internal/timezone"
)

type ReserveInput struct {
	ProfessionalID uint
	ServiceID      uint
	Date           string // 2006-01-02
	Time           string // rótulo da grade
	ClientName     string
	ClientPhone    string
	ClientEmail    string
	Notes          string
}

type ReserveSlot struct {
	repo  domain.Repository
	cache *cache.AvailabilityCache
	audit *audit.Dispatcher
	clock clock.Clock
}

func NewReserveSlot(
	repo domain.Repository,
	cache *cache.AvailabilityCache,
	audit *audit.Dispatcher,
) *ReserveSlot {
	return &ReserveSlot{
		repo:  repo,
		cache: cache,
		audit: audit,
		clock: clock.Real{},
	}
}

func (uc *ReserveSlot) WithClock(c clock.Clock) *ReserveSlot {
	if c != nil {
		uc.clock = c
	}
	return uc
}

func (uc *ReserveSlot) Execute(
	ctx context.Context,
	in ReserveInput,
) (*models.Appointment, error) {

	if _, err := timezone.ParseDate(in.Date); err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	if !domain.IsGridSlot(in.Time) {
		return nil, httperr.ErrBusiness("invalid_slot")
	}

	if strings.TrimSpace(in.ClientName) == "" {
		return nil, httperr.ErrBusiness("missing_client_name")
	}

	pro, err := uc.repo.GetProfessionalByID(ctx, in.ProfessionalID)
	if err != nil {
		return nil, httperr.ErrBusiness("professional_not_found")
	}

	svc, err := uc.repo.GetService(ctx, in.ProfessionalID, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	startsAt, err := domain.SlotTime(in.Date, in.Time, timezone.Location())
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_slot")
	}

	now := uc.clock.Now()
	minAdvance := time.Duration(pro.MinAdvanceMinutes) * time.Minute
	if startsAt.Before(now.Add(minAdvance)) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	ap := &models.Appointment{
		PublicID:       uuid.NewString(),
		ProfessionalID: pro.ID,
		ServiceID:      svc.ID,
		ClientName:     strings.TrimSpace(in.ClientName),
		ClientPhone:    strings.TrimSpace(in.ClientPhone),
		ClientEmail:    strings.TrimSpace(in.ClientEmail),
		Date:           in.Date,
		Time:           in.Time,
		Status:         string(domain.InitialStatus()),
		Notes:          in.Notes,
	}

	// com telefone dá para reaproveitar o cadastro do cliente
	if ap.ClientPhone != "" {
		client, err := uc.repo.GetOrCreateClient(
			ctx,
			pro.ID,
			ap.ClientName,
			ap.ClientPhone,
			ap.ClientEmail,
		)
		if err == nil {
			ap.ClientID = &client.ID
		}
	}

	if err := uc.repo.CreateIfSlotFree(ctx, ap); err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, pro.ID, in.Date)

	uc.audit.Dispatch(audit.Event{
		ProfessionalID: pro.ID,
		Action:         "appointment_reserved",
		Entity:         "appointment",
		EntityID:       &ap.ID,
		Metadata: map[string]string{
			"date": ap.Date,
			"time": ap.Time,
		},
	})

	return ap, nil
}
