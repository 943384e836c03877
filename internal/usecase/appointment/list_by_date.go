package appointment

import (
	"context"

	"github.com/BruksfildServices01/agenda-pro/internal/clock"
	domain "github.com/BruksfildServices01/agenda-pro/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-pro/internal/dto"
	"github.com/BruksfildServices01/agenda-pro/internal/httperr"
	"github.com/BruksfildServices01/agenda-pro/internal/timezone"
)

type ListByDate struct {
	repo  domain.Repository
	clock clock.Clock
}

func NewListByDate(repo domain.Repository) *ListByDate {
	return &ListByDate{
		repo:  repo,
		clock: clock.Real{},
	}
}

func (uc *ListByDate) WithClock(c clock.Clock) *ListByDate {
	if c != nil {
		uc.clock = c
	}
	return uc
}

func (uc *ListByDate) Execute(
	ctx context.Context,
	professionalID uint,
	date string,
) ([]dto.AppointmentListDTO, error) {

	if _, err := timezone.ParseDate(date); err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	aps, err := uc.repo.ListAppointmentsForDay(ctx, professionalID, date)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	out := make([]dto.AppointmentListDTO, 0, len(aps))
	for i := range aps {
		ap := &aps[i]
		out = append(out, dto.AppointmentListDTO{
			ID:            ap.ID,
			PublicID:      ap.PublicID,
			Date:          ap.Date,
			Time:          ap.Time,
			Status:        ap.Status,
			DisplayStatus: string(domain.EffectiveStatus(ap, now)),
			ClientName:    ap.ClientName,
			ServiceName:   ap.Service.Name,
			ReminderSent:  ap.ReminderSent,
		})
	}

	return out, nil
}
