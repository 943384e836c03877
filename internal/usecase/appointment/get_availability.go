package appointment

import (
	"context"

	"github.com/BruksfildServices01/agenda-pro/internal/cache"
	domain "github.com/BruksfildServices01/agenda-pro/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-pro/internal/httperr"
	"github.com/BruksfildServices01/agenda-pro/internal/timezone"
)

type GetAvailability struct {
	repo  domain.Repository
	cache *cache.AvailabilityCache
}

func NewGetAvailability(
	repo domain.Repository,
	cache *cache.AvailabilityCache,
) *GetAvailability {
	return &GetAvailability{
		repo:  repo,
		cache: cache,
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (*domain.Availability, error) {

	if _, err := timezone.ParseDate(in.Date); err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	if _, err := uc.repo.GetProfessionalByID(ctx, in.ProfessionalID); err != nil {
		return nil, httperr.ErrBusiness("professional_not_found")
	}

	if cached, ok := uc.cache.Get(ctx, in.ProfessionalID, in.Date); ok {
		return cached, nil
	}

	booked, err := uc.repo.ListBookedForDay(ctx, in.ProfessionalID, in.Date)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(booked))
	for _, ap := range booked {
		taken[ap.Time] = true
	}

	av := &domain.Availability{
		Date:      in.Date,
		Available: []string{},
		Booked:    []string{},
	}

	for _, slot := range domain.SlotGrid() {
		if taken[slot] {
			av.Booked = append(av.Booked, slot)
		} else {
			av.Available = append(av.Available, slot)
		}
	}

	uc.cache.Set(ctx, in.ProfessionalID, in.Date, av)

	return av, nil
}
