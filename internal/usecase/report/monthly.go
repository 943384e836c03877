package report

import (
	"context"
	"sort"

	domain "github.com/BruksfildServices01/agenda-pro/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-pro/internal/httperr"
	"github.com/BruksfildServices01/agenda-pro/internal/models"
)

// Lister é a fatia do repositório que o relatório usa.
type Lister interface {
	ListAppointmentsForMonth(
		ctx context.Context,
		professionalID uint,
		year int,
		month int,
	) ([]models.Appointment, error)
}

type ServiceSummary struct {
	ServiceID uint    `json:"service_id"`
	Name      string  `json:"name"`
	Count     int     `json:"count"`
	Revenue   float64 `json:"revenue"`
}

type MonthlyReport struct {
	Year      int              `json:"year"`
	Month     int              `json:"month"`
	Completed int              `json:"completed"`
	Cancelled int              `json:"cancelled"`
	Pending   int              `json:"pending"`
	Revenue   float64          `json:"revenue"`
	ByService []ServiceSummary `json:"by_service"`
}

type Monthly struct {
	repo Lister
}

func NewMonthly(repo Lister) *Monthly {
	return &Monthly{repo: repo}
}

// Execute agrega o mês. Receita e contagem por serviço consideram só o
// status gravado como concluído; pendente de dia passado não entra.
func (uc *Monthly) Execute(
	ctx context.Context,
	professionalID uint,
	year int,
	month int,
) (*MonthlyReport, error) {

	if month < 1 || month > 12 || year < 2000 {
		return nil, httperr.ErrBusiness("invalid_month")
	}

	aps, err := uc.repo.ListAppointmentsForMonth(ctx, professionalID, year, month)
	if err != nil {
		return nil, err
	}

	rep := &MonthlyReport{
		Year:      year,
		Month:     month,
		ByService: []ServiceSummary{},
	}

	byService := make(map[uint]*ServiceSummary)

	for i := range aps {
		ap := &aps[i]

		switch domain.Status(ap.Status) {
		case domain.StatusCancelled:
			rep.Cancelled++
			continue
		case domain.StatusPending:
			rep.Pending++
			continue
		case domain.StatusCompleted:
			rep.Completed++
		default:
			continue
		}

		rep.Revenue += ap.Service.Price

		sum, ok := byService[ap.ServiceID]
		if !ok {
			sum = &ServiceSummary{
				ServiceID: ap.ServiceID,
				Name:      ap.Service.Name,
			}
			byService[ap.ServiceID] = sum
		}
		sum.Count++
		sum.Revenue += ap.Service.Price
	}

	for _, sum := range byService {
		rep.ByService = append(rep.ByService, *sum)
	}
	sort.Slice(rep.ByService, func(i, j int) bool {
		return rep.ByService[i].ServiceID < rep.ByService[j].ServiceID
	})

	return rep, nil
}
