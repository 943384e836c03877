package appointment

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/agenda-pro/internal/httperr"
	"github.com/BruksfildServices01/agenda-pro/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment, reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return httperr.ErrBusiness("missing_reason")
	}

	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancellationReason = reason
	ap.CancelledAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

// EffectiveStatus calcula o status exibido sem alterar o registro:
// agendamento pendente de um dia já passado aparece como concluído.
// É uma projeção de leitura, nunca persistida.
func EffectiveStatus(ap *models.Appointment, now time.Time) Status {
	if Status(ap.Status) != StatusPending {
		return Status(ap.Status)
	}

	// comparação lexicográfica funciona para datas ISO
	if ap.Date != "" && ap.Date < now.Format("2006-01-02") {
		return StatusCompleted
	}

	return StatusPending
}
