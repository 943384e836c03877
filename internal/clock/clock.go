package clock

import (
	"time"

	"github.com/BruksfildServices01/agenda-pro/internal/timezone"
)

// Clock isola a leitura de "agora" para que regras dependentes de tempo
// (reserva, status derivado, varredura de lembretes) sejam testáveis.
type Clock interface {
	Now() time.Time
}

type Real struct{}

func (Real) Now() time.Time {
	return timezone.Now()
}
