package appointment

import (
	"fmt"
	"time"
)

// Grade fixa de horários: células de 30 minutos, 09:00 inclusive até
// 18:00 exclusivo. A duração do serviço não altera a grade nem a
// checagem de conflito — cada reserva ocupa exatamente uma célula.
const (
	gridOpenHour  = 9
	gridCloseHour = 18
	gridStepMin   = 30
)

// SlotGrid retorna os 18 rótulos da grade, em ordem: 09:00 ... 17:30.
func SlotGrid() []string {
	slots := make([]string, 0, (gridCloseHour-gridOpenHour)*60/gridStepMin)
	for hour := gridOpenHour; hour < gridCloseHour; hour++ {
		for minute := 0; minute < 60; minute += gridStepMin {
			slots = append(slots, fmt.Sprintf("%02d:%02d", hour, minute))
		}
	}
	return slots
}

// IsGridSlot informa se o rótulo pertence à grade ("14:30" sim, "18:00" não).
func IsGridSlot(label string) bool {
	for _, s := range SlotGrid() {
		if s == label {
			return true
		}
	}
	return false
}

// SlotTime converte (data, rótulo) no instante local de início do slot.
func SlotTime(date, label string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", date+" "+label, loc)
}
