package timezone

import "time"

// Fuso único da aplicação. O agendamento trabalha sempre em hora local,
// sem conversão por usuário.
const Default = "America/Sao_Paulo"

func Location() *time.Location {
	loc, err := time.LoadLocation(Default)
	if err != nil {
		return time.Local
	}
	return loc
}

func Now() time.Time {
	return time.Now().In(Location())
}

func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, Location())
}
