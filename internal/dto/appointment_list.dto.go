package dto

type AppointmentListDTO struct {
	ID       uint   `json:"id"`
	PublicID string `json:"public_id"`
	Date     string `json:"date"`
	Time     string `json:"time"`

	// Status é o gravado; DisplayStatus projeta pendente de dia passado
	// como concluído na leitura.
	Status        string `json:"status"`
	DisplayStatus string `json:"display_status"`

	ClientName   string `json:"client_name"`
	ServiceName  string `json:"service_name"`
	ReminderSent bool   `json:"reminder_sent"`
}
