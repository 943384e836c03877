package appointment

type AvailabilityInput struct {
	ProfessionalID uint
	Date           string // 2006-01-02
}

type Availability struct {
	Date      string   `json:"date"`
	Available []string `json:"available_slots"`
	Booked    []string `json:"booked_slots"`
}
