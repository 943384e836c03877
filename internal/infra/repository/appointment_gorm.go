package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/agenda-pro/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-pro/internal/httperr"
	"github.com/BruksfildServices01/agenda-pro/internal/models"
	"github.com/BruksfildServices01/agenda-pro/internal/timezone"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Professional
// --------------------------------------------------

func (r *AppointmentGormRepository) GetProfessionalByID(
	ctx context.Context,
	id uint,
) (*models.Professional, error) {

	var pro models.Professional
	if err := r.db.WithContext(ctx).First(&pro, id).Error; err != nil {
		return nil, err
	}
	return &pro, nil
}

func (r *AppointmentGormRepository) GetProfessionalBySlug(
	ctx context.Context,
	slug string,
) (*models.Professional, error) {

	var pro models.Professional
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&pro).Error; err != nil {
		return nil, err
	}
	return &pro, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	professionalID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND professional_id = ?", serviceID, professionalID).
		First(&svc).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *AppointmentGormRepository) GetOrCreateClient(
	ctx context.Context,
	professionalID uint,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("professional_id = ? AND phone = ?", professionalID, phone).
		First(&client).Error

	if err == nil {
		return &client, nil
	}

	client = models.Client{
		ProfessionalID: professionalID,
		Name:           name,
		Phone:          phone,
		Email:          email,
	}

	if err := r.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}

	return &client, nil
}

// --------------------------------------------------
// Appointment (reserve)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateIfSlotFree(
	ctx context.Context,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var conflicts []models.Appointment
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"professional_id = ? AND date = ? AND time = ? AND status <> ?",
				ap.ProfessionalID, ap.Date, ap.Time, string(domain.StatusCancelled),
			).
			Find(&conflicts).Error; err != nil {
			return err
		}

		if len(conflicts) > 0 {
			return httperr.ErrBusiness("slot_taken")
		}

		if err := tx.Create(ap).Error; err != nil {
			// corrida que escapou do lock esbarra no índice único parcial
			if httperr.IsUniqueViolation(err) {
				return httperr.ErrBusiness("slot_taken")
			}
			return err
		}

		return nil
	})
}

func (r *AppointmentGormRepository) ListBookedForDay(
	ctx context.Context,
	professionalID uint,
	date string,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "time", "status").
		Where(
			"professional_id = ? AND date = ? AND status <> ?",
			professionalID, date, string(domain.StatusCancelled),
		).
		Order("time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

// --------------------------------------------------
// Appointment (Cancel / Complete)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointmentForProfessional(
	ctx context.Context,
	appointmentID uint,
	professionalID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND professional_id = ?", appointmentID, professionalID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) GetAppointmentByPublicID(
	ctx context.Context,
	publicID string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

// --------------------------------------------------
// Agenda / report
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointmentsForDay(
	ctx context.Context,
	professionalID uint,
	date string,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where("professional_id = ? AND date = ?", professionalID, date).
		Order("time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForMonth(
	ctx context.Context,
	professionalID uint,
	year int,
	month int,
) ([]models.Appointment, error) {

	first := fmt.Sprintf("%04d-%02d-01", year, month)
	next := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, timezone.Location()).
		AddDate(0, 1, 0).
		Format("2006-01-02")

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where(
			"professional_id = ? AND date >= ? AND date < ?",
			professionalID, first, next,
		).
		Order("date ASC, time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

// --------------------------------------------------
// Reminder sweep
// --------------------------------------------------

func (r *AppointmentGormRepository) FindPendingInWindow(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	// a janela cobre no máximo dois dias de calendário
	dates := []string{start.Format("2006-01-02")}
	if d := end.Format("2006-01-02"); d != dates[0] {
		dates = append(dates, d)
	}

	var candidates []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Professional").
		Preload("Service").
		Where(
			"date IN ? AND status = ? AND reminder_sent = ?",
			dates, string(domain.StatusPending), false,
		).
		Order("date ASC, time ASC").
		Find(&candidates).Error; err != nil {
		return nil, err
	}

	loc := timezone.Location()
	due := make([]models.Appointment, 0, len(candidates))
	for _, ap := range candidates {
		startsAt, err := domain.SlotTime(ap.Date, ap.Time, loc)
		if err != nil {
			continue
		}
		// intervalo semiaberto [start, end)
		if !startsAt.Before(start) && startsAt.Before(end) {
			due = append(due, ap)
		}
	}

	return due, nil
}

func (r *AppointmentGormRepository) MarkReminderSent(
	ctx context.Context,
	appointmentID uint,
	at time.Time,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"id = ? AND status = ? AND reminder_sent = ?",
			appointmentID, string(domain.StatusPending), false,
		).
		Updates(map[string]any{
			"reminder_sent":    true,
			"reminder_sent_at": at,
		})

	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
