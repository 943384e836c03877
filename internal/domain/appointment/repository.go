package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/agenda-pro/internal/models"
)

type Repository interface {
	// -------- Professional --------
	GetProfessionalByID(
		ctx context.Context,
		id uint,
	) (*models.Professional, error)

	GetProfessionalBySlug(
		ctx context.Context,
		slug string,
	) (*models.Professional, error)

	// -------- Service --------
	GetService(
		ctx context.Context,
		professionalID uint,
		serviceID uint,
	) (*models.Service, error)

	// -------- Client --------
	GetOrCreateClient(
		ctx context.Context,
		professionalID uint,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	// -------- Appointment (reserve) --------

	// CreateIfSlotFree insere o agendamento somente se nenhum outro
	// não cancelado ocupar (professional_id, date, time). Checagem e
	// insert acontecem na mesma transação; conflito retorna o código
	// de negócio "slot_taken" e nada é gravado.
	CreateIfSlotFree(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// ListBookedForDay retorna os agendamentos não cancelados do dia
	// (somente os campos de slot, para montar a disponibilidade).
	ListBookedForDay(
		ctx context.Context,
		professionalID uint,
		date string,
	) ([]models.Appointment, error)

	// -------- Appointment (state change) --------
	GetAppointmentForProfessional(
		ctx context.Context,
		appointmentID uint,
		professionalID uint,
	) (*models.Appointment, error)

	GetAppointmentByPublicID(
		ctx context.Context,
		publicID string,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Agenda / report --------
	ListAppointmentsForDay(
		ctx context.Context,
		professionalID uint,
		date string,
	) ([]models.Appointment, error)

	ListAppointmentsForMonth(
		ctx context.Context,
		professionalID uint,
		year int,
		month int,
	) ([]models.Appointment, error)

	// -------- Reminder sweep --------

	// FindPendingInWindow retorna agendamentos pendentes, ainda sem
	// lembrete, com início em [start, end).
	FindPendingInWindow(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// MarkReminderSent liga a flag de lembrete uma única vez; retorna
	// false se o agendamento já não estava pendente ou já foi marcado.
	MarkReminderSent(
		ctx context.Context,
		appointmentID uint,
		at time.Time,
	) (bool, error)
}
