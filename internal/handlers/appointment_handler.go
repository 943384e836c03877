package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/agenda-pro/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-pro/internal/httperr"
	"github.com/BruksfildServices01/agenda-pro/internal/httpresp"
	"github.com/BruksfildServices01/agenda-pro/internal/middleware"
	uc "github.com/BruksfildServices01/agenda-pro/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	reserve      *uc.ReserveSlot
	list         *uc.ListByDate
	cancel       *uc.CancelAppointment
	complete     *uc.CompleteAppointment
	availability *uc.GetAvailability
}

func NewAppointmentHandler(
	reserve *uc.ReserveSlot,
	list *uc.ListByDate,
	cancel *uc.CancelAppointment,
	complete *uc.CompleteAppointment,
	availability *uc.GetAvailability,
) *AppointmentHandler {
	return &AppointmentHandler{
		reserve:      reserve,
		list:         list,
		cancel:       cancel,
		complete:     complete,
		availability: availability,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ServiceID   uint   `json:"service_id" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone"`
	ClientEmail string `json:"client_email"`
	Notes       string `json:"notes"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ======================================================
// ERROR MAPPING
// ======================================================

var businessMessages = map[string]string{
	"slot_taken":             "Horário já reservado.",
	"invalid_slot":           "Horário fora da grade de atendimento.",
	"invalid_date":           "Data inválida.",
	"too_soon":               "Horário no passado ou sem antecedência mínima.",
	"missing_reason":         "Informe o motivo do cancelamento.",
	"missing_client_name":    "Informe o nome do cliente.",
	"invalid_state":          "Agendamento já finalizado.",
	"invalid_month":          "Mês inválido.",
	"appointment_not_found":  "Agendamento não encontrado.",
	"professional_not_found": "Profissional não encontrado.",
	"service_not_found":      "Serviço não encontrado.",
}

func writeAppointmentError(c *gin.Context, err error) {
	for code, msg := range businessMessages {
		if !httperr.IsBusiness(err, code) {
			continue
		}
		switch code {
		case "slot_taken":
			httperr.Conflict(c, code, msg)
		case "appointment_not_found", "professional_not_found", "service_not_found":
			httperr.NotFound(c, code, msg)
		default:
			httperr.BadRequest(c, code, msg)
		}
		return
	}

	httperr.Internal(c, "internal_error", "Erro interno.")
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.reserve.Execute(c.Request.Context(), uc.ReserveInput{
		ProfessionalID: professionalID,
		ServiceID:      req.ServiceID,
		Date:           req.Date,
		Time:           req.Time,
		ClientName:     req.ClientName,
		ClientPhone:    req.ClientPhone,
		ClientEmail:    req.ClientEmail,
		Notes:          req.Notes,
	})
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	out, err := h.list.Execute(c.Request.Context(), professionalID, date)
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	httpresp.List(c, out)
}

// ======================================================
// AVAILABILITY (VISÃO DO PROFISSIONAL)
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	av, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		ProfessionalID: professionalID,
		Date:           date,
	})
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	httpresp.OK(c, av)
}

// ======================================================
// CANCEL
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req CancelAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "missing_reason", "Informe o motivo do cancelamento.")
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), professionalID, uint(id), req.Reason)
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// COMPLETE
// ======================================================

func (h *AppointmentHandler) Complete(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	ap, err := h.complete.Execute(c.Request.Context(), professionalID, uint(id))
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	httpresp.OK(c, ap)
}
