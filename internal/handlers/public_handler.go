package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/agenda-pro/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-pro/internal/httperr"
	"github.com/BruksfildServices01/agenda-pro/internal/models"
	uc "github.com/BruksfildServices01/agenda-pro/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db           *gorm.DB
	availability *uc.GetAvailability
	reserve      *uc.ReserveSlot
	cancel       *uc.CancelByClient
}

func NewPublicHandler(
	db *gorm.DB,
	availability *uc.GetAvailability,
	reserve *uc.ReserveSlot,
	cancel *uc.CancelByClient,
) *PublicHandler {
	return &PublicHandler{
		db:           db,
		availability: availability,
		reserve:      reserve,
		cancel:       cancel,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`
	ServiceID   uint   `json:"service_id" binding:"required"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:mm
	Notes       string `json:"notes"`
}

type PublicCancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *PublicHandler) findBySlug(c *gin.Context) (*models.Professional, bool) {
	slug := c.Param("slug")

	var pro models.Professional
	if err := h.db.Where("slug = ?", slug).First(&pro).Error; err != nil {
		httperr.NotFound(c, "professional_not_found", "Profissional não encontrado.")
		return nil, false
	}
	return &pro, true
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	pro, ok := h.findBySlug(c)
	if !ok {
		return
	}

	category := strings.TrimSpace(strings.ToLower(c.Query("category")))
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.db.
		Where("professional_id = ? AND active = true", pro.ID)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"professional": gin.H{
			"id":          pro.ID,
			"name":        pro.Name,
			"slug":        pro.Slug,
			"credentials": pro.Credentials,
		},
		"services": services,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY (REUSO TOTAL DO USE CASE)
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	pro, ok := h.findBySlug(c)
	if !ok {
		return
	}

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	av, err := h.availability.Execute(
		c.Request.Context(),
		domain.AvailabilityInput{
			ProfessionalID: pro.ID,
			Date:           date,
		},
	)
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, av)
}

////////////////////////////////////////////////////////
// CREATE APPOINTMENT (PUBLIC → REUSA O MESMO USE CASE)
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	pro, ok := h.findBySlug(c)
	if !ok {
		return
	}

	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.reserve.Execute(
		c.Request.Context(),
		uc.ReserveInput{
			ProfessionalID: pro.ID,
			ServiceID:      req.ServiceID,
			Date:           req.Date,
			Time:           req.Time,
			ClientName:     req.ClientName,
			ClientPhone:    req.ClientPhone,
			ClientEmail:    req.ClientEmail,
			Notes:          req.Notes,
		},
	)
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"public_id": ap.PublicID,
		"date":      ap.Date,
		"time":      ap.Time,
		"status":    ap.Status,
	})
}

////////////////////////////////////////////////////////
// CANCEL (LINK DO CLIENTE, SEM LOGIN)
////////////////////////////////////////////////////////

func (h *PublicHandler) CancelAppointment(c *gin.Context) {
	publicID := c.Param("public_id")

	var req PublicCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "missing_reason", "Informe o motivo do cancelamento.")
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), publicID, req.Reason)
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"public_id": ap.PublicID,
		"status":    ap.Status,
	})
}
