package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/agenda-pro/internal/httperr"
	"github.com/BruksfildServices01/agenda-pro/internal/httpresp"
	"github.com/BruksfildServices01/agenda-pro/internal/middleware"
	"github.com/BruksfildServices01/agenda-pro/internal/usecase/report"
)

type ReportHandler struct {
	monthly *report.Monthly
}

func NewReportHandler(monthly *report.Monthly) *ReportHandler {
	return &ReportHandler{monthly: monthly}
}

func (h *ReportHandler) Monthly(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Ano inválido.")
		return
	}

	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "Mês inválido.")
		return
	}

	rep, err := h.monthly.Execute(c.Request.Context(), professionalID, year, month)
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	httpresp.OK(c, rep)
}
