package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dialaride/reports-service/internal/http/middleware"
	"github.com/dialaride/reports-service/internal/service"
)

type Handler struct {
	reports *service.ReportService
	log     zerolog.Logger
}

func NewHandler(reports *service.ReportService, log zerolog.Logger) *Handler {
	return &Handler{reports: reports, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)
	protected.POST("/reports/service", h.serviceReport)
	protected.POST("/reports/service/export", h.exportServiceReport)
	protected.POST("/reports/daily-log/pdf", h.dailyLogPDF)
}

type serviceReportRequest struct {
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
	DriverID    string `json:"driver_id"`
	ClientName  string `json:"client_name"`
	MoneyOnly   bool   `json:"money_only"`
}

func (h *Handler) serviceReport(c *gin.Context) {
	input, ok := h.bindServiceReport(c)
	if !ok {
		return
	}

	result, err := h.reports.ServiceReport(c.Request.Context(), *input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) exportServiceReport(c *gin.Context) {
	input, ok := h.bindServiceReport(c)
	if !ok {
		return
	}

	result, err := h.reports.ExportServiceReport(c.Request.Context(), *input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	const contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentType, result.Content)
}

type dailyLogRequest struct {
	ShiftID string `json:"shift_id" binding:"required"`
}

func (h *Handler) dailyLogPDF(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req dailyLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shiftID, err := uuid.Parse(strings.TrimSpace(req.ShiftID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shift_id"})
		return
	}

	result, err := h.reports.DailyLogPDF(c.Request.Context(), service.DailyLogInput{
		ShiftID:   shiftID,
		Principal: principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, "application/pdf", result.Content)
}

func (h *Handler) bindServiceReport(c *gin.Context) (*service.ServiceReportInput, bool) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return nil, false
	}

	var req serviceReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	start, err := parseDate(req.PeriodStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period_start"})
		return nil, false
	}

	end, err := parseDate(req.PeriodEnd)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period_end"})
		return nil, false
	}

	input := service.ServiceReportInput{
		PeriodStart: start,
		PeriodEnd:   end,
		ClientName:  req.ClientName,
		MoneyOnly:   req.MoneyOnly,
		Principal:   principal,
	}

	if raw := strings.TrimSpace(req.DriverID); raw != "" {
		driverID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid driver_id"})
			return nil, false
		}
		input.DriverID = &driverID
	}

	return &input, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("report request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}
