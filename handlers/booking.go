package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"plinio/config"
	"plinio/models"
	"plinio/services/scheduling"
	"plinio/utils"
)

// BookingHandler serves the appointment endpoints.
type BookingHandler struct {
	Availability scheduling.AvailabilityService
	Booking      scheduling.BookingService
	Logger       *zap.Logger
}

func NewBookingHandler(avail scheduling.AvailabilityService, booking scheduling.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Availability: avail, Booking: booking, Logger: logger}
}

// GetAvailability handles GET /api/booking/availability?date=YYYY-MM-DD.
func (h *BookingHandler) GetAvailability(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "Data non valida", "")
		return
	}

	resp, err := h.Availability.GetAvailability(c.Request.Context(), date)
	if err != nil {
		switch {
		case errors.Is(err, scheduling.ErrNotConfigured):
			utils.JSONError(c, http.StatusServiceUnavailable, "Google Calendar non configurato", "")
		case errors.Is(err, scheduling.ErrInvalidDate):
			utils.JSONError(c, http.StatusBadRequest, "Data non valida", "")
		default:
			h.Logger.Error("availability request failed", zap.String("date", date), zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Errore nel recupero disponibilità", "")
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateBooking handles POST /api/booking.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Compila tutti i campi obbligatori.", "")
		return
	}

	confirmation, err := h.Booking.Book(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, scheduling.ErrNotConfigured):
			utils.JSONError(c, http.StatusServiceUnavailable, "Google Calendar non configurato", "")
		case errors.Is(err, scheduling.ErrInvalidInput):
			utils.JSONError(c, http.StatusBadRequest, "Compila tutti i campi obbligatori.", "")
		case errors.Is(err, scheduling.ErrInPast):
			utils.JSONError(c, http.StatusBadRequest, "Seleziona una data futura.", "")
		case errors.Is(err, scheduling.ErrSlotTaken):
			utils.JSONError(c, http.StatusConflict, "Slot non disponibile.", "")
		default:
			h.Logger.Error("booking request failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Errore nella creazione appuntamento", "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Prenotazione confermata",
		"eventId": confirmation.EventID,
		"start":   confirmation.Start,
		"end":     confirmation.End,
	})
}

// Health handles GET /api/booking/health. Reports configuration
// completeness and infra reachability, never secret values.
func (h *BookingHandler) Health(c *gin.Context) {
	cfg := config.AppConfig
	infra := utils.GetHealthStatus()

	checks := gin.H{
		"enabled":     cfg.CalendarEnabled,
		"calendarId":  cfg.CalendarID != "",
		"credentials": cfg.CalendarCredentialsJSON != "",
		"timezone":    cfg.CalendarTimezone != "",
		"duration":    cfg.CalendarDefaultDuration > 0,
		"invite":      cfg.CalendarInviteClient,
		"updates":     cfg.CalendarSendUpdates != "",
		"mongo":       infra.Mongo,
		"redis":       infra.Redis,
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":     cfg.CalendarEnabled && cfg.CalendarID != "" && cfg.CalendarCredentialsJSON != "",
		"checks": checks,
	})
}
