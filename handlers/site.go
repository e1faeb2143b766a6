package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	siteRepo "plinio/database/repository/site"
	"plinio/middleware"
	"plinio/models"
	"plinio/services/notification"
	"plinio/utils"
)

// SiteHandler serves the routine site endpoints: contact relay and consent log.
type SiteHandler struct {
	Repo     siteRepo.SiteRepository
	Notifier notification.NotificationService
	Logger   *zap.Logger
}

func NewSiteHandler(repo siteRepo.SiteRepository, notifier notification.NotificationService, logger *zap.Logger) *SiteHandler {
	return &SiteHandler{Repo: repo, Notifier: notifier, Logger: logger}
}

// Contact handles POST /api/contatti.
func (h *SiteHandler) Contact(c *gin.Context) {
	if h.Repo == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "Database non configurato", "")
		return
	}
	if h.Notifier == nil || !h.Notifier.Configured() {
		utils.JSONError(c, http.StatusServiceUnavailable, "Servizio email non configurato", "")
		return
	}

	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Compila tutti i campi obbligatori.", "")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Service = strings.TrimSpace(req.Service)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Email == "" || req.Message == "" {
		utils.JSONError(c, http.StatusBadRequest, "Compila tutti i campi obbligatori.", "")
		return
	}

	if err := h.Repo.CreateContactRequest(c.Request.Context(), &req); err != nil {
		h.Logger.Error("contact request persistence failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Errore salvataggio richiesta", "")
		return
	}

	if err := h.Notifier.SendContactNotification(c.Request.Context(), req); err != nil {
		h.Logger.Error("contact relay failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Errore invio email", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Messaggio inviato"})
}

// Consent handles POST /api/consent. Best effort: acknowledged even when no
// store is configured.
func (h *SiteHandler) Consent(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		body = map[string]any{}
	}

	if h.Repo == nil {
		c.JSON(http.StatusOK, gin.H{"message": "OK"})
		return
	}

	payload, _ := json.Marshal(body)
	version, _ := body["version"].(string)
	entry := models.ConsentLog{
		Version:   version,
		Payload:   string(payload),
		IPAddress: middleware.ClientIP(c),
		UserAgent: c.GetHeader("User-Agent"),
	}
	if err := h.Repo.CreateConsentLog(c.Request.Context(), &entry); err != nil {
		h.Logger.Warn("consent log persistence failed", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"message": "OK"})
}
