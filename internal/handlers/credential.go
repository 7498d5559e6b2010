package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/caninecompass/k9-backend/internal/platform/logger"
	"github.com/caninecompass/k9-backend/internal/services"
)

type CredentialHandler struct {
	log   *logger.Logger
	tiers services.TierService
	creds services.CredentialService
}

func NewCredentialHandler(baseLog *logger.Logger, tiers services.TierService, creds services.CredentialService) *CredentialHandler {
	return &CredentialHandler{log: baseLog.With("handler", "CredentialHandler"), tiers: tiers, creds: creds}
}

func subjectParam(c *gin.Context) (uuid.UUID, bool) {
	subjectID, err := uuid.Parse(c.Param("subject_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_subject_id", err)
		return uuid.Nil, false
	}
	return subjectID, true
}

// GET /api/k9/tier/:subject_id
func (h *CredentialHandler) GetTier(c *gin.Context) {
	subjectID, ok := subjectParam(c)
	if !ok {
		return
	}
	res, err := h.tiers.GetTier(c.Request.Context(), subjectID)
	if err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	RespondOK(c, res)
}

// GET /api/k9/credentials/:subject_id
func (h *CredentialHandler) GetCredentials(c *gin.Context) {
	subjectID, ok := subjectParam(c)
	if !ok {
		return
	}
	view, err := h.creds.View(c.Request.Context(), subjectID)
	if err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	RespondOK(c, view)
}

// POST /api/k9/credentials/:subject_id
func (h *CredentialHandler) IssueCredential(c *gin.Context) {
	subjectID, ok := subjectParam(c)
	if !ok {
		return
	}
	row, err := h.creds.Issue(c.Request.Context(), subjectID)
	if err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

// GET /api/k9/certificates/:subject_id
func (h *CredentialHandler) ListCertificates(c *gin.Context) {
	subjectID, ok := subjectParam(c)
	if !ok {
		return
	}
	rows, err := h.creds.History(c.Request.Context(), subjectID)
	if err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"certificates": rows})
}
