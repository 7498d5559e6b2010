package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/caninecompass/k9-backend/internal/platform/logger"
	"github.com/caninecompass/k9-backend/internal/services"
)

type TokenHandler struct {
	log *logger.Logger
	svc services.TokenService
}

func NewTokenHandler(baseLog *logger.Logger, svc services.TokenService) *TokenHandler {
	return &TokenHandler{log: baseLog.With("handler", "TokenHandler"), svc: svc}
}

// GET /api/tokens/balance/:subject_id
func (h *TokenHandler) GetBalance(c *gin.Context) {
	subjectID, err := uuid.Parse(c.Param("subject_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_subject_id", err)
		return
	}
	account, err := h.svc.Balance(c.Request.Context(), subjectID)
	if err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"subject_id": account.SubjectID, "tokens": account.Balance})
}

type grantRequest struct {
	SubjectID uuid.UUID `json:"subject_id" binding:"required"`
	Amount    int       `json:"amount" binding:"required"`
}

// POST /api/tokens/grant — ingress for the external purchase/reward
// collaborator; the engine itself only debits.
func (h *TokenHandler) Grant(c *gin.Context) {
	var req grantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.Amount < 0 {
		RespondError(c, http.StatusBadRequest, "invalid_amount", nil)
		return
	}
	account, err := h.svc.Grant(c.Request.Context(), req.SubjectID, req.Amount)
	if err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"subject_id": account.SubjectID, "tokens": account.Balance})
}
