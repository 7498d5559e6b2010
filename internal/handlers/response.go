package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caninecompass/k9-backend/internal/catalog"
	"github.com/caninecompass/k9-backend/internal/platform/apierr"
	"github.com/caninecompass/k9-backend/internal/platform/logger"
	"github.com/caninecompass/k9-backend/internal/types"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// mapDomainError translates engine failures into the HTTP surface. Callers
// branch on the code field, so domain kinds stay distinct; only catalog
// corruption is collapsed into an opaque 500.
func mapDomainError(err error) *apierr.Error {
	var integrity *catalog.IntegrityError
	switch {
	case errors.As(err, &integrity):
		return apierr.New(http.StatusInternalServerError, "catalog_integrity", errors.New("internal error"))
	case errors.Is(err, types.ErrAlreadyEnrolled):
		return apierr.New(http.StatusConflict, "already_enrolled", err)
	case errors.Is(err, types.ErrPrerequisitesNotMet):
		return apierr.New(http.StatusConflict, "prerequisites_not_met", err)
	case errors.Is(err, types.ErrInsufficientTokens):
		return apierr.New(http.StatusPaymentRequired, "insufficient_tokens", err)
	case errors.Is(err, types.ErrAlreadyCompleted):
		return apierr.New(http.StatusConflict, "already_completed", err)
	case errors.Is(err, types.ErrInvalidStep):
		return apierr.New(http.StatusUnprocessableEntity, "invalid_step", err)
	case errors.Is(err, types.ErrNoProgress):
		return apierr.New(http.StatusConflict, "no_progress", err)
	case errors.Is(err, types.ErrSkillNotFound):
		return apierr.New(http.StatusNotFound, "skill_not_found", err)
	case errors.Is(err, types.ErrEnrollmentNotFound):
		return apierr.New(http.StatusNotFound, "enrollment_not_found", err)
	case errors.Is(err, types.ErrAccountNotFound):
		return apierr.New(http.StatusNotFound, "account_not_found", err)
	default:
		return apierr.New(http.StatusInternalServerError, "internal", errors.New("internal error"))
	}
}

func respondDomainError(c *gin.Context, log *logger.Logger, err error) {
	mapped := mapDomainError(err)
	if mapped.Status == http.StatusInternalServerError {
		log.Error("Request failed", "code", mapped.Code, "error", err)
	}
	RespondError(c, mapped.Status, mapped.Code, mapped.Err)
}
