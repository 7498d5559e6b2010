package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/caninecompass/k9-backend/internal/catalog"
	"github.com/caninecompass/k9-backend/internal/platform/logger"
	"github.com/caninecompass/k9-backend/internal/services"
)

type TrainingHandler struct {
	log *logger.Logger
	cat *catalog.Catalog
	svc services.EnrollmentService
}

func NewTrainingHandler(baseLog *logger.Logger, cat *catalog.Catalog, svc services.EnrollmentService) *TrainingHandler {
	return &TrainingHandler{log: baseLog.With("handler", "TrainingHandler"), cat: cat, svc: svc}
}

// GET /api/training/skills?tier=N
func (h *TrainingHandler) ListSkills(c *gin.Context) {
	tier := 0
	if raw := c.Query("tier"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			RespondError(c, http.StatusBadRequest, "invalid_tier", err)
			return
		}
		tier = parsed
	}
	RespondOK(c, gin.H{"skills": h.cat.Skills(tier)})
}

// GET /api/training/lessons?tier=N
func (h *TrainingHandler) ListLessons(c *gin.Context) {
	tier := 0
	if raw := c.Query("tier"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			RespondError(c, http.StatusBadRequest, "invalid_tier", err)
			return
		}
		tier = parsed
	}
	RespondOK(c, gin.H{"lessons": h.cat.Lessons(tier)})
}

// GET /api/training/lessons/:skill_id
func (h *TrainingHandler) GetLesson(c *gin.Context) {
	lesson, ok := h.cat.Lesson(c.Param("skill_id"))
	if !ok {
		RespondError(c, http.StatusNotFound, "skill_not_found", nil)
		return
	}
	RespondOK(c, lesson)
}

// GET /api/training/enrollments/:subject_id
func (h *TrainingHandler) ListEnrollments(c *gin.Context) {
	subjectID, err := uuid.Parse(c.Param("subject_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_subject_id", err)
		return
	}
	rows, err := h.svc.ListBySubject(c.Request.Context(), subjectID)
	if err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"enrollments": rows})
}

type enrollRequest struct {
	SubjectID uuid.UUID `json:"subject_id" binding:"required"`
	SkillID   string    `json:"skill_id" binding:"required"`
}

// POST /api/training/enroll
func (h *TrainingHandler) Enroll(c *gin.Context) {
	var req enrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	row, err := h.svc.Enroll(c.Request.Context(), req.SubjectID, req.SkillID)
	if err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

type completeStepRequest struct {
	EnrollmentID uuid.UUID `json:"enrollment_id" binding:"required"`
	StepIndex    *int      `json:"step_index" binding:"required"`
}

// POST /api/training/complete-step
func (h *TrainingHandler) CompleteStep(c *gin.Context) {
	var req completeStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := h.svc.CompleteStep(c.Request.Context(), req.EnrollmentID, *req.StepIndex)
	if err != nil {
		respondDomainError(c, h.log, err)
		return
	}
	RespondOK(c, result)
}
