package api

import (
	"fmt"
	"net/http"

	"rocksolid/climbing-trainer/internal/domain"
	"rocksolid/climbing-trainer/internal/service"

	"github.com/gin-gonic/gin"
)

// ProgressHandler records sessions and serves the dashboard.
type ProgressHandler struct {
	sessionService  service.SessionService
	progressService service.ProgressService
}

func NewProgressHandler(sessionService service.SessionService, progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		sessionService:  sessionService,
		progressService: progressService,
	}
}

// ExerciseOutcomeRequest reports one plan item. Counts are read for partial outcomes only.
type ExerciseOutcomeRequest struct {
	Name     string               `json:"name" binding:"required"`
	Status   domain.OutcomeStatus `json:"status" binding:"required"`
	SetsDone int                  `json:"setsDone" binding:"gte=0"`
	RepsDone int                  `json:"repsDone" binding:"gte=0"`
}

type RecordSessionRequest struct {
	Exercises []ExerciseOutcomeRequest `json:"exercises" binding:"dive"`
}

// RecordSession godoc
// @Summary Record today's outcomes
// @Description Stores the result of one training day. Items without an outcome are stored as not_selected.
// @Tags Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param day path string true "monday..friday"
// @Param session body RecordSessionRequest true "Outcomes"
// @Success 201 {object} domain.SessionResult
// @Failure 400 {object} gin.H "Invalid outcome or day"
// @Failure 404 {object} gin.H "No plan for this week"
// @Failure 409 {object} gin.H "Day already recorded"
// @Router /progress/days/{day} [post]
func (h *ProgressHandler) RecordSession(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req RecordSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	outcomes := make([]service.OutcomeInput, len(req.Exercises))
	for i, ex := range req.Exercises {
		outcomes[i] = service.OutcomeInput{
			Name:     ex.Name,
			Status:   ex.Status,
			SetsDone: ex.SetsDone,
			RepsDone: ex.RepsDone,
		}
	}

	result, err := h.sessionService.RecordSession(c.Request.Context(), userID, c.Param("day"), outcomes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Dashboard godoc
// @Summary Progress counters and achievements
// @Description Never fails on store errors; counters fall back to zero.
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.ProgressCounters
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /progress/dashboard [get]
func (h *ProgressHandler) Dashboard(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	counters, err := h.progressService.ComputeCounters(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, counters)
}
