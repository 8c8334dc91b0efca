package api

import (
	"fmt"
	"net/http"

	"rocksolid/climbing-trainer/internal/service"

	"github.com/gin-gonic/gin"
)

type SurveyHandler struct {
	surveyService service.SurveyService
}

func NewSurveyHandler(surveyService service.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveyService: surveyService}
}

// SurveyRequest carries the onboarding answers. Empty goals fall back to the default goal.
type SurveyRequest struct {
	ExperienceLevel     string   `json:"experienceLevel" binding:"required"`
	Level               string   `json:"level"`
	TrainingGoals       []string `json:"trainingGoals"`
	TrainingDaysPerWeek string   `json:"trainingDaysPerWeek"`
	PreferredStyle      string   `json:"preferredStyle"`
	Injuries            string   `json:"injuries"`
	SurveyType          string   `json:"surveyType"`
}

// SubmitSurvey godoc
// @Summary Submit or retake the survey
// @Description Overwrites the stored answers; the latest submission wins.
// @Tags Survey
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param survey body SurveyRequest true "Answers"
// @Success 200 {object} domain.SurveyProfile
// @Failure 400 {object} gin.H "Invalid input"
// @Router /survey [put]
func (h *SurveyHandler) SubmitSurvey(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req SurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	profile, err := h.surveyService.Submit(c.Request.Context(), userID, service.SurveyInput{
		ExperienceLevel:     req.ExperienceLevel,
		Level:               req.Level,
		TrainingGoals:       req.TrainingGoals,
		TrainingDaysPerWeek: req.TrainingDaysPerWeek,
		PreferredStyle:      req.PreferredStyle,
		Injuries:            req.Injuries,
		SurveyType:          req.SurveyType,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetSurvey godoc
// @Summary Get the stored survey answers
// @Tags Survey
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.SurveyProfile
// @Failure 404 {object} gin.H "Survey not completed"
// @Router /survey [get]
func (h *SurveyHandler) GetSurvey(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	profile, err := h.surveyService.Get(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
