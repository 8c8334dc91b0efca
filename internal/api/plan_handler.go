package api

import (
	"net/http"

	"rocksolid/climbing-trainer/internal/service"

	"github.com/gin-gonic/gin"
)

// PlanHandler serves the weekly training plan of the current user.
type PlanHandler struct {
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// GeneratePlan godoc
// @Summary Generate this week's plan
// @Description Builds a Monday to Friday plan from the survey profile and the exercise catalog,
// @Description replacing any plan already generated for the current week.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 201 {object} domain.Plan
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Survey not completed"
// @Failure 422 {object} gin.H "Not enough matching exercises"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /plans/current [post]
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	plan, err := h.planService.GenerateWeeklyPlan(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// GetCurrentPlan godoc
// @Summary Get this week's plan
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.CurrentPlan
// @Failure 404 {object} gin.H "No plan for this week"
// @Router /plans/current [get]
func (h *PlanHandler) GetCurrentPlan(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	current, err := h.planService.GetCurrentPlan(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, current)
}

// GetDayWorkout godoc
// @Summary Get one day of this week's plan with tutorials
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param day path string true "monday..friday"
// @Success 200 {object} service.DayWorkout
// @Failure 400 {object} gin.H "Not a training day"
// @Failure 404 {object} gin.H "No plan for this week"
// @Failure 409 {object} gin.H "Day already recorded"
// @Router /plans/current/days/{day} [get]
func (h *PlanHandler) GetDayWorkout(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	workout, err := h.planService.GetDayWorkout(c.Request.Context(), userID, c.Param("day"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}
