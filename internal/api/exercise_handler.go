package api

import (
	"net/http"
	"time"

	"rocksolid/climbing-trainer/internal/domain"
	"rocksolid/climbing-trainer/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs for API (Data Transfer Objects) ---

// UpsertExerciseRequest defines the expected JSON for creating or replacing a catalog entry.
type UpsertExerciseRequest struct {
	Name        string       `json:"name" binding:"required"`
	Difficulty  string       `json:"difficulty" binding:"required"` // e.g. "Intermediate"
	Category    string       `json:"category" binding:"required"`   // e.g. "Finger / Grip"
	Description string       `json:"description"`
	Sets        domain.Count `json:"sets"`
	Reps        domain.Count `json:"reps"`
	Tutorial    string       `json:"tutorial"`
}

type TutorialRequest struct {
	Tutorial string `json:"tutorial" binding:"required"`
}

type MediaUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Difficulty  string       `json:"difficulty"`
	Category    string       `json:"category"`
	Description string       `json:"description,omitempty"`
	Sets        domain.Count `json:"sets"`
	Reps        domain.Count `json:"reps"`
	HasTutorial bool         `json:"hasTutorial"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	return ExerciseResponse{
		ID:          ex.ID.Hex(),
		Name:        ex.Name,
		Difficulty:  ex.Difficulty,
		Category:    ex.Category,
		Description: ex.Description,
		Sets:        ex.Sets,
		Reps:        ex.Reps,
		HasTutorial: ex.Tutorial != "" || ex.TutorialMediaKey != "",
		UpdatedAt:   ex.UpdatedAt,
	}
}

// MapExercisesToResponse converts a slice of domain.Exercise to a slice of ExerciseResponse DTO.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i])
	}
	return responses
}

// --- Handler Methods ---

// ListExercises godoc
// @Summary List the exercise catalog
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ExerciseResponse
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	exercises, err := h.exerciseService.ListExercises(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// GetTutorial godoc
// @Summary Get the tutorial of an exercise
// @Description Looks the exercise up by exact name. mediaUrl is a short-lived presigned link.
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param name path string true "Exercise name"
// @Success 200 {object} service.Tutorial
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /exercises/{name}/tutorial [get]
func (h *ExerciseHandler) GetTutorial(c *gin.Context) {
	tutorial, err := h.exerciseService.GetTutorial(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tutorial)
}

// UpsertExercise godoc
// @Summary Create or replace a catalog entry
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body UpsertExerciseRequest true "Exercise details"
// @Success 200 {object} ExerciseResponse
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 403 {object} gin.H "Forbidden (not an admin)"
// @Router /exercises [post]
func (h *ExerciseHandler) UpsertExercise(c *gin.Context) {
	var req UpsertExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercise, err := h.exerciseService.UpsertExercise(c.Request.Context(), service.ExerciseInput{
		Name:        req.Name,
		Difficulty:  req.Difficulty,
		Category:    req.Category,
		Description: req.Description,
		Sets:        req.Sets,
		Reps:        req.Reps,
		Tutorial:    req.Tutorial,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// SetTutorial godoc
// @Summary Set the tutorial text of an exercise
// @Tags Exercises
// @Accept json
// @Security BearerAuth
// @Param name path string true "Exercise name"
// @Param tutorial body TutorialRequest true "Tutorial text"
// @Success 204
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /exercises/{name}/tutorial [put]
func (h *ExerciseHandler) SetTutorial(c *gin.Context) {
	var req TutorialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if err := h.exerciseService.SetTutorial(c.Request.Context(), c.Param("name"), req.Tutorial); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateMediaUploadURL godoc
// @Summary Get a presigned upload URL for tutorial media
// @Description The client PUTs the file to uploadUrl with the same Content-Type.
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param name path string true "Exercise name"
// @Param media body MediaUploadRequest true "Media type"
// @Success 200 {object} service.MediaUpload
// @Failure 400 {object} gin.H "Unsupported content type"
// @Failure 503 {object} gin.H "Storage not configured"
// @Router /exercises/{name}/media-upload-url [post]
func (h *ExerciseHandler) CreateMediaUploadURL(c *gin.Context) {
	var req MediaUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	upload, err := h.exerciseService.CreateMediaUploadURL(c.Request.Context(), c.Param("name"), req.ContentType)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}
