package api

import (
	"errors"
	"net/http"
	"strconv"

	"fittrack/internal/domain"
	"fittrack/internal/service"

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

// ExerciseRequest defines the expected JSON for creating or updating
// a custom exercise.
type ExerciseRequest struct {
	Name             string   `json:"name" binding:"required"`
	Force            string   `json:"force"`
	Level            string   `json:"level"`
	Mechanic         string   `json:"mechanic"`
	Category         string   `json:"category"`
	Equipment        []string `json:"equipment"`
	PrimaryMuscles   []string `json:"primary_muscles"`
	SecondaryMuscles []string `json:"secondary_muscles"`
	Instructions     []string `json:"instructions"`
	Images           []string `json:"images"`
	CaloriesPerHour  int      `json:"calories_per_hour" binding:"omitempty,min=0"`
	Description      string   `json:"description"`
	SharedWithPublic bool     `json:"shared_with_public"`
}

func (r *ExerciseRequest) toDomain() *domain.Exercise {
	return &domain.Exercise{
		Name:             r.Name,
		Force:            r.Force,
		Level:            r.Level,
		Mechanic:         r.Mechanic,
		Category:         r.Category,
		Equipment:        r.Equipment,
		PrimaryMuscles:   r.PrimaryMuscles,
		SecondaryMuscles: r.SecondaryMuscles,
		Instructions:     r.Instructions,
		Images:           r.Images,
		CaloriesPerHour:  r.CaloriesPerHour,
		Description:      r.Description,
		SharedWithPublic: r.SharedWithPublic,
	}
}

// --- Handler Methods ---

// CreateExercise creates a custom exercise owned by the caller.
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), userID, req.toDomain())
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create exercise.")
		}
		return
	}

	c.JSON(http.StatusCreated, exercise)
}

// ListExercises returns the catalog visible to the caller: global
// exercises, public custom ones, and the caller's own.
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	exercises, err := h.exerciseService.ListExercises(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercises.")
		return
	}
	if exercises == nil {
		exercises = []domain.Exercise{}
	}

	c.JSON(http.StatusOK, exercises)
}

// GetExercise returns a single exercise by ID.
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exerciseID, err := parseIDParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID.")
		return
	}

	exercise, err := h.exerciseService.GetExerciseByID(c.Request.Context(), exerciseID)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercise.")
		}
		return
	}

	c.JSON(http.StatusOK, exercise)
}

// UpdateExercise updates a custom exercise the caller owns.
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	exerciseID, err := parseIDParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID.")
		return
	}

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	exercise := req.toDomain()
	exercise.ID = exerciseID

	updated, err := h.exerciseService.UpdateExercise(c.Request.Context(), userID, exercise)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrExerciseAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update exercise.")
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteExercise deletes a custom exercise the caller owns.
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	exerciseID, err := parseIDParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID.")
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	if err := h.exerciseService.DeleteExercise(c.Request.Context(), userID, exerciseID); err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrExerciseAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete exercise.")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// parseIDParam reads a numeric path parameter.
func parseIDParam(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
