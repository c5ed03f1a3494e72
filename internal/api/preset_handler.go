package api

import (
	"errors"
	"net/http"

	"fittrack/internal/domain"
	"fittrack/internal/service"

	"github.com/gin-gonic/gin"
)

// PresetHandler holds the preset service dependency.
type PresetHandler struct {
	presetService service.PresetService
}

// NewPresetHandler creates a new PresetHandler.
func NewPresetHandler(presetService service.PresetService) *PresetHandler {
	return &PresetHandler{presetService: presetService}
}

// --- DTOs ---

type PresetExerciseRequest struct {
	ExerciseID int64   `json:"exercise_id" binding:"required"`
	Position   int     `json:"position"`
	Sets       int     `json:"sets" binding:"omitempty,min=0"`
	Reps       int     `json:"reps" binding:"omitempty,min=0"`
	Weight     float64 `json:"weight" binding:"omitempty,min=0"`
	Duration   int     `json:"duration" binding:"omitempty,min=0"`
	Notes      string  `json:"notes"`
	ImageURL   string  `json:"image_url"`
}

type PresetRequest struct {
	Name        string                  `json:"name" binding:"required"`
	Description string                  `json:"description"`
	IsPublic    bool                    `json:"is_public"`
	Exercises   []PresetExerciseRequest `json:"exercises"`
}

func (r *PresetRequest) toDomain() *domain.WorkoutPreset {
	preset := &domain.WorkoutPreset{
		Name:        r.Name,
		Description: r.Description,
		IsPublic:    r.IsPublic,
		Exercises:   make([]domain.PresetExercise, len(r.Exercises)),
	}
	for i, ex := range r.Exercises {
		position := ex.Position
		if position == 0 {
			position = i + 1
		}
		preset.Exercises[i] = domain.PresetExercise{
			ExerciseID: ex.ExerciseID,
			Position:   position,
			Sets:       ex.Sets,
			Reps:       ex.Reps,
			Weight:     ex.Weight,
			Duration:   ex.Duration,
			Notes:      ex.Notes,
			ImageURL:   ex.ImageURL,
		}
	}
	return preset
}

// --- Handler Methods ---

// CreatePreset creates a workout preset owned by the caller.
func (h *PresetHandler) CreatePreset(c *gin.Context) {
	var req PresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	preset, err := h.presetService.CreatePreset(c.Request.Context(), userID, req.toDomain())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusBadRequest, "Preset references an unknown exercise.")
		case errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create preset.")
		}
		return
	}

	c.JSON(http.StatusCreated, preset)
}

// ListPresets returns the caller's presets plus public ones.
func (h *PresetHandler) ListPresets(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	presets, err := h.presetService.ListPresets(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve presets.")
		return
	}
	if presets == nil {
		presets = []domain.WorkoutPreset{}
	}

	c.JSON(http.StatusOK, presets)
}

// GetPreset returns a single preset by ID.
func (h *PresetHandler) GetPreset(c *gin.Context) {
	presetID, err := parseIDParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid preset ID.")
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	preset, err := h.presetService.GetPresetByID(c.Request.Context(), userID, presetID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPresetNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrPresetAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve preset.")
		}
		return
	}

	c.JSON(http.StatusOK, preset)
}

// UpdatePreset replaces a preset the caller owns, including its
// exercise list.
func (h *PresetHandler) UpdatePreset(c *gin.Context) {
	presetID, err := parseIDParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid preset ID.")
		return
	}

	var req PresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	preset := req.toDomain()
	preset.ID = presetID

	updated, err := h.presetService.UpdatePreset(c.Request.Context(), userID, preset)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPresetNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrPresetAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusBadRequest, "Preset references an unknown exercise.")
		case errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update preset.")
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeletePreset deletes a preset the caller owns.
func (h *PresetHandler) DeletePreset(c *gin.Context) {
	presetID, err := parseIDParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid preset ID.")
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	if err := h.presetService.DeletePreset(c.Request.Context(), userID, presetID); err != nil {
		switch {
		case errors.Is(err, service.ErrPresetNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrPresetAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete preset.")
		}
		return
	}

	c.Status(http.StatusNoContent)
}
