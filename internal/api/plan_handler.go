package api

import (
	"errors"
	"net/http"
	"time"

	"fittrack/internal/domain"
	"fittrack/internal/service"

	"github.com/gin-gonic/gin"
)

// PlanHandler holds the plan service dependency.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs ---

const dateLayout = "2006-01-02"

type PlanAssignmentRequest struct {
	DayOfWeek  int    `json:"day_of_week" binding:"min=0,max=6"`
	PresetID   *int64 `json:"workout_preset_id"`
	ExerciseID *int64 `json:"exercise_id"`

	Sets     int     `json:"sets" binding:"omitempty,min=0"`
	Reps     int     `json:"reps" binding:"omitempty,min=0"`
	Weight   float64 `json:"weight" binding:"omitempty,min=0"`
	Duration int     `json:"duration" binding:"omitempty,min=0"`
	Notes    string  `json:"notes"`
}

// PlanRequest carries a plan plus the caller's local calendar context.
// ClientDate is the caller's "today" (their zone), TZOffsetMinutes their
// UTC offset; both drive the materialization window.
type PlanRequest struct {
	Name            string                  `json:"plan_name" binding:"required"`
	Description     string                  `json:"description"`
	StartDate       string                  `json:"start_date" binding:"required"`
	EndDate         *string                 `json:"end_date"`
	IsActive        bool                    `json:"is_active"`
	Assignments     []PlanAssignmentRequest `json:"assignments"`
	ClientDate      string                  `json:"client_date" binding:"required"`
	TZOffsetMinutes int                     `json:"tz_offset_minutes"`
}

func (r *PlanRequest) toDomain() (*domain.WorkoutPlan, error) {
	start, err := time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return nil, err
	}
	plan := &domain.WorkoutPlan{
		Name:        r.Name,
		Description: r.Description,
		StartDate:   start,
		IsActive:    r.IsActive,
		Assignments: make([]domain.PlanAssignment, len(r.Assignments)),
	}
	if r.EndDate != nil && *r.EndDate != "" {
		end, err := time.Parse(dateLayout, *r.EndDate)
		if err != nil {
			return nil, err
		}
		plan.EndDate = &end
	}
	for i, a := range r.Assignments {
		plan.Assignments[i] = domain.PlanAssignment{
			DayOfWeek:  a.DayOfWeek,
			PresetID:   a.PresetID,
			ExerciseID: a.ExerciseID,
			Sets:       a.Sets,
			Reps:       a.Reps,
			Weight:     a.Weight,
			Duration:   a.Duration,
			Notes:      a.Notes,
		}
	}
	return plan, nil
}

func (r *PlanRequest) clock() (service.ClientClock, error) {
	today, err := time.Parse(dateLayout, r.ClientDate)
	if err != nil {
		return service.ClientClock{}, err
	}
	return service.ClientClock{Today: today, TZOffsetMinutes: r.TZOffsetMinutes}, nil
}

// DeletePlanRequest carries the calendar context for the reversal that
// accompanies a plan deletion.
type DeletePlanRequest struct {
	ClientDate      string `json:"client_date" binding:"required"`
	TZOffsetMinutes int    `json:"tz_offset_minutes"`
}

// --- Handler Methods ---

// CreatePlan creates a plan; if it is active, the matching diary entries
// are generated in the same transaction.
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	plan, err := req.toDomain()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD.")
		return
	}
	clock, err := req.clock()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client_date, expected YYYY-MM-DD.")
		return
	}

	created, err := h.planService.CreatePlan(c.Request.Context(), userID, plan, clock)
	if err != nil {
		h.abortPlanError(c, err, "Failed to create plan.")
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListPlans returns the caller's plans with resolved assignment names.
func (h *PlanHandler) ListPlans(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	plans, err := h.planService.ListPlans(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve plans.")
		return
	}
	if plans == nil {
		plans = []domain.WorkoutPlan{}
	}

	c.JSON(http.StatusOK, plans)
}

// GetPlan returns a single plan by ID.
func (h *PlanHandler) GetPlan(c *gin.Context) {
	planID, err := parseIDParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID.")
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	plan, err := h.planService.GetPlan(c.Request.Context(), userID, planID)
	if err != nil {
		h.abortPlanError(c, err, "Failed to retrieve plan.")
		return
	}

	c.JSON(http.StatusOK, plan)
}

// UpdatePlan replaces a plan and its assignments; already-past entries
// are kept, entries from the caller's today onward are regenerated.
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	planID, err := parseIDParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID.")
		return
	}

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	plan, err := req.toDomain()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD.")
		return
	}
	plan.ID = planID
	clock, err := req.clock()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client_date, expected YYYY-MM-DD.")
		return
	}

	updated, err := h.planService.UpdatePlan(c.Request.Context(), userID, plan, clock)
	if err != nil {
		h.abortPlanError(c, err, "Failed to update plan.")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeletePlan removes a plan and its future generated entries.
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	planID, err := parseIDParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID.")
		return
	}

	var req DeletePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	today, err := time.Parse(dateLayout, req.ClientDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client_date, expected YYYY-MM-DD.")
		return
	}
	clock := service.ClientClock{Today: today, TZOffsetMinutes: req.TZOffsetMinutes}

	if err := h.planService.DeletePlan(c.Request.Context(), userID, planID, clock); err != nil {
		h.abortPlanError(c, err, "Failed to delete plan.")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *PlanHandler) abortPlanError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPlanAccessDenied), errors.Is(err, service.ErrPresetAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrPresetNotFound), errors.Is(err, service.ErrExerciseNotFound):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
