package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"fittrack/internal/domain"
	"fittrack/internal/service"

	"github.com/gin-gonic/gin"
)

// EntryHandler holds the exercise-entry service dependency.
type EntryHandler struct {
	entryService service.EntryService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryService service.EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

// --- DTOs ---

type EntrySetRequest struct {
	SetType  domain.SetType `json:"set_type"`
	Reps     int            `json:"reps" binding:"omitempty,min=0"`
	Weight   float64        `json:"weight" binding:"omitempty,min=0"`
	Duration int            `json:"duration" binding:"omitempty,min=0"`
	RestTime int            `json:"rest_time" binding:"omitempty,min=0"`
	Notes    string         `json:"notes"`
}

func (r *EntrySetRequest) toDomain() domain.EntrySet {
	return domain.EntrySet{
		SetType:  r.SetType,
		Reps:     r.Reps,
		Weight:   r.Weight,
		Duration: r.Duration,
		RestTime: r.RestTime,
		Notes:    r.Notes,
	}
}

type EntryRequest struct {
	ExerciseID      int64             `json:"exercise_id" binding:"required"`
	EntryDate       string            `json:"entry_date" binding:"required"`
	DurationMinutes int               `json:"duration_minutes" binding:"omitempty,min=0"`
	CaloriesBurned  int               `json:"calories_burned" binding:"omitempty,min=0"`
	Notes           string            `json:"notes"`
	ImageURL        string            `json:"image_url"`
	Sets            []EntrySetRequest `json:"sets"`
}

func (r *EntryRequest) toDomain() (*domain.ExerciseEntry, error) {
	date, err := time.Parse(dateLayout, r.EntryDate)
	if err != nil {
		return nil, err
	}
	entry := &domain.ExerciseEntry{
		ExerciseID:      r.ExerciseID,
		EntryDate:       date,
		DurationMinutes: r.DurationMinutes,
		CaloriesBurned:  r.CaloriesBurned,
		Notes:           r.Notes,
		ImageURL:        r.ImageURL,
		Sets:            make([]domain.EntrySet, len(r.Sets)),
	}
	for i, s := range r.Sets {
		entry.Sets[i] = s.toDomain()
	}
	return entry, nil
}

type ReorderSetsRequest struct {
	Order []int `json:"order" binding:"required"`
}

// --- Handler Methods ---

// LogEntry records a diary entry for the caller.
func (h *EntryHandler) LogEntry(c *gin.Context) {
	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	entry, err := req.toDomain()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid entry_date, expected YYYY-MM-DD.")
		return
	}

	created, err := h.entryService.LogEntry(c.Request.Context(), userID, entry)
	if err != nil {
		h.abortEntryError(c, err, "Failed to log entry.")
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListEntries returns the caller's entries, optionally bounded by
// from/to date query parameters.
func (h *EntryHandler) ListEntries(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	from, err := parseDateQuery(c, "from")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid 'from' date, expected YYYY-MM-DD.")
		return
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid 'to' date, expected YYYY-MM-DD.")
		return
	}

	entries, err := h.entryService.ListEntries(c.Request.Context(), userID, from, to)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve entries.")
		return
	}
	if entries == nil {
		entries = []domain.ExerciseEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// GetEntry returns a single entry with its sets.
func (h *EntryHandler) GetEntry(c *gin.Context) {
	entryID, err := parseIDParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid entry ID.")
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	entry, err := h.entryService.GetEntry(c.Request.Context(), userID, entryID)
	if err != nil {
		h.abortEntryError(c, err, "Failed to retrieve entry.")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// UpdateEntry replaces a diary entry the caller owns.
func (h *EntryHandler) UpdateEntry(c *gin.Context) {
	entryID, err := parseIDParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid entry ID.")
		return
	}

	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	entry, err := req.toDomain()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid entry_date, expected YYYY-MM-DD.")
		return
	}
	entry.ID = entryID

	updated, err := h.entryService.UpdateEntry(c.Request.Context(), userID, entry)
	if err != nil {
		h.abortEntryError(c, err, "Failed to update entry.")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteEntry deletes a diary entry the caller owns.
func (h *EntryHandler) DeleteEntry(c *gin.Context) {
	entryID, err := parseIDParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid entry ID.")
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	if err := h.entryService.DeleteEntry(c.Request.Context(), userID, entryID); err != nil {
		h.abortEntryError(c, err, "Failed to delete entry.")
		return
	}

	c.Status(http.StatusNoContent)
}

// AddSet appends a set to an entry.
func (h *EntryHandler) AddSet(c *gin.Context) {
	entryID, err := parseIDParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid entry ID.")
		return
	}

	var req EntrySetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	entry, err := h.entryService.AddSet(c.Request.Context(), userID, entryID, req.toDomain())
	if err != nil {
		h.abortEntryError(c, err, "Failed to add set.")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// UpdateSet replaces a set identified by its current number.
func (h *EntryHandler) UpdateSet(c *gin.Context) {
	entryID, err := parseIDParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid entry ID.")
		return
	}
	setNumber, err := strconv.Atoi(c.Param("setNumber"))
	if err != nil || setNumber < 1 {
		abortWithError(c, http.StatusBadRequest, "Invalid set number.")
		return
	}

	var req EntrySetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	entry, err := h.entryService.UpdateSet(c.Request.Context(), userID, entryID, setNumber, req.toDomain())
	if err != nil {
		h.abortEntryError(c, err, "Failed to update set.")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// RemoveSet deletes a set; the remainder is renumbered contiguously.
func (h *EntryHandler) RemoveSet(c *gin.Context) {
	entryID, err := parseIDParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid entry ID.")
		return
	}
	setNumber, err := strconv.Atoi(c.Param("setNumber"))
	if err != nil || setNumber < 1 {
		abortWithError(c, http.StatusBadRequest, "Invalid set number.")
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	entry, err := h.entryService.RemoveSet(c.Request.Context(), userID, entryID, setNumber)
	if err != nil {
		h.abortEntryError(c, err, "Failed to remove set.")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// ReorderSets rearranges an entry's sets into the given order.
func (h *EntryHandler) ReorderSets(c *gin.Context) {
	entryID, err := parseIDParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid entry ID.")
		return
	}

	var req ReorderSetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	entry, err := h.entryService.ReorderSets(c.Request.Context(), userID, entryID, req.Order)
	if err != nil {
		h.abortEntryError(c, err, "Failed to reorder sets.")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Summary returns aggregate diary totals over a date range.
func (h *EntryHandler) Summary(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	from, err := parseDateQuery(c, "from")
	if err != nil || from == nil {
		abortWithError(c, http.StatusBadRequest, "Missing or invalid 'from' date, expected YYYY-MM-DD.")
		return
	}
	to, err := parseDateQuery(c, "to")
	if err != nil || to == nil {
		abortWithError(c, http.StatusBadRequest, "Missing or invalid 'to' date, expected YYYY-MM-DD.")
		return
	}

	summary, err := h.entryService.Summary(c.Request.Context(), userID, *from, *to)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute summary.")
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *EntryHandler) abortEntryError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrEntryNotFound), errors.Is(err, service.ErrSetNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEntryAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrExerciseNotFound):
		abortWithError(c, http.StatusBadRequest, "Entry references an unknown exercise.")
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter.
func parseDateQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
