package api

import (
	"errors"
	"net/http"
	"time"

	"fittrack/internal/domain"
	"fittrack/internal/service"

	"github.com/gin-gonic/gin"
)

// WeightHandler holds the weight service dependency.
type WeightHandler struct {
	weightService service.WeightService
}

// NewWeightHandler creates a new WeightHandler.
func NewWeightHandler(weightService service.WeightService) *WeightHandler {
	return &WeightHandler{weightService: weightService}
}

type LogWeightRequest struct {
	Kilograms  float64    `json:"kilograms" binding:"required,gt=0"`
	MeasuredAt *time.Time `json:"measured_at"`
}

// LogWeight records a body-weight measurement for the caller.
func (h *WeightHandler) LogWeight(c *gin.Context) {
	var req LogWeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	measuredAt := time.Time{}
	if req.MeasuredAt != nil {
		measuredAt = *req.MeasuredAt
	}

	measurement, err := h.weightService.LogWeight(c.Request.Context(), userID, req.Kilograms, measuredAt)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to log weight.")
		}
		return
	}

	c.JSON(http.StatusCreated, measurement)
}

// ListWeights returns the caller's measurements, newest first.
func (h *WeightHandler) ListWeights(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	measurements, err := h.weightService.ListWeights(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve weight measurements.")
		return
	}
	if measurements == nil {
		measurements = []domain.WeightMeasurement{}
	}

	c.JSON(http.StatusOK, measurements)
}
