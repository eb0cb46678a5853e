package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/priyadesai/airhealth/internal/domain/health"
	"github.com/priyadesai/airhealth/internal/domain/prediction"
	apperrors "github.com/priyadesai/airhealth/pkg/errors"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	predictionSvc prediction.Service
	logger        *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(predictionSvc prediction.Service, logger *slog.Logger) *Handler {
	return &Handler{
		predictionSvc: predictionSvc,
		logger:        logger.With("component", "http.handler"),
	}
}

type predictRequest struct {
	Features map[string]float64 `json:"features" binding:"required"`
	City     string             `json:"city"`
}

// Predict scores a caller-supplied feature map.
func (h *Handler) Predict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.predictionSvc.Predict(c.Request.Context(), req.Features, req.City)
	if err != nil {
		abortWithError(c, predictionError(err, "prediction_failed"))
		return
	}

	c.JSON(http.StatusOK, resp)
}

type healthRiskRequest struct {
	AQI              *float64 `json:"aqi" binding:"required"`
	VulnerableGroups []string `json:"vulnerable_groups"`
}

// HealthRisk returns a personalized assessment for a given AQI.
func (h *Handler) HealthRisk(c *gin.Context) {
	var req healthRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	groups := make([]health.Group, 0, len(req.VulnerableGroups))
	for _, g := range req.VulnerableGroups {
		groups = append(groups, health.Group(g))
	}

	assessment, err := health.Assess(*req.AQI, groups)
	if err != nil {
		status := http.StatusInternalServerError
		code := "assessment_failed"
		switch {
		case apperrors.IsCode(err, health.CodeInvalidInput):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, health.CodeUnknownGroup):
			status = http.StatusBadRequest
			code = health.CodeUnknownGroup
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, assessment)
}

// Current returns the latest assessed conditions for a city.
func (h *Handler) Current(c *gin.Context) {
	resp, err := h.predictionSvc.Current(c.Request.Context(), c.Param("city"))
	if err != nil {
		abortWithError(c, predictionError(err, "current_failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Forecast returns an hourly outlook for a city.
func (h *Handler) Forecast(c *gin.Context) {
	hours := 24
	if raw := c.Query("hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "hours must be an integer", err))
			return
		}
		hours = parsed
	}

	resp, err := h.predictionSvc.Forecast(c.Request.Context(), c.Param("city"), hours)
	if err != nil {
		abortWithError(c, predictionError(err, "forecast_failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cities lists the cities with available data.
func (h *Handler) Cities(c *gin.Context) {
	resp, err := h.predictionSvc.Cities(c.Request.Context())
	if err != nil {
		abortWithError(c, predictionError(err, "cities_failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// VulnerableGroups lists the supported vulnerable population groups.
func (h *Handler) VulnerableGroups(c *gin.Context) {
	catalog := health.GroupCatalog()
	groups := make([]health.Group, 0, len(catalog))
	descriptions := make(map[health.Group]string, len(catalog))
	for _, info := range catalog {
		groups = append(groups, info.ID)
		descriptions[info.ID] = info.Description
	}
	c.JSON(http.StatusOK, gin.H{
		"vulnerable_groups": groups,
		"descriptions":      descriptions,
	})
}

// Stats returns aggregate model statistics over the dataset.
func (h *Handler) Stats(c *gin.Context) {
	resp, err := h.predictionSvc.Stats(c.Request.Context())
	if err != nil {
		abortWithError(c, predictionError(err, "stats_failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Healthz reports process liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func predictionError(err error, fallbackCode string) *HTTPError {
	status := http.StatusInternalServerError
	code := fallbackCode
	switch {
	case apperrors.IsCode(err, health.CodeInvalidInput):
		status = http.StatusBadRequest
		code = "invalid_request"
	case apperrors.IsCode(err, health.CodeUnknownGroup):
		status = http.StatusBadRequest
		code = health.CodeUnknownGroup
	case apperrors.IsCode(err, prediction.CodeCityNotFound):
		status = http.StatusNotFound
		code = prediction.CodeCityNotFound
	case apperrors.IsCode(err, prediction.CodeDataError):
		status = http.StatusInternalServerError
		code = prediction.CodeDataError
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
