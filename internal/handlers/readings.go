package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/megumiii12/athlete/internal/middleware"
	"github.com/megumiii12/athlete/internal/models"
	"github.com/megumiii12/athlete/internal/repository"
)

// Pointer fields so a literal 0 still satisfies "required".
type ingestRequest struct {
	HeartRate   *float64 `json:"heart_rate" binding:"required,gte=0"`
	Temperature *float64 `json:"temperature" binding:"required"`
}

func (h HandlerSet) IngestReading(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
		return
	}

	reading, prediction, err := h.readings.Ingest(c.Request.Context(), user, *req.HeartRate, *req.Temperature)
	if err != nil {
		h.log.Error().Err(err).Int("athlete_id", user.ID).Msg("reading ingest failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reading": reading, "data": prediction})
}

type deviceIngestRequest struct {
	AthleteID   *int     `json:"athlete_id" binding:"required,gt=0"`
	HeartRate   *float64 `json:"heart_rate" binding:"required,gte=0"`
	Temperature *float64 `json:"temperature" binding:"required"`
}

func (h HandlerSet) IngestDeviceReading(c *gin.Context) {
	var req deviceIngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	reading, prediction, err := h.readings.IngestDevice(c.Request.Context(), *req.AthleteID, *req.HeartRate, *req.Temperature)
	if err != nil {
		h.log.Error().Err(err).Int("athlete_id", *req.AthleteID).Msg("device reading ingest failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reading": reading, "data": prediction})
}

func (h HandlerSet) LatestReading(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
		return
	}

	reading, err := h.readings.Latest(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrReadingNotFound) {
			c.Status(http.StatusNoContent)
			return
		}
		h.log.Error().Err(err).Int("athlete_id", user.ID).Msg("latest reading lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	c.JSON(http.StatusOK, reading)
}

func (h HandlerSet) ReadingHistory(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
		return
	}

	hours := queryInt(c, "hours", 0)

	readings, err := h.readings.History(c.Request.Context(), user.ID, hours)
	if err != nil {
		h.log.Error().Err(err).Int("athlete_id", user.ID).Msg("history lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	if readings == nil {
		readings = []models.Reading{}
	}

	c.JSON(http.StatusOK, readings)
}

func (h HandlerSet) AbnormalReadingHistory(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
		return
	}

	hours := queryInt(c, "hours", 0)
	threshold := queryFloat(c, "threshold", 0)

	readings, err := h.readings.AbnormalHistory(c.Request.Context(), user.ID, threshold, hours)
	if err != nil {
		h.log.Error().Err(err).Int("athlete_id", user.ID).Msg("abnormal history lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}
	if readings == nil {
		readings = []models.Reading{}
	}

	c.JSON(http.StatusOK, readings)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func queryFloat(c *gin.Context, key string, fallback float64) float64 {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}
