package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-watermark/internal/http/middleware"
	"github.com/phambaophuc/image-watermark/internal/models"
	"github.com/phambaophuc/image-watermark/internal/services/storage"
	"go.uber.org/zap"
)

// Watermarker runs one watermark request.
type Watermarker interface {
	Apply(ctx context.Context, req *models.WatermarkRequest) (*models.WatermarkResult, error)
}

// JobQueue accepts asynchronous watermark jobs.
type JobQueue interface {
	Enqueue(ctx context.Context, req *models.WatermarkRequest) (*models.WatermarkJob, error)
	GetJob(ctx context.Context, id string) (*models.WatermarkJob, error)
	GetQueueStats() (map[string]interface{}, error)
	HealthCheck() string
}

// StorageHealth reports the status of storage dependencies.
type StorageHealth interface {
	HealthCheck(ctx context.Context) map[string]string
}

type WatermarkHandler struct {
	watermark Watermarker
	queue     JobQueue
	storage   StorageHealth
	logger    *zap.Logger
}

// NewWatermarkHandler builds the handler. queue may be nil, which turns the
// job routes into 503 responses.
func NewWatermarkHandler(watermark Watermarker, queue JobQueue, storage StorageHealth, logger *zap.Logger) *WatermarkHandler {
	return &WatermarkHandler{
		watermark: watermark,
		queue:     queue,
		storage:   storage,
		logger:    logger,
	}
}

// AddWatermark is the synchronous endpoint. Both outcomes answer 200 and
// failures carry only suc=false.
func (h *WatermarkHandler) AddWatermark(c *gin.Context) {
	req, err := parseWatermarkQuery(c)
	if err != nil {
		h.logFailure(c, "Invalid watermark request", err)
		c.JSON(http.StatusOK, models.WatermarkResponse{Suc: false})
		return
	}

	result, err := h.watermark.Apply(c.Request.Context(), req)
	if err != nil {
		h.logFailure(c, "Watermark failed", err)
		c.JSON(http.StatusOK, models.WatermarkResponse{Suc: false})
		return
	}

	c.JSON(http.StatusOK, models.WatermarkResponse{
		ImageURL: result.ImageURL,
		FileName: result.FileName,
		Suc:      true,
		Width:    result.Width,
		Height:   result.Height,
	})
}

func (h *WatermarkHandler) CreateJob(c *gin.Context) {
	if h.queue == nil {
		h.respondError(c, http.StatusServiceUnavailable, "job queue is not available")
		return
	}

	req := models.WatermarkRequest{
		OriginName: models.DefaultOriginName,
		Opacity:    models.DefaultOpacity,
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid job payload: "+err.Error())
		return
	}
	if req.ImageURL == "" || req.Text == "" {
		h.respondError(c, http.StatusBadRequest, "url and text are required")
		return
	}

	job, err := h.queue.Enqueue(c.Request.Context(), &req)
	if err != nil {
		h.logFailure(c, "Failed to enqueue job", err)
		h.respondError(c, http.StatusServiceUnavailable, "failed to enqueue job")
		return
	}

	c.JSON(http.StatusAccepted, models.APIResponse{
		Success: true,
		Data:    job,
	})
}

func (h *WatermarkHandler) GetJob(c *gin.Context) {
	if h.queue == nil {
		h.respondError(c, http.StatusServiceUnavailable, "job queue is not available")
		return
	}

	job, err := h.queue.GetJob(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, storage.ErrJobNotFound):
		h.respondError(c, http.StatusNotFound, "job not found")
		return
	case errors.Is(err, storage.ErrJobsDisabled):
		h.respondError(c, http.StatusServiceUnavailable, "job store is not configured")
		return
	case err != nil:
		h.logFailure(c, "Failed to load job", err)
		h.respondError(c, http.StatusInternalServerError, "failed to load job")
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    job,
	})
}

func parseWatermarkQuery(c *gin.Context) (*models.WatermarkRequest, error) {
	opacity, err := strconv.Atoi(c.DefaultQuery("opacity", strconv.Itoa(models.DefaultOpacity)))
	if err != nil {
		return nil, errors.New("opacity must be an integer")
	}

	return &models.WatermarkRequest{
		ImageURL:   c.Query("url"),
		Text:       c.Query("text"),
		Time:       c.Query("time"),
		Direction:  c.Query("direction"),
		TenantKey:  c.Query("tenantKey"),
		OriginName: c.DefaultQuery("origin_name", models.DefaultOriginName),
		Opacity:    opacity,
	}, nil
}

func (h *WatermarkHandler) logFailure(c *gin.Context, msg string, err error) {
	fields := append([]zap.Field{
		zap.String("request_id", c.GetString(middleware.RequestIDKey)),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	}, storage.ErrorFields(err)...)
	h.logger.Error(msg, fields...)
}

func (h *WatermarkHandler) respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}
