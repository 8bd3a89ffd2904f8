// Package api is the gin transport for event ingestion and the
// administrative cache/device endpoints.
package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"redwatch/internal/dedup"
	"redwatch/internal/event"
	"redwatch/internal/logger"
	"redwatch/internal/processor"
	"redwatch/internal/registry"
	"redwatch/pkg/errors"
	"redwatch/pkg/health"
)

type Handler struct {
	processor *processor.Service
	cache     *dedup.Cache
	registry  *registry.Registry
	health    *health.CheckerRegistry
	logger    logger.Logger
}

func NewHandler(proc *processor.Service, cache *dedup.Cache, reg *registry.Registry, checks *health.CheckerRegistry, log logger.Logger) *Handler {
	return &Handler{
		processor: proc,
		cache:     cache,
		registry:  reg,
		health:    checks,
		logger:    log,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.POST("/events", h.ReceiveEvents)
	router.GET("/health", h.HealthCheck)

	router.GET("/cache", h.ViewCache)
	router.POST("/cache/clear", h.ClearCache)

	devices := router.Group("/devices")
	{
		devices.GET("", h.ListDevices)
		devices.GET("/:id", h.GetDevice)
		devices.POST("/reload", h.ReloadDevices)
	}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	h.logger.Errorw("Request error", "error", err, "path", c.Request.URL.Path)
	c.JSON(errors.ToHTTPStatus(err), errors.ToErrorResponse(err))
}

// ReceiveEvents accepts a single event or an ordered batch envelope.
// Each event is processed independently; a malformed member degrades to
// defaults rather than failing the request.
func (h *Handler) ReceiveEvents(c *gin.Context) {
	var envelope event.Envelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		h.logger.Errorw("Received malformed event payload", "error", err)
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	items, err := envelope.Items()
	if err != nil {
		h.logger.Warnw("Unknown event format received")
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(
			errors.ErrValidation.WithDetail("message", "unknown event format")))
		return
	}

	h.processor.ProcessBatch(c.Request.Context(), items)

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Event received",
	})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	result := h.health.Check(c.Request.Context())

	status := http.StatusOK
	if result.Status == health.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":     result.Status,
		"service":    "redwatch-receiver",
		"cache_size": h.cache.Size(),
		"devices":    h.registry.Size(),
		"checks":     result.Checks,
	})
}

func (h *Handler) ViewCache(c *gin.Context) {
	entries := h.cache.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"cache_size": len(entries),
		"entries":    entries,
	})
}

func (h *Handler) ClearCache(c *gin.Context) {
	size := h.cache.Clear()
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": fmt.Sprintf("Cleared %d entries from cache", size),
	})
}

func (h *Handler) ListDevices(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.List())
}

func (h *Handler) GetDevice(c *gin.Context) {
	id := c.Param("id")
	cfg, ok := h.registry.Get(id)
	if !ok {
		h.handleError(c, errors.ErrNotFound.WithDetail("device_id", id))
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *Handler) ReloadDevices(c *gin.Context) {
	count, err := h.registry.Reload(c.Request.Context())
	if err != nil {
		h.handleError(c, errors.ErrInternal.WithCause(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"devices": count,
	})
}
