package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/agri-advisor/internal/advisor"
	"github.com/danielpatrickdp/agri-advisor/internal/generation"
	"github.com/danielpatrickdp/agri-advisor/internal/insights"
)

// #region handler
// Service is the advisor surface exposed over HTTP.
type Service interface {
	Answer(ctx context.Context, req advisor.Request) advisor.Response
	Insights(soil insights.SoilMeasurement, cond insights.Conditions) insights.Analysis
}

// Handler serves the JSON API.
type Handler struct {
	svc Service
	log *zap.Logger
}

// NewHandler creates a Handler.
func NewHandler(svc Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log}
}

// NewRouter builds a gin engine with recovery, request logging and the API routes.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(h.requestLog())
	h.RegisterRoutes(router)
	return router
}

// RegisterRoutes mounts the API on router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/healthz", h.handleHealth)
	v1 := router.Group("/v1")
	v1.POST("/answer", h.handleAnswer)
	v1.POST("/insights", h.handleInsights)
}

func (h *Handler) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.log.Info("[HTTP] request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}

// #endregion handler

// #region routes
func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *Handler) handleAnswer(c *gin.Context) {
	var req advisor.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "invalid request: " + err.Error()})
		return
	}
	resp := h.svc.Answer(c.Request.Context(), req)
	c.JSON(statusFor(resp), resp)
}

// InsightsRequest carries a soil measurement and optional current conditions.
// Without conditions the measurement's own moisture and temperature bands are used.
type InsightsRequest struct {
	Soil       insights.SoilMeasurement `json:"soil"`
	Conditions *insights.Conditions     `json:"conditions,omitempty"`
}

func (h *Handler) handleInsights(c *gin.Context) {
	var req InsightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "invalid request: " + err.Error()})
		return
	}
	cond := req.Conditions
	if cond == nil {
		if len(req.Soil.Moisture) == 0 || len(req.Soil.SkinTemperature) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"status": "error",
				"error":  "conditions are required when the soil has no moisture or skin_temperature bands",
			})
			return
		}
		derived := req.Soil.Conditions()
		cond = &derived
	}
	c.JSON(http.StatusOK, h.svc.Insights(req.Soil, *cond))
}

// statusFor maps an advisor outcome onto an HTTP status. The body always
// carries the full response, including the apology text on failure.
func statusFor(resp advisor.Response) int {
	if resp.Success {
		return http.StatusOK
	}
	switch resp.ErrorKind {
	case advisor.KindInvalidInput:
		return http.StatusBadRequest
	case string(generation.KindTimeout):
		return http.StatusGatewayTimeout
	case string(generation.KindQuota):
		return http.StatusTooManyRequests
	case string(generation.KindMalformed):
		return http.StatusBadGateway
	}
	return http.StatusServiceUnavailable
}

// #endregion routes
