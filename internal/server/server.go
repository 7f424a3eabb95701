// Package server exposes the simulator over a JSON HTTP API.
package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iwvelando/solar-simulator/internal/metrics"
	"github.com/iwvelando/solar-simulator/internal/simulator"
	"github.com/iwvelando/solar-simulator/pkg/constants"
	"github.com/iwvelando/solar-simulator/pkg/mathutil"
	"github.com/iwvelando/solar-simulator/pkg/output"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type handler struct {
	logger      *zap.Logger
	engine      *simulator.Engine
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler serving the simulation API. A nil
// cfg uses DefaultConfig.
func NewHandler(logger *zap.Logger, engine *simulator.Engine, cfg *Config, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	maxBodySize := cfg.BodySizeBytes()
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	metrics.Init()

	h := &handler{logger: logger, engine: engine, maxBodySize: maxBodySize, version: trimmedVersion}

	router := gin.New()
	router.Use(h.recovery(), h.requestLogger(), h.limitBody())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/simulate", h.handleSimulate)
		api.POST("/recommendations", h.handleRecommendations)
		api.GET("/financing/scenarios", h.handleScenarios)
		api.GET("/financing/schedule", h.handleSchedule)
		api.POST("/export/:format", h.handleExport)
		api.GET("/config", h.handleConfig)
		api.GET("/version", h.handleVersion)
	}

	return cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)
}

type simulateResponse struct {
	Result          *simulator.Result             `json:"result"`
	Recommendations []string                      `json:"recommendations"`
	Scenarios       []simulator.FinancingScenario `json:"scenarios"`
}

type validationResponse struct {
	Errors     []string              `json:"errors"`
	Violations []simulator.Violation `json:"violations"`
}

func (h *handler) handleSimulate(c *gin.Context) {
	const op = "server.handleSimulate"

	var in simulator.Input
	if !h.bindJSON(c, &in, op) {
		return
	}

	report, ok := h.simulate(c, in, op)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, simulateResponse{
		Result:          report.Result,
		Recommendations: report.Recommendations,
		Scenarios:       report.Scenarios,
	})
}

func (h *handler) handleRecommendations(c *gin.Context) {
	const op = "server.handleRecommendations"

	var result simulator.Result
	if !h.bindJSON(c, &result, op) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": h.engine.Recommend(&result)})
}

func (h *handler) handleScenarios(c *gin.Context) {
	const op = "server.handleScenarios"

	systemCost, ok := h.systemCost(c, op)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"scenarios": h.engine.FinancingScenarios(systemCost)})
}

func (h *handler) handleSchedule(c *gin.Context) {
	const op = "server.handleSchedule"

	systemCost, ok := h.systemCost(c, op)
	if !ok {
		return
	}

	schedule, err := h.engine.Schedule(systemCost)
	if err != nil {
		h.respondErrorWithOp(c, http.StatusBadRequest, err.Error(), op)
		return
	}

	conf := h.engine.Config()
	c.JSON(http.StatusOK, gin.H{
		"systemCost":   systemCost,
		"interestRate": conf.FinancingRate,
		"years":        conf.FinancingYears,
		"payments":     schedule,
	})
}

func (h *handler) handleExport(c *gin.Context) {
	const op = "server.handleExport"

	exportFormat := strings.ToLower(c.Param("format"))
	contentType, ok := exportContentTypes[exportFormat]
	if !ok {
		h.respondErrorWithOp(c, http.StatusNotFound,
			fmt.Sprintf("unsupported export format %q", exportFormat), op)
		return
	}

	var in simulator.Input
	if !h.bindJSON(c, &in, op) {
		return
	}

	report, ok := h.simulate(c, in, op)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := output.Write(&buf, exportFormat, report, output.ParseLanguage("")); err != nil {
		metrics.IncExport(exportFormat, metrics.ResultError)
		h.respondErrorWithOp(c, http.StatusInternalServerError, fmt.Sprintf("failed to render report: %v", err), op)
		return
	}
	metrics.IncExport(exportFormat, metrics.ResultOK)

	filename := fmt.Sprintf("solar-simulation-%s.%s", report.Result.ID, exportFormat)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

var exportContentTypes = map[string]string{
	constants.OutputFormatPDF:  "application/pdf",
	constants.OutputFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	constants.OutputFormatCSV:  "text/csv; charset=utf-8",
}

func (h *handler) handleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Config())
}

func (h *handler) handleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": h.version})
}

// simulate runs the engine and records metrics. On failure the response has
// already been written and ok is false.
func (h *handler) simulate(c *gin.Context, in simulator.Input, op string) (output.Report, bool) {
	start := time.Now()
	result, err := h.engine.Simulate(in)
	if err != nil {
		var validationErr *simulator.ValidationError
		if errors.As(err, &validationErr) {
			metrics.ObserveSimulation(metrics.ResultInvalid, time.Since(start))
			for _, v := range validationErr.Violations {
				metrics.IncValidationFailure(v.Field)
			}
			h.logger.Debug("simulation rejected",
				zap.String("op", op),
				zap.Strings("errors", validationErr.Messages()),
			)
			c.JSON(http.StatusUnprocessableEntity, validationResponse{
				Errors:     validationErr.Messages(),
				Violations: validationErr.Violations,
			})
			return output.Report{}, false
		}

		metrics.ObserveSimulation(metrics.ResultError, time.Since(start))
		h.respondErrorWithOp(c, http.StatusInternalServerError, fmt.Sprintf("simulation failed: %v", err), op)
		return output.Report{}, false
	}
	metrics.ObserveSimulation(metrics.ResultOK, time.Since(start))

	return output.Report{
		Result:          result,
		Recommendations: h.engine.Recommend(result),
		Scenarios:       h.engine.FinancingScenarios(result.SystemSpecs.EstimatedCost),
		Currency:        h.engine.Config().Currency,
	}, true
}

func (h *handler) bindJSON(c *gin.Context, dst interface{}, op string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(c, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.respondErrorWithOp(c, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err), op)
		return false
	}
	return true
}

func (h *handler) systemCost(c *gin.Context, op string) (float64, bool) {
	raw := c.Query("systemCost")
	if raw == "" {
		h.respondErrorWithOp(c, http.StatusBadRequest, "missing systemCost query parameter", op)
		return 0, false
	}
	systemCost, err := strconv.ParseFloat(raw, 64)
	if err != nil || !mathutil.IsFinite(systemCost) || systemCost <= 0 {
		h.respondErrorWithOp(c, http.StatusBadRequest,
			fmt.Sprintf("systemCost must be a positive number, got %q", raw), op)
		return 0, false
	}
	return systemCost, true
}

func (h *handler) respondErrorWithOp(c *gin.Context, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func (h *handler) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		h.logger.Error("panic while serving request",
			zap.String("op", "server.recovery"),
			zap.Any("recovered", recovered),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "an unexpected error occurred"})
	})
}

func (h *handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.Debug("request served",
			zap.String("op", "server.request"),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

func (h *handler) limitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodySize)
		}
		c.Next()
	}
}
