package controllers

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pnu-resolver/app/requests"
	"github.com/pnu-resolver/app/responses"
	"github.com/pnu-resolver/app/services"
	"github.com/pnu-resolver/helpers/utils"
)

// ResolveController handles the resolution endpoints: single queries, batch
// jobs, and job result retrieval.
type ResolveController struct {
	resolveService *services.ResolveService
	cacheService   services.ICacheService
	logger         *zap.Logger
}

func NewResolveController(resolveService *services.ResolveService, cacheService services.ICacheService, logger *zap.Logger) *ResolveController {
	return &ResolveController{
		resolveService: resolveService,
		cacheService:   cacheService,
		logger:         logger,
	}
}

// ResolveGet handles GET /resolve?text=... for quick lookups (query= and q=
// are accepted aliases); cache semantics match the POST form with caching on.
func (rc *ResolveController) ResolveGet(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		text = c.Query("query")
	}
	if text == "" {
		text = c.Query("q")
	}
	if text == "" {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:     "INVALID_REQUEST",
			Message:   "missing text parameter",
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}

	rc.resolve(c, text, requests.ResolveOptions{})
}

// ResolvePost handles POST /resolve with a JSON body.
func (rc *ResolveController) ResolvePost(c *gin.Context) {
	var req requests.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:     "INVALID_REQUEST",
			Message:   "invalid request: " + err.Error(),
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}

	rc.resolve(c, req.Text, req.Options)
}

func (rc *ResolveController) resolve(c *gin.Context, text string, opts requests.ResolveOptions) {
	startTime := time.Now()
	useCache := opts.CacheEnabled() && rc.cacheService != nil

	if useCache {
		if cached, found, err := rc.cacheService.Get(c.Request.Context(), text); err == nil && found {
			c.JSON(http.StatusOK, responses.ResolveResponse{
				TableVersion:     rc.resolveService.TableVersion(),
				Result:           *cached,
				ProcessingTimeMs: time.Since(startTime).Milliseconds(),
				CacheHit:         true,
			})
			return
		}
	}

	record, err := rc.resolveService.ResolveWithSuggestions(text, opts.SuggestEnabled())
	if err != nil {
		if errors.Is(err, services.ErrIndexUnavailable) {
			c.JSON(http.StatusServiceUnavailable, responses.ErrorResponse{
				Error:     "INDEX_UNAVAILABLE",
				Message:   "reference table is not loaded",
				Timestamp: time.Now().Format(time.RFC3339),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:     "RESOLVE_ERROR",
			Message:   err.Error(),
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}

	if useCache {
		rc.cacheService.Set(c.Request.Context(), text, record)
	}

	c.JSON(http.StatusOK, responses.ResolveResponse{
		TableVersion:     rc.resolveService.TableVersion(),
		Result:           *record,
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
		CacheHit:         false,
	})
}

// BatchResolve starts a background batch job and returns its ID.
func (rc *ResolveController) BatchResolve(c *gin.Context) {
	var req requests.BatchResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:     "INVALID_REQUEST",
			Message:   "invalid request: " + err.Error(),
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}

	if !rc.resolveService.IndexReady() {
		c.JSON(http.StatusServiceUnavailable, responses.ErrorResponse{
			Error:     "INDEX_UNAVAILABLE",
			Message:   "reference table is not loaded",
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}

	jobID := utils.GenerateUUID()
	estimated := rc.resolveService.EstimateBatchProcessingTime(len(req.Texts))

	rc.resolveService.CreateBatchJob(jobID, len(req.Texts))
	go rc.resolveService.ProcessBatchJob(jobID, req.Texts)

	c.JSON(http.StatusAccepted, responses.BatchResolveResponse{
		JobID:            jobID,
		EstimatedSeconds: estimated,
		TotalTexts:       len(req.Texts),
		Message:          "job accepted",
	})
}

// GetJobStatus reports progress of one batch job.
func (rc *ResolveController) GetJobStatus(c *gin.Context) {
	jobID := c.Param("jobID")

	status, err := rc.resolveService.GetJobStatus(jobID)
	if err != nil {
		c.JSON(http.StatusNotFound, responses.ErrorResponse{
			Error:     "JOB_NOT_FOUND",
			Message:   "job not found: " + jobID,
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, responses.JobStatusResponse{
		JobID:              jobID,
		Status:             status.Status,
		Progress:           status.Progress,
		Processed:          status.Processed,
		Total:              status.Total,
		EstimatedRemaining: status.EstimatedRemaining,
		Message:            status.Message,
	})
}

// GetJobResults returns a finished job's records, as a JSON envelope or as
// NDJSON (format=ndjson, optionally gzip=1).
func (rc *ResolveController) GetJobResults(c *gin.Context) {
	jobID := c.Param("jobID")

	if c.Query("format") == "ndjson" {
		rc.streamNDJSONResults(c, jobID, c.Query("gzip") == "1")
		return
	}

	results, err := rc.resolveService.GetJobResults(jobID)
	if err != nil {
		c.JSON(http.StatusNotFound, responses.ErrorResponse{
			Error:     "JOB_NOT_FOUND",
			Message:   "job not found: " + jobID,
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success:   true,
		Message:   "job results",
		Data:      results,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// HealthCheck reports liveness plus per-dependency state.
func (rc *ResolveController) HealthCheck(c *gin.Context) {
	indexState := "healthy"
	status := "healthy"
	if !rc.resolveService.IndexReady() {
		indexState = "unavailable"
		status = "degraded"
	}

	cacheState := "disabled"
	if rc.cacheService != nil {
		cacheState = "healthy"
	}

	c.JSON(http.StatusOK, responses.HealthCheckResponse{
		Status:    status,
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(rc.resolveService.GetStartTime()).String(),
		Version:   "1.0.0",
		Services: map[string]string{
			"index": indexState,
			"cache": cacheState,
		},
	})
}

func (rc *ResolveController) streamNDJSONResults(c *gin.Context, jobID string, gzipEnabled bool) {
	resultChannel, err := rc.resolveService.GetJobResultsStream(jobID)
	if err != nil {
		c.JSON(http.StatusNotFound, responses.ErrorResponse{
			Error:     "JOB_NOT_FOUND",
			Message:   "job not found: " + jobID,
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}

	c.Header("Content-Type", "application/x-ndjson")
	if gzipEnabled {
		c.Header("Content-Encoding", "gzip")
	}

	var writer gin.ResponseWriter = c.Writer
	if gzipEnabled {
		gzWriter := gzip.NewWriter(c.Writer)
		defer gzWriter.Close()
		writer = &gzipResponseWriter{
			ResponseWriter: c.Writer,
			gzWriter:       gzWriter,
		}
	}

	encoder := json.NewEncoder(writer)
	for record := range resultChannel {
		if err := encoder.Encode(record); err != nil {
			rc.logger.Error("ndjson encode failed", zap.Error(err))
			break
		}
		if flusher, ok := writer.(http.Flusher); ok {
			flusher.Flush()
		}
	}
}

// gzipResponseWriter compresses the NDJSON stream.
type gzipResponseWriter struct {
	gin.ResponseWriter
	gzWriter *gzip.Writer
}

func (w *gzipResponseWriter) Write(data []byte) (int, error) {
	return w.gzWriter.Write(data)
}

func (w *gzipResponseWriter) Flush() {
	w.gzWriter.Flush()
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
