package responses

import "github.com/pnu-resolver/app/models"

// ResolveResponse wraps a single-query result with request metadata.
type ResolveResponse struct {
	TableVersion     string               `json:"table_version"`
	Result           models.ResolveRecord `json:"result"`
	ProcessingTimeMs int64                `json:"processing_time_ms"`
	CacheHit         bool                 `json:"cache_hit"`
}

// BatchResolveResponse acknowledges a submitted batch job.
type BatchResolveResponse struct {
	JobID            string `json:"job_id"`
	EstimatedSeconds int    `json:"estimated_seconds"`
	TotalTexts       int    `json:"total_texts"`
	Message          string `json:"message"`
}

// JobStatusResponse reports batch job progress.
type JobStatusResponse struct {
	JobID              string  `json:"job_id"`
	Status             string  `json:"status"`
	Progress           float64 `json:"progress"`
	Processed          int     `json:"processed"`
	Total              int     `json:"total"`
	EstimatedRemaining int     `json:"estimated_remaining"`
	Message            string  `json:"message"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error     string      `json:"error"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	Timestamp string      `json:"timestamp"`
	RequestID string      `json:"request_id,omitempty"`
}

// SuccessResponse is the uniform acknowledgment payload.
type SuccessResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// HealthCheckResponse is the /health payload.
type HealthCheckResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
}
