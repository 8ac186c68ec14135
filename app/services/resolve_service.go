package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mozillazg/go-unidecode"
	"go.uber.org/zap"

	"github.com/pnu-resolver/app/config"
	"github.com/pnu-resolver/app/models"
	"github.com/pnu-resolver/internal/index"
	"github.com/pnu-resolver/internal/normalizer"
	"github.com/pnu-resolver/internal/parser"
	"github.com/pnu-resolver/internal/pnu"
	"github.com/pnu-resolver/internal/recovery"
)

// ErrIndexUnavailable is returned while the reference table is not loaded.
// The server still comes up in this state; only resolution is refused.
var ErrIndexUnavailable = errors.New("reference table not loaded")

// ErrJobNotFound is returned for unknown batch job IDs.
var ErrJobNotFound = errors.New("job not found")

// ResolveService turns raw query text into resolve records. The index is
// immutable after construction; job state is the only mutable part.
type ResolveService struct {
	index        *index.Index
	logger       *zap.Logger
	startTime    time.Time
	tableVersion string
	mu           sync.RWMutex

	jobs       map[string]*JobStatus
	jobResults map[string][]*models.ResolveRecord
}

// Batch job states.
const (
	JobStatusPending = "pending"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)

// JobStatus tracks one background batch job.
type JobStatus struct {
	JobID              string    `json:"job_id"`
	Status             string    `json:"status"`
	Progress           float64   `json:"progress"`
	Processed          int       `json:"processed"`
	Total              int       `json:"total"`
	EstimatedRemaining int       `json:"estimated_remaining"`
	Message            string    `json:"message"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewResolveService wires the service. ix may be nil when the reference
// table failed to load; every Resolve call then fails fast.
func NewResolveService(ix *index.Index, tableVersion string, logger *zap.Logger) *ResolveService {
	return &ResolveService{
		index:        ix,
		logger:       logger,
		startTime:    time.Now(),
		tableVersion: tableVersion,
		jobs:         make(map[string]*JobStatus),
		jobResults:   make(map[string][]*models.ResolveRecord),
	}
}

// IndexReady reports whether the reference table is loaded.
func (rs *ResolveService) IndexReady() bool { return rs.index != nil }

// TableVersion returns the fingerprint of the loaded reference table.
func (rs *ResolveService) TableVersion() string { return rs.tableVersion }

// IndexSize returns the number of loaded reference rows.
func (rs *ResolveService) IndexSize() int {
	if rs.index == nil {
		return 0
	}
	return rs.index.Len()
}

// Resolve runs the full pipeline with suggestions enabled.
func (rs *ResolveService) Resolve(raw string) (*models.ResolveRecord, error) {
	return rs.ResolveWithSuggestions(raw, true)
}

// ResolveWithSuggestions runs the full pipeline on one raw query: text
// recovery, canonicalization, lot-number extraction, district resolution,
// identifier assembly. suggest gates the near-miss lookup for queries that
// match nothing. The returned record is complete even for failed lookups;
// the only error condition is a missing index.
func (rs *ResolveService) ResolveWithSuggestions(raw string, suggest bool) (*models.ResolveRecord, error) {
	if rs.index == nil {
		return nil, ErrIndexUnavailable
	}

	recovered := recovery.Recover(raw)
	normalized := normalizer.Canonicalize(recovered)

	parsed := parser.Parse(normalized)
	res := rs.index.ResolveAddress(normalized)

	mtYn := fmt.Sprintf("%d", parsed.MountainLot)
	record := &models.ResolveRecord{
		OK:         res.OK,
		Input:      raw,
		Normalized: normalized,
		MtYn:       &mtYn,
		Source:     "csv",
		Reason:     string(res.Reason),
		Candidates: res.Candidates,
	}

	if parsed.Bun != nil {
		bun := fmt.Sprintf("%04d", *parsed.Bun)
		ji := fmt.Sprintf("%04d", *parsed.Ji)
		record.Bun = &bun
		record.Ji = &ji
	}

	if res.OK {
		record.Full = &res.Matched
		record.AdmCd10 = &res.Code10

		if config.C.Romanize {
			rom := unidecode.Unidecode(res.Matched)
			record.Romanized = &rom
		}

		if parsed.Bun != nil {
			id, err := pnu.Assemble(res.Code10, parsed.MountainLot, *parsed.Bun, *parsed.Ji)
			if err != nil {
				rs.logger.Warn("identifier assembly failed",
					zap.String("code10", res.Code10),
					zap.Error(err))
			} else {
				record.Pnu = &id
			}
		}
	} else if suggest && res.Reason == index.ReasonNotFound {
		record.Suggestions = rs.suggestFor(normalized)
	}

	return record, nil
}

// suggestFor offers near-miss district names for a query that matched
// nothing at all.
func (rs *ResolveService) suggestFor(normalized string) []string {
	cfg := config.C.Suggest
	namePart := normalizer.CollapseSpaces(parser.Strip(normalized))
	if namePart == "" {
		return nil
	}

	// The trailing token is the 동-level name; earlier tokens are broader
	// units that would drown out the similarity signal.
	fields := strings.Fields(namePart)
	token := fields[len(fields)-1]

	suggestions := rs.index.Suggest(token, cfg.JWWeight, cfg.LevWeight, cfg.MinScore, cfg.TopK)
	if len(suggestions) == 0 {
		return nil
	}

	names := make([]string, len(suggestions))
	for i, s := range suggestions {
		names[i] = s.FullName
	}
	return names
}

// EstimateBatchProcessingTime returns a rough duration in seconds for a
// batch of the given size. Resolution is in-memory and fast; the estimate
// mostly covers serialization overhead.
func (rs *ResolveService) EstimateBatchProcessingTime(count int) int {
	return count / 1000
}

// CreateBatchJob registers a job in pending state so status queries succeed
// before the worker goroutine picks it up.
func (rs *ResolveService) CreateBatchJob(jobID string, total int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.jobs[jobID] = &JobStatus{
		JobID:     jobID,
		Status:    JobStatusPending,
		Total:     total,
		Message:   "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// ProcessBatchJob resolves a batch in the background, updating job progress
// as it goes. Run on its own goroutine by the controller.
func (rs *ResolveService) ProcessBatchJob(jobID string, texts []string) {
	rs.mu.Lock()
	job, exists := rs.jobs[jobID]
	if !exists {
		job = &JobStatus{JobID: jobID, CreatedAt: time.Now()}
		rs.jobs[jobID] = job
	}
	job.Status = JobStatusRunning
	job.Total = len(texts)
	job.Message = "processing"
	job.UpdatedAt = time.Now()
	rs.mu.Unlock()

	results := make([]*models.ResolveRecord, len(texts))
	for i, text := range texts {
		record, err := rs.Resolve(text)
		if err != nil {
			rs.mu.Lock()
			job.Status = JobStatusFailed
			job.Message = err.Error()
			job.UpdatedAt = time.Now()
			rs.mu.Unlock()
			rs.logger.Error("batch job failed",
				zap.String("job_id", jobID),
				zap.Error(err))
			return
		}
		results[i] = record

		done := i + 1
		rs.mu.Lock()
		job.Processed = done
		job.Progress = float64(done) / float64(len(texts))
		elapsed := time.Since(job.CreatedAt).Seconds()
		job.EstimatedRemaining = int(elapsed * float64(len(texts)-done) / float64(done))
		job.UpdatedAt = time.Now()
		if done == len(texts) {
			job.Status = JobStatusDone
			job.Message = "completed"
			job.EstimatedRemaining = 0
		}
		rs.mu.Unlock()
	}

	rs.mu.Lock()
	rs.jobResults[jobID] = results
	rs.mu.Unlock()

	rs.logger.Info("batch job completed",
		zap.String("job_id", jobID),
		zap.Int("total", len(texts)))
}

// GetJobStatus returns the status of one batch job.
func (rs *ResolveService) GetJobStatus(jobID string) (*JobStatus, error) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	job, exists := rs.jobs[jobID]
	if !exists {
		return nil, ErrJobNotFound
	}
	return job, nil
}

// GetJobResults returns all records of a finished batch job.
func (rs *ResolveService) GetJobResults(jobID string) ([]*models.ResolveRecord, error) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	results, exists := rs.jobResults[jobID]
	if !exists {
		return nil, ErrJobNotFound
	}
	return results, nil
}

// GetJobResultsStream returns the job's records on a channel for NDJSON
// streaming.
func (rs *ResolveService) GetJobResultsStream(jobID string) (<-chan *models.ResolveRecord, error) {
	results, err := rs.GetJobResults(jobID)
	if err != nil {
		return nil, err
	}

	ch := make(chan *models.ResolveRecord, 100)
	go func() {
		defer close(ch)
		for _, r := range results {
			ch <- r
		}
	}()
	return ch, nil
}

// GetStartTime returns when the service came up.
func (rs *ResolveService) GetStartTime() time.Time {
	return rs.startTime
}

// GetStats returns the service-level stats for the admin surface.
func (rs *ResolveService) GetStats() map[string]interface{} {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	status := "running"
	if rs.index == nil {
		status = "degraded"
	}

	stats := map[string]interface{}{
		"uptime_seconds": int64(time.Since(rs.startTime).Seconds()),
		"start_time":     rs.startTime.Format(time.RFC3339),
		"status":         status,
		"table_version":  rs.tableVersion,
		"index_rows":     rs.IndexSize(),
		"active_jobs":    len(rs.jobs),
	}
	if rs.index != nil {
		stats["duplicate_rows"] = rs.index.Duplicates()
	}
	return stats
}
