package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/pnu-resolver/app/models"
	"github.com/pnu-resolver/internal/index"
)

func testService(t *testing.T) *ResolveService {
	t.Helper()
	ix := index.Build([]models.DistrictRecord{
		{FullName: "서울특별시 강남구 역삼동", Code10: "1168010100"},
		{FullName: "서울특별시 서초구 양재동", Code10: "1165010200"},
		{FullName: "경기도 성남시 분당구 정자동", Code10: "4113510300"},
	})
	return NewResolveService(ix, "test", zap.NewNop())
}

func TestResolveNilIndex(t *testing.T) {
	svc := NewResolveService(nil, "none", zap.NewNop())
	if _, err := svc.Resolve("역삼동 123"); !errors.Is(err, ErrIndexUnavailable) {
		t.Fatalf("Resolve() error = %v, want ErrIndexUnavailable", err)
	}
	if svc.IndexReady() {
		t.Error("IndexReady() = true for nil index")
	}
}

func TestResolveFullAddress(t *testing.T) {
	svc := testService(t)

	record, err := svc.Resolve("서울특별시 강남구 역삼동 123-4")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !record.OK {
		t.Fatalf("record not OK: %+v", record)
	}
	if record.Pnu == nil || *record.Pnu != "1168010100001230004" {
		t.Errorf("Pnu = %v", record.Pnu)
	}
	if record.Bun == nil || *record.Bun != "0123" {
		t.Errorf("Bun = %v", record.Bun)
	}
	if record.Ji == nil || *record.Ji != "0004" {
		t.Errorf("Ji = %v", record.Ji)
	}
	if record.MtYn == nil || *record.MtYn != "0" {
		t.Errorf("MtYn = %v", record.MtYn)
	}
	if record.Romanized == nil || *record.Romanized == "" {
		t.Error("Romanized missing for resolved record")
	}
}

func TestResolveMountainLot(t *testing.T) {
	svc := testService(t)

	record, err := svc.Resolve("서초구 양재동 산 123-4")
	if err != nil {
		t.Fatal(err)
	}
	if !record.OK || record.Pnu == nil {
		t.Fatalf("record: %+v", record)
	}
	if *record.Pnu != "1165010200101230004" {
		t.Errorf("Pnu = %q", *record.Pnu)
	}
	if *record.MtYn != "1" {
		t.Errorf("MtYn = %q", *record.MtYn)
	}
}

func TestResolveNameOnly(t *testing.T) {
	svc := testService(t)

	record, err := svc.Resolve("역삼동")
	if err != nil {
		t.Fatal(err)
	}
	if !record.OK {
		t.Fatalf("record not OK: %+v", record)
	}
	if record.Pnu != nil {
		t.Errorf("Pnu = %v, want nil without a lot number", *record.Pnu)
	}
	if record.Bun != nil || record.Ji != nil {
		t.Errorf("Bun/Ji should be nil: %+v", record)
	}
	if record.AdmCd10 == nil || *record.AdmCd10 != "1168010100" {
		t.Errorf("AdmCd10 = %v", record.AdmCd10)
	}
}

func TestResolveNotFoundSuggests(t *testing.T) {
	svc := testService(t)

	record, err := svc.Resolve("서울특별시 강남구 역삼둥 123")
	if err != nil {
		t.Fatal(err)
	}
	if record.OK {
		t.Fatalf("record unexpectedly OK: %+v", record)
	}
	if record.Reason != models.ReasonNotFound {
		t.Errorf("Reason = %q", record.Reason)
	}
}

func TestResolveSuggestionsDisabled(t *testing.T) {
	svc := testService(t)

	record, err := svc.ResolveWithSuggestions("서울특별시 강남구 역삼둥 123", false)
	if err != nil {
		t.Fatal(err)
	}
	if record.OK {
		t.Fatalf("record unexpectedly OK: %+v", record)
	}
	if record.Reason != models.ReasonNotFound {
		t.Errorf("Reason = %q", record.Reason)
	}
	if record.Suggestions != nil {
		t.Errorf("Suggestions = %v, want none when disabled", record.Suggestions)
	}
}

func TestResolveAmbiguousIsAmbiguous(t *testing.T) {
	svc := NewResolveService(index.Build([]models.DistrictRecord{
		{FullName: "서울특별시 송파구 신천동", Code10: "1171010200"},
		{FullName: "경기도 시흥시 신천동", Code10: "4139012600"},
	}), "test", zap.NewNop())

	record, err := svc.Resolve("신천동")
	if err != nil {
		t.Fatal(err)
	}
	if record.OK {
		t.Fatalf("record unexpectedly OK: %+v", record)
	}
	if !record.IsAmbiguous() {
		t.Errorf("IsAmbiguous() = false, reason %q", record.Reason)
	}
	if len(record.Candidates) != 2 {
		t.Errorf("Candidates = %v", record.Candidates)
	}
}

func TestResolveEmptyQuery(t *testing.T) {
	svc := testService(t)

	record, err := svc.Resolve("   ")
	if err != nil {
		t.Fatal(err)
	}
	if record.OK || record.Reason != models.ReasonEmptyQuery {
		t.Fatalf("record: %+v", record)
	}
}

func TestResolvePercentEncodedInput(t *testing.T) {
	svc := testService(t)

	record, err := svc.Resolve("%EC%97%AD%EC%82%BC%EB%8F%99+123")
	if err != nil {
		t.Fatal(err)
	}
	if !record.OK {
		t.Fatalf("record not OK: %+v", record)
	}
	if record.Normalized != "역삼동 123" {
		t.Errorf("Normalized = %q", record.Normalized)
	}
}

func TestBatchJobLifecycle(t *testing.T) {
	svc := testService(t)

	jobID := "job-1"
	svc.CreateBatchJob(jobID, 3)

	status, err := svc.GetJobStatus(jobID)
	if err != nil {
		t.Fatal(err)
	}
	if status.Status != JobStatusPending {
		t.Errorf("Status = %q before processing, want %q", status.Status, JobStatusPending)
	}

	svc.ProcessBatchJob(jobID, []string{"역삼동 1", "양재동 2-3", "없는동네"})

	status, err = svc.GetJobStatus(jobID)
	if err != nil {
		t.Fatal(err)
	}
	if status.Status != JobStatusDone || status.Processed != 3 {
		t.Errorf("status = %+v", status)
	}
	if status.EstimatedRemaining != 0 {
		t.Errorf("EstimatedRemaining = %d after completion", status.EstimatedRemaining)
	}

	results, err := svc.GetJobResults(jobID)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	if !results[0].OK || !results[1].OK || results[2].OK {
		t.Errorf("unexpected OK flags: %v %v %v", results[0].OK, results[1].OK, results[2].OK)
	}

	ch, err := svc.GetJobResultsStream(jobID)
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for range ch {
		count++
	}
	if count != 3 {
		t.Errorf("streamed %d records, want 3", count)
	}

	if _, err := svc.GetJobStatus("missing"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("GetJobStatus(missing) error = %v", err)
	}
}

func TestBatchJobFailsWithoutIndex(t *testing.T) {
	svc := NewResolveService(nil, "none", zap.NewNop())

	svc.ProcessBatchJob("job-x", []string{"역삼동 1"})

	status, err := svc.GetJobStatus("job-x")
	if err != nil {
		t.Fatal(err)
	}
	if status.Status != JobStatusFailed {
		t.Errorf("Status = %q, want %q", status.Status, JobStatusFailed)
	}
	if _, err := svc.GetJobResults("job-x"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("GetJobResults() error = %v, want ErrJobNotFound", err)
	}
}

func TestMemoryCacheService(t *testing.T) {
	cache := NewMemoryCacheService(10, time.Minute)
	ctx := context.Background()

	rec := &models.ResolveRecord{Input: "역삼동 1", OK: true, Source: "csv"}
	if err := cache.Set(ctx, "역삼동 1", rec); err != nil {
		t.Fatal(err)
	}

	got, found, err := cache.Get(ctx, "역삼동 1")
	if err != nil || !found {
		t.Fatalf("Get() = %v, %v, %v", got, found, err)
	}
	if got.Input != "역삼동 1" {
		t.Errorf("Input = %q", got.Input)
	}

	if _, found, _ := cache.Get(ctx, "missing"); found {
		t.Error("unexpected hit for missing key")
	}

	stats, err := cache.GetStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalHits != 1 || stats.TotalMiss != 1 {
		t.Errorf("stats = %+v", stats)
	}

	if err := cache.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if exists, _ := cache.Exists(ctx, "역삼동 1"); exists {
		t.Error("key survived Clear()")
	}
}
