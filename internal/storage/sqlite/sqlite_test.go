package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/celeste-ai/gateway/internal/storage/models"
)

func setupTestDB(t *testing.T) *Storage {
	t.Helper()

	storage, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { storage.Close() })
	return storage
}

func TestRequestLogging(t *testing.T) {
	storage := setupTestDB(t)

	log := &models.RequestLog{
		RequestID:    "req-123",
		Capability:   "text_generation",
		Provider:     "openai",
		Model:        "gpt-4o",
		PromptTokens: 12,
		IsStreaming:  true,
		StatusCode:   200,
		DurationMs:   1500,
	}
	if err := storage.LogRequest(log); err != nil {
		t.Fatalf("LogRequest failed: %v", err)
	}
	if log.ID == "" {
		t.Error("expected ID to be generated")
	}

	logs, err := storage.GetRequestLogs(models.LogFilter{Limit: 10})
	if err != nil {
		t.Fatalf("GetRequestLogs failed: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(logs))
	}

	got := logs[0]
	if got.Model != "gpt-4o" || got.Capability != "text_generation" {
		t.Errorf("unexpected log %+v", got)
	}
	if !got.IsStreaming {
		t.Error("expected streaming flag to round-trip")
	}
	if got.PromptTokens != 12 {
		t.Errorf("expected prompt tokens %d, got %d", 12, got.PromptTokens)
	}

	// Filter by provider
	logs, err = storage.GetRequestLogs(models.LogFilter{Provider: "google"})
	if err != nil {
		t.Fatalf("GetRequestLogs with filter failed: %v", err)
	}
	if len(logs) != 0 {
		t.Errorf("expected 0 logs for google, got %d", len(logs))
	}
}

func TestRequestLogging_Filters(t *testing.T) {
	storage := setupTestDB(t)

	entries := []*models.RequestLog{
		{RequestID: "a", Capability: "image_generation", Provider: "google", StatusCode: 200},
		{RequestID: "b", Capability: "image_generation", Provider: "openai", StatusCode: 502, ErrorMessage: "upstream"},
		{RequestID: "c", Capability: "rerank", Provider: "cohere", StatusCode: 200},
	}
	for _, e := range entries {
		if err := storage.LogRequest(e); err != nil {
			t.Fatalf("LogRequest failed: %v", err)
		}
	}

	logs, err := storage.GetRequestLogs(models.LogFilter{Capability: "image_generation"})
	if err != nil {
		t.Fatalf("GetRequestLogs failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 image logs, got %d", len(logs))
	}

	status := 502
	logs, err = storage.GetRequestLogs(models.LogFilter{StatusCode: &status})
	if err != nil {
		t.Fatalf("GetRequestLogs failed: %v", err)
	}
	if len(logs) != 1 || logs[0].ErrorMessage != "upstream" {
		t.Errorf("expected the failed request, got %+v", logs)
	}
}

func TestLogRequest_RequiresCapabilityAndProvider(t *testing.T) {
	storage := setupTestDB(t)

	err := storage.LogRequest(&models.RequestLog{RequestID: "x", Provider: "openai"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDeleteRequestLogs(t *testing.T) {
	storage := setupTestDB(t)

	old := &models.RequestLog{RequestID: "old", Capability: "rerank", Provider: "cohere", CreatedAt: time.Now().UTC().Add(-48 * time.Hour)}
	recent := &models.RequestLog{RequestID: "new", Capability: "rerank", Provider: "cohere"}
	for _, e := range []*models.RequestLog{old, recent} {
		if err := storage.LogRequest(e); err != nil {
			t.Fatalf("LogRequest failed: %v", err)
		}
	}

	n, err := storage.DeleteRequestLogs(time.Now().Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("DeleteRequestLogs failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deleted row, got %d", n)
	}

	logs, _ := storage.GetRequestLogs(models.LogFilter{})
	if len(logs) != 1 || logs[0].RequestID != "new" {
		t.Errorf("expected only the recent log to remain, got %+v", logs)
	}
}

func TestClosedStorage(t *testing.T) {
	storage := setupTestDB(t)
	if err := storage.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := storage.LogRequest(&models.RequestLog{Capability: "rerank", Provider: "cohere"}); !errors.Is(err, ErrStorageClosed) {
		t.Errorf("expected ErrStorageClosed, got %v", err)
	}
	if err := storage.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
}
