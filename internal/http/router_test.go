package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"transcript-merge-engine/internal/config"
	"transcript-merge-engine/internal/merge"
	"transcript-merge-engine/internal/registry"
	"transcript-merge-engine/internal/service/ingest"
)

func testDeps() Deps {
	cfg := config.Load()
	return Deps{
		Cfg:    cfg,
		Reg:    registry.New(merge.DefaultEngineConfig(), zerolog.Nop()),
		Ingest: ingest.NewHandler(zerolog.Nop()),
	}
}

func TestHandleUpdate_AcceptsWellFormedUpdate(t *testing.T) {
	router := NewRouter(testDeps())

	body, _ := json.Marshal(merge.Update{
		TokenTexts: []string{"hi"},
		TokenProbs: []float64{0.9},
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/interactions/int-1/updates", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleUpdate_RejectsMalformedBody(t *testing.T) {
	router := NewRouter(testDeps())

	body, _ := json.Marshal(merge.Update{
		TokenTexts: []string{"hi", "there"},
		TokenProbs: []float64{0.9},
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/interactions/int-1/updates", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleSnapshot_UnknownInteraction(t *testing.T) {
	router := NewRouter(testDeps())

	req := httptest.NewRequest(http.MethodGet, "/v1/interactions/missing/snapshot", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandleSnapshot_ReturnsSerializedTranscript(t *testing.T) {
	deps := testDeps()
	router := NewRouter(deps)

	engine := deps.Reg.GetOrCreate("int-1")
	_ = engine.Ingest(merge.Update{
		TokenTexts: []string{"hello"},
		TokenProbs: []float64{0.9},
	})
	engine.Drain()

	req := httptest.NewRequest(http.MethodGet, "/v1/interactions/int-1/snapshot", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var snap merge.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("failed to decode snapshot: %v", err)
	}
	if len(snap.Words) != 1 || snap.Words[0] != "hello" {
		t.Errorf("expected snapshot words [hello], got %v", snap.Words)
	}
}

func TestHandleStream_TimesOutQuickly(t *testing.T) {
	deps := testDeps()
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/v1/interactions/int-1/stream?max_duration=10ms", nil)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		router.ServeHTTP(rec, req)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream handler did not return within 2s")
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHandleLiveness(t *testing.T) {
	router := NewRouter(testDeps())

	req := httptest.NewRequest(http.MethodGet, "/v1/liveness", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
