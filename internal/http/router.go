// Package http wires the ingest/snapshot/stream HTTP surface onto a
// chi router (spec §6).
package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"transcript-merge-engine/internal/config"
	"transcript-merge-engine/internal/merge"
	"transcript-merge-engine/internal/registry"
	"transcript-merge-engine/internal/service/ingest"
	"transcript-merge-engine/internal/service/stream"
)

// Deps bundles the collaborators the router's handlers need.
type Deps struct {
	Cfg    *config.Config
	Reg    *registry.Registry
	Ingest *ingest.Handler
}

// NewRouter constructs the HTTP router for the service.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/v1/liveness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/v1/readiness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	r.Route("/v1/interactions/{interactionID}", func(r chi.Router) {
		r.Post("/updates", d.handleUpdate)
		r.Get("/snapshot", d.handleSnapshot)
		r.Get("/stream", d.handleStream)
	})

	return r
}

func (d Deps) handleUpdate(w http.ResponseWriter, r *http.Request) {
	interactionID := chi.URLParam(r, "interactionID")

	var u merge.Update
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		http.Error(w, "malformed update body: "+err.Error(), http.StatusBadRequest)
		return
	}

	engine := d.Reg.GetOrCreate(interactionID)
	if err := d.Ingest.Accept(engine, interactionID, u); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (d Deps) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	interactionID := chi.URLParam(r, "interactionID")

	engine, ok := d.Reg.Get(interactionID)
	if !ok {
		http.Error(w, "unknown interaction", http.StatusNotFound)
		return
	}

	snap := engine.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snap)
}

func (d Deps) handleStream(w http.ResponseWriter, r *http.Request) {
	interactionID := chi.URLParam(r, "interactionID")

	engine := d.Reg.GetOrCreate(interactionID)

	maxDuration := d.Cfg.HTTP.DefaultMaxStream
	if v := r.URL.Query().Get("max_duration"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			maxDuration = parsed
		}
	}
	pollInterval := time.Duration(d.Cfg.Merge.PollIntervalMs) * time.Millisecond

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	session := stream.New(interactionID, engine, maxDuration, pollInterval)

	result := session.Run(r.Context(), func(fb stream.Feedback) {
		_ = enc.Encode(fb)
		flusher.Flush()
	})

	if err := enc.Encode(result); err != nil {
		log.Error().Err(err).Str("interactionId", interactionID).Msg("failed to encode stream result")
		return
	}
	flusher.Flush()
}
