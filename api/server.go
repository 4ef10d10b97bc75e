// Package api - Thin, deterministic API layer
// The API is ONLY responsible for: input decoding, engine orchestration, output serialization.
// The API NEVER applies power rules itself.
package api

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"deathrun-power/adapters/scenario"
	"deathrun-power/adapters/sim"
	"deathrun-power/adapters/storage"
	"deathrun-power/core/engine"
	"deathrun-power/internal/config"
	"deathrun-power/internal/errors"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// Server is the API server
type Server struct {
	mux     *http.ServeMux
	version string
	cfg     *config.Config
	store   storage.Store
	log     *zap.Logger
}

// NewServer creates a new API server
func NewServer(version string, cfg *config.Config, log *zap.Logger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	store, err := storage.New(storage.Backend(cfg.Storage.Backend), cfg.Storage.Path)
	if err != nil {
		log.Warn("run storage unavailable, keeping runs in memory", zap.Error(err))
		store = storage.NewMemoryStore()
	}
	s := &Server{
		mux:     http.NewServeMux(),
		version: version,
		cfg:     cfg,
		store:   store,
		log:     log,
	}

	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// Core endpoints
	s.mux.HandleFunc("POST /v1/simulate", s.handleSimulate)
	s.mux.HandleFunc("POST /v1/adjust", s.handleAdjust)
	s.mux.HandleFunc("GET /health", s.handleHealth)

	// Run history
	s.mux.HandleFunc("GET /v1/runs", s.handleListRuns)
	s.mux.HandleFunc("GET /v1/runs/{id}", s.handleGetRun)

	// Supporting endpoints
	s.mux.HandleFunc("GET /version", s.handleVersion)
}

// handleSimulate handles POST /v1/simulate
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req SimulateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, errors.Parsing("invalid JSON body", err))
		return
	}

	sc := req.Scenario
	if sc == nil {
		if req.InlineHCL == "" {
			s.writeError(w, errors.Input("scenario or inline_hcl is required"))
			return
		}
		parsed, err := scenario.NewParser().Parse([]byte(req.InlineHCL), "inline.hcl")
		if err != nil {
			s.writeError(w, err)
			return
		}
		sc = parsed
	}

	tier := s.cfg.Tier()
	if req.Tier != "" {
		t, err := config.ParseTier(req.Tier)
		if err != nil {
			s.writeError(w, err)
			return
		}
		tier = t
	}

	// Execute engine (NO POWER LOGIC HERE)
	result, err := sim.Run(r.Context(), sc, sim.RunOptions{
		Tier:     tier,
		Survival: s.cfg.SurvivalSettings(),
		Logger:   s.log.Named("sim"),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), storage.NewStoredRun(result, "")); err != nil {
		s.writeError(w, err)
		return
	}

	resp := *result
	if !req.ShowLedger {
		resp.Ledger = nil
	}

	s.writeJSON(w, &SimulateResponse{
		Result:   &resp,
		Metadata: s.metadata(&req, start),
	}, http.StatusOK)
}

// handleListRuns handles GET /v1/runs?scenario=&failed=&limit=
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &storage.ListFilter{
		Scenario:   q.Get("scenario"),
		OnlyFailed: q.Get("failed") == "true",
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, errors.Input("limit must be a non-negative integer").WithContext("limit", v))
			return
		}
		filter.Limit = n
	}

	runs, err := s.store.List(r.Context(), filter)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := &RunListResponse{Runs: make([]RunSummary, 0, len(runs))}
	for _, run := range runs {
		summary := RunSummary{
			ID:          run.ID,
			Scenario:    run.Scenario,
			FailedSteps: run.FailedSteps,
			CreatedAt:   run.CreatedAt,
		}
		if run.Result != nil {
			summary.Tier = string(run.Result.Tier)
		}
		resp.Runs = append(resp.Runs, summary)
	}
	s.writeJSON(w, resp, http.StatusOK)
}

// handleGetRun handles GET /v1/runs/{id}
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, run, http.StatusOK)
}

// handleAdjust handles POST /v1/adjust
func (s *Server) handleAdjust(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req engine.AdjustRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, errors.Parsing("invalid JSON body", err))
		return
	}
	if req.Tier == "" {
		req.Tier = s.cfg.Tier()
	}

	adj, err := engine.Adjust(req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, &AdjustResponse{
		Adjustment: adj,
		Metadata:   s.metadata(&req, start),
	}, http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "deathrun-power",
		"api_version": "v1",
		"tier":        string(s.cfg.Tier()),
	}, http.StatusOK)
}

func (s *Server) metadata(req interface{}, start time.Time) *ResponseMetadata {
	return &ResponseMetadata{
		InputHash:     computeInputHash(req),
		EngineVersion: s.version,
		DurationMs:    time.Since(start).Milliseconds(),
	}
}

// writeJSON encodes data before committing the status, so an unencodable
// body turns into an INTERNAL_ERROR instead of an empty success
func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		s.log.Error("failed to encode response", zap.Int("status", status), zap.Error(err))
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(map[string]interface{}{"error": ErrorDetail{
			Code:    string(errors.TypeInternal),
			Message: "failed to encode response",
		}})
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.log.Warn("failed to write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	detail := ErrorDetail{Code: string(errors.TypeInternal), Message: err.Error()}
	var e *errors.Error
	if stderrors.As(err, &e) {
		detail.Code = string(e.Type)
		detail.Context = e.Context
	}

	status := statusFor(errors.Type(detail.Code))
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
	}
	s.writeJSON(w, map[string]interface{}{"error": detail}, status)
}

func statusFor(t errors.Type) int {
	switch t {
	case errors.TypeInput, errors.TypeParsing, errors.TypeScenario, errors.TypeConfig:
		return http.StatusBadRequest
	case errors.TypeNotFound:
		return http.StatusNotFound
	case errors.TypeNotSupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Helper functions

func computeInputHash(req interface{}) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
