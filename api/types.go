// Package api - API types for the power simulator
// These types define the contract for the /v1 endpoints.
// Every request builds its own session; finished runs are kept in the run store.
package api

import (
	"time"

	"deathrun-power/core/engine"
	"deathrun-power/core/power"
)

// SimulateRequest is the input to POST /v1/simulate
type SimulateRequest struct {
	// Scenario is a structured scenario
	Scenario *engine.Scenario `json:"scenario,omitempty"`

	// InlineHCL is a scenario in HCL, used when Scenario is empty
	InlineHCL string `json:"inline_hcl,omitempty"`

	// Tier applies to scenarios that do not set one (optional)
	Tier string `json:"tier,omitempty"`

	// ShowLedger includes every adjustment in the response
	ShowLedger bool `json:"show_ledger,omitempty"`
}

// SimulateResponse is the output of POST /v1/simulate
type SimulateResponse struct {
	*engine.Result

	Metadata *ResponseMetadata `json:"metadata"`
}

// AdjustResponse is the output of POST /v1/adjust
type AdjustResponse struct {
	*power.Adjustment

	Metadata *ResponseMetadata `json:"metadata"`
}

// RunSummary is one entry of GET /v1/runs
type RunSummary struct {
	ID          string    `json:"id"`
	Scenario    string    `json:"scenario"`
	Tier        string    `json:"tier"`
	FailedSteps int       `json:"failed_steps"`
	CreatedAt   time.Time `json:"created_at"`
}

// RunListResponse is the output of GET /v1/runs
type RunListResponse struct {
	Runs []RunSummary `json:"runs"`
}

// ResponseMetadata describes how a response was produced
type ResponseMetadata struct {
	InputHash     string `json:"input_hash"`
	EngineVersion string `json:"engine_version"`
	DurationMs    int64  `json:"duration_ms"`
}

// ErrorDetail is the body of every error response
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}
