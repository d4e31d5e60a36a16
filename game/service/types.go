package service

import (
	"time"

	"github.com/wricardo/mcp-training/robotgrid/game/engine"
	"github.com/wricardo/mcp-training/robotgrid/game/robot"
)

// MaxRunOps caps the number of operations executed by one Run call
const MaxRunOps = 500

// Scenario is a named, storable environment
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	engine.Env
}

// NewEnv returns a copy of the scenario's environment wired to action
func (sc *Scenario) NewEnv(action func(name string)) *engine.Env {
	env := sc.Env.Clone()
	env.Action = action
	return env
}

// Validate checks the scenario's environment
func (sc *Scenario) Validate() error {
	return engine.Validate(sc.NewEnv(func(string) {}))
}

// SessionInfo provides information about a robot session
type SessionInfo struct {
	ID             string        `json:"id"`
	ScenarioID     string        `json:"scenario_id"`
	CreatedAt      time.Time     `json:"created_at"`
	LastAccessedAt time.Time     `json:"last_accessed_at"`
	State          *engine.State `json:"state"`
	Scenario       *Scenario     `json:"scenario"`
}

// CallResult contains the result of a single operation
type CallResult struct {
	Op             string        `json:"op"`
	Kind           robot.OpKind  `json:"kind,omitempty"`
	Success        bool          `json:"success"`
	Value          *bool         `json:"value,omitempty"`
	From           engine.Cell   `json:"from"`
	To             engine.Cell   `json:"to"`
	State          *engine.State `json:"state"`
	Error          *engine.Error `json:"error,omitempty"`
	Message        string        `json:"message,omitempty"`
	Events         []ActionEvent `json:"events,omitempty"`
	FreeDirections []string      `json:"free_directions"`
}

// RunResult contains the result of a program of operations
type RunResult struct {
	// Summary
	OpsExecuted    int    `json:"ops_executed"`
	RequestedOps   int    `json:"requested_ops"`
	Success        bool   `json:"success"`
	Truncated      bool   `json:"truncated,omitempty"`
	Limit          int    `json:"limit,omitempty"`
	StoppedOnOp    int    `json:"stopped_on_op,omitempty"` // 1-based index of the failing op
	StopReasonCode string `json:"stop_reason_code,omitempty"`
	StoppedReason  string `json:"stopped_reason,omitempty"`

	// Start/end snapshot
	StartPos      engine.Cell `json:"start_pos"`
	EndPos        engine.Cell `json:"end_pos"`
	ActionsBefore int         `json:"actions_before"`
	ActionsAfter  int         `json:"actions_after"`
	PaintedDelta  int         `json:"painted_delta"`

	Steps          []robot.Step  `json:"steps"`
	Error          *engine.Error `json:"error,omitempty"`
	State          *engine.State `json:"state"`
	Events         []ActionEvent `json:"events,omitempty"`
	FreeDirections []string      `json:"free_directions"`
}

// ActionEvent is one notification received from the engine's Action callback
type ActionEvent struct {
	Seq          int         `json:"seq"`
	Action       string      `json:"action"`
	Position     engine.Cell `json:"position"`
	ActionNumber int         `json:"action_number"`
	Timestamp    time.Time   `json:"timestamp"`
}

// EventOptions configures event history retrieval
type EventOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// EventsResponse contains paginated event history
type EventsResponse struct {
	Events      []ActionEvent `json:"events"`
	TotalEvents int           `json:"total_events"`
	Retained    int           `json:"retained"`
	Page        int           `json:"page"`
	PageSize    int           `json:"page_size"`
	TotalPages  int           `json:"total_pages"`
	HasNext     bool          `json:"has_next"`
	HasPrevious bool          `json:"has_previous"`
}

// ScenarioInfo provides information about a scenario
type ScenarioInfo struct {
	Filename     string `json:"filename"`
	ScenarioID   string `json:"scenario_id"` // The identifier to use for session creation
	Name         string `json:"name"`
	Description  string `json:"description"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Walls        int    `json:"walls"`
	PaintedCells int    `json:"painted_cells"`
}
