package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wricardo/mcp-training/robotgrid/game/engine"
	"github.com/wricardo/mcp-training/robotgrid/game/robot"
)

var (
	// ErrScenarioNotFound is wrapped by ScenarioManager implementations when no scenario has the name
	ErrScenarioNotFound = errors.New("scenario not found")
	// ErrScenarioLookup wraps failures to resolve a scenario for a new session
	ErrScenarioLookup = errors.New("scenario lookup failed")
)

// robotServiceImpl implements the RobotService interface
type robotServiceImpl struct {
	sessions    SessionManager
	scenarios   ScenarioManager
	actionLimit int
	mu          sync.RWMutex
}

// NewRobotService creates a new robot service instance.
// actionLimit is handed to every engine it creates; 0 disables the budget.
func NewRobotService(sessions SessionManager, scenarios ScenarioManager, actionLimit int) RobotService {
	return &robotServiceImpl{
		sessions:    sessions,
		scenarios:   scenarios,
		actionLimit: actionLimit,
	}
}

// CreateSession creates a new robot session
func (s *robotServiceImpl) CreateSession(ctx context.Context, scenarioName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var scenario *Scenario
	var err error
	scenarioID := scenarioName
	if scenarioName != "" {
		scenario, err = s.scenarios.LoadScenario(scenarioName)
		if err != nil {
			// Provide helpful error message with available options
			if errors.Is(err, ErrScenarioNotFound) {
				available, listErr := s.scenarios.ListScenarios()
				if listErr == nil && len(available) > 0 {
					var ids []string
					for _, sc := range available {
						ids = append(ids, sc.ScenarioID)
					}
					return nil, fmt.Errorf("%w: scenario '%s' not found. Available scenarios: %v", ErrScenarioLookup, scenarioName, ids)
				}
				return nil, fmt.Errorf("%w: scenario '%s' not found. Use /api/scenarios to list available scenarios", ErrScenarioLookup, scenarioName)
			}
			return nil, fmt.Errorf("%w: failed to load scenario %s: %v", ErrScenarioLookup, scenarioName, err)
		}
	} else {
		scenario = s.scenarios.GetDefault()
		scenarioID = s.getScenarioID(scenario.Name)
	}

	session, err := s.sessions.Create("", scenarioID, scenario, engine.WithActionLimit(s.actionLimit))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return sessionInfo(session), nil
}

// GetSession retrieves session information
func (s *robotServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *robotServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *robotServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Call executes a single operation for a session
func (s *robotServiceImpl) Call(ctx context.Context, sessionID, op string, reset bool) (*CallResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if reset {
		sess.Engine.ResetEnv()
	}

	seq := sess.TotalEvents()
	from := sess.Engine.Position()
	res, callErr := sess.Module.Call(op)

	result := &CallResult{
		Op:             op,
		Success:        callErr == nil,
		Value:          res.Value,
		From:           from,
		To:             sess.Engine.Position(),
		Events:         sess.EventsSince(seq),
		FreeDirections: freeDirections(sess.Engine),
	}
	if o, ok := robot.Lookup(op); ok {
		result.Kind = o.Kind
	}
	state := sess.Engine.State()
	result.State = &state

	if callErr != nil {
		var engErr *engine.Error
		if !errors.As(callErr, &engErr) {
			return nil, callErr
		}
		result.Error = engErr
		result.Message = crashMessage(engErr)
		return result, nil
	}

	switch {
	case result.Value != nil:
		result.Message = fmt.Sprintf("%s: %t", op, *result.Value)
	case op == robot.OpResetEnv:
		result.Message = "Environment reset"
	default:
		result.Message = fmt.Sprintf("%s done at (%d,%d), actions %d", op, result.To.Row, result.To.Col, state.ActionsDone)
	}
	return result, nil
}

// Run executes a program of operations, stopping at the first failure
func (s *robotServiceImpl) Run(ctx context.Context, sessionID string, ops []string, reset bool) (*RunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if reset {
		sess.Engine.ResetEnv()
	}

	result := &RunResult{
		RequestedOps:  len(ops),
		Success:       true,
		StartPos:      sess.Engine.Position(),
		ActionsBefore: sess.Engine.ActionsDone(),
	}
	paintedBefore := len(sess.Engine.PaintedCells())

	if len(ops) > MaxRunOps {
		result.Truncated = true
		result.Limit = MaxRunOps
		ops = ops[:MaxRunOps]
	}

	seq := sess.TotalEvents()
	steps, runErr := sess.Module.Exec(ops)
	result.Steps = steps
	result.OpsExecuted = len(steps)

	if runErr != nil {
		result.Success = false
		result.OpsExecuted = len(steps) - 1
		result.StoppedOnOp = len(steps)
		var engErr *engine.Error
		if errors.As(runErr, &engErr) {
			result.Error = engErr
			result.StopReasonCode = stopReasonCode(engErr)
			result.StoppedReason = fmt.Sprintf("op %d (%s): %s", len(steps), steps[len(steps)-1].Op, crashMessage(engErr))
		} else {
			result.StopReasonCode = "error"
			result.StoppedReason = runErr.Error()
		}
	}

	state := sess.Engine.State()
	result.State = &state
	result.EndPos = state.Position
	result.ActionsAfter = state.ActionsDone
	result.PaintedDelta = len(state.PaintedCells) - paintedBefore
	result.Events = sess.EventsSince(seq)
	result.FreeDirections = freeDirections(sess.Engine)

	return result, nil
}

// Reset rebuilds a session's live state from its scenario
func (s *robotServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	sess.Engine.ResetEnv()
	state := sess.Engine.State()
	return &state, nil
}

// GetState retrieves the current live state
func (s *robotServiceImpl) GetState(ctx context.Context, sessionID string) (*engine.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	state := sess.Engine.State()
	return &state, nil
}

// GetEvents returns paginated action events
func (s *robotServiceImpl) GetEvents(ctx context.Context, sessionID string, opts EventOptions) (*EventsResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	events := sess.Events()
	total := len(events)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var page []ActionEvent
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			page = append(page, events[i])
		}
	} else if start < total {
		page = events[start:end]
	}
	if page == nil {
		page = []ActionEvent{}
	}

	return &EventsResponse{
		Events:      page,
		TotalEvents: sess.TotalEvents(),
		Retained:    total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListScenarios returns available scenarios
func (s *robotServiceImpl) ListScenarios(ctx context.Context) ([]*ScenarioInfo, error) {
	return s.scenarios.ListScenarios()
}

// LoadScenario loads a specific scenario
func (s *robotServiceImpl) LoadScenario(ctx context.Context, name string) (*Scenario, error) {
	return s.scenarios.LoadScenario(name)
}

// SaveScenario stores a scenario
func (s *robotServiceImpl) SaveScenario(ctx context.Context, name string, scenario *Scenario) error {
	return s.scenarios.SaveScenario(name, scenario)
}

// getScenarioID returns the scenario_id for a display name
func (s *robotServiceImpl) getScenarioID(name string) string {
	available, err := s.scenarios.ListScenarios()
	if err == nil {
		for _, sc := range available {
			if sc.Name == name {
				return sc.ScenarioID
			}
		}
	}
	if name == "" {
		return "default"
	}
	return name
}

func sessionInfo(sess *Session) *SessionInfo {
	state := sess.Engine.State()
	return &SessionInfo{
		ID:             sess.ID,
		ScenarioID:     sess.ScenarioID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		State:          &state,
		Scenario:       sess.Scenario,
	}
}

func freeDirections(e *engine.Engine) []string {
	free := []string{}
	for _, d := range engine.Directions {
		if e.FreeFrom(d) {
			free = append(free, string(d))
		}
	}
	return free
}

// crashMessage renders an engine failure the way a learner should read it
func crashMessage(err *engine.Error) string {
	switch err.Kind {
	case engine.KindIllegalMove:
		return fmt.Sprintf("The robot crashed: %s (%s)", err.Msg, err.Op)
	case engine.KindActionLimit:
		return "The program ran too long: too many actions"
	default:
		return err.Error()
	}
}

// stopReasonCode gives a machine-friendly stop code:
// illegal_move|action_limit|bad_call|invalid_environment
func stopReasonCode(err *engine.Error) string {
	switch err.Kind {
	case engine.KindIllegalMove:
		return "illegal_move"
	case engine.KindActionLimit:
		return "action_limit"
	case engine.KindBadCall:
		return "bad_call"
	case engine.KindValidation:
		return "invalid_environment"
	}
	return "error"
}
