package service

import (
	"context"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/robotgrid/game/engine"
	"github.com/wricardo/mcp-training/robotgrid/game/robot"
)

// RobotService defines all robot-related operations
type RobotService interface {
	// Session Management
	CreateSession(ctx context.Context, scenarioName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Robot Operations
	Call(ctx context.Context, sessionID, op string, reset bool) (*CallResult, error)
	Run(ctx context.Context, sessionID string, ops []string, reset bool) (*RunResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.State, error)

	// Robot State
	GetState(ctx context.Context, sessionID string) (*engine.State, error)
	GetEvents(ctx context.Context, sessionID string, opts EventOptions) (*EventsResponse, error)

	// Scenarios
	ListScenarios(ctx context.Context) ([]*ScenarioInfo, error)
	LoadScenario(ctx context.Context, name string) (*Scenario, error)
	SaveScenario(ctx context.Context, name string, scenario *Scenario) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, scenarioID string, scenario *Scenario, opts ...engine.Option) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ScenarioManager handles scenario loading
type ScenarioManager interface {
	LoadScenario(name string) (*Scenario, error)
	ListScenarios() ([]*ScenarioInfo, error)
	GetDefault() *Scenario
	SaveScenario(name string, scenario *Scenario) error
}

// MaxEvents bounds the per-session event history
const MaxEvents = 1000

// Session represents an active robot session
type Session struct {
	ID             string
	ScenarioID     string
	Scenario       *Scenario
	Engine         *engine.Engine
	Module         *robot.Module
	CreatedAt      time.Time
	LastAccessedAt time.Time

	mu          sync.Mutex
	events      []ActionEvent
	totalEvents int
}

// RecordAction appends an action event. It is installed as the engine's
// Action callback and only records; it never calls into the engine's
// mutating operations.
func (s *Session) RecordAction(name string) {
	ev := ActionEvent{
		Action:    name,
		Timestamp: time.Now(),
	}
	if s.Engine != nil {
		ev.Position = s.Engine.Position()
		ev.ActionNumber = s.Engine.ActionsDone() + 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalEvents++
	ev.Seq = s.totalEvents
	s.events = append(s.events, ev)
	if len(s.events) > MaxEvents {
		s.events = s.events[len(s.events)-MaxEvents:]
	}
}

// Events returns a copy of the retained events
func (s *Session) Events() []ActionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ActionEvent(nil), s.events...)
}

// EventsSince returns events with Seq greater than seq
func (s *Session) EventsSince(seq int) []ActionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []ActionEvent
	for _, ev := range s.events {
		if ev.Seq > seq {
			out = append(out, ev)
		}
	}
	return out
}

// TotalEvents returns the number of events ever recorded
func (s *Session) TotalEvents() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalEvents
}
