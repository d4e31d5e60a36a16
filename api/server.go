package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/wricardo/mcp-training/robotgrid/game/config"
	"github.com/wricardo/mcp-training/robotgrid/game/engine"
	"github.com/wricardo/mcp-training/robotgrid/game/robot"
	"github.com/wricardo/mcp-training/robotgrid/game/service"
	"github.com/wricardo/mcp-training/robotgrid/game/session"
	"github.com/wricardo/mcp-training/robotgrid/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.RobotService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server. hub may be nil.
func NewServer(robotService service.RobotService, hub *websocket.Hub) *Server {
	s := &Server{
		service: robotService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	if hub != nil {
		hub.OnCommand(s.handleCommand)
	}

	s.setupRoutes()
	return s
}

// Router exposes the underlying router so callers can mount extra handlers
func (s *Server) Router() *mux.Router {
	return s.router
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Sessions
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Robot operations
	api.HandleFunc("/sessions/{id}/state", s.handleGetState).Methods("GET")
	api.HandleFunc("/sessions/{id}/call", s.handleCall).Methods("POST")
	api.HandleFunc("/sessions/{id}/run", s.handleRun).Methods("POST")
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods("POST")
	api.HandleFunc("/sessions/{id}/events", s.handleGetEvents).Methods("GET")

	// Scenarios
	api.HandleFunc("/scenarios", s.handleListScenarios).Methods("GET")
	api.HandleFunc("/scenarios", s.handleCreateScenario).Methods("POST")
	api.HandleFunc("/scenarios/{name}", s.handleGetScenario).Methods("GET")

	api.HandleFunc("/operations", s.handleOperations).Methods("GET")

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{"error": message, "code": status})
}

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, config.ErrScenarioNotFound),
		errors.Is(err, service.ErrScenarioLookup):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrValidation),
		errors.Is(err, config.ErrInvalidScenario),
		errors.Is(err, config.ErrInvalidName),
		errors.Is(err, session.ErrInvalidScenario):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id,omitempty"`
	}

	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	info, err := s.service.CreateSession(r.Context(), req.ScenarioID)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	log.Printf("[SESSION] created id=%s scenario=%s", info.ID, info.ScenarioID)
	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort") // "created", "accessed" (default)
	order := query.Get("order") // "asc", "desc" (default)

	if sortBy != "created" {
		sortBy = "accessed"
	}
	if order != "asc" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}
		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
	if l, err := strconv.Atoi(query.Get("limit")); err == nil && l > 0 && l < total {
		sessions = sessions[:l]
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	info, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(sessionID, websocket.EventDeleted, nil)
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Robot Handlers

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.GetState(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Op    string `json:"op"`
		Reset bool   `json:"reset,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Op == "" {
		respondError(w, http.StatusBadRequest, "op is required")
		return
	}

	result, err := s.call(r.Context(), sessionID, req.Op, req.Reset)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	status := http.StatusOK
	if result.Error != nil && result.Error.Kind == engine.KindBadCall {
		status = http.StatusBadRequest
	}
	respondJSON(w, status, result)
}

// call runs one operation, then logs and broadcasts the outcome
func (s *Server) call(ctx context.Context, sessionID, op string, reset bool) (*service.CallResult, error) {
	result, err := s.service.Call(ctx, sessionID, op, reset)
	if err != nil {
		return nil, err
	}

	status := "OK"
	if !result.Success {
		status = "FAIL"
	}
	actions := 0
	if result.State != nil {
		actions = result.State.ActionsDone
	}
	log.Printf("[CALL] session=%s op=%s (%d,%d)->(%d,%d) actions=%d status=%s",
		sessionID, op, result.From.Row, result.From.Col, result.To.Row, result.To.Col,
		actions, status)

	s.broadcast(sessionID, result.Events, result.State)
	return result, nil
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Ops     []string `json:"ops"`
		Program string   `json:"program,omitempty"` // "right right paint" or "right,paint"
		Reset   bool     `json:"reset,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ops := append(req.Ops, ParseProgram(req.Program)...)
	if len(ops) == 0 {
		respondError(w, http.StatusBadRequest, "ops or program is required")
		return
	}

	result, err := s.service.Run(r.Context(), sessionID, ops, req.Reset)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	stop := result.StopReasonCode
	if stop == "" {
		stop = "none"
	}
	log.Printf("[RUN] session=%s exec=%d/%d stop=%s end=(%d,%d) actions=%d painted+=%d",
		sessionID, result.OpsExecuted, result.RequestedOps, stop,
		result.EndPos.Row, result.EndPos.Col, result.ActionsAfter, result.PaintedDelta)

	s.broadcast(sessionID, result.Events, result.State)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.Reset(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	s.broadcast(sessionID, nil, state)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Environment reset",
		"state":   state,
	})
}

func (s *Server) handleGetEvents(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	opts := service.EventOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	query := r.URL.Query()
	if p, err := strconv.Atoi(query.Get("page")); err == nil && p > 0 {
		opts.Page = p
	}
	if l, err := strconv.Atoi(query.Get("limit")); err == nil && l > 0 {
		opts.Limit = l
	}
	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	events, err := s.service.GetEvents(r.Context(), sessionID, opts)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, events)
}

// Scenario Handlers

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := s.service.ListScenarios(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, scenarios)
}

func (s *Server) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	scenario, err := s.service.LoadScenario(r.Context(), name)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, scenario)
}

func (s *Server) handleCreateScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
		service.Scenario
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ID == "" {
		respondError(w, http.StatusBadRequest, "Scenario id is required")
		return
	}

	if err := s.service.SaveScenario(r.Context(), req.ID, &req.Scenario); err != nil {
		respondError(w, statusFor(err), fmt.Sprintf("Failed to save scenario: %v", err))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Scenario saved successfully",
		"scenario_id": req.ID,
	})
}

func (s *Server) handleOperations(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, robot.Operations())
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "websocket disabled", http.StatusServiceUnavailable)
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	state, err := s.service.GetState(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, sessionID)
	s.hub.BroadcastState(sessionID, state)
}

// handleCommand runs an operation sent by a WebSocket client
func (s *Server) handleCommand(sessionID string, cmd websocket.Command) {
	result, err := s.call(context.Background(), sessionID, cmd.Op, cmd.Reset)
	if err != nil {
		s.hub.BroadcastEvent(sessionID, websocket.EventError, map[string]string{"error": err.Error()})
		return
	}
	s.hub.BroadcastEvent(sessionID, websocket.EventResult, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// broadcast pushes action events and the resulting state to WebSocket clients
func (s *Server) broadcast(sessionID string, events []service.ActionEvent, state *engine.State) {
	if s.hub == nil {
		return
	}
	for _, ev := range events {
		s.hub.BroadcastEvent(sessionID, websocket.EventAction, ev)
	}
	if state != nil {
		s.hub.BroadcastState(sessionID, state)
	}
}

// ParseProgram splits a program written as operation names separated by
// whitespace, commas or semicolons. A '#' starts a comment that runs to the
// end of its line.
func ParseProgram(program string) []string {
	var ops []string
	for _, line := range strings.Split(program, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		ops = append(ops, strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\r'
		})...)
	}
	return ops
}
