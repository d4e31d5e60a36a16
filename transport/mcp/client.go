package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mcp-training/robotgrid/game/robot"
	"github.com/wricardo/mcp-training/robotgrid/game/service"
)

// Client is a thin MCP server that proxies every tool to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API at baseURL
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Robot Grid",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Robot Grid - MCP Interface

A robot stands on a rectangular grid. Walls may sit between neighbouring
cells and the grid edge is a wall. Some cells start painted.

AVAILABLE TOOLS:
- create_session: Start a session on a scenario
- list_sessions: List active sessions
- list_scenarios: List available scenarios
- robot_state: Map and counters of a session
- robot_call: Run one operation (right, paint, wall_from_up, ...)
- robot_run: Run a program of operations, stops at the first failure
- reset_env: Put the robot back at the start
- robot_events: Recent actions of a session
- robot_operations: List every operation and what it returns

Walking into a wall or off the grid crashes the robot; after a crash every
action fails until reset_env. Runs are limited in the number of actions.`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func resetProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "boolean",
		"description": "Reset the environment first",
	}
}

func (c *Client) registerTools() {
	opNames := make([]string, 0, len(robot.Operations()))
	for _, op := range robot.Operations() {
		opNames = append(opNames, op.Name)
	}

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new robot session with optional scenario selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"scenario_id": map[string]interface{}{
					"type":        "string",
					"description": "Scenario to use (optional, see list_scenarios)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active robot sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_scenarios",
		Description: "List available scenarios",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListScenarios)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "robot_state",
		Description: "Show the grid, robot position, painted cells and action count",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "robot_call",
		Description: "Run a single robot operation",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"op": map[string]interface{}{
					"type":        "string",
					"enum":        opNames,
					"description": "Operation to run",
				},
				"reset": resetProperty(),
			},
			Required: []string{"session_id", "op"},
		},
	}, c.handleCall)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "robot_run",
		Description: "Run a program of operations in order, stopping at the first failure",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"ops": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": opNames,
					},
					"description": "Operations to run",
				},
				"program": map[string]interface{}{
					"type":        "string",
					"description": "Operations separated by spaces or commas, appended after ops",
				},
				"reset": resetProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleRun)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_env",
		Description: "Reset the robot, paint and action count to the scenario's start",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "robot_events",
		Description: "Show recent actions of a session, newest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "number",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Events per page (default 20, max 100)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleEvents)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "robot_operations",
		Description: "List every robot operation and whether it is an action, a query or a control",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleOperations)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiCall performs a REST request. Responses of 400 and above become errors,
// using the "error" field when the body has one.
func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		switch e := errResp["error"].(type) {
		case string:
			return fmt.Errorf("%s", e)
		case map[string]interface{}:
			if msg, ok := e["message"].(string); ok {
				return fmt.Errorf("%v: %s", e["kind"], msg)
			}
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		args = map[string]interface{}{}
	}
	return args
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	body := map[string]interface{}{}
	if scenarioID, ok := args["scenario_id"].(string); ok && scenarioID != "" {
		body["scenario_id"] = scenarioID
	}

	var info service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&info)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                    `json:"count"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if response.Count == 0 {
		return mcp.NewToolResultText("No active sessions"), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active sessions: %d\n", response.Count)
	for _, s := range response.Sessions {
		line := fmt.Sprintf("- %s (scenario: %s)", s.ID, s.ScenarioID)
		if s.State != nil {
			line += fmt.Sprintf(" at (%d,%d), actions %d", s.State.Position.Row, s.State.Position.Col, s.State.ActionsDone)
		}
		b.WriteString(line + "\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleListScenarios(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var scenarios []*service.ScenarioInfo
	if err := c.apiCall(ctx, "GET", "/api/scenarios", nil, &scenarios); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(scenarios) == 0 {
		return mcp.NewToolResultText("No scenarios available, the built-in default is used"), nil
	}

	var b strings.Builder
	b.WriteString("Available scenarios:\n")
	for _, sc := range scenarios {
		fmt.Fprintf(&b, "- %s: %s (%dx%d, %d walls, %d painted)",
			sc.ScenarioID, sc.Name, sc.Width, sc.Height, sc.Walls, sc.PaintedCells)
		if sc.Description != "" {
			b.WriteString(" - " + sc.Description)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var info service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&info)), nil
}

func (c *Client) handleCall(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	op, _ := args["op"].(string)
	reset, _ := args["reset"].(bool)

	body := map[string]interface{}{
		"op":    op,
		"reset": reset,
	}

	var result service.CallResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/call"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCallResult(&result)), nil
}

func (c *Client) handleRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	program, _ := args["program"].(string)
	reset, _ := args["reset"].(bool)

	var ops []string
	if raw, ok := args["ops"].([]interface{}); ok {
		for _, v := range raw {
			if s, ok := v.(string); ok {
				ops = append(ops, s)
			}
		}
	}

	body := map[string]interface{}{
		"ops":     ops,
		"program": program,
		"reset":   reset,
	}

	var result service.RunResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/run"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRunResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message string `json:"message"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var info service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &info); err != nil {
		return mcp.NewToolResultText(response.Message), nil
	}
	return mcp.NewToolResultText(response.Message + "\n" + formatSessionInfo(&info)), nil
}

func (c *Client) handleEvents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	query := url.Values{}
	if page, ok := args["page"].(float64); ok {
		query.Set("page", fmt.Sprintf("%d", int(page)))
	}
	if limit, ok := args["limit"].(float64); ok {
		query.Set("limit", fmt.Sprintf("%d", int(limit)))
	}

	path := sessionPath(sessionID, "/events")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var events service.EventsResponse
	if err := c.apiCall(ctx, "GET", path, nil, &events); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatEvents(&events)), nil
}

func (c *Client) handleOperations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var ops []robot.Operation
	if err := c.apiCall(ctx, "GET", "/api/operations", nil, &ops); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Operations (no arguments):\n")
	for _, op := range ops {
		fmt.Fprintf(&b, "- %s (%s)\n", op.Name, op.Kind)
	}
	return mcp.NewToolResultText(b.String()), nil
}
