// Command painter plays a Robot Grid session over the REST API. It explores
// the grid blind, using only the robot's own wall and paint queries, and
// paints every cell it can reach.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/robotgrid/game/engine"
	"github.com/wricardo/mcp-training/robotgrid/game/service"
)

// Client talks to one session of the REST API
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
	delay     time.Duration
}

// NewClient creates a client for the API at baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CreateSession starts a session on scenarioID (the server default when empty)
func (c *Client) CreateSession(scenarioID string) (*service.SessionInfo, error) {
	reqBody, err := json.Marshal(map[string]string{"scenario_id": scenarioID})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.client.Post(c.baseURL+"/api/sessions", "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("create session failed: %s - %s", resp.Status, string(body))
	}

	var info service.SessionInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("parse session response: %w", err)
	}

	c.sessionID = info.ID
	return &info, nil
}

// GetSession fetches the current session
func (c *Client) GetSession() (*service.SessionInfo, error) {
	resp, err := c.client.Get(fmt.Sprintf("%s/api/sessions/%s", c.baseURL, c.sessionID))
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get session failed: %s", resp.Status)
	}

	var info service.SessionInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	return &info, nil
}

// Reset restores the scenario's start
func (c *Client) Reset() (*engine.State, error) {
	resp, err := c.client.Post(fmt.Sprintf("%s/api/sessions/%s/reset", c.baseURL, c.sessionID), "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	defer resp.Body.Close()

	var resetResp struct {
		Message string        `json:"message"`
		State   *engine.State `json:"state"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&resetResp); err != nil {
		return nil, fmt.Errorf("parse reset response: %w", err)
	}
	return resetResp.State, nil
}

// Call runs one operation. Engine failures come back as *engine.Error.
func (c *Client) Call(op string) (*service.CallResult, error) {
	body, err := json.Marshal(map[string]string{"op": op})
	if err != nil {
		return nil, fmt.Errorf("marshal call: %w", err)
	}

	resp, err := c.client.Post(fmt.Sprintf("%s/api/sessions/%s/call", c.baseURL, c.sessionID), "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", op, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	var result service.CallResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parse call response: %w", err)
	}
	if result.Error != nil {
		return &result, result.Error
	}
	if resp.StatusCode >= 400 {
		return &result, fmt.Errorf("call %s failed: %s - %s", op, resp.Status, string(data))
	}

	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	return &result, nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "painter",
		Usage: "Paint every reachable cell of a Robot Grid session",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Usage:   "Robot Grid server URL",
				Value:   "http://localhost:8080",
				Sources: cli.EnvVars("ROBOT_API_URL"),
			},
			&cli.StringFlag{
				Name:  "scenario",
				Usage: "Scenario id (server default when empty)",
			},
			&cli.StringFlag{
				Name:  "continue",
				Usage: "Resume an existing session by ID",
			},
			&cli.DurationFlag{
				Name:  "delay",
				Usage: "Delay between operations, useful when watching over WebSocket",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Verbose output",
			},
		},
		Action: run,
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	log.Printf("Connecting to robot server at %s", cmd.String("url"))
	client := NewClient(cmd.String("url"))
	client.delay = cmd.Duration("delay")

	if id := cmd.String("continue"); id != "" {
		client.sessionID = id
		if _, err := client.GetSession(); err != nil {
			return fmt.Errorf("failed to resume session %s: %w", id, err)
		}
		log.Printf("Resuming session: %s", id)
	} else {
		info, err := client.CreateSession(cmd.String("scenario"))
		if err != nil {
			return err
		}
		log.Printf("Session created: %s (scenario %s)", info.ID, info.ScenarioID)
	}

	state, err := client.Reset()
	if err != nil {
		return fmt.Errorf("failed to reset: %w", err)
	}
	log.Printf("Start (%d,%d) on a %dx%d grid, %d cells painted",
		state.Position.Row, state.Position.Col, state.Width, state.Height, len(state.PaintedCells))

	painter := NewPainter(client, state.Position)
	painter.verbose = cmd.Bool("verbose")

	stats, err := painter.Sweep()
	log.Printf("Visited %d cells, painted %d, %d moves, %d queries", stats.Visited, stats.Painted, stats.Moves, stats.Queries)
	if err != nil {
		return fmt.Errorf("sweep stopped: %w", err)
	}

	log.Printf("All reachable cells painted. Session: %s", client.sessionID)
	return nil
}
