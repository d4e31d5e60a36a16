// Command robotgrid runs the Robot Grid environment.
//
// It supports three commands:
//  1. "serve" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "mcp" – runs an MCP stdio server against a running API, or an internal one if none answers
//  3. "play" – runs a program of robot operations locally and prints the grid
//
// Flags control the action limit, scenario directory, host/port, debug logging
// and optional ngrok tunneling for easy external access during development.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/robotgrid/api"
	"github.com/wricardo/mcp-training/robotgrid/game/config"
	"github.com/wricardo/mcp-training/robotgrid/game/engine"
	"github.com/wricardo/mcp-training/robotgrid/game/robot"
	"github.com/wricardo/mcp-training/robotgrid/game/service"
	"github.com/wricardo/mcp-training/robotgrid/game/session"
	"github.com/wricardo/mcp-training/robotgrid/transport/mcp"
	"github.com/wricardo/mcp-training/robotgrid/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Robot Grid Server"
)

const (
	sessionMaxAge       = 24 * time.Hour
	sessionCleanupEvery = time.Hour
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp builds the command tree
func newApp() *cli.Command {
	return &cli.Command{
		Name:           "robotgrid",
		Usage:          AppName,
		Version:        Version,
		DefaultCommand: "serve",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.IntFlag{
				Name:    "actions-limit",
				Usage:   "Actions allowed per session before ActionLimitExceededError (0 disables the limit)",
				Value:   engine.DefaultActionLimit,
				Sources: cli.EnvVars("ROBOT_ACTIONS_LIMIT"),
			},
			&cli.StringFlag{
				Name:    "scenario-dir",
				Usage:   "Directory containing scenario files",
				Value:   "scenarios",
				Sources: cli.EnvVars("SCENARIO_DIR"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			} else {
				log.SetFlags(log.LstdFlags)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			serveCommand(),
			mcpCommand(),
			playCommand(),
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"server", "http"},
		Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Usage:   "HTTP server port",
				Value:   8080,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "host",
				Usage:   "HTTP server host",
				Value:   "localhost",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "Enable ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "Ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "Custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Action: runHTTPServer,
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:    "mcp",
		Aliases: []string{"stdio-mcp", "mcp-stdio"},
		Usage:   "Run MCP stdio server, with an internal HTTP API if none is available",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "REST API to proxy",
				Value:   "http://localhost:8080",
				Sources: cli.EnvVars("ROBOT_API_URL"),
			},
		},
		Action: runStdioMCP,
	}
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     "Run robot operations locally and print the grid",
		ArgsUsage: "OP [OP...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "scenario",
				Usage: "Scenario id from the scenario directory (default scenario when empty)",
			},
			&cli.StringFlag{
				Name:  "file",
				Usage: "Scenario file (.json, .yaml) to use instead of the scenario directory",
			},
		},
		Action: runPlay,
	}
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled, it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	robotService, sessions, err := initializeServices(cmd.String("scenario-dir"), cmd.Int("actions-limit"))
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	go sessionCleanupRoutine(ctx, sessions)

	hub := websocket.NewHub()
	go hub.Run(ctx)

	apiServer := api.NewServer(robotService, hub)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.Handle("/mcp", mcpHandler(mcpClient.GetMCPServer()))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Starting %s v%s", AppName, Version)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("HTTP server failed: %v", err)
			stop()
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), mainRouter)
		}()
	}

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
	return nil
}

// runNgrokTunnel serves handler through an ngrok tunnel until ctx is done
func runNgrokTunnel(ctx context.Context, authToken, domain string, handler http.Handler) {
	if authToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Printf("Using custom ngrok domain: %s", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}

	ngrokServer := &http.Server{Handler: handler}
	go func() {
		<-ctx.Done()
		ngrokServer.Close()
	}()

	ngrokURL := tun.URL()
	log.Printf("Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := ngrokServer.Serve(tun); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// mcpHandler serves single JSON-RPC messages over HTTP POST
func mcpHandler(mcpServer *server.MCPServer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpServer.HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})
}

// initializeServices wires the scenario and session managers into the robot service
func initializeServices(scenarioDir string, actionLimit int) (service.RobotService, *session.Manager, error) {
	scenarios, err := config.NewManager(scenarioDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create scenario manager: %w", err)
	}

	sessions := session.NewManager()
	return service.NewRobotService(sessions, scenarios, actionLimit), sessions, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within the retention window.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager) {
	ticker := time.NewTicker(sessionCleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(sessionMaxAge); removed > 0 {
				log.Printf("Cleaned up %d expired sessions", removed)
			}
		}
	}
}

// runStdioMCP runs an MCP stdio server.
// It reuses the API at --api-url when it answers; otherwise it starts an
// internal HTTP API bound to a random loopback port and targets that.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	baseURL := strings.TrimRight(cmd.String("api-url"), "/")
	log.Printf("Checking for external API server at %s...", baseURL)

	if apiAvailable(baseURL) {
		log.Printf("External API server found at %s, using it for MCP", baseURL)
	} else {
		log.Printf("No external API server found, starting internal HTTP server")

		robotService, sessions, err := initializeServices(cmd.String("scenario-dir"), cmd.Int("actions-limit"))
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		go sessionCleanupRoutine(ctx, sessions)

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		hub := websocket.NewHub()
		go hub.Run(ctx)

		httpServer := &http.Server{Handler: api.NewServer(robotService, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()
		defer httpServer.Close()

		baseURL = "http://" + listener.Addr().String()
		log.Printf("Internal HTTP server on %s for MCP stdio", listener.Addr())
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Println("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// apiAvailable reports whether a robot API answers at baseURL
func apiAvailable(baseURL string) bool {
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runPlay runs a program against a local engine and prints a trace and the final grid
func runPlay(ctx context.Context, cmd *cli.Command) error {
	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}

	scenario, err := loadPlayScenario(cmd)
	if err != nil {
		return err
	}

	ops := api.ParseProgram(strings.Join(cmd.Args().Slice(), " "))
	if len(ops) == 0 {
		return fmt.Errorf("no operations given, see 'robotgrid play --help'")
	}

	debug := cmd.Bool("debug")
	env := scenario.NewEnv(func(name string) {
		if debug {
			log.Printf("[ACTION] %s", name)
		}
	})
	eng, err := engine.New(env, engine.WithActionLimit(cmd.Int("actions-limit")))
	if err != nil {
		return err
	}

	steps, runErr := robot.New(eng).Exec(ops)
	for _, step := range steps {
		line := fmt.Sprintf("%3d. %-17s", step.Idx, step.Op)
		switch {
		case !step.Success:
			line += " FAILED: " + step.ErrorMsg
		case step.Value != nil:
			line += fmt.Sprintf(" %t", *step.Value)
		default:
			line += fmt.Sprintf(" (%d,%d)", step.To.Row, step.To.Col)
		}
		fmt.Fprintln(out, strings.TrimRight(line, " "))
	}

	fmt.Fprint(out, robot.Render(eng.State(), scenario.Walls))
	fmt.Fprintf(out, "Actions: %d\n", eng.ActionsDone())

	if runErr != nil {
		return fmt.Errorf("program stopped at op %d: %w", len(steps), runErr)
	}
	return nil
}

func loadPlayScenario(cmd *cli.Command) (*service.Scenario, error) {
	if path := cmd.String("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read scenario file: %w", err)
		}
		return config.ParseScenario(data, config.FormatFromFilename(path))
	}

	scenarios, err := config.NewManager(cmd.String("scenario-dir"))
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario manager: %w", err)
	}
	if name := cmd.String("scenario"); name != "" {
		return scenarios.LoadScenario(name)
	}
	return scenarios.GetDefault(), nil
}
