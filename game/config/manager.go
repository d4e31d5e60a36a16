package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/wricardo/mcp-training/robotgrid/game/engine"
	"github.com/wricardo/mcp-training/robotgrid/game/service"
)

var (
	ErrScenarioNotFound = service.ErrScenarioNotFound
	ErrInvalidScenario  = errors.New("invalid scenario")
	ErrInvalidName      = errors.New("invalid scenario name")
)

// DefaultScenarioID is tried first when picking the default scenario
const DefaultScenarioID = "classic"

// extensions are tried in order when a scenario name has no extension
var extensions = []string{".json", ".yaml", ".yml"}

// Manager handles scenario loading and caching
type Manager struct {
	scenarioDir     string
	defaultScenario *service.Scenario
	scenarios       map[string]*service.Scenario
	mu              sync.RWMutex
}

// NewManager creates a new scenario manager reading from scenarioDir
func NewManager(scenarioDir string) (*Manager, error) {
	if _, err := os.Stat(scenarioDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("scenario directory does not exist: %s", scenarioDir)
	}

	m := &Manager{
		scenarioDir: scenarioDir,
		scenarios:   make(map[string]*service.Scenario),
	}

	m.loadDefaultScenario()
	return m, nil
}

// LoadScenario loads a scenario by ID, with or without extension
func (m *Manager) LoadScenario(name string) (*service.Scenario, error) {
	id := scenarioID(name)
	if err := checkName(id); err != nil {
		return nil, err
	}

	m.mu.RLock()
	if sc, exists := m.scenarios[id]; exists {
		m.mu.RUnlock()
		return sc, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if sc, exists := m.scenarios[id]; exists {
		return sc, nil
	}

	candidates := extensions
	if FormatFromFilename(name) != "" {
		candidates = []string{filepath.Ext(name)}
	}

	for _, ext := range candidates {
		path := filepath.Join(m.scenarioDir, id+ext)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read scenario file: %w", err)
		}

		sc, err := ParseScenario(data, FormatFromFilename(path))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		if sc.Name == "" {
			sc.Name = id
		}

		m.scenarios[id] = sc
		return sc, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrScenarioNotFound, id)
}

// ListScenarios returns information about every loadable scenario file.
// Invalid files are skipped.
func (m *Manager) ListScenarios() ([]*service.ScenarioInfo, error) {
	entries, err := os.ReadDir(m.scenarioDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	scenarios := []*service.ScenarioInfo{}
	seen := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() || FormatFromFilename(entry.Name()) == "" {
			continue
		}

		id := scenarioID(entry.Name())
		if seen[id] {
			continue
		}

		sc, err := m.LoadScenario(id)
		if err != nil {
			continue
		}
		seen[id] = true

		scenarios = append(scenarios, &service.ScenarioInfo{
			Filename:     entry.Name(),
			ScenarioID:   id,
			Name:         sc.Name,
			Description:  sc.Description,
			Width:        sc.Width,
			Height:       sc.Height,
			Walls:        len(sc.Walls),
			PaintedCells: len(sc.PaintedCells),
		})
	}

	return scenarios, nil
}

// GetDefault returns the default scenario
func (m *Manager) GetDefault() *service.Scenario {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultScenario
}

// SetDefault sets the default scenario by ID
func (m *Manager) SetDefault(name string) error {
	sc, err := m.LoadScenario(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultScenario = sc
	return nil
}

// RefreshCache drops cached scenarios and re-picks the default
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.scenarios = make(map[string]*service.Scenario)
	m.mu.Unlock()

	m.loadDefaultScenario()
}

// SaveScenario validates a scenario and writes it as JSON
func (m *Manager) SaveScenario(name string, sc *service.Scenario) error {
	id := scenarioID(name)
	if err := checkName(id); err != nil {
		return err
	}
	if sc == nil {
		return fmt.Errorf("%w: scenario is nil", ErrInvalidScenario)
	}
	if err := sc.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}

	// Clone turns nil walls and painted cells into empty arrays the schema accepts.
	saved := &service.Scenario{Name: sc.Name, Description: sc.Description, Env: *sc.Env.Clone()}
	saved.Action = nil

	data, err := json.MarshalIndent(saved, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scenario: %w", err)
	}

	path := filepath.Join(m.scenarioDir, id+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write scenario file: %w", err)
	}

	m.mu.Lock()
	m.scenarios[id] = saved
	m.mu.Unlock()

	return nil
}

// loadDefaultScenario picks classic, then the first valid file, then a built-in scenario
func (m *Manager) loadDefaultScenario() {
	sc, err := m.LoadScenario(DefaultScenarioID)
	if err != nil {
		sc = nil
		if list, listErr := m.ListScenarios(); listErr == nil && len(list) > 0 {
			sc, _ = m.LoadScenario(list[0].ScenarioID)
		}
	}
	if sc == nil {
		sc = builtinScenario()
	}

	m.mu.Lock()
	m.defaultScenario = sc
	m.mu.Unlock()
}

// builtinScenario is used when the directory holds no valid scenario
func builtinScenario() *service.Scenario {
	return &service.Scenario{
		Name:        "default",
		Description: "Built-in 3x2 grid",
		Env:         *engine.DefaultEnv(),
	}
}

func scenarioID(name string) string {
	if FormatFromFilename(name) != "" {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}

func checkName(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, id)
	}
	return nil
}
