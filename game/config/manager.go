package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/wricardo/box-puzzle/game/engine"
	"github.com/wricardo/box-puzzle/game/service"
)

// DefaultPuzzle is served when a session is created without a puzzle name
const DefaultPuzzle = "starter"

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Manager handles puzzle loading and caching. Files in the config directory
// take precedence over built-in presets of the same name.
type Manager struct {
	configDir     string
	defaultConfig *engine.PuzzleConfig
	configs       map[string]*engine.PuzzleConfig
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager. An empty configDir serves
// the built-in presets only.
func NewManager(configDir string) (*Manager, error) {
	if configDir != "" {
		if _, err := os.Stat(configDir); os.IsNotExist(err) {
			return nil, fmt.Errorf("config directory does not exist: %s", configDir)
		}
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.PuzzleConfig),
	}

	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}
	return m, nil
}

// LoadConfig loads a puzzle by name
func (m *Manager) LoadConfig(name string) (*engine.PuzzleConfig, error) {
	name = strings.TrimSuffix(name, ".json")

	m.mu.RLock()
	if config, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadLocked(name)
}

func (m *Manager) loadLocked(name string) (*engine.PuzzleConfig, error) {
	// Double-check after acquiring write lock
	if config, exists := m.configs[name]; exists {
		return config, nil
	}

	config, err := m.readFile(name)
	if errors.Is(err, ErrConfigNotFound) {
		config, err = engine.Preset(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, name)
		}
	}
	if err != nil {
		return nil, err
	}

	m.configs[name] = config
	return config, nil
}

func (m *Manager) readFile(name string) (*engine.PuzzleConfig, error) {
	if m.configDir == "" {
		return nil, ErrConfigNotFound
	}

	data, err := os.ReadFile(filepath.Join(m.configDir, name+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := engine.ParsePuzzleConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, name, err)
	}
	return config, nil
}

// ListConfigs returns the catalog: every valid puzzle file followed by the
// presets not shadowed by a file
func (m *Manager) ListConfigs() ([]*service.PuzzleInfo, error) {
	var infos []*service.PuzzleInfo
	seen := make(map[string]bool)

	if m.configDir != "" {
		entries, err := os.ReadDir(m.configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read config directory: %w", err)
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			id := strings.TrimSuffix(entry.Name(), ".json")

			config, err := m.LoadConfig(id)
			if err != nil {
				log.WithError(err).WithField("file", entry.Name()).Warn("skipping invalid puzzle file")
				continue
			}
			seen[id] = true
			infos = append(infos, newPuzzleInfo(id, entry.Name(), "file", config))
		}
	}

	for _, id := range engine.PresetNames() {
		if seen[id] {
			continue
		}
		config, _ := engine.Preset(id)
		infos = append(infos, newPuzzleInfo(id, "", "preset", config))
	}

	sort.SliceStable(infos, func(i, j int) bool { return infos[i].PuzzleID < infos[j].PuzzleID })
	return infos, nil
}

func newPuzzleInfo(id, filename, source string, config *engine.PuzzleConfig) *service.PuzzleInfo {
	return &service.PuzzleInfo{
		Filename:    filename,
		PuzzleID:    id,
		Name:        config.Name,
		Description: config.Description,
		Variant:     config.Variant,
		Width:       config.Width,
		Height:      config.Height,
		Source:      source,
	}
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *engine.PuzzleConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default configuration by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache drops cached puzzles so files are read again
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*engine.PuzzleConfig)
	m.mu.Unlock()

	return m.loadDefaultConfig()
}

// loadDefaultConfig loads DefaultPuzzle, from a file when one exists
func (m *Manager) loadDefaultConfig() error {
	config, err := m.LoadConfig(DefaultPuzzle)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.defaultConfig = config
	m.mu.Unlock()
	return nil
}

// SaveConfig validates a puzzle and writes it to the config directory
func (m *Manager) SaveConfig(name string, config *engine.PuzzleConfig) error {
	if m.configDir == "" {
		return errors.New("no config directory configured")
	}
	name = strings.TrimSuffix(name, ".json")
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: bad puzzle name %q", ErrInvalidConfig, name)
	}

	normalized := engine.Normalize(config)
	if err := engine.ValidatePuzzleConfig(normalized); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	data, err := json.MarshalIndent(normalized, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := filepath.Join(m.configDir, name+".json")
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[name] = normalized
	m.mu.Unlock()

	log.WithField("puzzle", name).Info("puzzle saved")
	return nil
}
