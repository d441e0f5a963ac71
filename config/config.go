package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ControllerType identifies the kind of controller
type ControllerType string

const (
	ControllerLaunchpadX    ControllerType = "launchpad-x"
	ControllerLaunchpadMini ControllerType = "launchpad-mini"
	ControllerLaunchpadPro  ControllerType = "launchpad-pro"
	ControllerGenericGrid   ControllerType = "generic-grid"
)

// ControllerConfig defines a saved controller configuration
type ControllerConfig struct {
	PortName    string         `json:"portName"`
	Type        ControllerType `json:"type"`
	AutoConnect bool           `json:"autoConnect"`
}

// GridConfig sizes the sequencer view.
type GridConfig struct {
	Cols    int `json:"cols,omitempty"`
	SeqRows int `json:"seqRows,omitempty"`
	Pages   int `json:"pages,omitempty"`
}

// EditConfig stores the edit-time preferences the engine consults.
type EditConfig struct {
	Channel         int   `json:"channel,omitempty"`
	AccentValue     uint8 `json:"accentValue,omitempty"`
	ResolutionIndex int   `json:"resolutionIndex,omitempty"`
	UseDawColors    bool  `json:"useDawColors,omitempty"`
	Chromatic       bool  `json:"chromatic,omitempty"`
	Scale           string `json:"scale,omitempty"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	LastTempo   int    `json:"lastTempo,omitempty"`
	PalettePath string `json:"palettePath,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Controllers []ControllerConfig `json:"controllers,omitempty"`
	Grid        GridConfig         `json:"grid,omitempty"`
	Edit        EditConfig         `json:"edit,omitempty"`
	UI          UIConfig           `json:"ui,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Controllers: []ControllerConfig{
			{
				PortName:    "Launchpad X LPX MIDI",
				Type:        ControllerLaunchpadX,
				AutoConnect: true,
			},
		},
		Grid: GridConfig{
			Cols:    8,
			SeqRows: 7,
			Pages:   8,
		},
		Edit: EditConfig{
			AccentValue:     127,
			ResolutionIndex: 4, // 1/16
			Scale:           "Major",
		},
		UI: UIConfig{
			LastTempo: 120,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gridseq"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.fillDefaults()

	return &cfg, nil
}

// fillDefaults patches zero values left by older config files.
func (c *Config) fillDefaults() {
	d := DefaultConfig()
	if c.Grid.Cols <= 0 {
		c.Grid.Cols = d.Grid.Cols
	}
	if c.Grid.SeqRows <= 0 {
		c.Grid.SeqRows = d.Grid.SeqRows
	}
	if c.Grid.Pages <= 0 {
		c.Grid.Pages = d.Grid.Pages
	}
	if c.Edit.AccentValue == 0 {
		c.Edit.AccentValue = d.Edit.AccentValue
	}
	if c.Edit.Scale == "" {
		c.Edit.Scale = d.Edit.Scale
	}
	if c.UI.LastTempo == 0 {
		c.UI.LastTempo = d.UI.LastTempo
	}
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// AutoConnectControllers returns controllers with autoConnect enabled
func (c *Config) AutoConnectControllers() []ControllerConfig {
	var result []ControllerConfig
	for _, ctrl := range c.Controllers {
		if ctrl.AutoConnect {
			result = append(result, ctrl)
		}
	}
	return result
}
