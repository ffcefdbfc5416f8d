package workspacecfg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lexcodex/swizzle/framework"
	"github.com/lexcodex/swizzle/framework/patch"
)

// FileName is the configuration file looked up in the config directory.
const FileName = "swizzle.yaml"

// WorkspaceConfig models the bridge settings persisted in swizzle.yaml.
type WorkspaceConfig struct {
	Workspace    string                   `yaml:"workspace"`
	RegistryFile string                   `yaml:"registry_file"`
	Registry     RegistryConfig           `yaml:"registry"`
	Editor       framework.EditorSettings `yaml:"editor"`
	Capabilities framework.Capabilities   `yaml:"capabilities"`
	Server       ServerConfig             `yaml:"server"`
	LogLevel     string                   `yaml:"log_level,omitempty"`
}

// RegistryConfig names the markers bracketing the endpoint registry block.
type RegistryConfig struct {
	StartMarker string `yaml:"start_marker"`
	EndMarker   string `yaml:"end_marker"`
}

// ServerConfig holds listen addresses for the transports.
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	RPCAddr string `yaml:"rpc_addr,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default(workspace string) *WorkspaceConfig {
	if workspace == "" {
		workspace = framework.DefaultWorkspaceRoot
	}
	return &WorkspaceConfig{
		Workspace:    workspace,
		RegistryFile: "/backend/server.ts",
		Registry: RegistryConfig{
			StartMarker: patch.DefaultStartMarker,
			EndMarker:   patch.DefaultEndMarker,
		},
		Editor: framework.DefaultEditorSettings(),
		Server: ServerConfig{Addr: ":3101"},
	}
}

// ConfigFile returns the swizzle.yaml path inside dir.
func ConfigFile(dir string) string {
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, FileName)
}

// Load reads path and fills unset fields from Default. A missing file is
// not an error; the defaults are returned.
func Load(path string) (*WorkspaceConfig, error) {
	cfg := Default("")
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func Save(path string, cfg *WorkspaceConfig) error {
	if cfg == nil {
		return errors.New("workspace config missing")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects configurations the bridge cannot run with.
func (c *WorkspaceConfig) Validate() error {
	if strings.TrimSpace(c.Workspace) == "" {
		return errors.New("workspace path missing")
	}
	if c.Registry.StartMarker == "" || c.Registry.EndMarker == "" {
		return errors.New("registry markers must both be set")
	}
	if c.Registry.StartMarker == c.Registry.EndMarker {
		return errors.New("registry start and end markers must differ")
	}
	if c.Editor.TabSize < 0 {
		return fmt.Errorf("invalid tab size %d", c.Editor.TabSize)
	}
	return nil
}

// Block returns the configured registry block.
func (c *WorkspaceConfig) Block() patch.RegistryBlock {
	return patch.NewRegistryBlock(c.Registry.StartMarker, c.Registry.EndMarker)
}

// SessionConfig converts the file settings into a session configuration.
func (c *WorkspaceConfig) SessionConfig() framework.SessionConfig {
	return framework.SessionConfig{
		Workspace:    framework.NewWorkspace(c.Workspace),
		Editor:       c.Editor,
		Capabilities: c.Capabilities,
		Registry:     c.Block(),
		RegistryFile: c.RegistryFile,
	}
}
