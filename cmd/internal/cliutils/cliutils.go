package cliutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lexcodex/swizzle/cmd/internal/workspacecfg"
	"github.com/lexcodex/swizzle/framework"
	"github.com/lexcodex/swizzle/server"
	"github.com/lexcodex/swizzle/tools"
)

// NewLogger builds the production logger. verbose forces debug level;
// otherwise level ("debug", "info", "warn", "error") applies, defaulting to
// info. Logs go to stderr so stdout stays free for command output and the
// stdio RPC transport.
func NewLogger(verbose bool, level string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	if level != "" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		config.Level = zap.NewAtomicLevelAt(lvl)
	}
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

// BuildBridge creates a session from cfg and a bridge with every editor
// operation registered.
func BuildBridge(cfg *workspacecfg.WorkspaceConfig, logger *zap.Logger) (*server.Bridge, error) {
	registry, err := tools.NewRegistry()
	if err != nil {
		return nil, err
	}
	session := framework.NewSession(cfg.SessionConfig())
	return server.NewBridge(registry, session, logger), nil
}

// ReadInput returns the contents of path, or of stdin when path is "-".
func ReadInput(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

// ReadOptionalInput is ReadInput for flags that may be left empty.
func ReadOptionalInput(path string, stdin io.Reader) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil
	}
	return ReadInput(path, stdin)
}

// WriteFileAtomic replaces path with content through a temporary file in
// the same directory.
func WriteFileAtomic(path, content string) error {
	info, err := os.Stat(path)
	mode := os.FileMode(0o644)
	if err == nil {
		mode = info.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".swizzle-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
