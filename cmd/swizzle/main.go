package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lexcodex/swizzle/cmd/internal/cliutils"
	"github.com/lexcodex/swizzle/cmd/internal/workspacecfg"
)

var (
	flagConfig    string
	flagWorkspace string
	flagVerbose   bool

	logger = zap.NewNop()
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "swizzle",
		Short:         "Editor bridge and source patching tools for Swizzle projects",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := os.Getenv("SWIZZLE_LOG_LEVEL")
			if cfg, err := workspacecfg.Load(flagConfig); err == nil && level == "" {
				level = cfg.LogLevel
			}
			l, err := cliutils.NewLogger(flagVerbose, level)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", envOrDefault("SWIZZLE_CONFIG", workspacecfg.FileName), "Path to swizzle.yaml")
	root.PersistentFlags().StringVar(&flagWorkspace, "workspace", os.Getenv("SWIZZLE_WORKSPACE"), "Workspace root (overrides the config file)")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newServeCmd(),
		newRPCCmd(),
		newPrependCmd(),
		newEndpointCmd(),
		newReplaceCmd(),
		newInspectCmd(),
		newLabelCmd(),
		newStarterCmd(),
		newConfigCmd(),
	)
	return root
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadConfig reads the config file and applies command line overrides.
func loadConfig() (*workspacecfg.WorkspaceConfig, error) {
	cfg, err := workspacecfg.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagWorkspace != "" {
		cfg.Workspace = flagWorkspace
	}
	return cfg, nil
}
