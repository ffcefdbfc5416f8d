package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lexcodex/swizzle/cmd/internal/cliutils"
	"github.com/lexcodex/swizzle/cmd/internal/workspacecfg"
	"github.com/lexcodex/swizzle/framework"
)

// inspectReport is what `swizzle inspect` prints for one file.
type inspectReport struct {
	File     string              `json:"file"`
	TabLabel string              `json:"tabLabel"`
	Language string              `json:"languageId"`
	Facts    framework.FileFacts `json:"facts"`
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>...",
		Short: "Report the content heuristics the editor sends for files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			reports := make([]inspectReport, 0, len(args))
			for _, path := range args {
				text, err := cliutils.ReadInput(path, cmd.InOrStdin())
				if err != nil {
					return err
				}
				reports = append(reports, inspectReport{
					File:     path,
					TabLabel: framework.TabLabel(path),
					Language: string(cfg.Editor.LanguageFor(path)),
					Facts:    framework.Inspect(text),
				})
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(reports)
		},
	}
	return cmd
}

func newLabelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "label <file>...",
		Short: "Print the editor tab label for workspace file names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, framework.TabLabel(name))
			}
			return nil
		},
	}
}

func newStarterCmd() *cobra.Command {
	var opts framework.StarterOptions
	var forFile string
	cmd := &cobra.Command{
		Use:   "starter [endpoint|html|css|component|helper]",
		Short: "Print starter code for a new file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var code string
			switch {
			case forFile != "":
				var ok bool
				if code, ok = framework.StarterFor(forFile, opts.HasAuth); !ok {
					return fmt.Errorf("no starter template for %s", forFile)
				}
			case len(args) == 1:
				var err error
				if code, err = framework.Starter(framework.StarterKind(args[0]), opts); err != nil {
					return err
				}
			default:
				return errors.New("a starter kind or --for is required")
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), code)
			return err
		},
	}
	cmd.Flags().StringVar(&opts.Method, "method", "get", "HTTP method for endpoint starters")
	cmd.Flags().StringVar(&opts.Endpoint, "endpoint", "/", "Route for endpoint starters")
	cmd.Flags().StringVar(&opts.Name, "name", "", "Component or helper name")
	cmd.Flags().BoolVar(&opts.HasAuth, "auth", false, "Wire the auth hook into components")
	cmd.Flags().StringVar(&forFile, "for", "", "Pick the template from a workspace file name")
	return cmd
}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{Use: "config", Short: "Manage swizzle.yaml"}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default swizzle.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(flagConfig); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", flagConfig)
			}
			cfg := workspacecfg.Default(flagWorkspace)
			if err := workspacecfg.Save(flagConfig, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", flagConfig)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(cfg)
		},
	}
	configCmd.AddCommand(initCmd, showCmd)
	return configCmd
}
