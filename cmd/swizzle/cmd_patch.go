package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lexcodex/swizzle/cmd/internal/cliutils"
	"github.com/lexcodex/swizzle/framework/patch"
)

func newPrependCmd() *cobra.Command {
	var file, content, contentFile, previous, previousFile string
	var anchor int
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "prepend",
		Short: "Insert or replace a managed block of text in a file",
		Long: `Removes the block inserted by a previous run (passed with --previous) and
inserts the new content at the anchor offset. An empty content only removes
the previous block.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file is required")
			}
			document, err := cliutils.ReadInput(file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("content-file") {
				if content, err = cliutils.ReadOptionalInput(contentFile, cmd.InOrStdin()); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("previous-file") {
				if previous, err = cliutils.ReadOptionalInput(previousFile, cmd.InOrStdin()); err != nil {
					return err
				}
			}
			tracker := patch.NewTracker()
			tracker.AnchorOffset = anchor
			tracker.Restore(previous)
			if previous != "" && !tracker.Exists(document, previous) {
				logger.Warn("previous block not found, inserting only", zap.String("file", file))
			}
			out, err := patch.Apply(document, tracker.Upsert(document, content))
			if err != nil {
				return err
			}
			return emit(cmd, file, out, dryRun)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "File to patch (required)")
	cmd.Flags().StringVar(&content, "content", "", "Block to insert")
	cmd.Flags().StringVar(&contentFile, "content-file", "", "Read the block from a file (- for stdin)")
	cmd.Flags().StringVar(&previous, "previous", "", "Block inserted by the previous run")
	cmd.Flags().StringVar(&previousFile, "previous-file", "", "Read the previous block from a file")
	cmd.Flags().IntVar(&anchor, "anchor", 0, "Byte offset new blocks are inserted at")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the result instead of writing the file")
	return cmd
}

func newEndpointCmd() *cobra.Command {
	var file, startMarker, endMarker string
	var dryRun bool
	endpointCmd := &cobra.Command{
		Use:   "endpoint",
		Short: "Edit the sorted endpoint registry block",
	}
	endpointCmd.PersistentFlags().StringVarP(&file, "file", "f", "", "File holding the registry block (default from config)")
	endpointCmd.PersistentFlags().StringVar(&startMarker, "start-marker", "", "Start marker (default from config)")
	endpointCmd.PersistentFlags().StringVar(&endMarker, "end-marker", "", "End marker (default from config)")
	endpointCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Print the result instead of writing the file")

	run := func(edit func(block patch.RegistryBlock, document, entry string) (string, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			block := cfg.Block()
			if startMarker != "" {
				block.StartMarker = startMarker
			}
			if endMarker != "" {
				block.EndMarker = endMarker
			}
			path := file
			if path == "" {
				if path, err = cfg.SessionConfig().Workspace.Resolve(cfg.RegistryFile); err != nil {
					return err
				}
			}
			document, err := cliutils.ReadInput(path, cmd.InOrStdin())
			if err != nil {
				return err
			}
			out := document
			for _, entry := range args {
				if out, err = edit(block, out, entry); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}
			if out == document {
				logger.Info("registry unchanged", zap.String("file", path))
			}
			return emit(cmd, path, out, dryRun)
		}
	}

	addCmd := &cobra.Command{
		Use:   "add <entry>...",
		Short: "Register endpoint lines, skipping routes already present",
		Args:  cobra.MinimumNArgs(1),
		RunE: run(func(block patch.RegistryBlock, document, entry string) (string, error) {
			out, _, err := block.Upsert(document, entry)
			return out, err
		}),
	}
	removeCmd := &cobra.Command{
		Use:   "remove <entry>...",
		Short: "Remove endpoint lines by text or route",
		Args:  cobra.MinimumNArgs(1),
		RunE: run(func(block patch.RegistryBlock, document, entry string) (string, error) {
			return block.Remove(document, entry)
		}),
	}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print the registered endpoint lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			block := cfg.Block()
			if startMarker != "" {
				block.StartMarker = startMarker
			}
			if endMarker != "" {
				block.EndMarker = endMarker
			}
			path := file
			if path == "" {
				if path, err = cfg.SessionConfig().Workspace.Resolve(cfg.RegistryFile); err != nil {
					return err
				}
			}
			document, err := cliutils.ReadInput(path, cmd.InOrStdin())
			if err != nil {
				return err
			}
			entries, err := block.Entries(document)
			if err != nil {
				return err
			}
			for _, entry := range entries {
				fmt.Fprintln(cmd.OutOrStdout(), entry)
			}
			return nil
		},
	}
	endpointCmd.AddCommand(addCmd, removeCmd, listCmd)
	return endpointCmd
}

func newReplaceCmd() *cobra.Command {
	var file, find, replace string
	var first, dryRun bool
	cmd := &cobra.Command{
		Use:   "replace",
		Short: "Replace occurrences of a string in a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" || find == "" {
				return errors.New("--file and --find are required")
			}
			document, err := cliutils.ReadInput(file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			policy := patch.MatchAll
			if first {
				policy = patch.MatchFirst
			}
			mutations := patch.ReplaceMatches(document, find, replace, policy)
			logger.Debug("replacing", zap.Int("matches", len(mutations)), zap.Stringer("policy", policy))
			out, err := patch.Apply(document, mutations)
			if err != nil {
				return err
			}
			return emit(cmd, file, out, dryRun)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "File to edit (required)")
	cmd.Flags().StringVar(&find, "find", "", "Text to find (required)")
	cmd.Flags().StringVar(&replace, "replace", "", "Replacement text")
	cmd.Flags().BoolVar(&first, "first", false, "Replace only the first occurrence")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the result instead of writing the file")
	return cmd
}

// emit writes out to path, or to stdout for dry runs and stdin input.
func emit(cmd *cobra.Command, path, out string, dryRun bool) error {
	if dryRun || path == "-" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return err
	}
	return cliutils.WriteFileAtomic(path, out)
}
