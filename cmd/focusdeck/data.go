package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/focusdeck/internal/model"
	"github.com/sandeepkv93/focusdeck/internal/storage"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write a JSON backup of all workspaces",
		Long:  "Write a JSON backup of all workspaces. Without a file argument the backup is written to the working directory under its dated default name; \"-\" writes to stdout.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), opts.configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			data, name, err := a.eng.Export()
			if err != nil {
				return err
			}
			if len(args) == 1 && args[0] == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if len(args) == 1 {
				name = args[0]
			}
			if dir := filepath.Dir(name); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create export dir: %w", err)
				}
			}
			if err := os.WriteFile(name, data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", name)
			return nil
		},
	}
}

func newImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all workspaces with a JSON backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read backup: %w", err)
			}
			a, err := bootstrap(cmd.Context(), opts.configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.eng.Import(cmd.Context(), data); err != nil {
				if errors.Is(err, storage.ErrInvalidImport) {
					return fmt.Errorf("%s is not a valid backup: %w", args[0], err)
				}
				return err
			}
			names, _ := a.eng.WorkspaceNames()
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d workspace(s)\n", len(names))
			return nil
		},
	}
}

func newResetCommand(opts *rootOptions) *cobra.Command {
	var all, yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset the current workspace, or everything with --all",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("reset discards data; pass --yes to confirm")
			}
			a, err := bootstrap(cmd.Context(), opts.configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			if all {
				if err := a.eng.FactoryReset(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "all data reset to defaults")
				return nil
			}
			if err := a.eng.ResetWorkspace(cmd.Context()); err != nil {
				return err
			}
			names, current := a.eng.WorkspaceNames()
			fmt.Fprintf(cmd.OutOrStdout(), "workspace %q reset\n", names[current])
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "delete every workspace and stored key")
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func newStatusCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show storage and workspace summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), opts.configFile)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "backend:  %s\n", a.cfg.StorageBackend)
			fmt.Fprintf(out, "data dir: %s\n", a.cfg.DataDir)
			fmt.Fprintf(out, "loaded:   %s\n", a.source)
			fmt.Fprintf(out, "today:    %s\n", a.eng.Today())

			if lister, ok := a.kv.(storage.Lister); ok {
				entries, err := lister.List(cmd.Context())
				if err != nil {
					return fmt.Errorf("list keys: %w", err)
				}
				for _, e := range entries {
					fmt.Fprintf(out, "key:      %s (%d bytes, %s)\n", e.Key, e.Size, e.UpdatedAt.Format("2006-01-02 15:04"))
				}
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "\nWORKSPACE\tTASKS\tDONE\tSTREAK\tBADGES")
			a.eng.View(func(doc *model.Document, _ *model.Workspace) {
				for i, ws := range doc.Workspaces {
					marker := " "
					if i == doc.Current {
						marker = "*"
					}
					fmt.Fprintf(tw, "%s %s\t%d\t%d\t%d\t%d\n", marker, ws.Name, len(ws.Tasks), len(ws.Done), ws.FocusStreak.Current, len(ws.UnlockedBadges))
				}
			})
			return tw.Flush()
		},
	}
}
