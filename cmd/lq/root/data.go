package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lifequest/internal/backup"
	"lifequest/internal/ui"
)

func newExportCmd(e *env) *cobra.Command {
	var compress bool

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write a backup bundle (stdout when no file is given)",
		Long: `Write user, habits, rewards and game state as a JSON backup bundle.

A file ending in .zst is written zstd-compressed. Use --zstd to compress
output written to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := e.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			b, err := svc.Export(ctx)
			if err != nil {
				return err
			}
			if len(args) == 0 || args[0] == "-" {
				return backup.Encode(cmd.OutOrStdout(), b, compress)
			}
			if err := backup.WriteFile(args[0], b); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", ui.Good.Render(ui.IconDone+" Exported to"), args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&compress, "zstd", false, "Compress stdout output with zstd")

	return cmd
}

func newImportCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data with a backup bundle (- reads stdin)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("file is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				b   *backup.Bundle
				err error
			)
			if args[0] == "-" {
				b, err = backup.Decode(cmd.InOrStdin())
			} else {
				b, err = backup.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}

			ctx := cmd.Context()
			svc, cleanup, err := e.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.Import(ctx, b); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.Good.Render(ui.IconDone+" Imported"), b.User.Name,
				ui.Muted.Render(fmt.Sprintf("(%d habits, %d rewards, exported %s)", len(b.Habits), len(b.Rewards), b.ExportDate.Format("2006-01-02"))))
			return nil
		},
	}

	return cmd
}

func newResetCmd(e *env) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Start over with the default habits and rewards",
		Long:  "Reset user, habits, rewards and game state to first-run defaults. Unlocked achievements are kept.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("reset erases all progress; re-run with --yes to confirm")
			}

			ctx := cmd.Context()
			svc, cleanup, err := e.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.Reset(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render(ui.IconWarn+" Progress reset"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")

	return cmd
}
