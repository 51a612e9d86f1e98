package cmd

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/templui/tasbih/internal/app"
)

func ImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [dir]",
		Short: "Create goals from markdown files (defaults to $CONTENT_PATH/adhkar)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				dir := a.Cfg.ContentPath + "/adhkar"
				if len(args) == 1 {
					dir = args[0]
				}

				result, err := a.GoalService.ImportDir(ctx, dir)
				if err != nil {
					return err
				}

				for _, goal := range result.Created {
					printf(cmd, "created %s %s\n", goal.ID, goal.Name)
				}
				for _, file := range result.Skipped {
					printf(cmd, "skipped %s\n", file)
				}
				return nil
			})
		},
	}
}

func ExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every goal and daily count as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				snapshot, err := a.BackupService.Snapshot(ctx)
				if err != nil {
					return err
				}

				var w io.Writer = cmd.OutOrStdout()
				if output != "" {
					f, err := os.Create(output)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}

				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(snapshot)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func BackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Upload a snapshot to S3 backup storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				key, err := a.BackupService.Backup(ctx)
				if err != nil {
					return err
				}
				printf(cmd, "%s\n", key)
				return nil
			})
		},
	}
}
