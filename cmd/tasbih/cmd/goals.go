package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/templui/tasbih/internal/app"
)

func GoalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Manage adhkar goals",
	}

	cmd.AddCommand(goalsListCmd())
	cmd.AddCommand(goalsAddCmd())
	cmd.AddCommand(goalsDeleteCmd())
	return cmd
}

func goalsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List goals with today's progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				board, err := a.BoardService.View(ctx)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tCOUNT\tLIMIT\tREMAINING")
				for _, g := range board.Goals {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", g.Goal.ID, g.Goal.Name, g.Count, g.Goal.DailyLimit, g.Remaining)
				}
				return tw.Flush()
			})
		},
	}
}

func goalsAddCmd() *cobra.Command {
	var (
		text  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				goal, err := a.GoalService.Create(ctx, args[0], text, limit)
				if err != nil {
					return err
				}
				printf(cmd, "%s\n", goal.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "goal text (markdown)")
	cmd.Flags().IntVar(&limit, "limit", 33, "daily repetition target")
	return cmd
}

func goalsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a goal and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				return a.GoalService.Delete(ctx, args[0])
			})
		},
	}
}
