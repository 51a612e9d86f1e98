package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/templui/tasbih/internal/app"
	"github.com/templui/tasbih/internal/service"
)

func CountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count <id>",
		Short: "Show today's count for a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				goal, err := a.GoalService.ByID(ctx, args[0])
				if err != nil {
					return err
				}

				count, err := a.CounterService.GetTodayCount(ctx, goal.ID)
				if err != nil {
					return err
				}

				printf(cmd, "%s: %d/%d (%d remaining)\n", goal.Name, count, goal.DailyLimit, service.Remaining(goal.DailyLimit, count))
				return nil
			})
		},
	}
}

func IncrementCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "increment <id>",
		Short: "Count one repetition of a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				res, err := a.CounterService.Increment(ctx, args[0])
				if err != nil {
					return err
				}

				switch {
				case res.Capped:
					printf(cmd, "%d (daily target already completed)\n", res.NewCount)
				case res.Completed:
					printf(cmd, "%d (target completed)\n", res.NewCount)
				default:
					printf(cmd, "%d\n", res.NewCount)
				}
				return nil
			})
		},
	}
}
