package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/templui/tasbih/internal/dayclock"
)

func TodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Print today's day key and when it rolls over",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig("warn")
			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			clock := dayclock.New(loc)
			now := clock.Now()
			printf(cmd, "%s (rolls over at %s)\n", dayclock.Key(now), clock.NextMidnight(now).Format(time.RFC3339))
			return nil
		},
	}
}
