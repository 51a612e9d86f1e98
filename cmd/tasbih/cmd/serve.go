package cmd

import (
	"github.com/spf13/cobra"
	"github.com/templui/tasbih/internal/app"
	"github.com/templui/tasbih/internal/server"
)

func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig("")

			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			return server.Run(cmd.Context(), a)
		},
	}
}
