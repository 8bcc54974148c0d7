package cli

import (
	"github.com/spf13/cobra"

	"github.com/fufufafaethon/clipper/internal/server"
)

func serveCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP job intake server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			addr, _ := cmd.Flags().GetString("addr")
			return server.New(cfg, logf).ListenAndServe(addr)
		},
	}
	c.Flags().String("addr", ":8080", "Listen address")
	return c
}
