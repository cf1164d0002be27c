package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/youruser/mockupapp/internal/api"
)

func serveCmd(g *globals) *cobra.Command {
	var addr string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the mockup HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := g.pipeline()
			if err != nil {
				return err
			}
			return Serve(cmd.Context(), addr, &api.Server{
				Pipeline: p,
				Catalog:  g.cat,
				WorkDir:  g.tempDir,
				Log:      g.log,
			}, g.log)
		},
	}

	c.Flags().StringVar(&addr, "addr", defaultAddr(), "listen address")
	return c
}

func defaultAddr() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return ":" + port
}
