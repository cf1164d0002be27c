// Package cli implements the mockup command line: map generation, rendering
// and the HTTP server.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/youruser/mockupapp/internal/catalog"
	"github.com/youruser/mockupapp/internal/logger"
	"github.com/youruser/mockupapp/internal/mockup"
)

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

type globals struct {
	debug       bool
	jsonLogs    bool
	backend     string
	catalogPath string
	tempDir     string

	log *logrus.Logger
	cat *catalog.Catalog
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:          "mockup",
		Short:        "Composite artwork onto template photographs",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			g.log = logger.New(logger.Config{Debug: g.debug, JSON: g.jsonLogs, Out: cmd.ErrOrStderr()})
			if g.catalogPath == "" {
				return nil
			}
			c, err := catalog.Load(g.catalogPath)
			if err != nil {
				return err
			}
			g.cat = c
			if !cmd.Flags().Changed("backend") {
				g.backend = c.Backend
			}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVar(&g.debug, "debug", false, "enable verbose logging")
	pf.BoolVar(&g.jsonLogs, "log-json", false, "log as JSON even with --debug")
	pf.StringVar(&g.backend, "backend", catalog.BackendNative, "image backend: native|magick")
	pf.StringVarP(&g.catalogPath, "catalog", "c", os.Getenv("MOCKUP_CATALOG"), "template catalog (YAML)")
	pf.StringVar(&g.tempDir, "tmp", "", "parent directory for scratch files")

	cmd.AddCommand(mapsCmd(g), renderCmd(g), serveCmd(g))
	return cmd
}

func (g *globals) pipeline() (*mockup.Pipeline, error) {
	return NewPipeline(g.backend, g.tempDir, g.log)
}

// template resolves a catalog template by name.
func (g *globals) template(name string) (catalog.Template, error) {
	if g.cat == nil {
		return catalog.Template{}, errNoCatalog
	}
	t, ok := g.cat.Lookup(name)
	if !ok {
		return catalog.Template{}, &templateNotFound{name: name, path: g.cat.Path}
	}
	return t, nil
}
