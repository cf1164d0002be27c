package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/youruser/mockupapp/internal/artwork"
	"github.com/youruser/mockupapp/internal/batch"
	"github.com/youruser/mockupapp/internal/domain"
	"github.com/youruser/mockupapp/internal/mockup"
)

func renderCmd(g *globals) *cobra.Command {
	var (
		name       string
		template   string
		mask       string
		quad       string
		blend      string
		artworks   []string
		artworkURL string
		qrText     string
		out        string
		mapsDir    string
		sf         settingsFlags
	)

	c := &cobra.Command{
		Use:   "render",
		Short: "Render artwork onto a template",
		Long: "Render artwork onto a template. With several --artwork flags, --out is a\n" +
			"directory and the template maps are generated once for all of them.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			job := mockup.Job{Settings: mockup.DefaultSettings(), Blend: domain.ModeOver}
			var mapPrefix string
			if name != "" {
				t, err := g.template(name)
				if err != nil {
					return err
				}
				job = g.cat.Job(t, "", "")
				mapPrefix = job.Name
				if mapsDir == "" {
					mapsDir = g.cat.MapDir()
				}
			} else {
				if template == "" || mask == "" || quad == "" {
					return errors.New("either --name or --template, --mask and --quad are required")
				}
				q, err := domain.ParseQuad(quad)
				if err != nil {
					return err
				}
				job.Name = strings.TrimSuffix(filepath.Base(template), filepath.Ext(template))
				mapPrefix = mockup.MapKey(template, mask)
				job.Template, job.Mask, job.Quad = template, mask, q
			}
			if cmd.Flags().Changed("blend") {
				m, err := domain.ParseMode(blend)
				if err != nil {
					return err
				}
				job.Blend = m
			}
			settings, err := sf.apply(cmd.Flags(), job.Settings)
			if err != nil {
				return err
			}
			job.Settings = settings
			if out == "" {
				return errors.New("--out is required")
			}

			p, err := g.pipeline()
			if err != nil {
				return err
			}

			if len(artworks) > 1 {
				if mapsDir == "" {
					tmp, err := os.MkdirTemp(g.tempDir, "maps-*")
					if err != nil {
						return err
					}
					defer os.RemoveAll(tmp)
					mapsDir = tmp
				}
				rep, err := batch.Run(cmd.Context(), p, batch.Batch{
					Name:      job.Name,
					Job:       job,
					Artworks:  artworks,
					OutDir:    out,
					MapDir:    mapsDir,
					MapPrefix: mapPrefix,
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), batch.ExportText(rep))
				return nil
			}

			src := artwork.Source{URL: artworkURL, QRText: qrText}
			if len(artworks) == 1 {
				src.Path = artworks[0]
			}
			dir, err := os.MkdirTemp(g.tempDir, "artwork-*")
			if err != nil {
				return err
			}
			defer os.RemoveAll(dir)
			if job.Artwork, err = src.Materialize(cmd.Context(), dir); err != nil {
				return err
			}
			job.Out = out
			if mapsDir != "" {
				if maps := mockup.MapPaths(mapsDir, mapPrefix); p.Reusable(cmd.Context(), job.Template, maps) {
					job.Maps = &maps
				}
			}

			res, err := p.Run(cmd.Context(), job)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", res.Out, res.Elapsed.Round(time.Millisecond))
			return nil
		},
	}

	f := c.Flags()
	f.StringVarP(&name, "name", "n", "", "catalog template name")
	f.StringVarP(&template, "template", "t", "", "template photograph")
	f.StringVarP(&mask, "mask", "m", "", "template mask")
	f.StringVarP(&quad, "quad", "q", "", "placement quad x1,y1,...,x4,y4 (top-left, bottom-left, bottom-right, top-right)")
	f.StringVarP(&blend, "blend", "b", "over", "final blend: over|multiply")
	f.StringArrayVarP(&artworks, "artwork", "a", nil, "artwork file (repeatable)")
	f.StringVar(&artworkURL, "artwork-url", "", "download the artwork from this URL")
	f.StringVar(&qrText, "qr-text", "", "use a QR code of this text as the artwork")
	f.StringVarP(&out, "out", "o", "", "output file, or directory with several --artwork")
	f.StringVar(&mapsDir, "maps-dir", "", "reuse or store maps in this directory")
	sf.register(f)
	return c
}
