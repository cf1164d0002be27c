package cli

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/youruser/mockupapp/internal/mockup"
)

func mapsCmd(g *globals) *cobra.Command {
	var (
		name     string
		template string
		mask     string
		outDir   string
		prefix   string
		sf       settingsFlags
	)

	c := &cobra.Command{
		Use:   "maps",
		Short: "Precompute the displacement, lighting and colour maps of a template",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings := mockup.DefaultSettings()
			if name != "" {
				t, err := g.template(name)
				if err != nil {
					return err
				}
				template, mask = t.Template, t.Mask
				settings = g.cat.SettingsFor(t)
				if prefix == "" {
					prefix = t.Name
				}
				if outDir == "" {
					outDir = g.cat.MapDir()
				}
			}
			if template == "" || mask == "" {
				return errors.New("either --name or both --template and --mask are required")
			}
			if prefix == "" {
				prefix = mockup.MapKey(template, mask)
			}
			if outDir == "" {
				outDir = "."
			}

			settings, err := sf.apply(cmd.Flags(), settings)
			if err != nil {
				return err
			}
			p, err := g.pipeline()
			if err != nil {
				return err
			}

			maps := mockup.MapPaths(outDir, prefix)
			if err := p.GenerateMaps(cmd.Context(), template, mask, settings, maps); err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(maps)
		},
	}

	c.Flags().StringVarP(&name, "name", "n", "", "catalog template name")
	c.Flags().StringVarP(&template, "template", "t", "", "template photograph")
	c.Flags().StringVarP(&mask, "mask", "m", "", "template mask")
	c.Flags().StringVarP(&outDir, "out-dir", "o", "", "directory for the maps (default: catalog maps dir or .)")
	c.Flags().StringVar(&prefix, "prefix", "", "map file prefix (default: catalog name, or template stem and path hash)")
	sf.register(c.Flags())
	return c
}
