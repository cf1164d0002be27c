// Package catalog loads the template catalog: the photographs, masks and
// placement quads that artwork can be mocked onto.
package catalog

import (
	"image/color"
	"path/filepath"

	"github.com/youruser/mockupapp/internal/domain"
	"github.com/youruser/mockupapp/internal/mockup"
)

const (
	BackendNative = "native"
	BackendMagick = "magick"
)

type Template struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Template    string      `json:"-"`
	Mask        string      `json:"-"`
	Quad        domain.Quad `json:"quad"`
	Blend       domain.Mode `json:"blend"`
	AdjustColor color.NRGBA `json:"-"`
	Tags        []string    `json:"tags"`
}

type Catalog struct {
	Path      string
	Backend   string
	Settings  mockup.Settings
	Templates []Template
}

// Lookup finds a template by name.
func (c *Catalog) Lookup(name string) (Template, bool) {
	for _, t := range c.Templates {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}

// SettingsFor returns the pipeline settings for t: the catalog defaults with the
// template's adjustment colour.
func (c *Catalog) SettingsFor(t Template) mockup.Settings {
	s := c.Settings
	s.AdjustColor = t.AdjustColor
	return s
}

// Job prepares a pipeline job placing artwork on t and writing out.
func (c *Catalog) Job(t Template, artwork, out string) mockup.Job {
	return mockup.Job{
		Name:     t.Name,
		Template: t.Template,
		Mask:     t.Mask,
		Artwork:  artwork,
		Quad:     t.Quad,
		Blend:    t.Blend,
		Out:      out,
		Settings: c.SettingsFor(t),
	}
}

// MapDir is where precomputed maps for the catalog live.
func (c *Catalog) MapDir() string {
	return filepath.Join(filepath.Dir(c.Path), "maps")
}
