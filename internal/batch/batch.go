// Package batch mocks several artworks onto one template, generating the
// template's maps once and reusing them for every render.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/youruser/mockupapp/internal/mockup"
)

type Batch struct {
	Name     string
	Job      mockup.Job // template, mask, quad, blend and settings; Artwork and Out are ignored
	Artworks []string
	OutDir   string
	// MapDir holds the maps; they are generated when missing or sized for
	// another template.
	MapDir string
	// MapPrefix names the map files; empty means Name.
	MapPrefix string
}

type Item struct {
	Artwork string `json:"artwork"`
	Out     string `json:"out"`
}

type Report struct {
	Name  string        `json:"name"`
	Maps  mockup.MapSet `json:"maps"`
	Items []Item        `json:"items"`
}

// OutputName derives the output file for artwork: <artwork stem>-<name>.png.
func OutputName(name, artwork string) string {
	stem := strings.TrimSuffix(filepath.Base(artwork), filepath.Ext(artwork))
	return stem + "-" + name + ".png"
}

// Run renders every artwork in order and stops at the first failure.
func Run(ctx context.Context, p *mockup.Pipeline, b Batch) (Report, error) {
	prefix := b.MapPrefix
	if prefix == "" {
		prefix = b.Name
	}
	rep := Report{Name: b.Name, Maps: mockup.MapPaths(b.MapDir, prefix)}
	if len(b.Artworks) == 0 {
		return rep, fmt.Errorf("batch %s: no artwork", b.Name)
	}

	if !p.Reusable(ctx, b.Job.Template, rep.Maps) {
		if err := p.GenerateMaps(ctx, b.Job.Template, b.Job.Mask, b.Job.Settings, rep.Maps); err != nil {
			return rep, fmt.Errorf("batch %s: %w", b.Name, err)
		}
	}

	for _, art := range b.Artworks {
		job := b.Job
		job.Name = b.Name
		job.Artwork = art
		job.Out = filepath.Join(b.OutDir, OutputName(b.Name, art))
		job.Maps = &rep.Maps
		if _, err := p.Run(ctx, job); err != nil {
			return rep, fmt.Errorf("batch %s: %s: %w", b.Name, art, err)
		}
		rep.Items = append(rep.Items, Item{Artwork: art, Out: job.Out})
	}
	return rep, nil
}
