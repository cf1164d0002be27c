package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/youruser/mockupapp/internal/domain"
	"github.com/youruser/mockupapp/internal/mockup"
)

var errNoCatalog = errors.New("--name needs a catalog (--catalog or MOCKUP_CATALOG)")

type templateNotFound struct{ name, path string }

func (e *templateNotFound) Error() string {
	return fmt.Sprintf("template %q not found in %s", e.name, e.path)
}

// settingsFlags are the pipeline knobs shared by maps and render. Only flags
// set on the command line override the base settings.
type settingsFlags struct {
	width    int
	border   int
	blur     float64
	dx, dy   float64
	lighting string
	color    string
}

func (f *settingsFlags) register(fs *pflag.FlagSet) {
	d := mockup.DefaultSettings()
	fs.IntVar(&f.width, "width", d.WorkingWidth, "resize artwork to this width before warping (0 keeps size)")
	fs.IntVar(&f.border, "border", d.Border, "transparent border around the artwork in pixels")
	fs.Float64Var(&f.blur, "blur", d.Blur, "displacement map blur sigma")
	fs.Float64Var(&f.dx, "dx", d.DX, "horizontal displacement scale")
	fs.Float64Var(&f.dy, "dy", d.DY, "vertical displacement scale")
	fs.StringVar(&f.lighting, "lighting", d.Lighting.String(), "lighting blend mode")
	fs.StringVar(&f.color, "color", "white", "colour adjustment target")
}

func (f *settingsFlags) apply(fs *pflag.FlagSet, s mockup.Settings) (mockup.Settings, error) {
	if fs.Changed("width") {
		s.WorkingWidth = f.width
	}
	if fs.Changed("border") {
		s.Border = f.border
	}
	if fs.Changed("blur") {
		s.Blur = f.blur
	}
	if fs.Changed("dx") {
		s.DX = f.dx
	}
	if fs.Changed("dy") {
		s.DY = f.dy
	}
	if fs.Changed("lighting") {
		m, err := domain.ParseMode(f.lighting)
		if err != nil {
			return s, err
		}
		s.Lighting = m
	}
	if fs.Changed("color") {
		c, err := domain.ParseColor(f.color)
		if err != nil {
			return s, err
		}
		s.AdjustColor = c
	}
	return s, s.Validate()
}
