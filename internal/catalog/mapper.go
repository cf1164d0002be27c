package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/youruser/mockupapp/internal/domain"
	"github.com/youruser/mockupapp/internal/mockup"
)

func MapCatalog(path string, yc YAMLCatalog) (*Catalog, error) {
	c := &Catalog{
		Path:      path,
		Backend:   BackendNative,
		Settings:  mockup.DefaultSettings(),
		Templates: make([]Template, 0, len(yc.Templates)),
	}
	if err := mapDefaults(path, yc.Defaults, c); err != nil {
		return nil, err
	}

	base := filepath.Dir(path)
	seen := map[string]bool{}
	for i, yt := range yc.Templates {
		t, err := mapTemplate(path, base, fmt.Sprintf("templates[%d]", i), yt)
		if err != nil {
			return nil, err
		}
		if seen[t.Name] {
			return nil, invalidField(path, fmt.Sprintf("templates[%d].name", i), "duplicate template "+t.Name)
		}
		seen[t.Name] = true
		c.Templates = append(c.Templates, t)
	}
	return c, nil
}

func mapDefaults(path string, d YAMLDefaults, c *Catalog) error {
	switch b := strings.ToLower(strings.TrimSpace(d.Backend)); b {
	case "":
	case BackendNative, BackendMagick:
		c.Backend = b
	default:
		return invalidField(path, "defaults.backend", "unknown backend "+d.Backend)
	}

	s := &c.Settings
	if d.WorkingWidth != nil {
		s.WorkingWidth = *d.WorkingWidth
	}
	if d.Border != nil {
		s.Border = *d.Border
	}
	if d.Blur != nil {
		s.Blur = *d.Blur
	}
	if d.DX != nil {
		s.DX = *d.DX
	}
	if d.DY != nil {
		s.DY = *d.DY
	}
	if strings.TrimSpace(d.Lighting) != "" {
		m, err := domain.ParseMode(d.Lighting)
		if err != nil {
			return invalidField(path, "defaults.lighting", err.Error())
		}
		s.Lighting = m
	}
	if err := s.Validate(); err != nil {
		return invalidField(path, "defaults", err.Error())
	}
	return nil
}

func mapTemplate(path, base, field string, yt YAMLTemplate) (Template, error) {
	name := strings.TrimSpace(yt.Name)
	if name == "" {
		return Template{}, invalidField(path, field+".name", "name is required")
	}
	if strings.TrimSpace(yt.Template) == "" {
		return Template{}, invalidField(path, field+".template", "template image is required")
	}
	if strings.TrimSpace(yt.Mask) == "" {
		return Template{}, invalidField(path, field+".mask", "mask image is required")
	}

	quad, err := domain.QuadFromSlice(yt.Quad)
	if err == nil {
		err = quad.Validate()
	}
	if err != nil {
		return Template{}, invalidField(path, field+".quad", err.Error())
	}

	t := Template{
		Name:        name,
		Description: yt.Description,
		Template:    resolve(base, yt.Template),
		Mask:        resolve(base, yt.Mask),
		Quad:        quad,
		Blend:       domain.ModeOver,
		AdjustColor: mockup.DefaultSettings().AdjustColor,
		Tags:        yt.Tags,
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}

	if strings.TrimSpace(yt.Blend) != "" {
		m, err := domain.ParseMode(yt.Blend)
		if err != nil {
			return Template{}, invalidField(path, field+".blend", err.Error())
		}
		if m != domain.ModeOver && m != domain.ModeMultiply {
			return Template{}, invalidField(path, field+".blend", "blend must be over or multiply")
		}
		t.Blend = m
	}
	if strings.TrimSpace(yt.Color) != "" {
		c, err := domain.ParseColor(yt.Color)
		if err != nil {
			return Template{}, invalidField(path, field+".color", err.Error())
		}
		if c.A == 0 {
			return Template{}, invalidField(path, field+".color", "color must not be transparent")
		}
		t.AdjustColor = c
	}
	return t, nil
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "catalog.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s", field, msg),
	}
}
