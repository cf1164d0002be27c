package mockup

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/youruser/mockupapp/internal/domain"
	"github.com/youruser/mockupapp/internal/imageops"
	"github.com/youruser/mockupapp/internal/util"
)

// Settings tune the pipeline. The zero value is not usable; start from
// DefaultSettings.
type Settings struct {
	// WorkingWidth rescales the artwork before warping; 0 keeps its size.
	WorkingWidth int
	// Border adds a transparent frame around the artwork; 0 disables it.
	Border      int
	Blur        float64
	DX, DY      float64
	Lighting    domain.Mode
	AdjustColor color.NRGBA
}

func DefaultSettings() Settings {
	return Settings{
		WorkingWidth: 400,
		Border:       1,
		Blur:         10,
		DX:           10,
		DY:           10,
		Lighting:     domain.ModeHardLight,
		AdjustColor:  color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

func (s Settings) Validate() error {
	bad := func(format string, args ...any) error {
		return &domain.OpError{Op: "pipeline.settings", Kind: domain.KindInvalidConfig, Err: fmt.Errorf(format, args...)}
	}
	switch {
	case s.WorkingWidth < 0:
		return bad("working width must not be negative")
	case s.Border < 0:
		return bad("border must not be negative")
	case s.Blur < 0:
		return bad("blur must not be negative")
	case !s.Lighting.Valid() || s.Lighting == domain.ModeCopyOpacity:
		return bad("lighting mode %s cannot blend", s.Lighting)
	case s.AdjustColor.A == 0:
		return bad("adjustment colour is transparent")
	}
	return nil
}

// MapSet holds the derived maps for one template and mask.
type MapSet struct {
	Displacement    string `json:"displacement"`
	Lighting        string `json:"lighting"`
	ColorAdjustment string `json:"color_adjustment"`
}

// MapPaths names the maps for prefix inside dir: <prefix>-displace.png,
// <prefix>-lighting.png and <prefix>-adjust.png.
func MapPaths(dir, prefix string) MapSet {
	return MapSet{
		Displacement:    filepath.Join(dir, prefix+"-displace.png"),
		Lighting:        filepath.Join(dir, prefix+"-lighting.png"),
		ColorAdjustment: filepath.Join(dir, prefix+"-adjust.png"),
	}
}

// Exists reports whether every map file is present.
func (m MapSet) Exists() bool {
	for _, p := range []string{m.Displacement, m.Lighting, m.ColorAdjustment} {
		if p == "" {
			return false
		}
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

// MapKey names the maps of a template and mask that have no catalog name:
// the template's file stem plus a short hash of both paths.
func MapKey(template, mask string) string {
	sum := sha1.Sum([]byte(filepath.Clean(template) + "\x00" + filepath.Clean(mask)))
	stem := strings.TrimSuffix(filepath.Base(template), filepath.Ext(template))
	return stem + "-" + hex.EncodeToString(sum[:4])
}

// Reusable reports whether maps exist and every one of them has template's
// size. Maps left behind by a different template fail the check.
func (p *Pipeline) Reusable(ctx context.Context, template string, maps MapSet) bool {
	if !maps.Exists() {
		return false
	}
	want, err := p.Engine.Ops.Dimensions(ctx, template)
	if err != nil {
		return false
	}
	for _, m := range []string{maps.Displacement, maps.Lighting, maps.ColorAdjustment} {
		got, err := p.Engine.Ops.Dimensions(ctx, m)
		if err != nil || got != want {
			p.Log.WithFields(logrus.Fields{"map": m, "template": template}).Debug("stale map ignored")
			return false
		}
	}
	return true
}

// Job is one mockup: artwork placed on template through mask.
type Job struct {
	Name     string
	Template string
	Mask     string
	Artwork  string
	Quad     domain.Quad
	Blend    domain.Mode
	Out      string
	// Maps, when set, are used instead of generating maps for this run.
	Maps     *MapSet
	Settings Settings
}

// Result describes a finished run.
type Result struct {
	Out     string
	Elapsed time.Duration
}

// Pipeline orchestrates map generation and the artwork chain.
type Pipeline struct {
	Engine *Engine
	Log    logrus.FieldLogger
}

func NewPipeline(engine *Engine) *Pipeline {
	return &Pipeline{Engine: engine, Log: engine.Log}
}

// GenerateMaps computes the three maps concurrently into maps. If any of them
// fails the others are cancelled and the first error is returned.
func (p *Pipeline) GenerateMaps(ctx context.Context, template, mask string, s Settings, maps MapSet) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if _, err := p.Engine.checkAligned(ctx, "pipeline.maps", template, mask); err != nil {
		return err
	}
	for _, out := range []string{maps.Displacement, maps.Lighting, maps.ColorAdjustment} {
		if err := util.EnsureDir(filepath.Dir(out)); err != nil {
			return fmt.Errorf("prepare map dir: %w", err)
		}
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := p.Engine.DisplacementMap(gctx, template, mask, s.Blur, maps.Displacement); err != nil {
			return fmt.Errorf("displacement map: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := p.Engine.LightingMap(gctx, template, mask, maps.Lighting); err != nil {
			return fmt.Errorf("lighting map: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := p.Engine.ColorAdjustmentMap(gctx, template, mask, s.AdjustColor, maps.ColorAdjustment); err != nil {
			return fmt.Errorf("color adjustment map: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	p.Log.WithFields(logrus.Fields{
		"template": template,
		"elapsed":  time.Since(start).String(),
	}).Info("maps generated")
	return nil
}

// Render runs the artwork chain for job using precomputed maps: optional
// resize and border, perspective warp, displacement, lighting, colour
// correction and the final masked composite. The destination is only written
// when every stage succeeded.
func (p *Pipeline) Render(ctx context.Context, job Job, maps MapSet) error {
	if err := job.validate(); err != nil {
		return err
	}
	e := p.Engine
	sc, err := e.scratch("render")
	if err != nil {
		return err
	}
	defer sc.close()

	log := p.Log.WithFields(logrus.Fields{"job": job.Name, "artwork": job.Artwork})
	s := job.Settings
	art := job.Artwork

	if s.WorkingWidth > 0 {
		next := sc.path("resized")
		if err := e.Ops.Resize(ctx, imageops.ResizeRequest{In: art, Width: s.WorkingWidth, Out: next}); err != nil {
			return fmt.Errorf("resize artwork: %w", err)
		}
		art = next
	}
	if s.Border > 0 {
		next := sc.path("bordered")
		if err := e.Ops.AddBorder(ctx, imageops.BorderRequest{In: art, Width: s.Border, Out: next}); err != nil {
			return fmt.Errorf("border artwork: %w", err)
		}
		art = next
	}

	steps := []struct {
		name string
		run  func(in, out string) error
	}{
		{"perspective", func(in, out string) error {
			return e.PerspectiveTransform(ctx, job.Template, in, job.Quad, out)
		}},
		{"displacement", func(in, out string) error {
			return e.ApplyDisplacement(ctx, in, maps.Displacement, s.DX, s.DY, out)
		}},
		{"lighting", func(in, out string) error {
			return e.ApplyLighting(ctx, in, maps.Lighting, s.Lighting, out)
		}},
		{"color", func(in, out string) error {
			return e.ApplyColorCorrection(ctx, in, maps.ColorAdjustment, out)
		}},
	}
	for _, step := range steps {
		next := sc.path(step.name)
		if err := step.run(art, next); err != nil {
			return fmt.Errorf("%s stage: %w", step.name, err)
		}
		log.WithField("stage", step.name).Debug("stage done")
		art = next
	}

	return commit(job.Out, func(tmp string) error {
		if err := e.Compose(ctx, job.Template, art, job.Mask, job.Blend, tmp); err != nil {
			return fmt.Errorf("compose stage: %w", err)
		}
		return nil
	})
}

// Run is the end-to-end entry point: maps (reused when job.Maps is set),
// then Render.
func (p *Pipeline) Run(ctx context.Context, job Job) (Result, error) {
	start := time.Now()
	if err := job.validate(); err != nil {
		return Result{}, err
	}
	if _, err := p.Engine.checkAligned(ctx, "pipeline.run", job.Template, job.Mask); err != nil {
		return Result{}, err
	}

	var maps MapSet
	if job.Maps != nil {
		maps = *job.Maps
	} else {
		sc, err := p.Engine.scratch("maps")
		if err != nil {
			return Result{}, err
		}
		defer sc.close()
		maps = MapPaths(sc.dir, "run")
		if err := p.GenerateMaps(ctx, job.Template, job.Mask, job.Settings, maps); err != nil {
			return Result{}, err
		}
	}

	if err := p.Render(ctx, job, maps); err != nil {
		return Result{}, err
	}
	res := Result{Out: job.Out, Elapsed: time.Since(start)}
	p.Log.WithFields(logrus.Fields{
		"job":     job.Name,
		"out":     res.Out,
		"elapsed": res.Elapsed.String(),
	}).Info("mockup rendered")
	return res, nil
}

func (j Job) validate() error {
	bad := func(err error) error {
		return &domain.OpError{Op: "pipeline.job", Kind: domain.KindInvalidRequest, Err: err}
	}
	switch {
	case j.Template == "" || j.Mask == "" || j.Artwork == "":
		return bad(errors.New("template, mask and artwork are required"))
	case j.Out == "":
		return bad(errors.New("output path is required"))
	case j.Blend != domain.ModeOver && j.Blend != domain.ModeMultiply:
		return bad(fmt.Errorf("blend mode %s is not a print mode", j.Blend))
	}
	if err := j.Quad.Validate(); err != nil {
		return err
	}
	return j.Settings.Validate()
}

// commit lets write produce the output at a sibling temporary path and moves
// it onto dest only on success.
func commit(dest string, write func(tmp string) error) error {
	dir := filepath.Dir(dest)
	if err := util.EnsureDir(dir); err != nil {
		return fmt.Errorf("prepare output dir: %w", err)
	}
	ext := filepath.Ext(dest)
	stem := strings.TrimSuffix(filepath.Base(dest), ext)
	f, err := os.CreateTemp(dir, "."+stem+"-*"+ext)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	tmp := f.Name()
	f.Close()

	if err := write(tmp); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("move output into place: %w", err)
	}
	return nil
}
