// Package mockup composites artwork onto template photographs.
//
// The work is split into map generation (derived images computed once per
// template and mask), the geometry stage, the effect stages and the final
// compositor. Pipeline ties them together.
package mockup

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/youruser/mockupapp/internal/domain"
	"github.com/youruser/mockupapp/internal/imageops"
)

// Engine runs the individual stages against an imageops backend. It holds no
// per-run state, so one Engine can serve concurrent runs.
type Engine struct {
	Ops imageops.Ops
	Log logrus.FieldLogger
	// TempDir is the parent of per-call scratch directories; empty means
	// os.TempDir.
	TempDir string
}

func NewEngine(ops imageops.Ops, log logrus.FieldLogger) *Engine {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Engine{Ops: ops, Log: log}
}

func (e *Engine) scratch(prefix string) (*scratch, error) {
	return newScratch(e.TempDir, prefix)
}

// checkAligned fails with a dimension mismatch unless both images have the
// same size. It only reads sizes, so no operation ever sees a mismatched pair.
func (e *Engine) checkAligned(ctx context.Context, op, template, mask string) (domain.Size, error) {
	want, err := e.Ops.Dimensions(ctx, template)
	if err != nil {
		return domain.Size{}, err
	}
	got, err := e.Ops.Dimensions(ctx, mask)
	if err != nil {
		return domain.Size{}, err
	}
	if want != got {
		return domain.Size{}, domain.DimensionMismatch(op, want, got, mask)
	}
	return want, nil
}
