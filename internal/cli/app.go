package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/youruser/mockupapp/internal/api"
	"github.com/youruser/mockupapp/internal/catalog"
	"github.com/youruser/mockupapp/internal/imageops"
	"github.com/youruser/mockupapp/internal/imageops/magick"
	"github.com/youruser/mockupapp/internal/imageops/native"
	"github.com/youruser/mockupapp/internal/mockup"
)

// NewPipeline builds a pipeline on the named backend. Every backend call is
// logged at debug level.
func NewPipeline(backend, tempDir string, log logrus.FieldLogger) (*mockup.Pipeline, error) {
	var ops imageops.Ops
	switch backend {
	case "", catalog.BackendNative:
		ops = native.New()
	case catalog.BackendMagick:
		ops = magick.New(log)
	default:
		return nil, fmt.Errorf("unknown backend %q (want %s or %s)", backend, catalog.BackendNative, catalog.BackendMagick)
	}
	e := mockup.NewEngine(imageops.WithLogging(ops, log), log)
	e.TempDir = tempDir
	return mockup.NewPipeline(e), nil
}

// Serve runs the HTTP API on addr until ctx is done.
func Serve(ctx context.Context, addr string, s *api.Server, log logrus.FieldLogger) error {
	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(s),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("starting server")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
