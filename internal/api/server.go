// Package api exposes the mockup pipeline over HTTP.
package api

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/youruser/mockupapp/internal/catalog"
	"github.com/youruser/mockupapp/internal/domain"
	"github.com/youruser/mockupapp/internal/mockup"
)

type Server struct {
	Pipeline *mockup.Pipeline
	// Catalog may be nil; the template routes then report no templates.
	Catalog *catalog.Catalog
	// WorkDir is the parent of per-request directories; empty means
	// os.TempDir.
	WorkDir string
	Log     logrus.FieldLogger
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start).String(),
		}).Info("request")
	}
}

func (s *Server) workDir() (string, error) {
	return os.MkdirTemp(s.WorkDir, "request-*")
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindDimensionMismatch, domain.KindInvalidGeometry, domain.KindInvalidRequest:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.Log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	body := gin.H{"error": err.Error()}
	if kind := domain.KindOf(err); kind != "" {
		body["kind"] = kind
	}
	c.AbortWithStatusJSON(status, body)
}
