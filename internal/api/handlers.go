package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/youruser/mockupapp/internal/artwork"
	"github.com/youruser/mockupapp/internal/catalog"
	"github.com/youruser/mockupapp/internal/domain"
	"github.com/youruser/mockupapp/internal/mockup"
)

// health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// templatesHandler lists catalog templates, optionally filtered by
// ?tags=a,b and ?q=free words.
func (s *Server) templatesHandler(c *gin.Context) {
	if s.Catalog == nil {
		c.JSON(http.StatusOK, gin.H{"count": 0, "templates": []catalog.Template{}})
		return
	}
	var opt catalog.FilterOptions
	if tags := c.Query("tags"); tags != "" {
		opt.Tags = strings.Split(tags, ",")
	}
	opt.FreeWords = c.Query("q")
	out := catalog.Filter(s.Catalog.Templates, opt)
	c.JSON(http.StatusOK, gin.H{"count": len(out), "templates": out})
}

// mockupHandler renders an uploaded template and mask. Form fields: template,
// mask (files), quad, optional blend and color, and the artwork as an
// "artwork" file, "artwork_url" or "qr_text".
func (s *Server) mockupHandler(c *gin.Context) {
	dir, err := s.workDir()
	if err != nil {
		s.fail(c, err)
		return
	}
	defer os.RemoveAll(dir)

	template, err := saveUpload(c, dir, "template")
	if err != nil {
		s.fail(c, err)
		return
	}
	mask, err := saveUpload(c, dir, "mask")
	if err != nil {
		s.fail(c, err)
		return
	}
	quad, err := domain.ParseQuad(c.PostForm("quad"))
	if err != nil {
		s.fail(c, err)
		return
	}

	settings := mockup.DefaultSettings()
	if v := c.PostForm("color"); v != "" {
		col, err := domain.ParseColor(v)
		if err != nil {
			s.fail(c, badRequest(err))
			return
		}
		settings.AdjustColor = col
	}
	blend := domain.ModeOver
	if v := c.PostForm("blend"); v != "" {
		if blend, err = domain.ParseMode(v); err != nil {
			s.fail(c, err)
			return
		}
	}

	art, err := s.artwork(c, dir)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.render(c, mockup.Job{
		Name:     "upload",
		Template: template,
		Mask:     mask,
		Artwork:  art,
		Quad:     quad,
		Blend:    blend,
		Out:      filepath.Join(dir, "mockup.png"),
		Settings: settings,
	})
}

// templateMockupHandler renders artwork onto a catalog template, reusing its
// precomputed maps when they exist.
func (s *Server) templateMockupHandler(c *gin.Context) {
	name := c.Param("name")
	var t catalog.Template
	ok := false
	if s.Catalog != nil {
		t, ok = s.Catalog.Lookup(name)
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("template %q not found", name)})
		return
	}

	dir, err := s.workDir()
	if err != nil {
		s.fail(c, err)
		return
	}
	defer os.RemoveAll(dir)

	art, err := s.artwork(c, dir)
	if err != nil {
		s.fail(c, err)
		return
	}
	job := s.Catalog.Job(t, art, filepath.Join(dir, "mockup.png"))
	if maps := mockup.MapPaths(s.Catalog.MapDir(), t.Name); s.Pipeline.Reusable(c.Request.Context(), job.Template, maps) {
		job.Maps = &maps
	}
	s.render(c, job)
}

// qr endpoint returns a PNG of a QR for "text" query param
func qrHandler(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	size := artwork.DefaultQRSize
	if v := c.Query("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > artwork.MaxQRSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "size must be between 1 and " + strconv.Itoa(artwork.MaxQRSize)})
			return
		}
		size = n
	}
	b, err := artwork.GenerateQRPNG(text, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

func (s *Server) artwork(c *gin.Context, dir string) (string, error) {
	if _, err := c.FormFile("artwork"); err == nil {
		return saveUpload(c, dir, "artwork")
	}
	src := artwork.Source{URL: c.PostForm("artwork_url"), QRText: c.PostForm("qr_text")}
	return src.Materialize(c.Request.Context(), dir)
}

func (s *Server) render(c *gin.Context, job mockup.Job) {
	if _, err := s.Pipeline.Run(c.Request.Context(), job); err != nil {
		s.fail(c, err)
		return
	}
	b, err := os.ReadFile(job.Out)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

var uploadExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true}

// saveUpload stores form file field under dir with a fixed name, keeping only
// known image extensions.
func saveUpload(c *gin.Context, dir, field string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", badRequest(fmt.Errorf("%s: %w", field, err))
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !uploadExts[ext] {
		ext = ".png"
	}
	p := filepath.Join(dir, field+ext)
	if err := c.SaveUploadedFile(fh, p); err != nil {
		return "", fmt.Errorf("save %s: %w", field, err)
	}
	return p, nil
}

func badRequest(err error) error {
	var oe *domain.OpError
	if errors.As(err, &oe) && oe.Kind == domain.KindInvalidRequest {
		return err
	}
	return &domain.OpError{Op: "api.request", Kind: domain.KindInvalidRequest, Err: err}
}
