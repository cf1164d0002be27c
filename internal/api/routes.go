package api

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine, s *Server) {
	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.GET("/templates", s.templatesHandler)
		api.POST("/templates/:name/mockup", s.templateMockupHandler)
		api.POST("/mockup", s.mockupHandler)
		api.GET("/qr", qrHandler)
	}
}

// NewRouter builds a gin engine with the API mounted and logrus request
// logging.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.MaxMultipartMemory = 32 << 20
	RegisterRoutes(r, s)
	return r
}
