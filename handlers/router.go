package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// CORSOptions allows GET requests with credentials from any origin. The
// request origin and the requested headers are echoed back because browsers
// do not treat "*" as a wildcard on credentialed requests.
func CORSOptions() cors.Options {
	return cors.Options{
		AllowOriginFunc:      func(origin string) bool { return true },
		AllowedMethods:       []string{http.MethodGet},
		AllowedHeaders:       []string{"*"},
		AllowCredentials:     true,
		MaxAge:               600,
		OptionsSuccessStatus: http.StatusNoContent,
	}
}

// CORS adapts an rs/cors policy to gin. Preflight requests are answered here
// and never reach the routes.
func CORS(opts cors.Options) gin.HandlerFunc {
	policy := cors.New(opts)
	return func(c *gin.Context) {
		policy.HandlerFunc(c.Writer, c.Request)
		if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// NewRouter wires the API routes to the handler
func NewRouter(h *APIHandler) *gin.Engine {
	router := gin.Default()
	router.HandleMethodNotAllowed = true
	router.Use(CORS(CORSOptions()))

	router.GET("/", h.Root)

	api := router.Group("/api")
	{
		api.GET("", h.GetMarks)
		api.GET("/ping", h.Ping)
	}

	return router
}
