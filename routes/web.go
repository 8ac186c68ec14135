package routes

import (
	"github.com/gin-gonic/gin"
)

// SetupWebRoutes registers the informational pages.
func SetupWebRoutes(router *gin.Engine) {
	web := router.Group("/")
	{
		web.GET("/", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"message": "PNU Resolver Service",
				"version": "1.0.0",
				"docs":    "/docs",
			})
		})

		web.GET("/docs", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"api": "PNU Resolver API v1",
				"endpoints": map[string]string{
					"resolve":     "GET /v1/pnu/resolve?q=...",
					"resolve_alt": "POST /v1/pnu/resolve",
					"batch":       "POST /v1/pnu/jobs",
					"job_status":  "GET /v1/pnu/jobs/:jobID/status",
					"job_results": "GET /v1/pnu/jobs/:jobID/results",
					"health":      "GET /v1/health",
				},
			})
		})
	}
}
