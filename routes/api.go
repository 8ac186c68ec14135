package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/pnu-resolver/app/controllers"
)

// SetupAPIRoutes registers the versioned API surface.
func SetupAPIRoutes(router *gin.Engine, resolveController *controllers.ResolveController, adminController *controllers.AdminController) {
	v1 := router.Group("/v1")
	{
		pnu := v1.Group("/pnu")
		{
			pnu.GET("/resolve", resolveController.ResolveGet)
			pnu.POST("/resolve", resolveController.ResolvePost)
			pnu.POST("/jobs", resolveController.BatchResolve)
			pnu.GET("/jobs/:jobID/status", resolveController.GetJobStatus)
			pnu.GET("/jobs/:jobID/results", resolveController.GetJobResults)
		}

		admin := v1.Group("/admin")
		{
			admin.GET("/stats", adminController.GetStats)
			admin.POST("/cache/invalidate", adminController.InvalidateCache)
			admin.POST("/cache/clear", adminController.ClearCache)
			admin.GET("/export/:type", adminController.ExportData)
		}

		v1.GET("/health", resolveController.HealthCheck)
	}
}

// SetupHealthRoutes registers the unversioned probes.
func SetupHealthRoutes(router *gin.Engine, resolveController *controllers.ResolveController) {
	router.GET("/health", resolveController.HealthCheck)
	router.GET("/ready", resolveController.HealthCheck)
	router.GET("/live", resolveController.HealthCheck)
}

// SetupAllRoutes wires middleware and every route group.
func SetupAllRoutes(router *gin.Engine, resolveController *controllers.ResolveController, adminController *controllers.AdminController) {
	setupMiddleware(router)

	SetupWebRoutes(router)
	SetupHealthRoutes(router, resolveController)
	SetupAPIRoutes(router, resolveController, adminController)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":  "Route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})
}

func setupMiddleware(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(corsMiddleware())
}

// corsMiddleware allows browser clients from any origin; the API carries no
// credentials.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
