package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NewServer creates the HTTP server with all routes configured.
func NewServer(handler *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	// Request ID for log correlation across upstream calls
	r.Use(func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)
		c.Next()
	})

	// CORS middleware for the dashboard front end
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler) {
	// File parsing endpoints
	r.GET("/proposals", handler.GetProposals)
	r.GET("/files/:name", handler.GetSourceFile)
	r.GET("/parser/health", handler.GetParserHealth)

	// Mensa endpoints
	r.GET("/mensa", handler.GetMensa)
	r.GET("/mensa/with-images", handler.GetMensaWithImages)

	// Deck endpoints
	r.GET("/tasks", handler.GetTasks)

	// News ticker
	r.GET("/news", handler.GetNews)

	// Liveness
	r.GET("/health", handler.GetHealth)

	// Root endpoint with basic information
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service":     "Wallboard API",
			"description": "Dashboard aggregation backend for Nextcloud files, Mensa menu, Deck tasks and news",
			"endpoints": map[string]string{
				"proposals":         "/proposals",
				"files":             "/files/<name>",
				"parser_health":     "/parser/health",
				"mensa":             "/mensa",
				"mensa_with_images": "/mensa/with-images",
				"tasks":             "/tasks",
				"news":              "/news",
				"health":            "/health",
			},
		})
	})

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}
