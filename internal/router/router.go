package router

import (
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"

	"github.com/krishkumar84/assignmentDude/internal/handlers"
	"github.com/krishkumar84/assignmentDude/internal/session"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.String(429, "Too many requests. Try again later.")
}

// Setup wires the HTTP and WebSocket surface around the session registry.
func Setup(log *zap.Logger, registry *session.Registry) *gin.Engine {
	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})
	router.Use(func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		if err != nil {
			c.Abort()
			return
		}
	})

	// Handlers and routes
	sessionHandler := handlers.NewSessionHandler(log, registry)
	streamHandler := handlers.NewStreamHandler(log, registry)

	// Session creation is the only unauthenticated write path, keep it
	// rate limited per client.
	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 30,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: errorHandler,
		KeyFunc:      keyFunc,
	})

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Video Proctoring API is running"})
	})

	api := router.Group("/api")
	{
		api.POST("/session/start", limiter, sessionHandler.Start)
		api.POST("/session/:session_id/end", sessionHandler.End)
		api.GET("/session/:session_id/report", sessionHandler.Report)
		api.GET("/session/:session_id/report/html", sessionHandler.ReportHTML)
		api.GET("/session/:session_id/events.csv", sessionHandler.EventsCSV)
		api.GET("/sessions", sessionHandler.List)
	}

	router.GET("/ws/:session_id", streamHandler.Serve)

	return router
}
