package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sodiqltd/stockboard/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.TableHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.POST("/sessions", handler.CreateSession)
	r.DELETE("/sessions/:id", handler.CloseSession)

	session := r.Group("/sessions/:id")
	{
		session.GET("/view", handler.View)
		session.POST("/search", handler.Search)
		session.POST("/page", handler.ChangePage)
		session.POST("/page-size", handler.ChangePageSize)

		session.POST("/edit", handler.BeginEdit)
		session.POST("/edit/field", handler.EditField)
		session.POST("/edit/commit", handler.Commit)
		session.POST("/edit/cancel", handler.CancelEdit)

		session.POST("/delete", handler.BeginDelete)
		session.POST("/delete/confirm", handler.ConfirmDelete)
		session.POST("/delete/cancel", handler.CancelDelete)

		session.POST("/add", handler.BeginCreate)
		session.POST("/items", handler.CreateItem)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
