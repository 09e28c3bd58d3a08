// Package server wires the core's request mappers, model resolver,
// fallback controller, Gemini streaming client, and SSE re-emitters onto
// the five wire-stable dialect endpoints plus the supplemented management
// status endpoint (spec §6).
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/samkirk/gca-bridge/internal/fallback"
	"github.com/samkirk/gca-bridge/internal/gemini"
	"github.com/samkirk/gca-bridge/internal/registry"
	"github.com/samkirk/gca-bridge/internal/sigcache"
)

// Deps is every shared, process-wide collaborator a handler needs. All
// fields are required except Logger, which defaults to logrus's standard
// logger.
type Deps struct {
	Client   *gemini.Client
	Resolver *registry.Resolver
	Fallback *fallback.Controller
	Cooldown *registry.CooldownTracker
	SigCache *sigcache.Cache
	Logger   *logrus.Logger
}

// New builds the gin engine. Routes mirror the teacher's flat dialect
// prefixing (/openai/..., /anthropic/...) rather than API versioning by
// header, since the two upstream SDKs this proxy stands in for each
// expect their own fixed path family.
func New(deps Deps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(deps.Logger))

	h := &handlers{deps: deps}

	openaiGroup := r.Group("/openai/v1")
	{
		openaiGroup.POST("/chat/completions", h.chatCompletions)
		openaiGroup.POST("/responses", h.responses)
		openaiGroup.GET("/models", h.listModelsOpenAI)
	}

	anthropicGroup := r.Group("/anthropic/v1")
	{
		anthropicGroup.POST("/messages", h.messages)
		anthropicGroup.GET("/models", h.listModelsAnthropic)
	}

	r.GET("/status", h.status)

	return r
}

// requestLogger is a minimal structured-logging middleware in the
// teacher's logrus idiom: one line per request, fields instead of a
// formatted message.
func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		}).Info("request")
	}
}

type handlers struct {
	deps Deps
}
