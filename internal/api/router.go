package api

import (
	"github.com/gin-gonic/gin"

	"github.com/manana2520/ai-agent-outreach-email/internal/api/handler"
	"github.com/manana2520/ai-agent-outreach-email/internal/runner"
	"github.com/manana2520/ai-agent-outreach-email/internal/scorer"
)

type Router struct {
	engine *gin.Engine
}

// NewRouter wires the scoring and suite endpoints. The suite endpoint
// invokes the generation pipeline, so it shares the runner used by the
// improvement CLI.
func NewRouter(s *scorer.Scorer, r *runner.Runner, targetPassRate float64) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())

	scoreHandler := handler.NewScoreHandler(s)
	suiteHandler := handler.NewSuiteHandler(r, targetPassRate)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := engine.Group("/api/v1")
	{
		v1.POST("/score", scoreHandler.Score)
		v1.POST("/suite", suiteHandler.Run)
	}

	return &Router{engine: engine}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
