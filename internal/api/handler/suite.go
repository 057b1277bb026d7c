package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/manana2520/ai-agent-outreach-email/internal/domain"
	"github.com/manana2520/ai-agent-outreach-email/internal/runner"
)

type SuiteHandler struct {
	runner         *runner.Runner
	targetPassRate float64
}

func NewSuiteHandler(r *runner.Runner, targetPassRate float64) *SuiteHandler {
	return &SuiteHandler{runner: r, targetPassRate: targetPassRate}
}

// SuiteRequest carries an explicit prospect batch to run through the
// generation pipeline and score. Prompts are not modified.
type SuiteRequest struct {
	Prospects []domain.ProspectInput `json:"prospects" binding:"required"`
}

func (h *SuiteHandler) Run(c *gin.Context) {
	var req SuiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if len(req.Prospects) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one prospect is required"})
		return
	}
	for _, p := range req.Prospects {
		if p.FirstName == "" || p.LastName == "" || p.Company == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "each prospect needs first_name, last_name, and company"})
			return
		}
	}

	results := h.runner.RunSuite(c.Request.Context(), req.Prospects, h.targetPassRate)
	c.JSON(http.StatusOK, results)
}
