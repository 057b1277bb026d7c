package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/manana2520/ai-agent-outreach-email/internal/domain"
	"github.com/manana2520/ai-agent-outreach-email/internal/scorer"
)

type ScoreHandler struct {
	scorer *scorer.Scorer
}

func NewScoreHandler(s *scorer.Scorer) *ScoreHandler {
	return &ScoreHandler{scorer: s}
}

// ScoreRequest carries a generated email and the prospect it was written
// for. Research metadata is optional; a zero value means no verified
// research backs the email.
type ScoreRequest struct {
	Email    string                  `json:"email" binding:"required"`
	Prospect domain.ProspectInput    `json:"prospect" binding:"required"`
	Research domain.ResearchMetadata `json:"research"`
}

type ScoreResponse struct {
	Score       domain.ScoreBreakdown `json:"score"`
	Passed      bool                  `json:"passed"`
	Regenerate  bool                  `json:"regenerate"`
	Verdict     string                `json:"verdict"`
	Suggestions map[string]string     `json:"suggestions"`
}

func (h *ScoreHandler) Score(c *gin.Context) {
	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Prospect.FirstName == "" || req.Prospect.Company == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prospect first_name and company are required"})
		return
	}

	score := h.scorer.Score(req.Email, req.Research, req.Prospect)
	regenerate, verdict := scorer.ShouldRegenerate(score)

	c.JSON(http.StatusOK, ScoreResponse{
		Score:       score,
		Passed:      score.Total >= domain.QualityThreshold,
		Regenerate:  regenerate,
		Verdict:     verdict,
		Suggestions: scorer.ImprovementSuggestions(score),
	})
}
