package pipeline

import (
	"context"

	"github.com/manana2520/ai-agent-outreach-email/internal/domain"
)

// Generator produces one personalized email for a prospect. The production
// implementation shells out to the external agent pipeline; tests substitute
// fakes.
type Generator interface {
	Generate(ctx context.Context, prospect domain.ProspectInput) (*domain.GenerationResult, error)
}
