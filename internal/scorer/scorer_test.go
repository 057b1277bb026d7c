package scorer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manana2520/ai-agent-outreach-email/internal/domain"
)

func testProspect() domain.ProspectInput {
	return domain.ProspectInput{
		FirstName: "Milan",
		LastName:  "Kulhanek",
		Title:     "Partner",
		Company:   "Deloitte",
	}
}

func TestScoreTotalSumsDimensions(t *testing.T) {
	s := New()
	email := "Subject: Deloitte data\n\nHi Milan,\n\nGiven your recent growth, I believe we can help you optimize operations.\n\nWould you be open to a quick call?\n\nBest regards,\nAlex"

	score := s.Score(email, domain.ResearchMetadata{LinkedInConfidence: 80}, testProspect())

	sum := score.Structure.Total + score.Personalization.Total + score.Message.Total + score.Intent.Total
	assert.Equal(t, sum, score.Total)
	assert.LessOrEqual(t, score.Structure.Total, domain.MaxStructureScore)
	assert.LessOrEqual(t, score.Personalization.Total, domain.MaxPersonalizationScore)
	assert.LessOrEqual(t, score.Message.Total, domain.MaxMessageScore)
	assert.LessOrEqual(t, score.Intent.Total, domain.MaxIntentScore)
}

func TestScoreDeterministic(t *testing.T) {
	s := New()
	email := "Subject: Hello\n\nHi Milan,\n\nWe helped Rohlik cut data costs by 50%. Would you be open to a 15-minute call?\n\nBest regards"
	research := domain.ResearchMetadata{LinkedInConfidence: 95, CompanyAchievements: []string{"Global leader"}}

	first := s.Score(email, research, testProspect())
	second := s.Score(email, research, testProspect())
	assert.Equal(t, first, second)
}

func TestFirstNameGreeting(t *testing.T) {
	s := New()

	score := s.Score("Hi Milan,\n\nbody", domain.ResearchMetadata{}, testProspect())
	assert.Equal(t, 5, score.StructureDetail("first_name"))

	lower := testProspect()
	lower.FirstName = "milan"
	score = s.Score("Hi milan,\n\nbody", domain.ResearchMetadata{}, lower)
	assert.Equal(t, 0, score.StructureDetail("first_name"))

	score = s.Score("Hello Milan\n\nbody", domain.ResearchMetadata{}, testProspect())
	assert.Equal(t, 0, score.StructureDetail("first_name"))
}

func TestAchievementRecognition(t *testing.T) {
	high := domain.ResearchMetadata{
		LinkedInConfidence: 80,
		Achievements:       []string{"winning the CX award"},
	}

	assert.Equal(t, 10, scoreAchievement("congratulations on winning the cx award", high))
	assert.Equal(t, 8, scoreAchievement("congratulations on the recent news", high))
	assert.Equal(t, 4, scoreAchievement("hello there", high))

	low := domain.ResearchMetadata{LinkedInConfidence: 40}
	assert.Equal(t, 7, scoreAchievement("impressive growth this year", low))
	assert.Equal(t, 3, scoreAchievement("hello there", low))
}

func TestIndustryContext(t *testing.T) {
	assert.Equal(t, 10, scoreIndustryContext("we helped rohlik scale"))
	assert.Equal(t, 8, scoreIndustryContext("a 70% cost improvement"))
	assert.Equal(t, 5, scoreIndustryContext("a modern data platform"))
	assert.Equal(t, 0, scoreIndustryContext("hello there"))
}

func TestValueProposition(t *testing.T) {
	s := New()

	// Company mention plus action phrase hits the raw maximum, capped at 8.
	input := testProspect()
	input.Company = "Acme Corp"
	score := s.Score("we can help you at Acme Corp", domain.ResearchMetadata{}, input)
	assert.Equal(t, 8, score.StructureDetail("value_proposition"))

	zed := testProspect()
	zed.Company = "Zed"
	assert.Equal(t, 6, scoreValueProposition("improve efficiency this quarter", zed))
	assert.Equal(t, 0, scoreValueProposition("hello there", zed))
}

func TestCallToAction(t *testing.T) {
	assert.Equal(t, 5, scoreCallToAction("schedule a 15-minute call"))
	assert.Equal(t, 5, scoreCallToAction("a 15 minute call next week"))
	assert.Equal(t, 5, scoreCallToAction("happy to explore this together"))
	assert.Equal(t, 0, scoreCallToAction("hello there"))
}

func TestLinkedInConfidenceBanding(t *testing.T) {
	s := New()
	for _, tc := range []struct {
		confidence int
		points     int
	}{
		{95, 12},
		{90, 12},
		{75, 10},
		{70, 10},
		{30, 6},
		{0, 6},
	} {
		score := s.Score("body", domain.ResearchMetadata{LinkedInConfidence: tc.confidence}, testProspect())
		assert.Equal(t, tc.points, score.Personalization.Details["linkedin_confidence"],
			"confidence %d", tc.confidence)
	}
}

func TestCompanyResearchDepth(t *testing.T) {
	s := New()

	two := domain.ResearchMetadata{CompanyAchievements: []string{"a", "b"}}
	score := s.Score("body", two, testProspect())
	assert.Equal(t, 8, score.Personalization.Details["company_research"])

	one := domain.ResearchMetadata{CompanyAchievements: []string{"a"}}
	assert.Equal(t, 7, scoreCompanyResearch("body", one))
	assert.Equal(t, 4, scoreCompanyResearch("impressive work on the launch", domain.ResearchMetadata{}))
	assert.Equal(t, 0, scoreCompanyResearch("body", domain.ResearchMetadata{}))
}

func TestRoleRelevance(t *testing.T) {
	cto := domain.ProspectInput{Title: "CTO"}
	assert.Equal(t, 5, scoreRoleRelevance("integration with your api", cto))
	assert.Equal(t, 2, scoreRoleRelevance("hello there", cto))

	ceo := domain.ProspectInput{Title: "CEO"}
	assert.Equal(t, 5, scoreRoleRelevance("improve roi this quarter", ceo))

	founder := domain.ProspectInput{Title: "Founder"}
	assert.Equal(t, 4, scoreRoleRelevance("a modern platform", founder))
	assert.Equal(t, 2, scoreRoleRelevance("hello there", founder))
}

func TestToneAndFlow(t *testing.T) {
	email := "Hi Milan,\n\nGiven your recent growth, I believe we can help.\n\nBest regards"
	assert.Equal(t, 15, scoreToneAndFlow(email))

	// Capped at 12 in the dimension breakdown.
	s := New()
	score := s.Score(email, domain.ResearchMetadata{}, testProspect())
	assert.Equal(t, 12, score.Message.Details["tone_flow"])

	assert.Equal(t, 0, scoreToneAndFlow("hello there"))
}

func TestToneAndFlowCasedPhrasesEarnNoBonus(t *testing.T) {
	// "I believe" and "I noticed" are cased candidates checked against the
	// lowercased email, so on their own they contribute nothing.
	assert.Equal(t, 0, scoreToneAndFlow("Hello,\n\nI believe this could work for your team.\n\nThanks"))

	// With greeting, transition, and closing present the conversational
	// bonus still stays off without a lowercase candidate phrase.
	assert.Equal(t, 10, scoreToneAndFlow("Hi Milan,\n\nI noticed the launch since then.\n\nBest regards"))
}

func TestLengthAndCrispness(t *testing.T) {
	paragraph := strings.TrimSpace(strings.Repeat("word ", 30))
	ideal := strings.Join([]string{paragraph, paragraph, paragraph, paragraph, paragraph}, "\n\n")
	assert.Equal(t, 10, scoreLengthAndCrispness(ideal))

	assert.Equal(t, 2, scoreLengthAndCrispness("short email"))
}

func TestSubjectLineScoring(t *testing.T) {
	input := domain.ProspectInput{FirstName: "Milan", Company: "Acme"}

	assert.Equal(t, 5, scoreSubjectLine("Subject: Milan, cut data costs for Acme\n\nbody", input))
	assert.Equal(t, 0, scoreSubjectLine("Subject: greetings\n\nbody", input))
	assert.Equal(t, 0, scoreSubjectLine("no subject here\n\nbody", input))
}

func TestIntentEmptyScoresFull(t *testing.T) {
	s := New()
	score := s.Score("any body at all", domain.ResearchMetadata{}, testProspect())
	assert.Equal(t, domain.MaxIntentScore, score.Intent.Total)
	assert.Equal(t, domain.MaxIntentScore, score.Intent.Details["keyword_coverage"])
}

func TestIntentCoffeeMachineCompliance(t *testing.T) {
	s := New()
	input := testProspect()
	input.SellingIntent = "coffee machine fleet analytics"

	email := "Hi Milan,\n\nYour coffee machine fleet generates data we can turn into predictive maintenance analytics.\n\nBest"
	score := s.Score(email, domain.ResearchMetadata{}, input)

	require.NotNil(t, score.Intent.Details)
	assert.Equal(t, 8, score.Intent.Details["keyword_coverage"])
	assert.Equal(t, 5, score.Intent.Details["use_case_focus"])
	assert.Equal(t, 0, score.Intent.Details["generic_penalty"])
	assert.Equal(t, 13, score.Intent.Total)
}

func TestIntentGenericMessagingPenalty(t *testing.T) {
	s := New()
	input := testProspect()
	input.SellingIntent = "coffee machine monitoring"

	// No intent keywords at all, generic platform pitch instead. The penalty
	// drives the clamped total to zero.
	email := "our data platform improves analytics"
	score := s.Score(email, domain.ResearchMetadata{}, input)

	assert.Equal(t, 0, score.Intent.Details["keyword_coverage"])
	assert.Equal(t, -3, score.Intent.Details["generic_penalty"])
	assert.Equal(t, 0, score.Intent.Total)
}

func TestIntentCRMFocus(t *testing.T) {
	s := New()
	input := testProspect()
	input.SellingIntent = "crm data analytics"

	email := "your crm holds customer data we can segment with analytics"
	score := s.Score(email, domain.ResearchMetadata{}, input)

	assert.Equal(t, 8, score.Intent.Details["keyword_coverage"])
	assert.Equal(t, 5, score.Intent.Details["use_case_focus"])
}

func TestIntentCoverageBanding(t *testing.T) {
	s := New()
	input := testProspect()
	input.SellingIntent = "marketing attribution insights"

	// Two of three keywords present: 66% coverage lands in the 0.6 band.
	email := "better marketing attribution for your team"
	score := s.Score(email, domain.ResearchMetadata{}, input)

	assert.Equal(t, 6, score.Intent.Details["keyword_coverage"])
	assert.Equal(t, 3, score.Intent.Details["use_case_focus"])
	assert.Equal(t, 9, score.Intent.Total)
}

func TestIntentKeywords(t *testing.T) {
	assert.Equal(t, []string{"crm", "data", "analytics", "and", "reporting"},
		IntentKeywords("crm data analytics and reporting"))

	// Words of two characters or fewer are skipped.
	assert.Equal(t, []string{"analytics"}, IntentKeywords("analytics to go"))
	assert.Nil(t, IntentKeywords(""))
}
