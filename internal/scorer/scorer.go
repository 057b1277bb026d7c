package scorer

import (
	"strings"
	"unicode"

	"github.com/manana2520/ai-agent-outreach-email/internal/domain"
)

// Scorer computes the 100-point quality score for a generated outreach
// email. Scoring is pure and deterministic: the same (email, research,
// input) triple always yields the same breakdown, and no external calls are
// made.
//
// Breakdown: structure 35, personalization 25, message 25, selling-intent
// compliance 15.
type Scorer struct{}

func New() *Scorer {
	return &Scorer{}
}

// Score evaluates an email against the rubric. Sparse inputs are fine:
// empty strings and zero-valued research metadata score low, never panic.
func (s *Scorer) Score(email string, research domain.ResearchMetadata, input domain.ProspectInput) domain.ScoreBreakdown {
	structure := s.scoreStructure(email, research, input)
	personalization := s.scorePersonalization(email, research, input)
	message := s.scoreMessage(email, input)
	intent := s.scoreSellingIntent(email, input)

	return domain.ScoreBreakdown{
		Total:           structure.Total + personalization.Total + message.Total + intent.Total,
		Structure:       structure,
		Personalization: personalization,
		Message:         message,
		Intent:          intent,
	}
}

// Structure compliance: 35 points total.
func (s *Scorer) scoreStructure(email string, research domain.ResearchMetadata, input domain.ProspectInput) domain.DimensionScore {
	details := make(map[string]int)
	total := 0

	// Capitalized first name in the greeting (5 points).
	firstName := strings.TrimSpace(input.FirstName)
	if firstName != "" && startsUpper(firstName) && strings.Contains(email, "Hi "+firstName) {
		details["first_name"] = 5
	} else {
		details["first_name"] = 0
	}
	total += details["first_name"]

	// Achievement recognition (10 points).
	details["achievement"] = scoreAchievement(email, research)
	total += details["achievement"]

	// Industry context (10 points).
	details["industry_context"] = scoreIndustryContext(email)
	total += details["industry_context"]

	// Value proposition (raw 10, capped at 8).
	details["value_proposition"] = min(valuePropositionCap, scoreValueProposition(email, input))
	total += details["value_proposition"]

	// Call-to-action (5 points).
	details["call_to_action"] = scoreCallToAction(email)
	total += details["call_to_action"]

	return domain.DimensionScore{Total: total, Details: details}
}

func scoreAchievement(email string, research domain.ResearchMetadata) int {
	emailLower := strings.ToLower(email)

	hasKeyword := containsAny(emailLower, achievementKeywords)

	if research.LinkedInConfidence >= achievementConfidenceBar {
		// High confidence demands a specific achievement mention.
		if hasKeyword && len(research.Achievements) > 0 {
			for _, ach := range head(research.Achievements, 3) {
				if strings.Contains(emailLower, strings.ToLower(ach)) {
					return achievementVerbatimPoints
				}
			}
			return achievementKeywordPoints
		}
		return achievementWeakPoints
	}

	// Generic pleasing is acceptable for low confidence.
	if hasKeyword {
		return achievementGenericPoints
	}
	return achievementMissingPoints
}

func scoreIndustryContext(email string) int {
	emailLower := strings.ToLower(email)

	if containsAny(emailLower, referenceCustomers) {
		return 10
	}
	if containsAny(emailLower, industryMetrics) {
		return 8
	}
	if containsAny(emailLower, dataPlatformTerms) {
		return 5
	}
	return 0
}

func scoreValueProposition(email string, input domain.ProspectInput) int {
	emailLower := strings.ToLower(email)

	if strings.Contains(emailLower, strings.ToLower(input.Company)) {
		if containsAny(emailLower, valueActionPhrases) {
			return 10
		}
	}
	if containsAny(emailLower, genericValuePhrases) {
		return 6
	}
	return 0
}

func scoreCallToAction(email string) int {
	emailLower := strings.ToLower(email)
	for _, pattern := range ctaPatterns {
		if pattern.MatchString(emailLower) {
			return 5
		}
	}
	return 0
}

// Personalization quality: 25 points total.
func (s *Scorer) scorePersonalization(email string, research domain.ResearchMetadata, input domain.ProspectInput) domain.DimensionScore {
	details := make(map[string]int)
	total := 0

	// LinkedIn confidence banding (12 points).
	switch {
	case research.LinkedInConfidence >= linkedInHighConfidence:
		details["linkedin_confidence"] = linkedInHighPoints
	case research.LinkedInConfidence >= linkedInMediumConfidence:
		details["linkedin_confidence"] = linkedInMediumPoints
	default:
		details["linkedin_confidence"] = linkedInLowPoints
	}
	total += details["linkedin_confidence"]

	// Company research depth (raw 10, capped at 8).
	details["company_research"] = min(companyResearchCap, scoreCompanyResearch(email, research))
	total += details["company_research"]

	// Role relevance (5 points).
	details["role_relevance"] = scoreRoleRelevance(email, input)
	total += details["role_relevance"]

	return domain.DimensionScore{Total: total, Details: details}
}

func scoreCompanyResearch(email string, research domain.ResearchMetadata) int {
	switch {
	case len(research.CompanyAchievements) >= 2:
		return 10
	case len(research.CompanyAchievements) == 1:
		return 7
	case containsAny(strings.ToLower(email), softResearchPhrases):
		return 4
	}
	return 0
}

func scoreRoleRelevance(email string, input domain.ProspectInput) int {
	title := strings.ToLower(input.Title)
	emailLower := strings.ToLower(email)

	switch {
	case containsAny(title, technicalRoles):
		if containsAny(emailLower, technicalKeywords) {
			return 5
		}
	case containsAny(title, businessRoles):
		if containsAny(emailLower, businessKeywords) {
			return 5
		}
	default:
		// Unmatched role: either vocabulary counts.
		if containsAny(emailLower, technicalKeywords) || containsAny(emailLower, businessKeywords) {
			return 4
		}
	}

	// Floor for reasonable messaging.
	return 2
}

// Message quality: 25 points total.
func (s *Scorer) scoreMessage(email string, input domain.ProspectInput) domain.DimensionScore {
	details := make(map[string]int)
	total := 0

	// Tone and flow (raw 15, capped at 12).
	details["tone_flow"] = min(toneFlowCap, scoreToneAndFlow(email))
	total += details["tone_flow"]

	// Length and crispness (raw 10, capped at 8).
	details["length_crispness"] = min(lengthCrispnessCap, scoreLengthAndCrispness(email))
	total += details["length_crispness"]

	// Subject line impact (5 points).
	details["subject_line"] = scoreSubjectLine(email, input)
	total += details["subject_line"]

	return domain.DimensionScore{Total: total, Details: details}
}

func scoreToneAndFlow(email string) int {
	emailLower := strings.ToLower(email)
	score := 0

	if greetingPattern.MatchString(email) {
		score += 3
	}
	if containsAny(emailLower, transitionWords) {
		score += 4
	}
	if closingPattern.MatchString(email) {
		score += 3
	}
	if containsAny(emailLower, conversationalPhrases) {
		score += 5
	}

	return min(score, 15)
}

func scoreLengthAndCrispness(email string) int {
	words := len(strings.Fields(email))
	paragraphs := 0
	for _, p := range strings.Split(email, "\n\n") {
		if strings.TrimSpace(p) != "" {
			paragraphs++
		}
	}

	var wordScore int
	switch {
	case words >= 120 && words <= 180:
		wordScore = 5
	case words >= 100 && words <= 220:
		wordScore = 3
	default:
		wordScore = 1
	}

	var paraScore int
	switch {
	case paragraphs >= 4 && paragraphs <= 6:
		paraScore = 5
	case paragraphs >= 3 && paragraphs <= 7:
		paraScore = 3
	default:
		paraScore = 1
	}

	return wordScore + paraScore
}

func scoreSubjectLine(email string, input domain.ProspectInput) int {
	subject := extractSubjectLine(email)
	if subject == "" {
		return 0
	}

	score := 0
	if strings.Contains(subject, input.FirstName) {
		score += 2
	}
	if strings.Contains(subject, input.Company) {
		score += 1
	}
	if containsAny(strings.ToLower(subject), subjectValueWords) {
		score += 2
	}

	return min(score, 5)
}

func extractSubjectLine(email string) string {
	for _, line := range strings.Split(strings.TrimSpace(email), "\n") {
		if strings.HasPrefix(line, subjectMarker) {
			return strings.TrimSpace(strings.TrimPrefix(line, subjectMarker))
		}
	}
	return ""
}

// Selling-intent compliance: 15 points total. This dimension is critical:
// the test runner fails any email scoring below 12 here when an intent was
// supplied.
func (s *Scorer) scoreSellingIntent(email string, input domain.ProspectInput) domain.DimensionScore {
	details := make(map[string]int)

	intent := strings.ToLower(strings.TrimSpace(input.SellingIntent))
	emailLower := strings.ToLower(email)

	if intent == "" {
		// No specific intent: a generic approach is acceptable.
		details["keyword_coverage"] = domain.MaxIntentScore
		return domain.DimensionScore{Total: domain.MaxIntentScore, Details: details}
	}

	keywords := IntentKeywords(intent)

	// Keyword coverage (8 points).
	found := 0
	for _, kw := range keywords {
		if strings.Contains(emailLower, kw) {
			found++
		}
	}
	var coverage float64
	if len(keywords) > 0 {
		coverage = float64(found) / float64(len(keywords))
	}

	var keywordScore int
	switch {
	case coverage >= 0.8:
		keywordScore = 8
	case coverage >= 0.6:
		keywordScore = 6
	case coverage >= 0.4:
		keywordScore = 4
	case coverage >= 0.2:
		keywordScore = 2
	}
	details["keyword_coverage"] = keywordScore

	// Specific use-case focus (5 points).
	useCase := scoreUseCaseFocus(intent, emailLower, keywords)
	details["use_case_focus"] = min(5, useCase)

	// Penalty for generic data-platform messaging when a specific intent was
	// given.
	penalty := genericMessagingPenalty(intent, emailLower)
	details["generic_penalty"] = penalty

	total := keywordScore + details["use_case_focus"] + penalty
	if total < 0 {
		total = 0
	}

	return domain.DimensionScore{Total: total, Details: details}
}

// IntentKeywords tokenizes a selling intent into the words the coverage and
// critical-failure checks look for, skipping words of two characters or
// fewer.
func IntentKeywords(intent string) []string {
	var keywords []string
	for _, word := range strings.Fields(intent) {
		if len(word) > intentMinKeywordLen {
			keywords = append(keywords, word)
		}
	}
	return keywords
}

func scoreUseCaseFocus(intent, emailLower string, keywords []string) int {
	score := 0

	switch {
	case strings.Contains(intent, "coffee machine"):
		if strings.Contains(emailLower, "coffee") {
			score += 2
		}
		if containsAny(emailLower, coffeeContextTerms) {
			score += 2
		}
		if containsAny(emailLower, coffeeAnalyticsTerms) {
			score += 1
		}
	case strings.Contains(intent, "crm"):
		if strings.Contains(emailLower, "crm") {
			score += 3
		}
		if containsAny(emailLower, crmContextTerms) {
			score += 2
		}
	case strings.Contains(intent, "supply chain"):
		if containsAny(emailLower, supplyChainTerms) {
			score += 3
		}
		if containsAny(emailLower, supplyChainValue) {
			score += 2
		}
	default:
		if containsAny(emailLower, keywords) {
			score = 3
		}
	}

	return score
}

func genericMessagingPenalty(intent, emailLower string) int {
	if !strings.Contains(intent, "coffee machine") || strings.Contains(emailLower, "coffee") {
		return 0
	}
	if strings.Contains(emailLower, "data platform") {
		return -3
	}
	if containsAny(emailLower, genericPlatformTerms) {
		return -2
	}
	return 0
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

func head(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
