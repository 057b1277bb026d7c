package scorer

import "regexp"

// All hand-tuned keyword lists and thresholds for the 100-point rubric live
// here so they can be tuned and tested independently of the scoring control
// flow.

// Structure: achievement recognition.
var achievementKeywords = []string{
	"congratulations", "impressive", "notable", "achievement",
	"success", "proud", "recognized",
}

const (
	achievementConfidenceBar  = 70
	achievementVerbatimPoints = 10
	achievementKeywordPoints  = 8
	achievementWeakPoints     = 4
	achievementGenericPoints  = 7
	achievementMissingPoints  = 3
)

// Structure: industry context. Reference customers are matched against the
// lowercased email.
var (
	referenceCustomers = []string{"home credit", "rohlik", "p3 logistic", "brix"}
	industryMetrics    = []string{"70%", "80%", "50%", "reduction", "unified data", "days vs months"}
	dataPlatformTerms  = []string{"data platform", "data stack", "data operations", "analytics"}
)

// Structure: value proposition. Raw calculation reaches 10, capped at 8.
var (
	valueActionPhrases  = []string{"help you", "achieve similar", "opportunities", "optimize", "streamline"}
	genericValuePhrases = []string{"data costs", "efficiency", "operations", "similar results"}
)

const valuePropositionCap = 8

// Structure: call-to-action patterns, matched against the lowercased email.
var ctaPatterns = []*regexp.Regexp{
	regexp.MustCompile(`15[-\s]?minute call`),
	regexp.MustCompile(`brief call`),
	regexp.MustCompile(`quick call`),
	regexp.MustCompile(`demo`),
	regexp.MustCompile(`consultation`),
	regexp.MustCompile(`meeting`),
	regexp.MustCompile(`discuss`),
	regexp.MustCompile(`explore`),
}

// Personalization: LinkedIn confidence banding.
const (
	linkedInHighConfidence   = 90
	linkedInMediumConfidence = 70
	linkedInHighPoints       = 12
	linkedInMediumPoints     = 10
	linkedInLowPoints        = 6
)

// Personalization: company research depth. Raw calculation reaches 10,
// capped at 8.
var softResearchPhrases = []string{"impressive work", "doing well"}

const companyResearchCap = 8

// Personalization: role relevance.
var (
	technicalRoles    = []string{"cto", "engineer", "developer", "architect", "technical", "data"}
	businessRoles     = []string{"ceo", "cmo", "vp", "director", "manager", "head"}
	technicalKeywords = []string{"technical", "integration", "api", "automation", "platform"}
	businessKeywords  = []string{"business", "roi", "efficiency", "costs", "revenue"}
)

// Message: tone and flow. Raw calculation reaches 15, capped at 12.
var (
	greetingPattern = regexp.MustCompile(`Hi [A-Z][a-z]+,`)
	closingPattern  = regexp.MustCompile(`Best regards|Best|Regards|Sincerely`)
	transitionWords = []string{"given", "since", "because", "therefore", "recently", "we helped"}
	// Matched against the lowercased email, so the capitalized entries can
	// never hit and only "would you" and "given your" can earn the bonus.
	conversationalPhrases = []string{"I believe", "would you", "I noticed", "given your"}
)

const toneFlowCap = 12

// Message: length and crispness. Raw calculation reaches 10, capped at 8.
const lengthCrispnessCap = 8

// Message: subject line.
const subjectMarker = "Subject:"

var subjectValueWords = []string{"50%", "70%", "80%", "cut costs", "reduce", "data"}

// Selling intent: keyword coverage banding and use-case vocabularies.
const intentMinKeywordLen = 2

var (
	coffeeContextTerms   = []string{"facilities", "consumption", "maintenance", "machine"}
	coffeeAnalyticsTerms = []string{"predictive", "analytics", "monitoring"}
	crmContextTerms      = []string{"customer", "segmentation", "lead scoring"}
	supplyChainTerms     = []string{"supply chain", "logistics", "inventory"}
	supplyChainValue     = []string{"optimization", "visibility", "tracking"}
	genericPlatformTerms = []string{"generic data", "data transformation", "analytics platform"}
)
