package prospects

import (
	"fmt"
	"math/rand"
	"strings"
	"unicode"

	"github.com/manana2520/ai-agent-outreach-email/internal/domain"
)

// Pools used to synthesize diverse test prospects. Diversity is spread
// across role types, industries, company sizes, geographies, and selling
// intents.
var (
	roles = map[string][]string{
		"technical": {"CTO", "VP Engineering", "Head of Data", "Director of Analytics", "Chief Data Officer"},
		"business":  {"CEO", "COO", "VP Operations", "Director of Business Operations", "Head of Strategy"},
		"executive": {"President", "Managing Director", "Partner", "General Manager", "EVP"},
	}

	roleTypes = []string{"technical", "business", "executive"}

	industries = []string{
		"technology", "financial services", "retail", "e-commerce",
		"logistics", "manufacturing", "consulting", "healthcare",
		"media", "telecommunications", "automotive", "insurance",
	}

	geographies = map[string][]string{
		"US":   {"United States", "New York", "San Francisco", "Chicago", "Boston", "Austin"},
		"EU":   {"London", "Berlin", "Paris", "Amsterdam", "Stockholm", "Dublin"},
		"APAC": {"Singapore", "Sydney", "Tokyo", "Hong Kong", "Bangalore"},
	}

	regions = []string{"US", "EU", "APAC"}

	// SellingIntents is the pool of concrete use cases assigned to test
	// prospects so intent compliance gets exercised across domains.
	SellingIntents = []string{
		"CRM data analytics and customer segmentation",
		"Supply chain optimization and visibility",
		"Financial reporting and FP&A automation",
		"E-commerce inventory and sales analytics",
		"Marketing attribution and ROI tracking",
		"Customer data platform consolidation",
		"Operational efficiency and cost reduction",
		"Multi-source data integration and reporting",
		"Product analytics and user behavior tracking",
		"Sales pipeline analytics and forecasting",
		"Real-time business intelligence dashboards",
		"Data warehouse modernization",
		"Compliance and regulatory reporting automation",
		"Predictive maintenance and IoT analytics",
		"HR analytics and workforce planning",
	}

	firstNames = []string{
		"Sarah", "Michael", "Jennifer", "David", "Emily", "James",
		"Jessica", "Robert", "Lisa", "William", "Amanda", "Christopher",
		"Michelle", "Daniel", "Melissa", "Matthew", "Stephanie", "Andrew",
	}

	lastNames = []string{
		"Johnson", "Smith", "Williams", "Brown", "Jones", "Garcia",
		"Miller", "Davis", "Rodriguez", "Martinez", "Anderson", "Taylor",
		"Thomas", "Moore", "Jackson", "Martin", "Lee", "Thompson",
	}

	companyPrefixes = []string{"Global", "Advanced", "Premier", "Summit", "Apex", "Vertex"}
	companySuffixes = []string{"Group", "Solutions", "Corporation", "Technologies", "Enterprises", "Systems"}
)

type template struct {
	role     string
	industry string
	region   string
	intent   string
}

// Generator synthesizes randomized but reproducible prospect batches.
type Generator struct {
	rng *rand.Rand
}

// New returns a generator seeded for reproducible batches. Pass a fixed
// seed in tests, time.Now().UnixNano() in production.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate produces n prospects with unique company names. When diverse
// is set, role types are distributed evenly before filling the remainder
// at random; the batch is shuffled afterwards so the distribution leaves
// no positional pattern.
func (g *Generator) Generate(n int, diverse bool) []domain.ProspectInput {
	var templates []template
	if diverse {
		templates = g.diverseTemplates(n)
	} else {
		for i := 0; i < n; i++ {
			templates = append(templates, g.randomTemplate())
		}
	}

	usedCompanies := make(map[string]bool)
	prospects := make([]domain.ProspectInput, 0, n)
	for _, t := range templates {
		p := g.synthesize(t, usedCompanies)
		usedCompanies[p.Company] = true
		prospects = append(prospects, p)
	}
	return prospects
}

func (g *Generator) diverseTemplates(n int) []template {
	var templates []template

	perType := n / len(roleTypes)
	for _, roleType := range roleTypes {
		for i := 0; i < perType; i++ {
			templates = append(templates, template{
				role:     g.pick(roles[roleType]),
				industry: g.pick(industries),
				region:   g.pick(regions),
				intent:   g.pick(SellingIntents),
			})
		}
	}
	for len(templates) < n {
		templates = append(templates, g.randomTemplate())
	}

	g.rng.Shuffle(len(templates), func(i, j int) {
		templates[i], templates[j] = templates[j], templates[i]
	})
	return templates
}

func (g *Generator) randomTemplate() template {
	roleType := g.pick(roleTypes)
	return template{
		role:     g.pick(roles[roleType]),
		industry: g.pick(industries),
		region:   g.pick(regions),
		intent:   g.pick(SellingIntents),
	}
}

func (g *Generator) synthesize(t template, usedCompanies map[string]bool) domain.ProspectInput {
	company := fmt.Sprintf("%s %s %s", g.pick(companyPrefixes), titleCase(t.industry), g.pick(companySuffixes))

	base := company
	for counter := 1; usedCompanies[company]; counter++ {
		company = fmt.Sprintf("%s %d", base, counter)
	}

	return domain.ProspectInput{
		FirstName:     g.pick(firstNames),
		LastName:      g.pick(lastNames),
		Title:         t.role,
		Company:       company,
		Country:       g.pick(geographies[t.region]),
		SellingIntent: t.intent,
	}
}

func (g *Generator) pick(pool []string) string {
	return pool[g.rng.Intn(len(pool))]
}

// titleCase capitalizes the letter starting each word, treating any
// non-letter as a word boundary ("e-commerce" becomes "E-Commerce").
func titleCase(s string) string {
	var sb strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				sb.WriteRune(unicode.ToLower(r))
			} else {
				sb.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			sb.WriteRune(r)
			prevLetter = false
		}
	}
	return sb.String()
}
