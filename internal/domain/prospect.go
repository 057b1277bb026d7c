package domain

// ProspectInput identifies the personalization target for one outreach email.
// FirstName, LastName and Company are required; everything else defaults to
// the empty string.
type ProspectInput struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Company         string `json:"company"`
	Title           string `json:"title,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Country         string `json:"country,omitempty"`
	LinkedInProfile string `json:"linkedin_profile,omitempty"`
	SellingIntent   string `json:"selling_intent,omitempty"`
}

// FullName returns "First Last" for log lines and failure examples.
func (p ProspectInput) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// GenerationResult is the output of one generation attempt by the external
// pipeline. The Validated* fields stay nil unless the pipeline asserted high
// confidence in them.
type GenerationResult struct {
	SubjectLine              string  `json:"subject_line"`
	EmailBody                string  `json:"email_body"`
	FollowUpNotes            string  `json:"follow_up_notes"`
	ValidatedTitle           *string `json:"validated_title,omitempty"`
	ValidatedLinkedInProfile *string `json:"validated_linkedin_profile,omitempty"`
	ValidatedCountry         *string `json:"validated_country,omitempty"`
}

// ResearchMetadata carries the research signals the scorer uses to judge
// achievement recognition and personalization depth.
type ResearchMetadata struct {
	LinkedInConfidence  int      `json:"linkedin_confidence"`
	Achievements        []string `json:"achievements"`
	CompanyAchievements []string `json:"company_achievements"`
}
