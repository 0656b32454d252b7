// Package classify assigns a content category, sub-category, and visibility
// decision to a story using weighted keyword dictionaries.
package classify

import (
	"strings"
)

// Category names.
const (
	CategoryGovernment    = "Government"
	CategoryPolitical     = "Political"
	CategoryEntertainment = "Entertainment"
	CategorySports        = "Sports"
	CategoryCrime         = "Crime"
	CategoryBusiness      = "Business"
	CategoryInternational = "International"
	CategoryOther         = "Other"
)

// Government sub-categories.
const (
	SubSchemeImplementation = "Scheme Implementation"
	SubPolicyAnnouncement   = "Policy Announcement"
	SubPublicGrievance      = "Public Grievance"
	SubInfrastructure       = "Infrastructure Project"
	SubMisinformation       = "Misinformation Alert"
	SubGovernmentServices   = "Government Services"
)

const (
	officialSourceBoost = 20
	schemeKeywordBoost  = 10
)

// Result is the categorization verdict for one story.
type Result struct {
	Category    string   `json:"category"`
	SubCategory string   `json:"sub_category"`
	Confidence  float64  `json:"confidence"`
	Keywords    []string `json:"keywords"`
	ShouldShow  bool     `json:"should_show"`
}

// Default is the verdict used when categorization cannot run.
func Default() Result {
	return Result{Category: CategoryOther, SubCategory: "", Confidence: 0, Keywords: []string{}, ShouldShow: false}
}

// weightedTerm is one dictionary entry.
type weightedTerm struct {
	term   string
	weight int
}

// categoryOrder fixes tie-breaking: earlier categories win equal scores.
var categoryOrder = []string{
	CategoryGovernment, CategoryPolitical, CategoryCrime, CategoryBusiness,
	CategoryInternational, CategorySports, CategoryEntertainment,
}

// categoryTerms are the weighted dictionaries. Hindi terms sit alongside
// English ones because regional items may skip translation.
var categoryTerms = map[string][]weightedTerm{
	CategoryGovernment: {
		{"government scheme", 3}, {"yojana", 3}, {"ministry", 3}, {"cabinet", 3},
		{"government", 2}, {"minister", 2}, {"parliament", 2}, {"policy", 2},
		{"subsidy", 2}, {"beneficiary", 2}, {"notification", 1}, {"tender", 1},
		{"gazette", 2}, {"niti aayog", 3}, {"pib", 3},
		{"सरकार", 2}, {"योजना", 3}, {"मंत्रालय", 3}, {"मंत्री", 2}, {"संसद", 2},
	},
	CategoryPolitical: {
		{"election", 3}, {"poll", 2}, {"campaign", 2}, {"party", 1},
		{"opposition", 2}, {"alliance", 2}, {"manifesto", 3}, {"rally", 2},
		{"vote", 2}, {"constituency", 2}, {"bjp", 2}, {"congress", 2},
		{"चुनाव", 3}, {"मतदान", 2}, {"रैली", 2},
	},
	CategoryEntertainment: {
		{"bollywood", 3}, {"film", 2}, {"movie", 2}, {"actor", 2}, {"actress", 2},
		{"box office", 3}, {"trailer", 2}, {"celebrity", 2}, {"web series", 2},
		{"फिल्म", 2}, {"अभिनेता", 2},
	},
	CategorySports: {
		{"cricket", 3}, {"match", 2}, {"tournament", 2}, {"olympics", 2},
		{"world cup", 3}, {"ipl", 3}, {"football", 2}, {"medal", 2},
		{"khelo india", 3}, {"क्रिकेट", 3}, {"मैच", 2},
	},
	CategoryCrime: {
		{"arrested", 3}, {"murder", 3}, {"theft", 2}, {"fraud", 2}, {"police", 2},
		{"fir", 2}, {"custody", 2}, {"raid", 2}, {"smuggling", 2},
		{"गिरफ्तार", 3}, {"हत्या", 3}, {"पुलिस", 2},
	},
	CategoryBusiness: {
		{"stock market", 3}, {"sensex", 3}, {"nifty", 3}, {"ipo", 2},
		{"startup", 2}, {"investment", 2}, {"quarterly results", 3},
		{"merger", 2}, {"gdp", 2}, {"inflation", 2}, {"rbi", 2},
		{"शेयर बाजार", 3}, {"निवेश", 2},
	},
	CategoryInternational: {
		{"united nations", 3}, {"white house", 3}, {"kremlin", 3},
		{"bilateral", 2}, {"summit", 2}, {"foreign", 2}, {"embassy", 2},
		{"visa", 1}, {"nato", 2}, {"g20", 2},
	},
}

// grievanceTerms drive the Public Grievance sub-category and the negative
// side of visibility exceptions.
var grievanceTerms = []string{
	"complaint", "grievance", "delay", "pending", "denied", "corruption",
	"protest", "shortage", "शिकायत", "देरी", "भ्रष्टाचार",
}

var infrastructureTerms = []string{
	"highway", "expressway", "railway line", "metro", "bridge", "airport",
	"port", "corridor", "construction", "inaugurat", "foundation stone",
}

var misinformationTerms = []string{
	"fake news", "fact check", "misinformation", "fake circular",
	"fraudulent scheme", "fake website", "clarification issued",
}

var policyTerms = []string{
	"policy", "bill", "act", "amendment", "cabinet approves", "notification",
	"guidelines", "regulation",
}

var schemeImplTerms = []string{
	"yojana", "scheme", "beneficiar", "enrollment", "enrolment", "disbursed",
	"installment", "instalment", "coverage",
}

// Visibility exception markers per the decision table.
var governmentResponseMarkers = []string{
	"government response", "ministry said", "ministry statement",
	"minister said", "official statement", "government clarified",
}

var sportsGovernmentMarkers = []string{
	"khelo india", "sports ministry", "ministry of youth affairs",
	"sports authority of india",
}

var crimeGovernmentMarkers = []string{
	"compensation announced", "government compensation", "ex gratia",
	"minister announced", "chief minister announced",
}

var businessGovernmentMarkers = []string{
	"government regulation", "ministry approval", "cabinet approves",
	"government stake", "psu", "disinvestment",
}

// Categorize scores the story against every dictionary and applies the
// priority boosts and the visibility table. officialSource marks items from
// government outlets; hasSchemes marks a scheme gazetteer hit.
func Categorize(title, summary, content string, officialSource, hasSchemes bool) Result {
	text := strings.ToLower(title + " " + summary + " " + content)
	if strings.TrimSpace(text) == "" {
		return Default()
	}

	scores := map[string]int{}
	matched := map[string][]string{}
	for cat, terms := range categoryTerms {
		for _, wt := range terms {
			if strings.Contains(text, wt.term) {
				scores[cat] += wt.weight
				matched[cat] = append(matched[cat], wt.term)
			}
		}
	}

	if officialSource {
		scores[CategoryGovernment] += officialSourceBoost
	}
	if hasSchemes {
		scores[CategoryGovernment] += schemeKeywordBoost
	}

	best, bestScore := CategoryOther, 0
	for _, cat := range categoryOrder {
		if scores[cat] > bestScore {
			best, bestScore = cat, scores[cat]
		}
	}

	conf := float64(bestScore) / 10
	if conf > 1 {
		conf = 1
	}

	keywords := matched[best]
	if keywords == nil {
		keywords = []string{}
	}

	return Result{
		Category:    best,
		SubCategory: subCategory(best, text),
		Confidence:  conf,
		Keywords:    keywords,
		ShouldShow:  shouldShow(best, text),
	}
}

// subCategory resolves the category-specific switch. Only Government has a
// full ladder; other categories keep an empty sub-category.
func subCategory(category, text string) string {
	if category != CategoryGovernment {
		return ""
	}
	switch {
	case containsAny(text, misinformationTerms):
		return SubMisinformation
	case containsAny(text, grievanceTerms):
		return SubPublicGrievance
	case containsAny(text, schemeImplTerms):
		return SubSchemeImplementation
	case containsAny(text, infrastructureTerms):
		return SubInfrastructure
	case containsAny(text, policyTerms):
		return SubPolicyAnnouncement
	default:
		return SubGovernmentServices
	}
}

// shouldShow applies the visibility decision table with its per-category
// exceptions.
func shouldShow(category, text string) bool {
	switch category {
	case CategoryGovernment:
		return true
	case CategoryPolitical:
		return containsAny(text, governmentResponseMarkers)
	case CategorySports:
		return containsAny(text, sportsGovernmentMarkers)
	case CategoryCrime:
		return containsAny(text, crimeGovernmentMarkers)
	case CategoryBusiness:
		return containsAny(text, businessGovernmentMarkers)
	default:
		return false
	}
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
