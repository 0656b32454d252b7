// Package filter implements the cheap pre-NLP rejection stage: international
// news without an Indian-government angle, entertainment and sports coverage,
// and personal tributes are dropped before any model work is spent on them.
package filter

import (
	"strings"
)

// Decision is the outcome of the early-rejection scan.
type Decision struct {
	Reject bool
	Reason string
}

// blocOrder fixes the scan order so drop reasons are deterministic.
var blocOrder = []string{
	"bangladesh", "pakistan", "sri lanka", "neighbors",
	"foreign powers", "foreign leaders",
}

// internationalBlocs maps a bloc label to the terms that mark a story as
// foreign coverage. The label becomes part of the drop reason.
var internationalBlocs = map[string][]string{
	"bangladesh": {
		"bangladesh", "dhaka", "sheikh hasina", "awami league", "बांग्लादेश", "ঢাকা",
	},
	"pakistan": {
		"pakistan", "islamabad", "karachi", "lahore", "imran khan", "shehbaz sharif",
		"पाकिस्तान", "اسلام آباد",
	},
	"sri lanka": {
		"sri lanka", "colombo", "rajapaksa", "श्रीलंका",
	},
	"neighbors": {
		"nepal", "kathmandu", "bhutan", "thimphu", "myanmar", "yangon",
		"afghanistan", "kabul", "taliban", "maldives", "male city",
	},
	"foreign powers": {
		"white house", "washington dc", "us congress", "us senate", "pentagon",
		"kremlin", "moscow", "beijing", "chinese communist party",
		"downing street", "european union summit", "nato summit",
		"united nations general assembly",
	},
	"foreign leaders": {
		"joe biden", "donald trump", "vladimir putin", "xi jinping",
		"emmanuel macron", "rishi sunak", "keir starmer", "volodymyr zelensky",
		"benjamin netanyahu",
	},
}

// indianGovernmentMarkers exempt an otherwise international story: coverage of
// India's own government engaging abroad stays in the pipeline.
var indianGovernmentMarkers = []string{
	"government of india", "indian government", "india's", "ministry of external affairs",
	"external affairs minister", "mea", "jaishankar", "prime minister modi", "pm modi",
	"narendra modi", "indian embassy", "indian high commission", "bilateral",
	"india-", "bharat", "भारत सरकार", "प्रधानमंत्री", "विदेश मंत्रालय",
}

// entertainmentTerms flag film, television, and celebrity coverage, across
// the supported languages.
var entertainmentTerms = []string{
	"bollywood", "tollywood", "kollywood", "hollywood", "box office",
	"film release", "movie review", "film review", "trailer launch", "teaser",
	"actor", "actress", "celebrity", "web series", "bigg boss", "ott release",
	"music video", "album launch", "red carpet", "film festival",
	"फिल्म", "बॉलीवुड", "अभिनेता", "अभिनेत्री", "सिनेमा",
	"ಚಲನಚಿತ್ರ", "நடிகர்", "సినిమా", "চলচ্চিত্র",
}

// sportsTerms flag sports coverage. Khelo India and sports-ministry items are
// re-admitted by the categorizer's exception table, not here.
var sportsTerms = []string{
	"cricket", "ipl", "t20", "test match", "odi", "world cup",
	"football", "premier league", "isl", "hockey match", "badminton",
	"tennis", "grand slam", "olympics medal", "kabaddi league",
	"क्रिकेट", "फुटबॉल", "मैच जीता",
}

// sportsGovernmentMarkers keep government sports-policy items alive.
var sportsGovernmentMarkers = []string{
	"khelo india", "sports ministry", "ministry of youth affairs",
	"sports authority of india", "national sports policy", "खेलो इंडिया",
}

// tributeTerms flag personal tributes, obituaries, and condolence pieces.
var tributeTerms = []string{
	"passes away", "passed away", "condolence", "condolences", "obituary",
	"last rites", "mortal remains", "pays tribute", "paid tribute",
	"tributes pour", "rest in peace", "demise of",
	"श्रद्धांजलि", "निधन", "शोक व्यक्त",
}

// strongExclusionTerms mark content classes that never belong in the
// pipeline at all. They carry the heaviest confidence penalty downstream.
var strongExclusionTerms = []string{
	"horoscope", "astrology", "tarot", "lottery result", "lucky number",
	"matrimonial", "recipe", "daily panchang", "राशिफल", "ज्योतिष",
}

// Markers summarizes which filter term classes occur in a text. The
// confidence scorer reads these for items that survived the early filters
// through an exemption.
type Markers struct {
	International bool
	Entertainment bool
	Sports        bool
	Tribute       bool
	Exclusion     bool
}

// Scan reports marker occurrences without making a drop decision.
func Scan(title, summary string) Markers {
	text := strings.ToLower(title + " " + summary)
	m := Markers{
		Entertainment: firstHit(text, entertainmentTerms) != "",
		Sports:        firstHit(text, sportsTerms) != "",
		Tribute:       firstHit(text, tributeTerms) != "",
		Exclusion:     firstHit(text, strongExclusionTerms) != "",
	}
	for _, bloc := range blocOrder {
		if firstHit(text, internationalBlocs[bloc]) != "" {
			m.International = true
			break
		}
	}
	return m
}

// Check scans title and summary and decides whether the item should be
// dropped before enrichment. The first matching filter wins.
func Check(title, summary string) Decision {
	text := strings.ToLower(title + " " + summary)

	if bloc, term := internationalHit(text); bloc != "" {
		return Decision{Reject: true, Reason: "International news: " + bloc + " (" + term + ")"}
	}
	if term := firstHit(text, entertainmentTerms); term != "" {
		return Decision{Reject: true, Reason: "Entertainment content: " + term}
	}
	if term := firstHit(text, sportsTerms); term != "" {
		if firstHit(text, sportsGovernmentMarkers) == "" {
			return Decision{Reject: true, Reason: "Sports content: " + term}
		}
	}
	if term := firstHit(text, tributeTerms); term != "" {
		return Decision{Reject: true, Reason: "Personal tribute: " + term}
	}

	return Decision{}
}

// internationalHit returns the matched bloc and term, unless an Indian
// government marker exempts the story.
func internationalHit(text string) (string, string) {
	for _, bloc := range blocOrder {
		term := firstHit(text, internationalBlocs[bloc])
		if term == "" {
			continue
		}
		if firstHit(text, indianGovernmentMarkers) != "" {
			return "", ""
		}
		return bloc, term
	}
	return "", ""
}

// firstHit returns the first term contained in text, or empty.
func firstHit(text string, terms []string) string {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return term
		}
	}
	return ""
}
