// Package language assigns a language code, script, and confidence to raw
// article text using Unicode script ranges plus a statistical marker-word
// detector for ambiguous scripts.
package language

import (
	"strings"
)

// Detection is the (code, script, confidence) triplet for a text.
type Detection struct {
	Code       string
	Script     string
	Confidence float64
}

// Script names.
const (
	ScriptDevanagari = "devanagari"
	ScriptBengali    = "bengali"
	ScriptGurmukhi   = "gurmukhi"
	ScriptGujarati   = "gujarati"
	ScriptOdia       = "odia"
	ScriptTamil      = "tamil"
	ScriptTelugu     = "telugu"
	ScriptKannada    = "kannada"
	ScriptMalayalam  = "malayalam"
	ScriptArabic     = "arabic"
	ScriptLatin      = "latin"
	ScriptUnknown    = "unknown"
)

// MinDetectableRunes is the shortest text the detector will judge. Callers
// should drop items below this bound rather than process them blind.
const MinDetectableRunes = 10

// scriptRange is one contiguous Unicode block belonging to a script.
type scriptRange struct {
	script string
	lo, hi rune
}

var scriptRanges = []scriptRange{
	{ScriptArabic, 0x0600, 0x06FF},
	{ScriptDevanagari, 0x0900, 0x097F},
	{ScriptBengali, 0x0980, 0x09FF},
	{ScriptGurmukhi, 0x0A00, 0x0A7F},
	{ScriptGujarati, 0x0A80, 0x0AFF},
	{ScriptOdia, 0x0B00, 0x0B7F},
	{ScriptTamil, 0x0B80, 0x0BFF},
	{ScriptTelugu, 0x0C00, 0x0C7F},
	{ScriptKannada, 0x0C80, 0x0CFF},
	{ScriptMalayalam, 0x0D00, 0x0D7F},
}

// scriptToLang maps each unambiguous script to its language code. Devanagari
// is absent: it is shared by Hindi and Marathi and resolved statistically.
var scriptToLang = map[string]string{
	ScriptBengali:   "bn",
	ScriptGurmukhi:  "pa",
	ScriptGujarati:  "gu",
	ScriptOdia:      "or",
	ScriptTamil:     "ta",
	ScriptTelugu:    "te",
	ScriptKannada:   "kn",
	ScriptMalayalam: "ml",
	ScriptArabic:    "ur",
	ScriptLatin:     "en",
}

// Detect returns the language triplet for the given text. Texts shorter than
// ten characters are reported as unknown with zero confidence.
func Detect(text string) Detection {
	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) < MinDetectableRunes {
		return Detection{Code: "unknown", Script: ScriptUnknown, Confidence: 0.0}
	}

	script := dominantScript(trimmed)
	if script == ScriptUnknown {
		return Detection{Code: "unknown", Script: ScriptUnknown, Confidence: 0.0}
	}

	detCode, detConf := statDetect(trimmed)

	if script == ScriptDevanagari {
		// Hindi and Marathi share Devanagari; the statistical detector
		// arbitrates.
		switch {
		case detCode == "hi":
			return Detection{Code: "hi", Script: script, Confidence: 0.95}
		case detCode == "mr" && detConf > 0.85:
			return Detection{Code: "mr", Script: script, Confidence: 0.75}
		default:
			return Detection{Code: "hi", Script: script, Confidence: 0.60}
		}
	}

	code := scriptToLang[script]
	conf := 0.90
	if detCode == code {
		conf = 0.95
	}
	return Detection{Code: code, Script: script, Confidence: conf}
}

// dominantScript counts characters per script block and returns the script
// with the highest count, or unknown when no counted character appears.
func dominantScript(text string) string {
	counts := make(map[string]int, len(scriptRanges)+1)
	for _, r := range text {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			counts[ScriptLatin]++
		default:
			for _, sr := range scriptRanges {
				if r >= sr.lo && r <= sr.hi {
					counts[sr.script]++
					break
				}
			}
		}
	}

	best, bestCount := ScriptUnknown, 0
	for script, n := range counts {
		if n > bestCount {
			best, bestCount = script, n
		}
	}
	return best
}

// markerWords are high-frequency function words per language, used as a
// lightweight statistical detector. A language wins when its markers dominate
// the matches.
var markerWords = map[string][]string{
	"hi": {"है", "हैं", "और", "नहीं", "के", "की", "का", "में", "से", "को", "यह", "पर"},
	"mr": {"आहे", "आहेत", "आणि", "नाही", "येथे", "झाली", "झाले", "केली", "केले", "होती", "म्हणून", "यांनी"},
	"bn": {"এবং", "হয়", "করে", "থেকে", "এই", "হয়েছে", "জন্য", "সঙ্গে"},
	"pa": {"ਅਤੇ", "ਹੈ", "ਦੇ", "ਦੀ", "ਵਿੱਚ", "ਨੂੰ", "ਨੇ", "ਲਈ"},
	"gu": {"અને", "છે", "ના", "ની", "માં", "થી", "માટે", "હતી"},
	"or": {"ଏବଂ", "କରି", "ପାଇଁ", "ଏହି", "ହୋଇ", "ରେ", "କୁ", "ଙ୍କ"},
	"ta": {"மற்றும்", "இந்த", "என்று", "உள்ளது", "இல்லை", "ஆகும்", "அவர்", "என"},
	"te": {"మరియు", "ఈ", "అని", "ఉంది", "లో", "కోసం", "చేసిన", "వారు"},
	"kn": {"ಮತ್ತು", "ಈ", "ಎಂದು", "ಇದೆ", "ಅವರು", "ಗಳು", "ಮಾಡಿ", "ಆಗಿದೆ"},
	"ml": {"എന്ന", "ആണ്", "ഉണ്ട്", "ഈ", "ചെയ്ത", "വരെ", "കൂടി", "അവർ"},
	"ur": {"اور", "ہے", "کے", "کی", "کا", "میں", "سے", "کو"},
	"en": {"the", "and", "of", "to", "in", "for", "is", "has", "said", "was"},
}

// statDetect scores each language by marker-word hits over whitespace tokens
// and returns the winner with its share of all marker hits. It returns
// ("", 0) when fewer than two markers match.
func statDetect(text string) (string, float64) {
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) == 0 {
		return "", 0
	}

	tokenSet := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		tokenSet[strings.Trim(tok, ".,;:!?\"'()[]{}|।")]++
	}

	scores := make(map[string]int, len(markerWords))
	total := 0
	for lang, markers := range markerWords {
		for _, m := range markers {
			if n := tokenSet[m]; n > 0 {
				scores[lang] += n
				total += n
			}
		}
	}
	if total < 2 {
		return "", 0
	}

	best, bestScore := "", 0
	for lang, score := range scores {
		if score > bestScore {
			best, bestScore = lang, score
		}
	}
	return best, float64(bestScore) / float64(total)
}
