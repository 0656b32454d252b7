package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectShortText(t *testing.T) {
	for _, text := range []string{"", "hi", "नमस्ते", "   spaces   "} {
		got := Detect(text)
		if len([]rune(text)) < MinDetectableRunes {
			assert.Equal(t, "unknown", got.Code, "text %q", text)
			assert.Equal(t, ScriptUnknown, got.Script)
			assert.Equal(t, 0.0, got.Confidence)
		}
	}
}

func TestDetectEnglish(t *testing.T) {
	got := Detect("The Ministry of Health has announced a new insurance scheme for rural families.")
	assert.Equal(t, "en", got.Code)
	assert.Equal(t, ScriptLatin, got.Script)
	// Marker words agree with the script, so confidence is raised.
	assert.InDelta(t, 0.95, got.Confidence, 1e-9)
}

func TestDetectHindi(t *testing.T) {
	got := Detect("सरकार ने किसानों के लिए नई योजना की घोषणा की है और यह अगले महीने से लागू होगी")
	assert.Equal(t, "hi", got.Code)
	assert.Equal(t, ScriptDevanagari, got.Script)
	assert.InDelta(t, 0.95, got.Confidence, 1e-9)
}

func TestDetectMarathi(t *testing.T) {
	got := Detect("महाराष्ट्र सरकारने नवीन योजना जाहीर केली आहे आणि ती पुढील महिन्यात सुरू होणार आहे")
	assert.Equal(t, "mr", got.Code)
	assert.Equal(t, ScriptDevanagari, got.Script)
	assert.InDelta(t, 0.75, got.Confidence, 1e-9)
}

func TestDetectDevanagariWithoutMarkersFallsBackToHindi(t *testing.T) {
	// Pure content words, no function-word markers: Hindi at low confidence.
	got := Detect("योजना घोषणा किसान मंत्रालय सरकार विकास")
	assert.Equal(t, "hi", got.Code)
	assert.InDelta(t, 0.60, got.Confidence, 1e-9)
}

func TestDetectUnambiguousScripts(t *testing.T) {
	cases := []struct {
		text   string
		code   string
		script string
	}{
		{"ಸರ್ಕಾರವು ಹೊಸ ಯೋಜನೆಯನ್ನು ಘೋಷಿಸಿದೆ ಮತ್ತು ಅವರು ಸಂತೋಷಪಟ್ಟಿದ್ದಾರೆ", "kn", ScriptKannada},
		{"அரசு புதிய திட்டத்தை அறிவித்தது மற்றும் இந்த திட்டம் நல்லது", "ta", ScriptTamil},
		{"ప్రభుత్వం కొత్త పథకాన్ని ప్రకటించింది మరియు ఈ పథకం మంచిది", "te", ScriptTelugu},
		{"সরকার নতুন প্রকল্প ঘোষণা করেছে এবং এই প্রকল্পটি ভালো", "bn", ScriptBengali},
		{"સરકારે નવી યોજના જાહેર કરી છે અને તે સારી છે", "gu", ScriptGujarati},
		{"സർക്കാർ പുതിയ പദ്ധതി പ്രഖ്യാപിച്ചു ഈ പദ്ധതി നല്ലതാണ് ആണ്", "ml", ScriptMalayalam},
		{"ਸਰਕਾਰ ਨੇ ਨਵੀਂ ਯੋਜਨਾ ਦਾ ਐਲਾਨ ਕੀਤਾ ਹੈ ਅਤੇ ਇਹ ਚੰਗੀ ਹੈ", "pa", ScriptGurmukhi},
		{"حکومت نے نئی اسکیم کا اعلان کیا ہے اور یہ اچھی ہے", "ur", ScriptArabic},
	}

	for _, tc := range cases {
		got := Detect(tc.text)
		assert.Equal(t, tc.code, got.Code, "text %q", tc.text)
		assert.Equal(t, tc.script, got.Script, "text %q", tc.text)
		assert.GreaterOrEqual(t, got.Confidence, 0.90, "text %q", tc.text)
		assert.LessOrEqual(t, got.Confidence, 1.0)
	}
}

func TestDetectMixedScriptPicksDominant(t *testing.T) {
	// Mostly Devanagari with a couple of Latin acronyms.
	got := Detect("मनरेगा MGNREGA योजना में मजदूरी का भुगतान नहीं हुआ है और लोग परेशान हैं")
	assert.Equal(t, ScriptDevanagari, got.Script)
	assert.Equal(t, "hi", got.Code)
}

func TestConfidenceAlwaysInRange(t *testing.T) {
	texts := []string{
		"The government of India announced something today for everyone",
		"सरकार ने घोषणा की है",
		"random latin words without common markers whatsoever",
	}
	for _, text := range texts {
		got := Detect(text)
		assert.GreaterOrEqual(t, got.Confidence, 0.0)
		assert.LessOrEqual(t, got.Confidence, 1.0)
	}
}
