// Package region maps mentioned places to Indian states with a static alias
// table. A token-classification model can feed the same table later.
package region

import (
	"sort"
	"strings"
)

// contentScanLimit bounds how much article body is scanned. Titles and
// summaries almost always carry the place name; the body is a fallback.
const contentScanLimit = 1000

// stateAliases maps lowercase city, district, and language aliases to the
// canonical state name.
var stateAliases = map[string]string{
	// Uttar Pradesh
	"uttar pradesh": "Uttar Pradesh", "lucknow": "Uttar Pradesh",
	"varanasi": "Uttar Pradesh", "kanpur": "Uttar Pradesh",
	"noida": "Uttar Pradesh", "agra": "Uttar Pradesh",
	"prayagraj": "Uttar Pradesh", "उत्तर प्रदेश": "Uttar Pradesh",
	"लखनऊ": "Uttar Pradesh",

	// Maharashtra
	"maharashtra": "Maharashtra", "mumbai": "Maharashtra",
	"pune": "Maharashtra", "nagpur": "Maharashtra", "nashik": "Maharashtra",
	"महाराष्ट्र": "Maharashtra", "मुंबई": "Maharashtra", "पुणे": "Maharashtra",

	// Bihar
	"bihar": "Bihar", "patna": "Bihar", "gaya": "Bihar", "बिहार": "Bihar",
	"पटना": "Bihar",

	// West Bengal
	"west bengal": "West Bengal", "kolkata": "West Bengal",
	"howrah": "West Bengal", "darjeeling": "West Bengal",
	"পশ্চিমবঙ্গ": "West Bengal", "কলকাতা": "West Bengal",

	// Tamil Nadu
	"tamil nadu": "Tamil Nadu", "chennai": "Tamil Nadu",
	"coimbatore": "Tamil Nadu", "madurai": "Tamil Nadu",
	"தமிழ்நாடு": "Tamil Nadu", "சென்னை": "Tamil Nadu",

	// Karnataka
	"karnataka": "Karnataka", "bengaluru": "Karnataka",
	"bangalore": "Karnataka", "mysuru": "Karnataka", "hubballi": "Karnataka",
	"ಕರ್ನಾಟಕ": "Karnataka", "ಬೆಂಗಳೂರು": "Karnataka",

	// Telangana
	"telangana": "Telangana", "hyderabad": "Telangana",
	"warangal": "Telangana", "తెలంగాణ": "Telangana", "హైదరాబాద్": "Telangana",

	// Andhra Pradesh
	"andhra pradesh": "Andhra Pradesh", "amaravati": "Andhra Pradesh",
	"visakhapatnam": "Andhra Pradesh", "vijayawada": "Andhra Pradesh",
	"ఆంధ్రప్రదేశ్": "Andhra Pradesh",

	// Kerala
	"kerala": "Kerala", "thiruvananthapuram": "Kerala", "kochi": "Kerala",
	"kozhikode": "Kerala", "കേരളം": "Kerala",

	// Gujarat
	"gujarat": "Gujarat", "ahmedabad": "Gujarat", "gandhinagar": "Gujarat",
	"surat": "Gujarat", "vadodara": "Gujarat", "ગુજરાત": "Gujarat",

	// Rajasthan
	"rajasthan": "Rajasthan", "jaipur": "Rajasthan", "jodhpur": "Rajasthan",
	"udaipur": "Rajasthan", "राजस्थान": "Rajasthan", "जयपुर": "Rajasthan",

	// Madhya Pradesh
	"madhya pradesh": "Madhya Pradesh", "bhopal": "Madhya Pradesh",
	"indore": "Madhya Pradesh", "gwalior": "Madhya Pradesh",
	"मध्य प्रदेश": "Madhya Pradesh", "भोपाल": "Madhya Pradesh",

	// Punjab
	"punjab": "Punjab", "ludhiana": "Punjab", "amritsar": "Punjab",
	"ਪੰਜਾਬ": "Punjab", "ਅੰਮ੍ਰਿਤਸਰ": "Punjab",

	// Haryana
	"haryana": "Haryana", "gurugram": "Haryana", "gurgaon": "Haryana",
	"faridabad": "Haryana", "हरियाणा": "Haryana",

	// Delhi
	"delhi": "Delhi", "new delhi": "Delhi", "दिल्ली": "Delhi",
	"नई दिल्ली": "Delhi",

	// Odisha
	"odisha": "Odisha", "bhubaneswar": "Odisha", "cuttack": "Odisha",
	"ଓଡ଼ିଶା": "Odisha", "ଭୁବନେଶ୍ୱର": "Odisha",

	// Assam
	"assam": "Assam", "guwahati": "Assam", "dispur": "Assam",

	// Jharkhand
	"jharkhand": "Jharkhand", "ranchi": "Jharkhand", "jamshedpur": "Jharkhand",
	"झारखंड": "Jharkhand",

	// Chhattisgarh
	"chhattisgarh": "Chhattisgarh", "raipur": "Chhattisgarh",
	"छत्तीसगढ़": "Chhattisgarh",

	// Uttarakhand
	"uttarakhand": "Uttarakhand", "dehradun": "Uttarakhand",
	"उत्तराखंड": "Uttarakhand",

	// Himachal Pradesh
	"himachal pradesh": "Himachal Pradesh", "shimla": "Himachal Pradesh",
	"हिमाचल प्रदेश": "Himachal Pradesh",

	// Jammu & Kashmir
	"jammu and kashmir": "Jammu and Kashmir", "srinagar": "Jammu and Kashmir",
	"jammu": "Jammu and Kashmir", "जम्मू कश्मीर": "Jammu and Kashmir",

	// Goa
	"goa": "Goa", "panaji": "Goa",

	// Northeast
	"manipur": "Manipur", "imphal": "Manipur",
	"meghalaya": "Meghalaya", "shillong": "Meghalaya",
	"tripura": "Tripura", "agartala": "Tripura",
	"nagaland": "Nagaland", "kohima": "Nagaland",
	"mizoram": "Mizoram", "aizawl": "Mizoram",
	"arunachal pradesh": "Arunachal Pradesh", "itanagar": "Arunachal Pradesh",
	"sikkim": "Sikkim", "gangtok": "Sikkim",
}

// orderedAliases scans longer aliases first so "new delhi" beats "delhi" and
// "uttar pradesh" beats any shorter overlap. Built once at init.
var orderedAliases = func() []string {
	out := make([]string, 0, len(stateAliases))
	for alias := range stateAliases {
		out = append(out, alias)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}()

// Detect returns the state for the first alias found, scanning title, then
// summary, then the head of the content. Empty when nothing matches.
func Detect(title, summary, content string) string {
	if r := scan(title); r != "" {
		return r
	}
	if r := scan(summary); r != "" {
		return r
	}
	runes := []rune(content)
	if len(runes) > contentScanLimit {
		content = string(runes[:contentScanLimit])
	}
	return scan(content)
}

func scan(text string) string {
	if text == "" {
		return ""
	}
	lower := strings.ToLower(text)
	for _, alias := range orderedAliases {
		if strings.Contains(lower, alias) {
			return stateAliases[alias]
		}
	}
	return ""
}
