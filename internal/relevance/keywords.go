package relevance

// goiKeywords are the per-language Government-of-India keyword sets. The
// English set also carries transliterated terms because translated text keeps
// many of them verbatim.
var goiKeywords = map[string][]string{
	"en": {
		"government of india", "central government", "union government",
		"union cabinet", "cabinet approves", "prime minister", "pm modi",
		"ministry", "minister", "parliament", "lok sabha", "rajya sabha",
		"niti aayog", "pib", "press information bureau", "government scheme",
		"yojana", "mission", "subsidy", "beneficiary", "beneficiaries",
		"crore allocated", "budget allocation", "gazette notification",
		"sarkar", "sarkari", "kendra sarkar", "mantralaya",
	},
	"hi": {
		"भारत सरकार", "केंद्र सरकार", "केंद्रीय मंत्रिमंडल", "प्रधानमंत्री",
		"मंत्रालय", "मंत्री", "संसद", "लोकसभा", "राज्यसभा", "योजना",
		"सरकारी योजना", "सब्सिडी", "लाभार्थी", "नीति आयोग", "अधिसूचना",
	},
	"mr": {
		"भारत सरकार", "केंद्र सरकार", "पंतप्रधान", "मंत्रालय", "मंत्री",
		"संसद", "योजना", "सरकारी योजना", "अनुदान", "लाभार्थी",
	},
	"bn": {
		"ভারত সরকার", "কেন্দ্রীয় সরকার", "প্রধানমন্ত্রী", "মন্ত্রণালয়",
		"মন্ত্রী", "সংসদ", "প্রকল্প", "সরকারি প্রকল্প", "ভর্তুকি", "সুবিধাভোগী",
	},
	"ta": {
		"இந்திய அரசு", "மத்திய அரசு", "பிரதமர்", "அமைச்சகம்", "அமைச்சர்",
		"நாடாளுமன்றம்", "திட்டம்", "அரசு திட்டம்", "மானியம்", "பயனாளி",
	},
	"te": {
		"భారత ప్రభుత్వం", "కేంద్ర ప్రభుత్వం", "ప్రధానమంత్రి", "మంత్రిత్వ శాఖ",
		"మంత్రి", "పార్లమెంట్", "పథకం", "ప్రభుత్వ పథకం", "సబ్సిడీ", "లబ్ధిదారు",
	},
	"kn": {
		"ಭಾರತ ಸರ್ಕಾರ", "ಕೇಂದ್ರ ಸರ್ಕಾರ", "ಪ್ರಧಾನಮಂತ್ರಿ", "ಸಚಿವಾಲಯ", "ಸಚಿವ",
		"ಸಂಸತ್ತು", "ಯೋಜನೆ", "ಸರ್ಕಾರಿ ಯೋಜನೆ", "ಸಬ್ಸಿಡಿ", "ಫಲಾನುಭವಿ",
	},
	"ml": {
		"ഇന്ത്യൻ സർക്കാർ", "കേന്ദ്ര സർക്കാർ", "പ്രധാനമന്ത്രി", "മന്ത്രാലയം",
		"മന്ത്രി", "പാർലമെന്റ്", "പദ്ധതി", "സർക്കാർ പദ്ധതി", "സബ്സിഡി",
	},
	"gu": {
		"ભારત સરકાર", "કેન્દ્ર સરકાર", "વડાપ્રધાન", "મંત્રાલય", "મંત્રી",
		"સંસદ", "યોજના", "સરકારી યોજના", "સબસિડી", "લાભાર્થી",
	},
	"pa": {
		"ਭਾਰਤ ਸਰਕਾਰ", "ਕੇਂਦਰ ਸਰਕਾਰ", "ਪ੍ਰਧਾਨ ਮੰਤਰੀ", "ਮੰਤਰਾਲਾ", "ਮੰਤਰੀ",
		"ਸੰਸਦ", "ਯੋਜਨਾ", "ਸਰਕਾਰੀ ਯੋਜਨਾ", "ਸਬਸਿਡੀ", "ਲਾਭਪਾਤਰੀ",
	},
	"or": {
		"ଭାରତ ସରକାର", "କେନ୍ଦ୍ର ସରକାର", "ପ୍ରଧାନମନ୍ତ୍ରୀ", "ମନ୍ତ୍ରଣାଳୟ", "ମନ୍ତ୍ରୀ",
		"ସଂସଦ", "ଯୋଜନା", "ସରକାରୀ ଯୋଜନା", "ସବସିଡି", "ହିତାଧିକାରୀ",
	},
	"ur": {
		"حکومت ہند", "مرکزی حکومت", "وزیر اعظم", "وزارت", "وزیر",
		"پارلیمنٹ", "اسکیم", "سرکاری اسکیم", "سبسڈی",
	},
}

// ministries lists central ministries in English and Hindi. A hit marks the
// story as ministry coverage.
var ministries = []string{
	"ministry of home affairs", "ministry of finance", "ministry of defence",
	"ministry of external affairs", "ministry of health", "ministry of education",
	"ministry of railways", "ministry of agriculture", "ministry of rural development",
	"ministry of road transport", "ministry of jal shakti", "ministry of power",
	"ministry of coal", "ministry of petroleum", "ministry of women and child development",
	"ministry of labour", "ministry of tribal affairs", "ministry of minority affairs",
	"ministry of housing and urban affairs", "ministry of electronics",
	"ministry of information and broadcasting", "ministry of youth affairs",
	"ministry of skill development", "ministry of environment",
	"गृह मंत्रालय", "वित्त मंत्रालय", "रक्षा मंत्रालय", "विदेश मंत्रालय",
	"स्वास्थ्य मंत्रालय", "शिक्षा मंत्रालय", "रेल मंत्रालय", "कृषि मंत्रालय",
	"ग्रामीण विकास मंत्रालय", "जल शक्ति मंत्रालय",
}

// scheme is one central scheme with its canonical name and aliases in
// English, regional scripts, and transliteration.
type scheme struct {
	name    string
	aliases []string
}

// schemes is the static scheme gazetteer. Alias hits in any language resolve
// to the canonical English name.
var schemes = []scheme{
	{"Ayushman Bharat", []string{"ayushman bharat", "pm-jay", "pmjay", "आयुष्मान भारत", "ஆயுஷ்மான் பாரத்"}},
	{"PM Kisan", []string{"pm kisan", "pm-kisan", "kisan samman nidhi", "पीएम किसान", "किसान सम्मान निधि"}},
	{"MGNREGA", []string{"mgnrega", "nrega", "mahatma gandhi national rural employment", "मनरेगा", "महात्मा गांधी राष्ट्रीय ग्रामीण रोजगार"}},
	{"Ujjwala Yojana", []string{"ujjwala", "pmuy", "उज्ज्वला"}},
	{"Jan Dhan Yojana", []string{"jan dhan", "pmjdy", "जन धन"}},
	{"Swachh Bharat", []string{"swachh bharat", "swachh bharat mission", "स्वच्छ भारत"}},
	{"Jal Jeevan Mission", []string{"jal jeevan", "har ghar jal", "जल जीवन मिशन", "हर घर जल"}},
	{"PM Awas Yojana", []string{"pm awas", "pmay", "awas yojana", "पीएम आवास", "आवास योजना"}},
	{"Atal Pension Yojana", []string{"atal pension", "अटल पेंशन"}},
	{"Mudra Yojana", []string{"mudra yojana", "mudra loan", "pmmy", "मुद्रा योजना"}},
	{"Fasal Bima Yojana", []string{"fasal bima", "pmfby", "crop insurance scheme", "फसल बीमा"}},
	{"Ujala Yojana", []string{"ujala yojana", "उजाला योजना"}},
	{"Skill India", []string{"skill india", "kaushal vikas", "pmkvy", "कौशल विकास"}},
	{"Digital India", []string{"digital india", "डिजिटल इंडिया"}},
	{"Make in India", []string{"make in india", "मेक इन इंडिया"}},
	{"Khelo India", []string{"khelo india", "खेलो इंडिया"}},
	{"Poshan Abhiyaan", []string{"poshan abhiyaan", "poshan abhiyan", "पोषण अभियान"}},
	{"PM Garib Kalyan", []string{"garib kalyan", "pmgkay", "गरीब कल्याण"}},
	{"Sukanya Samriddhi", []string{"sukanya samriddhi", "सुकन्या समृद्धि"}},
	{"Startup India", []string{"startup india", "स्टार्टअप इंडिया"}},
	{"UDAN", []string{"udan scheme", "ude desh ka aam nagrik", "उड़ान योजना"}},
	{"PM Vishwakarma", []string{"pm vishwakarma", "vishwakarma yojana", "विश्वकर्मा योजना"}},
	{"One Nation One Ration Card", []string{"one nation one ration", "ration card portability", "एक राष्ट्र एक राशन"}},
	{"PM Surya Ghar", []string{"surya ghar", "rooftop solar scheme", "सूर्य घर"}},
}

// entityType values for the gazetteer.
const (
	entityPerson       = "PERSON"
	entityOrganization = "ORG"
)

// gazetteerEntity is one known government figure or body.
type gazetteerEntity struct {
	text    string
	typ     string
	aliases []string
}

// entityGazetteer backs goi_entities extraction. A model-based extractor can
// replace this without changing the emitted shape.
var entityGazetteer = []gazetteerEntity{
	{"Narendra Modi", entityPerson, []string{"narendra modi", "pm modi", "prime minister modi", "नरेंद्र मोदी"}},
	{"Amit Shah", entityPerson, []string{"amit shah", "अमित शाह"}},
	{"Nirmala Sitharaman", entityPerson, []string{"nirmala sitharaman", "निर्मला सीतारमण"}},
	{"Rajnath Singh", entityPerson, []string{"rajnath singh", "राजनाथ सिंह"}},
	{"S. Jaishankar", entityPerson, []string{"jaishankar", "जयशंकर"}},
	{"NITI Aayog", entityOrganization, []string{"niti aayog", "नीति आयोग"}},
	{"Press Information Bureau", entityOrganization, []string{"press information bureau", "pib"}},
	{"Election Commission", entityOrganization, []string{"election commission", "चुनाव आयोग"}},
	{"Reserve Bank of India", entityOrganization, []string{"reserve bank of india", "rbi", "भारतीय रिजर्व बैंक"}},
	{"Supreme Court", entityOrganization, []string{"supreme court", "सुप्रीम कोर्ट"}},
}
