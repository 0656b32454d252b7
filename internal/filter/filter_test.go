package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternationalRejection(t *testing.T) {
	d := Check("Bangladesh PM Sheikh Hasina addresses rally in Dhaka", "")
	assert.True(t, d.Reject)
	assert.Contains(t, d.Reason, "International news: bangladesh")
}

func TestInternationalExemptionForIndianGovernment(t *testing.T) {
	d := Check("PM Modi meets Sheikh Hasina to sign bilateral water treaty", "")
	assert.False(t, d.Reject, "Indian government engagement abroad must survive")

	d = Check("Ministry of External Affairs responds to Pakistan statement", "")
	assert.False(t, d.Reject)
}

func TestEntertainmentRejection(t *testing.T) {
	d := Check("Bollywood actor praises new film release", "")
	assert.True(t, d.Reject)
	assert.Contains(t, d.Reason, "Entertainment content")
}

func TestEntertainmentRejectionHindi(t *testing.T) {
	d := Check("बॉलीवुड अभिनेता की नई फिल्म रिलीज", "")
	assert.True(t, d.Reject)
}

func TestSportsRejection(t *testing.T) {
	d := Check("India wins T20 world cup after thrilling final", "")
	assert.True(t, d.Reject)
	assert.Contains(t, d.Reason, "Sports content")
}

func TestSportsGovernmentExemption(t *testing.T) {
	d := Check("Sports ministry expands Khelo India programme to 200 districts", "cricket academies included")
	assert.False(t, d.Reject)
}

func TestTributeRejection(t *testing.T) {
	d := Check("Veteran journalist passes away at 78, tributes pour in", "")
	assert.True(t, d.Reject)
	assert.Contains(t, d.Reason, "Personal tribute")
}

func TestGovernmentNewsSurvives(t *testing.T) {
	cases := []struct {
		title   string
		summary string
	}{
		{"PM Modi launches Ayushman Bharat Yojana expansion", "Ministry of Health announces coverage"},
		{"Cabinet approves new railway corridor in Maharashtra", ""},
		{"मनरेगा मजदूरी भुगतान में देरी से ग्रामीण परेशान", "सरकार की योजना"},
		{"Union Budget allocates funds for Jal Jeevan Mission", ""},
	}

	for _, tc := range cases {
		d := Check(tc.title, tc.summary)
		assert.False(t, d.Reject, "title %q dropped with reason %q", tc.title, d.Reason)
	}
}

func TestSummaryIsScannedToo(t *testing.T) {
	d := Check("Weekly round-up", "Box office numbers for the new blockbuster")
	assert.True(t, d.Reject)
}

func TestScanMarkers(t *testing.T) {
	m := Scan("Khelo India cricket academies expanded", "")
	assert.True(t, m.Sports)
	assert.False(t, m.Entertainment)
	assert.False(t, m.International)

	m = Scan("Pakistan reacts to film release", "daily horoscope inside")
	assert.True(t, m.International)
	assert.True(t, m.Entertainment)
	assert.True(t, m.Exclusion)

	m = Scan("Cabinet approves scheme", "")
	assert.Equal(t, Markers{}, m)
}

func TestEmptyInput(t *testing.T) {
	d := Check("", "")
	assert.False(t, d.Reject)
}
