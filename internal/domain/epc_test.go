package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cert(address, postcode, rating, lodged string) Certificate {
	c, ok := CertificateFromRow(map[string]string{
		"address":               address,
		"postcode":              postcode,
		"current-energy-rating": rating,
		"lodgement-date":        lodged,
	})
	if !ok {
		panic("test certificate rejected: " + address)
	}
	return c
}

// --- field resolution ---

func TestCertificateFromRow_HeaderAliases(t *testing.T) {
	tests := []struct {
		name string
		row  map[string]string
	}{
		{
			name: "dashed lower case",
			row: map[string]string{
				"address": "12 Main St", "postcode": "AB1 2CD",
				"current-energy-rating": "c", "lodgement-date": "2020-01-01",
			},
		},
		{
			name: "normalized from underscores",
			row: map[string]string{
				"address": "12 Main St", "postcode": "AB1 2CD",
				NormalizeEPCHeader("CURRENT_ENERGY_RATING"): "c",
				NormalizeEPCHeader("LODGEMENT_DATE"):        "2020-01-01",
			},
		},
		{
			name: "alternate rating and date columns",
			row: map[string]string{
				"address1": "12 Main St", "postcode": "AB1 2CD",
				"asset-rating-band": "c", "inspection-date": "2020-01-01",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := CertificateFromRow(tt.row)
			require.True(t, ok)
			assert.Equal(t, "12 Main St", c.Address)
			assert.Equal(t, "AB1 2CD", c.Postcode)
			assert.Equal(t, "C", c.Rating)
			assert.Equal(t, "2020-01-01", c.Lodged)
		})
	}
}

func TestCertificateFromRow_TruncatesTimestampToDate(t *testing.T) {
	c, ok := CertificateFromRow(map[string]string{
		"address": "1 High St", "postcode": "AB1 2CD",
		"current-energy-rating": "B", "lodgement-datetime": "2021-03-04 15:04:05",
	})
	require.True(t, ok)
	assert.Equal(t, "2021-03-04", c.Lodged)
}

func TestCertificateFromRow_RejectsUnusableRecords(t *testing.T) {
	_, ok := CertificateFromRow(map[string]string{
		"address": "1 High St", "current-energy-rating": "B",
	})
	assert.False(t, ok, "missing postcode")

	_, ok = CertificateFromRow(map[string]string{
		"address": "1 High St", "postcode": "AB1 2CD",
	})
	assert.False(t, ok, "missing rating")
}

func TestCertificateFromRow_PropertyKey(t *testing.T) {
	withUPRN, ok := CertificateFromRow(map[string]string{
		"address": "1 High St", "postcode": "AB1 2CD",
		"current-energy-rating": "B", "uprn": "100023336956",
	})
	require.True(t, ok)
	assert.Equal(t, "100023336956", withUPRN.PropertyKey)

	withoutUPRN, ok := CertificateFromRow(map[string]string{
		"address": "1 High St", "postcode": "AB1 2CD",
		"current-energy-rating": "B",
	})
	require.True(t, ok)
	assert.Equal(t, "1 high st|AB1 2CD", withoutUPRN.PropertyKey)
}

// --- property mode ---

func TestSummarizeEPC_PropertyMode_PicksLatestSubstringMatch(t *testing.T) {
	certs := []Certificate{
		cert("12 Main St", "AB1 2CD", "D", "2020-01-01"),
		cert("12A Main St", "AB1 2CD", "B", "2022-06-15"),
	}

	// Both addresses contain "12"; the lexicographically greatest date wins.
	s := SummarizeEPC(certs, "12")
	assert.Equal(t, EPCModeProperty, s.Mode)
	assert.Equal(t, "B", s.Rating)
	assert.Equal(t, "2022-06-15", s.AssessmentDate)
	assert.Empty(t, s.Note)
}

func TestSummarizeEPC_PropertyMode_CaseInsensitiveMatch(t *testing.T) {
	certs := []Certificate{
		cert("FLAT 3, ORCHARD HOUSE", "AB1 2CD", "C", "2019-05-20"),
	}

	s := SummarizeEPC(certs, "orchard")
	assert.Equal(t, "C", s.Rating)
}

func TestSummarizeEPC_PropertyMode_FallsBackToMostRecent(t *testing.T) {
	certs := []Certificate{
		cert("5 Elm Rd", "AB1 2CD", "E", "2018-02-02"),
		cert("7 Elm Rd", "AB1 2CD", "C", "2021-09-09"),
	}

	s := SummarizeEPC(certs, "99")
	assert.Equal(t, "C", s.Rating)
	assert.Equal(t, "2021-09-09", s.AssessmentDate)
	assert.NotEmpty(t, s.Note, "fallback must be flagged")
}

func TestSummarizeEPC_PropertyMode_UnrecognizedGradeStillMatches(t *testing.T) {
	// An unscoreable grade is excluded from postcode aggregation but remains
	// matchable by address.
	certs := []Certificate{
		cert("12 Main St", "AB1 2CD", "X", "2020-01-01"),
	}

	s := SummarizeEPC(certs, "12")
	assert.Equal(t, "Unknown", s.Rating)
	assert.Equal(t, "2020-01-01", s.AssessmentDate)
}

func TestSummarizeEPC_PropertyMode_NoCertificates(t *testing.T) {
	s := SummarizeEPC(nil, "12")
	assert.Equal(t, "Unknown", s.Rating)
	assert.NotEmpty(t, s.Note)
}

// --- postcode mode ---

func TestSummarizeEPC_PostcodeMode_ScoreAveraging(t *testing.T) {
	// Grades A,A,C,C,C,E score 7,7,5,5,5,3; mean 32/6 ≈ 5.33 → band C.
	var certs []Certificate
	for i, g := range []string{"A", "A", "C", "C", "C", "E"} {
		certs = append(certs, cert(fmt.Sprintf("%d Test Rd", i+1), "AB1 2CD", g, "2020-01-01"))
	}

	s := SummarizeEPC(certs, "")
	assert.Equal(t, EPCModePostcode, s.Mode)
	assert.Equal(t, "C", s.AverageRating)
	assert.Equal(t, 6, s.PropertiesAnalysed)
}

func TestSummarizeEPC_PostcodeMode_DistributionSumsToAnalysed(t *testing.T) {
	var certs []Certificate
	for i, g := range []string{"A", "B", "B", "G", "X", "D"} {
		certs = append(certs, cert(fmt.Sprintf("%d Test Rd", i+1), "AB1 2CD", g, "2020-01-01"))
	}

	s := SummarizeEPC(certs, "")

	sum := 0
	for _, n := range s.Distribution {
		sum += n
	}
	assert.Equal(t, s.PropertiesAnalysed, sum)
	assert.Equal(t, 5, s.PropertiesAnalysed, "unrecognized grade X must not be counted")
}

func TestSummarizeEPC_PostcodeMode_DeduplicatesByProperty(t *testing.T) {
	certs := []Certificate{
		cert("12 Main St", "AB1 2CD", "E", "2015-01-01"),
		cert("12 Main St", "AB1 2CD", "B", "2022-01-01"), // supersedes the E
		cert("14 Main St", "AB1 2CD", "D", "2019-01-01"),
	}

	s := SummarizeEPC(certs, "")
	assert.Equal(t, 2, s.PropertiesAnalysed)
	assert.Equal(t, 1, s.Distribution["B"])
	assert.Equal(t, 0, s.Distribution["E"], "superseded certificate must not be counted")
	assert.Equal(t, "2022", s.LatestYear)
}

func TestSummarizeEPC_PostcodeMode_NoScoreableCertificates(t *testing.T) {
	s := SummarizeEPC([]Certificate{cert("1 Test Rd", "AB1 2CD", "X", "2020-01-01")}, "")
	assert.Zero(t, s.PropertiesAnalysed)
	assert.NotEmpty(t, s.Note)
}

// --- score bands ---

func TestScoreToRating_Bands(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{7, "A"}, {6.5, "A"},
		{6.49, "B"}, {5.5, "B"},
		{5.49, "C"}, {5.33, "C"}, {4.5, "C"},
		{4.49, "D"}, {3.5, "D"},
		{3.49, "E"}, {2.5, "E"},
		{2.49, "F"}, {1.5, "F"},
		{1.49, "G"}, {1, "G"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, scoreToRating(tt.score), "score %v", tt.score)
	}
}
