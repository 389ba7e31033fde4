package domain

import (
	"strings"

	"github.com/montanaflynn/stats"
)

// Certificate is one normalized Energy Performance Certificate record.
type Certificate struct {
	Address     string
	Postcode    string
	Rating      string // single letter, upper case; may be outside A–G
	Lodged      string // ISO date, 10 chars
	PropertyKey string // UPRN when present, else "address|postcode"
}

// Header aliases for each logical certificate field. The EPC API has shipped
// several column namings over time (dashed, underscored, upper case), so
// resolution tries each alias in order against normalized header names.
var (
	epcAddressAliases  = []string{"address", "address1"}
	epcPostcodeAliases = []string{"postcode"}
	epcRatingAliases   = []string{"current-energy-rating", "asset-rating-band", "energy-rating"}
	epcDateAliases     = []string{"lodgement-date", "lodgement-datetime", "inspection-date"}
	epcKeyAliases      = []string{"uprn", "building-reference-number"}
)

// NormalizeEPCHeader canonicalizes a column header for alias matching:
// lower case with underscores folded to dashes.
func NormalizeEPCHeader(h string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), "_", "-")
}

// CertificateFromRow builds a Certificate from one tabular row keyed by
// normalized header name. Returns ok=false when the record lacks a usable
// postcode or rating.
func CertificateFromRow(row map[string]string) (Certificate, bool) {
	pick := func(aliases []string) string {
		for _, a := range aliases {
			if v := strings.TrimSpace(row[a]); v != "" {
				return v
			}
		}
		return ""
	}

	c := Certificate{
		Address:  pick(epcAddressAliases),
		Postcode: strings.ToUpper(pick(epcPostcodeAliases)),
		Rating:   strings.ToUpper(pick(epcRatingAliases)),
		Lodged:   pick(epcDateAliases),
	}
	if len(c.Lodged) > 10 {
		c.Lodged = c.Lodged[:10]
	}
	if c.Postcode == "" || c.Rating == "" {
		return Certificate{}, false
	}

	if key := pick(epcKeyAliases); key != "" {
		c.PropertyKey = key
	} else {
		c.PropertyKey = strings.ToLower(c.Address) + "|" + c.Postcode
	}
	return c, true
}

// ratingScore maps grade letters to scores: G=1 up to A=7.
// Unrecognized grades score 0 and are excluded from aggregation.
func ratingScore(rating string) int {
	switch rating {
	case "A":
		return 7
	case "B":
		return 6
	case "C":
		return 5
	case "D":
		return 4
	case "E":
		return 3
	case "F":
		return 2
	case "G":
		return 1
	default:
		return 0
	}
}

// scoreToRating maps an average score back to the nearest grade using
// half-open bands: ≥6.5→A, ≥5.5→B, ≥4.5→C, ≥3.5→D, ≥2.5→E, ≥1.5→F, else G.
func scoreToRating(score float64) string {
	switch {
	case score >= 6.5:
		return "A"
	case score >= 5.5:
		return "B"
	case score >= 4.5:
		return "C"
	case score >= 3.5:
		return "D"
	case score >= 2.5:
		return "E"
	case score >= 1.5:
		return "F"
	default:
		return "G"
	}
}

// SummarizeEPC reconciles a postcode's certificates into an EPCSummary.
// With a house number it selects that property's latest certificate
// (case-insensitive substring match on the address); without one it
// aggregates the whole postcode, keeping only each property's most recent
// certificate.
func SummarizeEPC(certs []Certificate, number string) EPCSummary {
	if number != "" {
		return summarizeProperty(certs, number)
	}
	return summarizePostcode(certs)
}

func summarizeProperty(certs []Certificate, number string) EPCSummary {
	needle := strings.ToLower(strings.TrimSpace(number))

	var match *Certificate
	for i := range certs {
		if !strings.Contains(strings.ToLower(certs[i].Address), needle) {
			continue
		}
		// ISO dates compare correctly as strings.
		if match == nil || certs[i].Lodged > match.Lodged {
			match = &certs[i]
		}
	}

	note := ""
	if match == nil {
		for i := range certs {
			if match == nil || certs[i].Lodged > match.Lodged {
				match = &certs[i]
			}
		}
		note = "No certificate matched the house number; showing the most recent certificate in the postcode."
	}
	if match == nil {
		return EPCSummary{Mode: EPCModeProperty, Rating: "Unknown", Note: "No certificates found for this postcode."}
	}

	rating := match.Rating
	if ratingScore(rating) == 0 {
		rating = "Unknown"
	}
	return EPCSummary{
		Mode:           EPCModeProperty,
		Rating:         rating,
		AssessmentDate: match.Lodged,
		Note:           note,
	}
}

func summarizePostcode(certs []Certificate) EPCSummary {
	// Keep only the most recent certificate per property.
	latest := make(map[string]Certificate)
	for _, c := range certs {
		if prev, ok := latest[c.PropertyKey]; !ok || c.Lodged > prev.Lodged {
			latest[c.PropertyKey] = c
		}
	}

	distribution := map[string]int{"A": 0, "B": 0, "C": 0, "D": 0, "E": 0, "F": 0, "G": 0}
	var scores []float64
	latestYear := ""
	for _, c := range latest {
		if len(c.Lodged) >= 4 && c.Lodged[:4] > latestYear {
			latestYear = c.Lodged[:4]
		}
		score := ratingScore(c.Rating)
		if score == 0 {
			continue
		}
		distribution[c.Rating]++
		scores = append(scores, float64(score))
	}

	if len(scores) == 0 {
		return EPCSummary{Mode: EPCModePostcode, Note: "No certificates with a recognized rating in this postcode."}
	}

	mean, _ := stats.Mean(scores)
	return EPCSummary{
		Mode:               EPCModePostcode,
		PropertiesAnalysed: len(scores),
		AverageRating:      scoreToRating(mean),
		Distribution:       distribution,
		LatestYear:         latestYear,
	}
}
