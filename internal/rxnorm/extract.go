package rxnorm

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// strengthRe matches a dose such as "50 MG", "0.5 MG/ML" or "100 UNT/ML".
	strengthRe = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:(?:MCG|MG|MEQ|MMOL|UNT|IU|ML|G)\b|%)(?:\s*/\s*(?:\d+(?:\.\d+)?\s*)?(?:ML|MG|HR|ACTUAT|G)\b)?`)

	// formRe matches release-type and dosage-form keywords. Longer phrases come
	// first so "Oral Tablet" wins over "Tablet" at the same position.
	formRe = regexp.MustCompile(`(?i)\b(?:Extended Release|Delayed Release|Disintegrating Oral Tablet|Chewable Tablet|Sublingual Tablet|Oral Tablet|Oral Capsule|Oral Solution|Oral Suspension|Injectable Solution|Injection|Topical Cream|Topical Ointment|Transdermal System|Transdermal Patch|Nasal Spray|Ophthalmic Solution|Rectal Suppository|Inhalant|Tablet|Capsule|Solution|Suspension|Cream|Patch|Spray)\b`)
)

// ExtractStrength returns every dose in name joined with " / ", or "".
func ExtractStrength(name string) string {
	matches := strengthRe.FindAllString(name, -1)
	for i, m := range matches {
		matches[i] = strings.Join(strings.Fields(strings.ToUpper(m)), " ")
	}
	return strings.Join(matches, " / ")
}

// ExtractDosageForm returns the form keywords in name joined with spaces, or "".
func ExtractDosageForm(name string) string {
	return strings.Join(formRe.FindAllString(name, -1), " ")
}

// strengthValue returns the leading number of a strength for ordering.
func strengthValue(s string) float64 {
	end := strings.IndexFunc(s, func(r rune) bool { return (r < '0' || r > '9') && r != '.' })
	if end < 0 {
		end = len(s)
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}
