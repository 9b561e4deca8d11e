// internal/dedupe/score.go
package dedupe

import (
	"strings"

	"leadflow-service/internal/domain/customer"
)

// Score rates how complete a record is. A phone dedupe sweep keeps the
// highest-scoring member of each group as the canonical survivor.
//
// Registered records outrank everything: no amount of field richness on an
// unregistered duplicate may displace a record that completed the pipeline.
// Each populated richness field adds 1; a present last_updated stamp adds
// only 0.5 since it says the record was touched, not that it holds data.
func Score(r *customer.CustomerRecord) float64 {
	var s float64

	if r.FinalStatus == customer.StatusRegistered {
		s += 100
	}

	richness := []string{
		r.Name,
		r.Email,
		r.Country,
		r.Source,
		r.FirstCallDate,
		r.SecondCallDate,
		r.FinalCallDate,
		r.Notes,
		r.SecondCallNotes,
		r.FinalNotes,
		r.LastMessageSnippet,
	}
	for _, v := range richness {
		if strings.TrimSpace(v) != "" {
			s++
		}
	}

	if r.LastUpdated != 0 {
		s += 0.5
	}

	return s
}

// Meaningful reports whether a record carries any identifying signal: a real
// name, a phone with at least minPhoneDigits digits, or an email. Records
// failing this are junk rows from malformed imports; they are skipped on
// upsert and removed by the unknown-record purge, and never selected as a
// merge canonical.
func Meaningful(r *customer.CustomerRecord, minPhoneDigits int) bool {
	name := strings.ToLower(strings.TrimSpace(r.Name))
	if name != "" && name != "unknown" && name != "unnamed" {
		return true
	}
	if DigitCount(r.Phone) >= minPhoneDigits {
		return true
	}
	return strings.TrimSpace(r.Email) != ""
}
