package match

import (
	"strings"

	"certitrust/internal/models"
)

// MatchThreshold is the fixed field-similarity cutoff for declaring a
// graded match. Policy constant, not configurable per call.
const MatchThreshold = 0.8

// Compare computes the field-level similarity between an extracted
// record and a matched candidate, in [0,1]. Fields absent on both sides
// are not considered. certificateId is skipped entirely when either
// side lacks it: OCR commonly fails to extract it and absence must not
// penalize an otherwise matching record. A record with no comparable
// fields scores 0.
func Compare(query, candidate models.CertificateRecord) float64 {
	q := query.Sanitized()
	c := candidate.Sanitized()

	type pair struct{ key, qv, cv string }
	pairs := []pair{
		{"name", q.Name, c.Name},
		{"rollNumber", q.RollNumber, c.RollNumber},
		{"certificateId", q.CertificateID, c.CertificateID},
		{"dateOfBirth", q.DateOfBirth, c.DateOfBirth},
		{"fathersName", q.FathersName, c.FathersName},
		{"mothersName", q.MothersName, c.MothersName},
	}

	var total, matching int
	for _, p := range pairs {
		if p.qv == "" && p.cv == "" {
			continue
		}
		if p.key == "certificateId" && (p.qv == "" || p.cv == "") {
			continue
		}
		total++
		if p.qv == "" || p.cv == "" {
			continue
		}
		if p.key == "dateOfBirth" {
			if stripDateSeparators(p.qv) == stripDateSeparators(p.cv) {
				matching++
			}
		} else if strings.EqualFold(strings.TrimSpace(p.qv), strings.TrimSpace(p.cv)) {
			matching++
		}
	}

	if total == 0 {
		return 0
	}
	return float64(matching) / float64(total)
}

// stripDateSeparators tolerates DD-MM-YYYY vs DD/MM/YYYY vs DDMMYYYY.
func stripDateSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || r == '/' {
			return -1
		}
		return r
	}, s)
}
