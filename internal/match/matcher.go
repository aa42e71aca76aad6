// Package match searches the record collections for the best candidate
// for an extracted certificate and grades how closely it agrees.
package match

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"certitrust/internal/models"
	"certitrust/internal/shellid"
)

// fuzzyFloor is the minimum Jaro-Winkler similarity between the query
// name and a candidate name for the candidate to count as found at all.
const fuzzyFloor = 0.6

var (
	digilockerNameKeys = []string{"Certificate.IssuedTo.Person.name", "Student Name", "name"}
	blockchainNameKeys = []string{"name"}
)

// FindBestMatch ranks candidates against the query name, normalizes the
// winner to the canonical record shape, and decides exact vs graded
// match. An empty candidate set, or nothing above the fuzzy floor,
// yields a non-match with zero scores.
func FindBestMatch(query models.CertificateRecord, candidates []map[string]any, source models.Source) models.MatchResult {
	nameKeys := blockchainNameKeys
	if source == models.SourceDigiLocker {
		nameKeys = digilockerNameKeys
	}

	metric := metrics.NewJaroWinkler()
	queryName := strings.ToLower(strings.TrimSpace(query.Name))

	bestIdx := -1
	bestScore := 0.0
	for i, cand := range candidates {
		name, ok := resolveFirst(cand, nameKeys)
		if !ok {
			continue
		}
		score := strutil.Similarity(queryName, strings.ToLower(strings.TrimSpace(name)), metric)
		if score > bestScore {
			bestScore, bestIdx = score, i
		}
	}
	if bestIdx == -1 || bestScore < fuzzyFloor {
		return models.MatchResult{}
	}

	raw := candidates[bestIdx]
	rec := normalizeRaw(raw, source)
	q := query.Sanitized()

	verifiedID := shellid.Fingerprint(rec)
	if shellid.Fingerprint(q) == verifiedID {
		// Exact fingerprint equality is definitionally full similarity;
		// skip the field-by-field pass.
		return models.MatchResult{
			Matched:         true,
			Record:          &rec,
			Similarity:      1,
			ExactMatch:      true,
			VerifiedShellID: verifiedID,
			RawRecord:       raw,
		}
	}

	sim := Compare(q, rec)
	return models.MatchResult{
		Matched:         sim >= MatchThreshold,
		Record:          &rec,
		Similarity:      sim,
		VerifiedShellID: verifiedID,
		RawRecord:       raw,
	}
}
