// Package trust combines the tampering signal with match quality and
// provenance into a 0-100 trust score and a three-way verdict.
package trust

import (
	"math"

	"certitrust/internal/models"
)

// Source weights differ because the blockchain collection is
// application-managed while DigiLocker records are externally sourced.
const (
	blockchainTamperWeight = 60
	blockchainFieldWeight  = 40
	digilockerTamperWeight = 50
	digilockerFieldWeight  = 50
	exactMatchFloor        = 95
)

// Score maps (tampering, provenance, exact-match, similarity) to the
// reported integer trust score and verdict. The verdict is decided on
// the full-precision score; rounding applies to reporting only. An
// exact fingerprint match against the blockchain collection overrides a
// borderline tampering signal via the 95-point floor.
func Score(tamperingScore float64, source models.Source, exactMatch bool, similarity float64) (int, models.Verdict) {
	var score float64
	switch source {
	case models.SourceBlockchain:
		score = (1-tamperingScore)*blockchainTamperWeight + similarity*blockchainFieldWeight
		if exactMatch {
			score = math.Max(score, exactMatchFloor)
		}
	case models.SourceDigiLocker:
		score = (1-tamperingScore)*digilockerTamperWeight + similarity*digilockerFieldWeight
	default:
		// No match anywhere: the tampering signal alone, capped at 50
		// by construction.
		score = (1 - tamperingScore) * 50
	}

	matched := source == models.SourceBlockchain || source == models.SourceDigiLocker
	var verdict models.Verdict
	switch {
	case score >= 80 || (matched && score >= 75):
		verdict = models.VerdictValid
	case score >= 40:
		verdict = models.VerdictSuspicious
	default:
		verdict = models.VerdictForged
	}

	return int(math.Round(score)), verdict
}
