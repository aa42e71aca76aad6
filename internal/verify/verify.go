// Package verify orchestrates the verification pipeline: oracle
// extraction, fingerprinting, matching against the two collections in
// order, trust scoring and the final verdict.
package verify

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"certitrust/internal/match"
	"certitrust/internal/models"
	"certitrust/internal/shellid"
	"certitrust/internal/store"
	"certitrust/internal/trust"
)

// ErrMissingName means the extracted record lacks the one field the
// pipeline cannot work without.
var ErrMissingName = errors.New("extracted record has no name")

// Oracle is the external OCR/tampering collaborator.
type Oracle interface {
	Extract(ctx context.Context, image []byte, mimeType string) (models.Extraction, error)
}

// Verifier runs the pipeline. Stateless per request; the record store
// gateway is the only shared collaborator.
type Verifier struct {
	store  *store.Gateway
	oracle Oracle
}

func New(gw *store.Gateway, oracle Oracle) *Verifier {
	return &Verifier{store: gw, oracle: oracle}
}

// Verify extracts fields from the document and evaluates them.
func (v *Verifier) Verify(ctx context.Context, image []byte, mimeType string) (models.VerificationOutcome, error) {
	ext, err := v.oracle.Extract(ctx, image, mimeType)
	if err != nil {
		return models.VerificationOutcome{}, err
	}
	return v.Evaluate(ctx, ext)
}

// Evaluate runs the pipeline on an already-extracted record. The
// blockchain collection is always consulted first; DigiLocker only on a
// blockchain miss.
func (v *Verifier) Evaluate(ctx context.Context, ext models.Extraction) (models.VerificationOutcome, error) {
	ocr := ext.Record()
	if strings.TrimSpace(ocr.Name) == "" {
		return models.VerificationOutcome{}, ErrMissingName
	}

	unverifiedID := shellid.Fingerprint(ocr)

	blockchainRecords, err := v.store.GetAll(ctx, store.BlockchainKey)
	if err != nil {
		return models.VerificationOutcome{}, err
	}
	result := match.FindBestMatch(ocr, blockchainRecords, models.SourceBlockchain)
	source := models.SourceBlockchain

	if !result.Matched {
		digilockerRecords, err := v.store.GetAll(ctx, store.DigiLockerKey)
		if err != nil {
			return models.VerificationOutcome{}, err
		}
		result = match.FindBestMatch(ocr, digilockerRecords, models.SourceDigiLocker)
		source = models.SourceDigiLocker
		if !result.Matched {
			source = models.SourceNone
			result = models.MatchResult{}
		}
	}

	score, verdict := trust.Score(ext.TamperingScore, source, result.ExactMatch, result.Similarity)

	outcome := models.VerificationOutcome{
		ReportID:   uuid.NewString(),
		Verdict:    verdict,
		TrustScore: score,
		Details: models.OutcomeDetails{
			OCR: models.OCRDetails{
				Data:     ocr,
				Accuracy: result.Similarity,
			},
			Source: models.SourceDetails{
				Name:              source,
				Match:             result.Matched,
				VerifiedShellID:   result.VerifiedShellID,
				UnverifiedShellID: unverifiedID,
			},
			Tampering: models.TamperingDetails{
				Score:       ext.TamperingScore,
				Explanation: ext.TamperingExplanation,
			},
			Blockchain: models.BlockchainDetails{
				Verified: source == models.SourceBlockchain,
			},
		},
	}
	return outcome, nil
}
