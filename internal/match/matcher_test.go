package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certitrust/internal/models"
	"certitrust/internal/shellid"
)

func blockchainCandidates() []map[string]any {
	return []map[string]any{
		{"name": "Aarav Sharma", "rollNumber": "210045", "certificateId": "CERT-2021-0045", "dateOfBirth": "14-08-2003"},
		{"name": "Priya Patel", "rollNumber": "210112", "certificateId": "CERT-2021-0112"},
		{"name": "Rohan Verma", "rollNumber": "210178", "certificateId": "CERT-2021-0178"},
	}
}

func TestFindBestMatchEmptyCandidates(t *testing.T) {
	query := models.CertificateRecord{Name: "Aarav Sharma"}
	res := FindBestMatch(query, nil, models.SourceBlockchain)
	assert.False(t, res.Matched)
	assert.Zero(t, res.Similarity)
	assert.Empty(t, res.VerifiedShellID)
	assert.Nil(t, res.Record)
}

func TestFindBestMatchNothingAboveFuzzyFloor(t *testing.T) {
	query := models.CertificateRecord{Name: "Zzyzx Qwopling"}
	res := FindBestMatch(query, blockchainCandidates(), models.SourceBlockchain)
	assert.False(t, res.Matched)
	assert.Zero(t, res.Similarity)
}

func TestFindBestMatchExactFingerprint(t *testing.T) {
	query := models.CertificateRecord{
		Name:          "Aarav Sharma",
		RollNumber:    "210045",
		CertificateID: "CERT-2021-0045",
		DateOfBirth:   "14-08-2003",
	}
	res := FindBestMatch(query, blockchainCandidates(), models.SourceBlockchain)
	require.True(t, res.Matched)
	assert.True(t, res.ExactMatch)
	assert.Equal(t, 1.0, res.Similarity)
	assert.Equal(t, shellid.Fingerprint(*res.Record), res.VerifiedShellID)
	assert.NotNil(t, res.RawRecord)
}

func TestFindBestMatchToleratesCaseDifferences(t *testing.T) {
	query := models.CertificateRecord{
		Name:          "AARAV SHARMA",
		RollNumber:    "210045",
		CertificateID: "CERT-2021-0045",
		DateOfBirth:   "14-08-2003",
	}
	res := FindBestMatch(query, blockchainCandidates(), models.SourceBlockchain)
	require.True(t, res.Matched)
	assert.True(t, res.ExactMatch) // normalization lowercases before hashing
}

func TestFindBestMatchGradedSimilarity(t *testing.T) {
	// Same person, different roll number: 3 of 4 considered fields
	// match, below the exact fingerprint but at the 0.8 threshold is
	// not reached (0.75), so no match.
	query := models.CertificateRecord{
		Name:          "Aarav Sharma",
		RollNumber:    "999999",
		CertificateID: "CERT-2021-0045",
		DateOfBirth:   "14-08-2003",
	}
	res := FindBestMatch(query, blockchainCandidates(), models.SourceBlockchain)
	require.NotNil(t, res.Record)
	assert.False(t, res.ExactMatch)
	assert.Equal(t, 0.75, res.Similarity)
	assert.False(t, res.Matched)
}

func TestFindBestMatchGradedAboveThreshold(t *testing.T) {
	// Date separators differ but still count as a field match; with the
	// certificateId absent on the query side the field is skipped, so
	// all considered fields agree.
	query := models.CertificateRecord{
		Name:        "Aarav Sharma",
		RollNumber:  "210045",
		DateOfBirth: "14/08/2003",
	}
	res := FindBestMatch(query, blockchainCandidates(), models.SourceBlockchain)
	require.True(t, res.Matched)
	assert.False(t, res.ExactMatch)
	assert.Equal(t, 1.0, res.Similarity)
}

func TestFindBestMatchDigiLockerNestedShape(t *testing.T) {
	candidates := []map[string]any{
		{
			"Certificate": map[string]any{
				"number": "190233",
				"IssuedTo": map[string]any{
					"Person": map[string]any{
						"name":       "Ishaan Gupta",
						"dob":        "05-06-2001",
						"swd":        "Vikram Gupta",
						"motherName": "Neha Gupta",
					},
				},
				"CertificateData": map[string]any{
					"Examination": map[string]any{"admitCardId": "ADM-2019-0233"},
				},
			},
		},
	}
	query := models.CertificateRecord{
		Name:        "Ishaan Gupta",
		RollNumber:  "190233",
		DateOfBirth: "05-06-2001",
		FathersName: "Vikram Gupta",
		MothersName: "Neha Gupta",
	}
	res := FindBestMatch(query, candidates, models.SourceDigiLocker)
	require.NotNil(t, res.Record)
	assert.Equal(t, "Ishaan Gupta", res.Record.Name)
	assert.Equal(t, "190233", res.Record.RollNumber)
	assert.Equal(t, "ADM-2019-0233", res.Record.CertificateID)
	assert.Equal(t, "Vikram Gupta", res.Record.FathersName)
	assert.Equal(t, "Neha Gupta", res.Record.MothersName)
	assert.True(t, res.Matched)
}

func TestFindBestMatchDigiLockerFlatShape(t *testing.T) {
	candidates := []map[string]any{
		{
			"Student Name":  "Ananya Singh",
			"Roll Number":   "190310",
			"Date of Birth": "19-03-2001",
			"Father's Name": "Harpreet Singh",
		},
	}
	query := models.CertificateRecord{Name: "Ananya Singh", RollNumber: "190310", DateOfBirth: "19/03/2001", FathersName: "Harpreet Singh"}
	res := FindBestMatch(query, candidates, models.SourceDigiLocker)
	require.NotNil(t, res.Record)
	assert.Equal(t, "Ananya Singh", res.Record.Name)
	assert.Equal(t, "190310", res.Record.RollNumber)
	assert.True(t, res.Matched)
}

func TestFindBestMatchDigiLockerUnrecognizedShapePassesThrough(t *testing.T) {
	candidates := []map[string]any{
		{"name": "Kabir Mehta", "rollNumber": "190352"},
	}
	query := models.CertificateRecord{Name: "Kabir Mehta", RollNumber: "190352"}
	res := FindBestMatch(query, candidates, models.SourceDigiLocker)
	require.True(t, res.Matched)
	assert.Equal(t, "Kabir Mehta", res.Record.Name)
	assert.Equal(t, "190352", res.Record.RollNumber)
}

func TestFindBestMatchRanksBestCandidateFirst(t *testing.T) {
	candidates := append(blockchainCandidates(), map[string]any{
		"name": "Aarav Sharma", "rollNumber": "210045", "certificateId": "CERT-2021-0045", "dateOfBirth": "14-08-2003", "fathersName": "Rajesh Sharma",
	})
	query := models.CertificateRecord{Name: "Priya Patel", RollNumber: "210112", CertificateID: "CERT-2021-0112"}
	res := FindBestMatch(query, candidates, models.SourceBlockchain)
	require.True(t, res.Matched)
	assert.Equal(t, "Priya Patel", res.Record.Name)
}

func TestFindBestMatchSentinelCertificateID(t *testing.T) {
	// The literal string "null" in certificateId is coerced to absence
	// before fingerprinting, so the query still hits exactly.
	candidates := []map[string]any{{"name": "Priya Patel", "rollNumber": "210112"}}
	query := models.CertificateRecord{Name: "Priya Patel", RollNumber: "210112", CertificateID: "null"}
	res := FindBestMatch(query, candidates, models.SourceBlockchain)
	require.True(t, res.Matched)
	assert.True(t, res.ExactMatch)
}
