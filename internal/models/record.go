package models

// CertificateRecord is the canonical identity record extracted from a
// certificate or stored in one of the record collections. Only Name is
// guaranteed; every other field may be empty, and empty means absent.
type CertificateRecord struct {
	Name          string `json:"name"`
	RollNumber    string `json:"rollNumber,omitempty"`
	CertificateID string `json:"certificateId,omitempty"`
	DateOfBirth   string `json:"dateOfBirth,omitempty"`
	FathersName   string `json:"fathersName,omitempty"`
	MothersName   string `json:"mothersName,omitempty"`
}

// certificateIDSentinel is the literal string upstream OCR emits when it
// could not read a certificate number. It must be treated as absence,
// never as a value.
const certificateIDSentinel = "null"

// Sanitized returns a copy with the certificateId sentinel coerced to
// true absence. Apply before fingerprinting or field comparison.
func (r CertificateRecord) Sanitized() CertificateRecord {
	if r.CertificateID == certificateIDSentinel {
		r.CertificateID = ""
	}
	return r
}

// Source identifies which record collection produced a match.
type Source string

const (
	SourceBlockchain Source = "Blockchain"
	SourceDigiLocker Source = "DigiLocker"
	SourceNone       Source = "None"
)

// Verdict is the final tri-state classification of a verified document.
type Verdict string

const (
	VerdictValid      Verdict = "Valid"
	VerdictSuspicious Verdict = "Suspicious"
	VerdictForged     Verdict = "Forged"
)

// MatchResult is the outcome of searching one collection for the record
// extracted from a document.
type MatchResult struct {
	Matched         bool               `json:"matched"`
	Record          *CertificateRecord `json:"record,omitempty"`
	Similarity      float64            `json:"similarity"`
	ExactMatch      bool               `json:"exactMatch"`
	VerifiedShellID string             `json:"verifiedShellId,omitempty"`
	RawRecord       map[string]any     `json:"rawRecord,omitempty"`
}

// OCRDetails carries the extracted record plus the field accuracy the
// matcher computed against the winning stored record.
type OCRDetails struct {
	Data     CertificateRecord `json:"data"`
	Accuracy float64           `json:"accuracy"`
	UsedQR   bool              `json:"usedQr"`
}

// SourceDetails attributes the match to a collection and carries both
// shell ids for display.
type SourceDetails struct {
	Name              Source `json:"name"`
	Match             bool   `json:"match"`
	VerifiedShellID   string `json:"verifiedShellId,omitempty"`
	UnverifiedShellID string `json:"unverifiedShellId,omitempty"`
}

// TamperingDetails is the oracle's forensic assessment of the image.
type TamperingDetails struct {
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

// BlockchainDetails reports whether the match came from the blockchain
// collection.
type BlockchainDetails struct {
	Verified bool `json:"verified"`
}

// OutcomeDetails is the details bundle attached to every verification.
type OutcomeDetails struct {
	OCR        OCRDetails        `json:"ocr"`
	Source     SourceDetails     `json:"source"`
	Tampering  TamperingDetails  `json:"tampering"`
	Blockchain BlockchainDetails `json:"blockchain"`
}

// VerificationOutcome is the pipeline's terminal output. Immutable once
// produced; the presentation layer only reads it.
type VerificationOutcome struct {
	ReportID   string         `json:"reportId"`
	Verdict    Verdict        `json:"verdict"`
	TrustScore int            `json:"trustScore"`
	Details    OutcomeDetails `json:"details"`
}
