package models

import "time"

// VerificationAudit is one row of the audit trail: what was verified,
// what the pipeline decided, and the fingerprints involved.
type VerificationAudit struct {
	ID                string    `gorm:"primaryKey" json:"id"`
	ReportID          string    `gorm:"index" json:"report_id"`
	Verdict           string    `json:"verdict"`
	TrustScore        int       `json:"trust_score"`
	Source            string    `json:"source"`
	TamperingScore    float64   `json:"tampering_score"`
	UnverifiedShellID string    `json:"unverified_shell_id"`
	VerifiedShellID   string    `json:"verified_shell_id"`
	CreatedAt         time.Time `json:"created_at"`
}
