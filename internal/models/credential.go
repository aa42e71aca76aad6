package models

// Extraction holds the normalized fields the oracle parsed from a
// certificate image, plus its tampering assessment, for subsequent
// verification against the record collections.
type Extraction struct {
	Name                 string  `json:"name"`
	RollNumber           string  `json:"rollNumber"`
	CertificateID        string  `json:"certificateId"`
	DateOfBirth          string  `json:"dateOfBirth,omitempty"`
	FathersName          string  `json:"fathersName,omitempty"`
	MothersName          string  `json:"mothersName,omitempty"`
	TamperingScore       float64 `json:"tamperingScore"`
	TamperingExplanation string  `json:"tamperingExplanation"`
}

// Record returns just the identity fields of the extraction.
func (e Extraction) Record() CertificateRecord {
	return CertificateRecord{
		Name:          e.Name,
		RollNumber:    e.RollNumber,
		CertificateID: e.CertificateID,
		DateOfBirth:   e.DateOfBirth,
		FathersName:   e.FathersName,
		MothersName:   e.MothersName,
	}
}
