package match

import (
	"encoding/json"

	"certitrust/internal/models"
)

// shapeKind tags the known physical schemas of DigiLocker records.
// Anything else passes through best-effort.
type shapeKind int

const (
	shapeNestedPerson shapeKind = iota // Certificate.IssuedTo.Person + metadata
	shapeFlatFields                    // "Student Name" / "Roll Number" / ...
	shapeUnrecognized
)

func detectShape(raw map[string]any, source models.Source) shapeKind {
	if source != models.SourceDigiLocker {
		return shapeUnrecognized
	}
	if cert, ok := raw["Certificate"].(map[string]any); ok {
		if _, ok := cert["IssuedTo"].(map[string]any); ok {
			return shapeNestedPerson
		}
	}
	if _, ok := raw["Student Name"]; ok {
		return shapeFlatFields
	}
	return shapeUnrecognized
}

// normalizeRaw maps a raw stored record into the canonical
// CertificateRecord shape for the given source.
func normalizeRaw(raw map[string]any, source models.Source) models.CertificateRecord {
	switch detectShape(raw, source) {
	case shapeNestedPerson:
		return fromNestedPerson(raw)
	case shapeFlatFields:
		return fromFlatFields(raw)
	default:
		return fromGeneric(raw)
	}
}

func fromNestedPerson(raw map[string]any) models.CertificateRecord {
	str := func(path string) string {
		v, _ := resolvePath(raw, path)
		return v
	}
	return models.CertificateRecord{
		Name:          str("Certificate.IssuedTo.Person.name"),
		RollNumber:    str("Certificate.number"),
		CertificateID: str("Certificate.CertificateData.Examination.admitCardId"),
		DateOfBirth:   str("Certificate.IssuedTo.Person.dob"),
		FathersName:   str("Certificate.IssuedTo.Person.swd"),
		MothersName:   str("Certificate.IssuedTo.Person.motherName"),
	}
}

func fromFlatFields(raw map[string]any) models.CertificateRecord {
	str := func(key string) string {
		v, _ := resolvePath(raw, key)
		return v
	}
	return models.CertificateRecord{
		Name:          str("Student Name"),
		RollNumber:    str("Roll Number"),
		CertificateID: str("Certificate ID"),
		DateOfBirth:   str("Date of Birth"),
		FathersName:   str("Father's Name"),
		MothersName:   str("Mother's Name"),
	}
}

// fromGeneric decodes a record that already carries canonical field
// names (blockchain records, or an unrecognized DigiLocker shape).
func fromGeneric(raw map[string]any) models.CertificateRecord {
	var rec models.CertificateRecord
	b, err := json.Marshal(raw)
	if err != nil {
		return rec
	}
	_ = json.Unmarshal(b, &rec)
	return rec
}
