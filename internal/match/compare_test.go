package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"certitrust/internal/models"
)

func TestCompareIdenticalRecords(t *testing.T) {
	rec := models.CertificateRecord{
		Name:          "Aarav Sharma",
		RollNumber:    "210045",
		CertificateID: "CERT-2021-0045",
		DateOfBirth:   "14-08-2003",
	}
	assert.Equal(t, 1.0, Compare(rec, rec))
}

func TestCompareIsCaseAndWhitespaceTolerant(t *testing.T) {
	a := models.CertificateRecord{Name: "aarav sharma ", RollNumber: "210045"}
	b := models.CertificateRecord{Name: "AARAV SHARMA", RollNumber: "210045"}
	assert.Equal(t, 1.0, Compare(a, b))
}

func TestCompareDateSeparators(t *testing.T) {
	a := models.CertificateRecord{Name: "Alice", DateOfBirth: "01-02-2000"}
	b := models.CertificateRecord{Name: "Alice", DateOfBirth: "01/02/2000"}
	assert.Equal(t, 1.0, Compare(a, b))

	c := models.CertificateRecord{Name: "Alice", DateOfBirth: "01022000"}
	assert.Equal(t, 1.0, Compare(a, c))
}

func TestCompareNoComparableFields(t *testing.T) {
	assert.Equal(t, 0.0, Compare(models.CertificateRecord{}, models.CertificateRecord{}))
}

func TestCompareCertificateIDAbsenceNotPenalized(t *testing.T) {
	// OCR commonly fails to read the certificate number; its absence on
	// either side must not drag similarity down.
	a := models.CertificateRecord{Name: "Alice", RollNumber: "R1", CertificateID: "null"}
	b := models.CertificateRecord{Name: "Alice", RollNumber: "R1", CertificateID: "CERT-1"}
	assert.Equal(t, 1.0, Compare(a, b))

	c := models.CertificateRecord{Name: "Alice", RollNumber: "R1"}
	assert.Equal(t, 1.0, Compare(c, b))
}

func TestCompareCertificateIDMismatchCounts(t *testing.T) {
	a := models.CertificateRecord{Name: "Alice", CertificateID: "CERT-1"}
	b := models.CertificateRecord{Name: "Alice", CertificateID: "CERT-2"}
	assert.Equal(t, 0.5, Compare(a, b))
}

func TestCompareOneSidedFieldCounts(t *testing.T) {
	// A field present on only one side is considered but cannot match.
	a := models.CertificateRecord{Name: "Alice", FathersName: "Bob"}
	b := models.CertificateRecord{Name: "Alice"}
	assert.Equal(t, 0.5, Compare(a, b))
}

func TestComparePartialSimilarity(t *testing.T) {
	a := models.CertificateRecord{Name: "Alice", RollNumber: "R1", DateOfBirth: "01-02-2000", FathersName: "Bob"}
	b := models.CertificateRecord{Name: "Alice", RollNumber: "R2", DateOfBirth: "01/02/2000", FathersName: "Bob"}
	assert.Equal(t, 0.75, Compare(a, b))
}
