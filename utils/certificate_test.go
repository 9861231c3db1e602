package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCertificateIDFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^CERT-[0-9A-F]{6}-[0-9A-F]{4}$`)
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		id := GenerateCertificateID()
		assert.Regexp(t, pattern, id)
		assert.True(t, IsCertificateID(id))
		seen[id] = true
	}
	assert.Greater(t, len(seen), 495)
}

func TestIsCertificateID(t *testing.T) {
	assert.True(t, IsCertificateID("CERT-AB12CD-34EF"))
	assert.False(t, IsCertificateID("CERT-ab12cd-34ef"))
	assert.False(t, IsCertificateID("CERT-AB12CD-34EF0"))
	assert.False(t, IsCertificateID("DIPL-AB12CD-34EF"))
	assert.False(t, IsCertificateID(""))
}

func TestVerificationURL(t *testing.T) {
	assert.Equal(t, "https://app.example.com/verify/CERT-AB12CD-34EF", VerificationURL("https://app.example.com/", "CERT-AB12CD-34EF"))
	assert.Equal(t, "/verify/CERT-AB12CD-34EF", VerificationURL("", "CERT-AB12CD-34EF"))
}
