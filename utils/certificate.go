package utils

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const certificatePrefix = "CERT"

var certificatePattern = regexp.MustCompile(`^CERT-[0-9A-F]{6}-[0-9A-F]{4}$`)

// GenerateCertificateID returns a public identifier of the form CERT-XXXXXX-XXXX
// taken from the first ten hex digits of a random UUID.
func GenerateCertificateID() string {
	hex := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:10]
	return certificatePrefix + "-" + hex[:6] + "-" + hex[6:]
}

// IsCertificateID reports whether s has the certificate identifier shape
func IsCertificateID(s string) bool {
	return certificatePattern.MatchString(s)
}

// VerificationURL builds the public verification link encoded into diploma QR codes
func VerificationURL(base, certificateID string) string {
	return strings.TrimRight(base, "/") + "/verify/" + certificateID
}
