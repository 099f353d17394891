package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for changing the encoding later.
const (
	DomainCounterexample = "qsortprop/counterexample/v1"
	DomainReport         = "qsortprop/report/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator keeps domain and data from running together.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CounterexampleID returns a stable ID for a minimized failing input.
// The same property, failure code and input always map to the same ID, so
// re-finding a known counterexample does not create a duplicate record.
func CounterexampleID(property, code string, input any) (string, error) {
	data, err := Marshal(map[string]any{
		"property": property,
		"code":     code,
		"input":    input,
	})
	if err != nil {
		return "", fmt.Errorf("CounterexampleID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainCounterexample, data), nil
}

// Digest returns the domain-separated hash of an arbitrary report value.
func Digest(v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", fmt.Errorf("Digest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainReport, data), nil
}
