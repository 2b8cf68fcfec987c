// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"crypto/x509"
	"time"
)

// Validity is the expiry verdict for one certificate.
type Validity struct {
	Valid    bool
	NotAfter time.Time
}

// CheckValidity reports whether now is not after cert.NotAfter.
// The boundary itself counts as valid. NotBefore is not checked.
func CheckValidity(cert *x509.Certificate, now time.Time) Validity {
	return Validity{
		Valid:    !now.After(cert.NotAfter),
		NotAfter: cert.NotAfter,
	}
}

// CheckExpiry evaluates every certificate of the chain against the chain's clock.
// The result is index-aligned with Certs.
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) CheckExpiry() []Validity {
	now := ch.now()
	certs := ch.Snapshot()

	results := make([]Validity, len(certs))
	for i, cert := range certs {
		results[i] = CheckValidity(cert, now)
	}
	return results
}

// HasExpired reports whether any certificate of the chain has expired.
func (ch *Chain) HasExpired() bool {
	for _, v := range ch.CheckExpiry() {
		if !v.Valid {
			return true
		}
	}
	return false
}
