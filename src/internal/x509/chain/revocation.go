// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"context"
	"crypto/x509"

	x509certs "github.com/H0llyW00dzZ/x509-trust-validator/src/internal/x509/certs"
)

// RevocationResult is the outcome of a CRL lookup.
type RevocationResult int

const (
	// RevocationUnknown means no CRL could be consulted: the certificate has no
	// CRL Distribution Point, or the CRL could not be fetched or decoded.
	RevocationUnknown RevocationResult = iota
	// NotRevoked means the CRL was read and does not list the serial number.
	NotRevoked
	// Revoked means the CRL lists the serial number.
	Revoked
)

// String returns a human-readable form of r.
func (r RevocationResult) String() string {
	switch r {
	case NotRevoked:
		return "not revoked"
	case Revoked:
		return "revoked"
	default:
		return "unknown"
	}
}

// CheckRevocation looks cert up in the CRL named by its first CRL Distribution Point.
//
// Serial numbers are compared as integers. A CRL that cannot be fetched or
// decoded is reported to the logger and yields [RevocationUnknown]; a CRL
// with no entries yields [NotRevoked].
//
// Parameters:
//   - ctx: Context for cancellation and timeouts
//   - cert: Certificate to look up
//
// Returns:
//   - RevocationResult: Revoked, NotRevoked or RevocationUnknown
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) CheckRevocation(ctx context.Context, cert *x509.Certificate) RevocationResult {
	crlURL, ok := x509certs.FindCRLDistributionURL(cert)
	if !ok {
		return RevocationUnknown
	}

	crl, err := ch.fetchCRL(ctx, crlURL)
	if err != nil {
		ch.log().Printf("Failed to process the CRL at %s: %v", crlURL, err)
		return RevocationUnknown
	}

	if IsListed(crl, cert) {
		return Revoked
	}
	return NotRevoked
}

// IsListed reports whether crl contains the serial number of cert.
func IsListed(crl *x509.RevocationList, cert *x509.Certificate) bool {
	if cert.SerialNumber == nil {
		return false
	}
	for _, entry := range crl.RevokedCertificateEntries {
		if entry.SerialNumber != nil && entry.SerialNumber.Cmp(cert.SerialNumber) == 0 {
			return true
		}
	}
	return false
}

// fetchCRL returns the decoded CRL at url, consulting the cache first when one is set.
func (ch *Chain) fetchCRL(ctx context.Context, url string) (*x509.RevocationList, error) {
	if ch.CRLCache != nil {
		if data, ok := ch.CRLCache.Get(url); ok {
			return ch.DecodeCRL(data)
		}
	}

	data, err := ch.fetcher().Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	crl, err := ch.DecodeCRL(data)
	if err != nil {
		return nil, err
	}

	if ch.CRLCache != nil {
		ch.CRLCache.Set(url, data, crl.NextUpdate)
	}

	return crl, nil
}
