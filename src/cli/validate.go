// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"time"

	x509certs "github.com/H0llyW00dzZ/x509-trust-validator/src/internal/x509/certs"
	x509chain "github.com/H0llyW00dzZ/x509-trust-validator/src/internal/x509/chain"
	"github.com/H0llyW00dzZ/x509-trust-validator/src/internal/x509/truststore"
	"github.com/H0llyW00dzZ/x509-trust-validator/src/logger"
)

var (
	// ErrCertificateLoad indicates the certificate to validate could not be read or decoded.
	// It ends the run before any check is attempted.
	ErrCertificateLoad = errors.New("cli: failed to load the certificate")

	// ErrTrustStore indicates the trust store directory could not be listed.
	ErrTrustStore = errors.New("cli: failed to load the trust store")
)

// Validator runs the chain, expiry, trust and revocation checks for one
// certificate at a time. A single Validator may serve many certificates; the
// CRL cache is then shared between them.
type Validator struct {
	Version   string
	Fetcher   x509chain.Fetcher // nil uses an HTTP fetcher built from Version
	MaxLength int
	CRLCache  *x509chain.CRLCache
	Log       logger.Logger
	Now       func() time.Time
}

// Report is the outcome of validating one certificate.
type Report struct {
	Path  string
	Chain *x509chain.Chain

	// ChainTooLong is set when the AIA walk was cut at the maximum length.
	ChainTooLong bool

	// Expiry is index-aligned with Chain.Certs.
	Expiry         []x509chain.Validity
	ExpiredInChain bool
	Leaf           x509chain.Validity

	Trusted     bool
	TrustAnchor string

	// RootSelfSigned is false when the walk ended at a certificate that names a
	// different issuer, so the trust decision rests on an incomplete chain.
	RootSelfSigned bool

	// RevocationChecked is false when the chain was not trusted.
	RevocationChecked bool
	Revocation        x509chain.RevocationResult
}

// LoadCertificate reads and decodes the certificate at path, PEM first then DER.
// Any failure wraps [ErrCertificateLoad].
func LoadCertificate(path string) (*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCertificateLoad, err)
	}

	cert, err := x509certs.New().Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCertificateLoad, path, err)
	}

	return cert, nil
}

// LoadTrustStore loads the trusted keys from dir. Unreadable files are reported
// to log and skipped; an unreadable directory wraps [ErrTrustStore].
func LoadTrustStore(dir string, log logger.Logger) (truststore.KeySet, error) {
	keys, err := truststore.Load(dir, log)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTrustStore, err)
	}
	return keys, nil
}

func (v *Validator) newChain(cert *x509.Certificate) *x509chain.Chain {
	ch := x509chain.New(cert, v.Version)
	if v.Fetcher != nil {
		ch.Fetcher = v.Fetcher
	}
	if v.MaxLength > 0 {
		ch.MaxLength = v.MaxLength
	}
	if v.Now != nil {
		ch.Now = v.Now
	}
	ch.CRLCache = v.CRLCache
	ch.Log = v.Log
	return ch
}

// Validate builds the chain of cert and evaluates it against keys.
//
// Download problems never fail the run; they show up as a shorter chain or an
// unknown revocation result. Only a cancelled context is returned as an error.
// Revocation is checked for the end-entity certificate when the chain is trusted.
func (v *Validator) Validate(ctx context.Context, cert *x509.Certificate, keys truststore.KeySet) (*Report, error) {
	ch := v.newChain(cert)
	report := &Report{Chain: ch}

	if err := ch.Build(ctx); err != nil {
		if !errors.Is(err, x509chain.ErrChainTooLong) {
			return nil, err
		}
		logger.OrDiscard(v.Log).Printf("%v", err)
		report.ChainTooLong = true
	}

	report.Expiry = ch.CheckExpiry()
	report.ExpiredInChain = ch.HasExpired()
	report.Leaf = report.Expiry[0]

	report.Trusted = ch.IsTrusted(keys)
	if report.Trusted {
		report.TrustAnchor, _ = ch.TrustAnchor(keys)
	}
	report.RootSelfSigned = ch.IsSelfSigned(ch.Root())

	if report.Trusted {
		report.RevocationChecked = true
		report.Revocation = ch.CheckRevocation(ctx, ch.Leaf())
	}

	return report, nil
}

// Passed reports whether the certificate is trusted, not revoked and nothing in
// its chain has expired. An unknown revocation result does not fail the check.
func (r *Report) Passed() bool {
	return r.Trusted && !r.ExpiredInChain && r.Revocation != x509chain.Revoked
}
