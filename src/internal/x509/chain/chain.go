// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"bytes"
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"sync"
	"time"

	x509certs "github.com/H0llyW00dzZ/x509-trust-validator/src/internal/x509/certs"
	"github.com/H0llyW00dzZ/x509-trust-validator/src/logger"
)

// DefaultMaxLength is the default upper bound on the number of certificates in a chain.
const DefaultMaxLength = 10

// ErrChainTooLong is returned by [Chain.Build] when the chain reached its maximum
// length while the last certificate still pointed at another issuer.
var ErrChainTooLong = errors.New("x509chain: chain exceeds maximum length")

// Chain manages [X.509] certificates.
//
// Certs[0] is the end-entity certificate and every following element is the
// issuer downloaded through the AIA extension of the previous one.
//
// [X.509]: https://grokipedia.com/page/X.509
type Chain struct {
	mu    sync.RWMutex
	Certs []*x509.Certificate
	*x509certs.Certificate

	Fetcher   Fetcher          // AIA and CRL downloads
	MaxLength int              // upper bound on len(Certs), DefaultMaxLength when <= 0
	Now       func() time.Time // clock used for expiry checks
	CRLCache  *CRLCache        // optional, shared between chains
	Log       logger.Logger    // non-fatal diagnostics, discarded when nil
}

// New creates a new Chain.
//
// It initializes a new certificate chain manager with the starting certificate
// and default configuration.
//
// Parameters:
//   - cert: Starting certificate (leaf)
//   - version: Application version for HTTP configuration
//
// Returns:
//   - *Chain: New Chain instance
func New(cert *x509.Certificate, version string) *Chain {
	return &Chain{
		Certs:       []*x509.Certificate{cert},
		Certificate: x509certs.New(),
		Fetcher:     NewHTTPConfig(version),
		MaxLength:   DefaultMaxLength,
		Now:         time.Now,
	}
}

func (ch *Chain) maxLength() int {
	if ch.MaxLength <= 0 {
		return DefaultMaxLength
	}
	return ch.MaxLength
}

func (ch *Chain) now() time.Time {
	if ch.Now == nil {
		return time.Now()
	}
	return ch.Now()
}

func (ch *Chain) fetcher() Fetcher {
	if ch.Fetcher == nil {
		return NewHTTPConfig("")
	}
	return ch.Fetcher
}

func (ch *Chain) log() logger.Logger { return logger.OrDiscard(ch.Log) }

// Build extends the chain by following the AIA "CA Issuers" URL of the last
// certificate until none is left.
//
// A download or decode failure is reported to the logger and ends the walk
// without an error; the chain simply stops growing. When the chain already holds
// MaxLength certificates and the tail still names an issuer, Build stops and
// returns [ErrChainTooLong], leaving the bounded chain in place.
//
// Issuer signatures are never verified: each link is trusted on the word of the
// AIA extension alone.
//
// Parameters:
//   - ctx: Context for cancellation and timeouts
//
// Returns:
//   - error: [ErrChainTooLong], or the context error if ctx was cancelled
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) Build(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ch.mu.RLock()
		last := ch.Certs[len(ch.Certs)-1]
		length := len(ch.Certs)
		ch.mu.RUnlock()

		issuerURL, ok := x509certs.FindAuthorityIssuerURL(last)
		if !ok {
			return nil
		}

		if length >= ch.maxLength() {
			return fmt.Errorf("%w: stopped at %d certificates, %q still points to %s",
				ErrChainTooLong, length, last.Subject.CommonName, issuerURL)
		}

		data, err := ch.fetcher().Fetch(ctx, issuerURL)
		if err != nil {
			ch.log().Printf("Failed to fetch the issuer of %q via AIA: %v", last.Subject.CommonName, err)
			return nil
		}

		cert, err := ch.DecodeDER(data)
		if err != nil {
			ch.log().Printf("Failed to decode the issuer of %q from %s: %v", last.Subject.CommonName, issuerURL, err)
			return nil
		}

		ch.mu.Lock()
		ch.Certs = append(ch.Certs, cert)
		ch.mu.Unlock()
	}
}

// Leaf returns the end-entity certificate.
func (ch *Chain) Leaf() *x509.Certificate {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	return ch.Certs[0]
}

// Root returns the last certificate of the chain, the presumptive root.
// It is not necessarily self-signed.
func (ch *Chain) Root() *x509.Certificate {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	return ch.Certs[len(ch.Certs)-1]
}

// Len returns the number of certificates in the chain.
func (ch *Chain) Len() int {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	return len(ch.Certs)
}

// Snapshot returns a copy of the certificate slice.
func (ch *Chain) Snapshot() []*x509.Certificate {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	return append([]*x509.Certificate(nil), ch.Certs...)
}

// IsSelfSigned checks if a certificate is self-signed.
//
// The issuer must equal the subject and the signature must verify with the
// certificate's own key. CA flags are not required, so a self-signed
// end-entity certificate qualifies too. The result only annotates reports;
// trust decisions never depend on it.
//
// Parameters:
//   - cert: Certificate to check
//
// Returns:
//   - bool: true if self-signed, false otherwise
func (ch *Chain) IsSelfSigned(cert *x509.Certificate) bool {
	if cert == nil || !bytes.Equal(cert.RawIssuer, cert.RawSubject) {
		return false
	}
	return cert.CheckSignature(cert.SignatureAlgorithm, cert.RawTBSCertificate, cert.Signature) == nil
}

// FilterIntermediates filters out the root and leaf certificates, returning only intermediates.
//
// Returns:
//   - []*x509.Certificate: Slice of intermediate certificates, or nil if none
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) FilterIntermediates() []*x509.Certificate {
	ch.mu.RLock()
	defer ch.mu.RUnlock()

	if len(ch.Certs) <= 2 {
		return nil // No intermediates if 2 or fewer certs
	}

	return append([]*x509.Certificate(nil), ch.Certs[1:len(ch.Certs)-1]...)
}
