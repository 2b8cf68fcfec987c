// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package pkitest generates throwaway certificate authorities, certificates
// and CRLs for tests. Nothing here is meant for production keys.
package pkitest

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"sync/atomic"
	"testing"
	"time"
)

// Options describes the certificate to create. Zero values get sensible defaults.
type Options struct {
	CommonName   string
	Organization string
	Serial       *big.Int
	NotBefore    time.Time
	NotAfter     time.Time
	IssuerURL    string // AIA "CA Issuers"
	OCSPURL      string
	CRLURL       string // CRL Distribution Point
	IsCA         bool
	Key          crypto.Signer // generated P-256 key when nil
}

// Identity is a certificate together with its private key.
type Identity struct {
	Cert *x509.Certificate
	Key  crypto.Signer
}

var serialCounter atomic.Int64

func nextSerial() *big.Int {
	return big.NewInt(1000 + serialCounter.Add(1))
}

func (o Options) template() *x509.Certificate {
	now := time.Now()
	tmpl := &x509.Certificate{
		SerialNumber: o.Serial,
		Subject:      pkix.Name{CommonName: o.CommonName},
		NotBefore:    o.NotBefore,
		NotAfter:     o.NotAfter,
	}
	if tmpl.SerialNumber == nil {
		tmpl.SerialNumber = nextSerial()
	}
	if o.Organization != "" {
		tmpl.Subject.Organization = []string{o.Organization}
	}
	if tmpl.NotBefore.IsZero() {
		tmpl.NotBefore = now.Add(-time.Hour)
	}
	if tmpl.NotAfter.IsZero() {
		tmpl.NotAfter = now.Add(24 * time.Hour)
	}
	if o.IssuerURL != "" {
		tmpl.IssuingCertificateURL = []string{o.IssuerURL}
	}
	if o.OCSPURL != "" {
		tmpl.OCSPServer = []string{o.OCSPURL}
	}
	if o.CRLURL != "" {
		tmpl.CRLDistributionPoints = []string{o.CRLURL}
	}
	if o.IsCA {
		tmpl.IsCA = true
		tmpl.BasicConstraintsValid = true
		tmpl.KeyUsage = x509.KeyUsageCertSign | x509.KeyUsageCRLSign
	} else {
		tmpl.KeyUsage = x509.KeyUsageDigitalSignature
	}
	return tmpl
}

func newKey(tb testing.TB, key crypto.Signer) crypto.Signer {
	tb.Helper()
	if key != nil {
		return key
	}
	k, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		tb.Fatalf("pkitest: generate key: %v", err)
	}
	return k
}

func create(tb testing.TB, tmpl, parent *x509.Certificate, pub crypto.PublicKey, signer crypto.Signer) *x509.Certificate {
	tb.Helper()
	der, err := x509.CreateCertificate(rand.Reader, tmpl, parent, pub, signer)
	if err != nil {
		tb.Fatalf("pkitest: create certificate: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		tb.Fatalf("pkitest: parse certificate: %v", err)
	}
	return cert
}

// SelfSigned creates a self-signed certificate.
func SelfSigned(tb testing.TB, opts Options) *Identity {
	tb.Helper()
	key := newKey(tb, opts.Key)
	tmpl := opts.template()
	return &Identity{Cert: create(tb, tmpl, tmpl, key.Public(), key), Key: key}
}

// Issue creates a certificate signed by id.
func (id *Identity) Issue(tb testing.TB, opts Options) *Identity {
	tb.Helper()
	key := newKey(tb, opts.Key)
	return &Identity{Cert: create(tb, opts.template(), id.Cert, key.Public(), id.Key), Key: key}
}

// CRL returns a DER encoded CRL signed by id listing the given serials.
func (id *Identity) CRL(tb testing.TB, serials ...*big.Int) []byte {
	tb.Helper()
	now := time.Now()
	entries := make([]x509.RevocationListEntry, 0, len(serials))
	for _, s := range serials {
		entries = append(entries, x509.RevocationListEntry{SerialNumber: s, RevocationTime: now.Add(-time.Minute)})
	}
	der, err := x509.CreateRevocationList(rand.Reader, &x509.RevocationList{
		Number:                    nextSerial(),
		ThisUpdate:                now.Add(-time.Hour),
		NextUpdate:                now.Add(24 * time.Hour),
		RevokedCertificateEntries: entries,
	}, id.Cert, id.Key)
	if err != nil {
		tb.Fatalf("pkitest: create CRL: %v", err)
	}
	return der
}

// PEM encodes cert as a PEM CERTIFICATE block.
func PEM(cert *x509.Certificate) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw})
}
