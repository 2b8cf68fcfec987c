// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs

import (
	"crypto/x509"
	"encoding/asn1"

	"golang.org/x/crypto/cryptobyte"
	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"
)

var (
	oidExtensionAuthorityInfoAccess   = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 1, 1}
	oidExtensionCRLDistributionPoints = asn1.ObjectIdentifier{2, 5, 29, 31}
	oidAuthorityInfoAccessCAIssuers   = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 48, 2}
	tagGeneralNameURI                 = cryptobyte_asn1.Tag(6).ContextSpecific()
	tagDistributionPoint              = cryptobyte_asn1.Tag(0).Constructed().ContextSpecific()
	tagDistributionPointNameFullName  = cryptobyte_asn1.Tag(0).Constructed().ContextSpecific()
)

// FindAuthorityIssuerURL returns the first "CA Issuers" URI of the
// Authority Information Access extension.
//
// The raw extension list is scanned instead of cert.IssuingCertificateURL so
// that OCSP entries and other access methods are skipped explicitly. A missing
// or malformed extension reports false.
func FindAuthorityIssuerURL(cert *x509.Certificate) (string, bool) {
	if cert == nil {
		return "", false
	}

	for _, ext := range cert.Extensions {
		if !ext.Id.Equal(oidExtensionAuthorityInfoAccess) {
			continue
		}
		if url, ok := parseCAIssuersURL(ext.Value); ok {
			return url, true
		}
	}

	return "", false
}

// FindCRLDistributionURL returns the first URI found in the CRL Distribution
// Points extension. A missing or malformed extension reports false.
func FindCRLDistributionURL(cert *x509.Certificate) (string, bool) {
	if cert == nil {
		return "", false
	}

	for _, ext := range cert.Extensions {
		if !ext.Id.Equal(oidExtensionCRLDistributionPoints) {
			continue
		}
		if url, ok := parseDistributionPointURL(ext.Value); ok {
			return url, true
		}
	}

	return "", false
}

// parseCAIssuersURL walks AuthorityInfoAccessSyntax (RFC 5280, 4.2.2.1).
func parseCAIssuersURL(der []byte) (string, bool) {
	input := cryptobyte.String(der)

	var descriptions cryptobyte.String
	if !input.ReadASN1(&descriptions, cryptobyte_asn1.SEQUENCE) || !input.Empty() {
		return "", false
	}

	for !descriptions.Empty() {
		var (
			desc     cryptobyte.String
			method   asn1.ObjectIdentifier
			location cryptobyte.String
			tag      cryptobyte_asn1.Tag
		)
		if !descriptions.ReadASN1(&desc, cryptobyte_asn1.SEQUENCE) ||
			!desc.ReadASN1ObjectIdentifier(&method) ||
			!desc.ReadAnyASN1(&location, &tag) {
			return "", false
		}

		if method.Equal(oidAuthorityInfoAccessCAIssuers) && tag == tagGeneralNameURI && len(location) > 0 {
			return string(location), true
		}
	}

	return "", false
}

// parseDistributionPointURL walks CRLDistributionPoints (RFC 5280, 4.2.1.13)
// and returns the first URI of a fullName.
func parseDistributionPointURL(der []byte) (string, bool) {
	input := cryptobyte.String(der)

	var points cryptobyte.String
	if !input.ReadASN1(&points, cryptobyte_asn1.SEQUENCE) || !input.Empty() {
		return "", false
	}

	for !points.Empty() {
		var point cryptobyte.String
		if !points.ReadASN1(&point, cryptobyte_asn1.SEQUENCE) {
			return "", false
		}

		var (
			name    cryptobyte.String
			hasName bool
		)
		if !point.ReadOptionalASN1(&name, &hasName, tagDistributionPoint) {
			return "", false
		}
		if !hasName {
			continue
		}

		var (
			fullName    cryptobyte.String
			hasFullName bool
		)
		if !name.ReadOptionalASN1(&fullName, &hasFullName, tagDistributionPointNameFullName) {
			return "", false
		}
		if !hasFullName {
			continue
		}

		for !fullName.Empty() {
			var (
				generalName cryptobyte.String
				tag         cryptobyte_asn1.Tag
			)
			if !fullName.ReadAnyASN1(&generalName, &tag) {
				return "", false
			}
			if tag == tagGeneralNameURI && len(generalName) > 0 {
				return string(generalName), true
			}
		}
	}

	return "", false
}
