// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs

import (
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/cloudflare/cfssl/crypto/pkcs7"
)

var (
	// ErrDecode is the root of every decoding failure in this package.
	// Use errors.Is(err, ErrDecode) to tell malformed input apart from I/O errors.
	ErrDecode = errors.New("x509certs: decode error")

	// ErrInvalidPEMBlock indicates that the provided data does not contain a valid PEM block.
	ErrInvalidPEMBlock = fmt.Errorf("%w: invalid PEM block", ErrDecode)

	// ErrInvalidBlockType indicates that the PEM block type is not the expected certificate type.
	ErrInvalidBlockType = fmt.Errorf("%w: invalid block type", ErrDecode)

	// ErrParseCertificate indicates a failure to parse the certificate from the provided data.
	ErrParseCertificate = fmt.Errorf("%w: failed to parse certificate", ErrDecode)

	// ErrNoCertificatesInPKCS indicates that no certificates were found in the PKCS7 data.
	ErrNoCertificatesInPKCS = fmt.Errorf("%w: no certificates found in PKCS7 data", ErrDecode)

	// ErrParseCRL indicates a failure to parse a certificate revocation list.
	ErrParseCRL = fmt.Errorf("%w: failed to parse CRL", ErrDecode)
)

// Certificate provides methods to decode and encode [X.509] certificates and
// to decode certificate revocation lists.
// It maintains internal configuration such as the PEM block types.
//
// [X.509]: https://en.wikipedia.org/wiki/X.509
type Certificate struct {
	certBlockType string
	crlBlockType  string
}

// New creates a new Certificate with default settings.
func New() *Certificate {
	return &Certificate{
		certBlockType: "CERTIFICATE",
		crlBlockType:  "X509 CRL",
	}
}

// IsPEM checks if the data is in PEM format.
func (c *Certificate) IsPEM(data []byte) bool {
	block, _ := pem.Decode(data)
	return block != nil
}

// decodePEMBlock returns the first PEM block of the given type, skipping
// blocks of other types such as a private key stored before the certificate.
func (c *Certificate) decodePEMBlock(data []byte, blockType string) (*pem.Block, error) {
	block, rest := pem.Decode(data)
	if block == nil {
		return nil, ErrInvalidPEMBlock
	}
	for block != nil {
		if block.Type == blockType {
			return block, nil
		}
		block, rest = pem.Decode(rest)
	}
	return nil, ErrInvalidBlockType
}

// Decode decodes a single certificate from data.
//
// PEM is tried first, using the first CERTIFICATE block. Data that does not
// contain a PEM block is decoded as DER,
// falling back to a PKCS7 bundle (the first certificate in it is returned).
func (c *Certificate) Decode(data []byte) (*x509.Certificate, error) {
	if c.IsPEM(data) {
		block, err := c.decodePEMBlock(data, c.certBlockType)
		if err != nil {
			return nil, err
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, ErrParseCertificate
		}
		return cert, nil
	}

	return c.DecodeDER(data)
}

// DecodeDER decodes a single DER encoded certificate.
//
// Issuers published through the AIA extension are DER, but some CAs serve a
// degenerate PKCS7 (.p7c) instead, so that is accepted as well.
func (c *Certificate) DecodeDER(data []byte) (*x509.Certificate, error) {
	cert, err := x509.ParseCertificate(data)
	if err == nil {
		return cert, nil
	}

	// Attempt to parse as PKCS7 using Cloudflare's library
	p, perr := pkcs7.ParsePKCS7(data)
	if perr != nil {
		return nil, ErrParseCertificate
	}
	if len(p.Content.SignedData.Certificates) == 0 {
		return nil, ErrNoCertificatesInPKCS
	}

	return p.Content.SignedData.Certificates[0], nil
}

// DecodeCRL decodes a certificate revocation list.
// DER is the expected encoding; a PEM "X509 CRL" block is unwrapped first.
func (c *Certificate) DecodeCRL(data []byte) (*x509.RevocationList, error) {
	if c.IsPEM(data) {
		block, err := c.decodePEMBlock(data, c.crlBlockType)
		if err != nil {
			return nil, err
		}
		data = block.Bytes
	}

	crl, err := x509.ParseRevocationList(data)
	if err != nil {
		return nil, ErrParseCRL
	}

	return crl, nil
}

// EncodePEM encodes a certificate to PEM format.
func (c *Certificate) EncodePEM(cert *x509.Certificate) []byte {
	block := pem.Block{
		Type:  c.certBlockType,
		Bytes: cert.Raw,
	}
	return pem.EncodeToMemory(&block)
}

// EncodeMultiplePEM encodes multiple certificates to PEM format.
func (c *Certificate) EncodeMultiplePEM(certs []*x509.Certificate) []byte {
	var data []byte

	for _, cert := range certs {
		data = append(data, c.EncodePEM(cert)...)
	}

	return data
}
