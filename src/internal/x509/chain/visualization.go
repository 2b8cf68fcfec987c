// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// RevocationStatus holds revocation results keyed by index in [Chain.Certs].
// Serial numbers are only unique per issuer, so they cannot serve as the key.
type RevocationStatus map[int]RevocationResult

// ExpiryLayout is the layout used for expiry dates in text output.
const ExpiryLayout = "02/01/2006 15:04:05"

// Organization returns the first organization of name, or "N/A".
func Organization(cert *x509.Certificate) string {
	if len(cert.Subject.Organization) == 0 || cert.Subject.Organization[0] == "" {
		return "N/A"
	}
	return cert.Subject.Organization[0]
}

// FormatSubject renders the subject as "CN: x, O: y", omitting O when absent.
func FormatSubject(cert *x509.Certificate) string {
	if org := Organization(cert); org != "N/A" {
		return fmt.Sprintf("CN: %s, O: %s", cert.Subject.CommonName, org)
	}
	return fmt.Sprintf("CN: %s", cert.Subject.CommonName)
}

// RenderList renders the chain root first, one numbered line per certificate
// with its common name, organization and expiry date.
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) RenderList() string {
	certs := ch.Snapshot()

	var result strings.Builder
	for i := range certs {
		cert := certs[len(certs)-1-i]
		fmt.Fprintf(&result, "%d: CN: %s, O: %s, Expires: %s\n",
			i+1, cert.Subject.CommonName, Organization(cert), cert.NotAfter.Format(ExpiryLayout))
	}
	return result.String()
}

// RenderASCIITree renders the certificate chain as an ASCII tree diagram.
//
// It displays the certificate hierarchy from the leaf upwards. A certificate is
// marked with "✗" when it has expired or is listed as revoked.
//
// Parameters:
//   - revocation: Optional revocation results by chain index
//
// Returns:
//   - string: ASCII tree representation of the certificate chain
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) RenderASCIITree(revocation RevocationStatus) string {
	certs := ch.Snapshot()
	expiry := ch.CheckExpiry()

	var result strings.Builder
	for i, cert := range certs {
		connector := "├── "
		if i == len(certs)-1 {
			connector = "└── "
		}

		statusIcon := "✓"
		if !expiry[i].Valid || revocation[i] == Revoked {
			statusIcon = "✗"
		}

		result.WriteString(fmt.Sprintf("%s[%s] %s (%s)\n",
			connector, statusIcon, cert.Subject.CommonName, certificateRole(i, len(certs))))
	}

	return result.String()
}

// RenderTable renders the certificate chain as a formatted markdown table.
//
// Rows are ordered root first. It displays role, subject, organization, expiry,
// key size, validity and revocation in a tabular format using tablewriter.
//
// Parameters:
//   - revocation: Optional revocation results by chain index
//
// Returns:
//   - string: Markdown table representation of the certificate chain
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) RenderTable(revocation RevocationStatus) string {
	certs := ch.Snapshot()
	expiry := ch.CheckExpiry()

	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)

	headers := []string{"#", "Role", "Subject", "Organization", "Valid Until", "Key", "Expiry", "Revocation"}
	table.Header(headers)

	var rows [][]string
	for n := range certs {
		i := len(certs) - 1 - n
		cert := certs[i]

		validity := "valid"
		if !expiry[i].Valid {
			validity = "expired"
		}

		status := "not checked"
		if r, exists := revocation[i]; exists {
			status = r.String()
		}

		algo, size := describeKey(cert)
		keyDesc := algo
		if size > 0 {
			keyDesc = fmt.Sprintf("%d-bit %s", size, algo)
		}

		rows = append(rows, []string{
			fmt.Sprintf("%d", n+1),
			certificateRole(i, len(certs)),
			cert.Subject.CommonName,
			Organization(cert),
			cert.NotAfter.Format(ExpiryLayout),
			keyDesc,
			validity,
			status,
		})
	}

	table.Bulk(rows)
	table.Render()
	return buf.String()
}

// CertificateVizData describes one chain element for JSON output.
type CertificateVizData struct {
	Index              int       `json:"index"`
	Role               string    `json:"role"`
	Subject            string    `json:"subject"`
	Organization       string    `json:"organization"`
	Issuer             string    `json:"issuer"`
	SerialNumber       string    `json:"serialNumber"`
	PublicKeyAlgorithm string    `json:"publicKeyAlgorithm"`
	KeySize            int       `json:"keySize"`
	NotBefore          time.Time `json:"notBefore"`
	NotAfter           time.Time `json:"notAfter"`
	Expired            bool      `json:"expired"`
	RevocationStatus   string    `json:"revocationStatus,omitempty"`
}

// VisualizationData is the JSON form of a chain, leaf first.
type VisualizationData struct {
	ChainLength  int                  `json:"chainLength"`
	Certificates []CertificateVizData `json:"certificates"`
}

// VisualizationData builds the structured form of the chain.
func (ch *Chain) VisualizationData(revocation RevocationStatus) VisualizationData {
	certs := ch.Snapshot()
	expiry := ch.CheckExpiry()

	data := VisualizationData{
		ChainLength:  len(certs),
		Certificates: make([]CertificateVizData, len(certs)),
	}

	for i, cert := range certs {
		algo, size := describeKey(cert)

		status := ""
		if r, exists := revocation[i]; exists {
			status = r.String()
		}

		data.Certificates[i] = CertificateVizData{
			Index:              i,
			Role:               certificateRole(i, len(certs)),
			Subject:            cert.Subject.CommonName,
			Organization:       Organization(cert),
			Issuer:             cert.Issuer.CommonName,
			SerialNumber:       cert.SerialNumber.String(),
			PublicKeyAlgorithm: algo,
			KeySize:            size,
			NotBefore:          cert.NotBefore,
			NotAfter:           cert.NotAfter,
			Expired:            !expiry[i].Valid,
			RevocationStatus:   status,
		}
	}

	return data
}

func describeKey(cert *x509.Certificate) (string, int) {
	switch pubKey := cert.PublicKey.(type) {
	case *rsa.PublicKey:
		return "RSA", pubKey.Size() * 8
	case *ecdsa.PublicKey:
		return "ECDSA", pubKey.Curve.Params().BitSize
	case ed25519.PublicKey:
		return "Ed25519", 256
	default:
		return "unknown", 0
	}
}

// certificateRole determines the role of a certificate in the chain.
func certificateRole(index, total int) string {
	switch {
	case total == 1:
		return "End-Entity Certificate"
	case index == 0:
		return "End-Entity (Leaf) Certificate"
	case index == total-1:
		return "Root CA Certificate"
	default:
		return "Intermediate CA Certificate"
	}
}
