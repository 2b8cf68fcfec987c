// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	x509chain "github.com/H0llyW00dzZ/x509-trust-validator/src/internal/x509/chain"
)

// OutputFormat selects how a [Report] is written.
type OutputFormat int

const (
	// OutputText is the human readable report.
	OutputText OutputFormat = iota
	// OutputTable renders the chain as a markdown table followed by the verdicts.
	OutputTable
	// OutputJSON writes one JSON document per certificate.
	OutputJSON
	// OutputTree renders the chain as an ASCII tree followed by the verdicts.
	OutputTree
)

// revocationMap returns the revocation result of the leaf at chain index 0, in
// the form the chain renderers expect. It is nil when revocation was not checked.
func (r *Report) revocationMap() x509chain.RevocationStatus {
	if !r.RevocationChecked {
		return nil
	}
	return x509chain.RevocationStatus{0: r.Revocation}
}

// verdicts returns the trust, revocation and expiry lines of the report.
func (r *Report) verdicts() []string {
	var lines []string

	if r.Trusted {
		lines = append(lines, fmt.Sprintf("Root certification authority is TRUSTED (%s).", r.TrustAnchor))
		switch r.Revocation {
		case x509chain.NotRevoked:
			lines = append(lines, "The certificate has not been revoked.")
		case x509chain.Revoked:
			lines = append(lines, "The certificate has been REVOKED.")
		default:
			lines = append(lines, "The revocation status of the certificate could not be determined.")
		}
	} else {
		lines = append(lines, "This certificate is NOT trusted!")
	}

	if !r.Leaf.Valid {
		lines = append(lines, fmt.Sprintf("The certificate is outside its validity period. Expired on: %s",
			r.Leaf.NotAfter.Format(x509chain.ExpiryLayout)))
	}

	if r.ExpiredInChain {
		lines = append(lines, "WARNING: There are expired certificate(s) in the certification chain. Check the certification chain.")
	}

	if !r.RootSelfSigned {
		lines = append(lines, fmt.Sprintf("WARNING: The chain ends at %s, which is not self-signed; it may be incomplete.",
			x509chain.FormatSubject(r.Chain.Root())))
	}

	if r.ChainTooLong {
		lines = append(lines, fmt.Sprintf("WARNING: The certification chain was cut at %d certificates.", r.Chain.Len()))
	}

	return lines
}

// WriteText writes the report the way the interactive tool prints it: the
// chain root first, then the verdicts.
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder

	if r.Path != "" {
		fmt.Fprintf(&b, "Certificate: %s\n", r.Path)
	}
	b.WriteString("\nCertification chain:\n")
	b.WriteString(r.Chain.RenderList())
	b.WriteString("\nChecking whether the certificate is trusted...\n\n")
	for _, line := range r.verdicts() {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteTable writes the chain as a markdown table followed by the verdicts.
func (r *Report) WriteTable(w io.Writer) error {
	var b strings.Builder

	if r.Path != "" {
		fmt.Fprintf(&b, "## %s\n\n", r.Path)
	}
	b.WriteString(r.Chain.RenderTable(r.revocationMap()))
	b.WriteByte('\n')
	for _, line := range r.verdicts() {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteTree writes the chain as an ASCII tree, leaf first, followed by the verdicts.
func (r *Report) WriteTree(w io.Writer) error {
	var b strings.Builder

	if r.Path != "" {
		fmt.Fprintf(&b, "%s\n", r.Path)
	}
	b.WriteString(r.Chain.RenderASCIITree(r.revocationMap()))
	b.WriteByte('\n')
	for _, line := range r.verdicts() {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// reportJSON is the JSON form of a [Report].
type reportJSON struct {
	Certificate       string                      `json:"certificate,omitempty"`
	Chain             x509chain.VisualizationData `json:"chain"`
	ChainTooLong      bool                        `json:"chainTooLong"`
	Trusted           bool                        `json:"trusted"`
	TrustAnchor       string                      `json:"trustAnchor,omitempty"`
	RootSelfSigned    bool                        `json:"rootSelfSigned"`
	Expired           bool                        `json:"expired"`
	ExpiredInChain    bool                        `json:"expiredInChain"`
	RevocationChecked bool                        `json:"revocationChecked"`
	Revocation        string                      `json:"revocation,omitempty"`
	Passed            bool                        `json:"passed"`
}

// MarshalJSON implements [json.Marshaler].
func (r *Report) MarshalJSON() ([]byte, error) {
	out := reportJSON{
		Certificate:       r.Path,
		Chain:             r.Chain.VisualizationData(r.revocationMap()),
		ChainTooLong:      r.ChainTooLong,
		Trusted:           r.Trusted,
		TrustAnchor:       r.TrustAnchor,
		RootSelfSigned:    r.RootSelfSigned,
		Expired:           !r.Leaf.Valid,
		ExpiredInChain:    r.ExpiredInChain,
		RevocationChecked: r.RevocationChecked,
		Passed:            r.Passed(),
	}
	if r.RevocationChecked {
		out.Revocation = r.Revocation.String()
	}
	return json.Marshal(out)
}

// WriteJSON writes the report as an indented JSON document.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Write writes the report in the given format.
func (r *Report) Write(w io.Writer, format OutputFormat) error {
	switch format {
	case OutputTable:
		return r.WriteTable(w)
	case OutputJSON:
		return r.WriteJSON(w)
	case OutputTree:
		return r.WriteTree(w)
	default:
		return r.WriteText(w)
	}
}
