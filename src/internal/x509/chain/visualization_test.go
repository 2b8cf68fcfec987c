// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain_test

import (
	"encoding/json"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/x509-trust-validator/src/internal/helper/pkitest"
	x509chain "github.com/H0llyW00dzZ/x509-trust-validator/src/internal/x509/chain"
)

func newRenderedChain(t *testing.T) (*x509chain.Chain, *pkitest.Identity) {
	t.Helper()
	notAfter := time.Date(2031, time.March, 4, 5, 6, 7, 0, time.UTC)
	root := pkitest.SelfSigned(t, pkitest.Options{
		CommonName:   "Render Root",
		Organization: "Render Org",
		IsCA:         true,
		NotAfter:     notAfter,
	})
	leaf := root.Issue(t, pkitest.Options{CommonName: "render.test"})

	ch := x509chain.New(leaf.Cert, version)
	ch.Certs = append(ch.Certs, root.Cert)
	return ch, leaf
}

func TestChain_RenderList(t *testing.T) {
	ch, _ := newRenderedChain(t)

	lines := strings.Split(strings.TrimSpace(ch.RenderList()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "1: CN: Render Root, O: Render Org, Expires: 04/03/2031 05:06:07", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2: CN: render.test, O: N/A, Expires: "))
}

func TestFormatSubject(t *testing.T) {
	ch, _ := newRenderedChain(t)
	assert.Equal(t, "CN: Render Root, O: Render Org", x509chain.FormatSubject(ch.Root()))
	assert.Equal(t, "CN: render.test", x509chain.FormatSubject(ch.Leaf()))
}

func TestChain_RenderASCIITree(t *testing.T) {
	ch, _ := newRenderedChain(t)

	tree := ch.RenderASCIITree(x509chain.RevocationStatus{
		0: x509chain.Revoked,
	})

	assert.Contains(t, tree, "├── [✗] render.test (End-Entity (Leaf) Certificate)")
	assert.Contains(t, tree, "└── [✓] Render Root (Root CA Certificate)")
}

func TestChain_RenderTable(t *testing.T) {
	ch, _ := newRenderedChain(t)

	table := ch.RenderTable(x509chain.RevocationStatus{
		0: x509chain.NotRevoked,
	})

	assert.Contains(t, table, "Render Root")
	assert.Contains(t, table, "render.test")
	assert.Contains(t, table, "not revoked")
	assert.Contains(t, table, "not checked")
	assert.Contains(t, table, "256-bit ECDSA")
	assert.Less(t, strings.Index(table, "Render Root"), strings.Index(table, "render.test"), "root is listed first")
}

func TestChain_VisualizationData(t *testing.T) {
	ch, _ := newRenderedChain(t)

	raw, err := json.Marshal(ch.VisualizationData(x509chain.RevocationStatus{
		0: x509chain.RevocationUnknown,
	}))
	require.NoError(t, err)

	var data x509chain.VisualizationData
	require.NoError(t, json.Unmarshal(raw, &data))

	assert.Equal(t, 2, data.ChainLength)
	require.Len(t, data.Certificates, 2)
	assert.Equal(t, "render.test", data.Certificates[0].Subject)
	assert.Equal(t, "unknown", data.Certificates[0].RevocationStatus)
	assert.Equal(t, "Render Org", data.Certificates[1].Organization)
	assert.Empty(t, data.Certificates[1].RevocationStatus)
	assert.False(t, data.Certificates[1].Expired)
	assert.Equal(t, "ECDSA", data.Certificates[1].PublicKeyAlgorithm)
}

func TestChain_RevocationStatusFollowsChainIndex(t *testing.T) {
	// Serials are unique per issuer only; a root may reuse its leaf's serial.
	root := pkitest.SelfSigned(t, pkitest.Options{CommonName: "Shared Serial Root", Serial: big.NewInt(1), IsCA: true})
	leaf := root.Issue(t, pkitest.Options{CommonName: "shared.test", Serial: big.NewInt(1)})

	ch := x509chain.New(leaf.Cert, version)
	ch.Certs = append(ch.Certs, root.Cert)
	status := x509chain.RevocationStatus{0: x509chain.Revoked}

	data := ch.VisualizationData(status)
	require.Len(t, data.Certificates, 2)
	assert.Equal(t, "revoked", data.Certificates[0].RevocationStatus)
	assert.Empty(t, data.Certificates[1].RevocationStatus)

	tree := ch.RenderASCIITree(status)
	assert.Contains(t, tree, "[✗] shared.test")
	assert.Contains(t, tree, "[✓] Shared Serial Root")

	table := ch.RenderTable(status)
	for _, line := range strings.Split(table, "\n") {
		if strings.Contains(line, "Shared Serial Root") {
			assert.Contains(t, line, "not checked")
			assert.NotContains(t, line, "| revoked")
		}
	}
}
