// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli_test

import (
	"bytes"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/H0llyW00dzZ/x509-trust-validator/src/internal/helper/pkitest"
	"github.com/H0llyW00dzZ/x509-trust-validator/src/logger"
	"github.com/stretchr/testify/require"
)

const version = "1.3.3.7-testing"

// pki is a three level hierarchy served over HTTP: root, intermediate and leaf.
// The leaf names the intermediate CRL in its distribution points.
type pki struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string][]byte
	hits   map[string]int

	Root, Intermediate, Leaf *pkitest.Identity

	LeafPath string // leaf PEM on disk
	TrustDir string // holds the root PEM
}

type pkiOptions struct {
	intermediateNotAfter time.Time
	revokeLeaf           bool
	noCRL                bool
}

func newPKI(t *testing.T, opts pkiOptions) *pki {
	t.Helper()

	p := &pki{
		routes: make(map[string][]byte),
		hits:   make(map[string]int),
	}
	p.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		data, ok := p.routes[r.URL.Path]
		p.hits[r.URL.Path]++
		p.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	}))
	t.Cleanup(p.Close)

	p.Root = pkitest.SelfSigned(t, pkitest.Options{CommonName: "Test Root CA", Organization: "Test Org", IsCA: true})
	p.Intermediate = p.Root.Issue(t, pkitest.Options{
		CommonName: "Test Intermediate CA",
		IssuerURL:  p.URL + "/root.der",
		NotAfter:   opts.intermediateNotAfter,
		IsCA:       true,
	})
	p.Leaf = p.Intermediate.Issue(t, pkitest.Options{
		CommonName: "leaf.example.com",
		IssuerURL:  p.URL + "/intermediate.der",
		CRLURL:     p.URL + "/intermediate.crl",
	})

	p.serve("/root.der", p.Root.Cert.Raw)
	p.serve("/intermediate.der", p.Intermediate.Cert.Raw)
	if !opts.noCRL {
		var revoked []*big.Int
		if opts.revokeLeaf {
			revoked = append(revoked, p.Leaf.Cert.SerialNumber)
		}
		p.serve("/intermediate.crl", p.Intermediate.CRL(t, revoked...))
	}

	dir := t.TempDir()
	p.LeafPath = filepath.Join(dir, "leaf.crt")
	require.NoError(t, os.WriteFile(p.LeafPath, pkitest.PEM(p.Leaf.Cert), 0644))

	p.TrustDir = filepath.Join(dir, "trusted")
	require.NoError(t, os.Mkdir(p.TrustDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(p.TrustDir, "root.pem"), pkitest.PEM(p.Root.Cert), 0644))

	return p
}

func (p *pki) serve(path string, data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.routes[path] = data
}

func (p *pki) Hits(path string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hits[path]
}

// otherTrustDir returns a trust store holding an unrelated root.
func otherTrustDir(t *testing.T) string {
	t.Helper()
	other := pkitest.SelfSigned(t, pkitest.Options{CommonName: "Other Root", IsCA: true})
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.pem"), pkitest.PEM(other.Cert), 0644))
	return dir
}

func newBufferLogger() (*logger.CLILogger, *bytes.Buffer) {
	var buf bytes.Buffer
	log := logger.NewCLILogger()
	log.SetOutput(&buf)
	return log, &buf
}
