// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package truststore_test

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/x509-trust-validator/src/internal/helper/pkitest"
	"github.com/H0llyW00dzZ/x509-trust-validator/src/internal/x509/truststore"
	"github.com/H0llyW00dzZ/x509-trust-validator/src/logger"
)

func newBufferLogger() (*logger.CLILogger, *bytes.Buffer) {
	var buf bytes.Buffer
	log := logger.NewCLILogger()
	log.SetOutput(&buf)
	return log, &buf
}

func countLines(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	return len(strings.Split(s, "\n"))
}

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

func TestLoad(t *testing.T) {
	root := pkitest.SelfSigned(t, pkitest.Options{CommonName: "Root A", IsCA: true})
	other := pkitest.SelfSigned(t, pkitest.Options{CommonName: "Root B", IsCA: true})

	tests := []struct {
		name         string
		setup        func(t *testing.T, dir string)
		expectKeys   []string
		expectWarned int
	}{
		{
			name: "One Valid And One Corrupt",
			setup: func(t *testing.T, dir string) {
				writeFile(t, dir, "root-a.pem", pkitest.PEM(root.Cert))
				writeFile(t, dir, "broken.crt", []byte("this is not a certificate"))
			},
			expectKeys:   []string{"root-a.pem"},
			expectWarned: 1,
		},
		{
			name: "PEM And DER",
			setup: func(t *testing.T, dir string) {
				writeFile(t, dir, "root-a.pem", pkitest.PEM(root.Cert))
				writeFile(t, dir, "root-b.der", other.Cert.Raw)
			},
			expectKeys:   []string{"root-a.pem", "root-b.der"},
			expectWarned: 0,
		},
		{
			name: "Subdirectories Are Ignored",
			setup: func(t *testing.T, dir string) {
				sub := filepath.Join(dir, "nested")
				require.NoError(t, os.Mkdir(sub, 0o755))
				writeFile(t, sub, "root-b.pem", pkitest.PEM(other.Cert))
				writeFile(t, dir, "root-a.pem", pkitest.PEM(root.Cert))
			},
			expectKeys:   []string{"root-a.pem"},
			expectWarned: 0,
		},
		{
			name: "Symlinked Certificate",
			setup: func(t *testing.T, dir string) {
				target := filepath.Join(t.TempDir(), "root.pem")
				require.NoError(t, os.WriteFile(target, pkitest.PEM(root.Cert), 0o644))
				require.NoError(t, os.Symlink(target, filepath.Join(dir, "linked-root.pem")))
			},
			expectKeys:   []string{"linked-root.pem"},
			expectWarned: 0,
		},
		{
			name: "Symlinked Directory Is Ignored",
			setup: func(t *testing.T, dir string) {
				sub := t.TempDir()
				writeFile(t, sub, "root-b.pem", pkitest.PEM(other.Cert))
				require.NoError(t, os.Symlink(sub, filepath.Join(dir, "nested")))
			},
			expectKeys:   nil,
			expectWarned: 0,
		},
		{
			name: "Broken Symlink",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.Symlink(filepath.Join(dir, "gone.pem"), filepath.Join(dir, "dangling.pem")))
				writeFile(t, dir, "root-a.pem", pkitest.PEM(root.Cert))
			},
			expectKeys:   []string{"root-a.pem"},
			expectWarned: 1,
		},
		{
			name:         "Empty Directory",
			setup:        func(t *testing.T, dir string) {},
			expectKeys:   nil,
			expectWarned: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tt.setup(t, dir)

			log, buf := newBufferLogger()
			keys, err := truststore.Load(dir, log)
			require.NoError(t, err)

			assert.Len(t, keys, len(tt.expectKeys))
			for _, name := range tt.expectKeys {
				assert.Contains(t, keys, name)
			}
			assert.Equal(t, tt.expectWarned, countLines(buf.String()), "unexpected warnings: %s", buf.String())
		})
	}
}

func TestLoad_MissingDirectory(t *testing.T) {
	_, err := truststore.Load(filepath.Join(t.TempDir(), "does-not-exist"), nil)
	assert.Error(t, err)
}

func TestKeySet_Contains(t *testing.T) {
	root := pkitest.SelfSigned(t, pkitest.Options{CommonName: "Root A", IsCA: true})
	other := pkitest.SelfSigned(t, pkitest.Options{CommonName: "Root B", IsCA: true})

	dir := t.TempDir()
	writeFile(t, dir, "root-a.pem", pkitest.PEM(root.Cert))

	keys, err := truststore.Load(dir, nil)
	require.NoError(t, err)

	// The candidate comes from DER while the store was loaded from PEM.
	candidate, err := x509.ParseCertificate(root.Cert.Raw)
	require.NoError(t, err)

	name, ok := keys.Contains(candidate.PublicKey)
	assert.True(t, ok)
	assert.Equal(t, "root-a.pem", name)

	_, ok = keys.Contains(other.Cert.PublicKey)
	assert.False(t, ok)

	_, ok = truststore.KeySet{}.Contains(root.Cert.PublicKey)
	assert.False(t, ok)
}

func TestPublicKeysEqual(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	rsaCopy := &rsa.PublicKey{N: new(big.Int).Set(rsaKey.N), E: rsaKey.E}

	ecKey := pkitest.SelfSigned(t, pkitest.Options{CommonName: "EC"}).Cert.PublicKey.(*ecdsa.PublicKey)
	ecOther := pkitest.SelfSigned(t, pkitest.Options{CommonName: "EC 2"}).Cert.PublicKey.(*ecdsa.PublicKey)

	edPub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	edCopy := append(ed25519.PublicKey(nil), edPub...)

	tests := []struct {
		name     string
		a, b     any
		expected bool
	}{
		{name: "RSA Same Numbers Different Objects", a: &rsaKey.PublicKey, b: rsaCopy, expected: true},
		{name: "RSA Different Exponent", a: &rsaKey.PublicKey, b: &rsa.PublicKey{N: rsaKey.N, E: 3}, expected: false},
		{name: "ECDSA Same Key", a: ecKey, b: &ecdsa.PublicKey{Curve: ecKey.Curve, X: new(big.Int).Set(ecKey.X), Y: new(big.Int).Set(ecKey.Y)}, expected: true},
		{name: "ECDSA Different Key", a: ecKey, b: ecOther, expected: false},
		{name: "Ed25519 Same Key", a: edPub, b: edCopy, expected: true},
		{name: "Type Mismatch", a: &rsaKey.PublicKey, b: ecKey, expected: false},
		{name: "Nil", a: nil, b: ecKey, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, truststore.PublicKeysEqual(tt.a, tt.b))
		})
	}
}
