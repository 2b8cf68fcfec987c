// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package truststore

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/H0llyW00dzZ/x509-trust-validator/src/internal/helper/gc"
	x509certs "github.com/H0llyW00dzZ/x509-trust-validator/src/internal/x509/certs"
	"github.com/H0llyW00dzZ/x509-trust-validator/src/logger"
)

// maxFileSize caps how much of a single trust store file is read.
const maxFileSize = 1 << 20

// KeySet maps a trust store identifier (the file name) to a trusted public key.
// It is read-only once [Load] returns.
type KeySet map[string]crypto.PublicKey

// Load reads every regular file directly inside dir and records the public key
// of the certificate it contains, keyed by file name.
//
// Symbolic links are followed; subdirectories, and links to them, are ignored. A file that cannot be read or decoded is skipped
// after exactly one message is written to log. An error is returned only when
// dir itself cannot be listed; an empty result is not an error.
func Load(dir string, log logger.Logger) (KeySet, error) {
	log = logger.OrDiscard(log)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("truststore: failed to read directory %q: %w", dir, err)
	}

	decoder := x509certs.New()
	keys := make(KeySet, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)

		if entry.Type()&fs.ModeSymlink != 0 {
			// Stores such as /etc/ssl/certs are mostly links; follow them.
			info, err := os.Stat(path)
			if err != nil {
				log.Printf("Failed to load trusted certificate %s: %v", name, err)
				continue
			}
			if !info.Mode().IsRegular() {
				continue
			}
		} else if !entry.Type().IsRegular() {
			continue
		}

		data, err := readFile(path)
		if err != nil {
			log.Printf("Failed to load trusted certificate %s: %v", name, err)
			continue
		}

		cert, err := decoder.Decode(data)
		if err != nil {
			log.Printf("Failed to load trusted certificate %s: %v", name, err)
			continue
		}

		keys[name] = cert.PublicKey
	}

	return keys, nil
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return gc.ReadAll(f, maxFileSize)
}

// Contains reports the identifier of the first trusted key that is numerically
// equal to pub. Identifiers are visited in sorted order so the result is stable.
func (k KeySet) Contains(pub crypto.PublicKey) (string, bool) {
	names := make([]string, 0, len(k))
	for name := range k {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if PublicKeysEqual(pub, k[name]) {
			return name, true
		}
	}
	return "", false
}

// PublicKeysEqual compares two public keys by their algorithm parameters:
// modulus and exponent for RSA, curve and point for ECDSA, the point bytes
// for Ed25519. Two keys that were encoded differently still compare equal.
func PublicKeysEqual(a, b crypto.PublicKey) bool {
	if a == nil || b == nil {
		return false
	}

	switch x := a.(type) {
	case *rsa.PublicKey:
		y, ok := b.(*rsa.PublicKey)
		return ok && x.N != nil && y.N != nil && x.N.Cmp(y.N) == 0 && x.E == y.E
	case *ecdsa.PublicKey:
		y, ok := b.(*ecdsa.PublicKey)
		return ok && x.Curve != nil && y.Curve != nil &&
			x.Curve.Params().Name == y.Curve.Params().Name &&
			x.X.Cmp(y.X) == 0 && x.Y.Cmp(y.Y) == 0
	case ed25519.PublicKey:
		y, ok := b.(ed25519.PublicKey)
		return ok && bytes.Equal(x, y)
	}

	if eq, ok := a.(interface{ Equal(crypto.PublicKey) bool }); ok {
		return eq.Equal(b)
	}
	return false
}
