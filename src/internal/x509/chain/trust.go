// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509chain

import "github.com/H0llyW00dzZ/x509-trust-validator/src/internal/x509/truststore"

// TrustAnchor returns the trust store identifier whose key equals the public key
// of the last certificate in the chain.
//
// Thread Safety: Safe for concurrent use.
func (ch *Chain) TrustAnchor(keys truststore.KeySet) (string, bool) {
	return keys.Contains(ch.Root().PublicKey)
}

// IsTrusted reports whether the last certificate's public key is in keys.
// Keys are compared by their numeric parameters, never by encoding.
func (ch *Chain) IsTrusted(keys truststore.KeySet) bool {
	_, ok := ch.TrustAnchor(keys)
	return ok
}
