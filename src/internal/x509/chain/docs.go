// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509chain implements [X.509] certification path building and the
// trust, expiry and revocation checks run against it.
// It provides capabilities to:
//   - Build a chain from an end-entity certificate by following AIA "CA Issuers" URLs, bounded by a maximum length.
//   - Check the expiry of every certificate in the chain against an injectable clock.
//   - Match the public key of the last certificate against a set of trusted keys.
//   - Check the end-entity certificate against the [CRL] named by its CRL Distribution Point, with optional caching.
//   - Render chains as text, markdown tables or JSON.
//
// Failed downloads never abort a run. They are reported through the configured
// logger: the chain stops growing, or the revocation result becomes unknown.
//
// Security caveat: the signature of each link is never verified. The chain is
// trusted when its last public key is trusted, regardless of whether that key
// actually signed the certificate below it.
//
// [X.509]: https://grokipedia.com/page/X.509
// [CRL]: https://grokipedia.com/page/Certificate_revocation_list
package x509chain
