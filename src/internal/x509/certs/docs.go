// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509certs provides specialized encoding and decoding operations for [X.509] certificates
// and certificate revocation lists. Certificates are read as [PEM] first and DER otherwise,
// with a [PKCS7] fallback for bundles served by some CAs.
//
// It also exposes the extension accessors used by the validator: the Authority Information
// Access "CA Issuers" URI and the first CRL Distribution Point URI. Both parse the raw
// extension bytes and report "not found" on malformed input instead of failing.
//
// [X.509]: https://grokipedia.com/page/X.509
// [PKCS7]: https://grokipedia.com/page/PKCS_7
// [PEM]: https://grokipedia.com/page/PEM#privacy-enhanced-mail
package x509certs
