// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// x509-trust-validator checks an X.509 certificate against a directory of
// trusted root certificates.
//
// # Installation
//
// Install with Go 1.25.5 or later:
//
//	go install github.com/H0llyW00dzZ/x509-trust-validator/cmd/x509-trust-validator@latest
//
// # Usage
//
//	x509-trust-validator [-f CERT_FILE] [-t TRUST_DIR] [FLAGS]
//
// # Flags
//
//	-f, --cert        Certificate to validate, PEM or DER (repeatable)
//	-t, --trust-dir   Directory of trusted root certificates
//	-c, --config      Configuration file, JSON or YAML
//	    --timeout     Timeout of each AIA or CRL download (default 10s)
//	    --max-chain   Maximum number of certificates in a chain (default 10)
//	    --json        Write the report as JSON
//	    --table       Write the chain as a markdown table
//	    --tree        Write the chain as an ASCII tree
//	    --strict      Exit with an error when a certificate does not pass
//	    --log-format  Diagnostics format, "text" or "json"
//	-o, --save-chain  Write the built chains as PEM to this file
//	-i, --intermediate-only
//	                  With --save-chain, write only the intermediates
//	-v, --verbose     Log CRL cache statistics when done
//
// Paths that are not given as flags are asked for on standard input.
//
// # Environment Variables
//
//	X509_TRUST_CONFIG_FILE  Path to configuration file (alternative to --config flag)
//	X509_TRUST_DIR          Trust store directory (alternative to --trust-dir flag)
//
// # What is checked
//
//   - The chain is built by downloading each issuer named by the AIA "CA Issuers" URL.
//   - Every certificate in the chain is checked for expiry.
//   - The public key of the last certificate is compared with the trusted certificates.
//   - For trusted chains, the certificate serial is looked up in the CRL named by
//     its CRL Distribution Points extension.
//
// Signatures between chain links are not verified.
//
// # Examples
//
//	x509-trust-validator -f server.crt -t /etc/trusted-roots
//	x509-trust-validator -f a.crt -f b.crt -t ./roots --table
//	x509-trust-validator -f server.crt -c config.yaml --json --strict
package main
