// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package cli provides the command-line interface of the X.509 trust validator.
//
// It implements a Cobra command that loads a certificate, builds its chain through
// the AIA extension, checks the expiry of every certificate, matches the root
// public key against a directory of trusted certificates and, for trusted chains,
// checks the certificate against its CRL. Results are written as text, a markdown
// table or JSON.
//
// Configuration is read from a JSON or YAML file (--config or X509_TRUST_CONFIG_FILE),
// then overridden by flags. Missing paths are asked for on standard input.
//
// Download failures never abort a run: they are reported through the logger and
// show up as a shorter chain or an undetermined revocation status. Only a
// certificate that cannot be loaded, an unreadable trust store directory or a
// cancelled context stop the command.
package cli
