// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package truststore loads a directory of trusted root certificates into a set of
// public keys and matches candidate keys against it.
//
// Matching is done on key parameters only. A root is trusted when its key is in the
// set, whatever certificate carried it and however that certificate was encoded.
package truststore
