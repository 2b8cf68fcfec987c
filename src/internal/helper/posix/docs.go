// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package posix provides helpers for presenting the program the way it was invoked.
//
// [ExecutableName] derives a clean command name from an argv[0] value, whether it
// carries a [POSIX] path, a Windows path or a ".exe" suffix. The CLI uses it as the
// cobra "Use" line so help and usage text name the binary the user actually ran:
//
//   - "/usr/local/bin/x509-trust-validator" → "x509-trust-validator"
//   - "C:\tools\validator.exe" → "validator"
//   - empty argv → [DefaultExecutableName]
//
// [POSIX]: https://grokipedia.com/page/POSIX
package posix
