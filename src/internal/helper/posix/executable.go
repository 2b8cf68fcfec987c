// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package posix

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultExecutableName is returned when argv[0] is missing.
const DefaultExecutableName = "x509-trust-validator"

// ExecutableName returns the base name of argv0 without a ".exe" suffix.
// Both '/' and '\' are treated as separators regardless of the host OS.
func ExecutableName(argv0 string) string {
	if argv0 == "" {
		return DefaultExecutableName
	}

	name := filepath.Base(argv0)

	// Foreign separators survive filepath.Base
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}

	name = strings.TrimSuffix(name, ".exe")
	if name == "" || name == "." || name == string(filepath.Separator) {
		return DefaultExecutableName
	}
	return name
}

// GetExecutableName returns [ExecutableName] of the running program.
func GetExecutableName() string {
	if len(os.Args) == 0 {
		return DefaultExecutableName
	}
	return ExecutableName(os.Args[0])
}
