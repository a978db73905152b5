// Package secrets holds the secret-store backends used to keep line
// passwords out of the lines file and off the command line.
package secrets

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// EntryPath maps a secret reference such as "fido://5145550199/password" to
// the relative entry path "fido/5145550199/password" used by the backends.
func EntryPath(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", errors.New("secret key is empty")
	}

	if scheme, rest, ok := strings.Cut(trimmed, "://"); ok {
		if scheme == "" || rest == "" {
			return "", fmt.Errorf("invalid secret key %q", key)
		}
		trimmed = scheme + "/" + rest
	}

	if strings.HasPrefix(trimmed, "/") {
		return "", fmt.Errorf("invalid secret key %q", key)
	}

	cleaned := path.Clean(trimmed)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("invalid secret key %q", key)
	}

	return cleaned, nil
}
