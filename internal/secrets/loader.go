package secrets

import (
	"fmt"
	"os"
	"strings"
)

// ReadFile returns the trimmed secret stored at path. An empty path means
// the secret is not configured and yields "". name appears in errors.
func ReadFile(name, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s from %q: %w", name, path, err)
	}
	secret := strings.TrimSpace(string(data))
	if secret == "" {
		return "", fmt.Errorf("%s file %q is empty", name, path)
	}
	return secret, nil
}
