package path

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands $VAR references and a leading "~" so that paths from
// config files and env vars can be written portably.
func ExpandPath(p string) (string, error) {
	p = os.ExpandEnv(strings.TrimSpace(p))
	if p == "" {
		return "", fmt.Errorf("empty path")
	}

	if p != "~" && !strings.HasPrefix(p, "~/") {
		return filepath.Clean(p), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p[1:], "/")), nil
}
