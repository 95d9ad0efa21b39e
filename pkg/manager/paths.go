// Package manager holds vmsmenu's persistent client state (last transport,
// recent connections) and the per-host daily activity logs.
package manager

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AppDirName is the directory under the user config dir.
const AppDirName = "vmsmenu"

// DefaultConfigDir returns the directory path for this application's files.
// Precedence:
//  1. $XDG_CONFIG_HOME/vmsmenu
//  2. ~/.config/vmsmenu
func DefaultConfigDir() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, AppDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", AppDirName), nil
}

// ExpandPath expands environment variables and a leading "~" in a path.
// If the input is empty, returns "".
func ExpandPath(p string) string {
	if p == "" {
		return ""
	}
	p = os.ExpandEnv(p)
	if strings.HasPrefix(p, "~") {
		home, _ := os.UserHomeDir()
		if home != "" {
			if p == "~" {
				p = home
			} else if strings.HasPrefix(p, "~/") {
				p = filepath.Join(home, p[2:])
			}
			// "~user" is left alone.
		}
	}
	return p
}

// sanitizeHostKeyToFilename makes an alias safe to use as a directory name.
func sanitizeHostKeyToFilename(hostKey string) string {
	hostKey = strings.TrimSpace(hostKey)
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "_",
		"\t", "_",
	)
	hostKey = replacer.Replace(hostKey)

	for strings.Contains(hostKey, "__") {
		hostKey = strings.ReplaceAll(hostKey, "__", "_")
	}
	hostKey = strings.Trim(hostKey, "._-")
	if hostKey == "" {
		return "host"
	}
	return hostKey
}
