package hostconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// writeFileAtomic replaces path with content: a temp file in the same
// directory is written, synced and renamed over the target. The target's
// permission bits are kept. When backup is set the previous content is copied
// to path+".bak" first (best-effort, last backup wins).
func writeFileAtomic(path string, content []byte, backup bool) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("write host config: empty path")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("write host config: create dir %s: %w", dir, err)
	}

	perm := os.FileMode(0o600)
	if st, err := os.Stat(path); err == nil {
		perm = st.Mode().Perm()
	}

	if backup {
		if data, err := os.ReadFile(path); err == nil {
			_ = os.WriteFile(path+".bak", data, perm)
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("write host config tmp in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write host config tmp %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync host config tmp %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close host config tmp %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		cleanup()
		return fmt.Errorf("chmod host config tmp %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("replace host config %s: %w", path, err)
	}
	return nil
}
