package session

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Executable resolves the client binary for name ("ssh" or "telnet"). An
// explicit override wins; otherwise $MSYS2_USR_BIN/<name>.exe is used when it
// exists, and name is looked up on PATH.
func Executable(name, override string) string {
	if o := strings.TrimSpace(override); o != "" {
		return o
	}
	if dir := strings.TrimSpace(os.Getenv("MSYS2_USR_BIN")); dir != "" {
		candidate := filepath.Join(dir, name+".exe")
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return name
}

// runAttached runs argv with the process's own stdio.
func runAttached(argv []string) (int, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return exitStatus(cmd.Run())
}

func exitStatus(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode(), nil
	}
	return -1, err
}
