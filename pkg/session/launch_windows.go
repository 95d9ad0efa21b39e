//go:build windows

package session

// RunInteractive runs argv on the console. There is no pty or SIGWINCH on
// Windows, so the client inherits stdio.
func RunInteractive(argv []string) (int, error) {
	return runAttached(argv)
}
