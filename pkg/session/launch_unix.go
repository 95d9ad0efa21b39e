//go:build !windows

package session

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// RunInteractive runs argv under a pty sized like the user's terminal, with
// the local terminal in raw mode for the duration of the session. When stdio
// is not a terminal the program inherits it directly.
func RunInteractive(argv []string) (int, error) {
	inFd := int(os.Stdin.Fd())
	if !term.IsTerminal(inFd) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return runAttached(argv)
	}

	flushTTYInput()

	cmd := exec.Command(argv[0], argv[1:]...)
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return -1, fmt.Errorf("pty start: %w", err)
	}
	defer func() { _ = ptmx.Close() }()

	syncPTYSize(ptmx)
	stopResize := watchPTYSize(ptmx)
	defer stopResize()

	if old, err := term.MakeRaw(inFd); err == nil {
		defer func() { _ = term.Restore(inFd, old) }()
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		copyInput(done, ptmx, inFd)
	}()

	// Returns with EIO once the client exits and the pty closes.
	_, _ = io.Copy(os.Stdout, ptmx)
	werr := cmd.Wait()

	close(done)
	wg.Wait()
	return exitStatus(werr)
}

// copyInput forwards stdin to the pty until done is closed. stdin is polled
// so the goroutine stops with the session instead of swallowing the next
// line typed into the menu.
func copyInput(done <-chan struct{}, dst io.Writer, fd int) {
	buf := make([]byte, 1024)
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	for {
		select {
		case <-done:
			return
		default:
		}
		n, err := unix.Poll(fds, 100)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return
		}
		if n == 0 || fds[0].Revents&unix.POLLIN == 0 {
			if fds[0].Revents&(unix.POLLHUP|unix.POLLERR) != 0 {
				return
			}
			continue
		}
		r, err := unix.Read(fd, buf)
		if r > 0 {
			if _, werr := dst.Write(buf[:r]); werr != nil {
				return
			}
		}
		if err != nil || r == 0 {
			return
		}
	}
}

// syncPTYSize copies the stdout terminal size to the pty.
func syncPTYSize(ptmx *os.File) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return
	}
	if cols, rows, err := term.GetSize(fd); err == nil && rows > 0 && cols > 0 {
		_ = pty.Setsize(ptmx, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	}
}

// watchPTYSize keeps the pty size in sync on SIGWINCH until the returned
// stop func is called.
func watchPTYSize(ptmx *os.File) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGWINCH)
	quit := make(chan struct{})
	go func() {
		for {
			select {
			case <-quit:
				return
			case <-ch:
				syncPTYSize(ptmx)
			}
		}
	}()
	return func() {
		signal.Stop(ch)
		close(quit)
	}
}

// flushTTYInput discards unread input queued on the controlling terminal
// (stray keystrokes, terminal query replies) so it is not fed to the client.
// Best-effort; a missing /dev/tty makes it a no-op.
func flushTTYInput() {
	tty, err := os.OpenFile("/dev/tty", os.O_RDONLY, 0)
	if err != nil {
		return
	}
	defer func() { _ = tty.Close() }()
	fd := int(tty.Fd())

	// tcflush(fd, TCIFLUSH) via ioctl(TCFLSH); same request value on Linux and Darwin.
	const tcflsh = 0x540B
	_, _, _ = unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(tcflsh), uintptr(unix.TCIFLUSH))

	// Replies can land right after the flush; drain briefly.
	_ = unix.SetNonblock(fd, true)
	defer func() { _ = unix.SetNonblock(fd, false) }()
	deadline := time.Now().Add(200 * time.Millisecond)
	buf := make([]byte, 512)
	for time.Now().Before(deadline) {
		n, err := unix.Read(fd, buf)
		if n <= 0 || err != nil {
			break
		}
		deadline = time.Now().Add(75 * time.Millisecond)
	}
}
