//go:build unix

package tui

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ProcessTerminal drives the real controlling terminal via stdin/stdout. It
// never switches to the alternate screen buffer: scrollback stays native, per
// the renderer's differential-into-history model.
type ProcessTerminal struct {
	in  *os.File
	out *os.File
	fd  int

	mu          sync.Mutex
	origTermios *unix.Termios
	raw         bool

	sigCh chan os.Signal
	done  chan struct{}
}

// NewProcessTerminal wires a ProcessTerminal to os.Stdin/os.Stdout.
func NewProcessTerminal() *ProcessTerminal {
	return &ProcessTerminal{
		in:  os.Stdin,
		out: os.Stdout,
		fd:  int(os.Stdin.Fd()),
	}
}

func (t *ProcessTerminal) Write(data string) {
	io := t.out
	for written := 0; written < len(data); {
		n, err := io.WriteString(data[written:])
		if err != nil {
			return
		}
		written += n
	}
}

// Size returns (columns, rows), falling back to 80x24 if the ioctl fails
// (e.g. stdout redirected to a file).
func (t *ProcessTerminal) Size() (cols, rows int) {
	ws, err := unix.IoctlGetWinsize(int(t.out.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 80, 24
	}
	return int(ws.Col), int(ws.Row)
}

// SetRawMode puts stdin into raw mode and starts SIGWINCH monitoring.
func (t *ProcessTerminal) SetRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.raw {
		return nil
	}

	termios, err := unix.IoctlGetTermios(t.fd, ioctlGetTermios())
	if err != nil {
		return fmt.Errorf("get termios: %w", err)
	}
	t.origTermios = termios

	raw := *termios
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Oflag &^= unix.OPOST
	raw.Cflag |= unix.CS8
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
	raw.Cc[unix.VMIN] = 0
	raw.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(t.fd, ioctlSetTermios(), &raw); err != nil {
		return fmt.Errorf("set raw mode: %w", err)
	}
	t.raw = true

	t.sigCh = make(chan os.Signal, 1)
	t.done = make(chan struct{})
	signal.Notify(t.sigCh, syscall.SIGWINCH)

	return nil
}

// RestoreMode restores the terminal's original mode. Safe to call even if
// SetRawMode was never called or already restored (including from a
// deferred panic-recovery path).
func (t *ProcessTerminal) RestoreMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.raw {
		return nil
	}

	signal.Stop(t.sigCh)
	close(t.done)

	if t.origTermios != nil {
		if err := unix.IoctlSetTermios(t.fd, ioctlSetTermios(), t.origTermios); err != nil {
			return fmt.Errorf("restore termios: %w", err)
		}
	}
	t.raw = false
	return nil
}

// OnResize registers fn to be called (from a background goroutine) whenever
// SIGWINCH fires while the terminal is in raw mode. fn receives the new
// (cols, rows). Each call starts its own goroutine on the shared signal
// channel: a later call does not remove an earlier handler, and with
// several registered each SIGWINCH reaches only one of them.
func (t *ProcessTerminal) OnResize(fn func(cols, rows int)) {
	t.mu.Lock()
	sigCh, done := t.sigCh, t.done
	t.mu.Unlock()
	if sigCh == nil {
		return
	}
	go func() {
		for {
			select {
			case <-done:
				return
			case <-sigCh:
				cols, rows := t.Size()
				fn(cols, rows)
			}
		}
	}()
}

func (t *ProcessTerminal) HideCursor() { t.Write(hideCursor) }
func (t *ProcessTerminal) ShowCursor() { t.Write(showCursor) }

// ReadSequence reads one complete input chunk: a single ASCII byte, a
// multi-byte UTF-8 character, or a full CSI/SS3/meta escape sequence. A lone
// ESC with nothing following within a short grace period is returned as a
// standalone escape key.
func (t *ProcessTerminal) ReadSequence(timeout time.Duration) (string, bool) {
	if !t.waitReadable(timeout) {
		return "", false
	}

	var data []byte
	for {
		b, ok := t.readByte()
		if !ok {
			break
		}
		data = append(data, b)

		if len(data) == 1 {
			if n := utf8LeadLen(data[0]); n > 1 {
				for len(data) < n && t.waitReadable(5*time.Millisecond) {
					cb, ok := t.readByte()
					if !ok {
						break
					}
					data = append(data, cb)
				}
				return string(data), true
			}
			if data[0] != 0x1b {
				break
			}
			if !t.waitReadable(50 * time.Millisecond) {
				break
			}
			continue
		}
		if len(data) >= 2 && data[0] == 0x1b {
			switch data[1] {
			case '[':
				if len(data) >= 3 && data[len(data)-1] >= 0x40 && data[len(data)-1] <= 0x7e {
					return string(data), true
				}
			case 'O':
				if len(data) >= 3 {
					return string(data), true
				}
			default:
				if len(data) == 2 {
					return string(data), true
				}
			}
			if !t.waitReadable(5 * time.Millisecond) {
				break
			}
		}
	}
	if len(data) == 0 {
		return "", false
	}
	return string(data), true
}

// utf8LeadLen returns the total byte length of the UTF-8 sequence starting
// with lead, per the standard leading-byte bit patterns, or 1 for an ASCII
// byte, a bare continuation byte, or an invalid leading byte (passed through
// raw rather than over-read).
func utf8LeadLen(lead byte) int {
	switch {
	case lead&0x80 == 0x00:
		return 1
	case lead&0xe0 == 0xc0:
		return 2
	case lead&0xf0 == 0xe0:
		return 3
	case lead&0xf8 == 0xf0:
		return 4
	default:
		return 1
	}
}

func (t *ProcessTerminal) waitReadable(timeout time.Duration) bool {
	fdSet := &unix.FdSet{}
	fdSet.Set(t.fd)
	tv := unix.NsecToTimeval(timeout.Nanoseconds())
	n, err := unix.Select(t.fd+1, fdSet, nil, nil, &tv)
	return err == nil && n > 0
}

func (t *ProcessTerminal) readByte() (byte, bool) {
	var buf [1]byte
	n, err := t.in.Read(buf[:])
	if err != nil || n == 0 {
		return 0, false
	}
	return buf[0], true
}

// IsTerminal reports whether stdout is attached to a real terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var _ Terminal = (*ProcessTerminal)(nil)
