//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package tui

import "golang.org/x/sys/unix"

func ioctlGetTermios() uint { return unix.TIOCGETA }
func ioctlSetTermios() uint { return unix.TIOCSETA }
