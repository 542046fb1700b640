//go:build unix && !(linux && !mips && !mipsle && !mips64 && !mips64le)

package loggate

import (
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// resetDefaultAction is not available without libc access on this platform.
func resetDefaultAction(syscall.Signal) error {
	return errors.New("loggate: sigaction not supported")
}

func raise(sig syscall.Signal) error {
	return unix.Kill(unix.Getpid(), sig)
}
