//go:build linux && !mips && !mipsle && !mips64 && !mips64le

package loggate

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// kernelSigsetSize is sizeof(kernel sigset_t) on non-MIPS Linux.
const kernelSigsetSize = 8

// resetDefaultAction installs SIG_DFL for sig with rt_sigaction(2). A zeroed
// struct sigaction means SIG_DFL, no flags and an empty mask on every layout;
// the buffer is large enough for the biggest of them.
func resetDefaultAction(sig syscall.Signal) error {
	var action [4]uint64
	_, _, errno := unix.RawSyscall6(unix.SYS_RT_SIGACTION,
		uintptr(sig), uintptr(unsafe.Pointer(&action)), 0, kernelSigsetSize, 0, 0)
	if errno != 0 {
		return errno
	}
	return nil
}

// raise delivers sig to the calling thread, which must be locked.
func raise(sig syscall.Signal) error {
	return unix.Tgkill(unix.Getpid(), unix.Gettid(), sig)
}
