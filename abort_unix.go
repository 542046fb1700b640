//go:build unix

package loggate

import (
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"time"

	"golang.org/x/sys/unix"
)

// abort ends the process with SIGABRT. The default action is restored at the
// OS level first, so the kernel terminates the process without the Go runtime
// printing a second stack dump. Where the action cannot be reset directly, the
// runtime is asked to re-raise the signal with its default action after its own
// dump. The final exit is only reached when the signal could not be raised.
func abort() {
	runtime.LockOSThread()
	if err := resetDefaultAction(unix.SIGABRT); err != nil {
		debug.SetTraceback("crash")
		signal.Reset(unix.SIGABRT)
	}
	if err := raise(unix.SIGABRT); err == nil {
		time.Sleep(time.Second)
	}
	os.Exit(128 + int(unix.SIGABRT))
}
