//go:build unix

package loggate

import (
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"golang.org/x/sys/unix"
)

// failureSignals are the signals reported by the delegated backend's crash handler.
var failureSignals = []os.Signal{
	unix.SIGABRT,
	unix.SIGBUS,
	unix.SIGFPE,
	unix.SIGILL,
	unix.SIGSEGV,
	unix.SIGTERM,
}

// InstallFailureSignalHandler implements Backend. On the first failure signal the
// stacks of all goroutines are logged at ERROR, then the signal is raised again
// with its default disposition. Subsequent calls do nothing.
func (b *DelegatedBackend) InstallFailureSignalHandler() {
	b.signals.Do(func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, failureSignals...)
		go func() {
			sig := <-ch
			b.reportFailureSignal(sig)
			signal.Reset(sig)
			if s, ok := sig.(syscall.Signal); ok {
				_ = unix.Kill(unix.Getpid(), s)
			}
		}()
	})
}

func (b *DelegatedBackend) reportFailureSignal(sig os.Signal) {
	name := sig.String()
	if s, ok := sig.(syscall.Signal); ok {
		if n := unix.SignalName(s); n != "" {
			name = n
		}
	}
	stack := make([]byte, 1<<20)
	stack = stack[:runtime.Stack(stack, true)]
	b.logger.WithField("signal", name).Errorf("(%s): *** %s received by PID %d; stack trace: ***\n%s",
		b.appName, name, os.Getpid(), stack)
}
