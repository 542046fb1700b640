//go:build !unix

package loggate

import "os"

// abort exits with the status the C runtime uses for abort() on Windows.
func abort() {
	os.Exit(3)
}
