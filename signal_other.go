//go:build !unix

package loggate

// InstallFailureSignalHandler implements Backend. Fatal signals cannot be
// intercepted on this platform; the call does nothing.
func (b *DelegatedBackend) InstallFailureSignalHandler() {}
