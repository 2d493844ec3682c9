//go:build !unix

package httpproxy

// ignoreSIGPIPE is a no-op on platforms with no SIGPIPE signal.
func ignoreSIGPIPE() {}
