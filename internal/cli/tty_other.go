//go:build !linux

package cli

// IsTerminal reports false; colour must be requested explicitly.
func IsTerminal(fd uintptr) bool {
	return false
}
