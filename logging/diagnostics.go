//go:build !diagnostics

package logging

// Diagnostics is true in builds made with -tags diagnostics.
const Diagnostics = false
