//go:build diagnostics

package logging

const Diagnostics = true
