// Package util holds small generic helpers shared by the CLI and the
// runner: first-non-zero selection, secret masking and phrase list
// cleanup.
package util
