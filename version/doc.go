// Package version reports the asreval build.
//
// Release builds set Version, Commit and BuildTime with -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/asreval/version.Version=1.0.0" ./cmd/asreval
//
// Anything left unset is taken from the module and VCS stamps the Go
// toolchain embeds, so `go install` builds report a real version too.
package version
