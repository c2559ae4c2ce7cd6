package version

import (
	"runtime/debug"
	"strings"
	"time"
)

// Set with -ldflags -X.
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

// Product is the name reported in User-Agent headers and by `asreval version`.
const Product = "asreval"

var readBuildInfo = debug.ReadBuildInfo

// Build describes the running binary.
type Build struct {
	Version  string
	Commit   string
	Time     time.Time
	Modified bool
	Go       string
}

// Current merges the -ldflags values with the embedded build info. Values
// set with -ldflags win.
func Current() Build {
	b := Build{Version: Version, Commit: Commit}
	if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
		b.Time = t
	}

	bi, ok := readBuildInfo()
	if !ok {
		return b
	}
	b.Go = bi.GoVersion
	if b.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		b.Version = strings.TrimPrefix(bi.Main.Version, "v")
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if b.Commit == "" {
				b.Commit = s.Value
			}
		case "vcs.modified":
			b.Modified = s.Value == "true"
		case "vcs.time":
			if b.Time.IsZero() {
				b.Time, _ = time.Parse(time.RFC3339, s.Value)
			}
		}
	}
	if len(b.Commit) > 7 {
		b.Commit = b.Commit[:7]
	}
	return b
}

// Short returns version-commit, suffixed with -dirty for a modified tree.
func (b Build) Short() string {
	s := b.Version
	if b.Commit != "" {
		s += "-" + b.Commit
	}
	if b.Modified {
		s += "-dirty"
	}
	return s
}

// String is Short followed by the build date and Go version when known.
func (b Build) String() string {
	var extra []string
	if !b.Time.IsZero() {
		extra = append(extra, "built "+b.Time.UTC().Format(time.DateOnly))
	}
	if b.Go != "" {
		extra = append(extra, b.Go)
	}
	if len(extra) == 0 {
		return b.Short()
	}
	return b.Short() + " (" + strings.Join(extra, ", ") + ")"
}

// UserAgent returns the User-Agent sent to remote speech services.
func UserAgent() string {
	return Product + "/" + Current().Short()
}
