package transcription

import (
	"path"
	"strings"
	"unicode/utf8"
)

// MaxJobNameLength is the longest job name the backends accept.
const MaxJobNameLength = 200

// JobName derives a job name from a run version letter and a media key:
// the version followed by the file stem, with characters outside
// [0-9A-Za-z._-] replaced by '-'.
func JobName(version, key string) string {
	base := path.Base(key)
	stem := strings.TrimSuffix(base, path.Ext(base))
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			return r
		default:
			return '-'
		}
	}, stem)
	name := version + clean
	if len(name) > MaxJobNameLength {
		name = name[:MaxJobNameLength]
	}
	return name
}

// SplitJobName splits a job name (or a result file name) into its leading
// version letter and the sample stem. A ".json" suffix is ignored.
func SplitJobName(name string) (version, stem string) {
	if name == "" {
		return "", ""
	}
	name = strings.TrimSuffix(path.Base(name), ResultExt)
	if name == "" || name == "." || name == "/" {
		return "", ""
	}
	_, size := utf8.DecodeRuneInString(name)
	return name[:size], name[size:]
}
