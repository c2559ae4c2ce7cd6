package dataset

import (
	"strconv"
	"strings"

	"github.com/kbukum/asreval/errors"
)

// ParseClock converts a "MM:SS" timestamp into seconds. Both fields take
// one or two digits in the range 0-59.
func ParseClock(s string) (int, error) {
	mm, ss, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, errors.InvalidFormat("clock", "MM:SS")
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 || len(mm) > 2 {
		return 0, errors.InvalidFormat("clock", "MM:SS").WithDetail("value", s)
	}
	sec, err := strconv.Atoi(ss)
	if err != nil || sec < 0 || sec > 59 || len(ss) > 2 {
		return 0, errors.InvalidFormat("clock", "MM:SS").WithDetail("value", s)
	}
	return m*60 + sec, nil
}
