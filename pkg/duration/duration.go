// Package duration parses the relative-time values Taskwarrior accepts for
// duration attributes ("3 days", "2wk", "P1DT12H", "86400") into seconds.
package duration

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const day = 86400

// maxSeconds keeps results representable as a time.Duration.
const maxSeconds = math.MaxInt64 / 1_000_000_000

// units maps Taskwarrior's unit names to their length in seconds.
// Months and years are fixed at 30 and 365 days, as Taskwarrior does.
var units = map[string]int64{
	"annual": 365 * day, "yearly": 365 * day, "years": 365 * day, "year": 365 * day, "yrs": 365 * day, "yr": 365 * day, "y": 365 * day,
	"semiannual": 183 * day,
	"biannual":   61 * day, "bimonthly": 61 * day,
	"quarterly": 91 * day, "quarters": 91 * day, "quarter": 91 * day, "qrtrs": 91 * day, "qtrs": 91 * day, "qtr": 91 * day, "q": 91 * day,
	"monthly": 30 * day, "months": 30 * day, "month": 30 * day, "mnths": 30 * day, "mths": 30 * day, "mos": 30 * day, "mo": 30 * day,
	"fortnight": 14 * day, "biweekly": 14 * day,
	"weekly": 7 * day, "sennight": 7 * day, "weeks": 7 * day, "week": 7 * day, "wks": 7 * day, "wk": 7 * day, "w": 7 * day,
	"daily": day, "weekdays": day, "days": day, "day": day, "d": day,
	"hours": 3600, "hour": 3600, "hrs": 3600, "hr": 3600, "h": 3600,
	"minutes": 60, "minute": 60, "mins": 60, "min": 60,
	"seconds": 1, "second": 1, "secs": 1, "sec": 1, "s": 1,
}

var (
	isoRe     = regexp.MustCompile(`^P(?:(\d+(?:\.\d+)?)Y)?(?:(\d+(?:\.\d+)?)M)?(?:(\d+(?:\.\d+)?)W)?(?:(\d+(?:\.\d+)?)D)?(?:T(?:(\d+(?:\.\d+)?)H)?(?:(\d+(?:\.\d+)?)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)
	namedRe   = regexp.MustCompile(`^(\d+(?:\.\d*)?|\.\d+)?\s*([a-z]+)$`)
	integerRe = regexp.MustCompile(`^\d+$`)
)

// isoScale is the length in seconds of each isoRe capture group.
var isoScale = [...]float64{365 * day, 30 * day, 7 * day, day, 3600, 60, 1}

var ErrEmpty = errors.New("empty duration")

// Parse converts s to a signed number of whole seconds. Fractions of a
// second are truncated toward zero.
func Parse(s string) (int64, error) {
	in := strings.TrimSpace(s)
	if in == "" {
		return 0, ErrEmpty
	}

	sign := 1.0
	switch in[0] {
	case '-':
		sign = -1
		in = strings.TrimSpace(in[1:])
	case '+':
		in = strings.TrimSpace(in[1:])
	}

	magnitude, err := parseMagnitude(in)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if magnitude > maxSeconds {
		return 0, fmt.Errorf("invalid duration %q: out of range", s)
	}
	return int64(sign * math.Trunc(magnitude)), nil
}

func parseMagnitude(in string) (float64, error) {
	if integerRe.MatchString(in) {
		return strconv.ParseFloat(in, 64)
	}

	if len(in) > 1 && (in[0] == 'P' || in[0] == 'p') {
		if total, ok := parseISO(strings.ToUpper(in)); ok {
			return total, nil
		}
	}

	m := namedRe.FindStringSubmatch(strings.ToLower(in))
	if m == nil {
		return 0, errors.New("unrecognized format")
	}
	unit, ok := units[m[2]]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", m[2])
	}
	n := 1.0
	if m[1] != "" {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, err
		}
		n = v
	}
	return n * float64(unit), nil
}

// parseISO handles ISO 8601 durations such as P1W, P2DT3H or PT90M.
func parseISO(in string) (float64, bool) {
	if strings.HasSuffix(in, "T") {
		return 0, false
	}
	m := isoRe.FindStringSubmatch(in)
	if m == nil {
		return 0, false
	}

	var total float64
	seen := false
	for i, part := range m[1:] {
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0, false
		}
		total += v * isoScale[i]
		seen = true
	}
	return total, seen
}
