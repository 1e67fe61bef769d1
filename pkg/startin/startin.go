// Package startin parses the human readable delays accepted by `start_in:`,
// such as "30 minutes", "1 hour", "2 days" or "1 day 4 hours". Go duration
// strings ("90m", "1h30m") and bare second counts are accepted as well.
package startin

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Max is the longest delay a job may be scheduled with
const Max = 7 * 24 * time.Hour

var units = map[string]time.Duration{
	"s": time.Second, "sec": time.Second, "secs": time.Second, "second": time.Second, "seconds": time.Second,
	"m": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": 24 * time.Hour, "day": 24 * time.Hour, "days": 24 * time.Hour,
	"w": 7 * 24 * time.Hour, "wk": 7 * 24 * time.Hour, "wks": 7 * 24 * time.Hour,
	"week": 7 * 24 * time.Hour, "weeks": 7 * 24 * time.Hour,
}

var (
	termRe      = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([a-zA-Z]+)`)
	separatorRe = regexp.MustCompile(`^(?:\s|,|and)*$`)
)

// Parse converts a start_in value to a duration. Negative delays are
// rejected, as is anything longer than Max.
func Parse(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n > int64(Max/time.Second) {
			return 0, tooLong(s)
		}
		return time.Duration(n) * time.Second, nil
	} else if isRangeErr(err) {
		return 0, tooLong(s)
	}
	if d, err := time.ParseDuration(s); err == nil {
		if d > Max {
			return 0, tooLong(s)
		}
		return d, nil
	}

	matches := termRe.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	var total time.Duration
	last := 0
	for _, m := range matches {
		if !separatorRe.MatchString(s[last:m[0]]) {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		unit, ok := units[strings.ToLower(s[m[4]:m[5]])]
		if !ok {
			return 0, fmt.Errorf("unknown unit %q in duration %q", s[m[4]:m[5]], s)
		}
		amount, err := strconv.ParseFloat(s[m[2]:m[3]], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", s, err)
		}
		product := amount * float64(unit)
		if product > float64(Max) {
			return 0, tooLong(s)
		}
		total += time.Duration(product)
		if total > Max {
			return 0, tooLong(s)
		}
		last = m[1]
	}
	if !separatorRe.MatchString(s[last:]) {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return total, nil
}

// Validate checks that s parses to a delay between zero and Max
func Validate(s string) error {
	_, err := Parse(s)
	return err
}

func tooLong(s string) error {
	return fmt.Errorf("duration %q exceeds one week", s)
}

func isRangeErr(err error) bool {
	var numErr *strconv.NumError
	return errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange)
}
