package entities

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var utcOffset = regexp.MustCompile(`^(?i:UTC|GMT)?\s*([+-])(\d{1,2})(?::?(\d{2}))?$`)

// ParseTimezoneLocation resolves a user timezone. Accepted forms:
//   - IANA names such as "America/Sao_Paulo"
//   - "UTC", "GMT" or empty (UTC)
//   - fixed offsets: "UTC-3", "GMT+5:30", "+3", "-03:30"
//
// Fixed offsets become a time.FixedZone and ignore DST.
func ParseTimezoneLocation(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	switch strings.ToUpper(tz) {
	case "", "UTC", "GMT", "ETC/UTC", "Z":
		return time.UTC, nil
	}

	if loc, err := time.LoadLocation(tz); err == nil {
		return loc, nil
	}

	m := utcOffset.FindStringSubmatch(tz)
	if m == nil {
		return nil, fmt.Errorf("unsupported timezone %q", tz)
	}

	hours, _ := strconv.Atoi(m[2])
	minutes := 0
	if m[3] != "" {
		minutes, _ = strconv.Atoi(m[3])
	}
	if hours > 14 || minutes >= 60 {
		return nil, fmt.Errorf("timezone offset out of range %q", tz)
	}

	offset := hours*3600 + minutes*60
	if m[1] == "-" {
		offset = -offset
	}

	return time.FixedZone(offsetName(m[1], hours, minutes), offset), nil
}

func offsetName(sign string, hours, minutes int) string {
	return fmt.Sprintf("UTC%s%02d:%02d", sign, hours, minutes)
}
