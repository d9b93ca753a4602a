package srtfile

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Timestamp is a subtitle timestamp with millisecond precision.
type Timestamp time.Duration

// ParseTimestamp parses an SRT timestamp of the form "HH:MM:SS,mmm".
// A period is accepted in place of the comma (SBV-converted material),
// and the hour field may be one or two digits.
func ParseTimestamp(value string) (Timestamp, error) {
	value = strings.TrimSpace(value)
	normalized := strings.ReplaceAll(value, ".", ",")

	timeAndMillis := strings.Split(normalized, ",")
	if len(timeAndMillis) != 2 || len(timeAndMillis[1]) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeAndMillis[0], ":")
	if len(hms) != 3 || len(hms[0]) == 0 || len(hms[0]) > 2 || len(hms[1]) != 2 || len(hms[2]) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}

	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeAndMillis[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	if minutes > 59 || seconds > 59 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}

	d := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond
	return Timestamp(d), nil
}

// String formats the timestamp in canonical SRT form "HH:MM:SS,mmm".
func (t Timestamp) String() string {
	d := time.Duration(t)
	if d < 0 {
		d = 0
	}
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	d -= seconds * time.Second
	millis := d / time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

// Duration returns the timestamp as a time.Duration.
func (t Timestamp) Duration() time.Duration {
	return time.Duration(t)
}
