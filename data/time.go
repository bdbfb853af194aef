package data

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a civil calendar day as sent by the booking api (YYYY-MM-DD)
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// midnight of the day in loc
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

func (d Date) AddMonths(n int) Date {
	return DateOf(time.Date(d.Year, d.Month+time.Month(n), d.Day, 0, 0, 0, 0, time.UTC))
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ClockTime is a time of day in seconds after midnight
type ClockTime int

const (
	Minute   ClockTime = 60
	Hour     ClockTime = 60 * Minute
	EndOfDay ClockTime = 24 * Hour
)

// ParseClock accepts HH:MM or HH:MM:SS
func ParseClock(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	var fields [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid time of day %q", s)
		}
		fields[i] = n
	}
	// 24:00:00 is allowed as an end of day marker
	if fields[0] > 24 || fields[1] > 59 || fields[2] > 59 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	c := ClockTime(fields[0])*Hour + ClockTime(fields[1])*Minute + ClockTime(fields[2])
	if c > EndOfDay {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return c, nil
}

func Clock(hour, minute int) ClockTime {
	return ClockTime(hour)*Hour + ClockTime(minute)*Minute
}

func ClockOf(t time.Time) ClockTime {
	return Clock(t.Hour(), t.Minute()) + ClockTime(t.Second())
}

func (c ClockTime) Hour() int {
	return int(c / Hour)
}

func (c ClockTime) Minute() int {
	return int(c%Hour) / 60
}

// Minutes since midnight, seconds dropped
func (c ClockTime) Minutes() int {
	return int(c / Minute)
}

// On returns the instant the wall clock in loc reads c on day d
func (c ClockTime) On(d Date, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, c.Hour(), c.Minute(), int(c%Minute), 0, loc)
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour(), c.Minute(), int(c%Minute))
}

// Label is the 12 hour display form, e.g. "08:30 AM"
func (c ClockTime) Label() string {
	return time.Date(2000, 1, 1, c.Hour(), c.Minute(), 0, 0, time.UTC).Format("03:04 PM")
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
