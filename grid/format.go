package grid

import (
	"time"

	"github.com/Pjt727/bookcs/data"
)

// "Mon, Jan 2"
func ShortDate(d data.Date) string {
	return d.In(time.UTC).Format("Mon, Jan 2")
}

// "Monday, January 2, 2006"
func LongDate(d data.Date) string {
	return d.In(time.UTC).Format("Monday, January 2, 2006")
}

func TimeRange(start, end data.ClockTime) string {
	return start.Label() + " - " + end.Label()
}
