package grid

import (
	"slices"
	"time"

	"github.com/Pjt727/bookcs/data"
)

// Upcoming is the professor's future bookings of the day, soonest first
func Upcoming(professorID data.ID, appointments []data.Appointment, now time.Time, loc *time.Location) []data.Appointment {
	upcoming := make([]data.Appointment, 0)
	for _, apt := range appointments {
		if apt.ProfessorID != professorID || !apt.StartsAt(loc).After(now) {
			continue
		}
		switch apt.Status {
		case data.StatusOpen, data.StatusClosed, data.StatusPending:
			upcoming = append(upcoming, apt)
		}
	}
	slices.SortStableFunc(upcoming, func(a, b data.Appointment) int {
		return a.StartsAt(loc).Compare(b.StartsAt(loc))
	})
	return upcoming
}
