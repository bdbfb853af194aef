package grid

import "github.com/Pjt727/bookcs/data"

const (
	SlotLength   = 30 * data.Minute
	SlotsPerDay  = int(data.EndOfDay / SlotLength)
	BusinessOpen = 8
	// first hour that is no longer bookable
	BusinessClose = 20
)

type TimeSlot struct {
	Value   data.ClockTime
	Display string
}

// TimeSlots is the fixed half hour lattice of a day, 00:00 through 23:30
func TimeSlots() []TimeSlot {
	slots := make([]TimeSlot, 0, SlotsPerDay)
	for t := data.ClockTime(0); t < data.EndOfDay; t += SlotLength {
		slots = append(slots, TimeSlot{
			Value:   t,
			Display: t.Label(),
		})
	}
	return slots
}

// only the hour is considered so 19:30 is in and 20:00 is out
func IsWithinBusinessHours(t data.ClockTime) bool {
	return t.Hour() >= BusinessOpen && t.Hour() < BusinessClose
}
