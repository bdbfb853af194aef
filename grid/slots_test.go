package grid

import (
	"testing"

	"github.com/Pjt727/bookcs/data"
)

func TestTimeSlotsLattice(t *testing.T) {
	slots := TimeSlots()
	if len(slots) != 48 {
		t.Fatalf("expected 48 slots got %d", len(slots))
	}
	if slots[0].Value != 0 {
		t.Fatalf("first slot should be midnight got %s", slots[0].Value)
	}
	if last := slots[len(slots)-1].Value.String(); last != "23:30:00" {
		t.Fatalf("last slot should be 23:30:00 got %s", last)
	}
	for i := 1; i < len(slots); i++ {
		if diff := slots[i].Value - slots[i-1].Value; diff != 30*data.Minute {
			t.Fatalf("slot %d is %d seconds after the previous one", i, diff)
		}
	}
}

func TestTimeSlotsDisplay(t *testing.T) {
	slots := TimeSlots()
	expected := map[int]string{
		0:  "12:00 AM",
		1:  "12:30 AM",
		17: "08:30 AM",
		24: "12:00 PM",
		47: "11:30 PM",
	}
	for i, display := range expected {
		if slots[i].Display != display {
			t.Errorf("slot %d: expected display %q got %q", i, display, slots[i].Display)
		}
	}
}

func TestBusinessHours(t *testing.T) {
	cases := []struct {
		at       data.ClockTime
		expected bool
	}{
		{data.Clock(7, 30), false},
		{data.Clock(8, 0), true},
		{data.Clock(12, 0), true},
		{data.Clock(19, 30), true},
		{data.Clock(20, 0), false},
		{data.Clock(0, 0), false},
	}
	for _, c := range cases {
		if got := IsWithinBusinessHours(c.at); got != c.expected {
			t.Errorf("%s: expected %v got %v", c.at, c.expected, got)
		}
	}
}

func TestAppointmentRangeIsHalfOpen(t *testing.T) {
	apt := data.Appointment{StartTime: data.Clock(9, 0), EndTime: data.Clock(10, 0)}
	cases := []struct {
		at       data.ClockTime
		expected bool
	}{
		{data.Clock(8, 30), false},
		{data.Clock(9, 0), true},
		{data.Clock(9, 30), true},
		{data.Clock(10, 0), false},
	}
	for _, c := range cases {
		if got := apt.Covers(c.at); got != c.expected {
			t.Errorf("%s: expected %v got %v", c.at, c.expected, got)
		}
	}
}
