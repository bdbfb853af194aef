package grid

import (
	"strings"
	"testing"
	"time"

	"github.com/Pjt727/bookcs/data"
)

func testBuilder() Builder {
	return Builder{
		Policy: testPolicy(),
		Now:    func() time.Time { return testNow },
	}
}

var ada = data.Professor{MemberID: "1", FirstName: "Ada", LastName: "Lovelace"}

func appointment(id data.ID, status data.Status, start, end data.ClockTime) data.Appointment {
	return data.Appointment{
		AppointmentID: id,
		ProfessorID:   ada.MemberID,
		Date:          testDay,
		StartTime:     start,
		EndTime:       end,
		Status:        status,
		MeetingName:   "Office hours",
	}
}

func slotIndex(t data.ClockTime) int {
	return int(t / SlotLength)
}

func TestBuildShape(t *testing.T) {
	bob := data.Professor{MemberID: "2", FirstName: "Bob", LastName: "Kahn"}
	g := testBuilder().Build(student, testDay, []data.Professor{ada, bob}, nil)
	if len(g.Slots) != 48 {
		t.Fatalf("expected 48 slots got %d", len(g.Slots))
	}
	if len(g.Rows) != 2 || g.Rows[0].Professor != ada || g.Rows[1].Professor != bob {
		t.Fatalf("rows should follow professor order got %+v", g.Rows)
	}
	for _, row := range g.Rows {
		if len(row.Cells) != 48 {
			t.Fatalf("expected 48 cells got %d", len(row.Cells))
		}
	}
}

func TestBuildOutsideBusinessHoursIsMuted(t *testing.T) {
	apt := appointment("5", data.StatusOpen, data.Clock(20, 0), data.Clock(21, 0))
	g := testBuilder().Build(student, testDay, []data.Professor{ada}, []data.Appointment{apt})
	cells := g.Rows[0].Cells
	for _, at := range []data.ClockTime{data.Clock(7, 30), data.Clock(20, 0), data.Clock(20, 30), data.Clock(23, 30)} {
		cell := cells[slotIndex(at)]
		if cell.Class != ClassMuted || cell.Clickable || cell.Appointment != nil {
			t.Errorf("%s: expected muted without interaction got %+v", at, cell)
		}
	}
}

func TestBuildStatusClasses(t *testing.T) {
	apts := []data.Appointment{
		appointment("1", data.StatusPending, data.Clock(13, 0), data.Clock(13, 30)),
		appointment("2", data.StatusOpen, data.Clock(14, 0), data.Clock(14, 30)),
		appointment("3", data.StatusClosed, data.Clock(15, 0), data.Clock(15, 30)),
		appointment("4", data.StatusNotAvailable, data.Clock(16, 0), data.Clock(16, 30)),
		appointment("5", data.StatusPast, data.Clock(17, 0), data.Clock(17, 30)),
		// already started so elapsed wins over open
		appointment("6", data.StatusOpen, data.Clock(10, 0), data.Clock(10, 30)),
	}
	g := testBuilder().Build(student, testDay, []data.Professor{ada}, apts)
	cells := g.Rows[0].Cells
	expected := map[data.ClockTime]Class{
		data.Clock(13, 0): ClassPending,
		data.Clock(14, 0): ClassOpen,
		data.Clock(15, 0): ClassClosed,
		data.Clock(16, 0): ClassMuted,
		data.Clock(17, 0): ClassNeutral,
		data.Clock(10, 0): ClassElapsed,
	}
	for at, class := range expected {
		if got := cells[slotIndex(at)].Class; got != class {
			t.Errorf("%s: expected %s got %s", at, class, got)
		}
	}
}

func TestBuildRuns(t *testing.T) {
	apts := []data.Appointment{
		appointment("1", data.StatusOpen, data.Clock(13, 0), data.Clock(14, 30)),
		appointment("2", data.StatusOpen, data.Clock(14, 30), data.Clock(15, 0)),
	}
	g := testBuilder().Build(student, testDay, []data.Professor{ada}, apts)
	cells := g.Rows[0].Cells

	first := cells[slotIndex(data.Clock(13, 0))]
	middle := cells[slotIndex(data.Clock(13, 30))]
	last := cells[slotIndex(data.Clock(14, 0))]
	lone := cells[slotIndex(data.Clock(14, 30))]

	if !first.RunStart || first.RunEnd {
		t.Errorf("first cell of a run: %+v", first)
	}
	if middle.RunStart || middle.RunEnd {
		t.Errorf("middle cell of a run should have no edges: %+v", middle)
	}
	if last.RunStart || !last.RunEnd {
		t.Errorf("last cell of a run: %+v", last)
	}
	if !lone.RunStart || !lone.RunEnd {
		t.Errorf("single slot appointment should start and end its run: %+v", lone)
	}
	if !strings.Contains(lone.Classes(), "meeting-start") || !strings.Contains(lone.Classes(), "meeting-end") {
		t.Errorf("expected run classes got %q", lone.Classes())
	}
}

func TestBuildEmptySlots(t *testing.T) {
	g := testBuilder().Build(student, testDay, []data.Professor{ada}, nil)
	cells := g.Rows[0].Cells

	past := cells[slotIndex(data.Clock(9, 0))]
	if past.Class != ClassMuted || past.Clickable {
		t.Fatalf("past empty slot should be muted and inert got %+v", past)
	}

	future := cells[slotIndex(data.Clock(14, 0))]
	if future.Class != ClassAvailable || !future.Clickable {
		t.Fatalf("future empty slot should be available got %+v", future)
	}
	if future.Target.Status != data.StatusAvailable || future.Target.ProfessorName != "Ada Lovelace" {
		t.Fatalf("future empty slot should carry a synthetic target got %+v", future.Target)
	}
}

func TestBuildProfessorOwnership(t *testing.T) {
	bob := data.Professor{MemberID: "2", FirstName: "Bob", LastName: "Kahn"}
	g := testBuilder().Build(professor, testDay, []data.Professor{ada, bob}, nil)
	at := slotIndex(data.Clock(14, 0))
	if !g.Rows[0].Cells[at].Clickable {
		t.Errorf("professor should be able to act on their own slot")
	}
	if g.Rows[1].Cells[at].Clickable {
		t.Errorf("professor should not be able to act on another professor's slot")
	}
}

func TestBuildTooltips(t *testing.T) {
	apts := []data.Appointment{
		appointment("1", data.StatusOpen, data.Clock(14, 0), data.Clock(15, 0)),
		appointment("2", data.StatusPending, data.Clock(16, 0), data.Clock(16, 30)),
	}
	g := testBuilder().Build(student, testDay, []data.Professor{ada}, apts)
	tip := g.Rows[0].Cells[slotIndex(data.Clock(14, 30))].Tooltip
	if tip == nil {
		t.Fatalf("open appointment should have a tooltip")
	}
	if tip.Meeting != "Office hours" || tip.Time != "02:00 PM - 03:00 PM" || tip.Date != "Sun, Oct 18" {
		t.Fatalf("unexpected tooltip %+v", tip)
	}
	if g.Rows[0].Cells[slotIndex(data.Clock(16, 0))].Tooltip != nil {
		t.Fatalf("pending appointment should not have a tooltip")
	}
}

func TestBuildFirstOverlapWins(t *testing.T) {
	apts := []data.Appointment{
		appointment("1", data.StatusOpen, data.Clock(14, 0), data.Clock(15, 0)),
		appointment("2", data.StatusClosed, data.Clock(14, 0), data.Clock(14, 30)),
	}
	g := testBuilder().Build(student, testDay, []data.Professor{ada}, apts)
	if id := g.Rows[0].Cells[slotIndex(data.Clock(14, 0))].Appointment.AppointmentID; id != "1" {
		t.Fatalf("expected the first appointment got %s", id)
	}
}

func TestScrollIndex(t *testing.T) {
	g := testBuilder().Build(student, testDay, []data.Professor{ada}, nil)
	if g.ScrollIndex != 24 || g.ScrollOffset() != 24*ColumnWidth {
		t.Fatalf("expected to scroll to noon got index %d", g.ScrollIndex)
	}

	late := Builder{Policy: testPolicy(), Now: func() time.Time {
		return time.Date(2026, time.October, 18, 23, 45, 0, 0, time.UTC)
	}}
	g = late.Build(student, testDay, []data.Professor{ada}, nil)
	if g.ScrollIndex != -1 || g.ScrollOffset() != 0 {
		t.Fatalf("expected no scroll target late at night got %d", g.ScrollIndex)
	}
}

func TestUpcoming(t *testing.T) {
	other := appointment("9", data.StatusOpen, data.Clock(18, 0), data.Clock(18, 30))
	other.ProfessorID = "2"
	apts := []data.Appointment{
		appointment("1", data.StatusClosed, data.Clock(16, 0), data.Clock(16, 30)),
		appointment("2", data.StatusOpen, data.Clock(13, 0), data.Clock(13, 30)),
		appointment("3", data.StatusNotAvailable, data.Clock(14, 0), data.Clock(14, 30)),
		appointment("4", data.StatusPending, data.Clock(9, 0), data.Clock(9, 30)),
		other,
	}
	upcoming := Upcoming(ada.MemberID, apts, testNow, time.UTC)
	if len(upcoming) != 2 {
		t.Fatalf("expected 2 upcoming bookings got %d", len(upcoming))
	}
	if upcoming[0].AppointmentID != "2" || upcoming[1].AppointmentID != "1" {
		t.Fatalf("upcoming bookings should be sorted by start got %+v", upcoming)
	}
}
