package grid

import (
	"strings"
	"time"

	"github.com/Pjt727/bookcs/data"
)

// ColumnWidth is the rendered width of a slot column in pixels, used to
// scroll the current time into view
const ColumnWidth = 105

type Class string

const (
	ClassMuted     Class = "dark-grey"
	ClassElapsed   Class = "light-grey"
	ClassPending   Class = "yellow"
	ClassOpen      Class = "green"
	ClassClosed    Class = "red"
	ClassNeutral   Class = "white"
	ClassAvailable Class = "white"
)

type Tooltip struct {
	Meeting string
	Time    string
	Date    string
}

type Cell struct {
	Slot        TimeSlot
	Class       Class
	RunStart    bool
	RunEnd      bool
	Appointment *data.Appointment
	Target      Target
	Clickable   bool
	Tooltip     *Tooltip
}

// Classes is the css class list of the cell's block
func (c Cell) Classes() string {
	classes := []string{"time-block", string(c.Class)}
	if c.RunEnd {
		classes = append(classes, "meeting-end")
	}
	if c.RunStart {
		classes = append(classes, "meeting-start")
	}
	if c.Clickable {
		classes = append(classes, "clickable")
	}
	return strings.Join(classes, " ")
}

type Row struct {
	Professor data.Professor
	Cells     []Cell
}

// Grid is the view model of one day of professor availability
type Grid struct {
	Date  data.Date
	Slots []TimeSlot
	Rows  []Row
	// first slot at or after the current time of day, -1 when the day is over
	ScrollIndex int
}

func (g Grid) ScrollOffset() int {
	if g.ScrollIndex < 0 {
		return 0
	}
	return g.ScrollIndex * ColumnWidth
}

func (g Grid) IsEmpty() bool {
	return len(g.Rows) == 0
}

type Builder struct {
	Policy Policy
	// defaults to time.Now
	Now func() time.Time
}

func (b Builder) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

// Build lays the appointments of date over the slot lattice, one row per
// professor in the given order. The whole grid is recomputed on every call.
func (b Builder) Build(
	session data.Session,
	date data.Date,
	professors []data.Professor,
	appointments []data.Appointment,
) Grid {
	now := b.now().In(b.Policy.TimeZone())
	slots := TimeSlots()

	byProfessor := make(map[data.ID][]data.Appointment)
	for _, apt := range appointments {
		byProfessor[apt.ProfessorID] = append(byProfessor[apt.ProfessorID], apt)
	}

	rows := make([]Row, 0, len(professors))
	for _, professor := range professors {
		rows = append(rows, b.buildRow(session, date, professor, byProfessor[professor.MemberID], slots, now))
	}

	return Grid{
		Date:        date,
		Slots:       slots,
		Rows:        rows,
		ScrollIndex: scrollIndex(slots, now),
	}
}

func (b Builder) buildRow(
	session data.Session,
	date data.Date,
	professor data.Professor,
	appointments []data.Appointment,
	slots []TimeSlot,
	now time.Time,
) Row {
	loc := b.Policy.TimeZone()

	// the first covering appointment wins when several overlap
	covering := make([]*data.Appointment, len(slots))
	for i, slot := range slots {
		covering[i] = findAppointment(appointments, slot.Value)
	}

	cells := make([]Cell, len(slots))
	for i, slot := range slots {
		cell := Cell{Slot: slot}
		apt := covering[i]

		switch {
		case !IsWithinBusinessHours(slot.Value):
			cell.Class = ClassMuted

		case apt != nil:
			cell.Appointment = apt
			cell.Class = blockClass(*apt, now, loc)
			cell.RunStart = i == 0 || covering[i-1] == nil || covering[i-1].AppointmentID != apt.AppointmentID
			cell.RunEnd = i == len(slots)-1 || covering[i+1] == nil || covering[i+1].AppointmentID != apt.AppointmentID
			cell.Tooltip = tooltipFor(*apt)
			cell.Target = Target{
				ProfessorID:   professor.MemberID,
				ProfessorName: professor.Name(),
				AppointmentID: apt.AppointmentID,
				Status:        apt.Status,
				Date:          apt.Date,
				Start:         apt.StartTime,
			}
			cell.Clickable = b.Policy.Clickable(session, cell.Target, now)

		case slot.Value.On(date, loc).Before(now):
			cell.Class = ClassMuted

		default:
			cell.Class = ClassAvailable
			cell.Target = Target{
				ProfessorID:   professor.MemberID,
				ProfessorName: professor.Name(),
				Status:        data.StatusAvailable,
				Date:          date,
				Start:         slot.Value,
			}
			cell.Clickable = b.Policy.Clickable(session, cell.Target, now)
		}
		cells[i] = cell
	}

	return Row{Professor: professor, Cells: cells}
}

func findAppointment(appointments []data.Appointment, t data.ClockTime) *data.Appointment {
	for i := range appointments {
		if appointments[i].Covers(t) {
			return &appointments[i]
		}
	}
	return nil
}

// elapsed appointments are greyed out whatever their status
func blockClass(apt data.Appointment, now time.Time, loc *time.Location) Class {
	if apt.StartsAt(loc).Before(now) {
		return ClassElapsed
	}
	switch apt.Status {
	case data.StatusPending:
		return ClassPending
	case data.StatusOpen:
		return ClassOpen
	case data.StatusClosed:
		return ClassClosed
	case data.StatusNotAvailable:
		return ClassMuted
	default:
		return ClassNeutral
	}
}

func tooltipFor(apt data.Appointment) *Tooltip {
	switch apt.Status {
	case data.StatusOpen, data.StatusClosed, data.StatusPast:
	default:
		return nil
	}
	return &Tooltip{
		Meeting: apt.MeetingName,
		Time:    TimeRange(apt.StartTime, apt.EndTime),
		Date:    ShortDate(apt.Date),
	}
}

func scrollIndex(slots []TimeSlot, now time.Time) int {
	current := data.Clock(now.Hour(), now.Minute())
	for i, slot := range slots {
		if slot.Value >= current {
			return i
		}
	}
	return -1
}
