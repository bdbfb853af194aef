package components

import (
	"net/url"
	"strings"

	"github.com/Pjt727/bookcs/data"
	"github.com/Pjt727/bookcs/grid"
	"github.com/a-h/templ"
)

// a newer navigation replaces the one in flight
const dateNavSync = "#date-nav:replace"

type DayLink struct {
	PageURL string
	GridURL string
}

type Booking struct {
	Date        string
	Time        string
	Meeting     string
	Status      string
	StatusLabel string
}

func BookingsFrom(appointments []data.Appointment) []Booking {
	bookings := make([]Booking, len(appointments))
	for i, a := range appointments {
		meeting := a.MeetingName
		if meeting == "" {
			meeting = "Untitled Meeting"
		}
		bookings[i] = Booking{
			Date:        grid.ShortDate(a.Date),
			Time:        grid.TimeRange(a.StartTime, a.EndTime),
			Meeting:     meeting,
			Status:      string(a.Status),
			StatusLabel: capitalize(string(a.Status)),
		}
	}
	return bookings
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type ScheduleData struct {
	Heading     string
	Date        data.Date
	DateLabel   string
	Prev        DayLink
	Next        DayLink
	MinDate     data.Date
	MaxDate     data.Date
	ProfessorID data.ID
	// Message replaces the grid when set
	Message      string
	Grid         grid.Grid
	ShowBookings bool
	Bookings     []Booking
}

func SlotURL(t grid.Target) string {
	return "/slot?" + t.Query().Encode()
}

func ProfessorURL(id data.ID) string {
	return "/?" + url.Values{"prof": {id.String()}}.Encode()
}

// Schedule is both the page body and the fragment swapped in by date
// navigation, so it carries its own #schedule target.
func Schedule(schedule ScheduleData) templ.Component {
	return component(func(m *markup) {
		m.raw(`<section id="schedule" class="schedule">`)
		if schedule.Heading != "" {
			m.raw(`<h1 class="professor-availability-header">`)
			m.text(schedule.Heading)
			m.raw(`</h1>`)
		}

		m.raw(`<div id="date-nav" class="date-nav">`)
		dayButton(m, schedule.Prev, "&larr; Previous day")
		m.raw(`<h2 id="currentDate">`)
		m.text(schedule.DateLabel)
		m.raw(`</h2>`)
		dayButton(m, schedule.Next, "Next day &rarr;")

		m.raw(`<form class="date-picker" action="/" method="get" hx-get="/grid" hx-target="#schedule" hx-swap="outerHTML" hx-push-url="true"`)
		m.attr("hx-sync", dateNavSync)
		m.raw(`><input id="datePicker" type="date" name="date"`)
		m.attr("value", schedule.Date.String())
		m.attr("min", schedule.MinDate.String())
		m.attr("max", schedule.MaxDate.String())
		m.raw(`>`)
		if schedule.ProfessorID != "" {
			m.raw(`<input type="hidden" name="prof"`)
			m.attr("value", schedule.ProfessorID.String())
			m.raw(`>`)
		}
		m.raw(`<button id="goToDate" type="submit">Go to date</button></form></div>`)

		m.raw(`<div id="appointmentGrid" class="appointment-grid">`)
		if schedule.Message != "" {
			m.raw(`<p class="grid-message">`)
			m.text(schedule.Message)
			m.raw(`</p>`)
		} else {
			m.child(Grid(schedule.Grid))
		}
		m.raw(`</div>`)

		if schedule.ShowBookings {
			bookings(m, schedule.Bookings)
		}
		m.raw(`</section>`)
	})
}

// label is trusted markup
func dayButton(m *markup, link DayLink, label string) {
	m.raw(`<a class="day-button"`)
	m.url("href", link.PageURL)
	m.url("hx-get", link.GridURL)
	m.raw(` hx-target="#schedule" hx-swap="outerHTML"`)
	m.url("hx-push-url", link.PageURL)
	m.attr("hx-sync", dateNavSync)
	m.raw(`>` + label + `</a>`)
}

func bookings(m *markup, list []Booking) {
	m.raw(`<div class="bookings"><h2>Upcoming bookings</h2><div id="bookingsList">`)
	for _, b := range list {
		m.raw(`<div class="booking-card"><div><strong>`)
		m.text(b.Date)
		m.raw(`</strong><br>`)
		m.text(b.Time)
		m.raw(`</div><div><strong>Meeting:</strong> `)
		m.text(b.Meeting)
		m.raw(`</div><div`)
		m.attr("class", "booking-status "+b.Status)
		m.raw(`>`)
		m.text(b.StatusLabel)
		m.raw(`</div></div>`)
	}
	if len(list) == 0 {
		m.raw(`<div class="no-bookings">No upcoming bookings</div>`)
	}
	m.raw(`</div></div>`)
}

func Grid(g grid.Grid) templ.Component {
	return component(func(m *markup) {
		m.raw(`<div class="grid-scroll"`)
		m.intAttr("data-scroll-offset", g.ScrollOffset())
		m.raw(`><table class="grid-table"><tr><th class="professor-header">Professor</th>`)
		for _, slot := range g.Slots {
			m.raw(`<th class="slot-header">`)
			m.text(slot.Display)
			m.raw(`</th>`)
		}
		m.raw(`</tr>`)

		for _, row := range g.Rows {
			m.raw(`<tr><td class="professor-name"><a`)
			m.url("href", ProfessorURL(row.Professor.MemberID))
			m.raw(`>`)
			m.text(row.Professor.Name())
			m.raw(`</a></td>`)
			for _, cell := range row.Cells {
				m.raw(`<td>`)
				gridCell(m, cell)
				m.raw(`</td>`)
			}
			m.raw(`</tr>`)
		}
		m.raw(`</table></div>`)
	})
}

func gridCell(m *markup, cell grid.Cell) {
	tag := "div"
	if cell.Clickable {
		tag = "a"
	}
	m.raw(`<` + tag)
	m.attr("class", cell.Classes())
	if cell.Clickable {
		slotURL := SlotURL(cell.Target)
		m.url("href", slotURL)
		m.url("hx-get", slotURL)
		m.raw(` hx-target="#notice"`)
	}
	if tip := cell.Tooltip; tip != nil {
		m.attr("data-tooltip-meeting", tip.Meeting)
		m.attr("data-tooltip-time", tip.Time)
		m.attr("data-tooltip-date", tip.Date)
	}
	m.raw(`></` + tag + `>`)
}
