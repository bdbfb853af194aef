package grid

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Pjt727/bookcs/data"
)

func loadToronto(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Toronto")
	if err != nil {
		t.Skipf("no tz database %v", err)
	}
	return loc
}

func TestRequestAlternateOnSpringForward(t *testing.T) {
	loc := loadToronto(t)
	p := Policy{Pages: DefaultPages("https://bookcs.example"), Location: loc}
	day := data.Date{Year: 2026, Month: time.March, Day: 8}
	now := time.Date(2026, time.March, 8, 8, 0, 0, 0, loc)

	got := p.Decide(student, Target{
		ProfessorID:   "1",
		ProfessorName: "Ada Lovelace",
		Status:        data.StatusAvailable,
		Date:          day,
		Start:         data.Clock(10, 0),
	}, now)
	if got.Kind != ActionNavigate {
		t.Fatalf("expected navigation got %+v", got)
	}
	_, rawQuery, _ := strings.Cut(got.URL, "?")
	q, _ := url.ParseQuery(rawQuery)
	if q.Get("start_time") != "10:00:00" || q.Get("end_time") != "10:30:00" {
		t.Fatalf("expected 10:00:00 - 10:30:00 got %s - %s", q.Get("start_time"), q.Get("end_time"))
	}
	if q.Has("end_date") {
		t.Fatalf("end_date should not be set got %q", q.Get("end_date"))
	}
}

func TestBuildOnFallBack(t *testing.T) {
	loc := loadToronto(t)
	day := data.Date{Year: 2026, Month: time.November, Day: 1}
	b := Builder{
		Policy: Policy{Pages: DefaultPages("https://bookcs.example"), Location: loc},
		Now:    func() time.Time { return time.Date(2026, time.November, 1, 9, 30, 0, 0, loc) },
	}
	open := data.Appointment{
		AppointmentID: "1",
		ProfessorID:   ada.MemberID,
		Date:          day,
		StartTime:     data.Clock(11, 0),
		EndTime:       data.Clock(12, 0),
		Status:        data.StatusOpen,
	}
	g := b.Build(student, day, []data.Professor{ada}, []data.Appointment{open})
	cells := g.Rows[0].Cells

	if cell := cells[slotIndex(data.Clock(9, 0))]; cell.Class != ClassMuted || cell.Clickable {
		t.Fatalf("09:00 has passed got class=%s clickable=%v", cell.Class, cell.Clickable)
	}
	if cell := cells[slotIndex(data.Clock(10, 0))]; cell.Class != ClassAvailable || !cell.Clickable {
		t.Fatalf("10:00 is still ahead got class=%s clickable=%v", cell.Class, cell.Clickable)
	}
	if cell := cells[slotIndex(data.Clock(11, 0))]; cell.Class != ClassOpen || !cell.Clickable {
		t.Fatalf("11:00 is still ahead got class=%s clickable=%v", cell.Class, cell.Clickable)
	}
	if g.ScrollIndex != slotIndex(data.Clock(9, 30)) {
		t.Fatalf("expected to scroll to 09:30 got index %d", g.ScrollIndex)
	}
}

func TestUpcomingOnFallBack(t *testing.T) {
	loc := loadToronto(t)
	day := data.Date{Year: 2026, Month: time.November, Day: 1}
	now := time.Date(2026, time.November, 1, 9, 30, 0, 0, loc)
	apt := data.Appointment{
		AppointmentID: "1",
		ProfessorID:   ada.MemberID,
		Date:          day,
		StartTime:     data.Clock(10, 0),
		EndTime:       data.Clock(10, 30),
		Status:        data.StatusClosed,
	}
	if got := Upcoming(ada.MemberID, []data.Appointment{apt}, now, loc); len(got) != 1 {
		t.Fatalf("10:00 should still be upcoming got %+v", got)
	}
}
