package grid

import (
	"net/url"
	"strings"
	"time"

	"github.com/Pjt727/bookcs/data"
)

const (
	NoticeProfessorsCannotBook = "Professors cannot book appointments."
	NoticePastRequest          = "Cannot request meetings in the past."
	NoticeCannotBook           = "This slot cannot be booked."
)

// Pages are where a slot click can send the user
type Pages struct {
	Home               string
	History            string
	ProfessorHistory   string
	ProfessorDashboard string
	CreateMeeting      string
	PendingRequests    string
	RequestAlternate   string
	BookMeeting        string
	Login              string
}

// DefaultPages points the static pages at siteURL and keeps the pages this
// server renders itself relative
func DefaultPages(siteURL string) Pages {
	base := strings.TrimRight(siteURL, "/") + "/pages/"
	return Pages{
		Home:               "/",
		History:            base + "history.html",
		ProfessorHistory:   base + "prof-history.html",
		ProfessorDashboard: base + "prof-dashboard.html",
		CreateMeeting:      base + "create-meeting.html",
		PendingRequests:    "/pending",
		RequestAlternate:   base + "request-alternate.html",
		BookMeeting:        base + "book-meeting.html",
		Login:              "/login",
	}
}

// HistoryFor is the "My History" link of the navbar
func (p Pages) HistoryFor(role data.Role) string {
	if role == data.RoleProfessor {
		return p.ProfessorHistory
	}
	return p.History
}

func (p Pages) HomeFor(role data.Role) string {
	if role == data.RoleProfessor {
		return p.ProfessorDashboard
	}
	return p.Home
}

// Target is what a click on a slot is about. Empty slots carry the synthetic
// available status and no appointment id.
type Target struct {
	ProfessorID   data.ID
	ProfessorName string
	AppointmentID data.ID
	Status        data.Status
	Date          data.Date
	Start         data.ClockTime
}

func (t Target) StartsAt(loc *time.Location) time.Time {
	return t.Start.On(t.Date, loc)
}

// Query encodes the target for the slot click endpoint
func (t Target) Query() url.Values {
	v := url.Values{}
	v.Set("professor_id", t.ProfessorID.String())
	if t.ProfessorName != "" {
		v.Set("professor_name", t.ProfessorName)
	}
	if t.AppointmentID != "" {
		v.Set("appointment_id", t.AppointmentID.String())
	}
	v.Set("status", string(t.Status))
	v.Set("date", t.Date.String())
	v.Set("time", t.Start.String())
	return v
}

func TargetFromQuery(v url.Values) (Target, error) {
	date, err := data.ParseDate(v.Get("date"))
	if err != nil {
		return Target{}, err
	}
	start, err := data.ParseClock(v.Get("time"))
	if err != nil {
		return Target{}, err
	}
	status := data.Status(v.Get("status"))
	if status == "" {
		status = data.StatusAvailable
	}
	return Target{
		ProfessorID:   data.ID(v.Get("professor_id")),
		ProfessorName: v.Get("professor_name"),
		AppointmentID: data.ID(v.Get("appointment_id")),
		Status:        status,
		Date:          date,
		Start:         start,
	}, nil
}

type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionNavigate
	ActionReject
)

type Action struct {
	Kind   ActionKind
	URL    string
	Notice string
}

func navigate(u string) Action {
	return Action{Kind: ActionNavigate, URL: u}
}

func reject(notice string) Action {
	return Action{Kind: ActionReject, Notice: notice}
}

// Policy decides what the current user may do with a slot. The checks are a
// convenience for the user, the booking api enforces them again.
type Policy struct {
	Pages    Pages
	Location *time.Location
}

func (p Policy) TimeZone() *time.Location {
	if p.Location == nil {
		return time.Local
	}
	return p.Location
}

func (p Policy) isPast(t Target, now time.Time) bool {
	return t.StartsAt(p.TimeZone()).Before(now)
}

// Clickable reports whether a slot gets a click handler at all
func (p Policy) Clickable(s data.Session, t Target, now time.Time) bool {
	if s.IsProfessor() {
		return s.MemberID != "" && t.ProfessorID == s.MemberID
	}
	if p.isPast(t, now) {
		return false
	}
	return t.Status == data.StatusOpen || t.Status == data.StatusAvailable
}

// Decide is the result of clicking a slot
func (p Policy) Decide(s data.Session, t Target, now time.Time) Action {
	if s.IsProfessor() {
		return p.decideProfessor(s, t)
	}
	return p.decideStudent(t, now)
}

func (p Policy) decideProfessor(s data.Session, t Target) Action {
	if s.MemberID == "" || t.ProfessorID != s.MemberID {
		return reject(NoticeProfessorsCannotBook)
	}
	switch t.Status {
	case data.StatusOpen, data.StatusNotAvailable, data.StatusClosed:
		return navigate(p.Pages.ProfessorHistory)
	case data.StatusAvailable:
		return navigate(p.Pages.CreateMeeting)
	case data.StatusPending:
		return navigate(p.Pages.PendingRequests)
	}
	return Action{Kind: ActionNone}
}

func (p Policy) decideStudent(t Target, now time.Time) Action {
	switch t.Status {
	case data.StatusAvailable:
		if p.isPast(t, now) {
			return reject(NoticePastRequest)
		}
		return navigate(p.requestAlternateURL(t))
	case data.StatusOpen:
		v := url.Values{}
		v.Set("appointment_id", t.AppointmentID.String())
		return navigate(withQuery(p.Pages.BookMeeting, v))
	}
	return reject(NoticeCannotBook)
}

// end is wall clock arithmetic, like start
func (p Policy) requestAlternateURL(t Target) string {
	end, endDate := t.Start+SlotLength, t.Date
	if end >= data.EndOfDay {
		end -= data.EndOfDay
		endDate = t.Date.AddDays(1)
	}
	v := url.Values{}
	v.Set("professor_id", t.ProfessorID.String())
	v.Set("professor_name", t.ProfessorName)
	v.Set("date", t.Date.String())
	v.Set("start_time", t.Start.String())
	v.Set("end_time", end.String())
	if endDate != t.Date {
		v.Set("end_date", endDate.String())
	}
	return withQuery(p.Pages.RequestAlternate, v)
}

func withQuery(base string, v url.Values) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + v.Encode()
}
