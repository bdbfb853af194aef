package serverschedule

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/Pjt727/bookcs/bookingapi"
	"github.com/Pjt727/bookcs/data"
	"github.com/Pjt727/bookcs/grid"
	"github.com/Pjt727/bookcs/server/components"
	serversession "github.com/Pjt727/bookcs/server/session"
	"github.com/a-h/templ"
	"golang.org/x/sync/errgroup"
)

const (
	defaultTitle = "BookCS | Appointments"

	msgLoadError      = "Error loading appointments."
	msgLoadFailed     = "Failed to load appointments."
	msgNoProfessor    = "Professor not found."
	msgNoProfessors   = "No professors available."
	pickerMonthsBack  = 1
	pickerMonthsAhead = 6
)

type scheduleHandler struct {
	client  *bookingapi.Client
	policy  grid.Policy
	builder grid.Builder
	now     func() time.Time
	logger  *slog.Logger
}

func newScheduleHandler(opts Options) *scheduleHandler {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &scheduleHandler{
		client:  opts.Client,
		policy:  opts.Policy,
		builder: grid.Builder{Policy: opts.Policy, Now: now},
		now:     now,
		logger:  logger,
	}
}

type scheduleQuery struct {
	date        data.Date
	professorID data.ID
}

func (h *scheduleHandler) today() data.Date {
	return data.DateOf(h.now().In(h.policy.TimeZone()))
}

func (h *scheduleHandler) parseQuery(r *http.Request) (scheduleQuery, error) {
	q := r.URL.Query()
	query := scheduleQuery{
		date:        h.today(),
		professorID: data.ID(q.Get("prof")),
	}
	if raw := q.Get("date"); raw != "" {
		date, err := data.ParseDate(raw)
		if err != nil {
			return query, err
		}
		query.date = date
	}
	return query, nil
}

func dayLink(date data.Date, professorID data.ID) components.DayLink {
	v := url.Values{}
	v.Set("date", date.String())
	if professorID != "" {
		v.Set("prof", professorID.String())
	}
	return components.DayLink{
		PageURL: "/?" + v.Encode(),
		GridURL: "/grid?" + v.Encode(),
	}
}

type scheduleView struct {
	session  data.Session
	title    string
	schedule components.ScheduleData
}

// load fetches the session and the day at the same time and turns them into
// the view. A failed day becomes the message shown in place of the grid.
func (h *scheduleHandler) load(r *http.Request, query scheduleQuery) scheduleView {
	ctx := r.Context()
	var (
		g       errgroup.Group
		session data.Session
		day     data.DaySchedule
	)
	g.Go(func() error {
		session = serversession.Load(ctx, h.client, r, h.logger)
		return nil
	})
	g.Go(func() error {
		var err error
		day, err = h.client.Day(ctx, r.Cookies(), query.date, query.professorID)
		return err
	})
	dayErr := g.Wait()

	today := h.today()
	view := scheduleView{
		session: session,
		title:   defaultTitle,
		schedule: components.ScheduleData{
			Date:        query.date,
			DateLabel:   grid.LongDate(query.date),
			Prev:        dayLink(query.date.AddDays(-1), query.professorID),
			Next:        dayLink(query.date.AddDays(1), query.professorID),
			MinDate:     today.AddMonths(-pickerMonthsBack),
			MaxDate:     today.AddMonths(pickerMonthsAhead),
			ProfessorID: query.professorID,
		},
	}

	switch {
	case errors.Is(dayErr, bookingapi.ErrProfessorNotFound):
		h.logger.InfoContext(ctx, "Unknown professor requested", "professor", query.professorID)
		view.schedule.Message = msgNoProfessor
		return view
	case bookingapi.IsTransportError(dayErr):
		h.logger.ErrorContext(ctx, "Could not reach the booking api", "err", dayErr)
		view.schedule.Message = msgLoadError
		return view
	case dayErr != nil:
		h.logger.WarnContext(ctx, "Booking api refused the day", "date", query.date, "err", dayErr)
		view.schedule.Message = msgLoadFailed
		return view
	}

	professors := day.Professors
	if query.professorID != "" {
		professor, _ := day.Professor(query.professorID)
		professors = []data.Professor{professor}
		view.title = professor.Name() + "'s Availability"
		view.schedule.Heading = professor.Name() + "'s Available Appointments"
		view.schedule.ShowBookings = true
		upcoming := grid.Upcoming(professor.MemberID, day.Appointments, h.now(), h.policy.TimeZone())
		view.schedule.Bookings = components.BookingsFrom(upcoming)
	}
	view.schedule.Grid = h.builder.Build(session, query.date, professors, day.Appointments)
	if view.schedule.Grid.IsEmpty() {
		view.schedule.Message = msgNoProfessors
	}
	return view
}

func (h *scheduleHandler) render(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		h.logger.ErrorContext(r.Context(), "Could not render schedule", "err", err)
		http.Error(w, http.StatusText(500), 500)
	}
}

func (h *scheduleHandler) page(session data.Session, title string, body templ.Component) templ.Component {
	return components.Page(components.PageData{
		Title: title,
		Nav:   components.NavFor(session, h.policy.Pages),
	}, body)
}

func (h *scheduleHandler) index(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseQuery(r)
	if err != nil {
		http.Error(w, "Invalid date", http.StatusBadRequest)
		return
	}
	view := h.load(r, query)
	h.render(w, r, h.page(view.session, view.title, components.Schedule(view.schedule)))
}

// gridFragment is the schedule section alone for htmx date navigation
func (h *scheduleHandler) gridFragment(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseQuery(r)
	if err != nil {
		http.Error(w, "Invalid date", http.StatusBadRequest)
		return
	}
	view := h.load(r, query)
	h.render(w, r, components.Schedule(view.schedule))
}

// slot decides a click again with the current session and time, the grid may
// have been rendered long ago
func (h *scheduleHandler) slot(w http.ResponseWriter, r *http.Request) {
	target, err := grid.TargetFromQuery(r.URL.Query())
	if err != nil {
		http.Error(w, "Invalid slot", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	session := serversession.Load(ctx, h.client, r, h.logger)
	action := h.policy.Decide(session, target, h.now())
	backURL := dayLink(target.Date, "").PageURL

	switch action.Kind {
	case grid.ActionNavigate:
		h.logger.InfoContext(ctx, "Slot click", "professor", target.ProfessorID, "status", target.Status, "to", action.URL)
		serversession.Redirect(w, r, action.URL)
	case grid.ActionReject:
		if serversession.IsHtmx(r) {
			h.render(w, r, components.Notification(components.NotifyError, action.Notice))
			return
		}
		h.render(w, r, h.page(session, defaultTitle, components.NoticePage(components.NotifyError, action.Notice, backURL)))
	default:
		if serversession.IsHtmx(r) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Redirect(w, r, backURL, http.StatusSeeOther)
	}
}
