package components

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/Pjt727/bookcs/data"
	"github.com/Pjt727/bookcs/grid"
	"github.com/Pjt727/bookcs/server/htmltest"
	"github.com/a-h/templ"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("could not render %v", err)
	}
	return buf.String()
}

func TestNotificationEscapes(t *testing.T) {
	out := render(t, Notification(NotifyError, `<script>alert("x")</script>`))
	if strings.Contains(out, "<script>") {
		t.Fatalf("message should be escaped got %q", out)
	}
	doc := htmltest.Parse(t, strings.NewReader(out))
	n := htmltest.Find(doc, htmltest.ByClass("notification"))
	if n == nil || !htmltest.HasClass(n, "error") || htmltest.Text(n) != `<script>alert("x")</script>` {
		t.Fatalf("unexpected notification %q", out)
	}
}

func TestNavbarSanitizesLinks(t *testing.T) {
	out := render(t, Navbar(Nav{
		LoggedIn:   true,
		FirstName:  "Ada",
		HomeURL:    "javascript:alert(1)",
		HistoryURL: "https://bookcs.example/pages/history.html",
		LogoutURL:  "/logout",
	}))
	if strings.Contains(out, "javascript:") {
		t.Fatalf("unsafe url should be replaced got %q", out)
	}
	doc := htmltest.Parse(t, strings.NewReader(out))
	greeting := htmltest.Find(doc, htmltest.ByClass("greeting"))
	if greeting == nil || htmltest.Text(greeting) != "Hi, Ada" {
		t.Fatalf("expected the greeting got %q", out)
	}
}

func TestPageWrapsBody(t *testing.T) {
	out := render(t, Page(PageData{Title: "Ada's Availability"}, Login()))
	doc := htmltest.Parse(t, strings.NewReader(out))
	title := htmltest.Find(doc, htmltest.ByTag("title"))
	if title == nil || htmltest.Text(title) != "Ada's Availability" {
		t.Fatalf("unexpected title in %q", out)
	}
	main := htmltest.Find(doc, htmltest.ByTag("main"))
	if main == nil || htmltest.Find(main, htmltest.ByID("loginForm")) == nil {
		t.Fatalf("body should be inside main")
	}
	if htmltest.Find(doc, htmltest.ByID("notice")) == nil || htmltest.Find(doc, htmltest.ByID("floating-tooltip")) == nil {
		t.Fatalf("layout is missing the notice or tooltip containers")
	}
}

func TestGridCells(t *testing.T) {
	day := data.Date{Year: 2026, Month: 10, Day: 18}
	target := grid.Target{ProfessorID: "1", Status: data.StatusAvailable, Date: day, Start: data.Clock(14, 0)}
	g := grid.Grid{
		Date:  day,
		Slots: []grid.TimeSlot{{Value: data.Clock(14, 0), Display: "02:00 PM"}, {Value: data.Clock(14, 30), Display: "02:30 PM"}},
		Rows: []grid.Row{{
			Professor: data.Professor{MemberID: "1", FirstName: "Ada", LastName: "Lovelace"},
			Cells: []grid.Cell{
				{Class: grid.ClassAvailable, Clickable: true, Target: target},
				{Class: grid.ClassClosed, Tooltip: &grid.Tooltip{Meeting: "Thesis & tea", Time: "02:30 PM - 03:00 PM", Date: "Sun, Oct 18"}},
			},
		}},
		ScrollIndex: 1,
	}
	doc := htmltest.Parse(t, strings.NewReader(render(t, Grid(g))))

	blocks := htmltest.FindAll(doc, htmltest.ByClass("time-block"))
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks got %d", len(blocks))
	}
	if blocks[0].Data != "a" || htmltest.Attr(blocks[0], "href") != SlotURL(target) || htmltest.Attr(blocks[0], "hx-get") != SlotURL(target) {
		t.Fatalf("clickable block should link to the slot got %s %q", blocks[0].Data, htmltest.Attr(blocks[0], "href"))
	}
	if blocks[1].Data != "div" || htmltest.Attr(blocks[1], "data-tooltip-meeting") != "Thesis & tea" {
		t.Fatalf("inert block should carry its tooltip got %s %q", blocks[1].Data, htmltest.Attr(blocks[1], "data-tooltip-meeting"))
	}
	scroller := htmltest.Find(doc, htmltest.ByClass("grid-scroll"))
	if htmltest.Attr(scroller, "data-scroll-offset") != "105" {
		t.Fatalf("unexpected scroll offset %q", htmltest.Attr(scroller, "data-scroll-offset"))
	}
	name := htmltest.Find(doc, htmltest.ByClass("professor-name"))
	link := htmltest.Find(name, htmltest.ByTag("a"))
	if link == nil || htmltest.Attr(link, "href") != "/?prof=1" || htmltest.Text(link) != "Ada Lovelace" {
		t.Fatalf("professor name should link to their view")
	}
}

func TestLogLineKeepsHtml(t *testing.T) {
	out := render(t, LogLine(`<span style="color:red">ERROR</span> boom`))
	if out != `<div class="log-line"><span style="color:red">ERROR</span> boom</div>` {
		t.Fatalf("unexpected log line %q", out)
	}
}

func TestPendingListEmpty(t *testing.T) {
	doc := htmltest.Parse(t, strings.NewReader(render(t, PendingList(PendingData{}))))
	empty := htmltest.Find(doc, htmltest.ByClass("no-appointments"))
	if empty == nil || htmltest.Text(empty) != "No pending appointments" {
		t.Fatalf("expected the empty message")
	}
}
