package bookingapi_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/Pjt727/bookcs/bookingapi"
	"github.com/Pjt727/bookcs/bookingapi/mockapi"
	"github.com/Pjt727/bookcs/data"
)

var testDay = data.Date{Year: 2026, Month: time.October, Day: 18}

func setup(t *testing.T) (*mockapi.Server, *bookingapi.Client) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := mockapi.NewMockServer(ctx, logger)
	server.Seed(testDay)

	client := bookingapi.New(bookingapi.Options{
		BaseURL: server.URL,
		Logger:  logger,
	})
	return server, client
}

func TestSessionAnonymous(t *testing.T) {
	_, client := setup(t)
	session, err := client.Session(context.Background(), nil)
	if err != nil {
		t.Fatalf("session check failed %v", err)
	}
	if session != data.Anonymous() {
		t.Fatalf("expected anonymous session got %+v", session)
	}
}

func TestSessionLoggedIn(t *testing.T) {
	server, client := setup(t)
	cookie := server.SessionFor("ada@bookcs.test")
	session, err := client.Session(context.Background(), []*http.Cookie{cookie})
	if err != nil {
		t.Fatalf("session check failed %v", err)
	}
	expected := data.Session{LoggedIn: true, Role: data.RoleProfessor, MemberID: "1", FirstName: "Ada"}
	if session != expected {
		t.Fatalf("expected %+v got %+v", expected, session)
	}
}

func TestDay(t *testing.T) {
	_, client := setup(t)
	day, err := client.Day(context.Background(), nil, testDay, "")
	if err != nil {
		t.Fatalf("could not fetch day %v", err)
	}
	if len(day.Professors) != 3 {
		t.Fatalf("expected 3 professors got %d", len(day.Professors))
	}
	if len(day.Appointments) != 7 {
		t.Fatalf("expected 7 appointments got %d", len(day.Appointments))
	}
	for _, a := range day.Appointments {
		if a.Date != testDay {
			t.Fatalf("appointment from another day %+v", a)
		}
	}
}

func TestDayProfessorFilter(t *testing.T) {
	_, client := setup(t)
	day, err := client.Day(context.Background(), nil, testDay, "2")
	if err != nil {
		t.Fatalf("could not fetch day %v", err)
	}
	for _, a := range day.Appointments {
		if a.ProfessorID != "2" {
			t.Fatalf("expected only professor 2 got %+v", a)
		}
	}

	_, err = client.Day(context.Background(), nil, testDay, "404")
	if !errors.Is(err, bookingapi.ErrProfessorNotFound) {
		t.Fatalf("expected professor not found got %v", err)
	}
	if errors.Is(err, bookingapi.ErrRequestFailed) {
		t.Fatalf("not found should be distinct from a failed request")
	}
}

func TestDayFailures(t *testing.T) {
	server, client := setup(t)
	server.Fail(bookingapi.DefaultEndpoints().Day, "database is down")

	_, err := client.Day(context.Background(), nil, testDay, "")
	if !errors.Is(err, bookingapi.ErrRequestFailed) {
		t.Fatalf("expected a failed request got %v", err)
	}
	if msg := bookingapi.MessageOr(err, "fallback"); msg != "database is down" {
		t.Fatalf("expected the api message got %q", msg)
	}

	server.Close()
	_, err = client.Day(context.Background(), nil, testDay, "")
	if !errors.Is(err, bookingapi.ErrTemporaryNetworkFailure) {
		t.Fatalf("expected a network failure got %v", err)
	}
}

func TestStatusErrorIsNetworkFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := bookingapi.New(bookingapi.Options{BaseURL: ts.URL})
	_, err := client.Day(context.Background(), nil, testDay, "")
	if !errors.Is(err, bookingapi.ErrTemporaryNetworkFailure) {
		t.Fatalf("expected a network failure got %v", err)
	}
}

func TestPendingLoginRequired(t *testing.T) {
	_, client := setup(t)
	_, err := client.Pending(context.Background(), nil)
	if !errors.Is(err, bookingapi.ErrLoginRequired) {
		t.Fatalf("expected login required got %v", err)
	}
}

func TestPendingAcceptAndReject(t *testing.T) {
	server, client := setup(t)
	cookies := []*http.Cookie{server.SessionFor("ada@bookcs.test")}
	ctx := context.Background()

	pending, err := client.Pending(ctx, cookies)
	if err != nil {
		t.Fatalf("could not list pending %v", err)
	}
	if len(pending) != 9 {
		t.Fatalf("expected one pending request per seeded day got %d", len(pending))
	}
	if pending[0].StudentName() != "Sam Student" {
		t.Fatalf("unexpected student %q", pending[0].StudentName())
	}

	msg, err := client.ManagePending(ctx, cookies, pending[0].AppointmentID, bookingapi.Accept)
	if err != nil {
		t.Fatalf("could not accept %v", err)
	}
	if msg != "Request accepted." {
		t.Fatalf("unexpected message %q", msg)
	}
	accepted, _ := server.Appointment(pending[0].AppointmentID)
	if accepted.Status != data.StatusClosed {
		t.Fatalf("accepted request should be closed got %s", accepted.Status)
	}

	if _, err := client.ManagePending(ctx, cookies, pending[1].AppointmentID, bookingapi.Reject); err != nil {
		t.Fatalf("could not reject %v", err)
	}

	after, err := client.Pending(ctx, cookies)
	if err != nil {
		t.Fatalf("could not list pending %v", err)
	}
	if len(after) != len(pending)-2 {
		t.Fatalf("expected %d pending got %d", len(pending)-2, len(after))
	}

	_, err = client.ManagePending(ctx, cookies, pending[0].AppointmentID, bookingapi.Accept)
	if !errors.Is(err, bookingapi.ErrRequestFailed) {
		t.Fatalf("accepting twice should fail got %v", err)
	}
}

func TestLoginAndLogout(t *testing.T) {
	_, client := setup(t)
	ctx := context.Background()

	_, err := client.Login(ctx, nil, url.Values{"email": {"sam@bookcs.test"}, "password": {"nope"}})
	if !errors.Is(err, bookingapi.ErrRequestFailed) {
		t.Fatalf("expected failed login got %v", err)
	}

	result, err := client.Login(ctx, nil, url.Values{"email": {"sam@bookcs.test"}, "password": {"password"}})
	if err != nil {
		t.Fatalf("could not log in %v", err)
	}
	if result.Redirect != "/" || len(result.Cookies) == 0 {
		t.Fatalf("unexpected login result %+v", result)
	}

	session, err := client.Session(ctx, result.Cookies)
	if err != nil || !session.LoggedIn || session.Role != data.RoleStudent {
		t.Fatalf("expected a student session got %+v %v", session, err)
	}

	cleared, err := client.Logout(ctx, result.Cookies)
	if err != nil {
		t.Fatalf("could not log out %v", err)
	}
	if len(cleared) == 0 || cleared[0].MaxAge >= 0 {
		t.Fatalf("expected the session cookie to be cleared got %+v", cleared)
	}
	session, _ = client.Session(ctx, result.Cookies)
	if session.LoggedIn {
		t.Fatalf("session should be gone after logout")
	}
}

func TestRegister(t *testing.T) {
	_, client := setup(t)
	result, err := client.Register(context.Background(), nil, url.Values{
		"first_name": {"Barbara"},
		"last_name":  {"Liskov"},
		"email":      {"barbara@bookcs.test"},
		"password":   {"password"},
		"role":       {"professor"},
	})
	if err != nil {
		t.Fatalf("could not register %v", err)
	}
	if result.Redirect != "/pages/prof-dashboard.html" {
		t.Fatalf("professors should land on the dashboard got %q", result.Redirect)
	}

	day, err := client.Day(context.Background(), nil, testDay, "")
	if err != nil {
		t.Fatalf("could not fetch day %v", err)
	}
	if len(day.Professors) != 4 {
		t.Fatalf("new professor should be listed got %d professors", len(day.Professors))
	}
}

func TestMalformedResponseIsTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer ts.Close()

	client := bookingapi.New(bookingapi.Options{BaseURL: ts.URL})
	_, err := client.Day(context.Background(), nil, testDay, "")
	if !errors.Is(err, bookingapi.ErrMalformedResponse) {
		t.Fatalf("expected a malformed response got %v", err)
	}
	if !bookingapi.IsTransportError(err) || errors.Is(err, bookingapi.ErrRequestFailed) {
		t.Fatalf("a malformed response should be a transport error got %v", err)
	}
}
