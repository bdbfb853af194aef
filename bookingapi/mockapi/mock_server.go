// Package mockapi is an in memory stand in for the booking api. It backs the
// tests and `bookcs app serve --mock`.
package mockapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/Pjt727/bookcs/bookingapi"
	"github.com/Pjt727/bookcs/data"
	"github.com/google/uuid"
)

const SessionCookie = "PHPSESSID"

type user struct {
	email     string
	password  string
	role      data.Role
	memberID  data.ID
	firstName string
	lastName  string
}

type request struct {
	appointmentID data.ID
	studentID     data.ID
}

type mockServerState struct {
	logger *slog.Logger
	mu     sync.RWMutex

	users        map[string]*user
	sessions     map[string]data.ID
	professors   []data.Professor
	appointments []data.Appointment
	requests     []request
	failures     map[string]string
	nextID       int
}

// Server is a running mock booking api
type Server struct {
	*httptest.Server
	state *mockServerState
}

// NewMockServer starts a server which is closed once ctx is done
func NewMockServer(ctx context.Context, logger *slog.Logger) *Server {
	state := &mockServerState{
		logger:   logger,
		users:    map[string]*user{},
		sessions: map[string]data.ID{},
		failures: map[string]string{},
		nextID:   1000,
	}
	endpoints := bookingapi.DefaultEndpoints()

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+endpoints.Session, state.handleSession)
	mux.HandleFunc("POST "+endpoints.Day, state.handleDay)
	mux.HandleFunc("GET "+endpoints.Pending, state.handlePending)
	mux.HandleFunc("POST "+endpoints.ManagePending, state.handleManagePending)
	mux.HandleFunc("POST "+endpoints.Login, state.handleLogin)
	mux.HandleFunc("POST "+endpoints.Register, state.handleRegister)
	mux.HandleFunc("GET "+endpoints.Logout, state.handleLogout)

	server := httptest.NewServer(mux)
	go func() {
		<-ctx.Done()
		server.Close()
	}()

	return &Server{Server: server, state: state}
}

func (s *Server) AddProfessor(p data.Professor, email, password string) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	s.state.professors = append(s.state.professors, p)
	s.state.users[email] = &user{
		email:     email,
		password:  password,
		role:      data.RoleProfessor,
		memberID:  p.MemberID,
		firstName: p.FirstName,
		lastName:  p.LastName,
	}
}

func (s *Server) AddStudent(memberID data.ID, firstName, lastName, email, password string) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	s.state.users[email] = &user{
		email:     email,
		password:  password,
		role:      data.RoleStudent,
		memberID:  memberID,
		firstName: firstName,
		lastName:  lastName,
	}
}

func (s *Server) AddAppointment(a data.Appointment) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	s.state.appointments = append(s.state.appointments, a)
}

// AddRequest marks a pending appointment as requested by a student
func (s *Server) AddRequest(appointmentID, studentID data.ID) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	s.state.requests = append(s.state.requests, request{appointmentID: appointmentID, studentID: studentID})
}

// Fail makes every call to endpoint answer success false with message
func (s *Server) Fail(endpoint, message string) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	s.state.failures[endpoint] = message
}

// SessionFor logs the user in and returns the session cookie
func (s *Server) SessionFor(email string) *http.Cookie {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	u, ok := s.state.users[email]
	if !ok {
		return nil
	}
	return s.state.newSession(u)
}

func (s *Server) Appointment(id data.ID) (data.Appointment, bool) {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()
	for _, a := range s.state.appointments {
		if a.AppointmentID == id {
			return a, true
		}
	}
	return data.Appointment{}, false
}

// needs the write lock
func (m *mockServerState) newSession(u *user) *http.Cookie {
	sessionID := uuid.New().String()
	m.sessions[sessionID] = u.memberID
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Now().Add(24 * time.Hour),
	}
}

// needs the read lock
func (m *mockServerState) currentUser(r *http.Request) (*user, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	memberID, ok := m.sessions[cookie.Value]
	if !ok {
		return nil, false
	}
	for _, u := range m.users {
		if u.memberID == memberID {
			return u, true
		}
	}
	return nil, false
}

func (m *mockServerState) failure(r *http.Request) (string, bool) {
	message, ok := m.failures[r.URL.Path]
	return message, ok
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}

func failed(w http.ResponseWriter, message string) {
	writeJSON(w, map[string]any{"success": false, "message": message})
}

func (m *mockServerState) handleSession(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.currentUser(r)
	if !ok {
		failed(w, "Not logged in")
		return
	}
	writeJSON(w, map[string]any{
		"success":    true,
		"role":       u.role,
		"member_id":  u.memberID,
		"first_name": u.firstName,
	})
}

func (m *mockServerState) handleDay(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		m.logger.Error("could not parse day form", "err", err)
		http.Error(w, "Bad Request: Could not parse form", http.StatusBadRequest)
		return
	}
	date, err := data.ParseDate(r.FormValue("date"))
	if err != nil {
		m.logger.Error("invalid date", "date", r.FormValue("date"))
		failed(w, "Invalid date")
		return
	}
	professorID := data.ID(r.FormValue("professor_id"))

	m.mu.RLock()
	defer m.mu.RUnlock()
	if message, ok := m.failure(r); ok {
		failed(w, message)
		return
	}

	appointments := make([]data.Appointment, 0)
	for _, a := range m.appointments {
		if a.Date != date {
			continue
		}
		if professorID != "" && a.ProfessorID != professorID {
			continue
		}
		appointments = append(appointments, a)
	}
	writeJSON(w, map[string]any{
		"success":      true,
		"professors":   m.professors,
		"appointments": appointments,
	})
}

func (m *mockServerState) handlePending(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.currentUser(r)
	if !ok || u.role != data.RoleProfessor {
		writeJSON(w, map[string]any{
			"success": false,
			"type":    "login_required",
			"message": "Please log in as a professor",
		})
		return
	}
	if message, ok := m.failure(r); ok {
		failed(w, message)
		return
	}

	pending := make([]data.PendingRequest, 0)
	for _, req := range m.requests {
		a, ok := m.appointment(req.appointmentID)
		if !ok || a.ProfessorID != u.memberID || a.Status != data.StatusPending {
			continue
		}
		student, _ := m.member(req.studentID)
		pending = append(pending, data.PendingRequest{
			AppointmentID:    a.AppointmentID,
			Date:             a.Date,
			StartTime:        a.StartTime,
			EndTime:          a.EndTime,
			StudentFirstName: student.firstName,
			StudentLastName:  student.lastName,
		})
	}
	writeJSON(w, map[string]any{"success": true, "appointments": pending})
}

func (m *mockServerState) handleManagePending(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		m.logger.Error("could not parse manage form", "err", err)
		http.Error(w, "Bad Request: Could not parse form", http.StatusBadRequest)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.currentUser(r)
	if !ok || u.role != data.RoleProfessor {
		writeJSON(w, map[string]any{"success": false, "type": "login_required", "message": "Please log in"})
		return
	}
	if message, ok := m.failure(r); ok {
		failed(w, message)
		return
	}

	action, err := bookingapi.ParsePendingAction(r.FormValue("action"))
	if err != nil {
		failed(w, "Invalid action")
		return
	}
	id := data.ID(r.FormValue("appointment_id"))
	i := slices.IndexFunc(m.appointments, func(a data.Appointment) bool { return a.AppointmentID == id })
	if i < 0 || m.appointments[i].ProfessorID != u.memberID {
		failed(w, "Appointment not found")
		return
	}
	if m.appointments[i].Status != data.StatusPending {
		failed(w, "Appointment is no longer pending")
		return
	}

	if action == bookingapi.Accept {
		m.appointments[i].Status = data.StatusClosed
		writeJSON(w, map[string]any{"success": true, "message": "Request accepted."})
		return
	}
	m.appointments[i].Status = data.StatusOpen
	m.requests = slices.DeleteFunc(m.requests, func(req request) bool { return req.appointmentID == id })
	writeJSON(w, map[string]any{"success": true, "message": "Request declined."})
}

func (m *mockServerState) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		http.Error(w, "Bad Request: Could not parse form", http.StatusBadRequest)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[r.FormValue("email")]
	if !ok || u.password != r.FormValue("password") {
		failed(w, "Invalid email or password")
		return
	}
	http.SetCookie(w, m.newSession(u))
	writeJSON(w, map[string]any{"success": true, "redirect": homeFor(u.role)})
}

func (m *mockServerState) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		http.Error(w, "Bad Request: Could not parse form", http.StatusBadRequest)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	email := r.FormValue("email")
	if email == "" || r.FormValue("password") == "" {
		failed(w, "Email and password are required")
		return
	}
	if _, taken := m.users[email]; taken {
		failed(w, "An account with this email already exists")
		return
	}
	role := data.RoleStudent
	if data.Role(r.FormValue("role")) == data.RoleProfessor {
		role = data.RoleProfessor
	}

	m.nextID++
	u := &user{
		email:     email,
		password:  r.FormValue("password"),
		role:      role,
		memberID:  data.ID(strconv.Itoa(m.nextID)),
		firstName: r.FormValue("first_name"),
		lastName:  r.FormValue("last_name"),
	}
	m.users[email] = u
	if role == data.RoleProfessor {
		m.professors = append(m.professors, data.Professor{MemberID: u.memberID, FirstName: u.firstName, LastName: u.lastName})
	}
	http.SetCookie(w, m.newSession(u))
	writeJSON(w, map[string]any{"success": true, "redirect": homeFor(role)})
}

func (m *mockServerState) handleLogout(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		delete(m.sessions, cookie.Value)
	}
	m.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/", http.StatusFound)
}

// needs the read lock
func (m *mockServerState) appointment(id data.ID) (data.Appointment, bool) {
	for _, a := range m.appointments {
		if a.AppointmentID == id {
			return a, true
		}
	}
	return data.Appointment{}, false
}

// needs the read lock
func (m *mockServerState) member(id data.ID) (*user, bool) {
	for _, u := range m.users {
		if u.memberID == id {
			return u, true
		}
	}
	return &user{}, false
}

func homeFor(role data.Role) string {
	if role == data.RoleProfessor {
		return "/pages/prof-dashboard.html"
	}
	return "/"
}
