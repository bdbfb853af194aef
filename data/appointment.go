package data

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type Status string

const (
	StatusAvailable    Status = "available"
	StatusOpen         Status = "open"
	StatusPending      Status = "pending"
	StatusClosed       Status = "closed"
	StatusNotAvailable Status = "not available"
	StatusPast         Status = "past"
)

// ID is a member or appointment id, the api sends either numbers or strings
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", b, err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

type Professor struct {
	MemberID  ID     `json:"member_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (p Professor) Name() string {
	return p.FirstName + " " + p.LastName
}

type Appointment struct {
	AppointmentID ID        `json:"appointment_id"`
	ProfessorID   ID        `json:"professor_member_id"`
	ProfessorName string    `json:"professor_name,omitempty"`
	Date          Date      `json:"date"`
	StartTime     ClockTime `json:"start_time"`
	EndTime       ClockTime `json:"end_time"`
	Status        Status    `json:"appointment_status"`
	MeetingName   string    `json:"meeting_name,omitempty"`
}

// Covers reports whether t falls in [StartTime, EndTime)
func (a Appointment) Covers(t ClockTime) bool {
	return t.Minutes() >= a.StartTime.Minutes() && t.Minutes() < a.EndTime.Minutes()
}

func (a Appointment) StartsAt(loc *time.Location) time.Time {
	return a.StartTime.On(a.Date, loc)
}

// DaySchedule is one day of professors and their appointments
type DaySchedule struct {
	Professors   []Professor   `json:"professors"`
	Appointments []Appointment `json:"appointments"`
}

// Professor looks up a professor by member id
func (d DaySchedule) Professor(id ID) (Professor, bool) {
	for _, p := range d.Professors {
		if p.MemberID == id {
			return p, true
		}
	}
	return Professor{}, false
}

type PendingRequest struct {
	AppointmentID    ID        `json:"appointment_id"`
	Date             Date      `json:"date"`
	StartTime        ClockTime `json:"start_time"`
	EndTime          ClockTime `json:"end_time"`
	StudentFirstName string    `json:"student_first_name"`
	StudentLastName  string    `json:"student_last_name"`
}

func (p PendingRequest) StudentName() string {
	return p.StudentFirstName + " " + p.StudentLastName
}
