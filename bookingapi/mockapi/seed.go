package mockapi

import (
	"strconv"

	"github.com/Pjt727/bookcs/data"
)

// Seed fills the server with a small department around day. Every account's
// password is "password".
func (s *Server) Seed(day data.Date) {
	professors := []struct {
		professor data.Professor
		email     string
	}{
		{data.Professor{MemberID: "1", FirstName: "Ada", LastName: "Lovelace"}, "ada@bookcs.test"},
		{data.Professor{MemberID: "2", FirstName: "Alan", LastName: "Turing"}, "alan@bookcs.test"},
		{data.Professor{MemberID: "3", FirstName: "Grace", LastName: "Hopper"}, "grace@bookcs.test"},
	}
	for _, p := range professors {
		s.AddProfessor(p.professor, p.email, "password")
	}
	s.AddStudent("100", "Sam", "Student", "sam@bookcs.test", "password")

	id := 0
	add := func(professorID data.ID, date data.Date, start, end data.ClockTime, status data.Status, meeting string) data.ID {
		id++
		appointmentID := data.ID(strconv.Itoa(id))
		s.AddAppointment(data.Appointment{
			AppointmentID: appointmentID,
			ProfessorID:   professorID,
			Date:          date,
			StartTime:     start,
			EndTime:       end,
			Status:        status,
			MeetingName:   meeting,
		})
		return appointmentID
	}

	for offset := -1; offset <= 7; offset++ {
		date := day.AddDays(offset)
		add("1", date, data.Clock(9, 0), data.Clock(10, 30), data.StatusOpen, "Office hours")
		add("1", date, data.Clock(13, 0), data.Clock(13, 30), data.StatusClosed, "Thesis check-in")
		pending := add("1", date, data.Clock(15, 0), data.Clock(15, 30), data.StatusPending, "Project question")
		s.AddRequest(pending, "100")

		add("2", date, data.Clock(10, 0), data.Clock(12, 0), data.StatusNotAvailable, "")
		add("2", date, data.Clock(14, 0), data.Clock(15, 0), data.StatusOpen, "Tutorial")

		add("3", date, data.Clock(11, 0), data.Clock(11, 30), data.StatusOpen, "Compiler clinic")
		add("3", date, data.Clock(11, 30), data.Clock(12, 0), data.StatusOpen, "Compiler clinic II")
	}
}
