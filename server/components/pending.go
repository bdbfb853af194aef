package components

import (
	"github.com/Pjt727/bookcs/data"
	"github.com/Pjt727/bookcs/grid"
	"github.com/a-h/templ"
)

type PendingCard struct {
	AppointmentID data.ID
	Student       string
	Date          string
	Time          string
}

type PendingData struct {
	Notification *NotificationData
	// Message replaces the request list when set
	Message  string
	Requests []PendingCard
}

func PendingCardsFrom(requests []data.PendingRequest) []PendingCard {
	cards := make([]PendingCard, len(requests))
	for i, r := range requests {
		cards[i] = PendingCard{
			AppointmentID: r.AppointmentID,
			Student:       r.StudentName(),
			Date:          grid.LongDate(r.Date),
			Time:          r.StartTime.String() + " - " + r.EndTime.String(),
		}
	}
	return cards
}

func Pending(pending PendingData) templ.Component {
	return component(func(m *markup) {
		m.raw(`<section class="pending"><h1>Pending requests</h1><div id="appointments-container">`)
		m.child(PendingList(pending))
		m.raw(`</div></section>`)
	})
}

// PendingList is the content of #appointments-container
func PendingList(pending PendingData) templ.Component {
	return component(func(m *markup) {
		if n := pending.Notification; n != nil {
			m.child(Notification(n.Type, n.Message))
		}
		if pending.Message != "" {
			m.raw(`<div class="no-appointments">`)
			m.text(pending.Message)
			m.raw(`</div>`)
			return
		}
		if len(pending.Requests) == 0 {
			m.raw(`<div class="no-appointments">No pending appointments</div>`)
			return
		}
		for _, card := range pending.Requests {
			pendingCard(m, card)
		}
	})
}

func pendingCard(m *markup, card PendingCard) {
	action := "/pending/" + card.AppointmentID.String()
	m.raw(`<div class="appointment-card"><div class="appointment-info"><h3>Meeting with `)
	m.text(card.Student)
	m.raw(`</h3><p><strong>Date:</strong> `)
	m.text(card.Date)
	m.raw(`</p><p><strong>Time:</strong> `)
	m.text(card.Time)
	m.raw(`</p></div><form class="button-group" method="post"`)
	m.url("action", action)
	m.url("hx-post", action)
	m.raw(` hx-target="#appointments-container">`)
	m.raw(`<button class="accept-btn" type="submit" name="action" value="accept" hx-confirm="Are you sure you want to accept this request?">Accept</button>`)
	m.raw(`<button class="decline-btn" type="submit" name="action" value="reject" hx-confirm="Are you sure you want to decline this request?">Decline</button>`)
	m.raw(`</form></div>`)
}
