package components

import (
	"github.com/Pjt727/bookcs/data"
	"github.com/Pjt727/bookcs/grid"
	"github.com/a-h/templ"
)

const htmxSource = "https://unpkg.com/htmx.org@2.0.4"

type NotificationType string

const (
	NotifySuccess NotificationType = "success"
	NotifyError   NotificationType = "error"
	NotifyInfo    NotificationType = "info"
)

type NotificationData struct {
	Type    NotificationType
	Message string
}

func Notification(notificationType NotificationType, message string) templ.Component {
	return component(func(m *markup) {
		m.raw(`<div`)
		m.attr("class", "notification "+string(notificationType))
		m.raw(` role="alert">`)
		m.text(message)
		m.raw(`</div>`)
	})
}

// NoticePage is the full page fallback for a notification when the browser
// did not ask through htmx.
func NoticePage(notificationType NotificationType, message string, backURL string) templ.Component {
	return component(func(m *markup) {
		m.raw(`<section class="notice-page">`)
		m.child(Notification(notificationType, message))
		m.raw(`<a`)
		m.url("href", backURL)
		m.raw(`>Back to the schedule</a></section>`)
	})
}

type Nav struct {
	LoggedIn   bool
	FirstName  string
	HomeURL    string
	HistoryURL string
	LogoutURL  string
	LoginURL   string
}

func NavFor(s data.Session, pages grid.Pages) Nav {
	return Nav{
		LoggedIn:   s.LoggedIn,
		FirstName:  s.FirstName,
		HomeURL:    pages.HomeFor(s.Role),
		HistoryURL: pages.HistoryFor(s.Role),
		LogoutURL:  "/logout",
		LoginURL:   pages.Login,
	}
}

func Navbar(nav Nav) templ.Component {
	return component(func(m *markup) {
		m.raw(`<nav id="navbar" class="navbar"><div id="nav-left" class="nav-left"><a`)
		m.url("href", nav.HomeURL)
		m.raw(`><span class="bookcs-logo">BookCS</span></a>`)
		if nav.LoggedIn {
			m.raw(`<a`)
			m.url("href", nav.HistoryURL)
			m.raw(`>My History</a>`)
		}
		m.raw(`</div><div id="nav-right" class="nav-right">`)
		if nav.LoggedIn {
			m.raw(`<span class="greeting">Hi, `)
			m.text(nav.FirstName)
			m.raw(`</span><a`)
			m.url("href", nav.LogoutURL)
			m.raw(`>Log Out</a>`)
		} else {
			m.raw(`<a`)
			m.url("href", nav.LoginURL)
			m.raw(`>Log In</a>`)
		}
		m.raw(`</div></nav>`)
	})
}

type PageData struct {
	Title string
	Nav   Nav
}

// Page wraps body in the site layout.
func Page(page PageData, body templ.Component) templ.Component {
	return component(func(m *markup) {
		m.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		m.raw(`<meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		m.text(page.Title)
		m.raw(`</title><link rel="stylesheet" href="/static/app.css"><script`)
		m.url("src", htmxSource)
		m.raw(` defer></script><script src="/static/app.js" defer></script></head><body>`)
		m.child(Navbar(page.Nav))
		m.raw(`<div id="notice" aria-live="polite"></div><main>`)
		m.child(body)
		m.raw(`</main><div id="floating-tooltip" class="floating-tooltip" hidden></div></body></html>`)
	})
}
