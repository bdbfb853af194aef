package components

import "github.com/a-h/templ"

func Logs() templ.Component {
	return component(func(m *markup) {
		m.raw(`<section class="logs"><h1>Server logs</h1>`)
		m.raw(`<div id="log-stream" class="log-stream" data-ws="/manage/logs/watch"></div></section>`)
	})
}

// LogLine expects line to already be html.
func LogLine(line string) templ.Component {
	return component(func(m *markup) {
		m.raw(`<div class="log-line">`)
		m.child(templ.Raw(line))
		m.raw(`</div>`)
	})
}

func ManageLogin() templ.Component {
	return component(func(m *markup) {
		m.raw(`<section class="login-register"><div class="form-card"><h2>Management</h2>`)
		m.raw(`<form id="manageLoginForm" method="post" action="/manage/login" hx-post="/manage/login" hx-target="#notice">`)
		m.raw(`<input type="text" name="username" placeholder="Username" required>`)
		m.raw(`<input type="password" name="password" placeholder="Password" required>`)
		m.raw(`<button type="submit">Log In</button></form></div></section>`)
	})
}
