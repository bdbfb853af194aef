package components

import "github.com/a-h/templ"

func Login() templ.Component {
	return component(func(m *markup) {
		m.raw(`<section class="login-register">`)

		m.raw(`<div class="form-card"><h2>Log In</h2>`)
		m.raw(`<form id="loginForm" method="post" action="/login" hx-post="/login" hx-target="#notice">`)
		m.raw(`<input type="email" name="email" placeholder="Email" required>`)
		m.raw(`<input type="password" name="password" placeholder="Password" required>`)
		m.raw(`<button type="submit">Log In</button></form></div>`)

		m.raw(`<div class="form-card"><h2>Register</h2>`)
		m.raw(`<form id="registerForm" method="post" action="/register" hx-post="/register" hx-target="#notice">`)
		m.raw(`<input type="text" name="first_name" placeholder="First name" required>`)
		m.raw(`<input type="text" name="last_name" placeholder="Last name" required>`)
		m.raw(`<input type="email" name="email" placeholder="Email" required>`)
		m.raw(`<input type="password" name="password" placeholder="Password" required>`)
		m.raw(`<select name="role"><option value="student">Student</option><option value="professor">Professor</option></select>`)
		m.raw(`<button type="submit">Register</button></form></div>`)

		m.raw(`</section>`)
	})
}
