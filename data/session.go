package data

import "context"

type Role string

const (
	RoleAnonymous Role = ""
	RoleStudent   Role = "student"
	RoleProfessor Role = "professor"
)

// Session is who the booking api says is on the other end of a request.
// It is built once per request and never changed afterwards.
type Session struct {
	LoggedIn  bool
	Role      Role
	MemberID  ID
	FirstName string
}

func Anonymous() Session {
	return Session{}
}

func (s Session) IsProfessor() bool {
	return s.LoggedIn && s.Role == RoleProfessor
}

type sessionKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the anonymous session when none was stored
func SessionFrom(ctx context.Context) Session {
	s, ok := ctx.Value(sessionKey{}).(Session)
	if !ok {
		return Anonymous()
	}
	return s
}
