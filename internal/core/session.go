package core

// Session carries the authenticated identity through one program run.
// It is created by a successful login, passed explicitly to every action,
// and simply dropped when the process terminates.
type Session struct {
	Username UsernameString
	Role     Role
}

// BuildSession creates a new Session for an authenticated user.
func BuildSession(username UsernameString, role Role) Session {
	session := Session{
		Username: username,
		Role:     role,
	}

	return session
}
