// Package guard decides whether a session may enter a protected route.
package guard

import "github.com/onestopshop/storefront/internal/core/session"

type Decision int

const (
	Loading Decision = iota
	Authorized
	Unauthenticated
	Forbidden
)

// Redirect targets for the non-authorized decisions.
const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

func (d Decision) String() string {
	switch d {
	case Loading:
		return "loading"
	case Authorized:
		return "authorized"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	}
	return "unknown"
}

// Redirect returns where the client should be sent, or "" when it may stay.
func (d Decision) Redirect() string {
	switch d {
	case Unauthenticated:
		return LoginPath
	case Forbidden:
		return UnauthorizedPath
	}
	return ""
}

// Evaluate maps a session snapshot to a decision. An empty requiredRole only
// requires a signed-in user.
func Evaluate(snap session.Snapshot, requiredRole string) Decision {
	switch {
	case snap.Loading:
		return Loading
	case snap.User == nil:
		return Unauthenticated
	case requiredRole != "" && snap.User.Role != requiredRole:
		return Forbidden
	}
	return Authorized
}
