package session

import (
	"net/http"
	"strings"
)

const cookieName = "access_token"

// Context is the session state handed explicitly to whatever needs it,
// instead of each consumer digging through request headers or storage.
type Context struct {
	Token string
	Role  string
}

// FromRequest reads the bearer credential from the Authorization header,
// falling back to the access_token cookie, and resolves its role with g.
func FromRequest(r *http.Request, g *Gate) Context {
	token := BearerToken(r.Header.Get("Authorization"))
	if token == "" {
		if c, err := r.Cookie(cookieName); err == nil {
			token = strings.TrimSpace(c.Value)
		}
	}
	return Context{Token: token, Role: g.Role(token)}
}

// BearerToken strips the Bearer scheme; other schemes yield "".
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
