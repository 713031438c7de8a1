package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Session keys. UserIDKey is also the gin context key the gate injects.
const (
	UserIDKey = "user_id"

	FlashWarning = "warning"
	FlashSuccess = "success"
	FlashInfo    = "info"
)

// RequireSession gates a route on an authenticated session. Without a
// recognized user id it flashes a warning and redirects to the login page;
// the wrapped handler is never invoked. With one, the user id is placed in
// the gin context under UserIDKey.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(UserIDKey).(string)
		if !ok || userID == "" {
			AddFlash(c, FlashWarning, "Please log in to access this page.")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id injected by
// RequireSession.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// Flash is a one-shot notification shown on the next rendered page.
type Flash struct {
	Level   string
	Message string
}

// AddFlash queues a flash message on the session.
func AddFlash(c *gin.Context, level, message string) {
	session := sessions.Default(c)
	session.AddFlash(level + "|" + message)
	_ = session.Save()
}

// ConsumeFlashes drains pending flash messages from the session.
func ConsumeFlashes(c *gin.Context) []Flash {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) > 0 {
		_ = session.Save()
	}

	flashes := make([]Flash, 0, len(raw))
	for _, entry := range raw {
		s, ok := entry.(string)
		if !ok {
			continue
		}
		level, message := FlashInfo, s
		if i := strings.IndexByte(s, '|'); i >= 0 {
			level, message = s[:i], s[i+1:]
		}
		flashes = append(flashes, Flash{Level: level, Message: message})
	}
	return flashes
}
