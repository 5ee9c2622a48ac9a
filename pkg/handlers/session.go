package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

const (
	// SessionHeader carries the session id for clients that do not keep cookies.
	SessionHeader = "X-Session-ID"
	sessionCookie = "csv-chat-session"
	sessionKey    = "id"
)

// SessionResolver maps a request to its session id.
type SessionResolver struct {
	cookies *sessions.CookieStore
}

// NewSessionResolver 署名付きCookieストアを使うSessionResolverを作成
func NewSessionResolver(secret string) *SessionResolver {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionResolver{cookies: store}
}

// Resolve returns the session id from the X-Session-ID header, then explicit (a body or form
// field), then the signed cookie. It returns "" when none is present.
func (sr *SessionResolver) Resolve(c *gin.Context, explicit string) string {
	if id := c.GetHeader(SessionHeader); id != "" {
		return id
	}
	if explicit != "" {
		return explicit
	}
	session, err := sr.cookies.Get(c.Request, sessionCookie)
	if err != nil {
		// 署名が一致しないCookieは無視する
		return ""
	}
	if id, ok := session.Values[sessionKey].(string); ok {
		return id
	}
	return ""
}

// Remember echoes id in the response header and stores it in the signed cookie.
func (sr *SessionResolver) Remember(c *gin.Context, id string) {
	c.Header(SessionHeader, id)

	session, _ := sr.cookies.Get(c.Request, sessionCookie)
	session.Values[sessionKey] = id
	if err := session.Save(c.Request, c.Writer); err != nil {
		log.Printf("Warning: failed to save session cookie: %v", err)
	}
}
