package handlers

import (
	"net/http"

	"finledger/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	// sessionCookie holds the signed session token on the client.
	sessionCookie = "ledger_session"

	ctxUserID   = "userId"
	ctxUsername = "username"
)

// setSessionCookie installs the session token as an HttpOnly cookie.
func (h *Handler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, maxAge, "/", "", false, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
}

// sessionMiddleware resolves the session cookie to an identity. Anything
// short of a valid live session redirects to the login page; protected
// handlers never run unauthenticated.
func (h *Handler) sessionMiddleware(c *gin.Context) {
	token, err := c.Cookie(sessionCookie)
	if err != nil || token == "" {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}

	identity, err := h.services.Validate(c.Request.Context(), token)
	if err != nil || identity == nil {
		h.clearSessionCookie(c)
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}

	c.Set(ctxUserID, identity.UserID)
	c.Set(ctxUsername, identity.Username)
	c.Next()
}

// currentIdentity reads the identity the middleware stored on the context.
func currentIdentity(c *gin.Context) service.Identity {
	id := service.Identity{}
	if v, ok := c.Get(ctxUserID); ok {
		if uid, ok := v.(int); ok {
			id.UserID = uid
		}
	}
	if v, ok := c.Get(ctxUsername); ok {
		if name, ok := v.(string); ok {
			id.Username = name
		}
	}
	return id
}
