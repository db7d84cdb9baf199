package handlers

import (
	"errors"
	"net/http"
	"strings"

	"finledger/internal/service"

	"github.com/gin-gonic/gin"
)

// One generic message for every login failure; the response never reveals
// whether the username exists.
const msgInvalidLogin = "Invalid username or password."

// loginForm renders the login page. Visitors with a live session go straight
// to the ledger.
func (h *Handler) loginForm(c *gin.Context) {
	if token, err := c.Cookie(sessionCookie); err == nil && token != "" {
		if identity, err := h.services.Validate(c.Request.Context(), token); err == nil && identity != nil {
			c.Redirect(http.StatusFound, "/")
			return
		}
	}
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

func (h *Handler) login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	token, err := h.services.SignIn(c.Request.Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			if h.log != nil {
				h.log.Infow("login_rejected", "username", username)
			}
			c.HTML(http.StatusUnauthorized, "login.html", gin.H{"Error": msgInvalidLogin})
			return
		}
		h.renderFailure(c, "login_failed", err, "username", username)
		return
	}

	h.setSessionCookie(c, token, 0)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) registerForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{})
}

func (h *Handler) register(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	if username == "" || password == "" {
		c.HTML(http.StatusBadRequest, "register.html", gin.H{"Error": "Username and password are required."})
		return
	}

	id, err := h.services.SignUp(username, password)
	if err != nil {
		h.renderFailure(c, "register_failed", err, "username", username)
		return
	}

	if h.log != nil {
		h.log.Infow("user_registered", "id", id, "username", username)
	}
	c.Redirect(http.StatusFound, "/login")
}

// logout destroys the session; destroying an already-dead session is fine.
func (h *Handler) logout(c *gin.Context) {
	if token, err := c.Cookie(sessionCookie); err == nil && token != "" {
		if err := h.services.SignOut(c.Request.Context(), token); err != nil && h.log != nil {
			h.log.Errorw("logout_failed", "err", err)
		}
	}
	h.clearSessionCookie(c)
	c.Redirect(http.StatusFound, "/login")
}
