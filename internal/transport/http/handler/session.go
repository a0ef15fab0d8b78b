package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/app"
	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/pkg/sessioncookie"
	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/transport/http/middleware"
	"github.com/AnirbanGoswamiban/SeerAI-backend/internal/transport/http/response"
)

// CookieSettings configures the signed session cookie set on register/resume.
type CookieSettings struct {
	Name   string
	Secret string
	TTL    time.Duration
}

type SessionHandler struct {
	sessionService *app.SessionService
	cookie         CookieSettings
}

type StartSessionRequest struct {
	Name string `json:"name" binding:"required,max=128"`
}

type ContinueSessionRequest struct {
	Token string `json:"token" binding:"required,max=16"`
}

type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required,max=128"`
}

func NewSessionHandler(sessionService *app.SessionService, cookie CookieSettings) *SessionHandler {
	return &SessionHandler{sessionService: sessionService, cookie: cookie}
}

func (h *SessionHandler) Start(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "name is required")
		return
	}

	ident, err := h.sessionService.Register(req.Name)
	if err != nil {
		writeServiceError(c, "create session", err)
		return
	}

	h.setSessionCookie(c, *ident)
	response.Created(c, gin.H{
		"token": ident.Token,
		"name":  ident.Name,
	})
}

func (h *SessionHandler) Continue(c *gin.Context) {
	var req ContinueSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "session token is required")
		return
	}

	ident, err := h.sessionService.Resume(req.Token)
	if err != nil {
		writeServiceError(c, "resume session", err)
		return
	}

	h.setSessionCookie(c, *ident)
	response.OK(c, gin.H{
		"name": ident.Name,
	})
}

func (h *SessionHandler) Profile(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "no active session")
		return
	}

	session, err := h.sessionService.Profile(ident.Token)
	if err != nil {
		writeServiceError(c, "fetch profile", err)
		return
	}

	response.OK(c, gin.H{
		"name":  session.Name,
		"token": session.Token,
	})
}

func (h *SessionHandler) UpdateProfile(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "no active session")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "name is required")
		return
	}

	updated, err := h.sessionService.UpdateName(ident.Token, req.Name)
	if err != nil {
		writeServiceError(c, "update profile", err)
		return
	}

	// Refresh the cookie so the context carries the new name.
	h.setSessionCookie(c, *updated)
	response.OK(c, gin.H{
		"name": updated.Name,
	})
}

// End clears the session context unconditionally; it never touches the store
// and is safe to call with no session at all.
func (h *SessionHandler) End(c *gin.Context) {
	c.SetCookie(h.cookie.Name, "", -1, "/", "", false, true)
	response.OK(c, gin.H{
		"message": "session ended",
	})
}

func (h *SessionHandler) setSessionCookie(c *gin.Context, ident app.Identity) {
	signed, err := sessioncookie.Sign(h.cookie.Secret, h.cookie.TTL, ident.Token, ident.Name)
	if err != nil {
		// The caller still has the token in the response body; log and move on.
		log.Printf("sign session cookie failed: %v", err)
		return
	}
	c.SetCookie(h.cookie.Name, signed, int(h.cookie.TTL.Seconds()), "/", "", false, true)
}
