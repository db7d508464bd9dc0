package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/docgate/internal/auth"
	"github.com/geocoder89/docgate/internal/domain/user"
	"github.com/geocoder89/docgate/internal/http/middlewares"
	"github.com/geocoder89/docgate/internal/observability"
	"github.com/geocoder89/docgate/internal/security"
	"github.com/gin-gonic/gin"
)

type Authenticator interface {
	Register(ctx context.Context, email, password string) (user.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type AuthHandler struct {
	auth Authenticator
	prom *observability.Prom
}

func NewAuthHandler(a Authenticator, prom *observability.Prom) *AuthHandler {
	return &AuthHandler{auth: a, prom: prom}
}

// bcrypt only reads the first 72 bytes of a password
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	u, err := h.auth.Register(cctx, req.Email, req.Password)

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			h.prom.ObserveAuth("register", "conflict")
			RespondConflict(ctx, "email_taken", "Email is already registered.")
			return
		}

		// multibyte passwords can pass the rune-counted max and still exceed bcrypt's byte limit
		if errors.Is(err, security.ErrPasswordTooLong) {
			h.prom.ObserveAuth("register", "invalid")
			RespondBadRequest(ctx, "Invalid request body", gin.H{"fields": []FieldError{{
				Field:   "password",
				Rule:    "max",
				Param:   "72",
				Message: "must be at most 72 bytes",
			}}})
			return
		}

		h.prom.ObserveAuth("register", "error")
		RespondUnAuthorized(ctx, "registration_failed", "Registration failed.")
		return
	}

	h.prom.ObserveAuth("register", "ok")

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    u,
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	token, err := h.auth.Login(cctx, req.Email, req.Password)

	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.prom.ObserveAuth("login", "invalid")
			RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
			return
		}

		h.prom.ObserveAuth("login", "error")
		RespondInternal(ctx, "Could not log in")
		return
	}

	h.prom.ObserveAuth("login", "ok")

	ctx.JSON(http.StatusOK, gin.H{
		"access_token": token,
	})
}

// Me echoes the identity carried by the caller's token.
func (h *AuthHandler) Me(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required")
		return
	}

	username, _ := middlewares.UsernameFromContext(ctx)
	role, _ := middlewares.RoleFromContext(ctx)

	ctx.JSON(http.StatusOK, gin.H{
		"userId":   userID,
		"username": username,
		"role":     role,
	})
}
