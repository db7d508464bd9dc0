package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/geocoder89/docgate/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type UsersManager interface {
	List(ctx context.Context) ([]user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	UpdateRole(ctx context.Context, id, role string) (user.User, error)
	Delete(ctx context.Context, id string) error
}

type UsersHandler struct {
	users UsersManager
}

func NewUsersHandler(users UsersManager) *UsersHandler {
	return &UsersHandler{users: users}
}

// List returns every account, or the single match for ?email=.
func (h *UsersHandler) List(ctx *gin.Context) {
	if email := ctx.Query("email"); email != "" {
		u, err := h.users.GetByEmail(ctx.Request.Context(), email)

		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				ctx.JSON(http.StatusOK, []user.User{})
				return
			}

			RespondInternal(ctx, "Could not list users")
			return
		}

		ctx.JSON(http.StatusOK, []user.User{u})
		return
	}

	users, err := h.users.List(ctx.Request.Context())

	if err != nil {
		RespondInternal(ctx, "Could not list users")
		return
	}

	ctx.JSON(http.StatusOK, users)
}

func (h *UsersHandler) Get(ctx *gin.Context) {
	id, ok := requireUUID(ctx, "id")

	if !ok {
		return
	}

	u, err := h.users.GetByID(ctx.Request.Context(), id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Could not fetch user")
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *UsersHandler) UpdateRole(ctx *gin.Context) {
	var req user.UpdateRoleRequest

	if !BindJSON(ctx, &req) {
		return
	}

	u, err := h.users.UpdateRole(ctx.Request.Context(), req.UserID, req.Role)

	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			RespondNotFound(ctx, "User not found")
		case errors.Is(err, user.ErrInvalidRole):
			RespondBadRequest(ctx, "Invalid role", gin.H{"field": "role"})
		default:
			RespondInternal(ctx, "Could not update role")
		}
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *UsersHandler) Delete(ctx *gin.Context) {
	id, ok := requireUUID(ctx, "id")

	if !ok {
		return
	}

	err := h.users.Delete(ctx.Request.Context(), id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Could not delete user")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("User with ID %s has been deleted.", id),
	})
}
