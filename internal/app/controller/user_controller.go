package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tiendago/tienda-backend/internal/app/model"
	"github.com/tiendago/tienda-backend/internal/app/service"
	apperrors "github.com/tiendago/tienda-backend/internal/errors"
	"github.com/tiendago/tienda-backend/internal/middleware"
)

type UserController struct {
	authService service.AuthService
}

func NewUserController(authService service.AuthService) *UserController {
	return &UserController{
		authService: authService,
	}
}

type UpdateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin"`
}

// ListUsers returns all users (admin only)
// GET /api/v1/users
func (ctrl *UserController) ListUsers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	users, err := ctrl.authService.ListUsers()
	if err != nil {
		log.Error("Failed to list users", err, nil)
		apperrors.InternalError(c, "Failed to list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// GetUser returns one user. Admins can read anyone, users only themselves.
// GET /api/v1/users/:id
func (ctrl *UserController) GetUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid user ID")
		return
	}

	if !ctrl.canAccessUser(c, uint(targetID)) {
		apperrors.Forbidden(c, "You can only access your own account")
		return
	}

	user, err := ctrl.authService.GetUserByID(uint(targetID))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
			return
		}
		log.Error("Failed to get user", err, map[string]interface{}{
			"target_id": targetID,
		})
		apperrors.InternalError(c, "Failed to get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// UpdateUser updates a user. Admins can update anyone and change roles;
// users can only update themselves and never their role.
// PUT /api/v1/users/:id
func (ctrl *UserController) UpdateUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid user ID")
		return
	}

	if !ctrl.canAccessUser(c, uint(targetID)) {
		apperrors.Forbidden(c, "You can only update your own account")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update user request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input")
		return
	}

	var role *model.UserRole
	if req.Role != "" {
		actorRole, _ := middleware.GetUserRole(c)
		if actorRole != model.RoleAdmin {
			log.Warn("Role change attempted by non-admin", map[string]interface{}{
				"target_id": targetID,
			})
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzAdminOnly, "Only administrators can change roles")
			return
		}
		r := model.UserRole(req.Role)
		role = &r
	}

	user, err := ctrl.authService.UpdateUser(uint(targetID), req.Name, req.Email, req.Password, role)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
			return
		}
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "Email is already registered")
			return
		}
		log.Error("Failed to update user", err, map[string]interface{}{
			"target_id": targetID,
		})
		apperrors.InternalError(c, "Failed to update user")
		return
	}

	log.Info("User updated", map[string]interface{}{
		"target_id": targetID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    user,
	})
}

// DeleteUser deletes a user. Admins can delete anyone except themselves;
// users can only delete their own account.
// DELETE /api/v1/users/:id
func (ctrl *UserController) DeleteUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid user ID")
		return
	}

	actorID, _ := middleware.GetUserID(c)
	actorRole, _ := middleware.GetUserRole(c)

	if actorRole == model.RoleAdmin && actorID == uint(targetID) {
		apperrors.BadRequest(c, apperrors.UserSelfDeleteDenied, "Administrators cannot delete their own account")
		return
	}
	if !ctrl.canAccessUser(c, uint(targetID)) {
		apperrors.Forbidden(c, "You can only delete your own account")
		return
	}

	if err := ctrl.authService.DeleteUser(uint(targetID)); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
			return
		}
		log.Error("Failed to delete user", err, map[string]interface{}{
			"target_id": targetID,
		})
		apperrors.InternalError(c, "Failed to delete user")
		return
	}

	log.Info("User deleted", map[string]interface{}{
		"target_id": targetID,
		"actor_id":  actorID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
	})
}

// canAccessUser reports whether the authenticated actor may touch targetID
func (ctrl *UserController) canAccessUser(c *gin.Context, targetID uint) bool {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		return false
	}
	role, _ := middleware.GetUserRole(c)
	return role == model.RoleAdmin || actorID == targetID
}
