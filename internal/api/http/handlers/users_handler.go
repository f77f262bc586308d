package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/facility-service/internal/api/dto"
	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/service"
)

// UsersHandler exposes admin account management.
type UsersHandler struct {
	users     *service.UserService
	validator *dto.Validator
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService, validator *dto.Validator) *UsersHandler {
	return &UsersHandler{users: users, validator: validator}
}

// List handles GET /api/users?role=.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	filter := service.UserFilter{Role: domain.Role(c.Query("role"))}
	list, err := h.users.ListUsers(c.UserContext(), callerID(c), filter)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", list)
}

// Stats handles GET /api/users/stats.
func (h *UsersHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.users.GetUserStats(c.UserContext(), callerID(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", stats)
}

// SearchStaff handles GET /api/users/search-staff?q=.
func (h *UsersHandler) SearchStaff(c *fiber.Ctx) error {
	staff, err := h.users.SearchMaintenanceStaff(c.UserContext(), callerID(c), c.Query("q"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", fiber.Map{"users": staff})
}

// Get handles GET /api/users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.GetUser(c.UserContext(), callerID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", fiber.Map{"user": user})
}

// Update handles PUT /api/users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}
	user, err := h.users.UpdateUser(c.UserContext(), callerID(c), c.Params("id"), req.ToPatch())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User updated successfully", fiber.Map{"user": user})
}

// Delete handles DELETE /api/users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	if err := h.users.DeleteUser(c.UserContext(), callerID(c), c.Params("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User deleted successfully", nil)
}

// ToggleStatus handles PATCH /api/users/:id/toggle-status.
func (h *UsersHandler) ToggleStatus(c *fiber.Ctx) error {
	user, err := h.users.ToggleUserStatus(c.UserContext(), callerID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User status updated successfully", fiber.Map{"user": user})
}
