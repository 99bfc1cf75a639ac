package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/CragHerk/accounts-api/internal/apperror"
	"github.com/CragHerk/accounts-api/internal/models"
	"github.com/CragHerk/accounts-api/internal/service"
	"github.com/CragHerk/accounts-api/pkg/utils"
)

type UserHandler struct {
	userService *service.UserService
	validator   *utils.Validator
}

func NewUserHandler(userService *service.UserService, validator *utils.Validator) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator,
	}
}

func (h *UserHandler) GetCurrentUser(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	return c.JSON(models.ProfileResponse{
		Email:        user.Email,
		Subscription: user.Subscription,
	})
}

func (h *UserHandler) UpdateAvatar(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	file, err := c.FormFile("avatar")
	if err != nil {
		return apperror.BadRequest("No file uploaded")
	}

	avatarURL, err := h.userService.UpdateAvatar(user, file)
	if err != nil {
		return err
	}

	return c.JSON(models.AvatarResponse{
		Message:   "Avatar updated successfully",
		AvatarURL: avatarURL,
	})
}

func (h *UserHandler) UpdateSubscription(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req models.UpdateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.BadRequest("Validation error")
	}
	if err := h.validator.Struct(req); err != nil {
		return apperror.BadRequest("Validation error")
	}

	if err := h.userService.UpdateSubscription(user, req.Subscription); err != nil {
		return err
	}

	return c.JSON(models.ProfileResponse{
		Email:        user.Email,
		Subscription: user.Subscription,
	})
}
