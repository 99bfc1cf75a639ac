package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/CragHerk/accounts-api/internal/apperror"
	"github.com/CragHerk/accounts-api/internal/models"
	"github.com/CragHerk/accounts-api/internal/service"
	"github.com/CragHerk/accounts-api/pkg/utils"
)

type AuthHandler struct {
	authService *service.AuthService
	validator   *utils.Validator
}

func NewAuthHandler(authService *service.AuthService, validator *utils.Validator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator,
	}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req models.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.BadRequest("Validation error")
	}
	if err := h.validator.Struct(req); err != nil {
		return apperror.BadRequest("Validation error")
	}

	user, err := h.authService.Signup(req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(models.SignupResponse{
		User: models.SignupUser{
			Email:        user.Email,
			Subscription: user.Subscription,
			AvatarURL:    user.AvatarURL,
		},
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.BadRequest("Validation error")
	}
	if err := h.validator.Struct(req); err != nil {
		return apperror.BadRequest("Validation error")
	}

	resp, err := h.authService.Login(req)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	if err := h.authService.Logout(user); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	token := c.Params("verificationToken")

	if err := h.authService.VerifyEmail(token); err != nil {
		return err
	}

	return c.JSON(models.MessageResponse{Message: "Verification successful"})
}

func (h *AuthHandler) ResendVerification(c *fiber.Ctx) error {
	var req models.ResendVerificationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.BadRequest("Missing required field email")
	}
	if err := h.validator.Struct(req); err != nil {
		return apperror.BadRequest("Missing required field email")
	}

	if err := h.authService.ResendVerificationEmail(req.Email); err != nil {
		return err
	}

	return c.JSON(models.MessageResponse{Message: "Verification email sent"})
}
