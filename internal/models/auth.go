package models

type SignupRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type UpdateSubscriptionRequest struct {
	Subscription string `json:"subscription" validate:"required,oneof=starter pro business"`
}

// SignupUser is the only user payload that exposes the avatar URL.
type SignupUser struct {
	Email        string `json:"email"`
	Subscription string `json:"subscription"`
	AvatarURL    string `json:"avatarURL"`
}

type SignupResponse struct {
	User SignupUser `json:"user"`
}

type LoginUser struct {
	Email        string `json:"email"`
	Subscription string `json:"subscription"`
}

type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

// ProfileResponse is the flat shape returned by the current-user and
// subscription endpoints.
type ProfileResponse struct {
	Email        string `json:"email"`
	Subscription string `json:"subscription"`
}
