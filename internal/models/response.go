package models

type MessageResponse struct {
	Message string `json:"message"`
}

type AvatarResponse struct {
	Message   string `json:"message"`
	AvatarURL string `json:"avatarURL"`
}
