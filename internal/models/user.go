package models

import (
	"time"
)

// Subscription tiers. New accounts always start on Starter.
const (
	SubscriptionStarter  = "starter"
	SubscriptionPro      = "pro"
	SubscriptionBusiness = "business"
)

type User struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	Email             string    `json:"email" gorm:"unique;not null"`
	Password          string    `json:"-" gorm:"not null"`
	Subscription      string    `json:"subscription" gorm:"not null;default:starter"`
	AvatarURL         string    `json:"avatarURL"`
	Verify            bool      `json:"verify" gorm:"not null;default:false"`
	VerificationToken *string   `json:"-" gorm:"index"`
	Token             *string   `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
