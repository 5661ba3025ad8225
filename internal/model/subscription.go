// Package model defines database models
package model

import "time"

type SubscriptionStatus string

const (
	StatusPendingConfirmation SubscriptionStatus = "pending_confirmation"
	StatusConfirmed           SubscriptionStatus = "confirmed"
)

type Subscription struct {
	ID           string             `gorm:"primaryKey;type:uuid" json:"id"`
	Email        string             `gorm:"uniqueIndex;not null" json:"email"`
	Name         string             `gorm:"not null" json:"name"`
	SubscribedAt time.Time          `gorm:"not null" json:"subscribed_at"`
	Status       SubscriptionStatus `gorm:"not null;size:32" json:"status"`
}

func (Subscription) TableName() string { return "subscriptions" }
