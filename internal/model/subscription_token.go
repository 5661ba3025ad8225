package model

// SubscriptionToken maps an emailed confirmation token to its subscriber.
// Rows are never updated or deleted, so following a link twice finds the
// same subscriber both times.
type SubscriptionToken struct {
	SubscriptionToken string `gorm:"primaryKey;size:25"`
	SubscriberID      string `gorm:"type:uuid;not null;index"`

	Subscriber Subscription `gorm:"foreignKey:SubscriberID;references:ID" json:"-"`
}

func (SubscriptionToken) TableName() string { return "subscription_tokens" }
