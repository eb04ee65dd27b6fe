package domain

import "time"

type Subscription struct {
	ID               int       `json:"id"`
	UserID           int       `json:"userId"`
	EventID          int       `json:"eventId"`
	SubscriptionDate time.Time `json:"subscriptionDate"`
}

// SubscriptionWithUser is the roster row returned to admins.
type SubscriptionWithUser struct {
	Subscription
	User UserSecure `json:"user"`
}
