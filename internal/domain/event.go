package domain

import "time"

type EventType string

const (
	EventConcert    EventType = "concert"
	EventWebinaire  EventType = "webinaire"
	EventConference EventType = "conference"
)

func (t EventType) IsValid() bool {
	return t == EventConcert || t == EventWebinaire || t == EventConference
}

type Event struct {
	ID                    int            `json:"id"`
	Name                  string         `json:"name"`
	Description           *string        `json:"description"`
	Location              string         `json:"location"`
	Type                  *EventType     `json:"type"`
	IsPublic              bool           `json:"isPublic"`
	StartDate             time.Time      `json:"startDate"`
	EndDate               time.Time      `json:"endDate"`
	TotalPlaces           *int           `json:"totalPlaces"` // nil means unlimited
	LimitSubscriptionDate *time.Time     `json:"limitSubscriptionDate"`
	CreatedBy             *UserSecure    `json:"createdBy"`
	Subscriptions         []Subscription `json:"subscriptions"`
}

// SubscriptionOpen reports whether registrations are still accepted at t.
func (e Event) SubscriptionOpen(t time.Time) bool {
	if e.LimitSubscriptionDate != nil && !t.Before(*e.LimitSubscriptionDate) {
		return false
	}
	if e.TotalPlaces != nil && len(e.Subscriptions) >= *e.TotalPlaces {
		return false
	}
	return t.Before(e.StartDate)
}
