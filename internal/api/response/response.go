// Package response validates and coerces raw payloads from the backend
// into domain values. Parsing is parse-or-reject: a payload failing any
// field check is rejected as a whole, never returned partially filled.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/topevent/topevent-go/internal/domain"
)

var (
	errInvalidEventType = errors.New("must be a valid event type")
	errInvalidRole      = errors.New("must be a valid role")
	errZeroDate         = errors.New("must be a valid date")
	errInvalidPlaces    = errors.New("must be a positive integer")
)

type userSecureWire struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Mail      string `json:"mail"`
}

func (u *userSecureWire) Validate() error {
	return validation.ValidateStruct(
		u,
		validation.Field(&u.ID, validation.Required, validation.Min(1)),
		validation.Field(&u.Mail, validation.Required, is.Email),
	)
}

func (u userSecureWire) toDomain() domain.UserSecure {
	return domain.UserSecure{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Mail:      u.Mail,
	}
}

type authUserWire struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Mail      string `json:"mail"`
	Role      string `json:"role"`
}

func (u *authUserWire) Validate() error {
	return validation.ValidateStruct(
		u,
		validation.Field(&u.ID, validation.Required, validation.Min(1)),
		validation.Field(&u.Mail, validation.Required, is.Email),
		validation.Field(&u.Role, validation.Required, validation.By(validRole)),
	)
}

func (u authUserWire) toDomain() domain.AuthUser {
	return domain.AuthUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Mail:      u.Mail,
		Role:      domain.Role(u.Role),
	}
}

type authResponseWire struct {
	Token string       `json:"token"`
	User  authUserWire `json:"user"`
}

func (a *authResponseWire) Validate() error {
	if err := validation.ValidateStruct(
		a,
		validation.Field(&a.Token, validation.Required),
	); err != nil {
		return err
	}

	return a.User.Validate()
}

type subscriptionWire struct {
	ID               int       `json:"id"`
	UserID           int       `json:"userId"`
	EventID          int       `json:"eventId"`
	SubscriptionDate time.Time `json:"subscriptionDate"`
}

// UnmarshalJSON accepts both the unified "userId" and the legacy "userID"
// spelling some backend versions emit.
func (s *subscriptionWire) UnmarshalJSON(data []byte) error {
	type alias subscriptionWire
	aux := struct {
		*alias
		LegacyUserID *int `json:"userID"`
	}{alias: (*alias)(s)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if s.UserID == 0 && aux.LegacyUserID != nil {
		s.UserID = *aux.LegacyUserID
	}

	return nil
}

func (s *subscriptionWire) Validate() error {
	return validation.ValidateStruct(
		s,
		validation.Field(&s.ID, validation.Required, validation.Min(1)),
		validation.Field(&s.UserID, validation.Required, validation.Min(1)),
		validation.Field(&s.EventID, validation.Required, validation.Min(1)),
		validation.Field(&s.SubscriptionDate, validation.By(nonZeroDate)),
	)
}

func (s subscriptionWire) toDomain() domain.Subscription {
	return domain.Subscription{
		ID:               s.ID,
		UserID:           s.UserID,
		EventID:          s.EventID,
		SubscriptionDate: s.SubscriptionDate,
	}
}

type rosterRowWire struct {
	subscriptionWire
	User userSecureWire `json:"user"`
}

// UnmarshalJSON exists because the embedded subscription's custom decoder
// would otherwise be promoted and swallow the user field.
func (r *rosterRowWire) UnmarshalJSON(data []byte) error {
	if err := r.subscriptionWire.UnmarshalJSON(data); err != nil {
		return err
	}

	aux := struct {
		User userSecureWire `json:"user"`
	}{}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.User = aux.User

	return nil
}

type eventWire struct {
	ID                    int                `json:"id"`
	Name                  string             `json:"name"`
	Description           *string            `json:"description"`
	Location              string             `json:"location"`
	Type                  *string            `json:"type"`
	IsPublic              bool               `json:"isPublic"`
	StartDate             time.Time          `json:"startDate"`
	EndDate               time.Time          `json:"endDate"`
	TotalPlaces           *int               `json:"totalPlaces"`
	LimitSubscriptionDate *time.Time         `json:"limitSubscriptionDate"`
	CreatedBy             *userSecureWire    `json:"createdBy"`
	Subscriptions         []subscriptionWire `json:"subscriptions"`
}

func (e *eventWire) Validate() error {
	err := validation.ValidateStruct(
		e,
		validation.Field(&e.ID, validation.Required, validation.Min(1)),
		validation.Field(&e.Name, validation.Required),
		validation.Field(&e.StartDate, validation.By(nonZeroDate)),
		validation.Field(&e.EndDate, validation.By(nonZeroDate)),
		validation.Field(&e.Type, validation.By(validOptionalEventType)),
		validation.Field(&e.TotalPlaces, validation.By(validOptionalPlaces)),
	)
	if err != nil {
		return err
	}

	if e.CreatedBy != nil {
		if err = e.CreatedBy.Validate(); err != nil {
			return fmt.Errorf("createdBy: %w", err)
		}
	}
	for i := range e.Subscriptions {
		if err = e.Subscriptions[i].Validate(); err != nil {
			return fmt.Errorf("subscriptions[%d]: %w", i, err)
		}
	}

	return nil
}

func (e eventWire) toDomain() domain.Event {
	ev := domain.Event{
		ID:                    e.ID,
		Name:                  e.Name,
		Description:           e.Description,
		Location:              e.Location,
		IsPublic:              e.IsPublic,
		StartDate:             e.StartDate,
		EndDate:               e.EndDate,
		TotalPlaces:           e.TotalPlaces,
		LimitSubscriptionDate: e.LimitSubscriptionDate,
		Subscriptions:         make([]domain.Subscription, 0, len(e.Subscriptions)),
	}
	if e.Type != nil {
		t := domain.EventType(*e.Type)
		ev.Type = &t
	}
	if e.CreatedBy != nil {
		created := e.CreatedBy.toDomain()
		ev.CreatedBy = &created
	}
	for _, s := range e.Subscriptions {
		ev.Subscriptions = append(ev.Subscriptions, s.toDomain())
	}

	return ev
}

// DecodeEvent parses a single event payload.
func DecodeEvent(raw json.RawMessage) (domain.Event, error) {
	var wire eventWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return domain.Event{}, fmt.Errorf("json.Unmarshal -> %w", err)
	}
	if err := wire.Validate(); err != nil {
		return domain.Event{}, fmt.Errorf("event: %w", err)
	}

	return wire.toDomain(), nil
}

// DecodeEvents parses an event list payload.
func DecodeEvents(raw json.RawMessage) ([]domain.Event, error) {
	var wires []eventWire
	if err := json.Unmarshal(raw, &wires); err != nil {
		return nil, fmt.Errorf("json.Unmarshal -> %w", err)
	}

	events := make([]domain.Event, 0, len(wires))
	for i := range wires {
		if err := wires[i].Validate(); err != nil {
			return nil, fmt.Errorf("events[%d]: %w", i, err)
		}
		events = append(events, wires[i].toDomain())
	}

	return events, nil
}

// DecodeSubscription parses a single subscription payload.
func DecodeSubscription(raw json.RawMessage) (domain.Subscription, error) {
	var wire subscriptionWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return domain.Subscription{}, fmt.Errorf("json.Unmarshal -> %w", err)
	}
	if err := wire.Validate(); err != nil {
		return domain.Subscription{}, fmt.Errorf("subscription: %w", err)
	}

	return wire.toDomain(), nil
}

// DecodeSubscriptions parses a subscription list payload.
func DecodeSubscriptions(raw json.RawMessage) ([]domain.Subscription, error) {
	var wires []subscriptionWire
	if err := json.Unmarshal(raw, &wires); err != nil {
		return nil, fmt.Errorf("json.Unmarshal -> %w", err)
	}

	subs := make([]domain.Subscription, 0, len(wires))
	for i := range wires {
		if err := wires[i].Validate(); err != nil {
			return nil, fmt.Errorf("subscriptions[%d]: %w", i, err)
		}
		subs = append(subs, wires[i].toDomain())
	}

	return subs, nil
}

// DecodeRoster parses the admin roster payload, subscriptions with their
// user's secure projection.
func DecodeRoster(raw json.RawMessage) ([]domain.SubscriptionWithUser, error) {
	var wires []rosterRowWire
	if err := json.Unmarshal(raw, &wires); err != nil {
		return nil, fmt.Errorf("json.Unmarshal -> %w", err)
	}

	rows := make([]domain.SubscriptionWithUser, 0, len(wires))
	for i := range wires {
		if err := wires[i].Validate(); err != nil {
			return nil, fmt.Errorf("roster[%d]: %w", i, err)
		}
		if err := wires[i].User.Validate(); err != nil {
			return nil, fmt.Errorf("roster[%d].user: %w", i, err)
		}
		rows = append(rows, domain.SubscriptionWithUser{
			Subscription: wires[i].toDomain(),
			User:         wires[i].User.toDomain(),
		})
	}

	return rows, nil
}

// DecodeAuth parses the login/registration payload of token plus user.
func DecodeAuth(raw json.RawMessage) (domain.AuthSession, error) {
	var wire authResponseWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return domain.AuthSession{}, fmt.Errorf("json.Unmarshal -> %w", err)
	}
	if err := wire.Validate(); err != nil {
		return domain.AuthSession{}, fmt.Errorf("auth: %w", err)
	}

	return domain.AuthSession{
		Token: wire.Token,
		User:  wire.User.toDomain(),
	}, nil
}

// DecodeUpdatedUser parses the profile-update payload, which arrives
// wrapped in a data envelope.
func DecodeUpdatedUser(raw json.RawMessage) (domain.AuthUser, error) {
	var envelope struct {
		Data authUserWire `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return domain.AuthUser{}, fmt.Errorf("json.Unmarshal -> %w", err)
	}
	if err := envelope.Data.Validate(); err != nil {
		return domain.AuthUser{}, fmt.Errorf("user: %w", err)
	}

	return envelope.Data.toDomain(), nil
}

func validRole(value interface{}) error {
	role, _ := value.(string)
	if !domain.Role(role).IsValid() {
		return errInvalidRole
	}

	return nil
}

func validOptionalEventType(value interface{}) error {
	t, _ := value.(*string)
	if t == nil {
		return nil
	}
	if !domain.EventType(*t).IsValid() {
		return errInvalidEventType
	}

	return nil
}

func validOptionalPlaces(value interface{}) error {
	n, _ := value.(*int)
	if n == nil {
		return nil
	}
	if *n <= 0 {
		return errInvalidPlaces
	}

	return nil
}

func nonZeroDate(value interface{}) error {
	t, _ := value.(time.Time)
	if t.IsZero() {
		return errZeroDate
	}

	return nil
}
