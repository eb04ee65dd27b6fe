package request

import (
	"errors"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/topevent/topevent-go/internal/domain"
)

var (
	errInvalidDate      = errors.New("must be a valid date")
	errInvalidEventType = errors.New("must be a valid event type")
	errEndBeforeStart   = errors.New("the end date must be after the start date")
	errLimitAfterStart  = errors.New("the subscription deadline must precede the start date")
	errInvalidPlaces    = errors.New("the number of places must be a positive integer")
)

// dateLayouts are the accepted shapes for user-entered datetimes. The wire
// always carries RFC 3339.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// EventInput carries the raw, form-level values for event creation and
// update. Dates and the place count arrive as strings and are coerced
// during validation; create and update share the same rules.
type EventInput struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Location    string           `json:"location"`
	Type        domain.EventType `json:"type"`
	IsPublic    bool             `json:"isPublic"`

	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`

	// LimitSubscriptionDate and TotalPlaces are optional; the empty
	// string means "not set".
	LimitSubscriptionDate string `json:"limitSubscriptionDate"`
	TotalPlaces           string `json:"totalPlaces"`
}

// Validate checks every field and the cross-field date ordering rules. All
// failing fields are reported together, keyed by field path; the end-date
// and deadline checks run independently so both can surface at once.
func (req *EventInput) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required),
		validation.Field(&req.Description, validation.Required),
		validation.Field(&req.Location, validation.Required),
		validation.Field(&req.Type, validation.Required, validation.By(validEventType)),
		validation.Field(&req.StartDate, validation.Required, validation.By(validDate)),
		validation.Field(&req.EndDate, validation.Required, validation.By(validDate), validation.By(req.endAfterStart)),
		validation.Field(&req.LimitSubscriptionDate, validation.By(validOptionalDate), validation.By(req.limitBeforeStart)),
		validation.Field(&req.TotalPlaces, validation.By(validOptionalPlaces)),
	)
}

// Body returns the typed wire payload. Validate must have passed; Body
// fails atomically otherwise.
func (req *EventInput) Body() (EventBody, error) {
	if err := req.Validate(); err != nil {
		return EventBody{}, err
	}

	start, _ := parseDate(req.StartDate)
	end, _ := parseDate(req.EndDate)

	body := EventBody{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Type:        req.Type,
		IsPublic:    req.IsPublic,
		StartDate:   start,
		EndDate:     end,
	}
	if req.LimitSubscriptionDate != "" {
		limit, _ := parseDate(req.LimitSubscriptionDate)
		body.LimitSubscriptionDate = &limit
	}
	if req.TotalPlaces != "" {
		places, _ := strconv.Atoi(req.TotalPlaces)
		body.TotalPlaces = &places
	}

	return body, nil
}

// EventBody is the JSON body sent to the backend for event creation and
// update: dates as ISO-8601, optionals as null.
type EventBody struct {
	Name                  string           `json:"name"`
	Description           string           `json:"description"`
	Location              string           `json:"location"`
	Type                  domain.EventType `json:"type"`
	IsPublic              bool             `json:"isPublic"`
	StartDate             time.Time        `json:"startDate"`
	EndDate               time.Time        `json:"endDate"`
	LimitSubscriptionDate *time.Time       `json:"limitSubscriptionDate"`
	TotalPlaces           *int             `json:"totalPlaces"`
}

func (req *EventInput) endAfterStart(value interface{}) error {
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil // already reported by validDate
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil
	}
	if !end.After(start) {
		return errEndBeforeStart
	}

	return nil
}

func (req *EventInput) limitBeforeStart(value interface{}) error {
	if req.LimitSubscriptionDate == "" {
		return nil
	}
	limit, err := parseDate(req.LimitSubscriptionDate)
	if err != nil {
		return nil
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil
	}
	if !limit.Before(start) {
		return errLimitAfterStart
	}

	return nil
}

func validEventType(value interface{}) error {
	t, _ := value.(domain.EventType)
	if !t.IsValid() {
		return errInvalidEventType
	}

	return nil
}

func validDate(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil // emptiness is Required's concern
	}
	if _, err := parseDate(s); err != nil {
		return errInvalidDate
	}

	return nil
}

func validOptionalDate(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	return validDate(value)
}

func validOptionalPlaces(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return errInvalidPlaces
	}

	return nil
}

func parseDate(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	return time.Time{}, firstErr
}
