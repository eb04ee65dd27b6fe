package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateSubscriptionInput struct {
	EventID int `json:"eventId"`
}

func (req *CreateSubscriptionInput) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.Required, validation.Min(1)),
	)
}
