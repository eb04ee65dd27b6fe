package request

import (
	"errors"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topevent/topevent-go/internal/domain"
)

func validEventInput() EventInput {
	return EventInput{
		Name:        "Rennes JS Meetup",
		Description: "Talks & networking",
		Location:    "Rennes",
		Type:        domain.EventConference,
		IsPublic:    true,
		StartDate:   "2025-06-02T10:00",
		EndDate:     "2025-06-02T18:00",
	}
}

func fieldErrors(t *testing.T, err error) validation.Errors {
	t.Helper()

	var fields validation.Errors
	require.Error(t, err)
	require.True(t, errors.As(err, &fields), "expected field-level errors, got %v", err)

	return fields
}

func TestEventInput_Validate(t *testing.T) {
	t.Run("valid input passes", func(t *testing.T) {
		input := validEventInput()

		require.NoError(t, input.Validate())
	})

	t.Run("end date before start date is rejected on endDate", func(t *testing.T) {
		input := validEventInput()
		input.StartDate = "2025-01-02T10:00"
		input.EndDate = "2025-01-01T10:00"

		fields := fieldErrors(t, input.Validate())
		assert.Contains(t, fields, "endDate")
	})

	t.Run("end date equal to start date is rejected", func(t *testing.T) {
		input := validEventInput()
		input.StartDate = "2025-01-02T10:00"
		input.EndDate = "2025-01-02T10:00"

		fields := fieldErrors(t, input.Validate())
		assert.Contains(t, fields, "endDate")
	})

	t.Run("limit date on or after start date is rejected on limitSubscriptionDate", func(t *testing.T) {
		input := validEventInput()
		input.LimitSubscriptionDate = input.StartDate

		fields := fieldErrors(t, input.Validate())
		assert.Contains(t, fields, "limitSubscriptionDate")
	})

	t.Run("both date rule violations surface together", func(t *testing.T) {
		input := validEventInput()
		input.StartDate = "2025-01-02T10:00"
		input.EndDate = "2025-01-01T10:00"
		input.LimitSubscriptionDate = "2025-01-03T10:00"

		fields := fieldErrors(t, input.Validate())
		assert.Contains(t, fields, "endDate")
		assert.Contains(t, fields, "limitSubscriptionDate")
	})

	t.Run("limit date before start date passes", func(t *testing.T) {
		input := validEventInput()
		input.LimitSubscriptionDate = "2025-06-01T23:59"

		require.NoError(t, input.Validate())
	})

	t.Run("unparsable dates are rejected on their own field", func(t *testing.T) {
		input := validEventInput()
		input.EndDate = "not-a-date"

		fields := fieldErrors(t, input.Validate())
		assert.Contains(t, fields, "endDate")
	})

	t.Run("missing required fields are all reported", func(t *testing.T) {
		input := EventInput{}

		fields := fieldErrors(t, input.Validate())
		for _, key := range []string{"name", "description", "location", "type", "startDate", "endDate"} {
			assert.Contains(t, fields, key)
		}
	})

	t.Run("invalid type is rejected", func(t *testing.T) {
		input := validEventInput()
		input.Type = "festival"

		fields := fieldErrors(t, input.Validate())
		assert.Contains(t, fields, "type")
	})
}

func TestEventInput_TotalPlaces(t *testing.T) {
	tests := []struct {
		name    string
		places  string
		wantErr bool
		want    *int
	}{
		{name: "empty means unlimited", places: "", want: nil},
		{name: "numeric string is coerced", places: "10", want: intPtr(10)},
		{name: "zero is rejected", places: "0", wantErr: true},
		{name: "negative is rejected", places: "-1", wantErr: true},
		{name: "non-numeric is rejected", places: "ten", wantErr: true},
		{name: "fractional is rejected", places: "10.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validEventInput()
			input.TotalPlaces = tt.places

			err := input.Validate()
			if tt.wantErr {
				fields := fieldErrors(t, err)
				assert.Contains(t, fields, "totalPlaces")
				return
			}

			require.NoError(t, err)

			body, err := input.Body()
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, body.TotalPlaces)
			} else {
				require.NotNil(t, body.TotalPlaces)
				assert.Equal(t, *tt.want, *body.TotalPlaces)
			}
		})
	}
}

func TestEventInput_Body(t *testing.T) {
	t.Run("invalid input never yields a body", func(t *testing.T) {
		input := validEventInput()
		input.EndDate = "2020-01-01T00:00"

		body, err := input.Body()
		require.Error(t, err)
		assert.Equal(t, EventBody{}, body)
	})

	t.Run("dates are parsed and optionals nulled", func(t *testing.T) {
		input := validEventInput()

		body, err := input.Body()
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC), body.StartDate)
		assert.Equal(t, time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC), body.EndDate)
		assert.Nil(t, body.LimitSubscriptionDate)
		assert.Nil(t, body.TotalPlaces)
	})

	t.Run("optional limit date is carried through", func(t *testing.T) {
		input := validEventInput()
		input.LimitSubscriptionDate = "2025-06-01"

		body, err := input.Body()
		require.NoError(t, err)
		require.NotNil(t, body.LimitSubscriptionDate)
		assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *body.LimitSubscriptionDate)
	})
}

func intPtr(n int) *int {
	return &n
}
