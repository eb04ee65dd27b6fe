package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topevent/topevent-go/internal/domain"
)

func TestLoginInput_Validate(t *testing.T) {
	t.Run("valid credentials pass", func(t *testing.T) {
		input := LoginInput{Mail: "a@b.com", Password: "secret1"}

		require.NoError(t, input.Validate())
	})

	t.Run("invalid email is rejected", func(t *testing.T) {
		input := LoginInput{Mail: "not-an-email", Password: "secret1"}

		fields := fieldErrors(t, input.Validate())
		assert.Contains(t, fields, "mail")
	})

	t.Run("missing password is rejected", func(t *testing.T) {
		input := LoginInput{Mail: "a@b.com"}

		fields := fieldErrors(t, input.Validate())
		assert.Contains(t, fields, "password")
	})
}

func TestRegisterInput_Validate(t *testing.T) {
	valid := RegisterInput{
		FirstName: "Alice",
		LastName:  "Martin",
		Mail:      "alice@example.com",
		Password:  "secret1",
		Role:      domain.RoleUser,
	}

	t.Run("valid input passes", func(t *testing.T) {
		require.NoError(t, valid.Validate())
	})

	t.Run("admin role passes", func(t *testing.T) {
		input := valid
		input.Role = domain.RoleAdmin

		require.NoError(t, input.Validate())
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		input := valid
		input.Role = "organizer"

		fields := fieldErrors(t, input.Validate())
		assert.Contains(t, fields, "role")
	})

	passwords := []struct {
		name     string
		password string
		ok       bool
	}{
		{name: "too short", password: "ab1", ok: false},
		{name: "letters only", password: "abcdefg", ok: false},
		{name: "digits only", password: "1234567", ok: false},
		{name: "letter and digit", password: "secret1", ok: true},
	}
	for _, tt := range passwords {
		t.Run("password "+tt.name, func(t *testing.T) {
			input := valid
			input.Password = tt.password

			err := input.Validate()
			if tt.ok {
				require.NoError(t, err)
				return
			}

			fields := fieldErrors(t, err)
			assert.Contains(t, fields, "password")
		})
	}
}
