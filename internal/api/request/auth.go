package request

import (
	"errors"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/topevent/topevent-go/internal/domain"
)

// Lookahead assertions need regexp2, the standard regexp package does not
// support them.
const passwordRegexPattern = `^(?=.*[A-Za-z])(?=.*\d).{6,}$`

var (
	passwordExp = regexp2.MustCompile(passwordRegexPattern, regexp2.None)

	errInvalidPassword = errors.New("the password must be at least 6 characters and contain 1 letter and 1 number")
	errInvalidRole     = errors.New("must be a valid role")
)

type LoginInput struct {
	Mail     string `json:"mail"`
	Password string `json:"password"`
}

func (req *LoginInput) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Mail, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
	)
}

type RegisterInput struct {
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Mail      string      `json:"mail"`
	Password  string      `json:"password"`
	Role      domain.Role `json:"role"`
}

func (req *RegisterInput) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.FirstName, validation.Required),
		validation.Field(&req.LastName, validation.Required),
		validation.Field(&req.Mail, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required, validation.By(validPassword)),
		validation.Field(&req.Role, validation.Required, validation.By(validRole)),
	)
}

func validPassword(value interface{}) error {
	password, _ := value.(string)
	ok, err := passwordExp.MatchString(password)
	if err != nil || !ok {
		return errInvalidPassword
	}

	return nil
}

func validRole(value interface{}) error {
	role, _ := value.(domain.Role)
	if !role.IsValid() {
		return errInvalidRole
	}

	return nil
}
