package model

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

var errPasswordTooLong = errors.New("must be at most 72 bytes long")

// passwordBytes caps the encoded length; validation.Length counts runes.
func passwordBytes(value interface{}) error {
	s, _ := value.(string)
	if len(s) > MaxPasswordBytes {
		return errPasswordTooLong
	}
	return nil
}

// RegisterParams holds the input of a registration request.
type RegisterParams struct {
	Email    string
	Password string
	Username string
}

// Validate checks registration input.
func (p RegisterParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(8, 0), validation.By(passwordBytes)),
		validation.Field(&p.Username, validation.Length(0, 64)),
	)
}

// LoginParams holds the input of a login request.
type LoginParams struct {
	Email    string
	Password string
}

// Validate checks login input.
func (p LoginParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required),
	)
}

// ValidateEmail checks a bare email, used by flows that take nothing else.
func ValidateEmail(email string) error {
	return validation.Validate(email, validation.Required, validation.Length(3, 254), is.Email)
}
