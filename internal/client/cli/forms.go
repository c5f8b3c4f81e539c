package cli

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

type loginForm struct {
	Email    string `validate:"required,email"`
	Password []byte `validate:"required"`
}

type signupForm struct {
	Username string `validate:"required,min=3"`
	Email    string `validate:"required,email"`
	Password []byte `validate:"required,min=6"`
}

// updateForm fields are optional; empty ones keep the current value.
type updateForm struct {
	Username string `validate:"omitempty,min=3"`
	Email    string `validate:"omitempty,email"`
	Status   string `validate:"omitempty,oneof=activo inactivo"`
	Password []byte `validate:"omitempty,min=6"`
}

func (f updateForm) empty() bool {
	return f.Username == "" && f.Email == "" && f.Status == "" && len(f.Password) == 0
}

var errInvalidForm = errors.New("invalid form")

// checkForm validates form and returns one message per failed field.
func checkForm(v *validator.Validate, form any) []string {
	err := v.Struct(form)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldError(fe))
	}
	return msgs
}

// fieldError converts a single validation failure into a plain message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "Enter a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// report prints form messages and returns errInvalidForm when there are any.
func (a *App) report(msgs []string) error {
	if len(msgs) == 0 {
		return nil
	}
	for _, m := range msgs {
		a.say(" - " + m)
	}
	return errInvalidForm
}
