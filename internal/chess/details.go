package chess

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Details is the tournament form submitted before a conversation starts.
type Details struct {
	Name     string `json:"name" validate:"required"`
	Link     string `json:"link" validate:"required,url,tournamenthost"`
	Question string `json:"question,omitempty" validate:"omitempty,min=10"`
}

// FieldError describes one invalid form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every invalid field of a Details form.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, " ")
}

// DetailsValidator checks Details forms against the configured tournament hosts.
type DetailsValidator struct {
	validate *validator.Validate
	hosts    []string
}

// NewDetailsValidator creates a validator accepting links on the given host patterns.
func NewDetailsValidator(allowedHosts []string) *DetailsValidator {
	v := validator.New()
	dv := &DetailsValidator{validate: v, hosts: allowedHosts}
	_ = v.RegisterValidation("tournamenthost", func(fl validator.FieldLevel) bool {
		return hostAllowed(dv.hosts, fl.Field().String())
	})
	return dv
}

// Validate returns a *ValidationError when d is not acceptable.
func (dv *DetailsValidator) Validate(d Details) error {
	err := dv.validate.Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating tournament details: %w", err)
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: dv.message(fe),
		})
	}
	return out
}

func (dv *DetailsValidator) message(fe validator.FieldError) string {
	switch fe.Field() + "." + fe.Tag() {
	case "Name.required":
		return "Name is required."
	case "Link.required", "Link.url":
		return "Please enter a valid URL."
	case "Link.tournamenthost":
		return fmt.Sprintf("URL must be from %s.", strings.Join(dv.hosts, " or "))
	case "Question.min":
		return "Starting message must be at least 10 characters."
	default:
		return fmt.Sprintf("%s is invalid.", fe.Field())
	}
}
