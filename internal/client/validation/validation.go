// Package validation checks user input before it is sent to the API.
package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9+_.-]+@[a-zA-Z0-9.-]+$`)

// ValidationError names the first field that failed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type registration struct {
	Username string `validate:"required,nowhitespace,min=3,max=50"`
	Password string `validate:"required,min=8,max=128"`
	Email    string `validate:"required,email_loose"`
}

type post struct {
	Title   string `validate:"required,min=1,max=50"`
	Content string `validate:"required,min=1,max=200"`
}

type comment struct {
	Content string `validate:"notblank,min=1,max=100"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("nowhitespace", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), " \t\r\n\v\f")
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("email_loose", func(fl validator.FieldLevel) bool {
		return emailRegex.MatchString(fl.Field().String())
	})
	return v
}

var messages = map[string]string{
	"Username": "Username must be 3-50 characters long and contain no spaces",
	"Password": "Password must be 8-128 characters long",
	"Email":    "Please enter a valid email address",
	"Title":    "Title must be 1-50 characters long",
	"Content":  "Content must be 1-200 characters long",
}

func check(v any, msgs map[string]string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}
	field := verrs[0].Field()
	msg, ok := msgs[field]
	if !ok {
		msg = field + " is invalid"
	}
	return &ValidationError{Field: field, Message: msg}
}

func Username(s string) bool { return validate.Var(s, "required,nowhitespace,min=3,max=50") == nil }
func Password(s string) bool { return validate.Var(s, "required,min=8,max=128") == nil }
func Email(s string) bool    { return validate.Var(s, "required,email_loose") == nil }

// Registration validates the sign-up form, username first.
func Registration(username, password, email string) error {
	return check(registration{Username: username, Password: password, Email: email}, messages)
}

// Post validates a new post's title and content.
func Post(title, content string) error {
	return check(post{Title: title, Content: content}, messages)
}

// Comment rejects blank comments and ones longer than 100 characters.
func Comment(content string) error {
	return check(comment{Content: content}, map[string]string{
		"Content": "Comment must be 1-100 characters long and not blank",
	})
}
