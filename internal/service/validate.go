package service

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var emailRegex = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,7}$`)

// Field rules, expressed as validator tags.
const (
	ruleUsername = "required,min=3,max=50,nospace"
	ruleEmail    = "required,feedemail"
	rulePassword = "min=8,max=128"
	ruleAboutMe  = "max=200"
	ruleTitle    = "required,min=1,max=50"
	ruleContent  = "required,min=1,max=200"
	ruleComment  = "required,notblank,max=100"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("nospace", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), " \t\n")
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("feedemail", func(fl validator.FieldLevel) bool {
		return emailRegex.MatchString(fl.Field().String())
	})
	return v
}

// checkField validates value against tags and turns the first failure into
// a readable *ValidationError for field.
func checkField(field, value, tags string) error {
	err := validate.Var(value, tags)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return invalid(field, "%s is invalid", field)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required", "notblank":
		return invalid(field, "%s must not be empty", field)
	case "min":
		return invalid(field, "%s must be at least %s characters long", field, fe.Param())
	case "max":
		return invalid(field, "%s must be at most %s characters long", field, fe.Param())
	case "nospace":
		return invalid(field, "%s must not contain spaces", field)
	case "feedemail":
		return invalid(field, "%s must be valid", field)
	default:
		return invalid(field, "%s is invalid", field)
	}
}
