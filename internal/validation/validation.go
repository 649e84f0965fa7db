// Package validation checks submitted HTML forms and collects per-field error messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NonField keys errors that belong to the form as a whole.
const NonField = "__all__"

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]{1,150}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("choice", func(fl validator.FieldLevel) bool {
		_, ok := parseChoice(fl.Field().String())
		return ok
	})
	return v
}

// PostForm is the create and edit form for posts.
type PostForm struct {
	Text  string `form:"text" validate:"notblank"`
	Group string `form:"group" validate:"omitempty,choice"`
}

// GroupID returns the selected group, or nil for "no group".
// Only meaningful once the form has passed Validate.
func (f *PostForm) GroupID() *uint {
	id, ok := parseChoice(f.Group)
	if !ok {
		return nil
	}
	return &id
}

// parseChoice reads a select option value: a positive 32-bit id.
func parseChoice(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

type CommentForm struct {
	Text string `form:"text" validate:"notblank"`
}

type SignupForm struct {
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
	Username  string `form:"username" validate:"required,username"`
	Email     string `form:"email" validate:"omitempty,email"`
	Password1 string `form:"password1" validate:"required,min=8"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
}

type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// Errors maps a form field name to its messages.
type Errors map[string][]string

// Add appends msg to field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Has reports whether field has any error.
func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// First returns the first message for field.
func (e Errors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Any reports whether the form has errors.
func (e Errors) Any() bool {
	return len(e) > 0
}

// Validate runs the struct rules of form and returns the failures.
// The result is never nil so handlers can add their own errors to it.
func Validate(form interface{}) Errors {
	out := Errors{}
	err := validate.Struct(form)
	if err == nil {
		return out
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out.Add(NonField, err.Error())
		return out
	}
	for _, fe := range verrs {
		out.Add(fe.Field(), message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "This field is required."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "eqfield":
		return "The two password fields didn't match."
	case "choice":
		return "Select a valid choice. That choice is not one of the available choices."
	default:
		return fmt.Sprintf("Invalid value (%s).", fe.Tag())
	}
}
