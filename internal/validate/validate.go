// Package validate holds the stateless input checks shared by the session
// manager, the order dispatcher and the API payload binding.
package validate

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Yemeni mobile numbers: optional +967/967/0 prefix followed by nine digits.
var phoneRegexp = regexp.MustCompile(`^(\+967|967|0)?[0-9]{9}$`)

var v = newValidator()

func newValidator() *validator.Validate {
	vd := validator.New()
	_ = vd.RegisterValidation("yemenphone", func(fl validator.FieldLevel) bool {
		return Phone(fl.Field().String())
	})
	return vd
}

// Phone reports whether s is a well-formed phone number. Embedded spaces are
// ignored, matching how users type numbers into the form.
func Phone(s string) bool {
	return phoneRegexp.MatchString(strings.ReplaceAll(s, " ", ""))
}

// Required reports whether s is non-empty after trimming.
func Required(s string) bool {
	return strings.TrimSpace(s) != ""
}

// FieldError is a validation failure attached to a single form field. Key is
// an i18n message key; the API layer localizes it before answering.
type FieldError struct {
	Field string
	Key   string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Key
}

// LoginForm is the sign-in payload.
type LoginForm struct {
	Phone    string `json:"phone" validate:"required,yemenphone"`
	Password string `json:"password" validate:"required"`
}

// RegisterForm is the account-creation payload.
type RegisterForm struct {
	Name            string `json:"name" validate:"required"`
	Phone           string `json:"phone" validate:"required,yemenphone"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"eqfield=Password"`
}

// CheckLogin validates a login form and returns the first field error.
func CheckLogin(f LoginForm) *FieldError {
	f.Phone = strings.TrimSpace(f.Phone)
	f.Password = strings.TrimSpace(f.Password)
	if err := v.Struct(f); err != nil {
		return firstFieldError(err, loginKeys)
	}
	return nil
}

// CheckRegister validates a registration form and returns the first field error.
func CheckRegister(f RegisterForm) *FieldError {
	f.Name = strings.TrimSpace(f.Name)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Password = strings.TrimSpace(f.Password)
	f.ConfirmPassword = strings.TrimSpace(f.ConfirmPassword)
	if err := v.Struct(f); err != nil {
		return firstFieldError(err, registerKeys)
	}
	return nil
}

type fieldKey struct{ field, tag string }

var loginKeys = map[fieldKey]FieldError{
	{"Phone", "required"}:    {"phone", "error.phone_invalid"},
	{"Phone", "yemenphone"}:  {"phone", "error.phone_invalid"},
	{"Password", "required"}: {"password", "error.password_required"},
}

var registerKeys = map[fieldKey]FieldError{
	{"Name", "required"}:           {"name", "error.name_required"},
	{"Phone", "required"}:          {"phone", "error.phone_invalid"},
	{"Phone", "yemenphone"}:        {"phone", "error.phone_invalid"},
	{"Password", "required"}:       {"password", "error.password_required"},
	{"Password", "min"}:            {"password", "error.password_short"},
	{"ConfirmPassword", "eqfield"}: {"confirm_password", "error.password_mismatch"},
}

func firstFieldError(err error, keys map[fieldKey]FieldError) *FieldError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return &FieldError{Field: "form", Key: "error.phone_invalid"}
	}
	fe := verrs[0]
	if mapped, ok := keys[fieldKey{fe.StructField(), fe.Tag()}]; ok {
		return &mapped
	}
	return &FieldError{Field: strings.ToLower(fe.StructField()), Key: "error.phone_invalid"}
}
