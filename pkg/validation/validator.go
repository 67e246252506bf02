package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Init makes Gin's binding validator report fields by their JSON names.
// Request shape checks (binding tags) go through it; account rules go
// through Validator so that every field is reported together.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonTagName)
	}
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// Rule is a single validator tag paired with the message reported when it fails.
type Rule struct {
	Tag     string
	Message string
}

// Validator evaluates field rules without short-circuiting: every rule of
// every field runs and all failures are collected.
type Validator struct {
	v *validator.Validate
}

// New builds a Validator. extraDisposable extends the built-in disposable
// email domain denylist.
func New(extraDisposable ...string) *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonTagName)
	register(v, newDomainSet(extraDisposable))
	return &Validator{v: v}
}

// Required records "<label> is required" when value is blank and reports
// whether the value was present.
func (v *Validator) Required(errs *Errors, field, label, value string) bool {
	if strings.TrimSpace(value) == "" {
		errs.Add(field, label+" is required")
		return false
	}
	return true
}

// Check runs every rule against value, records each failure and reports
// whether all rules passed.
func (v *Validator) Check(errs *Errors, field, value string, rules ...Rule) bool {
	passed := true
	for _, r := range rules {
		if err := v.v.Var(value, r.Tag); err != nil {
			errs.Add(field, r.Message)
			passed = false
		}
	}
	return passed
}

// Field is Required followed by Check when the value is present.
func (v *Validator) Field(errs *Errors, field, label, value string, rules ...Rule) {
	if v.Required(errs, field, label, value) {
		v.Check(errs, field, value, rules...)
	}
}

// Optional runs the rules only when value is non-blank.
func (v *Validator) Optional(errs *Errors, field, value string, rules ...Rule) {
	if strings.TrimSpace(value) != "" {
		v.Check(errs, field, value, rules...)
	}
}

// Rule sets shared by the account workflows.
var (
	UsernameRules = []Rule{
		{Tag: "min=3,max=20", Message: "Username must be 3-20 characters"},
		{Tag: "username", Message: "Username can only contain letters, numbers, and underscores"},
	}
	EmailRules = []Rule{
		{Tag: "max=100", Message: "Email must be at most 100 characters"},
		{Tag: "email", Message: "Invalid email format, use name@example.com"},
		{Tag: "nondisposable", Message: "Disposable email addresses are not allowed"},
	}
	FullNameRules = []Rule{
		{Tag: "min=3,max=50", Message: "FullName must be 3-50 characters"},
		{Tag: "personname", Message: "FullName can only contain letters and spaces"},
	}
	BioRules = []Rule{
		{Tag: "max=500", Message: "Bio must be at most 500 characters"},
	}
	GithubLinkRules = []Rule{
		{Tag: "max=200", Message: "GithubLink must be at most 200 characters"},
		{Tag: "url", Message: "GithubLink must be a valid URL"},
	}
	LinkedInLinkRules = []Rule{
		{Tag: "max=200", Message: "LinkedInLink must be at most 200 characters"},
		{Tag: "url", Message: "LinkedInLink must be a valid URL"},
		{Tag: "linkedin", Message: "LinkedInLink must point to linkedin.com"},
	}
	OtcRules = []Rule{
		{Tag: "otc", Message: "OTP must be a 6-digit code"},
	}
)

// PasswordRules returns the complexity rule labelled for the given field.
func PasswordRules(label string) []Rule {
	return []Rule{{
		Tag:     "strongpwd",
		Message: label + " must have at least 8 characters, including uppercase, lowercase, number, and special character.",
	}}
}

// ToDetails converts binding errors into ordered field errors suitable for API error details.
func ToDetails(err error) Errors {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return Errors{{Field: "payload", Message: "invalid json"}}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(Errors, 0, len(verrs))
		for _, fe := range verrs {
			out.Add(fe.Field(), formatFieldError(fe))
		}
		return out
	}

	return Errors{{Field: "payload", Message: "invalid payload"}}
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "max":
		return "must be at most " + param + " characters long"
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}
