package validation

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	usernamePattern   = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
	personNamePattern = regexp.MustCompile(`^[\p{L}][\p{L} ]*$`)
)

// register installs the account tags (username, strongpwd, personname,
// nondisposable, linkedin, otc) on v.
func register(v *validator.Validate, disposable domainSet) {
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return personNamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("nondisposable", func(fl validator.FieldLevel) bool {
		return !disposable.contains(emailDomain(fl.Field().String()))
	})
	_ = v.RegisterValidation("linkedin", func(fl validator.FieldLevel) bool {
		u, err := url.Parse(fl.Field().String())
		if err != nil {
			return false
		}
		return strings.Contains(strings.ToLower(u.Hostname()), "linkedin.com")
	})
	v.RegisterAlias("otc", "len=6,numeric")
}

// StrongPassword reports whether p has at least 8 characters including a
// lowercase letter, an uppercase letter, a digit and a non-alphanumeric symbol.
func StrongPassword(p string) bool {
	var n int
	var lower, upper, digit, symbol bool
	for _, r := range p {
		n++
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r):
			symbol = true
		}
	}
	return n >= 8 && lower && upper && digit && symbol
}

func emailDomain(email string) string {
	i := strings.LastIndexByte(email, '@')
	if i < 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(email[i+1:]))
}
