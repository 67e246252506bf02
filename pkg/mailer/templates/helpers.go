package templates

import (
	"fmt"
	"time"
)

// Branding carries the company details shown in every email footer.
type Branding struct {
	AppName        string
	CompanyName    string
	CompanyAddress string
	LogoURL        string
	SupportURL     string
}

// Option pattern
type Option func(*EmailData)

func WithName(name string) Option { return func(d *EmailData) { d.Name = name } }

func WithExpiresAt(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04 MST")
	}
}

// WithExpiresIn sets the relative lifetime text, e.g. "10 minutes".
func WithExpiresIn(dur time.Duration) Option {
	return func(d *EmailData) { d.ExpiresInText = humanDuration(dur) }
}

// NewCodeData builds the data for a one-time code email.
func NewCodeData(b Branding, email, code string, opts ...Option) EmailData {
	d := EmailData{
		Email:          email,
		Code:           code,
		AppName:        b.AppName,
		CompanyName:    b.CompanyName,
		CompanyAddress: b.CompanyAddress,
		LogoURL:        b.LogoURL,
		SupportURL:     b.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func humanDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return ""
	case d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d%time.Minute == 0:
		return plural(int(d/time.Minute), "minute")
	default:
		return plural(int(d.Round(time.Second)/time.Second), "second")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
