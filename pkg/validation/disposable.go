package validation

import "strings"

// defaultDisposableDomains is a small built-in denylist of throwaway mail
// providers. Deployments extend it through configuration.
var defaultDisposableDomains = []string{
	"10minutemail.com",
	"dispostable.com",
	"emailondeck.com",
	"fakeinbox.com",
	"getnada.com",
	"guerrillamail.com",
	"guerrillamail.net",
	"mailinator.com",
	"maildrop.cc",
	"mintemail.com",
	"mohmal.com",
	"sharklasers.com",
	"temp-mail.org",
	"tempmail.com",
	"throwawaymail.com",
	"trashmail.com",
	"yopmail.com",
}

type domainSet map[string]struct{}

func newDomainSet(extra []string) domainSet {
	s := make(domainSet, len(defaultDisposableDomains)+len(extra))
	for _, d := range defaultDisposableDomains {
		s[d] = struct{}{}
	}
	for _, d := range extra {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			s[d] = struct{}{}
		}
	}
	return s
}

// contains matches the domain itself or any parent domain, so
// "eu.mailinator.com" is caught by "mailinator.com".
func (s domainSet) contains(domain string) bool {
	for domain != "" {
		if _, ok := s[domain]; ok {
			return true
		}
		i := strings.IndexByte(domain, '.')
		if i < 0 {
			return false
		}
		domain = domain[i+1:]
	}
	return false
}
