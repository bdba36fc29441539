// Package redact scrubs secrets and personal data from segment text before a
// transcript is written. Dictated meeting notes routinely contain e-mail
// addresses, phone and card numbers read aloud, and the occasional pasted
// credential.
package redact

import (
	"fmt"
	"regexp"
	"strings"
)

// Kinds of rules.
const (
	KindSecret = "secret"
	KindPII    = "pii"
)

// Rule detects sensitive data in a string and provides a replacement.
type Rule interface {
	Name() string
	Kind() string
	Detect(s string) []Match
	Replacement(m Match) string
}

// Match is a detected occurrence within a string, as byte offsets.
type Match struct {
	Start int
	End   int
	Value string
}

type regexRule struct {
	name    string
	kind    string
	pattern *regexp.Regexp
	valid   func(string) bool // optional post-filter
}

func (r *regexRule) Name() string { return r.name }
func (r *regexRule) Kind() string { return r.kind }

func (r *regexRule) Detect(s string) []Match {
	locs := r.pattern.FindAllStringIndex(s, -1)
	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		v := s[loc[0]:loc[1]]
		if r.valid != nil && !r.valid(v) {
			continue
		}
		matches = append(matches, Match{Start: loc[0], End: loc[1], Value: v})
	}
	return matches
}

func (r *regexRule) Replacement(_ Match) string {
	return fmt.Sprintf("[REDACTED:%s]", r.name)
}

// SecretRules returns the built-in secret detection rules.
func SecretRules() []Rule {
	return []Rule{
		&regexRule{
			name:    "aws_key",
			kind:    KindSecret,
			pattern: regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
		},
		&regexRule{
			name:    "api_key",
			kind:    KindSecret,
			pattern: regexp.MustCompile(`(?:sk-[a-zA-Z0-9]{32,}|ghp_[a-zA-Z0-9]{36,}|glpat-[a-zA-Z0-9\-]{20,})`),
		},
		&regexRule{
			name:    "connection_string",
			kind:    KindSecret,
			pattern: regexp.MustCompile(`(?:postgres|mongodb|mysql|redis)://[^\s"']+`),
		},
	}
}

// PIIRules returns the built-in personal data rules.
func PIIRules() []Rule {
	return []Rule{
		&regexRule{
			name:    "email",
			kind:    KindPII,
			pattern: regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`),
		},
		&regexRule{
			name:    "card",
			kind:    KindPII,
			pattern: regexp.MustCompile(`\b(?:\d[ \-]?){12,18}\d\b`),
			valid:   luhn,
		},
		&regexRule{
			name:    "phone",
			kind:    KindPII,
			pattern: regexp.MustCompile(`(?:\+\d{1,3}[\s\-]?)?\(?\d{2,4}\)?[\s\-]?\d{3,4}[\s\-]?\d{4}\b`),
		},
		&regexRule{
			name:    "ipv4",
			kind:    KindPII,
			pattern: regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`),
		},
	}
}

// luhn reports whether the digits in s pass the Luhn checksum.
func luhn(s string) bool {
	var digits []int
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		}
	}
	if len(digits) < 13 {
		return false
	}
	sum := 0
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if (len(digits)-1-i)%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return sum%10 == 0
}

// ParseKinds parses a comma-separated list such as "pii,secrets" into a
// Config. "all" enables every rule set.
func ParseKinds(s string) (Config, error) {
	var cfg Config
	for _, k := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "":
		case "pii":
			cfg.PII = true
		case "secret", "secrets":
			cfg.Secrets = true
		case "all":
			cfg.PII, cfg.Secrets = true, true
		default:
			return Config{}, fmt.Errorf("unknown redaction kind %q", k)
		}
	}
	return cfg, nil
}
