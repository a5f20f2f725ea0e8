package auth

import "strings"

// Normalizer maps the username forms users actually type ("first.last",
// "first.last@domain", "DOMAIN\\user") to the canonical principal the
// directory expects. Same input and same configuration always produce the
// same output.
type Normalizer struct {
	// Domain is the principal suffix, e.g. "example.com". Usually derived
	// from the directory base DN via DomainFromBaseDN.
	Domain string

	// TitleCase rewrites "first.last" account names to "First.Last".
	// A per-deployment workaround for case-sensitive directories; off by
	// default.
	TitleCase bool
}

// Normalize returns the canonical bind identifier "account@domain" for raw
// user input.
func (n Normalizer) Normalize(raw string) string {
	account := AccountName(raw)
	if n.TitleCase {
		account = titleCaseAccount(account)
	}
	if n.Domain == "" {
		return account
	}
	return account + "@" + n.Domain
}

// AccountName extracts the bare account name from any accepted input form:
// the part before "@", after a "DOMAIN\" prefix, with surrounding
// whitespace stripped.
func AccountName(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.LastIndex(s, `\`); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.Index(s, "@"); i >= 0 {
		s = s[:i]
	}
	return s
}

// DomainFromBaseDN derives the principal domain from a base DN by joining
// its dc= components: "dc=example,dc=com" becomes "example.com".
func DomainFromBaseDN(baseDN string) string {
	parts := strings.Split(baseDN, ",")
	dcs := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if rest, ok := cutPrefixFold(part, "dc="); ok {
			dcs = append(dcs, rest)
		}
	}
	return strings.Join(dcs, ".")
}

// titleCaseAccount uppercases the first letter of each dot-separated name
// segment and lowercases the rest: "j.smith" -> "J.Smith". Segments that
// are not plain name parts are left alone.
func titleCaseAccount(account string) string {
	segs := strings.Split(account, ".")
	for i, seg := range segs {
		if seg == "" {
			continue
		}
		segs[i] = strings.ToUpper(seg[:1]) + strings.ToLower(seg[1:])
	}
	return strings.Join(segs, ".")
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}
