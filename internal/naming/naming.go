// Package naming derives the resource name prefix every declared resource is
// keyed by. The prefix is the collision namespace across environments, so its
// derivation must be deterministic: the same (application, service,
// environment) tuple always yields the same string.
package naming

import (
	"strings"
)

// MaxPrefixLength bounds the prefix so suffixed resource names stay inside
// the tightest platform limit (load balancer and target group names cap at
// 32 characters).
const MaxPrefixLength = 32

// Prefix derives the resource name prefix from the application identity:
// "{application}-{service}-{environment}", lower-cased, restricted to
// [a-z0-9-], collapsed hyphens, bounded to MaxPrefixLength, and never ending
// in a hyphen. The environment segment survives truncation intact, since it
// is what keeps physical names distinct across environments: a long
// application name shortens, the environment never does.
func Prefix(application, service, environment string) string {
	head := collapse(strings.Join([]string{
		sanitize(application),
		sanitize(service),
	}, "-"))
	env := collapse(sanitize(environment))
	if env == "" {
		return truncate(head, MaxPrefixLength)
	}

	budget := MaxPrefixLength - len(env) - 1
	if budget < 1 {
		budget = 1
	}
	return truncate(head, budget) + "-" + env
}

// Resource appends a suffix to the prefix, re-bounding the result so the
// suffix survives truncation intact (the suffix is what disambiguates
// resources within one environment). When the prefix must shrink it loses
// its head, not its tail: the environment segment at the end is what keeps
// names distinct across environments.
func Resource(prefix, suffix string) string {
	suffix = collapse(sanitize(suffix))
	budget := MaxPrefixLength - len(suffix) - 1
	if budget < 1 {
		budget = 1
	}
	return truncateHead(prefix, budget) + "-" + suffix
}

// sanitize lower-cases and replaces everything outside [a-z0-9-] with a
// hyphen.
func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteRune('-')
		}
	}
	return b.String()
}

// collapse folds runs of hyphens and strips leading/trailing ones.
func collapse(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevHyphen := false
	for _, r := range s {
		if r == '-' {
			if prevHyphen || b.Len() == 0 {
				continue
			}
			prevHyphen = true
		} else {
			prevHyphen = false
		}
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), "-")
}

// truncate bounds s to n runes without leaving a trailing hyphen.
func truncate(s string, n int) string {
	if len(s) > n {
		s = s[:n]
	}
	return strings.TrimRight(s, "-")
}

// truncateHead bounds s to its last n runes without leaving a hyphen at
// either end.
func truncateHead(s string, n int) string {
	if len(s) > n {
		s = s[len(s)-n:]
	}
	return strings.Trim(s, "-")
}
