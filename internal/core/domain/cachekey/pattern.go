package cachekey

import (
	"strings"

	"github.com/google/uuid"
)

// Wildcard is the only glob marker patterns support, and only in trailing
// position.
const Wildcard = "*"

// Pattern is a glob over Keys. The sole supported form is an exact key or a
// prefix followed by a single trailing "*"; everything before the wildcard
// matches byte-literally, so ids containing regex metacharacters (a literal
// "." for instance) cannot widen the match.
type Pattern string

func (p Pattern) String() string { return string(p) }

// Matches reports whether key falls under the pattern.
func (p Pattern) Matches(key Key) bool {
	s := string(p)
	if prefix, ok := strings.CutSuffix(s, Wildcard); ok {
		return strings.HasPrefix(string(key), prefix)
	}
	return string(key) == s
}

// UserPattern matches every key derived from a user (record, sessions,
// session contexts are keyed under "session:" and need their own pattern).
func UserPattern(userID uuid.UUID) Pattern {
	return Pattern("user:" + userID.String() + ":" + Wildcard)
}

// SessionContextPattern matches every hydrated session context of a user.
func SessionContextPattern(userID uuid.UUID) Pattern {
	return Pattern("session:" + userID.String() + ":" + Wildcard)
}

// TenantPattern matches every key derived from a tenant.
func TenantPattern(tenantID uuid.UUID) Pattern {
	return Pattern("tenant:" + tenantID.String() + ":" + Wildcard)
}

// ActivityByUserPattern matches a user's activity feeds.
func ActivityByUserPattern(userID uuid.UUID) Pattern {
	return Pattern("activity:user:" + userID.String() + Wildcard)
}

// ActivityByTenantPattern matches a tenant's activity feeds.
func ActivityByTenantPattern(tenantID uuid.UUID) Pattern {
	return Pattern("activity:tenant:" + tenantID.String() + Wildcard)
}

// NotificationsPattern matches every notification key of a user (pages and
// the unread counter).
func NotificationsPattern(userID uuid.UUID) Pattern {
	return Pattern("notifications:" + userID.String() + ":" + Wildcard)
}

// PrefixPattern builds a pattern from a raw prefix. Administrative paths use
// it to target arbitrary namespaces; application code should prefer the
// per-entity constructors.
func PrefixPattern(prefix string) Pattern {
	return Pattern(prefix + Wildcard)
}
