// Package cachekey is the single producer of cache keys. Application code
// never concatenates key strings itself; it asks this package for a Key so
// that entity namespaces stay collision-free and invalidation patterns stay
// in sync with the keys they target.
package cachekey

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Key is an opaque cache key. Construct through the functions in this
// package only; a Key is a pure value and may be copied freely.
type Key string

func (k Key) String() string { return string(k) }

// UserByID keys a user record.
func UserByID(userID uuid.UUID) Key {
	return Key("user:" + userID.String())
}

// UserSessions keys the active-session list of a user.
func UserSessions(userID uuid.UUID) Key {
	return Key("user:" + userID.String() + ":sessions")
}

// SessionContext keys a hydrated session derived from unstable request
// context (the raw cookie header). The header is hashed with xxhash64 to
// bound key length; the hash is not cryptographic and a collision only
// risks serving another request's session artifact until the short TTL
// lapses. Prefer SessionContextForRequest when a request id exists.
func SessionContext(userID uuid.UUID, cookieHeader string) Key {
	sum := xxhash.Sum64String(cookieHeader)
	return Key("session:" + userID.String() + ":ctx:" + strconv.FormatUint(sum, 16))
}

// SessionContextForRequest salts the session-context key with the request id
// when one is available, falling back to the bare hash when it is empty.
func SessionContextForRequest(userID uuid.UUID, cookieHeader, requestID string) Key {
	if requestID == "" {
		return SessionContext(userID, cookieHeader)
	}
	sum := xxhash.Sum64String(requestID + "\x00" + cookieHeader)
	return Key("session:" + userID.String() + ":ctx:" + strconv.FormatUint(sum, 16))
}

// TenantByID keys a tenant record.
func TenantByID(tenantID uuid.UUID) Key {
	return Key("tenant:" + tenantID.String())
}

// TenantMembers keys the member list of a tenant.
func TenantMembers(tenantID uuid.UUID) Key {
	return Key("tenant:" + tenantID.String() + ":members")
}

// TenantSubscription keys the resolved subscription of a tenant.
func TenantSubscription(tenantID uuid.UUID) Key {
	return Key("tenant:" + tenantID.String() + ":subscription")
}

// BillingCustomer keys a customer record mirrored from the billing provider.
// The id is the provider's own identifier, not one of ours.
func BillingCustomer(customerID string) Key {
	return Key("billing:customer:" + customerID)
}

// BillingSubscription keys a subscription record mirrored from the billing
// provider.
func BillingSubscription(subscriptionID string) Key {
	return Key("billing:subscription:" + subscriptionID)
}

// ActivityByUser keys the recent-activity feed of an acting user.
func ActivityByUser(userID uuid.UUID) Key {
	return Key("activity:user:" + userID.String())
}

// ActivityByTenant keys the recent-activity feed of a tenant.
func ActivityByTenant(tenantID uuid.UUID) Key {
	return Key("activity:tenant:" + tenantID.String())
}

// RateLimitBucket keys a fixed-window rate-limit counter. windowStart is the
// unix timestamp of the truncated window so consecutive windows never share
// a bucket.
func RateLimitBucket(scope string, tenantID uuid.UUID, windowStart int64) Key {
	return Key(fmt.Sprintf("ratelimit:%s:%s:%d", scope, tenantID.String(), windowStart))
}

// NotificationPage keys one page of a user's notification list.
func NotificationPage(userID uuid.UUID, page int) Key {
	return Key(fmt.Sprintf("notifications:%s:page:%d", userID.String(), page))
}

// NotificationUnreadCount keys a user's unread-notification counter.
func NotificationUnreadCount(userID uuid.UUID) Key {
	return Key("notifications:" + userID.String() + ":unread")
}
