package cachekey

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestConstructorsAreDeterministic(t *testing.T) {
	userID := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	tenantID := uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8")

	assert.Equal(t, UserByID(userID), UserByID(userID))
	assert.Equal(t, TenantMembers(tenantID), TenantMembers(tenantID))
	assert.Equal(t, NotificationPage(userID, 3), NotificationPage(userID, 3))
	assert.Equal(t, SessionContext(userID, "sid=abc"), SessionContext(userID, "sid=abc"))
}

func TestDifferentIdentifiersNeverCollide(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	assert.NotEqual(t, UserByID(a), UserByID(b))
	assert.NotEqual(t, UserByID(a), TenantByID(a))
	assert.NotEqual(t, TenantByID(a), TenantMembers(a))
	assert.NotEqual(t, NotificationPage(a, 1), NotificationPage(a, 2))
	assert.NotEqual(t, BillingCustomer("cus_1"), BillingSubscription("cus_1"))
	assert.NotEqual(t, ActivityByUser(a), ActivityByTenant(a))
	assert.NotEqual(t, RateLimitBucket("api", a, 100), RateLimitBucket("api", a, 160))
}

func TestSessionContextBoundsKeyLength(t *testing.T) {
	userID := uuid.New()
	huge := strings.Repeat("cookie=value; ", 500)

	k := SessionContext(userID, huge)
	assert.Less(t, len(k.String()), 100)
	assert.NotEqual(t, SessionContext(userID, "a"), SessionContext(userID, "b"))
}

func TestSessionContextForRequestSaltsWithRequestID(t *testing.T) {
	userID := uuid.New()

	salted := SessionContextForRequest(userID, "sid=abc", "req-1")
	assert.NotEqual(t, SessionContext(userID, "sid=abc"), salted)
	assert.NotEqual(t, salted, SessionContextForRequest(userID, "sid=abc", "req-2"))

	// no request id falls back to the bare hash
	assert.Equal(t, SessionContext(userID, "sid=abc"), SessionContextForRequest(userID, "sid=abc", ""))
}

func TestPatternMatchesPrefix(t *testing.T) {
	tenantID := uuid.New()
	p := TenantPattern(tenantID)

	assert.True(t, p.Matches(TenantMembers(tenantID)))
	assert.True(t, p.Matches(TenantSubscription(tenantID)))
	assert.False(t, p.Matches(TenantByID(tenantID))) // record key has no suffix
	assert.False(t, p.Matches(TenantMembers(uuid.New())))
}

func TestPatternWithoutWildcardMatchesExactly(t *testing.T) {
	p := Pattern("tenant:42")
	assert.True(t, p.Matches(Key("tenant:42")))
	assert.False(t, p.Matches(Key("tenant:421")))
	assert.False(t, p.Matches(Key("tenant:4")))
}

func TestPatternTreatsMetacharactersLiterally(t *testing.T) {
	// a "." in an id must not act as a regex wildcard
	p := PrefixPattern("billing:customer:cus.1:")
	assert.True(t, p.Matches(Key("billing:customer:cus.1:plan")))
	assert.False(t, p.Matches(Key("billing:customer:cusX1:plan")))
}

func TestNotificationsPatternCoversPagesAndCounter(t *testing.T) {
	userID := uuid.New()
	p := NotificationsPattern(userID)

	assert.True(t, p.Matches(NotificationPage(userID, 1)))
	assert.True(t, p.Matches(NotificationUnreadCount(userID)))
	assert.False(t, p.Matches(NotificationPage(uuid.New(), 1)))
}
