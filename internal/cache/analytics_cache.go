package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Kind names a cached analytics resource. Keys are namespaced by kind so
// that a form id and a user id sharing the same value can never collide.
type Kind string

const (
	KindFormAnalytics  Kind = "form_analytics"
	KindDashboardStats Kind = "dashboard_stats"
	KindUserEngagement Kind = "user_engagement"
	KindFormResponses  Kind = "form_responses"
)

// Default TTLs per kind.
const (
	TTLFormAnalytics  = 300 * time.Second
	TTLDashboardStats = 300 * time.Second
	TTLUserEngagement = 600 * time.Second
	TTLFormResponses  = 180 * time.Second
)

// AnalyticsCache fronts every analytics computation. Every mutation path
// that touches a form's responses, answers, or structure must call
// InvalidateForm (or InvalidateUser for account-scoped mutations) or the
// affected entries are served stale until their TTL runs out.
//
// The cache never surfaces an error: a failing store degrades every Get
// to a miss and every Set/Invalidate to a logged no-op, so analytics keep
// computing (just slower) while the store is down.
type AnalyticsCache interface {
	Get(ctx context.Context, kind Kind, id, userID string, out interface{}) bool
	Set(ctx context.Context, kind Kind, id, userID string, value interface{}, ttl time.Duration)
	Invalidate(ctx context.Context, kind Kind, id, userID string)
	InvalidateForm(ctx context.Context, formID, ownerID string)
	InvalidateUser(ctx context.Context, userID string, ownedFormIDs []string)
}

type analyticsCache struct {
	store Store
	log   *logrus.Entry
}

// NewAnalyticsCache creates an analytics cache over the given store.
func NewAnalyticsCache(store Store, log *logrus.Entry) AnalyticsCache {
	return &analyticsCache{store: store, log: log}
}

func cacheKey(kind Kind, id, userID string) string {
	if userID != "" {
		return fmt.Sprintf("analytics:%s:%s:u:%s", kind, id, userID)
	}
	return fmt.Sprintf("analytics:%s:%s", kind, id)
}

// Get unmarshals a live entry into out and reports whether it hit.
// Store errors and corrupt payloads are both treated as a miss.
func (c *analyticsCache) Get(ctx context.Context, kind Kind, id, userID string, out interface{}) bool {
	key := cacheKey(kind, id, userID)
	data, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache get failed")
		return false
	}
	if data == nil {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache entry corrupt, treating as miss")
		return false
	}
	return true
}

// Set serializes value and stores it with the given TTL.
func (c *analyticsCache) Set(ctx context.Context, kind Kind, id, userID string, value interface{}, ttl time.Duration) {
	key := cacheKey(kind, id, userID)
	data, err := json.Marshal(value)
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache marshal failed")
		return
	}
	if err := c.store.Set(ctx, key, data, ttl); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache set failed")
	}
}

// Invalidate deletes one entry; absent entries are a no-op.
func (c *analyticsCache) Invalidate(ctx context.Context, kind Kind, id, userID string) {
	key := cacheKey(kind, id, userID)
	if err := c.store.Delete(ctx, key); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache invalidate failed")
	}
}

// InvalidateForm drops the form's analytics and response snapshot along
// with the owner's dashboard stats.
func (c *analyticsCache) InvalidateForm(ctx context.Context, formID, ownerID string) {
	keys := []string{
		cacheKey(KindFormAnalytics, formID, ""),
		cacheKey(KindFormResponses, formID, ""),
		cacheKey(KindDashboardStats, ownerID, ""),
	}
	if err := c.store.Delete(ctx, keys...); err != nil {
		c.log.WithError(err).WithField("formId", formID).Warn("cache form invalidation failed")
	}
}

// InvalidateUser drops everything cached for a user: dashboard stats,
// engagement, and the analytics of every form the user owns.
func (c *analyticsCache) InvalidateUser(ctx context.Context, userID string, ownedFormIDs []string) {
	keys := []string{
		cacheKey(KindDashboardStats, userID, ""),
		cacheKey(KindUserEngagement, userID, ""),
	}
	for _, formID := range ownedFormIDs {
		keys = append(keys,
			cacheKey(KindFormAnalytics, formID, ""),
			cacheKey(KindFormResponses, formID, ""),
		)
	}
	if err := c.store.Delete(ctx, keys...); err != nil {
		c.log.WithError(err).WithField("userId", userID).Warn("cache user invalidation failed")
	}
}
